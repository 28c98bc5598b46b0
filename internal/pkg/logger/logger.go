// Package logger adapts zap to the ports.Logger interface.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codehelper/internal/ports"
)

// ZapLogger routes structured logs to a JSON file and, when verbose,
// mirrors them to stderr at debug level.
type ZapLogger struct {
	zl *zap.Logger
}

// New builds the application logger. logFile may be empty, in which case
// only the stderr sink (verbose runs) is active.
func New(verbose bool, logFile string) *ZapLogger {
	var cores []zapcore.Core

	if logFile != "" {
		if file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			encoderCfg := zap.NewProductionEncoderConfig()
			encoderCfg.TimeKey = "ts"
			encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderCfg),
				zapcore.AddSync(file),
				zapcore.InfoLevel,
			))
		}
	}

	if verbose {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderCfg),
			zapcore.AddSync(os.Stderr),
			zapcore.DebugLevel,
		))
	}

	if len(cores) == 0 {
		return &ZapLogger{zl: zap.NewNop()}
	}
	return &ZapLogger{zl: zap.New(zapcore.NewTee(cores...))}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *ZapLogger {
	return &ZapLogger{zl: zap.NewNop()}
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() {
	_ = l.zl.Sync()
}

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.zl.Debug(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.zl.Info(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.zl.Warn(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Error(msg string, err error, fields map[string]interface{}) {
	zf := toZapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l.zl.Error(msg, zf...)
}

func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	zf := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		zf = append(zf, zap.Any(key, value))
	}
	return zf
}

var _ ports.Logger = (*ZapLogger)(nil)
