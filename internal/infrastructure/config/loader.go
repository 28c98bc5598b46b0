// Package config loads the on-disk YAML configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"codehelper/assets"
	"codehelper/internal/domain"
	"codehelper/internal/pkg/filesystem"
	"codehelper/internal/ports"
)

// FileLoader loads YAML configuration from ~/.codehelper/config.yaml
// (overridable via CODEHELPER_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. On first run the embedded default
// configuration is written to disk. User files are unmarshaled over the
// defaults so omitted sections keep their default values instead of
// collapsing to zero.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	defaults, err := defaultConfig()
	if err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := writeDefault(path); err != nil {
				return domain.Config{}, err
			}
			return hydrateDefaults(defaults), nil
		}
		return domain.Config{}, err
	}

	cfg := defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return hydrateDefaults(cfg), nil
}

// Path returns the configuration file location after applying the override
// and environment variable rules.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv("CODEHELPER_CONFIG"); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func writeDefault(path string) error {
	return os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions)
}

func defaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse embedded config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the embedded defaults after hydration, the same
// shape Load produces for an untouched install. Used by config diff.
func DefaultConfig() (domain.Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = int(domain.DefaultCommandTimeout.Seconds())
	}
	if cfg.Workspace.DataDir == "" {
		cfg.Workspace.DataDir = "data"
	}
	if cfg.Installer.Command == "" {
		cfg.Installer.Command = domain.DefaultInstallerCommand
	}
	if cfg.Installer.Runner == "" {
		cfg.Installer.Runner = domain.DefaultRunnerCommand
	}
	if cfg.Installer.MaxRetries == 0 {
		cfg.Installer.MaxRetries = domain.DefaultInstallRetries
	}
	if cfg.Installer.RetryDelaySeconds == 0 {
		cfg.Installer.RetryDelaySeconds = int(domain.DefaultRetryDelay.Seconds())
	}
	if cfg.Installer.InstallTimeoutSeconds == 0 {
		cfg.Installer.InstallTimeoutSeconds = int(domain.DefaultInstallTimeout.Seconds())
	}
	if cfg.Installer.FallbackTimeoutSeconds == 0 {
		cfg.Installer.FallbackTimeoutSeconds = int(domain.DefaultFallbackTimeout.Seconds())
	}
	if cfg.Installer.RunTimeoutSeconds == 0 {
		cfg.Installer.RunTimeoutSeconds = int(domain.DefaultFallbackTimeout.Seconds())
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = int(domain.DefaultCacheTTL.Seconds())
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = domain.DefaultMaxCacheEntries
	}
	for i := range cfg.Models {
		if cfg.Models[i].MaxTokens == 0 {
			cfg.Models[i].MaxTokens = domain.DefaultMaxTokens
		}
		if cfg.Models[i].Temperature == 0 {
			cfg.Models[i].Temperature = domain.DefaultTemperature
		}
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
