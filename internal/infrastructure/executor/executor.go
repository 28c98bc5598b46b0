// Package executor runs terminal commands on the host shell.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"codehelper/internal/domain"
	"codehelper/internal/ports"
)

// Local runs commands on the host shell.
type Local struct {
	shell string
}

// NewLocal builds a new executor, shell defaults to /bin/sh.
func NewLocal(shell string) *Local {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Local{shell: shell}
}

// Execute implements ports.CommandExecutor. The result always describes the
// outcome; failures are reported through Status rather than an error value.
func (e *Local) Execute(ctx context.Context, command string, opts domain.ExecOptions) domain.CommandResult {
	if command == "" {
		return domain.CommandResult{
			Status:   domain.StatusError,
			Stderr:   "No command provided",
			ExitCode: 1,
			Message:  "No command provided",
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := e.command(ctx, command)
	if opts.WorkDir != "" {
		c.Dir = opts.WorkDir
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		detail := ""
		if err != nil {
			detail = err.Error()
		}
		return domain.CommandResult{
			Status:   domain.StatusError,
			Stderr:   detail,
			ExitCode: domain.TimeoutExitCode,
			Message:  fmt.Sprintf("Command execution timed out after %d seconds", int(timeout.Seconds())),
		}
	}

	result := domain.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Status = domain.StatusSuccess
		result.ExitCode = 0
		result.Message = "Command executed successfully"
	case errors.As(err, &exitErr):
		result.Status = domain.StatusError
		result.ExitCode = exitErr.ExitCode()
		result.Message = fmt.Sprintf("Command failed with exit code %d: %s", exitErr.ExitCode(), result.Stderr)
	default:
		result.Status = domain.StatusError
		result.Stderr = err.Error()
		result.ExitCode = 1
		result.Message = fmt.Sprintf("Error executing command: %v", err)
	}
	return result
}

func (e *Local) command(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, e.shell, "-c", command)
}

var _ ports.CommandExecutor = (*Local)(nil)
