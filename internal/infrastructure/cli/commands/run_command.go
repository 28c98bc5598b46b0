package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"codehelper/internal/app"
	"codehelper/internal/domain"
)

// NewRunCommand creates the run command for direct terminal execution.
// The safety filter screens the command before anything reaches a shell.
func NewRunCommand(container *app.Container) *cobra.Command {
	var workDir string
	var timeoutSeconds int

	cmd := &cobra.Command{
		Use:   "run <command>",
		Short: "Execute a terminal command behind the safety filter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			return executeTerminalCommand(cmd, cmd.OutOrStdout(), container, command, workDir, timeoutSeconds)
		},
	}

	cmd.Flags().StringVar(&workDir, "cwd", "", "Working directory for the command")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", int(domain.DefaultCommandTimeout.Seconds()), "Timeout in seconds")
	return cmd
}

// executeTerminalCommand screens and runs one command, printing the
// captured output by outcome.
func executeTerminalCommand(cmd *cobra.Command, out io.Writer, container *app.Container, command, workDir string, timeoutSeconds int) error {
	if container.Config.Safety.Enabled && !container.Safety.IsSafe(command) {
		fmt.Fprintf(out, "The command '%s' may be potentially dangerous and has been blocked for safety reasons.\n", command)
		fmt.Fprintln(out, "Suggestions:")
		for _, alternative := range container.Safety.Alternatives(command) {
			fmt.Fprintf(out, "- %s\n", alternative)
		}
		return fmt.Errorf("command blocked by safety filter")
	}

	result := container.Executor.Execute(cmd.Context(), command, domain.ExecOptions{
		WorkDir: workDir,
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	})
	if result.Status != domain.StatusSuccess {
		fmt.Fprintf(out, "Command execution failed with exit code %d:\n\n%s\n", result.ExitCode, result.Stderr)
		return fmt.Errorf("command exited with code %d", result.ExitCode)
	}

	fmt.Fprintf(out, "Command executed successfully:\n\n%s\n", result.Stdout)
	return nil
}
