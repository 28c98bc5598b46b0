package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"codehelper/internal/app"
)

// NewSafetyCommand creates the safety command with its subcommands.
func NewSafetyCommand(container *app.Container) *cobra.Command {
	safetyCmd := &cobra.Command{
		Use:   "safety",
		Short: "Inspect the command safety filter",
	}

	safetyCmd.AddCommand(
		newSafetyCheckCommand(container),
		newSafetyRulesCommand(container),
	)

	return safetyCmd
}

// newSafetyCheckCommand creates the 'safety check' subcommand
func newSafetyCheckCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "check <command>",
		Short: "Check whether a command would be blocked",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkCommandSafety(cmd.OutOrStdout(), container, strings.Join(args, " "))
		},
	}
}

// newSafetyRulesCommand creates the 'safety rules' subcommand
func newSafetyRulesCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the active deny list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSafetyRules(cmd.OutOrStdout(), container)
		},
	}
}

// checkCommandSafety reports the filter verdict without executing anything.
// A blocked command yields exit code 1 so scripts can test commands.
func checkCommandSafety(out io.Writer, container *app.Container, command string) error {
	if container.Safety.IsSafe(command) {
		fmt.Fprintf(out, "Allowed: %s\n", command)
		return nil
	}

	fmt.Fprintf(out, "Blocked: %s\n", command)
	fmt.Fprintln(out, "Suggestions:")
	for _, alternative := range container.Safety.Alternatives(command) {
		fmt.Fprintf(out, "- %s\n", alternative)
	}
	return fmt.Errorf("command would be blocked")
}

// showSafetyRules displays the deny list and where overrides come from.
func showSafetyRules(out io.Writer, container *app.Container) error {
	status := "disabled"
	if container.Config.Safety.Enabled {
		status = "enabled"
	}
	fmt.Fprintf(out, "Safety filter is %s.\n", status)

	source := container.Config.Safety.RulesFile
	if source == "" {
		source = "embedded defaults"
	}
	fmt.Fprintf(out, "Rules source: %s\n", source)

	fmt.Fprintln(out, "Deny list (matched as substrings, case-insensitive):")
	for _, entry := range container.Safety.DenyEntries() {
		fmt.Fprintf(out, "  %s\n", entry)
	}

	return nil
}
