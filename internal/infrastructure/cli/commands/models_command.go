package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"codehelper/internal/app"
	"codehelper/internal/domain"
	"codehelper/internal/ports"
)

// NewModelsCommand creates the models command with its subcommands.
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect configured chat models",
	}

	modelsCmd.AddCommand(
		newModelsListCommand(container),
		newModelsTestCommand(container),
	)

	return modelsCmd
}

// newModelsListCommand creates the 'models list' subcommand
func newModelsListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.OutOrStdout(), container.Config)
		},
	}
}

// newModelsTestCommand creates the 'models test' subcommand
func newModelsTestCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "test <name>",
		Short: "Send a short round-trip request to a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return testModel(cmd.Context(), cmd.OutOrStdout(), container, args[0])
		},
	}
}

// listModels prints the model table, marking the default.
func listModels(out io.Writer, cfg domain.Config) error {
	if len(cfg.Models) == 0 {
		return domain.ErrNoModels
	}

	for _, model := range cfg.Models {
		marker := " "
		if model.Name == cfg.Preferences.DefaultModel {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-16s %-10s %s\n", marker, model.Name, model.Provider, model.ModelID)
	}

	return nil
}

// testModel builds a client for the named model (failing fast on a missing
// credential) and performs one tiny completion.
func testModel(ctx context.Context, out io.Writer, container *app.Container, name string) error {
	client, err := container.ChatClient(name)
	if err != nil {
		return fmt.Errorf("model %s unusable: %w", name, err)
	}

	resp, err := client.Complete(ctx, ports.ChatRequest{
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "Reply with a single word: OK"},
		},
	})
	if err != nil {
		return fmt.Errorf("model %s request failed: %w", name, err)
	}

	fmt.Fprintf(out, "Model %s responded: %s\n", name, firstLine(resp.Text))
	return nil
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx != -1 {
		return text[:idx]
	}
	return text
}
