// Package cli assembles the cobra command tree and the interactive
// session around the application container.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"codehelper/internal/app"
	"codehelper/internal/domain"
	"codehelper/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration resolved before cobra parses
// flags: the logger has to exist before any command runs, so main scans
// the arguments for verbosity itself.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// ErrRequestFailed signals a failure that was already rendered; main
// turns it into exit code 1 without printing anything further.
var ErrRequestFailed = errors.New("request failed")

// NewRootCmd builds the container and wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, app.Options{
		Verbose:    opts.Verbose,
		ConfigPath: opts.ConfigPath,
	})
	if err != nil {
		return nil, err
	}

	var (
		model       string
		interactive bool
		request     string
		codeFile    string
		projectDesc string
		verbose     bool
		configPath  string
	)

	root := &cobra.Command{
		Use:   "codehelper",
		Short: "AI Code Helper - a natural language coding assistant",
		Long: "codehelper forwards natural-language requests to a hosted chat model:\n" +
			"generate, explain, review, refactor, fix, complete, and analyze code,\n" +
			"or run terminal commands behind a safety filter.",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case projectDesc != "":
				return runProjectMode(cmd, container, model, projectDesc)
			case interactive:
				return runInteractiveMode(cmd, container, model)
			case request != "":
				return runRequestMode(cmd, container, model, request, codeFile)
			default:
				return errors.New("please specify --interactive, --request, --generate-project, " +
					"or a file operation command. Use --help for more information")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&model, "model", "", "Model to use (default from config)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	root.Flags().BoolVar(&interactive, "interactive", false, "Run in interactive mode")
	root.Flags().StringVar(&request, "request", "", "Process a single request and exit")
	root.Flags().StringVar(&codeFile, "code_file", "", "File containing code to include with --request")
	root.Flags().StringVar(&projectDesc, "generate-project", "", "Generate a full project: write the code, install dependencies, and run it")

	root.AddCommand(
		commands.NewRunCommand(container),
		commands.NewMkdirCommand(container),
		commands.NewRmdirCommand(container),
		commands.NewLsCommand(container),
		commands.NewMvCommand(container),
		commands.NewCpCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewCacheCommand(container),
		commands.NewConfigCommand(container),
		commands.NewModelsCommand(container),
		commands.NewSafetyCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root, nil
}

// runRequestMode processes one request and exits. A code file, when
// readable, is prepended to the request inside a fence.
func runRequestMode(cmd *cobra.Command, container *app.Container, model, request, codeFile string) error {
	service, err := container.Dispatcher(model)
	if err != nil {
		return err
	}

	request = composeRequest(container, request, codeFile)
	result := service.Dispatch(cmd.Context(), request)
	RenderDispatchResult(cmd.OutOrStdout(), result)
	if result.Status != domain.StatusSuccess {
		return ErrRequestFailed
	}
	return nil
}

// runInteractiveMode starts the read-dispatch-print loop. Dispatch
// failures are rendered inside the session and never end it.
func runInteractiveMode(cmd *cobra.Command, container *app.Container, model string) error {
	service, err := container.Dispatcher(model)
	if err != nil {
		return err
	}

	session := &Session{
		In:       cmd.InOrStdin(),
		Out:      cmd.OutOrStdout(),
		Dispatch: service.Dispatch,
	}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		session.Spinner = NewSpinner(os.Stdout)
	}
	return session.Run(cmd.Context())
}

// runProjectMode drives the full project workflow and prints the install
// and run outputs for the user to judge.
func runProjectMode(cmd *cobra.Command, container *app.Container, model, description string) error {
	service, err := container.ProjectService(model)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Generating project... This may take a few minutes.")

	result, err := service.Generate(cmd.Context(), description)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return ErrRequestFailed
	}
	RenderProjectResult(out, result)
	if result.Status != domain.StatusSuccess {
		return ErrRequestFailed
	}
	return nil
}

// composeRequest prepends the contents of codeFile to the request. An
// unreadable file is logged and the request goes through unchanged.
func composeRequest(container *app.Container, request, codeFile string) string {
	if codeFile == "" {
		return request
	}
	content, err := os.ReadFile(codeFile)
	if err != nil {
		container.Logger.Error("failed to read code file", err, map[string]interface{}{"path": codeFile})
		return request
	}
	return fmt.Sprintf("The following code:\n\n```\n%s\n```\n\n%s", string(content), request)
}
