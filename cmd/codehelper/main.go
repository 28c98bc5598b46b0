package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"codehelper/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{
		Verbose:    isVerbose(os.Args[1:]),
		ConfigPath: configPath(os.Args[1:]),
	}

	root, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrRequestFailed) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// isVerbose pre-scans the arguments because the logger is built before
// cobra parses any flags.
func isVerbose(args []string) bool {
	for _, arg := range args {
		if arg == "--verbose" {
			return true
		}
	}
	debug := os.Getenv("CODEHELPER_DEBUG")
	return strings.EqualFold(debug, "1") || strings.EqualFold(debug, "true")
}

func configPath(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
	}
	return ""
}
