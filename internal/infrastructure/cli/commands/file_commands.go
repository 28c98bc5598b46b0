package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"codehelper/internal/app"
	"codehelper/internal/domain"
)

// NewMkdirCommand creates the mkdir command.
func NewMkdirCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := container.Files.CreateDirectory(args[0])
			return printOperationResult(cmd.OutOrStdout(), message, err)
		},
	}
}

// NewRmdirCommand creates the rmdir command. The directory is removed
// together with its contents.
func NewRmdirCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir <path>",
		Short: "Delete a directory and its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := container.Files.DeleteDirectory(args[0])
			return printOperationResult(cmd.OutOrStdout(), message, err)
		},
	}
}

// NewLsCommand creates the ls command.
func NewLsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <path>",
		Short: "List directory contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := container.Files.ListDirectory(args[0])
			if err != nil {
				return err
			}
			printDirListing(cmd.OutOrStdout(), listing)
			return nil
		},
	}
}

// NewMvCommand creates the mv command.
func NewMvCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <source> <destination>",
		Short: "Move a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := container.Files.MoveFile(args[0], args[1])
			return printOperationResult(cmd.OutOrStdout(), message, err)
		},
	}
}

// NewCpCommand creates the cp command.
func NewCpCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "cp <source> <destination>",
		Short: "Copy a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := container.Files.CopyFile(args[0], args[1])
			return printOperationResult(cmd.OutOrStdout(), message, err)
		},
	}
}

// printOperationResult prints the success message of a file operation;
// errors propagate to main for the single error line and exit code 1.
func printOperationResult(out io.Writer, message string, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(out, message)
	return nil
}

// printDirListing prints files and directories in separate sections.
func printDirListing(out io.Writer, listing domain.DirListing) {
	fmt.Fprintln(out, "\nFiles:")
	for _, file := range listing.Files {
		fmt.Fprintf(out, "  %s\n", file)
	}
	fmt.Fprintln(out, "\nDirectories:")
	for _, dir := range listing.Directories {
		fmt.Fprintf(out, "  %s\n", dir)
	}
}
