package cli

import (
	"fmt"
	"io"

	"codehelper/internal/domain"
)

// RenderDispatchResult prints a dispatch outcome in a friendly,
// ASCII-only format: the response text on success, an error line plus
// any suggestion block on failure.
func RenderDispatchResult(out io.Writer, result domain.DispatchResult) {
	if result.Status == domain.StatusSuccess {
		fmt.Fprintln(out, result.Response)
	} else {
		message := result.ErrorMessage
		if message == "" {
			message = "Unknown error"
		}
		fmt.Fprintf(out, "Error: %s\n", message)
	}
	if result.AdditionalInfo != "" {
		fmt.Fprintln(out, result.AdditionalInfo)
	}
}

// RenderProjectResult prints the project workflow outcome: the artifact
// summary followed by the captured install and run outputs so the user
// can judge whether the generated project actually works.
func RenderProjectResult(out io.Writer, result domain.ProjectResult) {
	if result.Status != domain.StatusSuccess {
		message := result.ErrorMessage
		if message == "" {
			message = "Unknown error"
		}
		fmt.Fprintf(out, "Error: %s\n", message)
		return
	}

	fmt.Fprintln(out, result.Message)
	fmt.Fprintf(out, "\nInstall attempts: %d\n", result.Attempts)

	printSection(out, "Install output:", result.InstallStdout)
	printSection(out, "Install errors:", result.InstallStderr)
	printSection(out, "Script output:", result.RunStdout)
	printSection(out, "Script errors:", result.RunStderr)
}

func printSection(out io.Writer, header, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(out, "\n%s\n%s\n", header, body)
}
