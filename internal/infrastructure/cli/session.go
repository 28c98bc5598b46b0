package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"codehelper/internal/domain"
)

// Session is the interactive read-dispatch-print loop. Dispatch outcomes
// are rendered inside the session; a failed request never ends it.
type Session struct {
	In       io.Reader
	Out      io.Writer
	Dispatch func(context.Context, string) domain.DispatchResult

	// Spinner animates while a dispatch is in flight. Nil when stdout is
	// not a terminal.
	Spinner *Spinner
}

// Run prints the banner and serves requests until the user quits or the
// input reaches EOF.
func (s *Session) Run(ctx context.Context) error {
	reader := bufio.NewReader(s.In)
	s.banner()

	for {
		fmt.Fprint(s.Out, "\n> ")
		line, err := reader.ReadString('\n')
		text := strings.TrimSpace(line)

		if isQuit(text) || (err != nil && text == "") {
			s.goodbye()
			return nil
		}
		if text == "" {
			continue
		}

		fmt.Fprint(s.Out, "\nProcessing your request...\n\n")
		result := s.dispatch(ctx, text)
		RenderDispatchResult(s.Out, result)

		// A final unterminated line has been served; treat it like quit.
		if err != nil {
			s.goodbye()
			return nil
		}
	}
}

func (s *Session) dispatch(ctx context.Context, text string) domain.DispatchResult {
	if s.Spinner != nil {
		s.Spinner.Start()
		defer s.Spinner.Stop()
	}
	return s.Dispatch(ctx, text)
}

func (s *Session) banner() {
	ruler := strings.Repeat("=", 80)
	fmt.Fprintln(s.Out, ruler)
	fmt.Fprintln(s.Out, " AI Code Helper - Interactive Mode ")
	fmt.Fprintln(s.Out, " Type 'exit', 'quit', or 'q' to end the session ")
	fmt.Fprintln(s.Out, " Use !cmd, !run, or !terminal followed by a command to execute terminal commands ")
	fmt.Fprintln(s.Out, ruler)
}

func (s *Session) goodbye() {
	fmt.Fprintln(s.Out, "Exiting AI Code Helper. Goodbye!")
}

func isQuit(text string) bool {
	switch strings.ToLower(text) {
	case "exit", "quit", "q":
		return true
	}
	return false
}
