// Package dispatch classifies natural-language requests into intents and
// routes each one to its handler. The rule list is ordered; the first
// matching rule wins and the freeform rule always matches.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"codehelper/internal/code"
	"codehelper/internal/domain"
	"codehelper/internal/ports"
	"codehelper/internal/prompt"
)

// LibraryInstaller is the slice of the project workflow the dispatcher
// needs for the library installation intent.
type LibraryInstaller interface {
	InstallLibraries(ctx context.Context, request string) (domain.ProjectResult, error)
}

// Service routes requests. All collaborators are injected; History is
// optional and recording failures never fail a dispatch.
type Service struct {
	Chat      ports.ChatClient
	Safety    ports.SafetyFilter
	Executor  ports.CommandExecutor
	Writer    ports.ArtifactWriter
	Installer LibraryInstaller
	History   ports.HistoryRepository
	Logger    ports.Logger

	// SafetyEnabled mirrors the config toggle. When false, commands skip
	// the deny list entirely.
	SafetyEnabled bool
	// ModelName is recorded in history rows.
	ModelName string
	// CommandTimeout bounds terminal-intent commands. Zero falls back to
	// the executor default.
	CommandTimeout time.Duration
	// Clock is injectable for tests and defaults to time.Now.
	Clock func() time.Time
}

// terminalPrefixes mark a request as a direct terminal command.
var terminalPrefixes = []string{"!cmd", "!run", "!terminal"}

// installKeywords trigger the library installation intent. The Turkish
// entries are part of the recognized vocabulary.
var installKeywords = []string{"kütüphane", "library", "kur", "install", "yükle", "gerekli"}

type rule struct {
	intent domain.Intent
	match  func(raw, lower string) bool
}

// rules is consulted in order; Classify returns the first match and
// falls through to freeform.
var rules = []rule{
	{domain.IntentTerminalCommand, func(raw, _ string) bool {
		for _, prefix := range terminalPrefixes {
			if strings.HasPrefix(raw, prefix) {
				return true
			}
		}
		return false
	}},
	{domain.IntentInstallLibraries, func(_, lower string) bool {
		for _, keyword := range installKeywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
		return false
	}},
	{domain.IntentGenerateCode, func(_, lower string) bool {
		return strings.Contains(lower, "generate code") || strings.Contains(lower, "create code")
	}},
	{domain.IntentExplainCode, func(_, lower string) bool {
		return strings.Contains(lower, "explain") && strings.Contains(lower, "code")
	}},
	{domain.IntentReviewCode, func(_, lower string) bool {
		return strings.Contains(lower, "review") && strings.Contains(lower, "code")
	}},
	{domain.IntentRefactorCode, func(_, lower string) bool {
		return strings.Contains(lower, "refactor")
	}},
	{domain.IntentFixBug, func(_, lower string) bool {
		return strings.Contains(lower, "fix") && (strings.Contains(lower, "bug") || strings.Contains(lower, "error"))
	}},
	{domain.IntentCompleteCode, func(_, lower string) bool {
		return strings.Contains(lower, "complete") || strings.Contains(lower, "finish")
	}},
	{domain.IntentAnalyzeCode, func(_, lower string) bool {
		return strings.Contains(lower, "analyze")
	}},
}

// Classify maps a request to its intent. Keyword checks run against the
// lower-cased text; the terminal prefix check sees the raw text.
func Classify(text string) domain.Intent {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.match(text, lower) {
			return r.intent
		}
	}
	return domain.IntentFreeform
}

// Dispatch processes one request end to end. Handler failures are folded
// into the result; the method never returns a Go error so callers always
// have something to render.
func (s *Service) Dispatch(ctx context.Context, text string) domain.DispatchResult {
	if err := s.checkDependencies(); err != nil {
		return domain.DispatchResult{Status: domain.StatusError, Intent: domain.IntentFreeform, ErrorMessage: err.Error()}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := s.now()
	intent := Classify(text)
	s.Logger.Debug("request classified", map[string]interface{}{"intent": string(intent)})

	result, err := s.handle(ctx, intent, text)
	if err == nil && result.Status == domain.StatusSuccess && savesCode(intent) {
		result, err = s.saveExtractedCode(result, intent, text)
	}
	if err != nil {
		s.Logger.Error("request failed", err, map[string]interface{}{"intent": string(intent)})
		result = domain.DispatchResult{Status: domain.StatusError, ErrorMessage: err.Error()}
	}
	result.Intent = intent
	result.DurationMS = s.now().Sub(start).Milliseconds()
	s.record(text, result)
	return result
}

func (s *Service) handle(ctx context.Context, intent domain.Intent, text string) (domain.DispatchResult, error) {
	switch intent {
	case domain.IntentTerminalCommand:
		return s.runTerminal(ctx, text), nil
	case domain.IntentInstallLibraries:
		return s.installLibraries(ctx, text)
	case domain.IntentGenerateCode:
		return s.generateCode(ctx, text)
	case domain.IntentExplainCode:
		return s.describeCode(ctx, text, prompt.Explanation, "explanation")
	case domain.IntentReviewCode:
		return s.describeCode(ctx, text, prompt.Review, "review")
	case domain.IntentRefactorCode:
		return s.refactorCode(ctx, text)
	case domain.IntentFixBug:
		return s.fixBug(ctx, text)
	case domain.IntentCompleteCode:
		return s.completeCode(ctx, text)
	case domain.IntentAnalyzeCode:
		return s.analyzeCode(text), nil
	default:
		return s.freeform(ctx, text)
	}
}

// runTerminal strips the prefix and executes the remainder, subject to
// the safety filter. Outcomes are encoded in the result, never as errors.
func (s *Service) runTerminal(ctx context.Context, text string) domain.DispatchResult {
	command := ""
	if idx := strings.Index(text, " "); idx != -1 {
		command = strings.TrimSpace(text[idx+1:])
	}
	if command == "" {
		return domain.DispatchResult{Status: domain.StatusError, ErrorMessage: "No command provided"}
	}

	if s.SafetyEnabled && !s.Safety.IsSafe(command) {
		suggestions := s.Safety.Alternatives(command)
		lines := make([]string, 0, len(suggestions))
		for _, alt := range suggestions {
			lines = append(lines, "- "+alt)
		}
		return domain.DispatchResult{
			Status:         domain.StatusError,
			ErrorMessage:   fmt.Sprintf("The command '%s' may be potentially dangerous and has been blocked for safety reasons.", command),
			AdditionalInfo: "Suggestions:\n" + strings.Join(lines, "\n"),
			Suggestions:    suggestions,
		}
	}

	run := s.Executor.Execute(ctx, command, domain.ExecOptions{Timeout: s.CommandTimeout})
	if run.Status == domain.StatusSuccess {
		return domain.DispatchResult{
			Status:   domain.StatusSuccess,
			Response: fmt.Sprintf("Command executed successfully:\n\n```\n%s\n```", run.Stdout),
		}
	}
	return domain.DispatchResult{
		Status:       domain.StatusError,
		ErrorMessage: fmt.Sprintf("Command execution failed with exit code %d:\n\n```\n%s\n```", run.ExitCode, run.Stderr),
	}
}

func (s *Service) installLibraries(ctx context.Context, text string) (domain.DispatchResult, error) {
	install, err := s.Installer.InstallLibraries(ctx, text)
	if err != nil {
		return domain.DispatchResult{}, err
	}
	return domain.DispatchResult{
		Status:           install.Status,
		Response:         install.Message,
		RequirementsPath: install.RequirementsPath,
		Stdout:           install.InstallStdout,
		Stderr:           install.InstallStderr,
	}, nil
}

func (s *Service) generateCode(ctx context.Context, text string) (domain.DispatchResult, error) {
	rendered, err := prompt.Render(prompt.Generation, map[string]string{
		"language":           code.GenerationLanguage(text),
		"task_description":   text,
		"additional_context": "",
	})
	if err != nil {
		return domain.DispatchResult{}, err
	}
	return s.modelResult(ctx, rendered)
}

// describeCode backs the explanation and review intents, which share a
// shape: inline code plus a language inferred from the request.
func (s *Service) describeCode(ctx context.Context, text, templateName, purpose string) (domain.DispatchResult, error) {
	body, _, ok := code.InlineCode(text)
	if !ok {
		return fenceHint(purpose), nil
	}
	rendered, err := prompt.Render(templateName, map[string]string{
		"language": requestLanguage(text),
		"code":     body,
	})
	if err != nil {
		return domain.DispatchResult{}, err
	}
	return s.modelResult(ctx, rendered)
}

func (s *Service) refactorCode(ctx context.Context, text string) (domain.DispatchResult, error) {
	body, tail, ok := code.InlineCode(text)
	if !ok {
		return fenceHint("refactoring"), nil
	}
	goals := tail
	if goals == "" {
		goals = "Improve code quality, readability, and maintainability."
	}
	rendered, err := prompt.Render(prompt.Refactoring, map[string]string{
		"language":          requestLanguage(text),
		"code":              body,
		"refactoring_goals": goals,
	})
	if err != nil {
		return domain.DispatchResult{}, err
	}
	return s.modelResult(ctx, rendered)
}

func (s *Service) fixBug(ctx context.Context, text string) (domain.DispatchResult, error) {
	body, tail, ok := code.InlineCode(text)
	if !ok {
		return fenceHint("bug fixing"), nil
	}
	description := tail
	if description == "" {
		description = "Fix the bug in the code."
	}
	rendered, err := prompt.Render(prompt.BugFix, map[string]string{
		"language":          requestLanguage(text),
		"code":              body,
		"bug_description":   description,
		"expected_behavior": "The code should work correctly.",
	})
	if err != nil {
		return domain.DispatchResult{}, err
	}
	return s.modelResult(ctx, rendered)
}

func (s *Service) completeCode(ctx context.Context, text string) (domain.DispatchResult, error) {
	body, tail, ok := code.InlineCode(text)
	if !ok {
		return fenceHint("completion"), nil
	}
	instruction := tail
	if instruction == "" {
		instruction = "Complete the code according to best practices."
	}
	rendered, err := prompt.Render(prompt.Completion, map[string]string{
		"language":               requestLanguage(text),
		"code_snippet":           body,
		"completion_instruction": instruction,
	})
	if err != nil {
		return domain.DispatchResult{}, err
	}
	return s.modelResult(ctx, rendered)
}

// analyzeCode reports on the snippet locally; no model call is made.
func (s *Service) analyzeCode(text string) domain.DispatchResult {
	body, _, ok := code.InlineCode(text)
	if !ok {
		return fenceHint("analysis")
	}
	meta := code.Metadata(body)
	language := meta.Language
	if language == "" {
		language = "Unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Code Analysis Results:\n\nLanguage: %s\nLines of Code: %d\n", language, meta.LineCount)
	if len(meta.Imports) > 0 {
		b.WriteString("\nImports:\n")
		for _, imp := range meta.Imports {
			fmt.Fprintf(&b, "- %s\n", imp)
		}
	}
	if len(meta.Frameworks) > 0 {
		b.WriteString("\nFrameworks Detected:\n")
		for _, framework := range meta.Frameworks {
			fmt.Fprintf(&b, "- %s\n", framework)
		}
	}
	return domain.DispatchResult{Status: domain.StatusSuccess, Response: b.String()}
}

// freeform sends the raw request to the model under the system preamble.
func (s *Service) freeform(ctx context.Context, text string) (domain.DispatchResult, error) {
	return s.modelResult(ctx, text)
}

// modelResult sends one user message under the system preamble and wraps
// the reply as a successful result.
func (s *Service) modelResult(ctx context.Context, userContent string) (domain.DispatchResult, error) {
	response, err := s.Chat.Complete(ctx, ports.ChatRequest{
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: prompt.System},
			{Role: domain.RoleUser, Content: userContent},
		},
	})
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("model call: %w", err)
	}
	return domain.DispatchResult{Status: domain.StatusSuccess, Response: response.Text}, nil
}

// savesCode reports whether an intent participates in the save post-step.
// Terminal and install results return directly.
func savesCode(intent domain.Intent) bool {
	return intent != domain.IntentTerminalCommand && intent != domain.IntentInstallLibraries
}

// saveExtractedCode persists the first fenced block of a response and
// appends the saved path to the user-visible text.
func (s *Service) saveExtractedCode(result domain.DispatchResult, intent domain.Intent, text string) (domain.DispatchResult, error) {
	block, ok := code.FirstBlock(result.Response)
	if !ok {
		return result, nil
	}
	prefix, language := savePlan(intent, text)
	if language == "" {
		language = block.Language
	}
	saved, err := s.Writer.SaveCode(block.Body, language, prefix)
	if err != nil {
		return result, fmt.Errorf("save extracted code: %w", err)
	}
	result.SavedFile = &saved
	result.Response += fmt.Sprintf("\n\n[Code saved to file: %s]", saved.Path)
	return result, nil
}

// savePlan picks the file prefix and language for the save post-step.
// An empty language defers to the fence tag, and failing that to body
// detection inside the writer.
func savePlan(intent domain.Intent, text string) (prefix, language string) {
	switch intent {
	case domain.IntentGenerateCode:
		return "generated_code", code.GenerationLanguage(text)
	case domain.IntentRefactorCode:
		return "refactored_code", requestLanguage(text)
	case domain.IntentFixBug:
		return "fixed_code", requestLanguage(text)
	case domain.IntentCompleteCode:
		return "completed_code", requestLanguage(text)
	case domain.IntentExplainCode, domain.IntentReviewCode, domain.IntentAnalyzeCode:
		return "code", ""
	default:
		return freeformPrefix(text), ""
	}
}

// freeformPrefix derives a descriptive prefix from the first words of the
// request: up to four words, short words dropped, lower-cased and joined.
func freeformPrefix(text string) string {
	words := strings.Fields(text)
	if len(words) > 4 {
		words = words[:4]
	}
	var kept []string
	for _, word := range words {
		if utf8.RuneCountInString(word) > 2 {
			kept = append(kept, strings.ToLower(word))
		}
	}
	if len(kept) == 0 {
		return "unique_code"
	}
	return "code_" + strings.Join(kept, "_")
}

func fenceHint(purpose string) domain.DispatchResult {
	return domain.DispatchResult{
		Status:   domain.StatusSuccess,
		Response: fmt.Sprintf("Please provide code within triple backticks (```) for %s.", purpose),
	}
}

// requestLanguage infers the language a request is about, defaulting to
// python the way the prompt templates expect.
func requestLanguage(text string) string {
	if language := code.RequestLanguage(text); language != "" {
		return language
	}
	return domain.DefaultLanguage
}

func (s *Service) record(text string, result domain.DispatchResult) {
	if s.History == nil {
		return
	}
	row := domain.HistoryRecord{
		Timestamp:  s.now(),
		Request:    text,
		Intent:     result.Intent,
		Model:      s.ModelName,
		Status:     result.Status,
		DurationMS: result.DurationMS,
	}
	if result.SavedFile != nil {
		row.SavedPath = result.SavedFile.Path
	}
	if err := s.History.Save(row); err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) checkDependencies() error {
	if s.Chat == nil || s.Safety == nil || s.Executor == nil || s.Writer == nil || s.Installer == nil || s.Logger == nil {
		return errors.New("dispatch.Service dependencies not satisfied")
	}
	return nil
}
