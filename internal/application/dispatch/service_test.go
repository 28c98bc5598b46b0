package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"codehelper/internal/domain"
	"codehelper/internal/pkg/logger"
	"codehelper/internal/ports"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want domain.Intent
	}{
		{"!cmd ls -la", domain.IntentTerminalCommand},
		{"!run echo hi", domain.IntentTerminalCommand},
		{"!terminal pwd", domain.IntentTerminalCommand},
		{"install the libraries I need", domain.IntentInstallLibraries},
		{"gerekli kütüphaneleri kur", domain.IntentInstallLibraries},
		{"generate code for a calculator in python", domain.IntentGenerateCode},
		{"please CREATE CODE for a parser", domain.IntentGenerateCode},
		{"explain this code ```\nx=1\n```", domain.IntentExplainCode},
		{"review my code ```\nx=1\n```", domain.IntentReviewCode},
		{"refactor ```\nx=1\n```", domain.IntentRefactorCode},
		{"fix the bug in ```\nx=1\n```", domain.IntentFixBug},
		{"fix this error ```\nx=1\n```", domain.IntentFixBug},
		{"complete ```\nx=1\n```", domain.IntentCompleteCode},
		{"finish the function", domain.IntentCompleteCode},
		{"analyze ```\nimport os\n```", domain.IntentAnalyzeCode},
		{"what is a goroutine?", domain.IntentFreeform},
		{"", domain.IntentFreeform},
		// Rule order is part of the contract: install wins over generate,
		// generate wins over explain, refactor wins over fix.
		{"install deps and generate code", domain.IntentInstallLibraries},
		{"generate code and explain the code", domain.IntentGenerateCode},
		{"refactor and fix the bug", domain.IntentRefactorCode},
	}
	for _, tc := range cases {
		if got := Classify(tc.text); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestDispatchTerminalCommandSuccess(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.executor.result = domain.CommandResult{
		Status:  domain.StatusSuccess,
		Stdout:  "file.txt\n",
		Message: "Command executed successfully",
	}
	svc.CommandTimeout = 30 * time.Second

	result := svc.Dispatch(context.Background(), "!cmd ls")

	if result.Status != domain.StatusSuccess {
		t.Fatalf("Status = %q, want success", result.Status)
	}
	if result.Intent != domain.IntentTerminalCommand {
		t.Fatalf("Intent = %q", result.Intent)
	}
	want := "Command executed successfully:\n\n```\nfile.txt\n\n```"
	if result.Response != want {
		t.Fatalf("Response = %q, want %q", result.Response, want)
	}
	if deps.executor.command != "ls" {
		t.Fatalf("executed command = %q, want %q", deps.executor.command, "ls")
	}
	if deps.executor.opts.Timeout != 30*time.Second {
		t.Fatalf("timeout = %v, want 30s", deps.executor.opts.Timeout)
	}
	if deps.chat.calls != 0 {
		t.Fatalf("chat calls = %d, want 0", deps.chat.calls)
	}
}

func TestDispatchTerminalCommandFailure(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.executor.result = domain.CommandResult{
		Status:   domain.StatusError,
		Stderr:   "ls: cannot access",
		ExitCode: 2,
	}

	result := svc.Dispatch(context.Background(), "!run ls /missing")

	if result.Status != domain.StatusError {
		t.Fatalf("Status = %q, want error", result.Status)
	}
	want := "Command execution failed with exit code 2:\n\n```\nls: cannot access\n```"
	if result.ErrorMessage != want {
		t.Fatalf("ErrorMessage = %q", result.ErrorMessage)
	}
}

func TestDispatchTerminalCommandEmpty(t *testing.T) {
	svc, deps := newTestDispatcher(t)

	for _, text := range []string{"!cmd", "!cmd   "} {
		result := svc.Dispatch(context.Background(), text)
		if result.Status != domain.StatusError || result.ErrorMessage != "No command provided" {
			t.Fatalf("Dispatch(%q) = %+v, want No command provided error", text, result)
		}
	}
	if deps.executor.calls != 0 {
		t.Fatalf("executor calls = %d, want 0", deps.executor.calls)
	}
}

func TestDispatchTerminalCommandBlocked(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.safety.safe = false
	deps.safety.alternatives = []string{"Use file explorer to delete files", "Create a backup before deleting"}

	result := svc.Dispatch(context.Background(), "!cmd rm -rf /tmp/x")

	if result.Status != domain.StatusError {
		t.Fatalf("Status = %q, want error", result.Status)
	}
	wantMessage := "The command 'rm -rf /tmp/x' may be potentially dangerous and has been blocked for safety reasons."
	if result.ErrorMessage != wantMessage {
		t.Fatalf("ErrorMessage = %q", result.ErrorMessage)
	}
	wantInfo := "Suggestions:\n- Use file explorer to delete files\n- Create a backup before deleting"
	if result.AdditionalInfo != wantInfo {
		t.Fatalf("AdditionalInfo = %q", result.AdditionalInfo)
	}
	if diff := cmp.Diff(deps.safety.alternatives, result.Suggestions); diff != "" {
		t.Fatalf("Suggestions mismatch (-want +got):\n%s", diff)
	}
	if deps.executor.calls != 0 {
		t.Fatal("blocked command must not reach the executor")
	}
}

func TestDispatchTerminalCommandSafetyDisabled(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.safety.safe = false
	svc.SafetyEnabled = false

	result := svc.Dispatch(context.Background(), "!cmd rm -rf /tmp/x")

	if result.Status != domain.StatusSuccess {
		t.Fatalf("Status = %q, want success with safety disabled", result.Status)
	}
	if deps.executor.calls != 1 {
		t.Fatalf("executor calls = %d, want 1", deps.executor.calls)
	}
}

func TestDispatchInstallLibraries(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.installer.result = domain.ProjectResult{
		Status:           domain.StatusSuccess,
		RequirementsPath: "/data/requirements_20250514_153016.txt",
		InstallStdout:    "Successfully installed pandas",
		Message:          "Required libraries were detected and installed.\n\nInstalled packages:\npandas",
	}

	result := svc.Dispatch(context.Background(), "install the libraries for pandas")

	if result.Intent != domain.IntentInstallLibraries {
		t.Fatalf("Intent = %q", result.Intent)
	}
	if deps.installer.request != "install the libraries for pandas" {
		t.Fatalf("installer request = %q", deps.installer.request)
	}
	if result.RequirementsPath != "/data/requirements_20250514_153016.txt" {
		t.Fatalf("RequirementsPath = %q", result.RequirementsPath)
	}
	if result.Stdout != "Successfully installed pandas" {
		t.Fatalf("Stdout = %q", result.Stdout)
	}
	if !strings.Contains(result.Response, "Installed packages:") {
		t.Fatalf("Response = %q", result.Response)
	}
}

func TestDispatchGenerateCode(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "Here you go:\n```python\nprint(1+1)\n```\nEnjoy."

	result := svc.Dispatch(context.Background(), "generate code for a calculator in python")

	if result.Status != domain.StatusSuccess {
		t.Fatalf("Status = %q: %s", result.Status, result.ErrorMessage)
	}
	prompt := deps.chat.lastUserContent()
	if !strings.Contains(prompt, "Language: python") {
		t.Fatalf("prompt missing language line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Task: generate code for a calculator in python") {
		t.Fatalf("prompt missing task line:\n%s", prompt)
	}
	if deps.writer.prefix != "generated_code" {
		t.Fatalf("save prefix = %q, want generated_code", deps.writer.prefix)
	}
	if deps.writer.language != "python" {
		t.Fatalf("save language = %q, want python", deps.writer.language)
	}
	if deps.writer.code != "print(1+1)" {
		t.Fatalf("saved code = %q", deps.writer.code)
	}
	if result.SavedFile == nil || result.SavedFile.Path != deps.writer.path {
		t.Fatalf("SavedFile = %+v", result.SavedFile)
	}
	if !strings.HasSuffix(result.Response, fmt.Sprintf("[Code saved to file: %s]", deps.writer.path)) {
		t.Fatalf("Response missing saved-path note: %q", result.Response)
	}
}

func TestDispatchGenerateCodeDefaultsToPython(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "plain prose, no code"

	result := svc.Dispatch(context.Background(), "generate code for a calculator")

	if result.Status != domain.StatusSuccess {
		t.Fatalf("Status = %q", result.Status)
	}
	if !strings.Contains(deps.chat.lastUserContent(), "Language: python") {
		t.Fatalf("prompt = %q", deps.chat.lastUserContent())
	}
	// No fenced block in the reply: nothing to save, response unchanged.
	if deps.writer.calls != 0 {
		t.Fatalf("writer calls = %d, want 0", deps.writer.calls)
	}
	if result.SavedFile != nil {
		t.Fatalf("SavedFile = %+v, want nil", result.SavedFile)
	}
}

func TestDispatchExplainCode(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "It prints a sum."

	result := svc.Dispatch(context.Background(), "explain this python code ```\nprint(1+1)\n``` thanks")

	if result.Intent != domain.IntentExplainCode {
		t.Fatalf("Intent = %q", result.Intent)
	}
	prompt := deps.chat.lastUserContent()
	if !strings.Contains(prompt, "```python\nprint(1+1)\n```") {
		t.Fatalf("prompt missing fenced code:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Explain the following code") {
		t.Fatalf("wrong template rendered:\n%s", prompt)
	}
}

func TestDispatchExplainCodeMissingFence(t *testing.T) {
	svc, deps := newTestDispatcher(t)

	result := svc.Dispatch(context.Background(), "explain this code please")

	if result.Status != domain.StatusSuccess {
		t.Fatalf("Status = %q", result.Status)
	}
	want := "Please provide code within triple backticks (```) for explanation."
	if result.Response != want {
		t.Fatalf("Response = %q, want %q", result.Response, want)
	}
	if deps.chat.calls != 0 {
		t.Fatal("missing fence must not trigger a model call")
	}
	if deps.writer.calls != 0 {
		t.Fatal("hint message must not be saved as code")
	}
}

func TestDispatchReviewCodeMissingClosingFence(t *testing.T) {
	svc, deps := newTestDispatcher(t)

	result := svc.Dispatch(context.Background(), "review my code ```\nprint(1)")

	want := "Please provide code within triple backticks (```) for review."
	if result.Response != want {
		t.Fatalf("Response = %q, want %q", result.Response, want)
	}
	if deps.chat.calls != 0 {
		t.Fatal("unclosed fence must not trigger a model call")
	}
}

func TestDispatchRefactorCodeGoals(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "Refactored."

	svc.Dispatch(context.Background(), "refactor ```\nx = 1\n``` make it faster")

	prompt := deps.chat.lastUserContent()
	if !strings.Contains(prompt, "Refactoring Goals: make it faster") {
		t.Fatalf("prompt missing goals:\n%s", prompt)
	}
}

func TestDispatchRefactorCodeDefaultGoals(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "Refactored."

	svc.Dispatch(context.Background(), "refactor ```\nx = 1\n```")

	prompt := deps.chat.lastUserContent()
	if !strings.Contains(prompt, "Refactoring Goals: Improve code quality, readability, and maintainability.") {
		t.Fatalf("prompt missing default goals:\n%s", prompt)
	}
}

func TestDispatchFixBugDefaults(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "Fixed."

	svc.Dispatch(context.Background(), "fix the bug ```\nx = 1\n```")

	prompt := deps.chat.lastUserContent()
	if !strings.Contains(prompt, "Bug Description: Fix the bug in the code.") {
		t.Fatalf("prompt missing default description:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Expected Behavior: The code should work correctly.") {
		t.Fatalf("prompt missing expected behavior:\n%s", prompt)
	}
}

func TestDispatchCompleteCode(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "Done:\n```python\ndef add(a, b):\n    return a + b\n```"

	result := svc.Dispatch(context.Background(), "complete this python snippet ```\ndef add(a, b):\n``` add the body")

	prompt := deps.chat.lastUserContent()
	if !strings.Contains(prompt, "Instructions: add the body") {
		t.Fatalf("prompt missing instruction:\n%s", prompt)
	}
	if deps.writer.prefix != "completed_code" {
		t.Fatalf("save prefix = %q", deps.writer.prefix)
	}
	if result.SavedFile == nil {
		t.Fatal("expected a saved file")
	}
}

func TestDispatchAnalyzeCode(t *testing.T) {
	svc, deps := newTestDispatcher(t)

	source := "import django\nfrom flask import Flask\n\ndef main():\n    pass\n"
	result := svc.Dispatch(context.Background(), "analyze ```\n"+source+"```")

	if result.Status != domain.StatusSuccess {
		t.Fatalf("Status = %q", result.Status)
	}
	if deps.chat.calls != 0 {
		t.Fatal("analyze must not call the model")
	}
	for _, fragment := range []string{
		"Code Analysis Results:",
		"Language: python",
		"Lines of Code: 5",
		"Imports:\n- django",
		"- flask",
		"Frameworks Detected:\n- django",
	} {
		if !strings.Contains(result.Response, fragment) {
			t.Fatalf("Response missing %q:\n%s", fragment, result.Response)
		}
	}
}

func TestDispatchFreeform(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "A goroutine is a lightweight thread."

	result := svc.Dispatch(context.Background(), "what is a goroutine?")

	if result.Intent != domain.IntentFreeform {
		t.Fatalf("Intent = %q", result.Intent)
	}
	if len(deps.chat.messages) != 2 {
		t.Fatalf("message count = %d, want system + user", len(deps.chat.messages))
	}
	if deps.chat.messages[0].Role != domain.RoleSystem {
		t.Fatalf("first role = %q, want system", deps.chat.messages[0].Role)
	}
	if deps.chat.messages[1].Content != "what is a goroutine?" {
		t.Fatalf("user content = %q, want the raw request", deps.chat.messages[1].Content)
	}
	if result.Response != "A goroutine is a lightweight thread." {
		t.Fatalf("Response = %q", result.Response)
	}
}

func TestDispatchFreeformSavesWithSlugPrefix(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "Sure:\n```go\npackage main\n```"

	svc.Dispatch(context.Background(), "produce quicksort implementation sample please")

	if deps.writer.prefix != "code_produce_quicksort_implementation_sample" {
		t.Fatalf("save prefix = %q, want code_produce_quicksort_implementation_sample", deps.writer.prefix)
	}
	// No language hint in the plan: the fence tag decides.
	if deps.writer.language != "go" {
		t.Fatalf("save language = %q, want go", deps.writer.language)
	}
}

func TestDispatchModelFailureBecomesErrorResult(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.err = errors.New("connection refused")

	result := svc.Dispatch(context.Background(), "what is a goroutine?")

	if result.Status != domain.StatusError {
		t.Fatalf("Status = %q, want error", result.Status)
	}
	if !strings.Contains(result.ErrorMessage, "connection refused") {
		t.Fatalf("ErrorMessage = %q", result.ErrorMessage)
	}
}

func TestDispatchSaveFailureBecomesErrorResult(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "```python\nprint(1)\n```"
	deps.writer.err = errors.New("disk full")

	result := svc.Dispatch(context.Background(), "generate code for a calculator")

	if result.Status != domain.StatusError {
		t.Fatalf("Status = %q, want error", result.Status)
	}
	if !strings.Contains(result.ErrorMessage, "disk full") {
		t.Fatalf("ErrorMessage = %q", result.ErrorMessage)
	}
}

func TestDispatchMissingDependencies(t *testing.T) {
	svc := &Service{}
	result := svc.Dispatch(context.Background(), "anything")
	if result.Status != domain.StatusError {
		t.Fatalf("Status = %q, want error", result.Status)
	}
	if !strings.Contains(result.ErrorMessage, "dependencies not satisfied") {
		t.Fatalf("ErrorMessage = %q", result.ErrorMessage)
	}
}

func TestDispatchRecordsHistory(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "```python\nprint(1)\n```"
	historyStore := &stubHistory{}
	svc.History = historyStore
	svc.ModelName = "gpt-4"
	base := time.Date(2025, 5, 14, 15, 30, 0, 0, time.UTC)
	ticks := 0
	svc.Clock = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * 250 * time.Millisecond)
	}

	svc.Dispatch(context.Background(), "generate code for a calculator")

	if len(historyStore.records) != 1 {
		t.Fatalf("records = %d, want 1", len(historyStore.records))
	}
	rec := historyStore.records[0]
	if rec.Intent != domain.IntentGenerateCode {
		t.Fatalf("recorded intent = %q", rec.Intent)
	}
	if rec.Model != "gpt-4" {
		t.Fatalf("recorded model = %q", rec.Model)
	}
	if rec.Status != domain.StatusSuccess {
		t.Fatalf("recorded status = %q", rec.Status)
	}
	if rec.SavedPath != deps.writer.path {
		t.Fatalf("recorded saved path = %q, want %q", rec.SavedPath, deps.writer.path)
	}
	if rec.DurationMS <= 0 {
		t.Fatalf("recorded duration = %d, want > 0", rec.DurationMS)
	}
}

func TestDispatchHistoryFailureDoesNotFailRequest(t *testing.T) {
	svc, deps := newTestDispatcher(t)
	deps.chat.reply = "fine"
	svc.History = &stubHistory{err: errors.New("database locked")}

	result := svc.Dispatch(context.Background(), "what is a goroutine?")

	if result.Status != domain.StatusSuccess {
		t.Fatalf("Status = %q, want success despite history failure", result.Status)
	}
}

func TestFreeformPrefix(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		// The first four words are taken before short words are dropped.
		{"show me a Go main package", "code_show"},
		{"Write Quicksort Here", "code_write_quicksort_here"},
		{"a an it", "unique_code"},
		{"", "unique_code"},
		{"implement dijkstra shortest path algorithm now", "code_implement_dijkstra_shortest_path"},
	}
	for _, tc := range cases {
		if got := freeformPrefix(tc.text); got != tc.want {
			t.Errorf("freeformPrefix(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

// testDeps bundles the stubbed collaborators so tests can adjust them
// after construction.
type testDeps struct {
	chat      *stubChat
	safety    *stubSafety
	executor  *stubExecutor
	writer    *stubWriter
	installer *stubInstaller
}

func newTestDispatcher(t *testing.T) (*Service, *testDeps) {
	t.Helper()
	deps := &testDeps{
		chat:      &stubChat{reply: "ok"},
		safety:    &stubSafety{safe: true},
		executor:  &stubExecutor{result: domain.CommandResult{Status: domain.StatusSuccess}},
		writer:    &stubWriter{path: "/data/code_20250514_153016.py"},
		installer: &stubInstaller{},
	}
	svc := &Service{
		Chat:          deps.chat,
		Safety:        deps.safety,
		Executor:      deps.executor,
		Writer:        deps.writer,
		Installer:     deps.installer,
		Logger:        logger.NewNop(),
		SafetyEnabled: true,
	}
	return svc, deps
}

type stubChat struct {
	reply    string
	err      error
	calls    int
	messages []domain.ChatMessage
}

func (c *stubChat) Name() string                  { return "stub" }
func (c *stubChat) Model() domain.ModelDefinition { return domain.ModelDefinition{Name: "stub"} }

func (c *stubChat) Complete(_ context.Context, req ports.ChatRequest) (ports.ChatResponse, error) {
	c.calls++
	c.messages = req.Messages
	if c.err != nil {
		return ports.ChatResponse{}, c.err
	}
	return ports.ChatResponse{Text: c.reply}, nil
}

func (c *stubChat) lastUserContent() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == domain.RoleUser {
			return c.messages[i].Content
		}
	}
	return ""
}

type stubSafety struct {
	safe         bool
	alternatives []string
}

func (s *stubSafety) IsSafe(string) bool { return s.safe }

func (s *stubSafety) Alternatives(string) []string {
	if s.alternatives == nil {
		return []string{"Consider reviewing the command manually before execution"}
	}
	return s.alternatives
}

type stubExecutor struct {
	result  domain.CommandResult
	command string
	opts    domain.ExecOptions
	calls   int
}

func (e *stubExecutor) Execute(_ context.Context, command string, opts domain.ExecOptions) domain.CommandResult {
	e.calls++
	e.command = command
	e.opts = opts
	return e.result
}

type stubWriter struct {
	path     string
	err      error
	calls    int
	code     string
	language string
	prefix   string
}

func (w *stubWriter) SaveCode(code, language, prefix string) (domain.SavedFile, error) {
	w.calls++
	w.code = code
	w.language = language
	w.prefix = prefix
	if w.err != nil {
		return domain.SavedFile{}, w.err
	}
	return domain.SavedFile{Path: w.path, Language: language, Extension: "py"}, nil
}

func (w *stubWriter) WriteArtifact(prefix, extension, content string) (string, error) {
	return "/data/" + prefix + "." + extension, nil
}

type stubInstaller struct {
	result  domain.ProjectResult
	err     error
	request string
}

func (i *stubInstaller) InstallLibraries(_ context.Context, request string) (domain.ProjectResult, error) {
	i.request = request
	if i.err != nil {
		return domain.ProjectResult{}, i.err
	}
	return i.result, nil
}

type stubHistory struct {
	records []domain.HistoryRecord
	err     error
}

func (h *stubHistory) Save(record domain.HistoryRecord) error {
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, record)
	return nil
}

func (h *stubHistory) Records(int, string) ([]domain.HistoryRecord, error) { return h.records, nil }
func (h *stubHistory) Clear() error                                        { return nil }
func (h *stubHistory) ExportJSON(string) error                             { return nil }
