// Package domain defines core business entities and value objects for codehelper.
//
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures.
package domain

// Intent classifies a natural-language request into one of the fixed
// categories the dispatcher knows how to handle.
type Intent string

const (
	IntentTerminalCommand  Intent = "terminal_command"
	IntentInstallLibraries Intent = "install_libraries"
	IntentGenerateCode     Intent = "generate_code"
	IntentExplainCode      Intent = "explain_code"
	IntentReviewCode       Intent = "review_code"
	IntentRefactorCode     Intent = "refactor_code"
	IntentFixBug           Intent = "fix_bug"
	IntentCompleteCode     Intent = "complete_code"
	IntentAnalyzeCode      Intent = "analyze_code"
	IntentFreeform         Intent = "freeform"
)

// Status reports whether an operation produced a usable result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// DispatchResult is the canonical outcome of processing one request.
// Exactly one of Response or ErrorMessage carries the primary text;
// the remaining fields are populated per intent.
type DispatchResult struct {
	Status       Status
	Intent       Intent
	Response     string
	ErrorMessage string
	// AdditionalInfo carries secondary text such as the suggestion list
	// printed after a blocked command.
	AdditionalInfo string
	Suggestions    []string
	SavedFile      *SavedFile
	// RequirementsPath, Stdout and Stderr are set by the library
	// installation intent.
	RequirementsPath string
	Stdout           string
	Stderr           string
	DurationMS       int64
}
