package domain

// ProjectResult aggregates the artifacts and command outputs of the
// automated project workflow. Status reflects artifact production;
// installer and runner failures are surfaced through the output fields
// for the user to judge.
type ProjectResult struct {
	Status           Status
	RequirementsPath string
	ScriptPath       string
	InstallStdout    string
	InstallStderr    string
	RunStdout        string
	RunStderr        string
	Attempts         int
	Message          string
	ErrorMessage     string
}
