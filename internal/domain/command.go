package domain

import "time"

// ExecOptions tunes a single command execution.
type ExecOptions struct {
	WorkDir string
	Timeout time.Duration
}

// CommandResult wraps details from the command executor. Launch failures
// and timeouts are encoded here rather than as Go errors so callers can
// always render a structured outcome.
type CommandResult struct {
	Status   Status
	Stdout   string
	Stderr   string
	ExitCode int
	Message  string
}

// TimeoutExitCode is reported when a command exceeds its deadline,
// matching the conventional shell timeout status.
const TimeoutExitCode = 124
