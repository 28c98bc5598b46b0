package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// ArtifactFilePermissions is the permission for saved code files (rw-r--r--)
	ArtifactFilePermissions = 0o644
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultCommandTimeout bounds ad-hoc terminal commands
	DefaultCommandTimeout = 60 * time.Second
	// DefaultHTTPClientTimeout is the timeout for chat API requests
	DefaultHTTPClientTimeout = 120 * time.Second
	// DefaultInstallTimeout bounds a full requirements install
	DefaultInstallTimeout = 300 * time.Second
	// DefaultFallbackTimeout bounds per-package installs and script runs
	DefaultFallbackTimeout = 180 * time.Second
	// DefaultRetryDelay separates installer retry attempts
	DefaultRetryDelay = 5 * time.Second
)

// Installer constants
const (
	// DefaultInstallRetries is the attempt cap for requirements installs
	DefaultInstallRetries = 3
	// DefaultInstallerCommand installs Python package lists
	DefaultInstallerCommand = "pip"
	// DefaultRunnerCommand executes generated scripts
	DefaultRunnerCommand = "python"
)

// Limit constants
const (
	// DefaultMaxCacheEntries is the maximum number of cache entries
	DefaultMaxCacheEntries = 100
	// DefaultCacheTTL expires cached model replies
	DefaultCacheTTL = time.Hour
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

// Model configuration constants
const (
	// DefaultMaxTokens is the default maximum number of tokens
	DefaultMaxTokens = 1024
	// DefaultTemperature is the sampling temperature sent to chat models
	DefaultTemperature = 0.7
)

// Time formats
const (
	// TimestampFormat is the persisted timestamp format
	TimestampFormat = time.RFC3339
	// FilenameTimestampFormat qualifies generated artifact names
	FilenameTimestampFormat = "20060102_150405"
)

// DefaultLanguage is assumed when a request or snippet names no language.
const DefaultLanguage = "python"

// FallbackModelName is the definition reused for model names missing from
// the table.
const FallbackModelName = "gpt-3.5-turbo"
