// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like databases, HTTP clients, or CLI frameworks.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ChatClient, SafetyFilter)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"codehelper/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.codehelper/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProviderFactory builds chat client instances based on model definitions.
// It abstracts the creation of different provider types (OpenAI, Anthropic, Ollama).
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (ChatClient, error)
}

// ChatClient completes a chat exchange against a hosted model.
// Each implementation wraps a specific provider API.
type ChatClient interface {
	Name() string
	Model() domain.ModelDefinition
	Complete(context.Context, ChatRequest) (ChatResponse, error)
}

// ChatRequest carries the full message list for one completion call.
type ChatRequest struct {
	Messages []domain.ChatMessage
}

// ChatResponse contains the assistant reply. Text is the usable content;
// Raw preserves the provider payload for debugging.
type ChatResponse struct {
	Text string
	Raw  string
}

// SafetyFilter screens terminal commands against the deny list before
// anything reaches a shell.
type SafetyFilter interface {
	IsSafe(command string) bool
	Alternatives(command string) []string
}

// CommandExecutor runs shell commands on the host. Failures are encoded
// in the result so callers always receive a renderable outcome.
type CommandExecutor interface {
	Execute(ctx context.Context, command string, opts domain.ExecOptions) domain.CommandResult
}

// ArtifactWriter persists extracted code and workflow artifacts under the
// data directory with timestamp-qualified names.
type ArtifactWriter interface {
	SaveCode(code, language, prefix string) (domain.SavedFile, error)
	WriteArtifact(prefix, extension, content string) (string, error)
}

// FileManager covers the direct file-operation subcommands.
type FileManager interface {
	CreateDirectory(path string) (string, error)
	DeleteDirectory(path string) (string, error)
	ListDirectory(path string) (domain.DirListing, error)
	MoveFile(source, destination string) (string, error)
	CopyFile(source, destination string) (string, error)
}

// HistoryRepository persists dispatched requests for later inspection.
type HistoryRepository interface {
	Save(record domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
	ExportJSON(dest string) error
}

// CacheRepository stores model replies addressed by request hash.
type CacheRepository interface {
	Get(key string) (domain.CacheEntry, bool, error)
	Set(entry domain.CacheEntry) error
	Clear() error
	Entries() ([]domain.CacheEntry, error)
	Dir() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, files).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
