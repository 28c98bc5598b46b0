package ai

import (
	"fmt"
	"net/http"
	"strings"

	"codehelper/internal/domain"
	"codehelper/internal/ports"
)

// Factory builds chat clients from model definitions.
type Factory struct {
	httpClient *http.Client
}

func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
	}
}

// ForModel implements ports.ProviderFactory. Credentials are checked here so
// a missing API key fails at startup rather than on the first request.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.ChatClient, error) {
	kind := inferProviderKind(model)
	if err := checkCredentials(kind, model); err != nil {
		return nil, err
	}

	switch kind {
	case domain.ProviderKindAnthropic:
		return newHTTPClient("anthropic", model, f.httpClient, anthropicAdapter()), nil
	case domain.ProviderKindOpenAI:
		return newHTTPClient("openai", model, f.httpClient, openaiAdapter()), nil
	case domain.ProviderKindOllama:
		return newHTTPClient("ollama", model, f.httpClient, ollamaAdapter()), nil
	default:
		return nil, fmt.Errorf("unsupported provider for model %s: set provider to openai, anthropic, or ollama", model.Name)
	}
}

// inferProviderKind trusts an explicit provider setting and falls back to
// endpoint heuristics for older configs that predate the field.
func inferProviderKind(model domain.ModelDefinition) domain.ProviderKind {
	switch strings.ToLower(model.Provider) {
	case "openai":
		return domain.ProviderKindOpenAI
	case "anthropic":
		return domain.ProviderKindAnthropic
	case "ollama":
		return domain.ProviderKindOllama
	}

	nameLower := strings.ToLower(model.Name)
	switch {
	case strings.Contains(model.Endpoint, "anthropic.com"):
		return domain.ProviderKindAnthropic
	case strings.Contains(model.Endpoint, "openai.com"):
		return domain.ProviderKindOpenAI
	case strings.Contains(nameLower, "ollama"), strings.Contains(model.Endpoint, "11434"), strings.Contains(model.Endpoint, "localhost"):
		return domain.ProviderKindOllama
	default:
		return domain.ProviderKindUnknown
	}
}

func checkCredentials(kind domain.ProviderKind, model domain.ModelDefinition) error {
	switch kind {
	case domain.ProviderKindAnthropic:
		if getEnv(model.AuthEnvVar, "ANTHROPIC_API_KEY") == "" {
			return fmt.Errorf("missing API key: set %s or ANTHROPIC_API_KEY", model.AuthEnvVar)
		}
	case domain.ProviderKindOpenAI:
		if getEnv(model.AuthEnvVar, "OPENAI_API_KEY") == "" {
			return fmt.Errorf("missing API key: set %s or OPENAI_API_KEY", model.AuthEnvVar)
		}
	}
	return nil
}

var _ ports.ProviderFactory = (*Factory)(nil)
