package ai

import (
	"strings"
	"testing"

	"codehelper/internal/domain"
)

func TestInferProviderKindExplicitProviderWins(t *testing.T) {
	model := domain.ModelDefinition{
		Provider: "openai",
		Endpoint: "http://localhost:8080/v1/chat/completions",
	}
	if kind := inferProviderKind(model); kind != domain.ProviderKindOpenAI {
		t.Fatalf("expected openai, got %s", kind)
	}
}

func TestInferProviderKindEndpointFallback(t *testing.T) {
	cases := []struct {
		endpoint string
		want     domain.ProviderKind
	}{
		{"https://api.anthropic.com/v1/messages", domain.ProviderKindAnthropic},
		{"https://api.openai.com/v1/chat/completions", domain.ProviderKindOpenAI},
		{"http://localhost:11434/v1/chat/completions", domain.ProviderKindOllama},
		{"https://example.com/chat", domain.ProviderKindUnknown},
	}
	for _, tc := range cases {
		model := domain.ModelDefinition{Endpoint: tc.endpoint}
		if got := inferProviderKind(model); got != tc.want {
			t.Errorf("inferProviderKind(%q) = %s, want %s", tc.endpoint, got, tc.want)
		}
	}
}

func TestForModelMissingCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	model := domain.ModelDefinition{
		Name:       "gpt-4",
		Provider:   "openai",
		Endpoint:   "https://api.openai.com/v1/chat/completions",
		AuthEnvVar: "OPENAI_API_KEY",
	}

	_, err := NewFactory().ForModel(model)
	if err == nil {
		t.Fatal("expected missing credential error, got nil")
	}
	if !strings.Contains(err.Error(), "missing API key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestForModelUnknownProviderFails(t *testing.T) {
	model := domain.ModelDefinition{
		Name:     "mystery",
		Endpoint: "https://example.com/chat",
	}

	_, err := NewFactory().ForModel(model)
	if err == nil {
		t.Fatal("expected unsupported provider error, got nil")
	}
	if !strings.Contains(err.Error(), "unsupported provider") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestForModelOllamaNeedsNoCredential(t *testing.T) {
	model := domain.ModelDefinition{
		Name:     "local-llama",
		Provider: "ollama",
		Endpoint: "http://localhost:11434/v1/chat/completions",
		ModelID:  "llama3",
	}

	client, err := NewFactory().ForModel(model)
	if err != nil {
		t.Fatalf("ForModel error: %v", err)
	}
	if client.Name() != "ollama" {
		t.Fatalf("unexpected client name: %q", client.Name())
	}
}
