package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codehelper/internal/domain"
	"codehelper/internal/ports"
)

func TestBuildChatCompletionRequestShape(t *testing.T) {
	model := domain.ModelDefinition{
		ModelID:     "gpt-4",
		MaxTokens:   2048,
		Temperature: 0.7,
	}
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "be helpful"},
		{Role: "USER", Content: "write a loop"},
	}

	body, err := buildChatCompletionRequest(model, messages)
	if err != nil {
		t.Fatalf("buildChatCompletionRequest error: %v", err)
	}

	var request chatCompletionRequest
	if err := json.Unmarshal(body, &request); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if request.Model != "gpt-4" || request.MaxTokens != 2048 || request.Temperature != 0.7 {
		t.Fatalf("unexpected request fields: %+v", request)
	}
	if len(request.Messages) != 2 || request.Messages[1].Role != "user" {
		t.Fatalf("roles not normalized: %+v", request.Messages)
	}
	if request.Stream {
		t.Fatal("expected stream disabled")
	}
}

func TestBuildAnthropicRequestSplitsSystem(t *testing.T) {
	model := domain.ModelDefinition{ModelID: "claude-3-5-sonnet", MaxTokens: 1024}
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "be helpful"},
		{Role: domain.RoleUser, Content: "write a loop"},
	}

	body, err := buildAnthropicRequest(model, messages)
	if err != nil {
		t.Fatalf("buildAnthropicRequest error: %v", err)
	}

	var request anthropicRequest
	if err := json.Unmarshal(body, &request); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if request.System != "be helpful" {
		t.Fatalf("system prompt not split out: %+v", request)
	}
	if len(request.Messages) != 1 || request.Messages[0].Content[0].Text != "write a loop" {
		t.Fatalf("unexpected messages: %+v", request.Messages)
	}
}

func TestParseChatCompletionResponseTrims(t *testing.T) {
	body := []byte(`{"choices":[{"message":{"role":"assistant","content":"  done \n"}}]}`)

	content, err := parseChatCompletionResponse(body)
	if err != nil {
		t.Fatalf("parseChatCompletionResponse error: %v", err)
	}
	if content != "done" {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestCompleteTalksToChatCompletionEndpoint(t *testing.T) {
	var gotAuth, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer server.Close()

	t.Setenv("TEST_AI_KEY", "secret")
	model := domain.ModelDefinition{
		Name:       "test-model",
		Provider:   "openai",
		Endpoint:   server.URL,
		AuthEnvVar: "TEST_AI_KEY",
		ModelID:    "gpt-4",
	}

	client, err := NewFactory().ForModel(model)
	if err != nil {
		t.Fatalf("ForModel error: %v", err)
	}

	resp, err := client.Complete(context.Background(), ports.ChatRequest{
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if resp.Text != "hello" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type: %q", gotContentType)
	}
}

func TestCompleteSurfacesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	t.Setenv("TEST_AI_KEY", "secret")
	model := domain.ModelDefinition{
		Name:       "test-model",
		Provider:   "openai",
		Endpoint:   server.URL,
		AuthEnvVar: "TEST_AI_KEY",
		ModelID:    "gpt-4",
	}

	client, err := NewFactory().ForModel(model)
	if err != nil {
		t.Fatalf("ForModel error: %v", err)
	}

	if _, err := client.Complete(context.Background(), ports.ChatRequest{
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
	}); err == nil {
		t.Fatal("expected error for 500 response, got nil")
	}
}
