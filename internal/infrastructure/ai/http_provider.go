package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"codehelper/internal/domain"
	"codehelper/internal/ports"
)

type httpClient struct {
	name    string
	model   domain.ModelDefinition
	client  *http.Client
	adapter providerAdapter
}

type providerAdapter struct {
	buildRequest  func(domain.ModelDefinition, []domain.ChatMessage) ([]byte, error)
	parseResponse func([]byte) (string, error)
	setHeaders    func(*http.Request, domain.ModelDefinition) error
}

func newHTTPClient(name string, model domain.ModelDefinition, client *http.Client, adapter providerAdapter) ports.ChatClient {
	return &httpClient{
		name:    name,
		model:   model,
		client:  client,
		adapter: adapter,
	}
}

func (c *httpClient) Name() string {
	return c.name
}

func (c *httpClient) Model() domain.ModelDefinition {
	return c.model
}

func (c *httpClient) Complete(ctx context.Context, req ports.ChatRequest) (ports.ChatResponse, error) {
	requestBody, err := c.adapter.buildRequest(c.model, req.Messages)
	if err != nil {
		return ports.ChatResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.model.Endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return ports.ChatResponse{}, err
	}

	httpReq.Header.Set("content-type", "application/json")
	if err := c.adapter.setHeaders(httpReq, c.model); err != nil {
		return ports.ChatResponse{}, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return ports.ChatResponse{}, err
	}
	defer resp.Body.Close()

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return ports.ChatResponse{}, err
	}

	if resp.StatusCode >= 400 {
		return ports.ChatResponse{}, fmt.Errorf("%s: %s", c.name, resp.Status)
	}

	content, err := c.adapter.parseResponse(responseBody.Bytes())
	if err != nil {
		return ports.ChatResponse{}, err
	}

	return ports.ChatResponse{
		Text: content,
		Raw:  responseBody.String(),
	}, nil
}

func anthropicAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildAnthropicRequest,
		parseResponse: parseAnthropicResponse,
		setHeaders:    setAnthropicHeaders,
	}
}

func openaiAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders:    setOpenAIHeaders,
	}
}

func ollamaAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders:    setOllamaHeaders,
	}
}

func buildAnthropicRequest(model domain.ModelDefinition, messages []domain.ChatMessage) ([]byte, error) {
	systemPrompt, chatMessages := splitSystemMessages(messages)

	request := anthropicRequest{
		Model:     model.ModelID,
		MaxTokens: defaultInt(model.MaxTokens, domain.DefaultMaxTokens),
		System:    systemPrompt,
		Messages:  chatMessages,
	}
	return json.Marshal(request)
}

func splitSystemMessages(messages []domain.ChatMessage) (string, []anthropicMessage) {
	var systemLines []string
	var chatMessages []anthropicMessage

	for _, msg := range messages {
		if strings.EqualFold(msg.Role, domain.RoleSystem) {
			systemLines = append(systemLines, msg.Content)
			continue
		}
		chatMessages = append(chatMessages, anthropicMessage{
			Role:    strings.ToLower(msg.Role),
			Content: []anthropicContent{{Type: "text", Text: msg.Content}},
		})
	}

	return strings.TrimSpace(strings.Join(systemLines, "\n")), chatMessages
}

func parseAnthropicResponse(body []byte) (string, error) {
	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	return response.FirstText(), nil
}

func setAnthropicHeaders(req *http.Request, model domain.ModelDefinition) error {
	apiKey := getEnv(model.AuthEnvVar, "ANTHROPIC_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("missing API key: set %s or ANTHROPIC_API_KEY", model.AuthEnvVar)
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	return nil
}

func buildChatCompletionRequest(model domain.ModelDefinition, messages []domain.ChatMessage) ([]byte, error) {
	chatMessages := make([]chatMessage, 0, len(messages))
	for _, msg := range messages {
		chatMessages = append(chatMessages, chatMessage{
			Role:    strings.ToLower(msg.Role),
			Content: msg.Content,
		})
	}

	request := chatCompletionRequest{
		Model:       model.ModelID,
		Messages:    chatMessages,
		MaxTokens:   model.MaxTokens,
		Temperature: model.Temperature,
	}
	return json.Marshal(request)
}

func parseChatCompletionResponse(body []byte) (string, error) {
	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	return response.FirstMessage(), nil
}

func setOpenAIHeaders(req *http.Request, model domain.ModelDefinition) error {
	apiKey := getEnv(model.AuthEnvVar, "OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("missing API key: set %s or OPENAI_API_KEY", model.AuthEnvVar)
	}
	req.Header.Set("authorization", "Bearer "+apiKey)

	if org := getEnv(model.OrgEnvVar, "OPENAI_ORG_ID"); org != "" {
		req.Header.Set("OpenAI-Organization", org)
	}
	return nil
}

func setOllamaHeaders(*http.Request, domain.ModelDefinition) error {
	return nil
}

func getEnv(primary, fallback string) string {
	if primary != "" {
		if value := os.Getenv(primary); value != "" {
			return value
		}
	}
	if fallback != "" {
		return os.Getenv(fallback)
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
