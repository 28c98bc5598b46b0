package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"codehelper/internal/domain"
	"codehelper/internal/ports"
)

// CachedClient wraps a chat client with a response cache so identical
// requests against the same model are served locally.
type CachedClient struct {
	inner  ports.ChatClient
	cache  ports.CacheRepository
	logger ports.Logger
}

func NewCachedClient(inner ports.ChatClient, cache ports.CacheRepository, logger ports.Logger) *CachedClient {
	return &CachedClient{inner: inner, cache: cache, logger: logger}
}

func (c *CachedClient) Name() string {
	return c.inner.Name()
}

func (c *CachedClient) Model() domain.ModelDefinition {
	return c.inner.Model()
}

// Complete implements ports.ChatClient. Cache failures are logged and never
// block the request.
func (c *CachedClient) Complete(ctx context.Context, req ports.ChatRequest) (ports.ChatResponse, error) {
	key := cacheKey(c.inner.Model().ModelID, req.Messages)

	if entry, ok, err := c.cache.Get(key); err == nil && ok {
		c.logger.Debug("serving chat response from cache", map[string]interface{}{
			"key":   key,
			"model": entry.Model,
		})
		return ports.ChatResponse{Text: entry.Text}, nil
	} else if err != nil {
		c.logger.Warn("cache lookup failed", map[string]interface{}{"error": err.Error()})
	}

	resp, err := c.inner.Complete(ctx, req)
	if err != nil {
		return resp, err
	}

	entry := domain.CacheEntry{
		Key:       key,
		Model:     c.inner.Model().ModelID,
		Text:      resp.Text,
		CreatedAt: time.Now(),
	}
	if err := c.cache.Set(entry); err != nil {
		c.logger.Warn("cache store failed", map[string]interface{}{"error": err.Error()})
	}
	return resp, nil
}

func cacheKey(modelID string, messages []domain.ChatMessage) string {
	h := sha256.New()
	io.WriteString(h, modelID)
	for _, msg := range messages {
		io.WriteString(h, "\x00")
		io.WriteString(h, msg.Role)
		io.WriteString(h, "\x00")
		io.WriteString(h, msg.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}

var _ ports.ChatClient = (*CachedClient)(nil)
