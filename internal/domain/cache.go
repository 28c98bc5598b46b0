package domain

import "time"

// CacheEntry is one stored model reply addressed by request hash.
type CacheEntry struct {
	Key       string    `json:"key"`
	Model     string    `json:"model"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
