package domain

import "time"

// HistoryRecord is one dispatched request as persisted by the history store.
type HistoryRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Request    string    `json:"request"`
	Intent     Intent    `json:"intent"`
	Model      string    `json:"model"`
	Status     Status    `json:"status"`
	SavedPath  string    `json:"saved_path,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}
