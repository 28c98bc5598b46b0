// Package history persists dispatch records.
package history

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"codehelper/internal/domain"
	"codehelper/internal/pkg/filesystem"
	"codehelper/internal/ports"
)

// SQLiteStore persists dispatch history in a SQLite database. When the
// database cannot be opened it degrades to an append-only jsonl file so a
// broken database never blocks the assistant.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
}

// NewSQLiteStore creates (or opens) the history database under dir,
// defaulting to ~/.codehelper/history.
func NewSQLiteStore(dir string) *SQLiteStore {
	if dir == "" {
		dir = filepath.Join(filesystem.AppDir(), "history")
	}
	dir = filesystem.ExpandPath(dir)
	_ = os.MkdirAll(dir, domain.DirectoryPermissions)

	store := &SQLiteStore{path: filepath.Join(dir, "history.db")}
	db, err := sql.Open("sqlite", store.path)
	if err != nil {
		store.fallback = NewFileStore(dir)
		return store
	}
	store.db = db
	if err := store.init(); err != nil {
		store.db = nil
		store.fallback = NewFileStore(dir)
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS dispatches (
		id TEXT PRIMARY KEY,
		timestamp TEXT,
		request TEXT,
		intent TEXT,
		model TEXT,
		status TEXT,
		saved_path TEXT,
		duration_ms INTEGER
	);`)
	return err
}

// Save inserts a new record, assigning an id and timestamp when absent.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if s.db == nil {
		return s.fallback.Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO dispatches
		(id, timestamp, request, intent, model, status, saved_path, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.Format(time.RFC3339),
		record.Request,
		string(record.Intent),
		record.Model,
		string(record.Status),
		record.SavedPath,
		record.DurationMS,
	)
	return err
}

// Records returns history entries newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return s.fallback.Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT id, timestamp, request, intent, model, status, saved_path, duration_ms FROM dispatches")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE request LIKE ? OR intent LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts, intent, status string
		if err := rows.Scan(&rec.ID, &ts, &rec.Request, &intent, &rec.Model, &status, &rec.SavedPath, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Intent = domain.Intent(intent)
		rec.Status = domain.Status(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	_, err := s.db.Exec("DELETE FROM dispatches")
	return err
}

// ExportJSON writes the dispatch table to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
