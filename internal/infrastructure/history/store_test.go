package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codehelper/internal/domain"
	"codehelper/internal/ports"
)

func seedRecords(t *testing.T, store ports.HistoryRepository) {
	t.Helper()
	base := time.Date(2025, 5, 14, 15, 0, 0, 0, time.UTC)
	seeds := []domain.HistoryRecord{
		{Timestamp: base, Request: "generate code for fibonacci", Intent: domain.IntentGenerateCode, Model: "gpt-4", Status: domain.StatusSuccess},
		{Timestamp: base.Add(time.Minute), Request: "!cmd ls -la", Intent: domain.IntentTerminalCommand, Model: "gpt-4", Status: domain.StatusSuccess},
		{Timestamp: base.Add(2 * time.Minute), Request: "explain this snippet", Intent: domain.IntentExplainCode, Model: "gpt-3.5-turbo", Status: domain.StatusError},
	}
	for _, rec := range seeds {
		if err := store.Save(rec); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}
}

func TestSQLiteStoreSaveAndQuery(t *testing.T) {
	store := NewSQLiteStore(t.TempDir())
	seedRecords(t, store)

	records, err := store.Records(0, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Request != "explain this snippet" {
		t.Fatalf("expected newest record first, got %q", records[0].Request)
	}
	if records[0].ID == "" {
		t.Fatal("expected assigned record id")
	}
}

func TestSQLiteStoreLimitAndSearch(t *testing.T) {
	store := NewSQLiteStore(t.TempDir())
	seedRecords(t, store)

	limited, err := store.Records(2, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 records, got %d", len(limited))
	}

	matched, err := store.Records(0, "fibonacci")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(matched) != 1 || matched[0].Intent != domain.IntentGenerateCode {
		t.Fatalf("unexpected search result: %+v", matched)
	}
}

func TestSQLiteStoreClear(t *testing.T) {
	store := NewSQLiteStore(t.TempDir())
	seedRecords(t, store)

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	records, err := store.Records(0, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}
}

func TestSQLiteStoreExportJSON(t *testing.T) {
	dir := t.TempDir()
	store := NewSQLiteStore(dir)
	seedRecords(t, store)

	dest := filepath.Join(dir, "export.jsonl")
	if err := store.ExportJSON(dest); err != nil {
		t.Fatalf("ExportJSON error: %v", err)
	}

	file, err := os.Open(dest)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec domain.HistoryRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d not valid JSON: %v", count+1, err)
		}
		count++
	}
	if count != 3 {
		t.Fatalf("expected 3 exported lines, got %d", count)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())
	seedRecords(t, store)

	records, err := store.Records(0, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Request != "explain this snippet" {
		t.Fatalf("expected newest record first, got %q", records[0].Request)
	}

	matched, err := store.Records(1, "terminal_command")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(matched) != 1 || matched[0].Intent != domain.IntentTerminalCommand {
		t.Fatalf("unexpected search result: %+v", matched)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	records, err = store.Records(0, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(records))
	}
}
