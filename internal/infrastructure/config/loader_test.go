package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.Preferences.DefaultModel != "gpt-4" {
		t.Fatalf("unexpected default model: %q", cfg.Preferences.DefaultModel)
	}
	if len(cfg.Models) != 3 {
		t.Fatalf("expected 3 default models, got %d", len(cfg.Models))
	}
	if !cfg.Safety.Enabled {
		t.Fatal("expected safety filter enabled by default")
	}
	if cfg.Installer.MaxRetries != 3 {
		t.Fatalf("expected 3 install retries, got %d", cfg.Installer.MaxRetries)
	}
}

func TestLoadMergesUserFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := `preferences:
  default_model: gpt-3.5-turbo
installer:
  max_retries: 5
`
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Preferences.DefaultModel != "gpt-3.5-turbo" {
		t.Fatalf("override lost: %q", cfg.Preferences.DefaultModel)
	}
	if cfg.Installer.MaxRetries != 5 {
		t.Fatalf("override lost: %d", cfg.Installer.MaxRetries)
	}
	// Sections absent from the user file keep their defaults.
	if !cfg.Safety.Enabled {
		t.Fatal("expected safety filter to stay enabled")
	}
	if len(cfg.Models) != 3 {
		t.Fatalf("expected default model table, got %d entries", len(cfg.Models))
	}
	if cfg.Installer.Command != "pip" {
		t.Fatalf("expected default installer command, got %q", cfg.Installer.Command)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("CODEHELPER_CONFIG", path)

	loader := NewFileLoader("")
	if loader.Path() != path {
		t.Fatalf("expected env override path %q, got %q", path, loader.Path())
	}
	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written at override path: %v", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("models: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestHydrateFillsModelDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	custom := `models:
  - name: local-llama
    provider: ollama
    endpoint: http://localhost:11434/api/chat
    model_id: llama3
`
	if err := os.WriteFile(path, []byte(custom), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(cfg.Models) != 1 {
		t.Fatalf("expected user model table to replace defaults, got %d entries", len(cfg.Models))
	}
	model := cfg.Models[0]
	if model.MaxTokens != 1024 {
		t.Fatalf("expected hydrated max tokens, got %d", model.MaxTokens)
	}
	if model.Temperature != 0.7 {
		t.Fatalf("expected hydrated temperature, got %v", model.Temperature)
	}
}
