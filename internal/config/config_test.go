package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.Limits.MaxRequestsPerMinute != 200 {
		t.Errorf("expected default max_requests_per_minute 200, got %d", cfg.Limits.MaxRequestsPerMinute)
	}
	if cfg.Limits.DocumentBudget != 30 {
		t.Errorf("expected default document_budget 30, got %d", cfg.Limits.DocumentBudget)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("expected default retry.max_attempts 5, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.classchat.yml")

	original := DefaultConfig()
	original.Provider = ProviderOllama
	original.Model = "llama3"
	original.CatalogPath = "courses/catalog.yml"
	original.Server.Port = 9090
	original.Limits.DocumentBudget = 15
	original.Retry.BaseDelayMS = 500

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.CatalogPath != original.CatalogPath {
		t.Errorf("catalog_path: got %q, want %q", loaded.CatalogPath, original.CatalogPath)
	}
	if loaded.Server.Port != original.Server.Port {
		t.Errorf("server.port: got %d, want %d", loaded.Server.Port, original.Server.Port)
	}
	if loaded.Limits.DocumentBudget != original.Limits.DocumentBudget {
		t.Errorf("limits.document_budget: got %d, want %d", loaded.Limits.DocumentBudget, original.Limits.DocumentBudget)
	}
	if loaded.Retry.BaseDelayMS != original.Retry.BaseDelayMS {
		t.Errorf("retry.base_delay_ms: got %d, want %d", loaded.Retry.BaseDelayMS, original.Retry.BaseDelayMS)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Override provider via env var.
	os.Setenv("CLASSCHAT_PROVIDER", "ollama")
	defer os.Unsetenv("CLASSCHAT_PROVIDER")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider != ProviderOllama {
		t.Errorf("env override failed: got %q, want %q", loaded.Provider, ProviderOllama)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "watson" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"empty catalog path", func(c *Config) { c.CatalogPath = "" }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"zero rate limit", func(c *Config) { c.Limits.MaxRequestsPerMinute = 0 }},
		{"zero document budget", func(c *Config) { c.Limits.DocumentBudget = 0 }},
		{"zero retry attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }},
		{"max delay below base", func(c *Config) { c.Retry.MaxDelayMS = c.Retry.BaseDelayMS - 1 }},
		{"negative free messages", func(c *Config) { c.Quota.FreeMessages = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
