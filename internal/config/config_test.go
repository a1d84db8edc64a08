package config

import (
	"os"
	"path/filepath"
	"testing"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestSaveReloadRoundTrip(t *testing.T) {
	path := tempConfigPath(t)

	original := &Config{
		BaseURL:     "https://api.example.com",
		DataDir:     "/tmp/eventify-test",
		LogLevel:    "debug",
		HTTPTimeout: 10,
		PageSize:    4,
	}
	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.BaseURL != original.BaseURL {
		t.Errorf("BaseURL mismatch: %v != %v", loaded.BaseURL, original.BaseURL)
	}
	if loaded.LogLevel != original.LogLevel {
		t.Errorf("LogLevel mismatch: %v != %v", loaded.LogLevel, original.LogLevel)
	}
	if loaded.PageSize != original.PageSize {
		t.Errorf("PageSize mismatch: %v != %v", loaded.PageSize, original.PageSize)
	}
}

func TestLoadWritesDefaults(t *testing.T) {
	path := tempConfigPath(t)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL == "" || cfg.PageSize == 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults not written to disk: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := tempConfigPath(t)
	t.Setenv("EVENTIFY_BASE_URL", "https://override.example.com")
	t.Setenv("EVENTIFY_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "https://override.example.com" {
		t.Errorf("env override ignored: %v", cfg.BaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("env override ignored: %v", cfg.LogLevel)
	}
}

func TestGetSetValue(t *testing.T) {
	path := tempConfigPath(t)
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}

	if err := SetValue(path, "page_size", "12"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	val, err := GetValue(path, "page_size")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if n, ok := val.(float64); !ok || n != 12 {
		t.Errorf("expected 12, got %v", val)
	}

	if err := SetValue(path, "no_such_key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := SetValue(path, "page_size", "lots"); err == nil {
		t.Error("expected error for non-numeric value")
	}
}
