// ABOUTME: Tests for environment configuration loading.
// ABOUTME: Covers defaults, overrides, duration helpers, and path expansion.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DIGESTAI_AI_TIMEOUT_MS", "DIGESTAI_AI_MAX_RETRIES", "DIGESTAI_AI_RETRY_DELAY_MS", "DIGESTAI_LOG_LEVEL",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AITimeoutMs != 30000 {
		t.Errorf("AITimeoutMs = %d, want 30000", cfg.AITimeoutMs)
	}
	if cfg.AIMaxRetries != 3 {
		t.Errorf("AIMaxRetries = %d, want 3", cfg.AIMaxRetries)
	}
	if cfg.AIRetryDelayMs != 1000 {
		t.Errorf("AIRetryDelayMs = %d, want 1000", cfg.AIRetryDelayMs)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DIGESTAI_STORE_URL", "https://store.example")
	t.Setenv("DIGESTAI_AI_TIMEOUT_MS", "5000")
	t.Setenv("DIGESTAI_AI_MAX_RETRIES", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.StoreURL != "https://store.example" {
		t.Errorf("StoreURL = %q", cfg.StoreURL)
	}
	if got := cfg.AITimeout(); got != 5*time.Second {
		t.Errorf("AITimeout() = %v, want 5s", got)
	}
	if cfg.AIMaxRetries != 1 {
		t.Errorf("AIMaxRetries = %d, want 1", cfg.AIMaxRetries)
	}
}

func TestAIRetryDelay(t *testing.T) {
	cfg := &Config{AIRetryDelayMs: 250}
	if got := cfg.AIRetryDelay(); got != 250*time.Millisecond {
		t.Errorf("AIRetryDelay() = %v, want 250ms", got)
	}
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetDataDir(); got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/digestai-test"}
	if got := cfg.GetDataDir(); got != "/tmp/digestai-test" {
		t.Errorf("GetDataDir() = %q, want /tmp/digestai-test", got)
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()
	cfg := &Config{DataDir: "~/digestai-data"}
	want := filepath.Join(home, "digestai-data")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/digestai", filepath.Join(home, "data/digestai")},
		{"data/digestai", "data/digestai"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSessionPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	want := filepath.Join(tmpDir, "digestai", "session.json")
	if got := SessionPath(); got != want {
		t.Errorf("SessionPath() = %q, want %q", got, want)
	}
}
