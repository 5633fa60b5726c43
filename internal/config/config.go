// ABOUTME: Environment-driven configuration for the DigestAI client.
// ABOUTME: Loads .env when present, then parses typed settings with defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config stores all client settings.
type Config struct {
	// Remote store (backend-as-a-service) endpoint and API key.
	StoreURL string `env:"DIGESTAI_STORE_URL"`
	StoreKey string `env:"DIGESTAI_STORE_KEY"`

	// AI webhook. An empty URL selects the built-in mock responder.
	AIWebhookURL   string `env:"DIGESTAI_AI_WEBHOOK_URL"`
	AITimeoutMs    int    `env:"DIGESTAI_AI_TIMEOUT_MS" envDefault:"30000"`
	AIMaxRetries   int    `env:"DIGESTAI_AI_MAX_RETRIES" envDefault:"3"`
	AIRetryDelayMs int    `env:"DIGESTAI_AI_RETRY_DELAY_MS" envDefault:"1000"`

	// Image host API key (ImgBB).
	ImgBBKey string `env:"DIGESTAI_IMGBB_KEY"`

	// DataDir is the root directory for the local cache.
	// Supports ~ expansion. Defaults to ~/.local/share/digestai.
	DataDir string `env:"DIGESTAI_DATA_DIR"`

	LogLevel string `env:"DIGESTAI_LOG_LEVEL" envDefault:"warn"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// AITimeout returns the webhook timeout as a duration.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutMs) * time.Millisecond
}

// AIRetryDelay returns the delay between webhook retries.
func (c *Config) AIRetryDelay() time.Duration {
	return time.Duration(c.AIRetryDelayMs) * time.Millisecond
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DefaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// DefaultDataDir returns the XDG data directory for digestai.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "digestai")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "digestai")
}

// ConfigDir returns the XDG config directory for digestai.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "digestai")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "digestai")
}

// SessionPath returns the path of the persisted session file.
func SessionPath() string {
	return filepath.Join(ConfigDir(), "session.json")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
