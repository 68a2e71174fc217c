package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ClientConfig holds settings for the terminal client.
type ClientConfig struct {
	API     APIConfig     `toml:"api"`
	Budgets BudgetsConfig `toml:"budgets"`
	Logging LoggingConfig `toml:"logging"`
}

// APIConfig describes how to reach the backend.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// BudgetsConfig holds budget display preferences.
type BudgetsConfig struct {
	// Year is the fixed budget year the views operate on. Zero means the
	// current calendar year.
	Year int `toml:"year,omitempty"`
}

// LoggingConfig controls where the client writes its log.
type LoggingConfig struct {
	File string `toml:"file,omitempty"`
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 15,
		},
	}
}

// Timeout returns the HTTP timeout as a duration.
func (c ClientConfig) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// BudgetYear returns the configured year, defaulting to the current one.
func (c ClientConfig) BudgetYear() int {
	if c.Budgets.Year > 0 {
		return c.Budgets.Year
	}
	return time.Now().Year()
}

// LogPath returns the log file path, defaulting to client.log in the config dir.
func (c ClientConfig) LogPath() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(ClientDir(), "client.log")
}

// ClientDir returns the XDG-compliant config directory.
func ClientDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgettool")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgettool")
}

// ClientPath returns the full path to the client config file.
func ClientPath() string {
	return filepath.Join(ClientDir(), "config.toml")
}

// SessionPath returns where the client persists its auth session.
func SessionPath() string {
	return filepath.Join(ClientDir(), "session.json")
}

// LoadClient reads the client config file, returning defaults if it doesn't
// exist. BUDGETTOOL_API_URL overrides the configured base URL.
func LoadClient() (ClientConfig, error) {
	cfg, err := LoadClientFrom(ClientPath())
	if url := os.Getenv("BUDGETTOOL_API_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	return cfg, err
}

// LoadClientFrom reads a client config from an explicit path.
func LoadClientFrom(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveClient writes the client config to disk.
func SaveClient(cfg ClientConfig) error {
	return SaveClientTo(ClientPath(), cfg)
}

// SaveClientTo writes the client config to an explicit path.
func SaveClientTo(path string, cfg ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
