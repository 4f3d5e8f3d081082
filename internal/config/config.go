package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DirName is the per-user directory holding the config file and, by
// default, the database and backups.
const DirName = ".hooplog"

// Config represents the application configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	API      APIConfig      `toml:"api"`
	Log      LogConfig      `toml:"log"`
	Backup   BackupConfig   `toml:"backup"`
	Watch    WatchConfig    `toml:"watch"`
	Charts   ChartsConfig   `toml:"charts"`
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path        string `toml:"path"`         // Database file; empty means ~/.hooplog/hooplog.db
	JournalMode string `toml:"journal_mode"` // WAL, DELETE, ...
	BusyTimeout string `toml:"busy_timeout"` // e.g. "5s"
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port            int      `toml:"port"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	LoginsPerMinute float64  `toml:"logins_per_minute"` // Per email
	LoginBurst      int      `toml:"login_burst"`
	SessionTTL      string   `toml:"session_ttl"` // e.g. "168h"
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level       string `toml:"level"`       // debug, info, warn, error
	Development bool   `toml:"development"` // Console encoder, stack traces on warn
}

// BackupConfig contains scheduled backup settings.
type BackupConfig struct {
	Enabled  bool   `toml:"enabled"`
	Dir      string `toml:"dir"`      // Empty means <database dir>/backups
	Interval string `toml:"interval"` // e.g. "24h"
	Keep     int    `toml:"keep"`     // Newest backups kept by pruning; 0 keeps all
	Encrypt  bool   `toml:"encrypt"`  // Passphrase comes from HOOPLOG_BACKUP_PASSPHRASE
}

// WatchConfig contains external change watcher settings.
type WatchConfig struct {
	Enabled  bool   `toml:"enabled"`
	Debounce string `toml:"debounce"` // e.g. "200ms"
}

// ChartsConfig contains chart rendering settings.
type ChartsConfig struct {
	Theme  string `toml:"theme"`
	Width  string `toml:"width"`
	Height string `toml:"height"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			JournalMode: "WAL",
			BusyTimeout: "5s",
		},
		API: APIConfig{
			Port:            8080,
			AllowedOrigins:  []string{"http://localhost:*", "http://127.0.0.1:*"},
			LoginsPerMinute: 5,
			LoginBurst:      5,
			SessionTTL:      "168h",
		},
		Log: LogConfig{
			Level: "info",
		},
		Backup: BackupConfig{
			Enabled:  false,
			Interval: "24h",
			Keep:     7,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: "200ms",
		},
		Charts: ChartsConfig{
			Theme:  "light",
			Width:  "900px",
			Height: "500px",
		},
	}
}

// Dir returns ~/.hooplog.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, DirName), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads ~/.hooplog/config.toml. Returns the default config if the file
// doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the config at path. Keys missing from the file keep their
// default values. A missing file yields the default config.
func LoadFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return config, nil
}

// Save writes the configuration to ~/.hooplog/config.toml.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	durations := []struct {
		name  string
		value string
	}{
		{"database.busy_timeout", c.Database.BusyTimeout},
		{"api.session_ttl", c.API.SessionTTL},
		{"backup.interval", c.Backup.Interval},
		{"watch.debounce", c.Watch.Debounce},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
		if v < 0 {
			return fmt.Errorf("%s cannot be negative: %s", d.name, d.value)
		}
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api port out of range: %d", c.API.Port)
	}
	if c.API.LoginsPerMinute <= 0 {
		return fmt.Errorf("api logins_per_minute must be positive: %v", c.API.LoginsPerMinute)
	}
	if c.API.LoginBurst < 1 {
		return fmt.Errorf("api login_burst must be at least 1: %d", c.API.LoginBurst)
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup keep cannot be negative: %d", c.Backup.Keep)
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// DatabasePath returns the configured database path, defaulting to
// ~/.hooplog/hooplog.db.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hooplog.db"), nil
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// GetBusyTimeout returns the database busy timeout. Call Validate first.
func (c *Config) GetBusyTimeout() time.Duration { return mustDuration(c.Database.BusyTimeout) }

// GetSessionTTL returns the API session lifetime. Call Validate first.
func (c *Config) GetSessionTTL() time.Duration { return mustDuration(c.API.SessionTTL) }

// GetBackupInterval returns the backup schedule interval. Call Validate first.
func (c *Config) GetBackupInterval() time.Duration { return mustDuration(c.Backup.Interval) }

// GetWatchDebounce returns the change watcher debounce. Call Validate first.
func (c *Config) GetWatchDebounce() time.Duration { return mustDuration(c.Watch.Debounce) }
