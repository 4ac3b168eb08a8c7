// Package config manages snip configuration and the .snip directory structure.
// It handles loading, saving, and initializing the workspace configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	SnipDir      = ".snip"
	ConfigFile   = "config"
	DatabaseFile = "snip.db"
	BackupsDir   = "backups"

	// EnvDir overrides directory discovery with an explicit .snip path.
	EnvDir = "SNIP_DIR"
)

const (
	BackendBbolt  = "bbolt"
	BackendSQLite = "sqlite"
)

// BackupConfig controls the snapshot archive
type BackupConfig struct {
	Keep     int  `toml:"keep"`      // Snapshots kept after pruning, 0 keeps all
	OnImport bool `toml:"on_import"` // Snapshot the collection before an import replaces it
}

// Config represents the snip configuration
type Config struct {
	Backend   string       `toml:"backend"`
	LogLevel  string       `toml:"log_level"`
	LogFormat string       `toml:"log_format"`
	Backup    BackupConfig `toml:"backup"`
	path      string       // path to .snip directory
}

// Default returns the configuration written by Initialize
func Default() *Config {
	return &Config{
		Backend:   BackendBbolt,
		LogLevel:  "warn",
		LogFormat: "text",
		Backup: BackupConfig{
			Keep:     10,
			OnImport: true,
		},
	}
}

// FindRoot returns the .snip directory named by SNIP_DIR, or finds one by
// walking up from the current directory.
func FindRoot() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
		return "", fmt.Errorf("%s=%s is not a directory", EnvDir, dir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findRootFrom(cwd)
}

func findRootFrom(dir string) (string, error) {
	for {
		snipPath := filepath.Join(dir, SnipDir)
		if info, err := os.Stat(snipPath); err == nil && info.IsDir() {
			return snipPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not a snip workspace (or any parent up to root); run 'snip init'")
		}
		dir = parent
	}
}

// Load loads the configuration from the discovered .snip directory
func Load() (*Config, error) {
	snipPath, err := FindRoot()
	if err != nil {
		return nil, err
	}
	return LoadFrom(snipPath)
}

// LoadFrom loads the configuration from the given .snip directory.
// Keys missing from the file keep their defaults.
func LoadFrom(snipPath string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(snipPath, ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.path = snipPath
	return cfg, nil
}

// Validate checks enumerated fields
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendBbolt, BackendSQLite:
	default:
		return fmt.Errorf("invalid backend %q (want %s or %s)", c.Backend, BackendBbolt, BackendSQLite)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (want text or json)", c.LogFormat)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("invalid backup.keep %d", c.Backup.Keep)
	}
	return nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configPath := filepath.Join(c.path, ConfigFile)
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SnipPath returns the path to the .snip directory
func (c *Config) SnipPath() string {
	return c.path
}

// DatabasePath returns the path to the snippet database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.path, DatabaseFile)
}

// BackupsPath returns the path to the backup archive
func (c *Config) BackupsPath() string {
	return filepath.Join(c.path, BackupsDir)
}

// Initialize creates a new .snip directory inside dir with default
// configuration and the given backend ("" keeps the default).
func Initialize(dir, backend string) (*Config, error) {
	snipPath := filepath.Join(dir, SnipDir)

	// Check if already initialized
	if _, err := os.Stat(snipPath); err == nil {
		return nil, fmt.Errorf("snip workspace already exists in %s", dir)
	}

	cfg := Default()
	if backend != "" {
		cfg.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.path = snipPath

	// Create directories
	if err := os.MkdirAll(snipPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .snip directory: %w", err)
	}

	if err := os.MkdirAll(cfg.BackupsPath(), 0755); err != nil {
		os.RemoveAll(snipPath)
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		// Cleanup on failure
		os.RemoveAll(snipPath)
		return nil, err
	}

	return cfg, nil
}

// ParseLevel maps a level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", name)
	}
}

// NewLogger builds the logger described by the config, writing to w
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
