// Package config handles configuration loading, validation, and hot reload
// for liuime.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"liuime/internal/engine"
	"liuime/internal/keymap"
)

// Config holds the complete daemon configuration.
type Config struct {
	// Dictionary configuration.
	Dictionary DictionaryConfig `toml:"dictionary" json:"dictionary" yaml:"dictionary"`

	// Engine configuration for the composition core.
	Engine EngineConfig `toml:"engine" json:"engine" yaml:"engine"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// IPC configuration for the control socket.
	IPC IPCConfig `toml:"ipc" json:"ipc" yaml:"ipc"`

	// Stats configuration for the commit journal.
	Stats StatsConfig `toml:"stats" json:"stats" yaml:"stats"`
}

// DictionaryConfig holds dictionary source configuration.
type DictionaryConfig struct {
	// Path is the chardefs JSON file.
	Path string `toml:"path" json:"path" yaml:"path"`

	// WatchReload reloads the dictionary when the file changes.
	WatchReload bool `toml:"watch_reload" json:"watch_reload" yaml:"watch_reload"`
}

// EngineConfig holds composition engine configuration.
type EngineConfig struct {
	// PageSize is the number of candidates per page (1-10; digits select
	// within the page, so more than ten cannot be addressed).
	PageSize int `toml:"page_size" json:"page_size" yaml:"page_size"`

	// QuitKey names the key that shuts the engine down ("f4", "f12", ...).
	// Empty disables it.
	QuitKey string `toml:"quit_key" json:"quit_key" yaml:"quit_key"`

	// StartupMode is "intercept" or "passthrough".
	StartupMode string `toml:"startup_mode" json:"startup_mode" yaml:"startup_mode"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is "stdout", "stderr", "file", or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file when Output includes "file".
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// IPCConfig holds control-socket configuration.
type IPCConfig struct {
	// SocketPath is the Unix socket for liuctl.
	SocketPath string `toml:"socket_path" json:"socket_path" yaml:"socket_path"`
}

// StatsConfig holds commit-journal configuration.
type StatsConfig struct {
	// Enabled turns the journal on. Only codes and counts are recorded,
	// never committed text.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// DefaultConfig returns the default configuration rooted in XDG paths.
func DefaultConfig() *Config {
	return &Config{
		Dictionary: DictionaryConfig{
			Path:        filepath.Join(dataDir(), "liu.json"),
			WatchReload: true,
		},
		Engine: EngineConfig{
			PageSize:    engine.DefaultPageSize,
			QuitKey:     "f4",
			StartupMode: "intercept",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		IPC: IPCConfig{
			SocketPath: defaultSocketPath(),
		},
		Stats: StatsConfig{
			Enabled: false,
			Path:    filepath.Join(dataDir(), "stats.db"),
		},
	}
}

// ConfigPath returns the default configuration file location.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "liuime", "config.toml")
}

func dataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "liuime")
}

func defaultSocketPath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		home, _ := os.UserHomeDir()
		runtimeDir = filepath.Join(home, ".liuime")
	}
	return filepath.Join(runtimeDir, "liuime.sock")
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Dictionary.Path == "" {
		return fmt.Errorf("dictionary.path is required")
	}
	if c.Engine.PageSize < 1 || c.Engine.PageSize > 10 {
		return fmt.Errorf("engine.page_size must be 1-10, got %d", c.Engine.PageSize)
	}
	if c.Engine.QuitKey != "" {
		if _, err := keymap.Parse(c.Engine.QuitKey); err != nil {
			return fmt.Errorf("engine.quit_key: %w", err)
		}
	}
	if _, ok := engine.ParseMode(c.Engine.StartupMode); !ok {
		return fmt.Errorf("engine.startup_mode must be intercept or passthrough, got %q", c.Engine.StartupMode)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.IPC.SocketPath == "" {
		return fmt.Errorf("ipc.socket_path is required")
	}
	if c.Stats.Enabled && c.Stats.Path == "" {
		return fmt.Errorf("stats.path is required when stats are enabled")
	}
	return nil
}

// ApplyEnvOverrides applies LIUIME_* environment variables over the loaded
// values. Useful for one-off runs without editing the config file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LIUIME_DICTIONARY"); v != "" {
		c.Dictionary.Path = v
	}
	if v := os.Getenv("LIUIME_SOCKET"); v != "" {
		c.IPC.SocketPath = v
	}
	if v := os.Getenv("LIUIME_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LIUIME_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.PageSize = n
		}
	}
	if v := os.Getenv("LIUIME_STARTUP_MODE"); v != "" {
		c.Engine.StartupMode = v
	}
}

// EngineOptions converts the validated engine section into dispatcher
// options. Call Validate first.
func (c *Config) EngineOptions() engine.Options {
	quitKey := keymap.KeyNone
	if c.Engine.QuitKey != "" {
		quitKey, _ = keymap.Parse(c.Engine.QuitKey)
	}
	mode, _ := engine.ParseMode(c.Engine.StartupMode)
	return engine.Options{
		PageSize:  c.Engine.PageSize,
		QuitKey:   quitKey,
		StartMode: mode,
	}
}

// Save writes the configuration as TOML.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
