// Package config handles configuration loading and defaults for journey.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/journey/config.yaml).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"journey/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// DefaultStaleAfter mirrors the engine's default staleness threshold.
const DefaultStaleAfter = 32 * time.Hour

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.journey)
	DataDir string `yaml:"data_dir,omitempty"`

	// Storage selects where goal history is kept
	Storage StorageConfig `yaml:"storage,omitempty"`

	// Streak tunes streak bookkeeping
	Streak StreakConfig `yaml:"streak,omitempty"`

	// Log configures the log file
	Log LogConfig `yaml:"log,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	path string
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is one of file, sqlite or redis
	Backend string `yaml:"backend,omitempty"` // default: "file"

	// SQLitePath overrides <data_dir>/journey.db
	SQLitePath string `yaml:"sqlite_path,omitempty"`

	Redis RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`     // default: "localhost:6379"
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"` // default: "journey"
}

// StreakConfig tunes the streak engine.
type StreakConfig struct {
	// StaleAfter is how long after the last recorded day the cached streak is
	// reset, e.g. "32h"
	StaleAfter time.Duration `yaml:"stale_after,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
	Debug bool   `yaml:"debug,omitempty"` // also log to stderr
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for the title and selected day (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for learned days and completion (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "l", "h,left"
type KeysConfig struct {
	Quit    string `yaml:"quit,omitempty"`     // default: "q,ctrl+c"
	Help    string `yaml:"help,omitempty"`     // default: "?"
	Learned string `yaml:"learned,omitempty"`  // default: "l"
	Freeze  string `yaml:"freeze,omitempty"`   // default: "f"
	PrevDay string `yaml:"prev_day,omitempty"` // default: "h,left"
	NextDay string `yaml:"next_day,omitempty"` // default: "right"
	Today   string `yaml:"today,omitempty"`    // default: "t"
	Reset   string `yaml:"reset,omitempty"`    // default: "r"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{
			Backend: "file",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "journey",
			},
		},
		Streak: StreakConfig{
			StaleAfter: DefaultStaleAfter,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Theme: ThemeConfig{
			Primary: "#7C3AED", // Violet
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
			Text:    "",        // Terminal default
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".journey"
	}
	return filepath.Join(home, ".journey")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "journey")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "journey")
}

// DefaultPath returns the config file path used when none is given.
func DefaultPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from the default path, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit file path. An empty path means
// DefaultPath.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	cfg.path = path
	if path == "" {
		if err := cfg.applyEnv(loadEnv("")); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		var userCfg Config
		if err := yaml.Unmarshal(data, &userCfg); err != nil {
			return nil, err
		}

		var doc yaml.Node
		_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

		cfg.mergeFromYAML(&userCfg, &doc)
	}

	if err := cfg.applyEnv(loadEnv(filepath.Dir(path))); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the configuration was loaded from and saves to.
func (c *Config) Path() string {
	if c.path != "" {
		return c.path
	}
	return DefaultPath()
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}

	if other.Storage.Backend != "" {
		c.Storage.Backend = strings.ToLower(other.Storage.Backend)
	}
	if other.Storage.SQLitePath != "" {
		c.Storage.SQLitePath = other.Storage.SQLitePath
	}
	if other.Storage.Redis.Addr != "" {
		c.Storage.Redis.Addr = other.Storage.Redis.Addr
	}
	if other.Storage.Redis.Password != "" {
		c.Storage.Redis.Password = other.Storage.Redis.Password
	}
	if other.Storage.Redis.DB > 0 {
		c.Storage.Redis.DB = other.Storage.Redis.DB
	}
	if other.Storage.Redis.Prefix != "" {
		c.Storage.Redis.Prefix = other.Storage.Redis.Prefix
	}

	if other.Streak.StaleAfter > 0 {
		c.Streak.StaleAfter = other.Streak.StaleAfter
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	if other.Theme.Primary != "" {
		c.Theme.Primary = other.Theme.Primary
	}
	if other.Theme.Accent != "" {
		c.Theme.Accent = other.Theme.Accent
	}
	if other.Theme.Muted != "" {
		c.Theme.Muted = other.Theme.Muted
	}
	if other.Theme.Text != "" {
		c.Theme.Text = other.Theme.Text
	}

	if other.Keys.Quit != "" {
		c.Keys.Quit = other.Keys.Quit
	}
	if other.Keys.Help != "" {
		c.Keys.Help = other.Keys.Help
	}
	if other.Keys.Learned != "" {
		c.Keys.Learned = other.Keys.Learned
	}
	if other.Keys.Freeze != "" {
		c.Keys.Freeze = other.Keys.Freeze
	}
	if other.Keys.PrevDay != "" {
		c.Keys.PrevDay = other.Keys.PrevDay
	}
	if other.Keys.NextDay != "" {
		c.Keys.NextDay = other.Keys.NextDay
	}
	if other.Keys.Today != "" {
		c.Keys.Today = other.Keys.Today
	}
	if other.Keys.Reset != "" {
		c.Keys.Reset = other.Keys.Reset
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Fall back to conservative behavior if we can't inspect presence.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	// Booleans and zero-is-meaningful values apply only when present.
	if yamlHasPath(doc, "log", "debug") {
		c.Log.Debug = other.Log.Debug
	}
	if yamlHasPath(doc, "storage", "redis", "db") {
		c.Storage.Redis.DB = other.Storage.Redis.DB
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to Path.
func (c *Config) Save() error {
	path := c.Path()
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	return expandHome(c.DataDir, defaultDataDir())
}

// GetSQLitePath returns the resolved sqlite database path, or "" to let the
// backend place it in the data directory.
func (c *Config) GetSQLitePath() string {
	return expandHome(c.Storage.SQLitePath, "")
}

func expandHome(p, fallback string) string {
	if p == "" {
		return fallback
	}
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
