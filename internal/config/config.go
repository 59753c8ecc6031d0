package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/bethropolis/deck/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger    logger.Config   `toml:"logger"`
	Engine    EngineConfig    `toml:"engine"`
	Clipboard ClipboardConfig `toml:"clipboard"`
	Themes    ThemesConfig    `toml:"themes"`
	Server    ServerConfig    `toml:"server"`

	// Plugins holds one free-form table per plugin, keyed by plugin name.
	// Each plugin decodes its own table.
	Plugins map[string]map[string]any `toml:"plugins"`
}

// EngineConfig tunes the document engine.
type EngineConfig struct {
	MaxHistory       int     `toml:"max_history"`
	DuplicateOffset  float64 `toml:"duplicate_offset"`
	StrictInvariants bool    `toml:"strict_invariants"`
}

// ClipboardConfig controls the element clipboard.
type ClipboardConfig struct {
	System bool `toml:"system"` // mirror copies to the OS clipboard
}

// ThemesConfig locates user theme files.
type ThemesConfig struct {
	Dir string `toml:"dir"` // empty means <config dir>/themes
}

// ServerConfig configures `deck serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Engine: EngineConfig{
			MaxHistory:      DefaultMaxHistory,
			DuplicateOffset: DefaultDuplicateOffset,
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// DefaultPath returns the config file location under the user config
// directory ($XDG_CONFIG_HOME/deck/config.toml on Linux).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, ConfigDirName, DefaultConfigFileName), nil
}

// loadFromFile decodes the TOML file at filePath over cfg. A missing file
// is not an error.
func loadFromFile(cfg *Config, filePath string) error {
	_, err := os.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("Config file not found: %s", filePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		var unknown []toml.Key
		for _, key := range undecoded {
			// Plugin tables are free-form and decoded by each plugin.
			if len(key) > 0 && key[0] == "plugins" {
				continue
			}
			unknown = append(unknown, key)
		}
		if len(unknown) > 0 {
			logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, unknown)
		}
	}
	logger.Infof("Loaded configuration from: %s", filePath)
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Engine.MaxHistory <= 0 {
		c.Engine.MaxHistory = defaults.Engine.MaxHistory
	}
	if c.Engine.DuplicateOffset <= 0 {
		c.Engine.DuplicateOffset = defaults.Engine.DuplicateOffset
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
}

// ThemesDir returns the directory user themes are read from.
func (c *Config) ThemesDir() string {
	if c.Themes.Dir != "" {
		return c.Themes.Dir
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ConfigDirName, ThemesDirName)
}

// Plugin returns the raw settings table for the named plugin, or nil.
func (c *Config) Plugin(name string) map[string]any {
	return c.Plugins[name]
}

// Load builds a configuration from defaults, the TOML file at path (the
// default location when empty) and the flags that were set in fs. The
// result is always usable; a non-nil error reports a broken config file
// whose contents were ignored.
func Load(path string, flags *Flags, fs *pflag.FlagSet) (*Config, error) {
	cfg := NewDefaultConfig()

	if path == "" {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	var fileErr error
	if path != "" {
		fileCfg := NewDefaultConfig()
		if err := loadFromFile(fileCfg, path); err != nil {
			fileErr = err
		} else {
			cfg = fileCfg
		}
	}

	if flags != nil && fs != nil {
		flags.ApplyOverrides(cfg, fs)
	}

	cfg.validate()
	return cfg, fileErr
}

// LoadConfig loads the process-wide configuration once; later calls return
// the first result. It should be called from main.
func LoadConfig(path string, flags *Flags, fs *pflag.FlagSet) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(path, flags, fs)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
