// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/markup"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config           `toml:"logger"`
	Editor  EditorConfig            `toml:"editor"`
	TagSync TagSyncConfig           `toml:"tagsync"`
	Plugins map[string]PluginConfig `toml:"plugins"`
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	TabWidth        int    `toml:"tab_width"`
	ScrollOff       int    `toml:"scroll_off"`
	SystemClipboard bool   `toml:"system_clipboard"`
	StatusBarHeight int    `toml:"status_bar_height"`
	Theme           string `toml:"theme"`
}

// TagSyncConfig controls tag pair renaming.
type TagSyncConfig struct {
	Enabled        bool     `toml:"enabled"`
	HighlightPair  bool     `toml:"highlight_pair"`
	TagNamePattern string   `toml:"tag_name_pattern"`
	Extensions     []string `toml:"extensions"`
}

// PluginConfig is the [plugins.<name>] table.
type PluginConfig struct {
	Enabled *bool `toml:"enabled"`
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: EditorConfig{
			TabWidth:        DefaultTabWidth,
			ScrollOff:       DefaultScrollOff,
			SystemClipboard: SystemClipboard,
			StatusBarHeight: StatusBarHeight,
			Theme:           "default",
		},
		TagSync: TagSyncConfig{
			Enabled:        true,
			HighlightPair:  true,
			TagNamePattern: markup.DefaultTagNamePattern,
			Extensions:     append([]string(nil), markup.DefaultExtensions...),
		},
		Plugins: map[string]PluginConfig{},
	}
}

// PluginEnabled reports whether a plugin should be loaded. Plugins are on unless
// their table says enabled = false.
func (c *Config) PluginEnabled(name string) bool {
	if pc, ok := c.Plugins[name]; ok && pc.Enabled != nil {
		return *pc.Enabled
	}
	return true
}

// DefaultPath is ~/.config/tagsync/config.toml, or "" when there is no config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// ThemesDir is ~/.config/tagsync/themes, or "" when there is no config dir.
func ThemesDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, ThemesDirName)
}

// decodeFile decodes path over cfg. Keys missing from the file keep their current
// values. A missing file is not an error.
func decodeFile(path string, cfg *Config) error {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", path, err)
	}

	metadata, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", path, undecoded)
	}
	return nil
}

// validate resets invalid values to their defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Editor.ScrollOff < 0 {
		c.Editor.ScrollOff = defaults.Editor.ScrollOff
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}
	if c.Editor.Theme == "" {
		c.Editor.Theme = defaults.Editor.Theme
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.TagSync.TagNamePattern == "" {
		c.TagSync.TagNamePattern = defaults.TagSync.TagNamePattern
	} else if _, err := regexp.Compile(c.TagSync.TagNamePattern); err != nil {
		logger.Warnf("Config: invalid tag_name_pattern %q, using default: %v", c.TagSync.TagNamePattern, err)
		c.TagSync.TagNamePattern = defaults.TagSync.TagNamePattern
	}
	if len(c.TagSync.Extensions) == 0 {
		c.TagSync.Extensions = defaults.TagSync.Extensions
	}
	if c.Plugins == nil {
		c.Plugins = map[string]PluginConfig{}
	}
}

// Load builds the configuration: defaults, then the TOML file, then flags that were
// set, then validation. An empty path means DefaultPath. A parse error is returned
// together with a usable config built without the file.
func Load(path string, flags *Flags) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := NewDefaultConfig()
	var loadErr error
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			loadErr = err
			cfg = NewDefaultConfig()
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, loadErr
}
