// Package config provides configuration loading for termweb using TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// HTTP fetching settings
type Fetcher struct {
	UserAgent      string `toml:"userAgent"`
	TimeoutSeconds int    `toml:"timeoutSeconds"`
	JavaScript     bool   `toml:"javascript"` // render pages in headless Chrome
	ChromePath     string `toml:"chromePath"`
}

// Rendering settings
type Rendering struct {
	Width int `toml:"width"`
}

// Display settings
type Display struct {
	ScrollStep   int `toml:"scrollStep"`
	ReservedRows int `toml:"reservedRows"`
}

// Bookmarks settings
type Bookmarks struct {
	Path string `toml:"path"`
}

// Log settings
type Log struct {
	File string `toml:"file"` // empty discards log output
}

// Config holds all configuration.
type Config struct {
	Fetcher   Fetcher   `toml:"fetcher"`
	Rendering Rendering `toml:"rendering"`
	Display   Display   `toml:"display"`
	Bookmarks Bookmarks `toml:"bookmarks"`
	Log       Log       `toml:"log"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Fetcher: Fetcher{
			UserAgent:      "termweb/1.0 (Terminal Browser)",
			TimeoutSeconds: 30,
		},
		Rendering: Rendering{
			Width: 100,
		},
		Display: Display{
			ScrollStep:   5,
			ReservedRows: 7,
		},
		Bookmarks: Bookmarks{
			Path: "bookmarks.json",
		},
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "termweb"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads configuration from path, layering it on top of defaults.
// An empty path means the default location. A missing file at the
// default location yields the defaults; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return cfg, nil // Return defaults if we can't determine path
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return cfg, nil
	}

	userCfg, err := loadFromTOML(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	return merge(cfg, userCfg), nil
}

// loadFromTOML loads a TOML config file and returns the config.
func loadFromTOML(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return &cfg, nil
}

// merge layers user config on top of defaults.
// Only non-zero values from user config override defaults.
func merge(defaults, user *Config) *Config {
	result := *defaults

	mergeString(&result.Fetcher.UserAgent, user.Fetcher.UserAgent)
	mergeInt(&result.Fetcher.TimeoutSeconds, user.Fetcher.TimeoutSeconds)
	mergeString(&result.Fetcher.ChromePath, user.Fetcher.ChromePath)
	if user.Fetcher.JavaScript {
		result.Fetcher.JavaScript = true
	}

	mergeInt(&result.Rendering.Width, user.Rendering.Width)

	mergeInt(&result.Display.ScrollStep, user.Display.ScrollStep)
	mergeInt(&result.Display.ReservedRows, user.Display.ReservedRows)

	mergeString(&result.Bookmarks.Path, user.Bookmarks.Path)
	mergeString(&result.Log.File, user.Log.File)

	return &result
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeInt(dst *int, src int) {
	if src > 0 {
		*dst = src
	}
}

// DefaultTOML returns the default configuration as a TOML string.
// Used for --init-config to generate a user config file.
func DefaultTOML() string {
	return `# termweb configuration
# Save to ~/.config/termweb/config.toml and customize
# Only include settings you want to change from defaults

# HTTP fetching settings
[fetcher]
userAgent = "termweb/1.0 (Terminal Browser)"
timeoutSeconds = 30
javascript = false            # Render pages in headless Chrome
chromePath = ""               # Path to Chrome/Chromium (empty = auto-detect)

# Rendering settings
[rendering]
width = 100                   # Wrap width for rendered HTML

# Display settings
[display]
scrollStep = 5                # Lines moved per w/s
reservedRows = 7              # Rows kept for header, status and prompt

[bookmarks]
path = "bookmarks.json"

[log]
file = ""                     # Log file (empty = no logging)
`
}
