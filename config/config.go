// Package config loads editor settings from a .potui.yaml file next to the
// catalog, falling back to the user configuration directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the per-directory configuration file.
const FileName = ".potui.yaml"

// Config holds the editor settings.
type Config struct {
	// PageSize is the PageUp/PageDown step in the entry list.
	PageSize int `yaml:"page_size"`
	// Autosave writes the catalog on quit without prompting.
	Autosave bool `yaml:"autosave"`
	// Backup renames FILE to FILE.bak before each save.
	Backup bool `yaml:"backup"`
	// DefaultFilter is the filter active at startup: all, untranslated
	// or fuzzy.
	DefaultFilter string `yaml:"default_filter"`
	// DebugLog enables verbose logging to the given file.
	DebugLog string `yaml:"debug_log"`
}

// Default returns the settings used when no configuration file exists.
func Default() *Config {
	return &Config{
		PageSize:      10,
		Autosave:      true,
		DefaultFilter: "all",
	}
}

// overlay mirrors Config with optional fields, so an absent key keeps the
// default while an explicit "autosave: false" wins.
type overlay struct {
	PageSize      *int    `yaml:"page_size"`
	Autosave      *bool   `yaml:"autosave"`
	Backup        *bool   `yaml:"backup"`
	DefaultFilter *string `yaml:"default_filter"`
	DebugLog      *string `yaml:"debug_log"`
}

// Load reads the configuration for a catalog in dir. The lookup order is
// dir/.potui.yaml, then $XDG_CONFIG_HOME/potui/config.yaml. A missing file
// yields the defaults; a malformed one is an error.
func Load(dir string) (*Config, error) {
	candidates := []string{filepath.Join(dir, FileName)}
	if userDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(userDir, "potui", "config.yaml"))
	}
	for _, path := range candidates {
		cfg, err := loadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Default(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg := Default()
	if o.PageSize != nil {
		cfg.PageSize = *o.PageSize
	}
	if o.Autosave != nil {
		cfg.Autosave = *o.Autosave
	}
	if o.Backup != nil {
		cfg.Backup = *o.Backup
	}
	if o.DefaultFilter != nil {
		cfg.DefaultFilter = *o.DefaultFilter
	}
	if o.DebugLog != nil {
		cfg.DebugLog = *o.DebugLog
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("%s: page_size must be positive", path)
	}
	switch cfg.DefaultFilter {
	case "all", "untranslated", "fuzzy":
	default:
		return nil, fmt.Errorf("%s: unknown default_filter %q", path, cfg.DefaultFilter)
	}
	return cfg, nil
}
