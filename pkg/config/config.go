// Package config handles loading and saving arbor configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/arbor/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source represents a registered tree source in the config.
type Source struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// ViewerConfig holds viewer preference settings.
type ViewerConfig struct {
	MultiSelect   *bool `yaml:"multi_select,omitempty"`   // nil means true
	DebounceMs    int   `yaml:"debounce_ms,omitempty"`    // search debounce, default 250
	ShowCounts    bool  `yaml:"show_counts,omitempty"`    // leaf counts next to branches
	CollapseDepth int   `yaml:"collapse_depth,omitempty"` // initial expand depth, 0 = derived
}

// ExportConfig holds defaults for snapshot export.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // svg or png
	Dir    string `yaml:"dir,omitempty"`    // output directory, ~ expanded
}

// Config is the top-level configuration for arbor.
type Config struct {
	Sources       []Source     `yaml:"sources,omitempty"`
	DefaultSource string       `yaml:"default_source,omitempty"`
	Viewer        ViewerConfig `yaml:"viewer,omitempty"`
	Export        ExportConfig `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Viewer: ViewerConfig{
			DebounceMs: 250,
		},
		Export: ExportConfig{
			Format: "svg",
		},
	}
}

// MultiSelectEnabled reports the effective multi-select setting (default true).
func (v ViewerConfig) MultiSelectEnabled() bool {
	if v.MultiSelect == nil {
		return true
	}
	return *v.MultiSelect
}

// ConfigDir returns the XDG config directory for arbor.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "arbor")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "arbor")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Viewer.DebounceMs <= 0 {
		cfg.Viewer.DebounceMs = 250
	}

	// Expand ~ in paths
	for i := range cfg.Sources {
		cfg.Sources[i].Path = expandHome(cfg.Sources[i].Path)
	}
	cfg.Export.Dir = expandHome(cfg.Export.Dir)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FindSource returns the source with the given name, or nil.
func (c Config) FindSource(name string) *Source {
	for i := range c.Sources {
		if strings.EqualFold(c.Sources[i].Name, name) {
			return &c.Sources[i]
		}
	}
	return nil
}

// ResolveSource picks the source to open: an explicit name wins, then the
// configured default, then a lone registered source.
func (c Config) ResolveSource(name string) *Source {
	if name != "" {
		return c.FindSource(name)
	}
	if c.DefaultSource != "" {
		return c.FindSource(c.DefaultSource)
	}
	if len(c.Sources) == 1 {
		return &c.Sources[0]
	}
	return nil
}

// ResolvedPath returns the source path with ~ expanded.
func (s Source) ResolvedPath() string {
	return expandHome(s.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
