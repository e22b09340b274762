// Package config handles loading and saving roadmap configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/roadmap/config.yaml
//
// Viewer state (selection, tour) is deliberately not stored here or anywhere
// else; every view starts fresh.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "roadmap"

// RoadmapConfig selects what the viewer opens.
type RoadmapConfig struct {
	DefaultRole string `yaml:"default_role,omitempty"`
	Dataset     string `yaml:"dataset,omitempty"` // YAML, JSON or TOML dataset file
	Layout      string `yaml:"layout,omitempty"`  // tree or timeline
}

// TourConfig holds the autoplay tour policy.
type TourConfig struct {
	Interval     string `yaml:"interval,omitempty"` // Go duration, e.g. 3s
	End          string `yaml:"end,omitempty"`      // wrap or halt
	StopOnSelect *bool  `yaml:"stop_on_select,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	MarkdownDetails *bool `yaml:"markdown_details,omitempty"`
	ShowSidebar     *bool `yaml:"show_sidebar,omitempty"`
}

// Config is the top-level configuration for roadmap.
type Config struct {
	Roadmap   RoadmapConfig  `yaml:"roadmap,omitempty"`
	Tour      TourConfig     `yaml:"tour,omitempty"`
	UI        UIConfig       `yaml:"ui,omitempty"`
	Favorites map[int]string `yaml:"favorites,omitempty"` // Number key (0-9) -> role id
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Roadmap: RoadmapConfig{
			Layout: "tree",
		},
		Tour: TourConfig{
			Interval: "3s",
			End:      "wrap",
		},
		Favorites: make(map[int]string),
	}
}

// ConfigDir returns the XDG config directory for roadmap.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
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

	if cfg.Favorites == nil {
		cfg.Favorites = make(map[int]string)
	}
	cfg.Roadmap.Dataset = expandHome(cfg.Roadmap.Dataset)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
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

// Validate checks the values that have a fixed vocabulary.
func (c Config) Validate() error {
	if _, err := c.TourInterval(); err != nil {
		return err
	}
	switch strings.ToLower(c.Tour.End) {
	case "", "wrap", "halt":
	default:
		return fmt.Errorf("tour.end must be wrap or halt, got %q", c.Tour.End)
	}
	switch strings.ToLower(c.Roadmap.Layout) {
	case "", "tree", "timeline":
	default:
		return fmt.Errorf("roadmap.layout must be tree or timeline, got %q", c.Roadmap.Layout)
	}
	for n := range c.Favorites {
		if n < 0 || n > 9 {
			return fmt.Errorf("favorite key %d out of range 0-9", n)
		}
	}
	return nil
}

// TourInterval parses the tour interval. Empty means zero, which callers
// treat as the default.
func (c Config) TourInterval() (time.Duration, error) {
	if c.Tour.Interval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Tour.Interval)
	if err != nil {
		return 0, fmt.Errorf("tour.interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("tour.interval must be positive, got %s", d)
	}
	return d, nil
}

// StopOnSelect reports whether picking a node stops the tour. Default true.
func (c Config) StopOnSelect() bool {
	return boolOr(c.Tour.StopOnSelect, true)
}

// MarkdownDetails reports whether the detail panel renders Markdown. Default true.
func (c Config) MarkdownDetails() bool {
	return boolOr(c.UI.MarkdownDetails, true)
}

// ShowSidebar reports whether the role sidebar is shown. Default true.
func (c Config) ShowSidebar() bool {
	return boolOr(c.UI.ShowSidebar, true)
}

// FavoriteRole returns the role id assigned to number key n, if any.
func (c Config) FavoriteRole(n int) (string, bool) {
	id, ok := c.Favorites[n]
	return id, ok && id != ""
}

// SetFavorite assigns a role id to a number key. An empty id clears it.
func (c *Config) SetFavorite(n int, roleID string) {
	if c.Favorites == nil {
		c.Favorites = make(map[int]string)
	}
	if roleID == "" {
		delete(c.Favorites, n)
	} else {
		c.Favorites[n] = roleID
	}
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
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
