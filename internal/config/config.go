// Package config provides reading and writing of revu configuration.
// Supports both global (~/.revu/config.yaml) and local (.revu/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.revu/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is session-directory config in .revu/config.yaml
	ScopeLocal
)

// Author represents the reviewer metadata recorded in the edit audit log.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// Timeline holds timeline rendering and interaction options.
type Timeline struct {
	MarkerWidth   *float64 `yaml:"marker_width,omitempty"`
	EdgePanTickMs *int     `yaml:"edge_pan_tick_ms,omitempty"`
}

// History holds undo/redo history options.
type History struct {
	Limit *int `yaml:"limit,omitempty"`
}

// Resync holds media resynchronization options.
type Resync struct {
	SuppressMs *int `yaml:"suppress_ms,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultMarkerWidth   = 12.0
	DefaultEdgePanTickMs = 16
	DefaultHistoryLimit  = 100
	DefaultSuppressMs    = 300
)

// Validation bounds for configuration values.
const (
	MinMarkerWidth   = 1.0
	MaxMarkerWidth   = 200.0
	MinEdgePanTickMs = 1
	MaxEdgePanTickMs = 1000
	MinHistoryLimit  = 1
	MaxHistoryLimit  = 10000
	MinSuppressMs    = 0
	MaxSuppressMs    = 10000
)

// Config contains configuration for revu.
type Config struct {
	Author   Author   `yaml:"author,omitempty"`
	Timeline Timeline `yaml:"timeline,omitempty"`
	History  History  `yaml:"history,omitempty"`
	Resync   Resync   `yaml:"resync,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Timeline.MarkerWidth != nil {
		v := *c.Timeline.MarkerWidth
		if v < MinMarkerWidth || v > MaxMarkerWidth {
			return fmt.Errorf("%w: timeline.marker_width must be between %g and %g, got %g",
				ErrInvalidValue, MinMarkerWidth, MaxMarkerWidth, v)
		}
	}
	if c.Timeline.EdgePanTickMs != nil {
		v := *c.Timeline.EdgePanTickMs
		if v < MinEdgePanTickMs || v > MaxEdgePanTickMs {
			return fmt.Errorf("%w: timeline.edge_pan_tick_ms must be between %d and %d, got %d",
				ErrInvalidValue, MinEdgePanTickMs, MaxEdgePanTickMs, v)
		}
	}
	if c.History.Limit != nil {
		v := *c.History.Limit
		if v < MinHistoryLimit || v > MaxHistoryLimit {
			return fmt.Errorf("%w: history.limit must be between %d and %d, got %d",
				ErrInvalidValue, MinHistoryLimit, MaxHistoryLimit, v)
		}
	}
	if c.Resync.SuppressMs != nil {
		v := *c.Resync.SuppressMs
		if v < MinSuppressMs || v > MaxSuppressMs {
			return fmt.Errorf("%w: resync.suppress_ms must be between %d and %d, got %d",
				ErrInvalidValue, MinSuppressMs, MaxSuppressMs, v)
		}
	}
	return nil
}

// MarkerWidth returns the folded-gap marker width in pixels (defaults to 12).
func (c *Config) MarkerWidth() float64 {
	if c.Timeline.MarkerWidth == nil {
		return DefaultMarkerWidth
	}
	return *c.Timeline.MarkerWidth
}

// EdgePanTickMs returns the edge-pan tick interval in milliseconds
// (defaults to 16, roughly one display frame).
func (c *Config) EdgePanTickMs() int {
	if c.Timeline.EdgePanTickMs == nil {
		return DefaultEdgePanTickMs
	}
	return *c.Timeline.EdgePanTickMs
}

// HistoryLimit returns the undo stack depth (defaults to 100).
func (c *Config) HistoryLimit() int {
	if c.History.Limit == nil {
		return DefaultHistoryLimit
	}
	return *c.History.Limit
}

// SuppressMs returns how long player position callbacks stay suppressed
// after a media swap, in milliseconds (defaults to 300).
func (c *Config) SuppressMs() int {
	if c.Resync.SuppressMs == nil {
		return DefaultSuppressMs
	}
	return *c.Resync.SuppressMs
}

// LocalPath returns the path to the local (session) config file.
func LocalPath() string {
	return filepath.Join(".revu", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.revu/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".revu", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
