// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic. This separation allows config.go to focus on YAML structure
// and loading, while this file handles the MCP and CLI interface where config
// is accessed by string keys (e.g., "timeline.marker_width").
//
// Design: Pointers are used for optional fields so we can distinguish between
// "not set" (nil) and "explicitly set to zero". This enables proper
// defaulting - we only apply defaults when the user hasn't set a value.

package config

import (
	"fmt"
	"slices"
	"strconv"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"author.name", "author.email",
		"timeline.marker_width", "timeline.edge_pan_tick_ms",
		"history.limit",
		"resync.suppress_ms",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "author.name":
		return c.Author.Name, nil
	case "author.email":
		return c.Author.Email, nil
	case "timeline.marker_width":
		return strconv.FormatFloat(c.MarkerWidth(), 'g', -1, 64), nil
	case "timeline.edge_pan_tick_ms":
		return strconv.Itoa(c.EdgePanTickMs()), nil
	case "history.limit":
		return strconv.Itoa(c.HistoryLimit()), nil
	case "resync.suppress_ms":
		return strconv.Itoa(c.SuppressMs()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "author.name":
		c.Author.Name = value
	case "author.email":
		c.Author.Email = value
	case "timeline.marker_width":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: timeline.marker_width must be a positive number", ErrInvalidValue)
		}
		c.Timeline.MarkerWidth = &f
	case "timeline.edge_pan_tick_ms":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: timeline.edge_pan_tick_ms must be a positive integer", ErrInvalidValue)
		}
		c.Timeline.EdgePanTickMs = &n
	case "history.limit":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: history.limit must be a positive integer", ErrInvalidValue)
		}
		c.History.Limit = &n
	case "resync.suppress_ms":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: resync.suppress_ms must be a non-negative integer", ErrInvalidValue)
		}
		c.Resync.SuppressMs = &n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	return map[string]string{
		"author.name":               c.Author.Name,
		"author.email":              c.Author.Email,
		"timeline.marker_width":     strconv.FormatFloat(c.MarkerWidth(), 'g', -1, 64),
		"timeline.edge_pan_tick_ms": strconv.Itoa(c.EdgePanTickMs()),
		"history.limit":             strconv.Itoa(c.HistoryLimit()),
		"resync.suppress_ms":        strconv.Itoa(c.SuppressMs()),
	}
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "author.name":
		return c.Author.Name != ""
	case "author.email":
		return c.Author.Email != ""
	case "timeline.marker_width":
		return c.Timeline.MarkerWidth != nil
	case "timeline.edge_pan_tick_ms":
		return c.Timeline.EdgePanTickMs != nil
	case "history.limit":
		return c.History.Limit != nil
	case "resync.suppress_ms":
		return c.Resync.SuppressMs != nil
	default:
		return false
	}
}
