package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chtmp isolates both scopes: HOME for global, cwd for local.
func chtmp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefaults(t *testing.T) {
	chtmp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultMarkerWidth, cfg.MarkerWidth())
	assert.Equal(t, DefaultEdgePanTickMs, cfg.EdgePanTickMs())
	assert.Equal(t, DefaultHistoryLimit, cfg.HistoryLimit())
	assert.Equal(t, DefaultSuppressMs, cfg.SuppressMs())
	assert.Equal(t, ScopeGlobal, cfg.Scope())
}

func TestSaveAndReload(t *testing.T) {
	chtmp(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Set("author.name", "Ada"))
	require.NoError(t, cfg.Set("timeline.marker_width", "16"))
	require.NoError(t, cfg.Save())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Author.Name)
	assert.Equal(t, 16.0, got.MarkerWidth())
	// unset values still default
	assert.Equal(t, DefaultHistoryLimit, got.HistoryLimit())
}

func TestLocalPrecedence(t *testing.T) {
	dir := chtmp(t)

	global, err := LoadScope(ScopeGlobal)
	require.NoError(t, err)
	require.NoError(t, global.Set("history.limit", "10"))
	require.NoError(t, global.Save())

	local, err := LoadScope(ScopeLocal)
	require.NoError(t, err)
	require.NoError(t, local.Set("history.limit", "20"))
	require.NoError(t, local.Save())

	// local config exists, so Load prefers it
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, cfg.Scope())
	assert.Equal(t, 20, cfg.HistoryLimit())

	require.NoError(t, os.Remove(filepath.Join(dir, ".revu", "config.yaml")))
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.HistoryLimit())
}

func TestValidate(t *testing.T) {
	bad := func(mutate func(*Config)) error {
		var c Config
		mutate(&c)
		return c.Validate()
	}

	w := 500.0
	assert.ErrorIs(t, bad(func(c *Config) { c.Timeline.MarkerWidth = &w }), ErrInvalidValue)
	n := 0
	assert.ErrorIs(t, bad(func(c *Config) { c.History.Limit = &n }), ErrInvalidValue)
	tick := 5000
	assert.ErrorIs(t, bad(func(c *Config) { c.Timeline.EdgePanTickMs = &tick }), ErrInvalidValue)
	s := 60000
	assert.ErrorIs(t, bad(func(c *Config) { c.Resync.SuppressMs = &s }), ErrInvalidValue)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := chtmp(t)

	path := filepath.Join(dir, ".revu", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("history:\n  limit: -5\n"), 0o644))

	_, err := LoadScope(ScopeGlobal)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestKeys(t *testing.T) {
	t.Run("get and set round-trip", func(t *testing.T) {
		var c Config
		for _, key := range ValidKeys() {
			assert.True(t, IsValidKey(key))
			_, err := c.Get(key)
			assert.NoError(t, err)
		}
		require.NoError(t, c.Set("resync.suppress_ms", "150"))
		v, err := c.Get("resync.suppress_ms")
		require.NoError(t, err)
		assert.Equal(t, "150", v)
	})

	t.Run("unknown key", func(t *testing.T) {
		var c Config
		_, err := c.Get("nope.nope")
		assert.ErrorIs(t, err, ErrUnknownKey)
		assert.ErrorIs(t, c.Set("nope.nope", "x"), ErrUnknownKey)
		assert.False(t, IsValidKey("nope.nope"))
	})

	t.Run("invalid values", func(t *testing.T) {
		var c Config
		assert.ErrorIs(t, c.Set("history.limit", "abc"), ErrInvalidValue)
		assert.ErrorIs(t, c.Set("timeline.marker_width", "-1"), ErrInvalidValue)
	})

	t.Run("IsSet distinguishes explicit zero-adjacent values", func(t *testing.T) {
		var c Config
		assert.False(t, c.IsSet("resync.suppress_ms"))
		require.NoError(t, c.Set("resync.suppress_ms", "0"))
		assert.True(t, c.IsSet("resync.suppress_ms"))
		assert.Equal(t, 0, c.SuppressMs())
	})
}
