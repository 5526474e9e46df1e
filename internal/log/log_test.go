package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Use temp directory for test database
	tmpDir := t.TempDir()
	origDBPath := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	defer func() { dbPathFunc = origDBPath }()

	t.Run("open and close", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		// Verify database file exists
		assert.FileExists(t, DBPath())
	})

	t.Run("log entry", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetSession("/test/session")

		Log(Entry{
			Source:      "timeline:crop",
			Author:      "test-user",
			Action:      "crop",
			RangeStart:  1_500_000,
			RangeEnd:    3_500_000,
			ResultCount: 4,
			Success:     true,
		})

		// Verify entry was written
		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM log").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		var source, action string
		var rangeStart, rangeEnd int64
		var resultCount, success int
		err = db.QueryRow("SELECT source, action, range_start, range_end, result_count, success FROM log WHERE id = 1").
			Scan(&source, &action, &rangeStart, &rangeEnd, &resultCount, &success)
		require.NoError(t, err)
		assert.Equal(t, "timeline:crop", source)
		assert.Equal(t, "crop", action)
		assert.Equal(t, int64(1_500_000), rangeStart)
		assert.Equal(t, int64(3_500_000), rangeEnd)
		assert.Equal(t, 4, resultCount)
		assert.Equal(t, 1, success)
	})

	t.Run("log error entry", func(t *testing.T) {
		// Reset global for clean test
		Close()

		err := Open()
		require.NoError(t, err)
		defer Close()

		SetSession("/test/session")

		Log(Entry{
			Source:  "timeline:crop",
			Action:  "crop",
			Success: false,
			Error:   "range overlaps an existing gap",
		})

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var success int
		var errMsg string
		err = db.QueryRow("SELECT success, error FROM log ORDER BY id DESC LIMIT 1").
			Scan(&success, &errMsg)
		require.NoError(t, err)
		assert.Equal(t, 0, success)
		assert.Equal(t, "range overlaps an existing gap", errMsg)
	})

	t.Run("log with detail", func(t *testing.T) {
		Close()

		err := Open()
		require.NoError(t, err)
		defer Close()

		SetSession("/test/session")

		Log(Entry{
			Source:  "timeline:tag",
			Action:  "tag",
			Success: true,
			Detail:  map[string]any{"tag": "bug", "index": 42},
		})

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var detail string
		err = db.QueryRow("SELECT detail FROM log ORDER BY id DESC LIMIT 1").Scan(&detail)
		require.NoError(t, err)
		assert.Contains(t, detail, "bug")
		assert.Contains(t, detail, "42")
	})

	t.Run("log without logger is noop", func(t *testing.T) {
		Close()

		// Should not panic
		Log(Entry{
			Source:  "test:cmd",
			Action:  "test",
			Success: true,
		})
	})

	t.Run("open is idempotent", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)

		err = Open() // second call should succeed
		require.NoError(t, err)

		Close()
	})
}

func TestHash(t *testing.T) {
	h1 := hash("/home/user/sessions/run-1")
	h2 := hash("/home/user/sessions/run-1")
	h3 := hash("/home/user/sessions/run-2")

	assert.Equal(t, h1, h2, "same input should produce same hash")
	assert.NotEqual(t, h1, h3, "different input should produce different hash")
	assert.Len(t, h1, 16, "BLAKE2b-64 should produce 16 hex chars")
}

func TestDBPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expected := filepath.Join(home, ".revu", "log", "revu-log.db")

	// Use default path function
	origDBPath := dbPathFunc
	dbPathFunc = defaultDBPath
	defer func() { dbPathFunc = origDBPath }()

	assert.Equal(t, expected, DBPath())
}

func TestBuilder(t *testing.T) {
	// Use temp directory for test database
	tmpDir := t.TempDir()
	origDBPath := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	defer func() { dbPathFunc = origDBPath }()

	t.Run("fluent API success", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetSession("/test/session")

		Event("timeline:crop", "crop").
			Author("test-user").
			Range(1_000_000, 2_000_000).
			ResultCount(3).
			Write(nil) // success

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var source, author, action string
		var rangeStart int64
		var resultCount, success int
		err = db.QueryRow("SELECT source, author, action, range_start, result_count, success FROM log ORDER BY id DESC LIMIT 1").
			Scan(&source, &author, &action, &rangeStart, &resultCount, &success)
		require.NoError(t, err)
		assert.Equal(t, "timeline:crop", source)
		assert.Equal(t, "test-user", author)
		assert.Equal(t, "crop", action)
		assert.Equal(t, int64(1_000_000), rangeStart)
		assert.Equal(t, 3, resultCount)
		assert.Equal(t, 1, success)
	})

	t.Run("fluent API with error", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetSession("/test/session")

		testErr := sql.ErrNoRows // use any error
		Event("timeline:undo", "undo").
			Author("test-user").
			Write(testErr)

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var success int
		var errMsg string
		err = db.QueryRow("SELECT success, error FROM log ORDER BY id DESC LIMIT 1").
			Scan(&success, &errMsg)
		require.NoError(t, err)
		assert.Equal(t, 0, success)
		assert.Equal(t, testErr.Error(), errMsg)
	})

	t.Run("fluent API with Detail", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetSession("/test/session")

		Event("timeline:tag", "tag").
			Author("test-user").
			EventIndex(7).
			Detail("tag", "bug").
			Write(nil)

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var detail string
		var eventIndex int
		err = db.QueryRow("SELECT detail, event_index FROM log ORDER BY id DESC LIMIT 1").Scan(&detail, &eventIndex)
		require.NoError(t, err)
		assert.Contains(t, detail, "bug")
		assert.Equal(t, 7, eventIndex)
	})
}
