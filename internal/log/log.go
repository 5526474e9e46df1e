// Package log provides centralised audit logging for revu operations.
// Logs are stored in ~/.revu/log/revu-log.db and track all CLI commands
// and MCP tool invocations across sessions.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("timeline:crop", "crop").
//		Author(cmd.Author()).
//		Range(start, end).
//		Write(err)
//
//	log.Event("timeline:tag", "tag").
//		Author(cmd.Author()).
//		EventIndex(i).
//		Detail("tag", name).
//		Write(err)
//
// The source parameter follows the format "{area}:{command}" for CLI
// commands or "mcp:{tool}" for MCP tools. Examples: "timeline:crop",
// "timeline:undo", "mcp:marker_add".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g., "timeline:crop", "mcp:events_list"
	Author string // who performed the action
	Action string // verb: crop, cut, tag, undo, etc.

	// Inputs: the timeline range or event index the operation targets.
	// Timestamps are microseconds since the epoch; zero means unset.
	RangeStart int64
	RangeEnd   int64
	EventIndex int

	// Output fields - populated after the operation succeeds
	ResultCount int // events removed, restored, listed, etc.

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write]
// to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the operation originated:
//   - CLI commands: "{area}:{command}" (e.g., "timeline:crop", "session:info")
//   - MCP tools: "mcp:{tool}" (e.g., "mcp:crop", "mcp:events_list")
//
// The action describes what operation was performed:
//   - "crop", "cut", "tag", "note", "marker", "undo", "redo", "resync", etc.
//
// Example:
//
//	log.Event("timeline:crop", "crop").
//		Author(cmd.Author()).
//		Range(start, end).
//		Write(err)
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Author sets who performed the operation.
//
// For CLI commands, use cmd.Author() which returns the configured author.
// For MCP tools, use "mcp" as the author.
func (b *Builder) Author(author string) *Builder {
	b.entry.Author = author
	return b
}

// Range sets the timeline range this operation affects, in microseconds.
//
// Use for crop, cut, pause, and transition operations. Leave unset for
// operations that target a single event or no range at all.
func (b *Builder) Range(start, end int64) *Builder {
	b.entry.RangeStart = start
	b.entry.RangeEnd = end
	return b
}

// EventIndex sets the event index this operation targets.
//
// Use for tag, note, and single-event delete operations.
func (b *Builder) EventIndex(i int) *Builder {
	b.entry.EventIndex = i
	return b
}

// ResultCount sets how many events the operation touched (output).
//
// For crops and cuts: the number of events removed.
// For undo: the number of events restored.
func (b *Builder) ResultCount(n int) *Builder {
	b.entry.ResultCount = n
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
//
// Use for operation-specific data that doesn't fit standard fields:
// tag names, transition types, media file names, etc.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure from err.
//
// If err is nil, the entry is logged as successful.
// If err is non-nil, the entry is logged as failed with the error message.
//
// This is the standard way to complete a log entry after an operation.
//
// Example:
//
//	err := svc.Crop(start, end)
//	log.Event("timeline:crop", "crop").Range(start, end).Write(err)
//	if err != nil {
//		return err
//	}
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetSession sets the session identifier for subsequent log entries.
// The dir should be the absolute path to the session directory.
func SetSession(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.session = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
