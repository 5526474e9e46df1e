// Package session holds the in-memory model of a recorded interaction
// session: the timestamp-sorted event timeline with per-event tags and
// notes, and the time-range annotations overlaid on it.
package session

import "errors"

// ErrNotFound is returned when an event, annotation, or index lookup
// misses. Callers generally treat a miss as "apply to nothing" rather
// than a failure.
var ErrNotFound = errors.New("not found")

// Source identifies which recorder produced an event.
type Source string

const (
	SourceInteraction Source = "interaction"
	SourceFocus       Source = "focus"
	SourceSystem      Source = "system"
	SourceVoiceOver   Source = "voiceover"
	SourceEditor      Source = "editor"
)

// Event is a single recorded occurrence on the session timeline.
// Timestamps are microseconds since the Unix epoch. OriginalIndex is the
// event's position in the authoritative sorted list; it is reassigned on
// every structural mutation and stays dense with no gaps.
type Event struct {
	Timestamp     int64   `json:"timestamp"`
	Source        Source  `json:"source"`
	Kind          string  `json:"kind"`
	Payload       Payload `json:"payload,omitempty"`
	OriginalIndex int     `json:"originalIndex"`
}
