// Package persist reads and writes the session directory's JSON files:
// events.json (the event list plus timeline metadata), tags.json (the
// per-index tag/note/marker side data), and metadata.json (the
// recording datum).
//
// Loading is deliberately lenient: a missing, unreadable, or malformed
// file degrades to its zero value so a damaged session still opens with
// an empty timeline instead of aborting. Writes go through a temp file
// and rename so a crash never leaves a torn JSON document.
package persist

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jpl-au/revu/internal/gaps"
	"github.com/jpl-au/revu/internal/session"
)

// Persisted file names within a session directory.
const (
	EventsFile   = "events.json"
	TagsFile     = "tags.json"
	MetadataFile = "metadata.json"
)

// Events is the shape of events.json.
type Events struct {
	Events   []session.Event  `json:"events"`
	Metadata TimelineMetadata `json:"metadata"`
}

// TimelineMetadata carries the gap, transition, and marker state that
// lives alongside the event list.
type TimelineMetadata struct {
	PauseGaps            []gaps.Gap           `json:"pauseGaps"`
	CropGaps             []gaps.Gap           `json:"cropGaps"`
	Transitions          []gaps.Transition    `json:"transitions"`
	AccessibilityMarkers []session.Annotation `json:"accessibilityMarkers"`
	Status               string               `json:"status,omitempty"`
	StartTime            int64                `json:"startTime,omitempty"`
}

// Tags is the shape of tags.json. Keys are decimal event indices.
type Tags struct {
	EventTags    map[string][]string `json:"eventTags"`
	EventNotes   map[string]string   `json:"eventNotes"` // base64 blobs
	EventMarkers map[string]string   `json:"eventMarkers,omitempty"`
	CustomTags   []string            `json:"customTags,omitempty"`
}

// Metadata is the shape of metadata.json.
type Metadata struct {
	RecordingStartTimestamp int64 `json:"recordingStartTimestamp"`
}

// Store reads and writes one session directory.
type Store struct {
	dir string
}

// New creates a store over a session directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the session directory.
func (s *Store) Dir() string { return s.dir }

// LoadEvents reads events.json. Missing or malformed content loads as
// an empty event list.
func (s *Store) LoadEvents() Events {
	var out Events
	readLenient(filepath.Join(s.dir, EventsFile), &out)
	return out
}

// SaveEvents writes events.json.
func (s *Store) SaveEvents(e Events) error {
	return writeJSON(filepath.Join(s.dir, EventsFile), e)
}

// LoadTags reads tags.json. Missing or malformed content loads empty.
func (s *Store) LoadTags() Tags {
	var out Tags
	readLenient(filepath.Join(s.dir, TagsFile), &out)
	return out
}

// SaveTags writes tags.json.
func (s *Store) SaveTags(t Tags) error {
	return writeJSON(filepath.Join(s.dir, TagsFile), t)
}

// LoadMetadata reads metadata.json. Missing or malformed content loads
// as a zero datum.
func (s *Store) LoadMetadata() Metadata {
	var out Metadata
	readLenient(filepath.Join(s.dir, MetadataFile), &out)
	return out
}

// SaveMetadata writes metadata.json.
func (s *Store) SaveMetadata(m Metadata) error {
	return writeJSON(filepath.Join(s.dir, MetadataFile), m)
}

// readLenient unmarshals path into v, leaving v untouched on any error.
func readLenient(path string, v any) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, v)
}

// writeJSON marshals v and atomically replaces path.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// SlotsFromFiles assembles timeline slots by joining the event list
// with the index-keyed tag and note tables. Indices that don't resolve
// to an event are dropped rather than raising.
func SlotsFromFiles(e Events, t Tags) []session.Slot {
	slots := make([]session.Slot, len(e.Events))
	for i, ev := range e.Events {
		slots[i] = session.Slot{Event: ev}
	}
	for key, tags := range t.EventTags {
		if i, ok := index(key, len(slots)); ok {
			slots[i].Tags = tags
		}
	}
	for key, note := range t.EventNotes {
		i, ok := index(key, len(slots))
		if !ok {
			continue
		}
		if decoded, err := base64.StdEncoding.DecodeString(note); err == nil {
			slots[i].Note = decoded
		}
	}
	return slots
}

// TagsFromTimeline produces the tags.json shape from the timeline's
// derived index views, preserving markers and the custom tag
// vocabulary.
func TagsFromTimeline(tl *session.Timeline, markers map[string]string, customTags []string) Tags {
	out := Tags{
		EventTags:    make(map[string][]string),
		EventNotes:   make(map[string]string),
		EventMarkers: markers,
		CustomTags:   customTags,
	}
	for i, tags := range tl.TagsByIndex() {
		out.EventTags[strconv.Itoa(i)] = tags
	}
	for i, note := range tl.NotesByIndex() {
		out.EventNotes[strconv.Itoa(i)] = base64.StdEncoding.EncodeToString(note)
	}
	return out
}

func index(key string, n int) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
