// Package review assembles a session's components into one working
// editing surface: the timeline store, gap registry, time mapper,
// playhead controller, undo history, and media resynchroniser, loaded
// from and saved back to the session directory's JSON files.
//
// Commands and the MCP server depend on this package rather than wiring
// the components themselves.
package review

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jpl-au/revu/internal/bus"
	"github.com/jpl-au/revu/internal/edit"
	"github.com/jpl-au/revu/internal/format"
	"github.com/jpl-au/revu/internal/gaps"
	"github.com/jpl-au/revu/internal/persist"
	"github.com/jpl-au/revu/internal/playhead"
	"github.com/jpl-au/revu/internal/resync"
	"github.com/jpl-au/revu/internal/session"
	"github.com/jpl-au/revu/internal/timemap"
)

// mediaExts are the media file extensions kept in sync with crop edits.
var mediaExts = map[string]bool{
	".mp4": true, ".mov": true, ".webm": true,
	".m4a": true, ".mp3": true, ".wav": true,
}

// Options configures how a session is opened. The zero value works for
// read-only inspection; set Compositor and DurationOf to enable media
// re-composition.
type Options struct {
	Compositor    resync.Compositor
	Player        resync.Player
	DurationOf    func(path string) (float64, error)
	MarkerWidth   float64
	HistoryLimit  int
	SuppressDelay time.Duration
}

// Session is one open recording session under review.
type Session struct {
	dir   string
	store *persist.Store

	Timeline *session.Timeline
	Gaps     *gaps.Registry
	Markers  *session.AnnotationSet
	Mapper   *timemap.Mapper
	Playhead *playhead.Controller
	History  *edit.History
	Media    *resync.Resynchronizer
	Bus      *bus.Dispatcher

	datum        int64
	status       string
	startTime    int64
	customTags   []string
	eventMarkers map[string]string
	mediaFiles   []string
}

// Open loads a session directory and wires its components together.
// Missing or malformed JSON files load as empty state; a missing
// directory is an error.
func Open(dir string, opts Options) (*Session, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open session %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open session %s: not a directory", dir)
	}

	store := persist.New(dir)
	ev := store.LoadEvents()
	tags := store.LoadTags()
	meta := store.LoadMetadata()

	s := &Session{
		dir:          dir,
		store:        store,
		Bus:          &bus.Dispatcher{},
		status:       ev.Metadata.Status,
		startTime:    ev.Metadata.StartTime,
		customTags:   tags.CustomTags,
		eventMarkers: tags.EventMarkers,
		mediaFiles:   MediaFiles(dir),
	}
	if s.eventMarkers == nil {
		s.eventMarkers = make(map[string]string)
	}

	s.Timeline = session.FromSlots(persist.SlotsFromFiles(ev, tags))
	s.Markers = session.NewAnnotationSet(ev.Metadata.AccessibilityMarkers)

	s.datum = meta.RecordingStartTimestamp
	if s.datum == 0 {
		s.datum = ev.Metadata.StartTime
	}
	first, last, ok := s.Timeline.Bounds()
	if s.datum == 0 && ok {
		s.datum = first
	}
	rawEnd := s.datum
	if ok && last > rawEnd {
		rawEnd = last
	}

	s.Gaps = gaps.NewRegistry(s.datum, rawEnd)
	s.Gaps.SetPauses(ev.Metadata.PauseGaps)
	s.Gaps.SetCrops(ev.Metadata.CropGaps)
	s.Gaps.SetTransitions(ev.Metadata.Transitions)

	// A persisted gap or transition can extend past the last event,
	// e.g. a pause at the tail of the recording; the registry bounds
	// must cover it or the effective duration comes up short.
	for _, g := range s.Gaps.AllSorted() {
		if g.End > rawEnd {
			rawEnd = g.End
		}
	}
	for _, tr := range s.Gaps.Transitions() {
		if tr.Timestamp > rawEnd {
			rawEnd = tr.Timestamp
		}
	}
	s.Gaps.SetBounds(s.datum, rawEnd)

	s.Mapper = timemap.New(s.Gaps, s.datum)
	if opts.MarkerWidth > 0 {
		s.Mapper.SetMarkerWidth(opts.MarkerWidth)
	}

	s.Playhead = playhead.New(s.Mapper, s.Timeline, s.Bus)

	s.Media = resync.New(s.Gaps, s.Mapper, resync.Options{
		Compositor:    opts.Compositor,
		Player:        opts.Player,
		Playhead:      s.Playhead,
		Bus:           s.Bus,
		Files:         s.mediaFiles,
		DurationOf:    opts.DurationOf,
		SuppressDelay: opts.SuppressDelay,
	})

	target := &edit.Target{
		Timeline: s.Timeline,
		Gaps:     s.Gaps,
		Markers:  s.Markers,
		Playhead: s.Playhead,
	}
	if opts.Compositor != nil {
		target.Media = s.Media
	}
	s.History = edit.NewHistory(target, opts.HistoryLimit)

	return s, nil
}

// MediaFiles returns the session's media files in name order, skipping
// rolling backups and in-progress compose output.
func MediaFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !mediaExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if resync.IsBackup(name) || strings.Contains(name, "_composed") {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	slices.Sort(out)
	return out
}

// Dir returns the session directory.
func (s *Session) Dir() string { return s.dir }

// Datum returns the recording start timestamp in microseconds.
func (s *Session) Datum() int64 { return s.datum }

// Status returns the session's review status string.
func (s *Session) Status() string { return s.status }

// SetStatus updates the review status, persisted on the next Save.
func (s *Session) SetStatus(status string) { s.status = status }

// CustomTags returns the session's tag vocabulary.
func (s *Session) CustomTags() []string { return slices.Clone(s.customTags) }

// MediaFileList returns the media files being kept in sync.
func (s *Session) MediaFileList() []string { return slices.Clone(s.mediaFiles) }

// Save writes the session's state back to its JSON files.
func (s *Session) Save() error {
	ev := persist.Events{
		Events: s.Timeline.Events(),
		Metadata: persist.TimelineMetadata{
			PauseGaps:            s.Gaps.Pauses(),
			CropGaps:             s.Gaps.Crops(),
			Transitions:          s.Gaps.Transitions(),
			AccessibilityMarkers: s.Markers.All(),
			Status:               s.status,
			StartTime:            s.startTime,
		},
	}
	if err := s.store.SaveEvents(ev); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := s.store.SaveTags(persist.TagsFromTimeline(s.Timeline, s.eventMarkers, s.customTags)); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	if err := s.store.SaveMetadata(persist.Metadata{RecordingStartTimestamp: s.datum}); err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	return nil
}

// Crop removes the event-time range [start, end) destructively: events
// are deleted into the gap's backup and the media is re-composed in the
// background.
func (s *Session) Crop(start, end int64) error {
	s.Bus.Publish(bus.RangeSelected{Start: start, End: end})
	return s.History.Apply(&edit.CropRange{Start: start, End: end})
}

// DeleteRange removes the events in [start, end) without registering a
// gap; playback and layout are unaffected.
func (s *Session) DeleteRange(start, end int64) error {
	return s.History.Apply(&edit.DeleteRange{Start: start, End: end})
}

// DeleteEvent removes the single event at index i.
func (s *Session) DeleteEvent(i int) error {
	return s.History.Apply(&edit.DeleteEvent{Index: i})
}

// AddTransition inserts a transition and returns it with its assigned ID.
func (s *Session) AddTransition(tr gaps.Transition) (gaps.Transition, error) {
	c := &edit.AddTransition{Transition: tr}
	if err := s.History.Apply(c); err != nil {
		return gaps.Transition{}, err
	}
	return c.Transition, nil
}

// EditTransition replaces a transition's fields.
func (s *Session) EditTransition(tr gaps.Transition) error {
	return s.History.Apply(&edit.EditTransition{Transition: tr})
}

// DeleteTransition removes a transition by ID.
func (s *Session) DeleteTransition(id string) error {
	return s.History.Apply(&edit.DeleteTransition{ID: id})
}

// AddMarker inserts an accessibility marker and returns it with its
// assigned ID.
func (s *Session) AddMarker(a session.Annotation) (session.Annotation, error) {
	c := &edit.AddMarker{Marker: a}
	if err := s.History.Apply(c); err != nil {
		return session.Annotation{}, err
	}
	s.Bus.Publish(bus.AnnotationEdited{ID: c.Marker.ID})
	return c.Marker, nil
}

// EditMarker replaces an accessibility marker's fields.
func (s *Session) EditMarker(a session.Annotation) error {
	if err := s.History.Apply(&edit.EditMarker{Marker: a}); err != nil {
		return err
	}
	s.Bus.Publish(bus.AnnotationEdited{ID: a.ID})
	return nil
}

// DeleteMarker removes an accessibility marker by ID.
func (s *Session) DeleteMarker(id string) error {
	if err := s.History.Apply(&edit.DeleteMarker{ID: id}); err != nil {
		return err
	}
	s.Bus.Publish(bus.AnnotationEdited{ID: id})
	return nil
}

// Tag attaches a tag to the event at index i and records it in the
// session's tag vocabulary. Tagging is non-destructive and not undoable.
func (s *Session) Tag(i int, tag string) error {
	if !s.Timeline.AddTag(i, tag) {
		return fmt.Errorf("tag event %d: %w", i, session.ErrNotFound)
	}
	if !slices.Contains(s.customTags, tag) {
		s.customTags = append(s.customTags, tag)
	}
	return nil
}

// Untag detaches a tag from the event at index i.
func (s *Session) Untag(i int, tag string) error {
	if !s.Timeline.RemoveTag(i, tag) {
		return fmt.Errorf("untag event %d: %w", i, session.ErrNotFound)
	}
	return nil
}

// SetNote attaches a note to the event at index i. An empty note clears it.
func (s *Session) SetNote(i int, note []byte) error {
	if !s.Timeline.SetNote(i, note) {
		return fmt.Errorf("note event %d: %w", i, session.ErrNotFound)
	}
	return nil
}

// Undo reverses the most recent destructive edit. No-op when the stack
// is empty.
func (s *Session) Undo() error { return s.History.Undo() }

// Redo re-applies the most recently undone edit. No-op when the stack
// is empty.
func (s *Session) Redo() error { return s.History.Redo() }

// SeekPlayback converts a playback position in seconds to event time
// and moves the playhead there.
func (s *Session) SeekPlayback(seconds float64) int64 {
	t := s.Mapper.PlaybackTimeToEventTime(seconds)
	s.Playhead.SetPosition(t)
	return t
}

// Snapshot renders the event list as text, used to diff timeline state
// across edits.
func (s *Session) Snapshot() string {
	var b strings.Builder
	_ = format.Events(&b, s.Timeline, s.Mapper)
	return b.String()
}

// Info summarises the session for display.
type Info struct {
	Dir               string
	Events            int
	Pauses            int
	Crops             int
	Transitions       int
	Markers           int
	EffectiveDuration int64 // µs after folding
	PlaybackDuration  float64
	Status            string
	UndoDepth         int
	MediaFiles        []string
}

// Info returns a summary of the session's current state.
func (s *Session) Info() Info {
	_, rawEnd := s.Gaps.Bounds()
	return Info{
		Dir:               s.dir,
		Events:            s.Timeline.Len(),
		Pauses:            len(s.Gaps.Pauses()),
		Crops:             len(s.Gaps.Crops()),
		Transitions:       len(s.Gaps.Transitions()),
		Markers:           s.Markers.Len(),
		EffectiveDuration: s.Gaps.EffectiveDuration(),
		PlaybackDuration:  s.Mapper.EventTimeToPlaybackTime(rawEnd),
		Status:            s.status,
		UndoDepth:         s.History.Depth(),
		MediaFiles:        s.MediaFileList(),
	}
}
