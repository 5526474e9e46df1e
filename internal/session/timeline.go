// timeline.go implements the authoritative sorted event list.
//
// Each index holds one Slot: the event together with its tags and note.
// Keeping the side data inside the slot means an insert or delete can
// never leave a dangling or duplicate side-table index - the association
// moves with the event. The per-index maps required by the persisted
// tags.json shape are derived views, not the source of truth.

package session

import (
	"slices"
	"sort"
)

// IndexNotFound is the sentinel returned by FindIndex on a miss.
const IndexNotFound = -1

// Slot is one timeline position: an event plus its tags and note.
type Slot struct {
	Event Event    `json:"event"`
	Tags  []string `json:"tags,omitempty"`
	Note  []byte   `json:"note,omitempty"`
}

// Timeline is the authoritative, timestamp-sorted event list.
// Not safe for concurrent mutation; all writes happen on the
// single-threaded event loop.
type Timeline struct {
	slots []Slot
}

// New builds a timeline from events, sorting by timestamp and assigning
// dense original indices.
func New(events []Event) *Timeline {
	t := &Timeline{slots: make([]Slot, 0, len(events))}
	for _, e := range events {
		t.slots = append(t.slots, Slot{Event: e})
	}
	sort.SliceStable(t.slots, func(i, j int) bool {
		return t.slots[i].Event.Timestamp < t.slots[j].Event.Timestamp
	})
	t.reindex()
	return t
}

// FromSlots builds a timeline from pre-assembled slots (load path).
func FromSlots(slots []Slot) *Timeline {
	t := &Timeline{slots: slices.Clone(slots)}
	sort.SliceStable(t.slots, func(i, j int) bool {
		return t.slots[i].Event.Timestamp < t.slots[j].Event.Timestamp
	})
	t.reindex()
	return t
}

// reindex reassigns OriginalIndex so it stays dense and contiguous.
func (t *Timeline) reindex() {
	for i := range t.slots {
		t.slots[i].Event.OriginalIndex = i
	}
}

// Len returns the number of events.
func (t *Timeline) Len() int { return len(t.slots) }

// Slot returns the slot at index i.
func (t *Timeline) Slot(i int) (Slot, bool) {
	if i < 0 || i >= len(t.slots) {
		return Slot{}, false
	}
	return t.slots[i], true
}

// Event returns the event at index i.
func (t *Timeline) Event(i int) (Event, bool) {
	s, ok := t.Slot(i)
	return s.Event, ok
}

// Timestamp returns the timestamp of the event at index i.
func (t *Timeline) Timestamp(i int) (int64, bool) {
	e, ok := t.Event(i)
	return e.Timestamp, ok
}

// Events returns a copy of all events in timestamp order.
func (t *Timeline) Events() []Event {
	out := make([]Event, len(t.slots))
	for i, s := range t.slots {
		out[i] = s.Event
	}
	return out
}

// Bounds returns the first and last event timestamps.
// ok is false for an empty timeline.
func (t *Timeline) Bounds() (start, end int64, ok bool) {
	if len(t.slots) == 0 {
		return 0, 0, false
	}
	return t.slots[0].Event.Timestamp, t.slots[len(t.slots)-1].Event.Timestamp, true
}

// Insert places s at index i, shifting later slots up. Out-of-range
// indices are clamped. All original indices are reassigned.
func (t *Timeline) Insert(i int, s Slot) {
	if i < 0 {
		i = 0
	}
	if i > len(t.slots) {
		i = len(t.slots)
	}
	t.slots = slices.Insert(t.slots, i, s)
	t.reindex()
}

// InsertSorted places s at the position that keeps the list sorted by
// timestamp and returns that index.
func (t *Timeline) InsertSorted(s Slot) int {
	i := sort.Search(len(t.slots), func(i int) bool {
		return t.slots[i].Event.Timestamp > s.Event.Timestamp
	})
	t.Insert(i, s)
	return i
}

// Remove deletes the slot at index i and returns it.
func (t *Timeline) Remove(i int) (Slot, bool) {
	if i < 0 || i >= len(t.slots) {
		return Slot{}, false
	}
	s := t.slots[i]
	t.slots = slices.Delete(t.slots, i, i+1)
	t.reindex()
	return s, true
}

// RemoveRange deletes every event with start <= timestamp < end and
// returns the removed slots in timestamp order.
func (t *Timeline) RemoveRange(start, end int64) []Slot {
	var removed []Slot
	kept := t.slots[:0]
	for _, s := range t.slots {
		if s.Event.Timestamp >= start && s.Event.Timestamp < end {
			removed = append(removed, s)
		} else {
			kept = append(kept, s)
		}
	}
	t.slots = kept
	t.reindex()
	return removed
}

// RestoreSlots re-inserts previously removed slots at whatever indices
// keep the list timestamp-sorted. Used by crop/delete undo.
func (t *Timeline) RestoreSlots(slots []Slot) {
	for _, s := range slots {
		t.InsertSorted(s)
	}
}

// FindIndex returns the index of the event with exactly timestamp ts,
// or IndexNotFound. A linear scan is used deliberately: filtered and
// sorted views can diverge from raw indices, so the timestamp is the
// only stable handle.
func (t *Timeline) FindIndex(ts int64) int {
	for i, s := range t.slots {
		if s.Event.Timestamp == ts {
			return i
		}
	}
	return IndexNotFound
}

// LatestAt returns the index of the event with the greatest timestamp
// <= ts, used by the playhead auto-display policy.
func (t *Timeline) LatestAt(ts int64) (int, bool) {
	i := sort.Search(len(t.slots), func(i int) bool {
		return t.slots[i].Event.Timestamp > ts
	})
	if i == 0 {
		return IndexNotFound, false
	}
	return i - 1, true
}

// AddTag attaches a tag to the event at index i. Duplicates are ignored.
func (t *Timeline) AddTag(i int, tag string) bool {
	if i < 0 || i >= len(t.slots) {
		return false
	}
	if slices.Contains(t.slots[i].Tags, tag) {
		return true
	}
	t.slots[i].Tags = append(t.slots[i].Tags, tag)
	return true
}

// RemoveTag detaches a tag from the event at index i.
// Removing an absent tag succeeds silently.
func (t *Timeline) RemoveTag(i int, tag string) bool {
	if i < 0 || i >= len(t.slots) {
		return false
	}
	t.slots[i].Tags = slices.DeleteFunc(t.slots[i].Tags, func(s string) bool {
		return s == tag
	})
	return true
}

// Tags returns the tags of the event at index i.
func (t *Timeline) Tags(i int) []string {
	if i < 0 || i >= len(t.slots) {
		return nil
	}
	return slices.Clone(t.slots[i].Tags)
}

// SetNote attaches a note blob to the event at index i.
// A nil or empty note clears it.
func (t *Timeline) SetNote(i int, note []byte) bool {
	if i < 0 || i >= len(t.slots) {
		return false
	}
	if len(note) == 0 {
		t.slots[i].Note = nil
	} else {
		t.slots[i].Note = slices.Clone(note)
	}
	return true
}

// Note returns the note blob of the event at index i.
func (t *Timeline) Note(i int) []byte {
	if i < 0 || i >= len(t.slots) {
		return nil
	}
	return slices.Clone(t.slots[i].Note)
}

// TagsByIndex returns the index -> tags view used by the persisted
// tags.json shape.
func (t *Timeline) TagsByIndex() map[int][]string {
	out := make(map[int][]string)
	for i, s := range t.slots {
		if len(s.Tags) > 0 {
			out[i] = slices.Clone(s.Tags)
		}
	}
	return out
}

// NotesByIndex returns the index -> note view used by the persisted
// tags.json shape.
func (t *Timeline) NotesByIndex() map[int][]byte {
	out := make(map[int][]byte)
	for i, s := range t.slots {
		if len(s.Note) > 0 {
			out[i] = slices.Clone(s.Note)
		}
	}
	return out
}
