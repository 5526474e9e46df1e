// Package edit represents each destructive timeline mutation as an
// invertible command and maintains the bounded undo/redo history.
//
// Commands mutate the timeline store and gap registry through a Target,
// which exposes the narrow capabilities each command needs. Every
// command captures enough state during Apply to reverse itself exactly:
// after apply, undo, redo the observable state is identical to the
// state right after the first apply.
package edit

import (
	"fmt"

	"github.com/jpl-au/revu/internal/gaps"
	"github.com/jpl-au/revu/internal/session"
)

// DefaultLimit caps the undo stack; the oldest command is evicted first.
const DefaultLimit = 100

// Positioner is the slice of the playhead controller the crop command
// needs to capture and restore the playback position.
type Positioner interface {
	Position() int64
	SetPosition(t int64)
}

// Resyncer triggers media re-composition when crops commit or unwind.
// Both calls are best-effort from the command's point of view: a
// failure leaves the logical edit in place and the media divergent.
type Resyncer interface {
	CommitCrop() error
	RestoreOriginal() error
}

// Target bundles the components commands mutate. Playhead and Media may
// be nil; commands then skip position capture and media triggering.
type Target struct {
	Timeline *session.Timeline
	Gaps     *gaps.Registry
	Markers  *session.AnnotationSet
	Playhead Positioner
	Media    Resyncer
}

// Command is one invertible destructive mutation, the unit of undo/redo.
type Command interface {
	// Name identifies the command for logging and history display.
	Name() string
	// Apply performs the forward mutation.
	Apply(t *Target) error
	// Invert reverses a previously applied mutation exactly.
	Invert(t *Target) error
}

// DeleteEvent removes the single event at Index.
type DeleteEvent struct {
	Index int

	slot     session.Slot
	captured bool
}

// Name implements Command.
func (c *DeleteEvent) Name() string { return "delete-event" }

// Apply removes the event, capturing the slot (event, tags, note) for
// the inverse. A missing index applies to nothing.
func (c *DeleteEvent) Apply(t *Target) error {
	c.slot, c.captured = t.Timeline.Remove(c.Index)
	return nil
}

// Invert re-inserts the captured slot at its original index.
func (c *DeleteEvent) Invert(t *Target) error {
	if c.captured {
		t.Timeline.Insert(c.Index, c.slot)
	}
	return nil
}

// DeleteRange removes every event with Start <= timestamp < End.
type DeleteRange struct {
	Start int64
	End   int64

	removed []session.Slot
}

// Name implements Command.
func (c *DeleteRange) Name() string { return "delete-range" }

// Apply removes the range, capturing the slots in timestamp order.
func (c *DeleteRange) Apply(t *Target) error {
	c.removed = t.Timeline.RemoveRange(c.Start, c.End)
	return nil
}

// Invert restores the removed slots at whatever indices keep the list
// timestamp-sorted.
func (c *DeleteRange) Invert(t *Target) error {
	t.Timeline.RestoreSlots(c.removed)
	c.removed = nil
	return nil
}

// CropRange removes the time range [Start, End) from the recording:
// events inside it are deleted into the gap's backup, a crop gap is
// registered, and the media files are re-composed in the background.
type CropRange struct {
	Start int64
	End   int64

	prevPlayhead int64
}

// Name implements Command.
func (c *CropRange) Name() string { return "crop-range" }

// Apply validates the range against existing gaps, then removes the
// events, registers the crop gap with the removed slots as backup, and
// triggers media re-composition. A compose failure does not unwind the
// logical edit; the divergence surfaces on the bus.
func (c *CropRange) Apply(t *Target) error {
	if t.Gaps.Overlaps(c.Start, c.End) {
		return fmt.Errorf("crop [%d,%d): %w", c.Start, c.End, gaps.ErrRangeOverlap)
	}
	if t.Playhead != nil {
		c.prevPlayhead = t.Playhead.Position()
	}
	removed := t.Timeline.RemoveRange(c.Start, c.End)
	if _, err := t.Gaps.AddCrop(c.Start, c.End, removed); err != nil {
		t.Timeline.RestoreSlots(removed)
		return err
	}
	if t.Media != nil {
		_ = t.Media.CommitCrop()
	}
	return nil
}

// Invert removes the crop gap, restores its backed-up events in sorted
// order, restores the pre-crop playhead position, and asks the media
// layer to bring back the original file.
func (c *CropRange) Invert(t *Target) error {
	g, ok := t.Gaps.RemoveCrop(c.Start)
	if !ok {
		return fmt.Errorf("crop [%d,%d): %w", c.Start, c.End, gaps.ErrNotFound)
	}
	t.Timeline.RestoreSlots(g.Backup)
	if t.Playhead != nil {
		t.Playhead.SetPosition(c.prevPlayhead)
	}
	if t.Media != nil {
		_ = t.Media.RestoreOriginal()
	}
	return nil
}

// AddTransition inserts a transition at a point on the timeline.
type AddTransition struct {
	Transition gaps.Transition
}

// Name implements Command.
func (c *AddTransition) Name() string { return "add-transition" }

// Apply registers the transition, capturing the assigned ID so a redo
// after undo recreates the same identity.
func (c *AddTransition) Apply(t *Target) error {
	c.Transition = t.Gaps.AddTransition(c.Transition)
	return nil
}

// Invert removes the added transition.
func (c *AddTransition) Invert(t *Target) error {
	t.Gaps.RemoveTransition(c.Transition.ID)
	return nil
}

// EditTransition replaces a transition's fields in place.
type EditTransition struct {
	Transition gaps.Transition

	prev gaps.Transition
}

// Name implements Command.
func (c *EditTransition) Name() string { return "edit-transition" }

// Apply swaps in the new value, capturing the prior state.
func (c *EditTransition) Apply(t *Target) error {
	prev, err := t.Gaps.UpdateTransition(c.Transition)
	if err != nil {
		return err
	}
	c.prev = prev
	return nil
}

// Invert restores the transition's prior state.
func (c *EditTransition) Invert(t *Target) error {
	_, err := t.Gaps.UpdateTransition(c.prev)
	return err
}

// DeleteTransition removes a transition by ID.
type DeleteTransition struct {
	ID string

	removed  gaps.Transition
	captured bool
}

// Name implements Command.
func (c *DeleteTransition) Name() string { return "delete-transition" }

// Apply removes the transition. A missing ID applies to nothing.
func (c *DeleteTransition) Apply(t *Target) error {
	c.removed, c.captured = t.Gaps.RemoveTransition(c.ID)
	return nil
}

// Invert re-registers the removed transition.
func (c *DeleteTransition) Invert(t *Target) error {
	if c.captured {
		t.Gaps.AddTransition(c.removed)
	}
	return nil
}

// AddMarker inserts a time-range annotation.
type AddMarker struct {
	Marker session.Annotation
}

// Name implements Command.
func (c *AddMarker) Name() string { return "add-marker" }

// Apply adds the annotation, capturing the assigned ID.
func (c *AddMarker) Apply(t *Target) error {
	c.Marker = t.Markers.Add(c.Marker)
	return nil
}

// Invert removes the added annotation.
func (c *AddMarker) Invert(t *Target) error {
	t.Markers.Remove(c.Marker.ID)
	return nil
}

// EditMarker replaces an annotation's fields in place.
type EditMarker struct {
	Marker session.Annotation

	prev session.Annotation
}

// Name implements Command.
func (c *EditMarker) Name() string { return "edit-marker" }

// Apply swaps in the new value, capturing the prior state.
func (c *EditMarker) Apply(t *Target) error {
	prev, err := t.Markers.Update(c.Marker)
	if err != nil {
		return err
	}
	c.prev = prev
	return nil
}

// Invert restores the annotation's prior state.
func (c *EditMarker) Invert(t *Target) error {
	_, err := t.Markers.Update(c.prev)
	return err
}

// DeleteMarker removes an annotation by ID.
type DeleteMarker struct {
	ID string

	removed  session.Annotation
	captured bool
}

// Name implements Command.
func (c *DeleteMarker) Name() string { return "delete-marker" }

// Apply removes the annotation. A missing ID applies to nothing.
func (c *DeleteMarker) Apply(t *Target) error {
	c.removed, c.captured = t.Markers.Remove(c.ID)
	return nil
}

// Invert re-adds the removed annotation.
func (c *DeleteMarker) Invert(t *Target) error {
	if c.captured {
		t.Markers.Add(c.removed)
	}
	return nil
}
