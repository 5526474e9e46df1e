package edit_test

import (
	"fmt"
	"testing"

	"github.com/jpl-au/revu/internal/edit"
	"github.com/jpl-au/revu/internal/gaps"
	"github.com/jpl-au/revu/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlayhead records position changes.
type fakePlayhead struct {
	pos int64
}

func (p *fakePlayhead) Position() int64     { return p.pos }
func (p *fakePlayhead) SetPosition(t int64) { p.pos = t }

// fakeResync counts commit/restore triggers.
type fakeResync struct {
	commits  int
	restores int
	fail     error
}

func (r *fakeResync) CommitCrop() error      { r.commits++; return r.fail }
func (r *fakeResync) RestoreOriginal() error { r.restores++; return nil }

func newTarget(t *testing.T, timestamps ...int64) (*edit.Target, *fakePlayhead, *fakeResync) {
	t.Helper()
	events := make([]session.Event, len(timestamps))
	for i, ts := range timestamps {
		events[i] = session.Event{Timestamp: ts, Kind: "interaction"}
	}
	start, end := int64(0), int64(0)
	if len(timestamps) > 0 {
		start, end = timestamps[0], timestamps[len(timestamps)-1]
	}
	ph := &fakePlayhead{}
	rs := &fakeResync{}
	return &edit.Target{
		Timeline: session.New(events),
		Gaps:     gaps.NewRegistry(start, end),
		Markers:  session.NewAnnotationSet(nil),
		Playhead: ph,
		Media:    rs,
	}, ph, rs
}

// snapshot captures the observable state for symmetry comparisons.
func snapshot(tgt *edit.Target) string {
	return fmt.Sprintf("events=%v tags=%v crops=%v pauses=%v transitions=%v markers=%v",
		timestampsOf(tgt), tgt.Timeline.TagsByIndex(), tgt.Gaps.Crops(),
		tgt.Gaps.Pauses(), tgt.Gaps.Transitions(), tgt.Markers.All())
}

func timestampsOf(tgt *edit.Target) []int64 {
	var out []int64
	for _, e := range tgt.Timeline.Events() {
		out = append(out, e.Timestamp)
	}
	return out
}

func TestHistory_UndoRedoSymmetryPerCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  func(tgt *edit.Target) edit.Command
	}{
		{"delete-event", func(*edit.Target) edit.Command {
			return &edit.DeleteEvent{Index: 2}
		}},
		{"delete-range", func(*edit.Target) edit.Command {
			return &edit.DeleteRange{Start: 1000, End: 3000}
		}},
		{"crop-range", func(*edit.Target) edit.Command {
			return &edit.CropRange{Start: 1500, End: 3500}
		}},
		{"add-transition", func(*edit.Target) edit.Command {
			return &edit.AddTransition{Transition: gaps.Transition{Timestamp: 2000, Duration: 300, Type: "fade"}}
		}},
		{"edit-transition", func(tgt *edit.Target) edit.Command {
			tr := tgt.Gaps.AddTransition(gaps.Transition{Timestamp: 2000, Duration: 300, Type: "fade"})
			tr.Duration = 900
			return &edit.EditTransition{Transition: tr}
		}},
		{"delete-transition", func(tgt *edit.Target) edit.Command {
			tr := tgt.Gaps.AddTransition(gaps.Transition{Timestamp: 2000, Duration: 300, Type: "fade"})
			return &edit.DeleteTransition{ID: tr.ID}
		}},
		{"add-marker", func(*edit.Target) edit.Command {
			return &edit.AddMarker{Marker: session.Annotation{StartTime: 1000, Duration: 500, Type: "issue"}}
		}},
		{"edit-marker", func(tgt *edit.Target) edit.Command {
			m := tgt.Markers.Add(session.Annotation{StartTime: 1000, Duration: 500, Type: "issue"})
			m.Text = "revised"
			return &edit.EditMarker{Marker: m}
		}},
		{"delete-marker", func(tgt *edit.Target) edit.Command {
			m := tgt.Markers.Add(session.Annotation{StartTime: 1000, Duration: 500, Type: "issue"})
			return &edit.DeleteMarker{ID: m.ID}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt, _, _ := newTarget(t, 0, 1000, 2000, 3000, 4000)
			tgt.Timeline.AddTag(2, "tagged")
			h := edit.NewHistory(tgt, 0)

			cmd := tt.cmd(tgt)
			require.NoError(t, h.Apply(cmd))
			afterApply := snapshot(tgt)

			require.NoError(t, h.Undo())
			require.NoError(t, h.Redo())
			assert.Equal(t, afterApply, snapshot(tgt),
				"state after apply;undo;redo must equal state after apply")
		})
	}
}

func TestHistory_CropRemovesAndRestores(t *testing.T) {
	tgt, ph, rs := newTarget(t, 0, 1000, 2000, 3000, 4000)
	tgt.Timeline.AddTag(2, "inside-crop")
	ph.pos = 1234
	h := edit.NewHistory(tgt, 0)

	require.NoError(t, h.Apply(&edit.CropRange{Start: 1500, End: 3500}))

	// Events inside [1500,3500) are gone, backed up in the gap
	assert.Equal(t, []int64{0, 1000, 4000}, timestampsOf(tgt))
	crops := tgt.Gaps.Crops()
	require.Len(t, crops, 1)
	require.Len(t, crops[0].Backup, 2)
	assert.Equal(t, []string{"inside-crop"}, crops[0].Backup[0].Tags)
	assert.Equal(t, 1, rs.commits)

	// Playhead moved during review; undo restores the pre-crop position
	ph.pos = 9999
	require.NoError(t, h.Undo())
	assert.Equal(t, []int64{0, 1000, 2000, 3000, 4000}, timestampsOf(tgt))
	assert.Empty(t, tgt.Gaps.Crops())
	assert.Equal(t, []string{"inside-crop"}, tgt.Timeline.Tags(2))
	assert.Equal(t, int64(1234), ph.pos)
	assert.Equal(t, 1, rs.restores)
}

func TestHistory_OverlappingCropRejected(t *testing.T) {
	tgt, _, rs := newTarget(t, 0, 1000, 2000, 3000, 4000)
	h := edit.NewHistory(tgt, 0)

	require.NoError(t, h.Apply(&edit.CropRange{Start: 1000, End: 2000}))
	err := h.Apply(&edit.CropRange{Start: 1500, End: 2500})
	assert.ErrorIs(t, err, gaps.ErrRangeOverlap)

	// The rejected command is not recorded
	assert.Equal(t, 1, h.Depth())
	assert.Equal(t, 1, rs.commits)
}

func TestHistory_ComposeFailureLeavesEditInPlace(t *testing.T) {
	tgt, _, rs := newTarget(t, 0, 1000, 2000, 3000, 4000)
	rs.fail = fmt.Errorf("compose failed")
	h := edit.NewHistory(tgt, 0)

	// The logical edit stands even though the media diverged
	require.NoError(t, h.Apply(&edit.CropRange{Start: 1500, End: 3500}))
	assert.Equal(t, []int64{0, 1000, 4000}, timestampsOf(tgt))
	assert.True(t, h.CanUndo(), "the edit remains undoable")
}

func TestHistory_EmptyStacksAreSilentNoOps(t *testing.T) {
	tgt, _, _ := newTarget(t, 0, 1000)
	h := edit.NewHistory(tgt, 0)

	assert.NoError(t, h.Undo())
	assert.NoError(t, h.Redo())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestHistory_ApplyClearsRedo(t *testing.T) {
	tgt, _, _ := newTarget(t, 0, 1000, 2000)
	h := edit.NewHistory(tgt, 0)

	require.NoError(t, h.Apply(&edit.DeleteEvent{Index: 0}))
	require.NoError(t, h.Undo())
	require.True(t, h.CanRedo())

	require.NoError(t, h.Apply(&edit.DeleteEvent{Index: 1}))
	assert.False(t, h.CanRedo(), "a new edit invalidates the redo stack")
}

func TestHistory_BoundedEviction(t *testing.T) {
	tgt, _, _ := newTarget(t)
	h := edit.NewHistory(tgt, 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, h.Apply(&edit.AddMarker{
			Marker: session.Annotation{StartTime: int64(i * 1000), Duration: 100, Type: "issue"},
		}))
	}
	assert.Equal(t, 3, h.Depth(), "oldest commands evicted at the cap")

	// Only the three newest edits can be unwound
	for i := 0; i < 5; i++ {
		require.NoError(t, h.Undo())
	}
	assert.Equal(t, 2, tgt.Markers.Len())
}

func TestHistory_DeleteEventMissingIndexAppliesToNothing(t *testing.T) {
	tgt, _, _ := newTarget(t, 0, 1000)
	h := edit.NewHistory(tgt, 0)

	before := snapshot(tgt)
	require.NoError(t, h.Apply(&edit.DeleteEvent{Index: 99}))
	assert.Equal(t, before, snapshot(tgt))

	require.NoError(t, h.Undo())
	assert.Equal(t, before, snapshot(tgt))
}

func TestHistory_InterleavedSequence(t *testing.T) {
	tgt, _, _ := newTarget(t, 0, 1000, 2000, 3000, 4000, 5000)
	h := edit.NewHistory(tgt, 0)

	require.NoError(t, h.Apply(&edit.DeleteEvent{Index: 1}))
	require.NoError(t, h.Apply(&edit.CropRange{Start: 2500, End: 4500}))
	require.NoError(t, h.Apply(&edit.AddTransition{Transition: gaps.Transition{Timestamp: 5000, Duration: 200, Type: "fade"}}))
	after := snapshot(tgt)

	// Unwind everything, replay everything: same state
	require.NoError(t, h.Undo())
	require.NoError(t, h.Undo())
	require.NoError(t, h.Undo())
	assert.Equal(t, []int64{0, 1000, 2000, 3000, 4000, 5000}, timestampsOf(tgt))

	require.NoError(t, h.Redo())
	require.NoError(t, h.Redo())
	require.NoError(t, h.Redo())
	assert.Equal(t, after, snapshot(tgt))

	assert.Equal(t, []string{"delete-event", "crop-range", "add-transition"}, h.UndoNames())
}
