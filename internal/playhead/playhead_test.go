package playhead_test

import (
	"testing"
	"time"

	"github.com/jpl-au/revu/internal/bus"
	"github.com/jpl-au/revu/internal/gaps"
	"github.com/jpl-au/revu/internal/playhead"
	"github.com/jpl-au/revu/internal/session"
	"github.com/jpl-au/revu/internal/timemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rect = timemap.TrackRect{X: 0, Width: 1000}

// recorder captures published bus events for assertions.
type recorder struct {
	events []bus.Event
}

func (r *recorder) Publish(e bus.Event) { r.events = append(r.events, e) }

func (r *recorder) shown() []bus.EventShown {
	var out []bus.EventShown
	for _, e := range r.events {
		if s, ok := e.(bus.EventShown); ok {
			out = append(out, s)
		}
	}
	return out
}

func newController(t *testing.T) (*playhead.Controller, *recorder, *timemap.Mapper) {
	t.Helper()
	reg := gaps.NewRegistry(0, 10_000_000)
	m := timemap.New(reg, 0)
	tl := session.New([]session.Event{
		{Timestamp: 1_000_000, Kind: "interaction"},
		{Timestamp: 2_000_000, Kind: "interaction"},
		{Timestamp: 3_000_000, Kind: "interaction"},
	})
	rec := &recorder{}
	return playhead.New(m, tl, rec), rec, m
}

func TestController_DragMapsPointerToTimestamp(t *testing.T) {
	c, _, _ := newController(t)
	now := time.Now()

	c.BeginDrag(500, rect, now)
	assert.Equal(t, playhead.Dragging, c.State())
	assert.Equal(t, int64(5_000_000), c.Position())

	c.DragTo(600, rect, now.Add(100*time.Millisecond))
	assert.Equal(t, int64(6_000_000), c.Position())

	c.EndDrag()
	assert.Equal(t, playhead.Idle, c.State())
}

func TestController_EdgePanEngagesNearEdges(t *testing.T) {
	c, _, _ := newController(t)
	now := time.Now()

	c.BeginDrag(500, rect, now)
	c.DragTo(990, rect, now.Add(50*time.Millisecond))
	assert.Equal(t, playhead.EdgePanning, c.State())
	assert.Equal(t, playhead.DirRight, c.PanDirection())

	c.DragTo(500, rect, now.Add(100*time.Millisecond))
	assert.Equal(t, playhead.Dragging, c.State())
	assert.Equal(t, playhead.DirNone, c.PanDirection())

	c.DragTo(10, rect, now.Add(150*time.Millisecond))
	assert.Equal(t, playhead.EdgePanning, c.State())
	assert.Equal(t, playhead.DirLeft, c.PanDirection())
}

func TestController_PanTickAdvancesByVelocity(t *testing.T) {
	now := time.Now()
	setup := func() *playhead.Controller {
		c, _, _ := newController(t)
		c.BeginDrag(960, rect, now)
		// 20pt over 1s: velocity = 200_000 µs per wall second, right edge pan
		c.DragTo(980, rect, now.Add(1*time.Second))
		require.Equal(t, playhead.EdgePanning, c.State())
		return c
	}

	// Within the first 3 seconds of holding: multiplier 1.0
	c := setup()
	pos := c.Position()
	c.PanTickRate(rect, now.Add(1100*time.Millisecond), 10)
	assert.InDelta(t, 20_000, c.Position()-pos, 100, "velocity/tickRate µs per tick")
	assert.Greater(t, c.ViewportOffset(), 0.0, "viewport scrolled to follow")

	// Past the 6 second mark: multiplier 1.5
	long := setup()
	pos = long.Position()
	long.PanTickRate(rect, now.Add(8*time.Second), 10)
	assert.InDelta(t, 30_000, long.Position()-pos, 100)

	// Halfway up the ramp at 4.5s: multiplier 1.25
	mid := setup()
	pos = mid.Position()
	mid.PanTickRate(rect, now.Add(1*time.Second).Add(4500*time.Millisecond), 10)
	assert.InDelta(t, 25_000, mid.Position()-pos, 100)
}

func TestController_PanClampsToRecordingBounds(t *testing.T) {
	c, _, _ := newController(t)
	now := time.Now()

	c.BeginDrag(900, rect, now)
	c.DragTo(995, rect, now.Add(10*time.Millisecond))
	for i := 0; i < 100; i++ {
		c.PanTickRate(rect, now.Add(time.Duration(20+i*33)*time.Millisecond), 30)
	}
	assert.LessOrEqual(t, c.Position(), int64(10_000_000))
}

func TestController_AutoDisplayReportsOncePerTimestamp(t *testing.T) {
	c, rec, _ := newController(t)

	// Forward playback through the events
	c.OnPlayerPosition(0.5) // before first event: nothing
	c.OnPlayerPosition(1.2) // after event at 1s
	c.OnPlayerPosition(1.4) // same current event: no repeat
	c.OnPlayerPosition(2.1) // after event at 2s
	c.OnPlayerPosition(2.9)
	c.OnPlayerPosition(3.5) // after event at 3s

	shown := rec.shown()
	require.Len(t, shown, 3)
	assert.Equal(t, int64(1_000_000), shown[0].Timestamp)
	assert.Equal(t, 0, shown[0].Index)
	assert.Equal(t, int64(2_000_000), shown[1].Timestamp)
	assert.Equal(t, int64(3_000_000), shown[2].Timestamp)
}

func TestController_AutoDisplaySkipsBackwardMotion(t *testing.T) {
	c, rec, _ := newController(t)

	c.OnPlayerPosition(2.1) // forward: event at 2s reported
	c.OnPlayerPosition(1.2) // seek back: position moves, no report
	assert.Equal(t, int64(1_200_000), c.Position())

	shown := rec.shown()
	require.Len(t, shown, 1)
	assert.Equal(t, int64(2_000_000), shown[0].Timestamp)

	// Playing forward again resumes reporting
	c.OnPlayerPosition(1.4)
	shown = rec.shown()
	require.Len(t, shown, 2)
	assert.Equal(t, int64(1_000_000), shown[1].Timestamp)
}

func TestController_AutoDisplayPausesOnManualPick(t *testing.T) {
	c, rec, _ := newController(t)

	c.SetManualSelection(true)
	c.OnPlayerPosition(1.5)
	c.OnPlayerPosition(2.5)
	assert.Empty(t, rec.shown())

	c.SetManualSelection(false)
	c.OnPlayerPosition(2.6)
	assert.Len(t, rec.shown(), 1)
}

func TestController_PlayerCallbacksIgnoredWhileDragging(t *testing.T) {
	c, _, _ := newController(t)
	now := time.Now()

	c.BeginDrag(500, rect, now)
	pos := c.Position()
	c.OnPlayerPosition(9.0)
	assert.Equal(t, pos, c.Position(), "player may not move the playhead mid-drag")
	c.EndDrag()

	c.OnPlayerPosition(9.0)
	assert.Equal(t, int64(9_000_000), c.Position())
}

func TestController_SuppressionIgnoresPlayer(t *testing.T) {
	c, _, _ := newController(t)

	c.Suppress(true)
	c.OnPlayerPosition(4.0)
	assert.Equal(t, int64(0), c.Position())

	c.Suppress(false)
	c.OnPlayerPosition(4.0)
	assert.Equal(t, int64(4_000_000), c.Position())
}

func TestController_SetPositionIgnoredDuringDrag(t *testing.T) {
	c, _, _ := newController(t)
	now := time.Now()

	c.BeginDrag(500, rect, now)
	c.SetPosition(42)
	assert.Equal(t, int64(5_000_000), c.Position())
	c.EndDrag()

	c.SetPosition(42)
	assert.Equal(t, int64(42), c.Position())
}
