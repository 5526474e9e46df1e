// Package playhead owns the current playback position and its direct
// manipulation: drag-to-seek on the scrub strip, velocity-based edge
// autoscroll, and the direction-aware auto-display of the "current"
// event during playback.
//
// The controller is the only component allowed to move the playhead
// while a drag is active; position updates from the media player are
// ignored during drags and while a media resynchronisation is running.
package playhead

import (
	"time"

	"github.com/jpl-au/revu/internal/bus"
	"github.com/jpl-au/revu/internal/timemap"
)

// State is the controller's interaction state.
type State int

const (
	Idle State = iota
	Dragging
	EdgePanning
)

// Direction of an edge pan.
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
)

// edgeZone is how close to the track edge, in points, the pointer must
// be during a drag before edge panning engages.
const edgeZone = 24.0

// Speed ramp for long edge-pan holds: the multiplier grows linearly
// from rampFloor to rampCeil between rampStart and rampEnd of hold time.
const (
	rampFloor = 1.0
	rampCeil  = 1.5
	rampStart = 3.0 // seconds held
	rampEnd   = 6.0
)

// noneShown is the auto-display sentinel for "nothing reported yet".
const noneShown = int64(-1 << 62)

// EventIndex is the slice of the timeline the auto-display policy needs.
type EventIndex interface {
	// LatestAt returns the index of the event with the greatest
	// timestamp <= ts.
	LatestAt(ts int64) (int, bool)
	// Event returns the event timestamp at index i.
	Timestamp(i int) (int64, bool)
}

// Controller owns the playhead. Not safe for concurrent use; all calls
// happen on the single-threaded event loop.
type Controller struct {
	mapper *timemap.Mapper
	events EventIndex
	pub    bus.Publisher

	state State
	dir   Direction

	position int64 // event time, µs

	// Rolling drag velocity: event-time µs covered per wall-clock second.
	velocity   float64
	lastMoveAt time.Time
	lastMoveTS int64

	panStartedAt time.Time

	// Viewport scroll offset in points, adjusted during edge pans to
	// keep the playhead near the edge.
	viewportOffset float64

	suppressed   bool
	manualPick   bool
	lastShown    int64
	lastPlayback float64
}

// New creates a controller over the given mapper and event index.
// pub may be nil, in which case no events are published.
func New(mapper *timemap.Mapper, events EventIndex, pub bus.Publisher) *Controller {
	return &Controller{
		mapper:       mapper,
		events:       events,
		pub:          pub,
		lastShown:    noneShown,
		lastPlayback: -1,
	}
}

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// PanDirection returns the active edge-pan direction.
func (c *Controller) PanDirection() Direction { return c.dir }

// Position returns the playhead position in event time.
func (c *Controller) Position() int64 { return c.position }

// ViewportOffset returns the accumulated viewport scroll in points.
func (c *Controller) ViewportOffset() float64 { return c.viewportOffset }

// SetPosition moves the playhead programmatically, e.g. when an undo
// restores the pre-crop position. Ignored while the user is dragging:
// nothing else may move the playhead mid-drag.
func (c *Controller) SetPosition(t int64) {
	if c.state != Idle {
		return
	}
	c.position = t
	c.publishMoved()
}

// Suppress toggles suppression of media-player position callbacks,
// used while a resynchronisation swaps files underneath the player.
func (c *Controller) Suppress(on bool) { c.suppressed = on }

// Suppressed reports whether player callbacks are being ignored.
func (c *Controller) Suppressed() bool { return c.suppressed }

// SetManualSelection records whether the user has manually picked an
// event; auto-display pauses while a manual pick is active.
func (c *Controller) SetManualSelection(on bool) { c.manualPick = on }

// BeginDrag enters Dragging from a pointer-down at x on the scrub strip.
func (c *Controller) BeginDrag(x float64, rect timemap.TrackRect, now time.Time) {
	c.state = Dragging
	c.dir = DirNone
	c.velocity = 0
	c.position = c.mapper.FoldedXToTimestamp(x, rect)
	c.lastMoveAt = now
	c.lastMoveTS = c.position
	c.publishMoved()
}

// DragTo recomputes the playhead from pointer position x, tracks the
// rolling timestamp velocity, and engages edge panning when the pointer
// nears a track edge.
func (c *Controller) DragTo(x float64, rect timemap.TrackRect, now time.Time) {
	if c.state == Idle {
		return
	}
	t := c.mapper.FoldedXToTimestamp(x, rect)

	if dt := now.Sub(c.lastMoveAt).Seconds(); dt > 0 {
		c.velocity = float64(t-c.lastMoveTS) / dt
	}
	c.lastMoveAt = now
	c.lastMoveTS = t
	c.position = t

	switch {
	case x <= rect.X+edgeZone:
		c.enterPan(DirLeft, now)
	case x >= rect.X+rect.Width-edgeZone:
		c.enterPan(DirRight, now)
	default:
		c.state = Dragging
		c.dir = DirNone
	}
	c.publishMoved()
}

func (c *Controller) enterPan(dir Direction, now time.Time) {
	if c.state != EdgePanning || c.dir != dir {
		c.panStartedAt = now
	}
	c.state = EdgePanning
	c.dir = dir
}

// EndDrag returns to Idle on pointer-up.
func (c *Controller) EndDrag() {
	c.state = Idle
	c.dir = DirNone
	c.velocity = 0
}

// PanTick advances the playhead by one autoscroll step. Called on a
// fixed-rate tick (tickRate ticks per second) while edge panning. The
// viewport offset is shifted by the playhead's pixel displacement so
// the playhead stays near the edge.
func (c *Controller) PanTick(rect timemap.TrackRect, now time.Time) {
	c.PanTickRate(rect, now, 30)
}

// PanTickRate is PanTick with an explicit tick rate.
func (c *Controller) PanTickRate(rect timemap.TrackRect, now time.Time, tickRate float64) {
	if c.state != EdgePanning || tickRate <= 0 {
		return
	}
	mult := speedMultiplier(now.Sub(c.panStartedAt))
	delta := int64(c.velocity * mult / tickRate)

	beforeX := c.mapper.TimestampToFoldedX(c.position, rect)
	c.position += delta
	if rawStart, rawEnd := c.mapper.Bounds(); c.position < rawStart {
		c.position = rawStart
	} else if c.position > rawEnd {
		c.position = rawEnd
	}
	afterX := c.mapper.TimestampToFoldedX(c.position, rect)

	c.viewportOffset += afterX - beforeX
	c.publishMoved()
}

// speedMultiplier ramps from 1.0 to 1.5 across the 3-6 second hold mark
// so a long hold accelerates scrubbing.
func speedMultiplier(held time.Duration) float64 {
	s := held.Seconds()
	switch {
	case s <= rampStart:
		return rampFloor
	case s >= rampEnd:
		return rampCeil
	default:
		return rampFloor + (rampCeil-rampFloor)*(s-rampStart)/(rampEnd-rampStart)
	}
}

// OnPlayerPosition handles a position callback from the media player.
// Ignored while dragging, edge panning, or suppressed. During forward
// playback it applies the auto-display policy: report the event with
// the greatest timestamp <= the playhead, at most once per distinct
// timestamp. A callback that moves backward (a seek) updates the
// position without reporting.
func (c *Controller) OnPlayerPosition(seconds float64) {
	if c.suppressed || c.state != Idle {
		return
	}
	forward := seconds >= c.lastPlayback
	c.lastPlayback = seconds
	c.position = c.mapper.PlaybackTimeToEventTime(seconds)
	c.publishMoved()

	if !forward || c.manualPick || c.events == nil {
		return
	}
	i, ok := c.events.LatestAt(c.position)
	if !ok {
		return
	}
	ts, ok := c.events.Timestamp(i)
	if !ok || ts == c.lastShown {
		return
	}
	c.lastShown = ts
	if c.pub != nil {
		c.pub.Publish(bus.EventShown{Index: i, Timestamp: ts})
	}
}

func (c *Controller) publishMoved() {
	if c.pub == nil {
		return
	}
	c.pub.Publish(bus.PlayheadMoved{
		Timestamp: c.position,
		Playback:  c.mapper.EventTimeToPlaybackTime(c.position),
	})
}
