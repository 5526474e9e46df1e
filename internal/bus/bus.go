// Package bus defines typed events exchanged between the timeline
// components, replacing ad-hoc callback closures with an explicit
// publish/subscribe channel.
//
// Design: Events are fire-and-forget notifications, not approval requests.
// Subscribers cannot block or veto operations - they observe after the
// fact. Dispatch is synchronous and in subscription order, which keeps
// ordering deterministic on the single-threaded event loop.
package bus

import "sync"

// Type identifies the kind of event.
type Type string

const (
	TypePlayheadMoved    Type = "playhead:moved"
	TypeRangeSelected    Type = "timeline:range-selected"
	TypeEventShown       Type = "timeline:event-shown"
	TypeAnnotationEdited Type = "annotation:edited"
	TypeResyncStarted    Type = "media:resync-started"
	TypeResyncFinished   Type = "media:resync-finished"
	TypeMediaDiverged    Type = "media:diverged"
)

// Event is the base interface for all bus events.
type Event interface {
	BusType() Type
}

// PlayheadMoved is published whenever the playhead position changes,
// whether from a drag, an edge pan, or a player position update.
type PlayheadMoved struct {
	Timestamp int64   // event time, µs
	Playback  float64 // playback time, seconds
}

func (e PlayheadMoved) BusType() Type { return TypePlayheadMoved }

// RangeSelected is published when the user selects a time range on the
// timeline, typically as the precursor to a crop or delete.
type RangeSelected struct {
	Start int64
	End   int64
}

func (e RangeSelected) BusType() Type { return TypeRangeSelected }

// EventShown is published when the auto-display policy picks a new
// "current" event during forward playback. Published at most once per
// distinct timestamp.
type EventShown struct {
	Index     int
	Timestamp int64
}

func (e EventShown) BusType() Type { return TypeEventShown }

// AnnotationEdited is published after a marker or annotation is added,
// edited, or removed.
type AnnotationEdited struct {
	ID string
}

func (e AnnotationEdited) BusType() Type { return TypeAnnotationEdited }

// ResyncStarted is published when a background media re-composition begins.
type ResyncStarted struct {
	File string
}

func (e ResyncStarted) BusType() Type { return TypeResyncStarted }

// ResyncFinished is published when a background media re-composition
// completes, successfully or not.
type ResyncFinished struct {
	File string
	Err  string // empty on success
}

func (e ResyncFinished) BusType() Type { return TypeResyncFinished }

// MediaDiverged is published when a compose failure leaves the physical
// media stale relative to the logical gap list. Non-fatal: the edit
// remains undoable and a retry may reconverge.
type MediaDiverged struct {
	File   string
	Reason string
}

func (e MediaDiverged) BusType() Type { return TypeMediaDiverged }

// Handler is implemented by components that want to receive events.
type Handler interface {
	HandleEvent(e Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(e Event)

// HandleEvent calls f(e).
func (f HandlerFunc) HandleEvent(e Event) { f(e) }

// Publisher is the sending half of the bus. Components hold a Publisher
// rather than the concrete Dispatcher so tests can substitute a recorder.
type Publisher interface {
	Publish(e Event)
}

// Dispatcher fans events out to subscribers. The zero value is usable.
type Dispatcher struct {
	mu       sync.Mutex
	handlers []Handler
}

// Subscribe registers a handler for all subsequent events.
func (d *Dispatcher) Subscribe(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// Publish delivers e to every subscriber in subscription order.
// Safe to call on a nil Dispatcher (no-op), which lets components run
// unwired in tests.
func (d *Dispatcher) Publish(e Event) {
	if d == nil {
		return
	}
	d.mu.Lock()
	hs := make([]Handler, len(d.handlers))
	copy(hs, d.handlers)
	d.mu.Unlock()

	for _, h := range hs {
		h.HandleEvent(e)
	}
}
