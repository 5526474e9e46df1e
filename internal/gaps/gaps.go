// Package gaps owns the pause gaps, crop gaps, and transitions of a
// session timeline, and answers aggregate folding questions for the
// time mapper: how much time is collapsed or expanded before a given
// timestamp, and what the effective duration of the recording is after
// folding.
package gaps

import (
	"errors"
	"fmt"

	"github.com/jpl-au/revu/internal/session"
)

// ErrRangeOverlap is returned when a new gap would intersect an existing
// pause or crop gap. Overlapping crop requests are rejected outright
// rather than merged or clipped.
var ErrRangeOverlap = errors.New("range overlaps an existing gap")

// ErrNotFound is returned when a gap or transition lookup misses.
var ErrNotFound = errors.New("not found")

// Kind distinguishes the two gap flavours.
type Kind string

const (
	// KindPause marks a range where recording was paused; the video has
	// no frames for this range.
	KindPause Kind = "pause"
	// KindCrop marks a range the user cut out; events are removed and
	// the media is eventually re-composed without it.
	KindCrop Kind = "crop"
)

// Gap is a contiguous time range excluded from proportional layout.
// Crop gaps additionally carry a backup of every event slot they
// removed, enabling exact restoration on undo.
type Gap struct {
	Start  int64          `json:"start"`
	End    int64          `json:"end"`
	Kind   Kind           `json:"kind"`
	Backup []session.Slot `json:"backup,omitempty"`
}

// Duration returns the gap's length in microseconds.
func (g Gap) Duration() int64 { return g.End - g.Start }

// Contains reports whether t falls inside [Start, End).
func (g Gap) Contains(t int64) bool { return t >= g.Start && t < g.End }

// overlaps reports whether [start, end) intersects the gap.
func (g Gap) overlaps(start, end int64) bool {
	return start < g.End && end > g.Start
}

// Transition marks a point where the timeline is expanded by an inserted
// segment (e.g. a title card) with no corresponding original event range.
type Transition struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Duration  int64  `json:"duration"`
	Type      string `json:"type"`
	Style     string `json:"style,omitempty"`
}

// Registry owns the gap and transition sets for one session.
// Gaps are non-overlapping and kept sorted by start. Not safe for
// concurrent mutation; all writes happen on the single-threaded loop.
type Registry struct {
	rawStart int64
	rawEnd   int64

	pauses      []Gap
	crops       []Gap
	transitions []Transition

	// Fold toggles: pause and crop gaps each have their own, so the
	// registry sums them independently before combining.
	foldPauses bool
	foldCrops  bool
}

// NewRegistry creates a registry for a recording spanning
// [rawStart, rawEnd]. Both fold toggles default to on.
func NewRegistry(rawStart, rawEnd int64) *Registry {
	return &Registry{
		rawStart:   rawStart,
		rawEnd:     rawEnd,
		foldPauses: true,
		foldCrops:  true,
	}
}

// SetBounds updates the raw recording bounds.
func (r *Registry) SetBounds(rawStart, rawEnd int64) {
	r.rawStart = rawStart
	r.rawEnd = rawEnd
}

// Bounds returns the raw recording bounds.
func (r *Registry) Bounds() (int64, int64) { return r.rawStart, r.rawEnd }

// SetFoldPauses toggles folding of pause gaps.
func (r *Registry) SetFoldPauses(on bool) { r.foldPauses = on }

// SetFoldCrops toggles folding of crop gaps.
func (r *Registry) SetFoldCrops(on bool) { r.foldCrops = on }

// Overlaps reports whether [start, end) intersects any existing gap.
// Callers validate with this before constructing an edit command.
func (r *Registry) Overlaps(start, end int64) bool {
	for _, g := range r.pauses {
		if g.overlaps(start, end) {
			return true
		}
	}
	for _, g := range r.crops {
		if g.overlaps(start, end) {
			return true
		}
	}
	return false
}

// AddPause registers a pause gap over [start, end).
func (r *Registry) AddPause(start, end int64) (Gap, error) {
	return r.add(Gap{Start: start, End: end, Kind: KindPause})
}

// AddCrop registers a crop gap over [start, end) carrying the removed
// event slots as its backup.
func (r *Registry) AddCrop(start, end int64, backup []session.Slot) (Gap, error) {
	return r.add(Gap{Start: start, End: end, Kind: KindCrop, Backup: backup})
}

func (r *Registry) add(g Gap) (Gap, error) {
	if g.End <= g.Start {
		return Gap{}, fmt.Errorf("gap [%d,%d): end must follow start", g.Start, g.End)
	}
	if r.Overlaps(g.Start, g.End) {
		return Gap{}, fmt.Errorf("gap [%d,%d): %w", g.Start, g.End, ErrRangeOverlap)
	}
	switch g.Kind {
	case KindPause:
		r.pauses = insertSorted(r.pauses, g)
	case KindCrop:
		r.crops = insertSorted(r.crops, g)
	}
	return g, nil
}

func insertSorted(gs []Gap, g Gap) []Gap {
	i := 0
	for i < len(gs) && gs[i].Start < g.Start {
		i++
	}
	gs = append(gs, Gap{})
	copy(gs[i+1:], gs[i:])
	gs[i] = g
	return gs
}

// RemoveCrop deletes the crop gap starting at start and returns it
// (including its backup slots).
func (r *Registry) RemoveCrop(start int64) (Gap, bool) {
	for i, g := range r.crops {
		if g.Start == start {
			r.crops = append(r.crops[:i], r.crops[i+1:]...)
			return g, true
		}
	}
	return Gap{}, false
}

// RemovePause deletes the pause gap starting at start.
func (r *Registry) RemovePause(start int64) (Gap, bool) {
	for i, g := range r.pauses {
		if g.Start == start {
			r.pauses = append(r.pauses[:i], r.pauses[i+1:]...)
			return g, true
		}
	}
	return Gap{}, false
}

// SetPauses replaces the pause gap set (load path).
func (r *Registry) SetPauses(gs []Gap) {
	r.pauses = nil
	for _, g := range gs {
		g.Kind = KindPause
		r.pauses = insertSorted(r.pauses, g)
	}
}

// SetCrops replaces the crop gap set (load path).
func (r *Registry) SetCrops(gs []Gap) {
	r.crops = nil
	for _, g := range gs {
		g.Kind = KindCrop
		r.crops = insertSorted(r.crops, g)
	}
}

// Pauses returns the pause gaps sorted by start.
func (r *Registry) Pauses() []Gap {
	out := make([]Gap, len(r.pauses))
	copy(out, r.pauses)
	return out
}

// Crops returns the crop gaps sorted by start.
func (r *Registry) Crops() []Gap {
	out := make([]Gap, len(r.crops))
	copy(out, r.crops)
	return out
}

// AllSorted returns pause and crop gaps merged by start, the breakpoint
// list the time mapper walks.
func (r *Registry) AllSorted() []Gap {
	out := make([]Gap, 0, len(r.pauses)+len(r.crops))
	i, j := 0, 0
	for i < len(r.pauses) && j < len(r.crops) {
		if r.pauses[i].Start <= r.crops[j].Start {
			out = append(out, r.pauses[i])
			i++
		} else {
			out = append(out, r.crops[j])
			j++
		}
	}
	out = append(out, r.pauses[i:]...)
	out = append(out, r.crops[j:]...)
	return out
}

// FoldedSorted returns only the gaps whose kind is currently folded,
// merged by start.
func (r *Registry) FoldedSorted() []Gap {
	all := r.AllSorted()
	out := all[:0:0]
	for _, g := range all {
		if r.folded(g) {
			out = append(out, g)
		}
	}
	return out
}

func (r *Registry) folded(g Gap) bool {
	if g.Kind == KindPause {
		return r.foldPauses
	}
	return r.foldCrops
}

// EffectiveDuration returns the recording span after subtracting folded
// gaps and adding transition expansion. Clamped to a minimum of one
// microsecond so downstream proportional math never divides by zero.
func (r *Registry) EffectiveDuration() int64 {
	d := r.rawEnd - r.rawStart
	for _, g := range r.FoldedSorted() {
		d -= g.Duration()
	}
	for _, tr := range r.transitions {
		d += tr.Duration
	}
	if d < 1 {
		d = 1
	}
	return d
}

// GapDurationBefore returns the folded time preceding t: the full
// duration of every folded gap ending at or before t, plus the partial
// duration of a folded gap containing t. Pause and crop contributions
// are summed independently then combined.
func (r *Registry) GapDurationBefore(t int64) int64 {
	var pause, crop int64
	if r.foldPauses {
		pause = durationBefore(r.pauses, t)
	}
	if r.foldCrops {
		crop = durationBefore(r.crops, t)
	}
	return pause + crop
}

// PauseDurationBefore returns the pause time preceding t regardless of
// the fold toggle. Pauses never produce media frames, so media-time
// conversion subtracts them unconditionally.
func (r *Registry) PauseDurationBefore(t int64) int64 {
	return durationBefore(r.pauses, t)
}

func durationBefore(gs []Gap, t int64) int64 {
	var total int64
	for _, g := range gs {
		switch {
		case g.End <= t:
			total += g.Duration()
		case g.Contains(t):
			total += t - g.Start
		}
	}
	return total
}

// TransitionDurationBefore returns the expansion inserted by transitions
// at or before t.
func (r *Registry) TransitionDurationBefore(t int64) int64 {
	var total int64
	for _, tr := range r.transitions {
		if tr.Timestamp <= t {
			total += tr.Duration
		}
	}
	return total
}

// AddTransition registers a transition, assigning an ID if none is set,
// and returns the stored value.
func (r *Registry) AddTransition(tr Transition) Transition {
	if tr.ID == "" {
		tr.ID = newTransitionID()
	}
	i := 0
	for i < len(r.transitions) && r.transitions[i].Timestamp < tr.Timestamp {
		i++
	}
	r.transitions = append(r.transitions, Transition{})
	copy(r.transitions[i+1:], r.transitions[i:])
	r.transitions[i] = tr
	return tr
}

// UpdateTransition replaces the transition with a matching ID and
// returns the previous value, for undo.
func (r *Registry) UpdateTransition(tr Transition) (Transition, error) {
	for i := range r.transitions {
		if r.transitions[i].ID == tr.ID {
			prev := r.transitions[i]
			r.transitions[i] = tr
			return prev, nil
		}
	}
	return Transition{}, fmt.Errorf("transition %s: %w", tr.ID, ErrNotFound)
}

// RemoveTransition deletes the transition with the given ID and returns it.
func (r *Registry) RemoveTransition(id string) (Transition, bool) {
	for i, tr := range r.transitions {
		if tr.ID == id {
			r.transitions = append(r.transitions[:i], r.transitions[i+1:]...)
			return tr, true
		}
	}
	return Transition{}, false
}

// SetTransitions replaces the transition set (load path).
func (r *Registry) SetTransitions(trs []Transition) {
	r.transitions = nil
	for _, tr := range trs {
		r.AddTransition(tr)
	}
}

// Transitions returns the transitions sorted by timestamp.
func (r *Registry) Transitions() []Transition {
	out := make([]Transition, len(r.transitions))
	copy(out, r.transitions)
	return out
}
