// view.go implements non-mutating filtered views over the timeline.
//
// A view carries an index-translation table back to raw indices so that
// edit and tag operations triggered from a filtered list always land on
// the right underlying slot.

package session

// View is a derived, read-only subset of a timeline.
// It holds positions, not copies: mutating the underlying timeline
// invalidates the view.
type View struct {
	t   *Timeline
	raw []int
}

// ApplyFilters produces a view of every event matching pred.
// The timeline itself is never mutated by filtering.
func (t *Timeline) ApplyFilters(pred func(Event) bool) View {
	v := View{t: t}
	for i, s := range t.slots {
		if pred == nil || pred(s.Event) {
			v.raw = append(v.raw, i)
		}
	}
	return v
}

// Len returns the number of events in the view.
func (v View) Len() int { return len(v.raw) }

// Event returns the i-th event of the view.
func (v View) Event(i int) (Event, bool) {
	if i < 0 || i >= len(v.raw) {
		return Event{}, false
	}
	e, ok := v.t.Event(v.raw[i])
	return e, ok
}

// RawIndex translates a view index to the raw timeline index, or
// IndexNotFound when out of range.
func (v View) RawIndex(i int) int {
	if i < 0 || i >= len(v.raw) {
		return IndexNotFound
	}
	return v.raw[i]
}
