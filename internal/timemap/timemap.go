// Package timemap converts between the three clocks of a session review:
// raw event timestamps (µs epoch), folded visual X coordinates on the
// rendered timeline, and continuous media playback seconds.
//
// Folding: pause and crop gaps collapse to a fixed-width marker so a long
// pause doesn't waste horizontal space; transitions expand the timeline
// by a width proportional to their duration. Playback conversion has no
// visual exception - gaps collapse 1:1 because the media genuinely has
// no frames (pause) or no content (crop) for those ranges.
package timemap

import (
	"github.com/jpl-au/revu/internal/gaps"
)

// DefaultMarkerWidth is the on-screen width of a folded gap marker in
// points, independent of zoom.
const DefaultMarkerWidth = 12.0

// microsPerSecond converts µs event time to playback seconds.
const microsPerSecond = 1e6

// TrackRect describes the horizontal extent of the rendered timeline
// track the mapper projects onto.
type TrackRect struct {
	X     float64
	Width float64
}

// Mapper performs the bidirectional clock conversions for one session.
// It is pure over the registry's current state: it holds no caches, so
// a registry mutation is immediately reflected in every mapping.
type Mapper struct {
	reg         *gaps.Registry
	datum       int64 // recording-start timestamp, the zero of playback time
	markerWidth float64
}

// New creates a mapper over reg with datum as the recording-start
// timestamp.
func New(reg *gaps.Registry, datum int64) *Mapper {
	return &Mapper{reg: reg, datum: datum, markerWidth: DefaultMarkerWidth}
}

// SetMarkerWidth overrides the folded gap marker width.
func (m *Mapper) SetMarkerWidth(w float64) {
	if w > 0 {
		m.markerWidth = w
	}
}

// Datum returns the recording-start timestamp.
func (m *Mapper) Datum() int64 { return m.datum }

// Bounds returns the raw recording bounds of the underlying registry.
func (m *Mapper) Bounds() (int64, int64) { return m.reg.Bounds() }

// SetDatum updates the recording-start timestamp.
func (m *Mapper) SetDatum(d int64) { m.datum = d }

// breakpoint is one stop on the left-to-right walk: either a folded gap
// or a transition point.
type breakpoint struct {
	at  int64
	gap *gaps.Gap
	tr  *gaps.Transition
}

// breakpoints merges folded gaps and transitions in ascending time order.
func (m *Mapper) breakpoints() []breakpoint {
	folded := m.reg.FoldedSorted()
	trs := m.reg.Transitions()

	bps := make([]breakpoint, 0, len(folded)+len(trs))
	i, j := 0, 0
	for i < len(folded) && j < len(trs) {
		if folded[i].Start <= trs[j].Timestamp {
			bps = append(bps, breakpoint{at: folded[i].Start, gap: &folded[i]})
			i++
		} else {
			bps = append(bps, breakpoint{at: trs[j].Timestamp, tr: &trs[j]})
			j++
		}
	}
	for ; i < len(folded); i++ {
		bps = append(bps, breakpoint{at: folded[i].Start, gap: &folded[i]})
	}
	for ; j < len(trs); j++ {
		bps = append(bps, breakpoint{at: trs[j].Timestamp, tr: &trs[j]})
	}
	return bps
}

// scale returns points per microsecond for the proportional segments:
// the track width minus the fixed gap markers, spread over the effective
// duration.
func (m *Mapper) scale(rect TrackRect) float64 {
	avail := rect.Width - float64(len(m.reg.FoldedSorted()))*m.markerWidth
	if avail < 0 {
		avail = 0
	}
	return avail / float64(m.reg.EffectiveDuration())
}

// degenerate reports whether the mapping domain is empty (no events, or
// start == end). Mapping functions then return the domain minimum rather
// than raising, keeping the UI stable.
func (m *Mapper) degenerate() bool {
	start, end := m.reg.Bounds()
	return end <= start
}

// TimestampToFoldedX maps an event timestamp to its folded X coordinate
// within rect. Timestamps inside a folded gap all map to the gap
// marker's left edge; timestamps at or after a transition are advanced
// by the transition's proportional width.
func (m *Mapper) TimestampToFoldedX(t int64, rect TrackRect) float64 {
	if m.degenerate() {
		return rect.X
	}
	rawStart, rawEnd := m.reg.Bounds()
	if t < rawStart {
		t = rawStart
	}
	if t > rawEnd {
		t = rawEnd
	}

	scale := m.scale(rect)
	x := rect.X
	cur := rawStart

	for _, bp := range m.breakpoints() {
		if t < bp.at {
			break
		}
		// Proportional segment up to the breakpoint
		x += float64(bp.at-cur) * scale
		if bp.gap != nil {
			if t < bp.gap.End {
				// Inside the gap: the marker's left edge
				return x
			}
			x += m.markerWidth
			cur = bp.gap.End
		} else {
			// At/after a transition: its inserted width is consumed
			x += float64(bp.tr.Duration) * scale
			cur = bp.at
		}
	}

	x += float64(t-cur) * scale
	if max := rect.X + rect.Width; x > max {
		x = max
	}
	return x
}

// FoldedXToTimestamp is the exact inverse of TimestampToFoldedX: it
// walks the same breakpoint list and interpolates within whichever
// segment, gap marker, or transition band contains x. X positions over
// a gap marker map to the gap's start; positions over a transition band
// map to the transition's timestamp.
func (m *Mapper) FoldedXToTimestamp(x float64, rect TrackRect) int64 {
	rawStart, rawEnd := m.reg.Bounds()
	if m.degenerate() {
		return rawStart
	}
	if x <= rect.X {
		return rawStart
	}

	scale := m.scale(rect)
	if scale <= 0 {
		return rawStart
	}
	curX := rect.X
	cur := rawStart

	for _, bp := range m.breakpoints() {
		segW := float64(bp.at-cur) * scale
		if x < curX+segW {
			return cur + int64((x-curX)/scale)
		}
		curX += segW
		if bp.gap != nil {
			if x < curX+m.markerWidth {
				return bp.gap.Start
			}
			curX += m.markerWidth
			cur = bp.gap.End
		} else {
			trW := float64(bp.tr.Duration) * scale
			if x < curX+trW {
				return bp.tr.Timestamp
			}
			curX += trW
			cur = bp.at
		}
	}

	t := cur + int64((x-curX)/scale)
	if t > rawEnd {
		t = rawEnd
	}
	return t
}

// EventTimeToPlaybackTime maps an event timestamp to elapsed media
// seconds: time since the datum with all folded gap time collapsed 1:1.
func (m *Mapper) EventTimeToPlaybackTime(t int64) float64 {
	if m.degenerate() {
		return 0
	}
	return float64(t-m.datum-m.reg.GapDurationBefore(t)) / microsPerSecond
}

// PlaybackTimeToEventTime maps elapsed media seconds back to an event
// timestamp, adding back the duration of every folded gap whose
// playback-equivalent start precedes the given time.
func (m *Mapper) PlaybackTimeToEventTime(seconds float64) int64 {
	if m.degenerate() {
		start, _ := m.reg.Bounds()
		return start
	}
	var offset int64
	for _, g := range m.reg.FoldedSorted() {
		gapPlaybackStart := float64(g.Start-m.datum-offset) / microsPerSecond
		if gapPlaybackStart > seconds {
			break
		}
		offset += g.Duration()
	}
	return m.datum + int64(seconds*microsPerSecond) + offset
}

// EventTimeToMediaTime maps an event timestamp to seconds within the
// original (pre-crop) media file. Only pauses are subtracted: the
// pristine recording has no frames for pauses but still contains every
// cropped range. The resynchroniser uses this to compute keep ranges
// against the rolling backup.
func (m *Mapper) EventTimeToMediaTime(t int64) float64 {
	if m.degenerate() {
		return 0
	}
	return float64(t-m.datum-m.reg.PauseDurationBefore(t)) / microsPerSecond
}
