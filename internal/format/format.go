// Package format provides output formatting utilities for CLI display.
//
// Centralises formatting logic so that command implementations focus on
// business logic while this package handles presentation concerns like
// column alignment and timestamp rendering.
package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jpl-au/revu/internal/gaps"
	"github.com/jpl-au/revu/internal/session"
	"github.com/jpl-au/revu/internal/timemap"
)

// Playback formats playback seconds as m:ss.mmm (or h:mm:ss.mmm past an hour).
func Playback(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms)
	}
	return fmt.Sprintf("%d:%02d.%03d", m, s, ms)
}

// Micros formats a microsecond duration as playback time.
func Micros(us int64) string {
	return Playback(float64(us) / 1e6)
}

// Wall formats a microsecond epoch timestamp as local wall-clock time.
func Wall(us int64) string {
	return time.UnixMicro(us).Format("2006-01-02 15:04:05.000")
}

// Events prints the timeline in long format: index, playback time, source,
// kind, and any tags. The mapper converts raw timestamps to playback time.
func Events(w io.Writer, tl *session.Timeline, mapper *timemap.Mapper) error {
	indices := make([]int, tl.Len())
	for i := range indices {
		indices[i] = i
	}
	return EventSubset(w, tl, mapper, indices)
}

// EventSubset prints only the given raw indices, preserving them in the
// IDX column so filtered listings stay addressable by other commands.
func EventSubset(w io.Writer, tl *session.Timeline, mapper *timemap.Mapper, indices []int) error {
	if len(indices) == 0 {
		return nil
	}

	// Find max kind length for alignment
	maxKind := 4 // minimum "KIND"
	for _, i := range indices {
		if e, ok := tl.Event(i); ok && len(e.Kind) > maxKind {
			maxKind = len(e.Kind)
		}
	}

	fmt.Fprintf(w, "%5s  %12s  %-11s  %-*s  %s\n", "IDX", "TIME", "SOURCE", maxKind, "KIND", "TAGS")

	for _, i := range indices {
		s, ok := tl.Slot(i)
		if !ok {
			continue
		}
		t := Playback(mapper.EventTimeToPlaybackTime(s.Event.Timestamp))
		tags := strings.Join(s.Tags, ",")
		if len(s.Note) > 0 {
			if tags != "" {
				tags += " "
			}
			tags += "[note]"
		}
		fmt.Fprintf(w, "%5d  %12s  %-11s  %-*s  %s\n",
			i, t, s.Event.Source, maxKind, s.Event.Kind, tags)
	}
	return nil
}

// Gaps prints pause and crop gaps with their kind and duration.
func Gaps(w io.Writer, gs []gaps.Gap, mapper *timemap.Mapper) error {
	if len(gs) == 0 {
		return nil
	}
	fmt.Fprintf(w, "%-6s  %12s  %12s  %10s  %s\n", "KIND", "START", "END", "DURATION", "EVENTS")
	for _, g := range gs {
		events := "-"
		if len(g.Backup) > 0 {
			events = fmt.Sprintf("%d removed", len(g.Backup))
		}
		fmt.Fprintf(w, "%-6s  %12s  %12s  %10s  %s\n",
			g.Kind,
			Playback(mapper.EventTimeToPlaybackTime(g.Start)),
			Playback(mapper.EventTimeToPlaybackTime(g.End)),
			Micros(g.Duration()),
			events,
		)
	}
	return nil
}

// Transitions prints the transition list.
func Transitions(w io.Writer, trs []gaps.Transition, mapper *timemap.Mapper) error {
	if len(trs) == 0 {
		return nil
	}
	fmt.Fprintf(w, "%-36s  %12s  %10s  %-8s  %s\n", "ID", "AT", "DURATION", "TYPE", "STYLE")
	for _, tr := range trs {
		style := tr.Style
		if style == "" {
			style = "-"
		}
		fmt.Fprintf(w, "%-36s  %12s  %10s  %-8s  %s\n",
			tr.ID,
			Playback(mapper.EventTimeToPlaybackTime(tr.Timestamp)),
			Micros(tr.Duration),
			tr.Type, style,
		)
	}
	return nil
}

// Markers prints accessibility markers with their time range and text.
func Markers(w io.Writer, markers []session.Annotation, mapper *timemap.Mapper) error {
	if len(markers) == 0 {
		return nil
	}
	fmt.Fprintf(w, "%-36s  %12s  %10s  %-10s  %s\n", "ID", "START", "DURATION", "TYPE", "TEXT")
	for _, m := range markers {
		text := m.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(w, "%-36s  %12s  %10s  %-10s  %s\n",
			m.ID,
			Playback(mapper.EventTimeToPlaybackTime(m.StartTime)),
			Micros(m.Duration),
			m.Type, text,
		)
	}
	return nil
}

// UndoStack prints the undo stack, most recent first.
func UndoStack(w io.Writer, names []string) error {
	if len(names) == 0 {
		fmt.Fprintln(w, "nothing to undo")
		return nil
	}
	for i := len(names) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "%3d  %s\n", len(names)-i, names[i])
	}
	return nil
}
