/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// events.go implements the "revu events" command listing the timeline.
//
// Filtering happens through a non-mutating view over the authoritative
// list; the printed indices are always raw timeline indices, so they
// match what crop, tag, and note commands expect.

package cmd

import (
	"slices"

	"github.com/jpl-au/revu/internal/format"
	"github.com/jpl-au/revu/internal/log"
	"github.com/jpl-au/revu/internal/session"
	"github.com/spf13/cobra"
)

var (
	eventsSource string
	eventsKind   string
	eventsTag    string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List timeline events",
	Long:  `List events in playback order with their index, time, source, kind, and tags.`,
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func runEvents(_ *cobra.Command, _ []string) error {
	tl := sess.Timeline
	view := tl.ApplyFilters(func(e session.Event) bool {
		if eventsSource != "" && string(e.Source) != eventsSource {
			return false
		}
		if eventsKind != "" && e.Kind != eventsKind {
			return false
		}
		if eventsTag != "" && !slices.Contains(tl.Tags(e.OriginalIndex), eventsTag) {
			return false
		}
		return true
	})

	log.Event("timeline:events", "list").
		Author(Author()).
		ResultCount(view.Len()).
		Write(nil)

	indices := make([]int, view.Len())
	for i := range indices {
		indices[i] = view.RawIndex(i)
	}

	if JSON() {
		events := make([]session.Event, 0, len(indices))
		for _, i := range indices {
			if e, ok := tl.Event(i); ok {
				events = append(events, e)
			}
		}
		return PrintJSON(events)
	}
	return format.EventSubset(out, tl, sess.Mapper, indices)
}

func init() {
	eventsCmd.Flags().StringVar(&eventsSource, "source", "", "Filter by source (interaction, focus, system, voiceover, editor)")
	eventsCmd.Flags().StringVar(&eventsKind, "kind", "", "Filter by event kind")
	eventsCmd.Flags().StringVar(&eventsTag, "tag", "", "Filter by tag")
	rootCmd.AddCommand(eventsCmd)
}
