/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// cut.go implements the "revu cut" command: removing events without
// touching playback or media.
//
// Unlike crop, a cut leaves no gap behind - the timeline simply has
// fewer events over the same span. Use it to drop noise (stray clicks,
// duplicate focus events) while keeping the recording intact.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/jpl-au/revu/internal/log"
	"github.com/spf13/cobra"
)

var cutIndex int

var cutCmd = &cobra.Command{
	Use:   "cut [<from> <to>]",
	Short: "Remove events without altering playback",
	Long: `Remove the events between two playback positions, or a single event
with --index. The media and timeline layout are unchanged; only the
event list shrinks.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runCut,
}

func runCut(c *cobra.Command, args []string) error {
	if c.Flags().Changed("index") {
		before := sess.Timeline.Len()
		err := sess.DeleteEvent(cutIndex)
		removed := before - sess.Timeline.Len()

		log.Event("timeline:cut", "cut").
			Author(Author()).
			EventIndex(cutIndex).
			ResultCount(removed).
			Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]int{"removed": removed})
		}
		fmt.Fprintf(out, "cut event %s (%d removed)\n", strconv.Itoa(cutIndex), removed)
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("cut requires <from> and <to> positions (or --index)")
	}
	start, err := eventTime(args[0])
	if err != nil {
		return PrintJSONError(err)
	}
	end, err := eventTime(args[1])
	if err != nil {
		return PrintJSONError(err)
	}
	if end <= start {
		return PrintJSONError(fmt.Errorf("cut: end %s must follow start %s", args[1], args[0]))
	}

	before := sess.Timeline.Len()
	err = sess.DeleteRange(start, end)
	removed := before - sess.Timeline.Len()

	log.Event("timeline:cut", "cut").
		Author(Author()).
		Range(start, end).
		ResultCount(removed).
		Write(err)
	if err != nil {
		return PrintJSONError(err)
	}
	if err := sess.Save(); err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(map[string]int{"removed": removed})
	}
	fmt.Fprintf(out, "cut %s to %s (%d events removed)\n", args[0], args[1], removed)
	return nil
}

func init() {
	cutCmd.Flags().IntVar(&cutIndex, "index", 0, "Remove a single event by index")
	rootCmd.AddCommand(cutCmd)
}
