/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// crop.go implements the "revu crop" command: destructive removal of a
// playback range, with the media re-composed to match.
//
// Design: crop is the one edit that touches media files, so it asks for
// confirmation unless --force. --remove reverses a previously persisted
// crop using the backup carried inside the gap, which works across
// processes where the in-memory undo stack does not.

package cmd

import (
	"fmt"

	"github.com/jpl-au/revu/internal/format"
	"github.com/jpl-au/revu/internal/log"
	"github.com/spf13/cobra"
)

var cropRemove string

var cropCmd = &cobra.Command{
	Use:   "crop <from> <to>",
	Short: "Cut a playback range out of the session",
	Long: `Remove the range between two playback positions: events inside it are
deleted (recoverable via undo), the range folds to a gap marker on the
timeline, and the media files are re-composed without it.

Positions accept seconds (90), clock form (1:30.250), or durations (1m30s).`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runCrop,
}

func runCrop(_ *cobra.Command, args []string) error {
	if cropRemove != "" {
		return runCropRemove(cropRemove)
	}
	if len(args) != 2 {
		return fmt.Errorf("crop requires <from> and <to> positions (or --remove)")
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
		return PrintJSONError(fmt.Errorf("crop: end %s must follow start %s", args[1], args[0]))
	}

	if !confirm(fmt.Sprintf("crop %s to %s and re-compose media?", args[0], args[1])) {
		return nil
	}

	before := sess.Timeline.Len()
	err = sess.Crop(start, end)
	removed := before - sess.Timeline.Len()

	log.Event("timeline:crop", "crop").
		Author(Author()).
		Range(start, end).
		ResultCount(removed).
		Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	sess.Media.Wait()
	if err := sess.Save(); err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(map[string]any{"removed": removed, "crops": len(sess.Gaps.Crops())})
	}
	fmt.Fprintf(out, "cropped %s to %s (%d events removed)\n", args[0], args[1], removed)
	return nil
}

// runCropRemove reverses the persisted crop covering a playback position.
func runCropRemove(pos string) error {
	t, err := eventTime(pos)
	if err != nil {
		return PrintJSONError(err)
	}

	var found bool
	var start, end int64
	for _, g := range sess.Gaps.Crops() {
		// eventTime folds gaps, so a position at the collapsed marker
		// resolves to the gap's end boundary
		if g.Contains(t) || g.Start == t || g.End == t {
			start, end, found = g.Start, g.End, true
			break
		}
	}
	if !found {
		return PrintJSONError(fmt.Errorf("no crop at %s", pos))
	}

	g, _ := sess.Gaps.RemoveCrop(start)
	sess.Timeline.RestoreSlots(g.Backup)
	err = sess.Media.RestoreOriginal()

	log.Event("timeline:crop", "uncrop").
		Author(Author()).
		Range(start, end).
		ResultCount(len(g.Backup)).
		Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	if err := sess.Save(); err != nil {
		return PrintJSONError(err)
	}
	fmt.Fprintf(out, "restored %d events from crop at %s\n", len(g.Backup), format.Micros(start-sess.Datum()))
	return nil
}

func init() {
	cropCmd.Flags().StringVar(&cropRemove, "remove", "", "Reverse the crop covering a playback position")
	rootCmd.AddCommand(cropCmd)
}
