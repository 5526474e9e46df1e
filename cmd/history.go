/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// history.go implements the "revu history" command over the audit log.
//
// Design: the edit history is per-process, but the audit log persists,
// so history reads the SQLite log filtered to this session. --diff
// instead compares the current event list against the fully restored
// one (all crop backups re-inserted), showing the cumulative effect of
// every destructive edit still in force.

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jpl-au/revu/internal/diff"
	"github.com/jpl-au/revu/internal/format"
	"github.com/jpl-au/revu/internal/log"
	"github.com/jpl-au/revu/internal/session"
	"github.com/jpl-au/revu/internal/timemap"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	historyLimit int
	historyDiff  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the session's edit history",
	Long: `List the audit log entries recorded for this session, newest first.

With --diff, show what the destructive edits removed: the current event
list diffed against the list with every crop's backup restored.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(_ *cobra.Command, _ []string) error {
	if historyDiff {
		return runHistoryDiff()
	}

	entries, err := log.Recent(sess.Dir(), historyLimit)
	if err != nil {
		return PrintJSONError(fmt.Errorf("read audit log: %w", err))
	}
	if JSON() {
		return PrintJSON(entries)
	}
	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = "failed: " + e.Error
		}
		target := ""
		if e.RangeStart != 0 || e.RangeEnd != 0 {
			target = fmt.Sprintf("  %s-%s",
				format.Micros(e.RangeStart-sess.Datum()),
				format.Micros(e.RangeEnd-sess.Datum()))
		}
		fmt.Fprintf(out, "%s  %-18s  %-12s%s  %s\n",
			time.Unix(e.Start, 0).Format("2006-01-02 15:04"),
			e.Source, e.Author, target, status)
	}
	return nil
}

// runHistoryDiff renders original-vs-current, where "original" restores
// every crop gap's backed-up events.
func runHistoryDiff() error {
	slots := make([]session.Slot, 0, sess.Timeline.Len())
	for i := 0; i < sess.Timeline.Len(); i++ {
		s, _ := sess.Timeline.Slot(i)
		slots = append(slots, s)
	}
	for _, g := range sess.Gaps.Crops() {
		slots = append(slots, g.Backup...)
	}
	original := session.FromSlots(slots)

	// Render the original against an unfolded mapper so both sides use
	// comparable positions.
	var before, after strings.Builder
	origMapper := timemap.New(sess.Gaps, sess.Datum())
	if err := format.Events(&before, original, origMapper); err != nil {
		return err
	}
	if err := format.Events(&after, sess.Timeline, sess.Mapper); err != nil {
		return err
	}

	r := diff.Compute(before.String(), after.String(), "original", "current")
	colour := term.IsTerminal(int(os.Stdout.Fd())) && !JSON()
	if JSON() {
		return PrintJSON(r)
	}
	fmt.Fprint(out, r.Format(colour))
	return nil
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "Maximum entries to show")
	historyCmd.Flags().BoolVar(&historyDiff, "diff", false, "Diff current event list against the original")
	rootCmd.AddCommand(historyCmd)
}
