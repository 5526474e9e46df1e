/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// resync.go implements the "revu resync" command: re-running the media
// composition against the current crop list, or restoring originals.
//
// Useful after a compose failure left the media divergent from the
// logical timeline: the crop is still recorded, so a retry can
// reconverge without repeating the edit.

package cmd

import (
	"fmt"
	"time"

	"github.com/jpl-au/revu/internal/bus"
	"github.com/jpl-au/revu/internal/log"
	"github.com/jpl-au/revu/internal/progress"
	"github.com/spf13/cobra"
)

var resyncRestore bool

var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Re-compose media against the current crops",
	Long: `Re-run the media composition so the video and narration audio match
the logical crop list. With --restore, put the pristine backups back
instead (the backups are deleted once no crops remain).`,
	Args: cobra.NoArgs,
	RunE: runResync,
}

func runResync(_ *cobra.Command, _ []string) error {
	if resyncRestore {
		err := sess.Media.RestoreOriginal()
		log.Event("media:resync", "restore").Author(Author()).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintln(out, "restored original media")
		return nil
	}

	if len(sess.MediaFileList()) == 0 {
		return PrintJSONError(fmt.Errorf("no media files in %s", sess.Dir()))
	}

	// Collect per-file outcomes off the bus
	var failures []string
	sess.Bus.Subscribe(bus.HandlerFunc(func(e bus.Event) {
		if d, ok := e.(bus.MediaDiverged); ok {
			failures = append(failures, fmt.Sprintf("%s: %s", d.File, d.Reason))
		}
	}))

	err := sess.Media.CommitCrop()
	log.Event("media:resync", "resync").Author(Author()).Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	sp := progress.NewSpinner("re-composing media")
	sp.Start()
	done := make(chan struct{})
	go func() { sess.Media.Wait(); close(done) }()
	for {
		select {
		case <-done:
			sp.Stop()
			if len(failures) > 0 {
				for _, f := range failures {
					fmt.Fprintln(out, "diverged:", f)
				}
				return PrintJSONError(fmt.Errorf("%d file(s) failed to re-compose", len(failures)))
			}
			if JSON() {
				return PrintJSON(map[string]any{"files": sess.MediaFileList()})
			}
			fmt.Fprintln(out, "media re-composed")
			return nil
		case <-time.After(100 * time.Millisecond):
			sp.Tick()
		}
	}
}

func init() {
	resyncCmd.Flags().BoolVar(&resyncRestore, "restore", false, "Restore pristine media from backups")
	rootCmd.AddCommand(resyncCmd)
}
