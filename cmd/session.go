/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// session.go handles lazy session loading shared by all commands.
//
// The session is opened once in PersistentPreRunE and held in a package
// variable; command files use sess directly. Configuration feeds the
// components' tunables, and ffmpeg is wired in as the media compositor.

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jpl-au/revu/internal/config"
	"github.com/jpl-au/revu/internal/duration"
	"github.com/jpl-au/revu/internal/resync"
	"github.com/jpl-au/revu/internal/review"
)

var sess *review.Session

// openSession loads the session directory into sess. Idempotent.
func openSession() error {
	if sess != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s, err := review.Open(SessionDir(), review.Options{
		Compositor:    resync.FFmpegCompositor{},
		DurationOf:    resync.ProbeDuration,
		MarkerWidth:   cfg.MarkerWidth(),
		HistoryLimit:  cfg.HistoryLimit(),
		SuppressDelay: time.Duration(cfg.SuppressMs()) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	sess = s
	return nil
}

// eventTime parses a playback position argument and converts it to
// event time against the open session's mapper.
func eventTime(arg string) (int64, error) {
	secs, err := duration.Seconds(arg)
	if err != nil {
		return 0, err
	}
	return sess.Mapper.PlaybackTimeToEventTime(secs), nil
}

// confirm prompts for y/N unless --force is set. Non-interactive runs
// without --force refuse rather than guessing.
func confirm(prompt string) bool {
	if force {
		return true
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	r := bufio.NewReader(os.Stdin)
	line, err := r.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
