/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// info.go implements the "revu info" command summarising the session.

package cmd

import (
	"fmt"

	"github.com/jpl-au/revu/internal/format"
	"github.com/jpl-au/revu/internal/log"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarise the session",
	Long:  `Show event, gap, transition, and marker counts plus the effective playback duration after folding.`,
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func runInfo(_ *cobra.Command, _ []string) error {
	info := sess.Info()
	log.Event("session:info", "info").Author(Author()).Write(nil)

	if JSON() {
		return PrintJSON(info)
	}

	fmt.Fprintf(out, "Session:     %s\n", info.Dir)
	if info.Status != "" {
		fmt.Fprintf(out, "Status:      %s\n", info.Status)
	}
	fmt.Fprintf(out, "Events:      %d\n", info.Events)
	fmt.Fprintf(out, "Pauses:      %d\n", info.Pauses)
	fmt.Fprintf(out, "Crops:       %d\n", info.Crops)
	fmt.Fprintf(out, "Transitions: %d\n", info.Transitions)
	fmt.Fprintf(out, "Markers:     %d\n", info.Markers)
	fmt.Fprintf(out, "Duration:    %s (%s effective)\n",
		format.Playback(info.PlaybackDuration), format.Micros(info.EffectiveDuration))
	for _, f := range info.MediaFiles {
		fmt.Fprintf(out, "Media:       %s\n", f)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
