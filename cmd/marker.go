/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// marker.go implements the "revu marker" command group for accessibility
// markers: time-range annotations overlaid on the playback timeline.

package cmd

import (
	"fmt"

	"github.com/jpl-au/revu/internal/duration"
	"github.com/jpl-au/revu/internal/format"
	"github.com/jpl-au/revu/internal/log"
	"github.com/jpl-au/revu/internal/session"
	"github.com/spf13/cobra"
)

var (
	markerType  string
	markerStyle string
	markerText  string
)

var markerCmd = &cobra.Command{
	Use:   "marker",
	Short: "Manage accessibility markers",
	Long:  `Add, edit, remove, and list time-range markers on the session timeline.`,
}

var markerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List markers",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		markers := sess.Markers.All()
		log.Event("marker:list", "list").Author(Author()).ResultCount(len(markers)).Write(nil)
		if JSON() {
			return PrintJSON(markers)
		}
		return format.Markers(out, markers, sess.Mapper)
	},
}

var markerAddCmd = &cobra.Command{
	Use:   "add <start> <duration>",
	Short: "Add a marker",
	Long:  `Add a marker starting at a playback position for the given duration.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		start, err := eventTime(args[0])
		if err != nil {
			return PrintJSONError(err)
		}
		dur, err := duration.Parse(args[1])
		if err != nil {
			return PrintJSONError(err)
		}

		m, err := sess.AddMarker(session.Annotation{
			StartTime: start,
			Duration:  dur.Microseconds(),
			Type:      markerType,
			Style:     markerStyle,
			Text:      markerText,
		})
		log.Event("marker:add", "marker").
			Author(Author()).
			Range(start, start+dur.Microseconds()).
			Detail("type", markerType).
			Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(m)
		}
		fmt.Fprintf(out, "added marker %s\n", m.ID)
		return nil
	},
}

var markerEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a marker",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		m, ok := sess.Markers.Get(args[0])
		if !ok {
			return PrintJSONError(fmt.Errorf("marker %s: %w", args[0], session.ErrNotFound))
		}
		if c.Flags().Changed("type") {
			m.Type = markerType
		}
		if c.Flags().Changed("style") {
			m.Style = markerStyle
		}
		if c.Flags().Changed("text") {
			m.Text = markerText
		}

		err := sess.EditMarker(m)
		log.Event("marker:edit", "marker").Author(Author()).Detail("id", m.ID).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(out, "edited marker %s\n", m.ID)
		return nil
	},
}

var markerRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a marker",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		err := sess.DeleteMarker(args[0])
		log.Event("marker:rm", "marker").Author(Author()).Detail("id", args[0]).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(out, "removed marker %s\n", args[0])
		return nil
	},
}

func init() {
	markerAddCmd.Flags().StringVar(&markerType, "type", "highlight", "Marker type")
	markerAddCmd.Flags().StringVar(&markerStyle, "style", "", "Marker style")
	markerAddCmd.Flags().StringVar(&markerText, "text", "", "Marker text")
	markerEditCmd.Flags().StringVar(&markerType, "type", "", "New marker type")
	markerEditCmd.Flags().StringVar(&markerStyle, "style", "", "New marker style")
	markerEditCmd.Flags().StringVar(&markerText, "text", "", "New marker text")

	markerCmd.AddCommand(markerListCmd, markerAddCmd, markerEditCmd, markerRmCmd)
	rootCmd.AddCommand(markerCmd)
}
