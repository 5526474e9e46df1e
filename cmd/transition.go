/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// transition.go implements the "revu transition" command group.
//
// Transitions expand the visual timeline at a point (a title card, a
// fade) with no corresponding recorded range; playback time is
// unaffected. Add/edit/rm go through the undoable edit history.

package cmd

import (
	"fmt"

	"github.com/jpl-au/revu/internal/duration"
	"github.com/jpl-au/revu/internal/format"
	"github.com/jpl-au/revu/internal/gaps"
	"github.com/jpl-au/revu/internal/log"
	"github.com/spf13/cobra"
)

var (
	transitionType  string
	transitionStyle string
	transitionDur   string
)

var transitionCmd = &cobra.Command{
	Use:   "transition",
	Short: "Manage timeline transitions",
	Long:  `Add, edit, remove, and list inserted transitions (title cards, fades).`,
}

var transitionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transitions",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		trs := sess.Gaps.Transitions()
		log.Event("transition:list", "list").Author(Author()).ResultCount(len(trs)).Write(nil)
		if JSON() {
			return PrintJSON(trs)
		}
		return format.Transitions(out, trs, sess.Mapper)
	},
}

var transitionAddCmd = &cobra.Command{
	Use:   "add <at> <duration>",
	Short: "Add a transition",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		at, err := eventTime(args[0])
		if err != nil {
			return PrintJSONError(err)
		}
		dur, err := duration.Parse(args[1])
		if err != nil {
			return PrintJSONError(err)
		}

		tr, err := sess.AddTransition(gaps.Transition{
			Timestamp: at,
			Duration:  dur.Microseconds(),
			Type:      transitionType,
			Style:     transitionStyle,
		})
		log.Event("transition:add", "transition").
			Author(Author()).
			Range(at, at+dur.Microseconds()).
			Detail("type", transitionType).
			Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(tr)
		}
		fmt.Fprintf(out, "added transition %s\n", tr.ID)
		return nil
	},
}

var transitionEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a transition",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		var cur gaps.Transition
		found := false
		for _, tr := range sess.Gaps.Transitions() {
			if tr.ID == args[0] {
				cur, found = tr, true
				break
			}
		}
		if !found {
			return PrintJSONError(fmt.Errorf("transition %s: %w", args[0], gaps.ErrNotFound))
		}
		if c.Flags().Changed("type") {
			cur.Type = transitionType
		}
		if c.Flags().Changed("style") {
			cur.Style = transitionStyle
		}
		if c.Flags().Changed("duration") {
			dur, err := duration.Parse(transitionDur)
			if err != nil {
				return PrintJSONError(err)
			}
			cur.Duration = dur.Microseconds()
		}

		err := sess.EditTransition(cur)
		log.Event("transition:edit", "transition").Author(Author()).Detail("id", cur.ID).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(out, "edited transition %s\n", cur.ID)
		return nil
	},
}

var transitionRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a transition",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		err := sess.DeleteTransition(args[0])
		log.Event("transition:rm", "transition").Author(Author()).Detail("id", args[0]).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(out, "removed transition %s\n", args[0])
		return nil
	},
}

func init() {
	transitionAddCmd.Flags().StringVar(&transitionType, "type", "fade", "Transition type")
	transitionAddCmd.Flags().StringVar(&transitionStyle, "style", "", "Transition style")
	transitionEditCmd.Flags().StringVar(&transitionType, "type", "", "New transition type")
	transitionEditCmd.Flags().StringVar(&transitionStyle, "style", "", "New transition style")
	transitionEditCmd.Flags().StringVar(&transitionDur, "duration", "", "New transition duration")

	transitionCmd.AddCommand(transitionListCmd, transitionAddCmd, transitionEditCmd, transitionRmCmd)
	rootCmd.AddCommand(transitionCmd)
}
