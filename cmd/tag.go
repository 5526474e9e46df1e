/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// tag.go implements the "revu tag" command group for per-event tags.
//
// Tags are non-destructive side data: they travel with their event
// through inserts, deletes, and crop undo, and never enter the edit
// history.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/jpl-au/revu/internal/log"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage event tags",
	Long:  `Attach, detach, and list tags on timeline events.`,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <index> <tag>",
	Short: "Tag an event",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return PrintJSONError(fmt.Errorf("invalid event index: %s", args[0]))
		}
		err = sess.Tag(i, args[1])
		log.Event("timeline:tag", "tag").Author(Author()).EventIndex(i).Detail("tag", args[1]).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(out, "tagged event %d with %s\n", i, args[1])
		return nil
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <index> <tag>",
	Short: "Untag an event",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return PrintJSONError(fmt.Errorf("invalid event index: %s", args[0]))
		}
		err = sess.Untag(i, args[1])
		log.Event("timeline:tag", "untag").Author(Author()).EventIndex(i).Detail("tag", args[1]).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(out, "untagged event %d\n", i)
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list [index]",
	Short: "List tags",
	Long:  `List the session's tag vocabulary, or one event's tags when an index is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var tags []string
		if len(args) == 1 {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return PrintJSONError(fmt.Errorf("invalid event index: %s", args[0]))
			}
			tags = sess.Timeline.Tags(i)
		} else {
			tags = sess.CustomTags()
		}
		log.Event("timeline:tag", "list").Author(Author()).ResultCount(len(tags)).Write(nil)
		if JSON() {
			return PrintJSON(tags)
		}
		for _, t := range tags {
			fmt.Fprintln(out, t)
		}
		return nil
	},
}

func init() {
	tagCmd.AddCommand(tagAddCmd, tagRmCmd, tagListCmd)
	rootCmd.AddCommand(tagCmd)
}
