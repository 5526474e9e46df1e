/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// note.go implements the "revu note" command group for per-event notes.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/jpl-au/revu/internal/log"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage event notes",
	Long:  `Set, show, and clear free-form notes on timeline events.`,
}

var noteSetCmd = &cobra.Command{
	Use:   "set <index> <text>",
	Short: "Set an event's note",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return PrintJSONError(fmt.Errorf("invalid event index: %s", args[0]))
		}
		err = sess.SetNote(i, []byte(args[1]))
		log.Event("timeline:note", "note").Author(Author()).EventIndex(i).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(out, "noted event %d\n", i)
		return nil
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <index>",
	Short: "Show an event's note",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return PrintJSONError(fmt.Errorf("invalid event index: %s", args[0]))
		}
		note := sess.Timeline.Note(i)
		log.Event("timeline:note", "show").Author(Author()).EventIndex(i).Write(nil)
		if JSON() {
			return PrintJSON(map[string]string{"note": string(note)})
		}
		if len(note) > 0 {
			fmt.Fprintln(out, string(note))
		}
		return nil
	},
}

var noteClearCmd = &cobra.Command{
	Use:   "clear <index>",
	Short: "Clear an event's note",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return PrintJSONError(fmt.Errorf("invalid event index: %s", args[0]))
		}
		err = sess.SetNote(i, nil)
		log.Event("timeline:note", "clear").Author(Author()).EventIndex(i).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(out, "cleared note on event %d\n", i)
		return nil
	},
}

func init() {
	noteCmd.AddCommand(noteSetCmd, noteShowCmd, noteClearCmd)
	rootCmd.AddCommand(noteCmd)
}
