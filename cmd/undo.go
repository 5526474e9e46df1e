/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// undo.go implements the "revu undo" and "revu redo" commands.
//
// The undo stack lives in the process, so these are most useful under
// "revu serve" where one session stays open across many edits. In a
// one-shot CLI run the stack starts empty; persisted crops are reversed
// with "revu crop --remove" instead, which works from the backup stored
// inside the gap.

package cmd

import (
	"fmt"

	"github.com/jpl-au/revu/internal/format"
	"github.com/jpl-au/revu/internal/log"
	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Reverse the most recent edit",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if !sess.History.CanUndo() {
			fmt.Fprintln(out, "nothing to undo")
			return nil
		}
		err := sess.Undo()
		log.Event("timeline:undo", "undo").Author(Author()).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintln(out, "undone")
		return nil
	},
}

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Re-apply the most recently undone edit",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if !sess.History.CanRedo() {
			fmt.Fprintln(out, "nothing to redo")
			return nil
		}
		err := sess.Redo()
		log.Event("timeline:redo", "redo").Author(Author()).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := sess.Save(); err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintln(out, "redone")
		return nil
	},
}

var undoStackCmd = &cobra.Command{
	Use:   "stack",
	Short: "Show the undo stack",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		names := sess.History.UndoNames()
		if JSON() {
			return PrintJSON(names)
		}
		return format.UndoStack(out, names)
	},
}

func init() {
	undoCmd.AddCommand(undoStackCmd)
	rootCmd.AddCommand(undoCmd, redoCmd)
}
