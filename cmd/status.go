/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// status.go implements the "revu status" command for the session's
// review status string (e.g. "recorded", "in-review", "approved").

package cmd

import (
	"fmt"

	"github.com/jpl-au/revu/internal/log"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [value]",
	Short: "Show or set the session's review status",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 0 {
			log.Event("session:status", "show").Author(Author()).Write(nil)
			if JSON() {
				return PrintJSON(map[string]string{"status": sess.Status()})
			}
			if sess.Status() != "" {
				fmt.Fprintln(out, sess.Status())
			}
			return nil
		}

		sess.SetStatus(args[0])
		err := sess.Save()
		log.Event("session:status", "set").Author(Author()).Detail("status", args[0]).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(out, "status: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
