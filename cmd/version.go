/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// version.go implements the "revu version" command.

package cmd

import (
	"fmt"

	"github.com/jpl-au/revu/internal/version"
	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		info := version.Get()
		if JSON() {
			return PrintJSON(info)
		}
		if versionShort {
			fmt.Fprintln(out, version.Short())
			return nil
		}
		fmt.Fprint(out, info.String())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print just the version tag")
	rootCmd.AddCommand(versionCmd)
}
