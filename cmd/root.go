/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// Design: PersistentPreRunE handles session loading lazily - only
// commands that need a session trigger the open. This enables bootstrap
// commands (guide, config, version) to work without a session directory.
// The noSessionCommands map controls which commands skip loading.

package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/jpl-au/revu/internal/log"
	"github.com/spf13/cobra"
)

// noSessionCommands work without an open session directory.
var noSessionCommands = map[string]bool{
	"guide":      true,
	"config":     true,
	"version":    true,
	"serve":      true,
	"help":       true,
	"completion": true,
}

var rootCmd = &cobra.Command{
	Use:   "revu",
	Short: "Review and edit recorded interaction sessions",
	Long:  `A session review tool: inspect the recorded event timeline, crop and cut ranges, annotate with markers and tags, and keep the session media in sync with every edit.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		// Detect author if not explicitly set
		if author == "" {
			author = detectAuthor()
		}

		if !noSessionCommands[topLevelCmdName(cmd)] {
			if err := openSession(); err != nil {
				if JSON() {
					_ = PrintJSON(map[string]string{"error": err.Error()})
					cmd.SilenceErrors = true
					cmd.SilenceUsage = true
				}
				return err
			}
			log.SetSession(sess.Dir())
		}

		return nil
	},
}

// topLevelCmdName returns the name of the top-level command (direct child of root).
// For "revu marker add 1:30 highlight", returns "marker".
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle.
// Opens audit logging, executes the command, and exits 1 on error.
func Execute() {
	// Initialise audit logger (warn if it fails, but continue)
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
