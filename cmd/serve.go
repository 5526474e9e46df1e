/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// serve.go implements the "revu serve" command: an MCP server over stdio.
//
// Design: serve bypasses the shared lazy session loading because the MCP
// server owns its session for the whole process lifetime; opening it
// twice would give the server and the CLI divergent undo stacks.

package cmd

import (
	"time"

	"github.com/jpl-au/revu/internal/config"
	"github.com/jpl-au/revu/internal/mcp"
	"github.com/jpl-au/revu/internal/resync"
	"github.com/jpl-au/revu/internal/review"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session over MCP (stdio)",
	Long: `Start a Model Context Protocol server exposing the session to LLM
clients over stdio. The session stays open for the server's lifetime, so
edits accumulate on one undo stack and revu_undo reverses them in order.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return mcp.Serve(SessionDir(), review.Options{
			Compositor:    resync.FFmpegCompositor{},
			DurationOf:    resync.ProbeDuration,
			MarkerWidth:   cfg.MarkerWidth(),
			HistoryLimit:  cfg.HistoryLimit(),
			SuppressDelay: time.Duration(cfg.SuppressMs()) * time.Millisecond,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
