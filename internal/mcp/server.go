// Package mcp implements the Model Context Protocol server, exposing revu
// session operations to LLMs. This enables AI assistants to inspect and edit
// a recorded session's timeline through a standardised protocol.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jpl-au/revu/internal/log"
	"github.com/jpl-au/revu/internal/review"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// Serve starts the MCP server over stdio, enabling LLM integration.
// Uses stdio transport for compatibility with Claude Desktop and other
// MCP clients.
//
// Design: one server owns one open session for its whole lifetime. The
// in-process undo stack is only meaningful under serve, where edits
// accumulate in a single process; the CLI equivalent is one stack entry
// per invocation.
func Serve(dir string, opts review.Options) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	sess, err := review.Open(dir, opts)
	if err != nil {
		slog.Error("failed to open session", "dir", dir, "error", err)
		return err
	}
	log.SetSession(sess.Dir())

	h := &handlers{sess: sess}

	s := server.NewMCPServer(
		"revu",
		Version,
		server.WithToolCapabilities(true),
	)

	registerTools(s, h)

	slog.Info("revu MCP server ready", "version", Version, "session", dir, "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// handlers provides MCP request handlers with access to the open session.
type handlers struct {
	sess *review.Session
}

// registerTools exposes revu operations as MCP tools for LLM invocation.
func registerTools(s *server.MCPServer, h *handlers) {
	// Session summary
	s.AddTool(
		mcp.NewTool("revu_session_info",
			mcp.WithDescription("Summarise the open session: event counts, gaps, markers, duration, media files"),
		),
		h.sessionInfo,
	)

	// Event listing
	s.AddTool(
		mcp.NewTool("revu_events_list",
			mcp.WithDescription("List timeline events with playback positions"),
			mcp.WithString("source", mcp.Description("Filter by event source (interaction, focus, system, voiceover, editor)")),
			mcp.WithString("kind", mcp.Description("Filter by event kind (e.g. click, marker, screenshot)")),
			mcp.WithString("tag", mcp.Description("Filter to events carrying this tag")),
		),
		h.eventsList,
	)

	// Crop
	s.AddTool(
		mcp.NewTool("revu_crop",
			mcp.WithDescription("Crop a playback range out of the session: events are removed (with backup), a folded gap is recorded, and media is re-composed"),
			mcp.WithString("from", mcp.Required(), mcp.Description("Range start as playback time (e.g. '1:30' or '90.5')")),
			mcp.WithString("to", mcp.Required(), mcp.Description("Range end as playback time")),
			mcp.WithString("author", mcp.Description("Author attribution")),
		),
		h.cropRange,
	)

	// Cut
	s.AddTool(
		mcp.NewTool("revu_cut",
			mcp.WithDescription("Delete events in a playback range without recording a gap or touching media"),
			mcp.WithString("from", mcp.Required(), mcp.Description("Range start as playback time")),
			mcp.WithString("to", mcp.Required(), mcp.Description("Range end as playback time")),
			mcp.WithNumber("index", mcp.Description("Delete a single event by index instead of a range")),
			mcp.WithString("author", mcp.Description("Author attribution")),
		),
		h.cutRange,
	)

	// Undo / redo
	s.AddTool(
		mcp.NewTool("revu_undo",
			mcp.WithDescription("Reverse the most recent edit in this server's session"),
			mcp.WithString("author", mcp.Description("Author attribution")),
		),
		h.undoEdit,
	)
	s.AddTool(
		mcp.NewTool("revu_redo",
			mcp.WithDescription("Re-apply the most recently undone edit"),
			mcp.WithString("author", mcp.Description("Author attribution")),
		),
		h.redoEdit,
	)

	// Marker add
	s.AddTool(
		mcp.NewTool("revu_marker_add",
			mcp.WithDescription("Add an accessibility marker annotation at a playback position"),
			mcp.WithString("at", mcp.Required(), mcp.Description("Marker start as playback time")),
			mcp.WithString("duration", mcp.Required(), mcp.Description("Marker duration in seconds")),
			mcp.WithString("type", mcp.Description("Marker type (default: note)")),
			mcp.WithString("style", mcp.Description("Marker style")),
			mcp.WithString("text", mcp.Description("Marker text")),
			mcp.WithString("author", mcp.Description("Author attribution")),
		),
		h.markerAdd,
	)

	// Guide
	s.AddTool(
		mcp.NewTool("revu_guide",
			mcp.WithDescription("Get help/guide content for revu commands"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g. 'edits', 'timeline') or empty for the main guide")),
		),
		h.getGuide,
	)
}
