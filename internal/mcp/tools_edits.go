// tools_edits.go implements the destructive-edit MCP tools: crop, cut,
// undo and redo. These mirror the CLI commands but return structured JSON.
//
// Design principles:
//
//  1. Author attribution: edits accept an author parameter so the audit
//     trail distinguishes different LLM agents from human CLI usage.
//
//  2. Error handling: errors return MCP tool error results rather than Go
//     errors, so the LLM receives actionable feedback it can parse and
//     potentially retry instead of a protocol-level failure.
//
//  3. Durability: every successful edit saves the session files before
//     returning, so a crash between tool calls never loses committed work.

package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/revu/internal/duration"
	"github.com/jpl-au/revu/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// playbackRange parses the from/to parameters into event-time microseconds.
func (h *handlers) playbackRange(req mcp.CallToolRequest) (int64, int64, error) {
	from, err := duration.Seconds(getString(req, "from", ""))
	if err != nil {
		return 0, 0, fmt.Errorf("from: %w", err)
	}
	to, err := duration.Seconds(getString(req, "to", ""))
	if err != nil {
		return 0, 0, fmt.Errorf("to: %w", err)
	}
	start := h.sess.Mapper.PlaybackTimeToEventTime(from)
	end := h.sess.Mapper.PlaybackTimeToEventTime(to)
	if end <= start {
		return 0, 0, fmt.Errorf("empty range: %s to %s", getString(req, "from", ""), getString(req, "to", ""))
	}
	return start, end, nil
}

// cropRange handles revu_crop tool calls. The crop is committed to the
// session files and the media re-composition is awaited before returning,
// so the LLM observes a consistent state on the next call.
func (h *handlers) cropRange(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author := getString(req, "author", "mcp")
	start, end, err := h.playbackRange(req)
	if err != nil {
		log.Event("mcp:crop", "crop").Author(author).Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	before := h.sess.Timeline.Len()
	err = h.sess.Crop(start, end)
	l := log.Event("mcp:crop", "crop").Author(author).Range(start, end)
	if err != nil {
		l.Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	h.sess.Media.Wait()

	removed := before - h.sess.Timeline.Len()
	if err := h.sess.Save(); err != nil {
		l.Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	l.ResultCount(removed).Write(nil)

	return jsonResult(map[string]any{
		"removed": removed,
		"start":   start,
		"end":     end,
	})
}

// cutRange handles revu_cut tool calls. Unlike crop, no gap is recorded
// and media files are untouched.
func (h *handlers) cutRange(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author := getString(req, "author", "mcp")
	before := h.sess.Timeline.Len()

	if hasArg(req, "index") {
		i := getInt(req, "index", -1)
		err := h.sess.DeleteEvent(i)
		log.Event("mcp:cut", "cut").Author(author).EventIndex(i).Write(err)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else {
		start, end, err := h.playbackRange(req)
		if err != nil {
			log.Event("mcp:cut", "cut").Author(author).Write(err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		err = h.sess.DeleteRange(start, end)
		log.Event("mcp:cut", "cut").Author(author).Range(start, end).Write(err)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	removed := before - h.sess.Timeline.Len()
	if err := h.sess.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"removed": removed})
}

// undoEdit handles revu_undo tool calls. An empty stack is reported, not
// an error, since the LLM may probe state it cannot otherwise observe.
func (h *handlers) undoEdit(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author := getString(req, "author", "mcp")
	if !h.sess.History.CanUndo() {
		return jsonResult(map[string]any{"undone": false, "reason": "nothing to undo"})
	}
	err := h.sess.Undo()
	log.Event("mcp:undo", "undo").Author(author).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.sess.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"undone": true, "depth": h.sess.History.Depth()})
}

// redoEdit handles revu_redo tool calls.
func (h *handlers) redoEdit(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author := getString(req, "author", "mcp")
	if !h.sess.History.CanRedo() {
		return jsonResult(map[string]any{"redone": false, "reason": "nothing to redo"})
	}
	err := h.sess.Redo()
	log.Event("mcp:redo", "redo").Author(author).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.sess.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"redone": true, "depth": h.sess.History.Depth()})
}
