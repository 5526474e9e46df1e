// tools_annotations.go implements the accessibility marker MCP tool.

package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/revu/internal/duration"
	"github.com/jpl-au/revu/internal/log"
	"github.com/jpl-au/revu/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// markerAdd handles revu_marker_add tool calls. The marker's start is
// given in playback time and converted to event time, matching the CLI.
func (h *handlers) markerAdd(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author := getString(req, "author", "mcp")

	at, err := duration.Seconds(getString(req, "at", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("at: %v", err)), nil
	}
	dur, err := duration.Seconds(getString(req, "duration", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("duration: %v", err)), nil
	}

	a := session.Annotation{
		StartTime: h.sess.Mapper.PlaybackTimeToEventTime(at),
		Duration:  int64(dur * 1e6),
		Type:      getString(req, "type", "note"),
		Style:     getString(req, "style", ""),
		Text:      getString(req, "text", ""),
	}

	added, err := h.sess.AddMarker(a)
	log.Event("mcp:marker", "add").Author(author).Range(a.StartTime, a.EndTime()).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.sess.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(added)
}
