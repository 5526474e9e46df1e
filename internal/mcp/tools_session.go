// tools_session.go implements the read-only MCP tools: session summary
// and event listing. These mirror the CLI's info and events commands but
// return structured JSON for LLM consumption rather than aligned text.

package mcp

import (
	"context"
	"slices"

	"github.com/jpl-au/revu/internal/format"
	"github.com/jpl-au/revu/internal/log"
	"github.com/jpl-au/revu/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// sessionInfo handles revu_session_info tool calls.
func (h *handlers) sessionInfo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author := getString(req, "author", "mcp")
	log.Event("mcp:info", "info").Author(author).Write(nil)
	return jsonResult(h.sess.Info())
}

// eventEntry is the wire shape for a listed event. Playback is the
// position in folded playback seconds; Index is the raw timeline index
// so filtered listings stay addressable by later tool calls.
type eventEntry struct {
	Index     int      `json:"index"`
	Playback  string   `json:"playback"`
	Timestamp int64    `json:"timestamp"`
	Source    string   `json:"source"`
	Kind      string   `json:"kind"`
	Tags      []string `json:"tags,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// eventsList handles revu_events_list tool calls.
func (h *handlers) eventsList(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := getString(req, "source", "")
	kind := getString(req, "kind", "")
	tag := getString(req, "tag", "")
	author := getString(req, "author", "mcp")

	tl := h.sess.Timeline
	view := tl.ApplyFilters(func(e session.Event) bool {
		if source != "" && string(e.Source) != source {
			return false
		}
		if kind != "" && e.Kind != kind {
			return false
		}
		if tag != "" && !slices.Contains(tl.Tags(e.OriginalIndex), tag) {
			return false
		}
		return true
	})

	entries := make([]eventEntry, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		e, _ := view.Event(i)
		raw := view.RawIndex(i)
		entries = append(entries, eventEntry{
			Index:     raw,
			Playback:  format.Playback(h.sess.Mapper.EventTimeToPlaybackTime(e.Timestamp)),
			Timestamp: e.Timestamp,
			Source:    string(e.Source),
			Kind:      e.Kind,
			Tags:      tl.Tags(raw),
			Note:      string(tl.Note(raw)),
		})
	}

	log.Event("mcp:events", "list").Author(author).ResultCount(len(entries)).Write(nil)
	return jsonResult(entries)
}
