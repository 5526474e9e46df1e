// tools_guide.go exposes the embedded documentation over MCP, so an LLM
// can load usage guidance into context without filesystem access.

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/jpl-au/revu/guide"
	"github.com/mark3labs/mcp-go/mcp"
)

// getGuide handles revu_guide tool calls. Raw markdown is returned; the
// client renders it however suits its context window.
func (h *handlers) getGuide(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := getString(req, "topic", "")
	content, err := guide.Get(topic)
	if err != nil {
		available, listErr := guide.List()
		if listErr != nil {
			return mcp.NewToolResultError(listErr.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("guide %q not found. Available: %s", topic, strings.Join(available, ", "))), nil
	}
	return mcp.NewToolResultText(content), nil
}
