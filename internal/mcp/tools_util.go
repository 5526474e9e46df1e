// tools_util.go provides helper functions for MCP tool parameter extraction.
//
// Design: We use permissive extraction (return default on error) rather than
// strict validation because MCP tools should be forgiving - an LLM omitting
// an optional parameter shouldn't cause cryptic errors. Required parameters
// are still validated by the individual handlers.

package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// getString extracts a string parameter, returning the provided default if
// the parameter is missing or not a string.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// getInt extracts an integer parameter. JSON numbers decode as float64, so
// the raw argument map is asserted to float64 first and then converted.
func getInt(req mcp.CallToolRequest, name string, def int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// hasArg reports whether the parameter was supplied at all, letting handlers
// distinguish "omitted" from a zero value.
func hasArg(req mcp.CallToolRequest, name string) bool {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return false
	}
	_, ok = args[name]
	return ok
}

// jsonResult serialises any value as pretty-printed JSON and wraps it in an
// MCP text result. LLMs parse structured output more reliably when it is
// formatted for readability, so the token cost of indentation is worthwhile.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
