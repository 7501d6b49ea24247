// tools_stats.go implements the MCP tool for database statistics.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/relate-io/relate/internal/log"
)

// stats handles relate_stats tool calls.
func (h *handlers) stats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	s, err := h.svc.Stats(ctx)

	log.Event("mcp:stats", "stats").Author("mcp").Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]int64{
		"objects":            s.Objects,
		"deleted_objects":    s.DeletedObjects,
		"kinds":              s.Kinds,
		"capabilities":       s.Capabilities,
		"rulesets":           s.Rulesets,
		"rules":              s.Rules,
		"references":         s.References,
		"deleted_references": s.DeletedReferences,
	})
}
