// tools_kinds.go implements MCP tools for the kind registry.
//
// Kinds and their capabilities are what rules resolve against, so LLMs
// configuring rules need these tools to see what names are available.

package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/relate-io/relate/internal/log"
	"github.com/relate-io/relate/internal/store"
)

// kindPut handles relate_kind_put tool calls.
func (h *handlers) kindPut(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil //nolint:nilerr
	}
	title := getString(req, "title", "")
	caps := getStrings(req, "capabilities")

	err = h.svc.PutKind(ctx, name, title, caps)

	log.Event("mcp:kind_put", "put").Author("mcp").
		Detail("kind", name).
		Detail("capabilities", strings.Join(caps, ",")).
		Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{"name": name, "capabilities": caps})
}

// kindList handles relate_kind_list tool calls.
func (h *handlers) kindList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	kinds, err := h.svc.ListKinds(ctx)

	log.Event("mcp:kind_list", "list").Author("mcp").Detail("count", len(kinds)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	js := make([]store.KindJSON, len(kinds))
	for i, k := range kinds {
		js[i] = k.ToJSON()
	}
	return jsonResult(js)
}

// kindRemove handles relate_kind_remove tool calls.
func (h *handlers) kindRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil //nolint:nilerr
	}

	err = h.svc.RemoveKind(ctx, name)

	log.Event("mcp:kind_remove", "remove").Author("mcp").Detail("kind", name).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]string{"name": name, "status": "removed"})
}
