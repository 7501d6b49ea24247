// tools_objects.go implements MCP tools for catalogue management.
//
// Objects are the endpoints of references. These tools mirror the CLI's
// "object" command group: add, list, search, remove, restore.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/relate-io/relate/internal/log"
	"github.com/relate-io/relate/internal/store"
)

// objectAdd handles relate_object_add tool calls.
func (h *handlers) objectAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil //nolint:nilerr
	}
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("kind is required"), nil //nolint:nilerr
	}
	title := getString(req, "title", "")

	err = h.svc.AddObject(ctx, path, kind, title)

	log.Event("mcp:object_add", "add").Author("mcp").Path(path).Detail("kind", kind).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]string{"path": path, "kind": kind})
}

// objectList handles relate_object_list tool calls.
func (h *handlers) objectList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	prefix := getString(req, "prefix", "")
	deletedOnly := getBool(req, "deleted_only", false)

	objs, err := h.svc.ListObjects(ctx, prefix, deletedOnly, deletedOnly)

	log.Event("mcp:object_list", "list").Author("mcp").Path(prefix).Detail("count", len(objs)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	js := make([]store.ObjectJSON, len(objs))
	for i, o := range objs {
		js[i] = o.ToJSON()
	}
	return jsonResult(js)
}

// objectSearch handles relate_object_search tool calls.
func (h *handlers) objectSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	terms := map[string][]string{}
	if kinds := getStrings(req, "kinds"); len(kinds) > 0 {
		terms["kind"] = kinds
	}
	if paths := getStrings(req, "paths"); len(paths) > 0 {
		terms["path"] = paths
	}
	if titles := getStrings(req, "titles"); len(titles) > 0 {
		terms["title"] = titles
	}
	if len(terms) == 0 {
		return mcp.NewToolResultError("at least one of kinds, paths, titles is required"), nil
	}

	objs, err := h.svc.SearchObjects(ctx, terms)

	log.Event("mcp:object_search", "search").Author("mcp").Detail("count", len(objs)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	js := make([]store.ObjectJSON, len(objs))
	for i, o := range objs {
		js[i] = o.ToJSON()
	}
	return jsonResult(js)
}

// objectRemove handles relate_object_remove tool calls.
func (h *handlers) objectRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil //nolint:nilerr
	}

	obj, err := h.svc.Resolve(ctx, path, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = h.svc.RemoveObject(ctx, obj.Path)

	log.Event("mcp:object_remove", "remove").Author("mcp").Path(obj.Path).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]string{"path": obj.Path, "status": "removed"})
}

// objectRestore handles relate_object_restore tool calls.
func (h *handlers) objectRestore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil //nolint:nilerr
	}

	obj, err := h.svc.Resolve(ctx, path, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = h.svc.RestoreObject(ctx, obj.Path)

	log.Event("mcp:object_restore", "restore").Author("mcp").Path(obj.Path).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]string{"path": obj.Path, "status": "restored"})
}
