// tools_refs.go implements MCP tools for reference management.
//
// These are the tools the rest of the server exists to support: creating,
// listing, removing, and re-validating references, plus the candidates
// query that tells an LLM what a ruleset will accept before it tries.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/relate-io/relate/internal/log"
	"github.com/relate-io/relate/internal/store"
)

// refAdd handles relate_ref_add tool calls.
//
// Validation failures come back as tool errors carrying the joined
// messages from every failing rule. They name the ruleset title and the
// rejected kind, so the LLM can explain the refusal or consult
// relate_candidates instead of retrying blindly.
func (h *handlers) refAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError("source is required"), nil //nolint:nilerr
	}
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError("target is required"), nil //nolint:nilerr
	}
	rulesetName := getString(req, "ruleset", "")

	src, err := h.svc.Resolve(ctx, source, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tgt, err := h.svc.Resolve(ctx, target, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := h.svc.Connect(ctx, rulesetName, src.Path, tgt.Path)

	log.Event("mcp:ref_add", "connect").Author("mcp").
		Ruleset(rulesetName).
		Path(src.Path).
		Target(tgt.Path).
		Detail("id", id).
		Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]string{
		"id":     id,
		"source": src.Path,
		"target": tgt.Path,
	})
}

// refRemove handles relate_ref_remove tool calls.
func (h *handlers) refRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}

	err = h.svc.Disconnect(ctx, id)

	log.Event("mcp:ref_remove", "disconnect").Author("mcp").Detail("id", id).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]string{"id": id, "status": "removed"})
}

// refList handles relate_ref_list tool calls.
func (h *handlers) refList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	path := getString(req, "path", "")
	rulesetName := getString(req, "ruleset", "")

	var refs []store.Reference
	var err error
	switch {
	case path != "":
		var obj *store.Object
		obj, err = h.svc.Resolve(ctx, path, false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		refs, err = h.svc.ListReferences(ctx, obj.Path, rulesetName)
	case rulesetName != "":
		refs, err = h.svc.ListByRuleset(ctx, rulesetName)
	default:
		var sets []store.RulesetInfo
		sets, err = h.svc.ListRulesets(ctx)
		if err == nil {
			for _, rs := range sets {
				var batch []store.Reference
				batch, err = h.svc.ListByRuleset(ctx, rs.Name)
				if err != nil {
					break
				}
				refs = append(refs, batch...)
			}
		}
	}

	log.Event("mcp:ref_list", "list").Author("mcp").Ruleset(rulesetName).Path(path).Detail("count", len(refs)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	js := make([]store.ReferenceJSON, len(refs))
	for i, r := range refs {
		js[i] = r.ToJSON()
	}
	return jsonResult(js)
}

// candidates handles relate_candidates tool calls.
func (h *handlers) candidates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError("source is required"), nil //nolint:nilerr
	}
	rulesetName := getString(req, "ruleset", "")

	src, err := h.svc.Resolve(ctx, source, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cands, err := h.svc.Candidates(ctx, rulesetName, src.Path)

	log.Event("mcp:candidates", "candidates").Author("mcp").Ruleset(rulesetName).Path(src.Path).Detail("count", len(cands)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type candidateJSON struct {
		Path  string `json:"path"`
		Kind  string `json:"kind"`
		Title string `json:"title,omitempty"`
	}
	js := make([]candidateJSON, len(cands))
	for i, cand := range cands {
		js[i] = candidateJSON{Path: cand.Path, Kind: cand.Kind, Title: cand.Title}
	}
	return jsonResult(js)
}

// check handles relate_check tool calls.
func (h *handlers) check(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	rulesetName := getString(req, "ruleset", "")
	path := getString(req, "path", "")

	results, err := h.svc.Check(ctx, rulesetName, path)

	log.Event("mcp:check", "check").Author("mcp").Ruleset(rulesetName).Path(path).Detail("failures", len(results)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type failure struct {
		Reference store.ReferenceJSON `json:"reference"`
		Error     string              `json:"error"`
	}
	failures := make([]failure, len(results))
	for i, res := range results {
		failures[i] = failure{Reference: res.Reference.ToJSON(), Error: res.Err.Error()}
	}
	return jsonResult(map[string]any{
		"failures": failures,
		"valid":    len(failures) == 0,
	})
}
