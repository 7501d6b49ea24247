// tools_rules.go implements MCP tools for ruleset and rule configuration.
//
// Rule changes affect what future relate_ref_add calls accept but never
// modify existing references; relate_check surfaces the fallout.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/relate-io/relate/internal/log"
	"github.com/relate-io/relate/internal/store"
)

// rulesetPut handles relate_ruleset_put tool calls.
func (h *handlers) rulesetPut(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil //nolint:nilerr
	}
	title := getString(req, "title", "")

	err = h.svc.PutRuleset(ctx, name, title)

	log.Event("mcp:ruleset_put", "put").Author("mcp").Ruleset(name).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]string{"name": name, "title": title})
}

// rulesetList handles relate_ruleset_list tool calls.
func (h *handlers) rulesetList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	sets, err := h.svc.ListRulesets(ctx)

	log.Event("mcp:ruleset_list", "list").Author("mcp").Detail("count", len(sets)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	js := make([]store.RulesetJSON, len(sets))
	for i, rs := range sets {
		js[i] = rs.ToJSON()
	}
	return jsonResult(js)
}

// rulesetRemove handles relate_ruleset_remove tool calls.
func (h *handlers) rulesetRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil //nolint:nilerr
	}

	count, err := h.svc.CountReferences(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = h.svc.RemoveRuleset(ctx, name)

	log.Event("mcp:ruleset_remove", "remove").Author("mcp").Ruleset(name).Detail("references", count).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{"name": name, "references_removed": count})
}

// rulePut handles relate_rule_put tool calls.
func (h *handlers) rulePut(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil //nolint:nilerr
	}
	variant, err := req.RequireString("variant")
	if err != nil {
		return mcp.NewToolResultError("variant is required"), nil //nolint:nilerr
	}
	if variant != store.VariantKind && variant != store.VariantCapability {
		return mcp.NewToolResultError("variant must be 'kind' or 'capability'"), nil
	}

	cfg := store.RuleConfig{
		Ruleset:        getString(req, "ruleset", ""),
		Name:           name,
		Position:       getInt(req, "position", 0),
		Variant:        variant,
		AllowedSources: getStrings(req, "sources"),
		AllowedTargets: getStrings(req, "targets"),
	}

	err = h.svc.PutRule(ctx, cfg)

	log.Event("mcp:rule_put", "put").Author("mcp").
		Ruleset(cfg.Ruleset).
		Detail("rule", name).
		Detail("variant", variant).
		Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(cfg.ToJSON())
}

// ruleList handles relate_rule_list tool calls.
func (h *handlers) ruleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	rulesetName := getString(req, "ruleset", "")

	rules, err := h.svc.Rules(ctx, rulesetName)

	log.Event("mcp:rule_list", "list").Author("mcp").Ruleset(rulesetName).Detail("count", len(rules)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	js := make([]store.RuleJSON, len(rules))
	for i, r := range rules {
		js[i] = r.ToJSON()
	}
	return jsonResult(js)
}

// ruleRemove handles relate_rule_remove tool calls.
func (h *handlers) ruleRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil //nolint:nilerr
	}
	rulesetName := getString(req, "ruleset", "")

	err = h.svc.RemoveRule(ctx, rulesetName, name)

	log.Event("mcp:rule_remove", "remove").Author("mcp").Ruleset(rulesetName).Detail("rule", name).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]string{"name": name, "status": "removed"})
}
