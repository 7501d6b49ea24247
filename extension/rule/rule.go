// Package rule provides the rule extension for relate.
// It registers the ruleset and rule commands for constraint configuration.
//
// Rulesets are named relation types; rules are the ordered constraints
// attached to them. Configuration here changes what future "relate ref add"
// calls accept. Existing references are never modified implicitly; run
// "relate ref check" after tightening rules to surface fallout.
package rule

import (
	"fmt"
	"strings"

	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/service"
	"github.com/relate-io/relate/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the rule extension.
type Extension struct {
	svc service.Service
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "rule" - this extension manages rulesets and their rules.
func (e *Extension) Name() string { return "rule" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the ruleset and rule commands with their subcommands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newRulesetCmd(),
		e.newRuleCmd(),
	}
}

// MCPTools returns nil - rule MCP tools are provided by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// renderRule serialises a rule config for display and diffing. Field order
// is fixed so diffs between old and new configs stay line-aligned.
func renderRule(r *store.RuleConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "variant: %s\n", r.Variant)
	fmt.Fprintf(&b, "position: %d\n", r.Position)
	fmt.Fprintf(&b, "sources: %s\n", renderAllowList(r.AllowedSources))
	fmt.Fprintf(&b, "targets: %s\n", renderAllowList(r.AllowedTargets))
	return b.String()
}

// renderAllowList renders an allow-list; an empty list means unrestricted.
func renderAllowList(vals []string) string {
	if len(vals) == 0 {
		return "*"
	}
	return strings.Join(vals, ", ")
}
