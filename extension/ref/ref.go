// Package ref provides the reference extension for relate.
// It registers the ref command with subcommands: add, rm, ls, show, check.
//
// References are the directed connections the rest of the system exists to
// govern. Creation and removal run the owning ruleset's validation; check
// re-validates existing references after rules or the catalogue change.
package ref

import (
	"context"
	"fmt"

	"github.com/relate-io/relate/cmd"
	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/format"
	"github.com/relate-io/relate/internal/log"
	"github.com/relate-io/relate/internal/service"
	"github.com/relate-io/relate/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the ref extension.
type Extension struct {
	svc service.Service
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.EventHandler  = (*Extension)(nil)
)

// Name returns "ref" - this extension manages references between objects.
func (e *Extension) Name() string { return "ref" }

// Init connects to the shared service for reference operations.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the ref command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	c := &cobra.Command{
		Use:   "ref",
		Short: "Manage references between objects",
		Long:  `Create, list, inspect, remove, and re-validate references.`,
	}
	c.AddCommand(e.newAddCmd())
	c.AddCommand(e.newRmCmd())
	c.AddCommand(e.newLsCmd())
	c.AddCommand(e.newShowCmd())
	c.AddCommand(e.newCheckCmd())
	return []*cobra.Command{c}
}

// MCPTools returns nil - ref MCP tools are provided by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// HandleEvent processes catalogue events to keep the reference graph
// consistent with the catalogue.
//
// Why handle object removal here? A reference whose endpoint left the
// catalogue can no longer be validated or displayed meaningfully. Cleaning
// it up on the removal event keeps the graph consistent without coupling
// the catalogue code to references.
//
// ReferenceEvents fired by this extension's own operations are ignored;
// handling our own events would be circular.
func (e *Extension) HandleEvent(ctx extension.Context, evt extension.Event) error {
	if ev, ok := evt.(extension.ObjectEvent); ok && ev.Type == extension.EventObjectRemove {
		return e.handleObjectRemove(ctx, ev)
	}
	return nil
}

// handleObjectRemove soft-deletes references touching a removed object.
//
// Soft-delete rather than hard-delete: the object itself is soft-deleted
// and can come back via "relate object restore". Until vacuum, the removed
// references remain auditable in the log and recoverable in the database.
//
// Event handlers don't receive a context.Context from the caller, so
// context.Background() is used. Cleanup shouldn't be cancelled midway.
func (e *Extension) handleObjectRemove(extCtx extension.Context, ev extension.ObjectEvent) error {
	if err := extCtx.Service().RemoveReferencesForPath(context.Background(), ev.Path); err != nil {
		log.Event("ref:cleanup", "event").
			Path(ev.Path).
			Detail("trigger", "object_remove").
			Write(err)
		return err
	}

	log.Event("ref:cleanup", "event").
		Path(ev.Path).
		Detail("trigger", "object_remove").
		Detail("action", "references_removed").
		Write(nil)

	return nil
}

// --- ref add ---

func (e *Extension) newAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add <source> <target>",
		Short: "Create a reference",
		Long: `Create a directed reference from source to target under a ruleset.

  relate ref add site/front-page site/news
  relate ref add site/front-page site/logo --ruleset illustrates

Every rule in the ruleset validates the pair; all failures are reported
together. Omit --ruleset to use the configured default. Arguments can be
object paths or keys.`,
		Args: cobra.ExactArgs(2),
		RunE: e.runAdd,
	}
	c.Flags().StringP(extension.FlagRuleset, "r", "", "Governing ruleset (default: configured default)")
	return c
}

func (e *Extension) runAdd(c *cobra.Command, args []string) error {
	ctx := c.Context()
	rulesetName, _ := c.Flags().GetString(extension.FlagRuleset)

	source, err := e.svc.Resolve(ctx, args[0], false)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("resolve %q: %w", args[0], err))
	}
	target, err := e.svc.Resolve(ctx, args[1], false)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("resolve %q: %w", args[1], err))
	}

	id, err := e.svc.Connect(ctx, rulesetName, source.Path, target.Path)

	log.Event("ref:add", "connect").
		Author(cmd.Author()).
		Ruleset(rulesetName).
		Path(source.Path).
		Target(target.Path).
		Detail("id", id).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ref add %s -> %s: %w", source.Path, target.Path, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "%s  %s -> %s\n", id, source.Path, target.Path)
	}
	return cmd.PrintJSON(map[string]string{
		"id":     id,
		"source": source.Path,
		"target": target.Path,
	})
}

// --- ref rm ---

func (e *Extension) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a reference",
		Long: `Remove a reference by ID.

Rules get the chance to veto disconnection before the reference is
soft-deleted. Removal works even when an endpoint has already left the
catalogue.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runRm,
	}
}

func (e *Extension) runRm(c *cobra.Command, args []string) error {
	ctx := c.Context()
	id := args[0]

	err := e.svc.Disconnect(ctx, id)

	log.Event("ref:rm", "disconnect").
		Author(cmd.Author()).
		Detail("id", id).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ref rm %q: %w", id, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Removed %s\n", id)
	}
	return cmd.PrintJSON(map[string]string{"id": id})
}

// --- ref ls ---

func (e *Extension) newLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls [path|key]",
		Short: "List references",
		Long: `List references touching an object, or all references in a ruleset.

  relate ref ls site/front-page           # references touching an object
  relate ref ls --ruleset illustrates     # all references in a ruleset
  relate ref ls                           # all references in all rulesets`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runLs,
	}
	c.Flags().StringP(extension.FlagRuleset, "r", "", "Filter by ruleset")
	c.Flags().Bool(extension.FlagCount, false, "Output count only")
	return c
}

func (e *Extension) runLs(c *cobra.Command, args []string) error {
	ctx := c.Context()
	rulesetName, _ := c.Flags().GetString(extension.FlagRuleset)
	countOnly, _ := c.Flags().GetBool(extension.FlagCount)

	if countOnly && len(args) == 0 {
		n, err := e.svc.CountReferences(ctx, rulesetName)
		log.Event("ref:ls", "count").Author(cmd.Author()).Ruleset(rulesetName).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("ref count: %w", err))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]int64{"count": n})
		}
		fmt.Fprintln(cmd.Out(), n)
		return nil
	}

	var refs []store.Reference
	var err error
	switch {
	case len(args) > 0:
		var obj *store.Object
		obj, err = e.svc.Resolve(ctx, args[0], false)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("resolve %q: %w", args[0], err))
		}
		refs, err = e.svc.ListReferences(ctx, obj.Path, rulesetName)
	case rulesetName != "":
		refs, err = e.svc.ListByRuleset(ctx, rulesetName)
	default:
		// All references across all rulesets.
		var sets []store.RulesetInfo
		sets, err = e.svc.ListRulesets(ctx)
		if err == nil {
			for _, rs := range sets {
				var batch []store.Reference
				batch, err = e.svc.ListByRuleset(ctx, rs.Name)
				if err != nil {
					break
				}
				refs = append(refs, batch...)
			}
		}
	}

	log.Event("ref:ls", "list").
		Author(cmd.Author()).
		Ruleset(rulesetName).
		Detail("count", len(refs)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ref ls: %w", err))
	}

	if cmd.JSON() {
		js := make([]store.ReferenceJSON, len(refs))
		for i, r := range refs {
			js[i] = r.ToJSON()
		}
		return cmd.PrintJSON(js)
	}

	return format.References(cmd.Out(), refs)
}

// --- ref show ---

func (e *Extension) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a reference",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runShow,
	}
}

func (e *Extension) runShow(c *cobra.Command, args []string) error {
	ctx := c.Context()
	id := args[0]

	r, err := e.svc.Reference(ctx, id)

	log.Event("ref:show", "show").
		Author(cmd.Author()).
		Detail("id", id).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ref show %q: %w", id, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(r.ToJSON())
	}

	fmt.Fprintf(cmd.Out(), "ID:      %s\n", r.ID)
	fmt.Fprintf(cmd.Out(), "Ruleset: %s\n", r.Ruleset)
	fmt.Fprintf(cmd.Out(), "Source:  %s\n", r.SourcePath)
	fmt.Fprintf(cmd.Out(), "Target:  %s\n", r.TargetPath)
	return nil
}

// --- ref check ---

func (e *Extension) newCheckCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "check",
		Short: "Re-validate existing references",
		Long: `Re-validate existing references against current rules.

  relate ref check                          # all references
  relate ref check --ruleset illustrates    # one ruleset
  relate ref check --path site/front-page   # references touching a path

Reports references that no longer satisfy their ruleset, typically after
rules were tightened or objects changed kind. References are reported,
never modified; remove them with "relate ref rm" if the failures are real.`,
		RunE: e.runCheck,
	}
	c.Flags().StringP(extension.FlagRuleset, "r", "", "Check one ruleset (default: all)")
	c.Flags().StringP(extension.FlagPath, "p", "", "Only references touching this path")
	return c
}

func (e *Extension) runCheck(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	rulesetName, _ := c.Flags().GetString(extension.FlagRuleset)
	path, _ := c.Flags().GetString(extension.FlagPath)

	results, err := e.svc.Check(ctx, rulesetName, path)

	log.Event("ref:check", "check").
		Author(cmd.Author()).
		Ruleset(rulesetName).
		Path(path).
		Detail("failures", len(results)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ref check: %w", err))
	}

	if cmd.JSON() {
		type failure struct {
			Reference store.ReferenceJSON `json:"reference"`
			Error     string              `json:"error"`
		}
		failures := make([]failure, len(results))
		for i, res := range results {
			failures[i] = failure{Reference: res.Reference.ToJSON(), Error: res.Err.Error()}
		}
		return cmd.PrintJSON(failures)
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.Out(), "All references valid")
		return nil
	}

	return format.CheckResults(cmd.Out(), results)
}
