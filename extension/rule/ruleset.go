// ruleset.go implements the "relate ruleset" command group.
//
// Separated from rule.go because rulesets and rules have different
// lifecycles: a ruleset owns references, a rule only constrains them.

package rule

import (
	"fmt"

	"github.com/relate-io/relate/cmd"
	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/format"
	"github.com/relate-io/relate/internal/log"
	"github.com/relate-io/relate/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newRulesetCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ruleset",
		Short: "Manage rulesets",
		Long:  `Create, list, inspect, and remove rulesets (relation types).`,
	}
	c.AddCommand(e.newRulesetAddCmd())
	c.AddCommand(e.newRulesetLsCmd())
	c.AddCommand(e.newRulesetShowCmd())
	c.AddCommand(e.newRulesetRmCmd())
	return c
}

func (e *Extension) newRulesetAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a ruleset",
		Long: `Create a ruleset, or retitle an existing one.

  relate ruleset add illustrates --title "Illustrates"

A ruleset with no rules accepts any pair of catalogued objects.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runRulesetAdd,
	}
	c.Flags().StringP(extension.FlagTitle, "T", "", "Display title used in validation messages")
	return c
}

func (e *Extension) runRulesetAdd(c *cobra.Command, args []string) error {
	ctx := c.Context()
	name := args[0]
	title, _ := c.Flags().GetString(extension.FlagTitle)

	err := e.svc.PutRuleset(ctx, name, title)

	log.Event("ruleset:add", "put").
		Author(cmd.Author()).
		Ruleset(name).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ruleset add %q: %w", name, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Created ruleset %s\n", name)
	}
	return cmd.PrintJSON(map[string]string{"name": name, "title": title})
}

func (e *Extension) newRulesetLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List rulesets",
		RunE:  e.runRulesetLs,
	}
}

func (e *Extension) runRulesetLs(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	sets, err := e.svc.ListRulesets(ctx)

	log.Event("ruleset:ls", "list").
		Author(cmd.Author()).
		Detail("count", len(sets)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ruleset ls: %w", err))
	}

	if cmd.JSON() {
		js := make([]store.RulesetJSON, len(sets))
		for i, rs := range sets {
			js[i] = rs.ToJSON()
		}
		return cmd.PrintJSON(js)
	}

	return format.Rulesets(cmd.Out(), sets)
}

func (e *Extension) newRulesetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show a ruleset and its rules",
		Long:  `Show a ruleset with its rules in evaluation order. Omit the name to show the default ruleset.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  e.runRulesetShow,
	}
}

func (e *Extension) runRulesetShow(c *cobra.Command, args []string) error {
	ctx := c.Context()
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	info, err := e.svc.Ruleset(ctx, name)

	log.Event("ruleset:show", "show").
		Author(cmd.Author()).
		Ruleset(name).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ruleset show %q: %w", name, err))
	}

	rules, err := e.svc.Rules(ctx, info.Name)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ruleset show %q: rules: %w", name, err))
	}

	if cmd.JSON() {
		js := make([]store.RuleJSON, len(rules))
		for i, r := range rules {
			js[i] = r.ToJSON()
		}
		return cmd.PrintJSON(map[string]any{
			"ruleset": info.ToJSON(),
			"rules":   js,
		})
	}

	fmt.Fprintf(cmd.Out(), "Ruleset: %s\n", info.Name)
	if info.Title != "" {
		fmt.Fprintf(cmd.Out(), "Title:   %s\n", info.Title)
	}
	fmt.Fprintf(cmd.Out(), "Rules:   %d\n", info.RuleCount)
	if len(rules) > 0 {
		fmt.Fprintln(cmd.Out())
		return format.Rules(cmd.Out(), rules)
	}
	return nil
}

func (e *Extension) newRulesetRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a ruleset",
		Long: `Remove a ruleset and its rules.

References governed by the ruleset are soft-deleted; they cannot outlive
the relation type that defines them. Vacuum removes them permanently.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runRulesetRm,
	}
}

func (e *Extension) runRulesetRm(c *cobra.Command, args []string) error {
	ctx := c.Context()
	name := args[0]

	// Report what the removal takes with it before doing it.
	count, err := e.svc.CountReferences(ctx, name)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ruleset rm %q: %w", name, err))
	}

	err = e.svc.RemoveRuleset(ctx, name)

	log.Event("ruleset:rm", "remove").
		Author(cmd.Author()).
		Ruleset(name).
		Detail("references", count).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ruleset rm %q: %w", name, err))
	}

	if !cmd.JSON() {
		if count > 0 {
			fmt.Fprintf(cmd.Out(), "Removed ruleset %s and %d reference(s)\n", name, count)
		} else {
			fmt.Fprintf(cmd.Out(), "Removed ruleset %s\n", name)
		}
	}
	return cmd.PrintJSON(map[string]any{"name": name, "references": count})
}
