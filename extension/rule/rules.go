// rules.go implements the "relate rule" command group.
//
// Separated from ruleset.go to isolate rule flag parsing and the config
// diff shown when a rule is replaced.

package rule

import (
	"errors"
	"fmt"
	"os"

	"github.com/relate-io/relate/cmd"
	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/diff"
	"github.com/relate-io/relate/internal/format"
	"github.com/relate-io/relate/internal/log"
	"github.com/relate-io/relate/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newRuleCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "rule",
		Short: "Manage constraint rules",
		Long:  `Add, list, inspect, and remove constraint rules within a ruleset.`,
	}
	c.AddCommand(e.newRuleAddCmd())
	c.AddCommand(e.newRuleLsCmd())
	c.AddCommand(e.newRuleShowCmd())
	c.AddCommand(e.newRuleRmCmd())
	return c
}

func (e *Extension) newRuleAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a rule to a ruleset",
		Long: `Add a constraint rule to a ruleset, or replace an existing one.

  relate rule add only-docs --ruleset illustrates --variant kind \
      --source Image --target Document
  relate rule add printable-targets --variant capability --target printable

Omitted --source or --target means that side is unrestricted. A kind rule
names concrete kinds; a capability rule names capabilities, resolved to
the kinds providing them at validation time. Omit --ruleset to use the
configured default.

Replacing an existing rule prints a diff of the configuration change.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runRuleAdd,
	}
	c.Flags().StringP(extension.FlagRuleset, "r", "", "Owning ruleset (default: configured default)")
	c.Flags().StringP(extension.FlagVariant, "v", store.VariantKind, "Rule variant: kind or capability")
	c.Flags().StringArrayP(extension.FlagSource, "s", nil, "Allowed source kind/capability (repeatable)")
	c.Flags().StringArrayP(extension.FlagTarget, "t", nil, "Allowed target kind/capability (repeatable)")
	c.Flags().Int(extension.FlagPosition, 0, "Evaluation position (0 = append)")
	return c
}

func (e *Extension) runRuleAdd(c *cobra.Command, args []string) error {
	ctx := c.Context()
	name := args[0]
	rulesetName, _ := c.Flags().GetString(extension.FlagRuleset)
	variant, _ := c.Flags().GetString(extension.FlagVariant)
	sources, _ := c.Flags().GetStringArray(extension.FlagSource)
	targets, _ := c.Flags().GetStringArray(extension.FlagTarget)
	position, _ := c.Flags().GetInt(extension.FlagPosition)

	if variant != store.VariantKind && variant != store.VariantCapability {
		return cmd.PrintJSONError(fmt.Errorf("invalid variant %q: must be %q or %q", variant, store.VariantKind, store.VariantCapability))
	}

	// Fetch any existing rule first so a replacement can be diffed.
	prev, err := e.svc.Rule(ctx, rulesetName, name)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return cmd.PrintJSONError(fmt.Errorf("rule add %q: %w", name, err))
	}

	cfg := store.RuleConfig{
		Ruleset:        rulesetName,
		Name:           name,
		Position:       position,
		Variant:        variant,
		AllowedSources: sources,
		AllowedTargets: targets,
	}

	err = e.svc.PutRule(ctx, cfg)

	log.Event("rule:add", "put").
		Author(cmd.Author()).
		Ruleset(rulesetName).
		Detail("rule", name).
		Detail("variant", variant).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("rule add %q: %w", name, err))
	}

	if !cmd.JSON() {
		if prev != nil {
			d := diff.Compute(renderRule(prev), renderRule(&cfg), name+" (old)", name+" (new)")
			if d.Empty() {
				fmt.Fprintf(cmd.Out(), "Rule %s unchanged\n", name)
			} else {
				fmt.Fprint(cmd.Out(), d.Format(term.IsTerminal(int(os.Stdout.Fd()))))
			}
		} else {
			fmt.Fprintf(cmd.Out(), "Added rule %s\n", name)
		}
	}
	return cmd.PrintJSON(cfg.ToJSON())
}

func (e *Extension) newRuleLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls",
		Short: "List a ruleset's rules",
		RunE:  e.runRuleLs,
	}
	c.Flags().StringP(extension.FlagRuleset, "r", "", "Ruleset (default: configured default)")
	return c
}

func (e *Extension) runRuleLs(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	rulesetName, _ := c.Flags().GetString(extension.FlagRuleset)

	rules, err := e.svc.Rules(ctx, rulesetName)

	log.Event("rule:ls", "list").
		Author(cmd.Author()).
		Ruleset(rulesetName).
		Detail("count", len(rules)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("rule ls: %w", err))
	}

	if cmd.JSON() {
		js := make([]store.RuleJSON, len(rules))
		for i, r := range rules {
			js[i] = r.ToJSON()
		}
		return cmd.PrintJSON(js)
	}

	return format.Rules(cmd.Out(), rules)
}

func (e *Extension) newRuleShowCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a rule's configuration",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runRuleShow,
	}
	c.Flags().StringP(extension.FlagRuleset, "r", "", "Ruleset (default: configured default)")
	return c
}

func (e *Extension) runRuleShow(c *cobra.Command, args []string) error {
	ctx := c.Context()
	name := args[0]
	rulesetName, _ := c.Flags().GetString(extension.FlagRuleset)

	r, err := e.svc.Rule(ctx, rulesetName, name)

	log.Event("rule:show", "show").
		Author(cmd.Author()).
		Ruleset(rulesetName).
		Detail("rule", name).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("rule show %q: %w", name, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(r.ToJSON())
	}

	fmt.Fprintf(cmd.Out(), "Rule: %s (%s)\n", r.Name, r.Ruleset)
	fmt.Fprint(cmd.Out(), renderRule(r))
	return nil
}

func (e *Extension) newRuleRmCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a rule from a ruleset",
		Long: `Remove a constraint rule.

Existing references are kept; removing a rule can only loosen the ruleset.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runRuleRm,
	}
	c.Flags().StringP(extension.FlagRuleset, "r", "", "Ruleset (default: configured default)")
	return c
}

func (e *Extension) runRuleRm(c *cobra.Command, args []string) error {
	ctx := c.Context()
	name := args[0]
	rulesetName, _ := c.Flags().GetString(extension.FlagRuleset)

	err := e.svc.RemoveRule(ctx, rulesetName, name)

	log.Event("rule:rm", "remove").
		Author(cmd.Author()).
		Ruleset(rulesetName).
		Detail("rule", name).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("rule rm %q: %w", name, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Removed rule %s\n", name)
	}
	return cmd.PrintJSON(map[string]string{"name": name})
}
