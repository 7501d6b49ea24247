// rules.go implements ruleset and rule configuration for the Service layer.
//
// Separated from refs.go because rule configuration is administrative: it
// changes what future Connect calls will accept, but touches no references
// itself. Existing references are re-checked against changed rules via
// "relate ref check", never modified implicitly.

package relation

import (
	"context"

	"github.com/relate-io/relate/internal/store"
)

// KindRule builds a kind-variant rule config for PutRule. Nil allow-lists
// impose no restriction on their side.
func KindRule(rulesetName, name string, sources, targets []string) store.RuleConfig {
	return store.RuleConfig{
		Ruleset:        rulesetName,
		Name:           name,
		Variant:        store.VariantKind,
		AllowedSources: sources,
		AllowedTargets: targets,
	}
}

// CapabilityRule builds a capability-variant rule config for PutRule.
func CapabilityRule(rulesetName, name string, sources, targets []string) store.RuleConfig {
	return store.RuleConfig{
		Ruleset:        rulesetName,
		Name:           name,
		Variant:        store.VariantCapability,
		AllowedSources: sources,
		AllowedTargets: targets,
	}
}

// PutRuleset creates or retitles a ruleset.
func (s *Service) PutRuleset(ctx context.Context, name, title string) error {
	return s.store.PutRuleset(ctx, name, title)
}

// Ruleset retrieves a ruleset with its rule count.
func (s *Service) Ruleset(ctx context.Context, name string) (*store.RulesetInfo, error) {
	return s.store.Ruleset(ctx, s.resolveRuleset(name))
}

// ListRulesets returns all rulesets ordered by name.
func (s *Service) ListRulesets(ctx context.Context) ([]store.RulesetInfo, error) {
	return s.store.ListRulesets(ctx)
}

// PutRule creates or replaces a rule within a ruleset. The ruleset must
// exist. Position defaults to append order when zero.
func (s *Service) PutRule(ctx context.Context, cfg store.RuleConfig) error {
	cfg.Ruleset = s.resolveRuleset(cfg.Ruleset)
	return s.store.PutRule(ctx, cfg)
}

// Rule retrieves a single rule.
func (s *Service) Rule(ctx context.Context, rulesetName, name string) (*store.RuleConfig, error) {
	return s.store.Rule(ctx, s.resolveRuleset(rulesetName), name)
}

// Rules returns a ruleset's rules ordered by position.
func (s *Service) Rules(ctx context.Context, rulesetName string) ([]store.RuleConfig, error) {
	return s.store.Rules(ctx, s.resolveRuleset(rulesetName))
}

// RemoveRule deletes a rule from a ruleset. Existing references are kept;
// they were valid when created and removal of a rule can only loosen the
// ruleset.
func (s *Service) RemoveRule(ctx context.Context, rulesetName, name string) error {
	return s.store.RemoveRule(ctx, s.resolveRuleset(rulesetName), name)
}

// RemoveRuleset deletes a ruleset and its rules, and soft-deletes the
// references it governs. References cannot outlive their ruleset: without
// one there is nothing to validate them against.
func (s *Service) RemoveRuleset(ctx context.Context, name string) error {
	return s.store.RemoveRuleset(ctx, name)
}
