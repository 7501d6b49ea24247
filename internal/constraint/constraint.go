// Package constraint implements the two built-in relation rules: the kind
// constraint, restricting reference endpoints by concrete content kind, and
// the capability constraint, restricting them by the capabilities those
// kinds provide. Both share one evaluation engine parameterized over a
// kind-set Resolver; the capability variant differs only in how allow-lists
// resolve to kinds.
//
// A constraint is both a vocabulary provider (computing the legal link
// targets for a source object) and a validator (accepting or rejecting a
// concrete reference). Configuration is two allow-lists per rule; an empty
// list always means "no restriction" for that side.
package constraint

import (
	"context"
	"fmt"

	"github.com/relate-io/relate/internal/ruleset"
)

// Catalog is the unique-object index consulted when a vocabulary is built
// without a pre-existing candidate list. Terms map field names to allowed
// values; an empty terms map matches every indexed object. Implemented by
// the store.
type Catalog interface {
	Search(ctx context.Context, terms map[string][]string) ([]ruleset.Summary, error)
}

// Constraint is the shared evaluation engine behind both rule variants.
// Construct with NewKindConstraint or NewCapabilityConstraint.
type Constraint struct {
	name      string
	title     string // owning ruleset's display title, embedded in messages
	resolver  Resolver
	catalog   Catalog
	sourceErr error // category sentinel for source-side failures
	targetErr error
}

// Constraints implement both rule capabilities the engine discovers.
var (
	_ ruleset.VocabularyProvider = (*Constraint)(nil)
	_ ruleset.Validator          = (*Constraint)(nil)
)

// KindConfig configures a kind constraint. Empty allow-lists impose no
// restriction on their side.
type KindConfig struct {
	Name               string // rule name, defaults to "kind_constraint"
	Title              string // display title for failure messages
	AllowedSourceKinds []string
	AllowedTargetKinds []string
	Catalog            Catalog
}

// NewKindConstraint creates a rule restricting endpoints by concrete kind.
func NewKindConstraint(cfg KindConfig) *Constraint {
	name := cfg.Name
	if name == "" {
		name = "kind_constraint"
	}
	return &Constraint{
		name:  name,
		title: cfg.Title,
		resolver: kindResolver{
			sources: cfg.AllowedSourceKinds,
			targets: cfg.AllowedTargetKinds,
		},
		catalog:   cfg.Catalog,
		sourceErr: ErrSourceKindDisallowed,
		targetErr: ErrTargetKindDisallowed,
	}
}

// CapabilityConfig configures a capability constraint. Empty allow-lists
// impose no restriction; a non-empty list that no registered kind satisfies
// rejects everything on that side.
type CapabilityConfig struct {
	Name                      string // rule name, defaults to "capability_constraint"
	Title                     string // display title for failure messages
	AllowedSourceCapabilities []string
	AllowedTargetCapabilities []string
	Index                     CapabilityIndex
	Catalog                   Catalog
}

// NewCapabilityConstraint creates a rule restricting endpoints by provided
// capability, delegating all filtering and validation to the same engine as
// the kind constraint once capabilities are resolved to kinds.
func NewCapabilityConstraint(cfg CapabilityConfig) *Constraint {
	name := cfg.Name
	if name == "" {
		name = "capability_constraint"
	}
	return &Constraint{
		name:  name,
		title: cfg.Title,
		resolver: capabilityResolver{
			index:   cfg.Index,
			sources: cfg.AllowedSourceCapabilities,
			targets: cfg.AllowedTargetCapabilities,
		},
		catalog:   cfg.Catalog,
		sourceErr: ErrSourceCapabilityDisallowed,
		targetErr: ErrTargetCapabilityDisallowed,
	}
}

// Name returns the rule's identifier within its ruleset.
func (c *Constraint) Name() string { return c.name }

// Title returns the display title embedded in failure messages.
func (c *Constraint) Title() string { return c.title }

// Vocabulary computes the candidate targets the source may link to.
//
// A disqualified source (restricted source set not containing its kind)
// yields an empty vocabulary: no candidate can produce a valid reference.
// With targets supplied, the result is the order-preserving subsequence
// whose kinds pass the target set. With nil targets, the catalog is searched
// using SearchTerms; this is the only path with external I/O, and result
// order follows the catalog.
func (c *Constraint) Vocabulary(ctx context.Context, source ruleset.Summary, targets []ruleset.Summary) ([]ruleset.Summary, error) {
	srcSet, err := c.resolver.SourceKinds(ctx)
	if err != nil {
		return nil, err
	}
	if !srcSet.Allows(source.Kind) {
		return []ruleset.Summary{}, nil
	}

	tgtSet, err := c.resolver.TargetKinds(ctx)
	if err != nil {
		return nil, err
	}

	if targets != nil {
		out := make([]ruleset.Summary, 0, len(targets))
		for _, t := range targets {
			if tgtSet.Allows(t.Kind) {
				out = append(out, t)
			}
		}
		return out, nil
	}

	// Restricted to zero kinds: nothing qualifies, skip the catalog round trip.
	if tgtSet.Restricted() && tgtSet.Len() == 0 {
		return []ruleset.Summary{}, nil
	}
	return c.catalog.Search(ctx, searchTerms(tgtSet))
}

// SearchTerms returns the catalog search terms for the allowed-target set:
// a "kind" constraint when restricted, an empty map (match everything)
// otherwise.
func (c *Constraint) SearchTerms(ctx context.Context) (map[string][]string, error) {
	tgtSet, err := c.resolver.TargetKinds(ctx)
	if err != nil {
		return nil, err
	}
	return searchTerms(tgtSet), nil
}

func searchTerms(set KindSet) map[string][]string {
	terms := map[string][]string{}
	if set.Restricted() {
		terms["kind"] = set.Kinds()
	}
	return terms
}

// ValidateConnected checks both endpoints of a reference against the
// resolved kind sets. The source check runs first and wins: when both sides
// would fail, only the source failure is reported.
func (c *Constraint) ValidateConnected(ctx context.Context, ref ruleset.Reference, chain ruleset.Chain) error {
	srcSet, err := c.resolver.SourceKinds(ctx)
	if err != nil {
		return err
	}
	if !srcSet.Allows(ref.Source.Kind) {
		return ruleset.NewValidationError(
			fmt.Sprintf("source kind %q not allowed for %q", ref.Source.Kind, c.title),
			ref, chain, c.sourceErr)
	}

	tgtSet, err := c.resolver.TargetKinds(ctx)
	if err != nil {
		return err
	}
	if !tgtSet.Allows(ref.Target.Kind) {
		return ruleset.NewValidationError(
			fmt.Sprintf("target kind %q not allowed for %q", ref.Target.Kind, c.title),
			ref, chain, c.targetErr)
	}
	return nil
}

// ValidateDisconnected always succeeds: removing a reference is never
// restricted by kind or capability.
func (c *Constraint) ValidateDisconnected(context.Context, ruleset.Reference, ruleset.Chain) error {
	return nil
}
