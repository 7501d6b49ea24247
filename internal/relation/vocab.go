// vocab.go assembles rulesets from stored configuration and computes
// candidate vocabularies.
//
// Separated from refs.go to isolate the wiring between persisted rule rows
// and the in-memory rule engine. buildRuleset is the single place where
// rule variants are instantiated; both validation and vocabulary paths go
// through it so a ruleset always behaves the same regardless of entry point.

package relation

import (
	"context"
	"fmt"

	"github.com/relate-io/relate/internal/constraint"
	"github.com/relate-io/relate/internal/ruleset"
	"github.com/relate-io/relate/internal/store"
)

// summaryCatalog adapts the store's object search to the constraint
// engine's Catalog contract, trimming rows down to summaries.
type summaryCatalog struct {
	cat store.Cataloger
}

var _ constraint.Catalog = summaryCatalog{}

func (c summaryCatalog) Search(ctx context.Context, terms map[string][]string) ([]ruleset.Summary, error) {
	objs, err := c.cat.Search(ctx, terms)
	if err != nil {
		return nil, err
	}
	return toSummaries(objs), nil
}

func toSummaries(objs []store.Object) []ruleset.Summary {
	out := make([]ruleset.Summary, 0, len(objs))
	for _, o := range objs {
		out = append(out, ruleset.Summary{Path: o.Path, Kind: o.Kind, Title: o.Title})
	}
	return out
}

// buildRuleset loads a ruleset's stored rules and instantiates the rule
// engine for it. Returns store.ErrNotFound if the ruleset doesn't exist.
func (s *Service) buildRuleset(ctx context.Context, name string) (*ruleset.Ruleset, error) {
	info, err := s.store.Ruleset(ctx, name)
	if err != nil {
		return nil, err
	}
	cfgs, err := s.store.Rules(ctx, name)
	if err != nil {
		return nil, err
	}

	rs := ruleset.New(info.Name, info.Title)
	cat := summaryCatalog{cat: s.store}
	for _, cfg := range cfgs {
		switch cfg.Variant {
		case store.VariantKind:
			rs.Register(constraint.NewKindConstraint(constraint.KindConfig{
				Name:               cfg.Name,
				Title:              info.Title,
				AllowedSourceKinds: cfg.AllowedSources,
				AllowedTargetKinds: cfg.AllowedTargets,
				Catalog:            cat,
			}))
		case store.VariantCapability:
			rs.Register(constraint.NewCapabilityConstraint(constraint.CapabilityConfig{
				Name:                      cfg.Name,
				Title:                     info.Title,
				AllowedSourceCapabilities: cfg.AllowedSources,
				AllowedTargetCapabilities: cfg.AllowedTargets,
				Index:                     s.store,
				Catalog:                   cat,
			}))
		default:
			// PutRule validates variants on write, so this only fires on rows
			// written by something other than relate.
			return nil, fmt.Errorf("%w: %s", store.ErrUnknownVariant, cfg.Variant)
		}
	}
	return rs, nil
}

// summaryOf looks up an active catalogued object and reduces it to the
// summary form the rule engine works with.
func (s *Service) summaryOf(ctx context.Context, path string) (ruleset.Summary, error) {
	obj, err := s.store.Object(ctx, path, false)
	if err != nil {
		return ruleset.Summary{}, fmt.Errorf("object %s: %w", path, err)
	}
	return ruleset.Summary{Path: obj.Path, Kind: obj.Kind, Title: obj.Title}, nil
}

// Candidates returns the objects a source could legally reference under a
// ruleset, by running the ruleset's vocabulary chain. When no rule in the
// ruleset provides a vocabulary, every active object is a candidate.
// The source itself is never a candidate since self-references are rejected.
func (s *Service) Candidates(ctx context.Context, rulesetName, source string) ([]ruleset.Summary, error) {
	rulesetName = s.resolveRuleset(rulesetName)
	source, err := s.normalizePath(source)
	if err != nil {
		return nil, err
	}
	src, err := s.summaryOf(ctx, source)
	if err != nil {
		return nil, err
	}
	rs, err := s.buildRuleset(ctx, rulesetName)
	if err != nil {
		return nil, err
	}

	candidates, err := rs.Vocabulary(ctx, src)
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		// No vocabulary providers: fall back to the full catalogue.
		candidates, err = summaryCatalog{cat: s.store}.Search(ctx, nil)
		if err != nil {
			return nil, err
		}
	}

	out := make([]ruleset.Summary, 0, len(candidates))
	for _, c := range candidates {
		if c.Path == source {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
