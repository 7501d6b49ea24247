// refs.go implements validated reference operations for the Service layer.
//
// Separated from objects.go because references represent relationships
// between objects (graph edges), not the objects themselves. References
// have two endpoints, a governing ruleset, and their own event types.
//
// Design: Connect and Disconnect always run the governing ruleset before
// touching the store. The store persists what validation has already
// accepted; it never evaluates rules itself.

package relation

import (
	"context"
	"errors"
	"fmt"

	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/ruleset"
	"github.com/relate-io/relate/internal/service"
	"github.com/relate-io/relate/internal/store"
)

// referenceOf builds the rule engine's view of a reference from catalogued
// endpoint objects. Both endpoints must be active in the catalogue.
func (s *Service) referenceOf(ctx context.Context, id, rulesetName, source, target string) (ruleset.Reference, error) {
	src, err := s.summaryOf(ctx, source)
	if err != nil {
		return ruleset.Reference{}, err
	}
	tgt, err := s.summaryOf(ctx, target)
	if err != nil {
		return ruleset.Reference{}, err
	}
	return ruleset.Reference{ID: id, Ruleset: rulesetName, Source: src, Target: tgt}, nil
}

// Connect validates and creates a reference from source to target under a
// ruleset, returning the reference ID. Pass "" as ruleset to use the
// configured default.
func (s *Service) Connect(ctx context.Context, rulesetName, source, target string) (string, error) {
	rulesetName = s.resolveRuleset(rulesetName)
	source, err := s.normalizePath(source)
	if err != nil {
		return "", err
	}
	target, err = s.normalizePath(target)
	if err != nil {
		return "", err
	}

	rs, err := s.buildRuleset(ctx, rulesetName)
	if err != nil {
		return "", err
	}
	ref, err := s.referenceOf(ctx, "", rulesetName, source, target)
	if err != nil {
		return "", err
	}
	if err := rs.ValidateConnected(ctx, ref, ruleset.Chain{rulesetName}); err != nil {
		return "", err
	}

	id, err := s.store.AddReference(ctx, rulesetName, source, target, store.ReferenceOptions{MaxPath: s.maxPath})
	if err != nil {
		return "", err
	}
	s.fireEvent(extension.ReferenceEvent{
		ID:         id,
		Ruleset:    rulesetName,
		SourcePath: source,
		TargetPath: target,
		Created:    true,
	})
	return id, nil
}

// Disconnect validates and soft-deletes a reference by ID. Rules get the
// chance to veto disconnection before the reference is removed.
//
// Endpoints may have left the catalogue since the reference was created;
// disconnection must still work then, so rule evaluation is skipped when an
// endpoint can't be resolved. The built-in constraints never restrict
// disconnection anyway.
func (s *Service) Disconnect(ctx context.Context, id string) error {
	ref, err := s.store.Reference(ctx, id)
	if err != nil {
		return err
	}

	rs, err := s.buildRuleset(ctx, ref.Ruleset)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if rs != nil {
		rref, rerr := s.referenceOf(ctx, ref.ID, ref.Ruleset, ref.SourcePath, ref.TargetPath)
		if rerr == nil {
			if verr := rs.ValidateDisconnected(ctx, rref, ruleset.Chain{ref.Ruleset}); verr != nil {
				return verr
			}
		}
	}

	if err := s.store.RemoveReference(ctx, id); err != nil {
		return err
	}
	s.fireEvent(extension.ReferenceEvent{
		ID:         ref.ID,
		Ruleset:    ref.Ruleset,
		SourcePath: ref.SourcePath,
		TargetPath: ref.TargetPath,
		Created:    false,
	})
	return nil
}

// Reference retrieves an active reference by ID.
func (s *Service) Reference(ctx context.Context, id string) (*store.Reference, error) {
	return s.store.Reference(ctx, id)
}

// ListReferences returns active references touching a path in either
// direction. Pass a ruleset name to filter, empty for all rulesets.
func (s *Service) ListReferences(ctx context.Context, path, rulesetName string) ([]store.Reference, error) {
	path, err := s.normalizePath(path)
	if err != nil {
		return nil, err
	}
	return s.store.ListReferences(ctx, path, rulesetName, store.ReferenceOptions{MaxPath: s.maxPath})
}

// ListByRuleset returns all active references governed by a ruleset.
func (s *Service) ListByRuleset(ctx context.Context, rulesetName string) ([]store.Reference, error) {
	return s.store.ListByRuleset(ctx, s.resolveRuleset(rulesetName))
}

// CountReferences returns the active reference count, optionally filtered
// by ruleset (empty for all).
func (s *Service) CountReferences(ctx context.Context, rulesetName string) (int64, error) {
	return s.store.CountReferences(ctx, rulesetName)
}

// RemoveReferencesForPath soft-deletes all references touching a path,
// maintaining referential integrity when objects are removed.
func (s *Service) RemoveReferencesForPath(ctx context.Context, path string) error {
	path, err := s.normalizePath(path)
	if err != nil {
		return err
	}
	return s.store.RemoveReferencesForPath(ctx, path, store.ReferenceOptions{MaxPath: s.maxPath})
}

// Check re-validates existing references against current rules. Rules can
// change after references were created; Check surfaces the references the
// current configuration would no longer accept, without modifying anything.
//
// Pass a ruleset name to check one ruleset, empty for all. Pass a path to
// restrict to references touching that path. A missing endpoint object is a
// failure too: a reference whose source or target left the catalogue can no
// longer be validated.
func (s *Service) Check(ctx context.Context, rulesetName, path string) ([]service.CheckResult, error) {
	if path != "" {
		var err error
		if path, err = s.normalizePath(path); err != nil {
			return nil, err
		}
	}

	var names []string
	if rulesetName != "" {
		names = []string{rulesetName}
	} else {
		infos, err := s.store.ListRulesets(ctx)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			names = append(names, info.Name)
		}
	}

	var results []service.CheckResult
	for _, name := range names {
		rs, err := s.buildRuleset(ctx, name)
		if err != nil {
			return nil, err
		}

		var refs []store.Reference
		if path != "" {
			refs, err = s.store.ListReferences(ctx, path, name, store.ReferenceOptions{MaxPath: s.maxPath})
		} else {
			refs, err = s.store.ListByRuleset(ctx, name)
		}
		if err != nil {
			return nil, err
		}

		for _, ref := range refs {
			rref, err := s.referenceOf(ctx, ref.ID, name, ref.SourcePath, ref.TargetPath)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					results = append(results, service.CheckResult{
						Reference: ref,
						Err:       fmt.Errorf("endpoint missing from catalogue: %w", err),
					})
					continue
				}
				return nil, err
			}
			if verr := rs.ValidateConnected(ctx, rref, ruleset.Chain{name}); verr != nil {
				var v *ruleset.ValidationError
				if !errors.As(verr, &v) {
					return nil, verr
				}
				results = append(results, service.CheckResult{Reference: ref, Err: verr})
			}
		}
	}
	return results, nil
}
