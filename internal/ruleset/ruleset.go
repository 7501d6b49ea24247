// Package ruleset defines the pluggable rule contracts for reference
// validation and candidate vocabulary construction, and the engine that
// evaluates a named collection of rules. Rules implement VocabularyProvider
// to narrow the set of legal link targets for selection, and Validator to
// accept or reject concrete references. The engine discovers capabilities
// via interface assertion, so a rule may provide either or both.
package ruleset

import (
	"context"
	"errors"
)

// Rule is the base contract every rule implements. Name identifies the rule
// within its ruleset; Title is the display name embedded in failure messages.
type Rule interface {
	Name() string
	Title() string
}

// VocabularyProvider narrows the candidate targets a source object may link
// to. A nil targets slice asks the rule to produce candidates itself (the
// search path); a non-nil slice asks for a pure order-preserving filter.
type VocabularyProvider interface {
	Rule
	Vocabulary(ctx context.Context, source Summary, targets []Summary) ([]Summary, error)
}

// Validator accepts or rejects concrete references. Failures are returned as
// *ValidationError; any other error indicates evaluation itself broke and
// propagates unchanged.
type Validator interface {
	Rule
	ValidateConnected(ctx context.Context, ref Reference, chain Chain) error
	ValidateDisconnected(ctx context.Context, ref Reference, chain Chain) error
}

// Ruleset is an ordered collection of rules governing one relation type.
// Evaluation is synchronous and request-scoped: each call is a pure function
// of the registered rules and its arguments.
type Ruleset struct {
	name  string
	title string
	rules []Rule
}

// New creates an empty ruleset. The title is the display name rules embed
// in failure messages; it defaults to the name when empty.
func New(name, title string) *Ruleset {
	if title == "" {
		title = name
	}
	return &Ruleset{name: name, title: title}
}

// Name returns the ruleset's unique name.
func (rs *Ruleset) Name() string { return rs.name }

// Title returns the ruleset's display title.
func (rs *Ruleset) Title() string { return rs.title }

// Register appends a rule, preserving registration order. Order matters for
// vocabulary construction: the first provider produces candidates, each
// subsequent provider filters the previous output.
func (rs *Ruleset) Register(r Rule) {
	rs.rules = append(rs.rules, r)
}

// Rules returns the registered rules in registration order.
func (rs *Ruleset) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// HasVocabularyProviders reports whether any registered rule can produce or
// filter candidates. Callers use this to fall back to an unfiltered catalog
// listing when a ruleset imposes no vocabulary restrictions.
func (rs *Ruleset) HasVocabularyProviders() bool {
	for _, r := range rs.rules {
		if _, ok := r.(VocabularyProvider); ok {
			return true
		}
	}
	return false
}

// Vocabulary computes the legal candidate targets for a source object by
// chaining all vocabulary providers: the first receives nil targets and
// produces candidates, each subsequent provider filters its predecessor's
// output. Returns nil when no provider is registered.
func (rs *Ruleset) Vocabulary(ctx context.Context, source Summary) ([]Summary, error) {
	var targets []Summary
	first := true
	for _, r := range rs.rules {
		p, ok := r.(VocabularyProvider)
		if !ok {
			continue
		}
		out, err := p.Vocabulary(ctx, source, targets)
		if err != nil {
			return nil, err
		}
		// A provider returning nil means "no candidates", which must not be
		// confused with the nil-targets search request on the next provider.
		if out == nil {
			out = []Summary{}
		}
		targets = out
		first = false
	}
	if first {
		return nil, nil
	}
	return targets, nil
}

// ValidateConnected runs every validator against the reference and joins
// their failures. Individual rules stop at their first violation, but the
// engine aggregates across rules so callers can surface every rule that
// rejected the reference.
func (rs *Ruleset) ValidateConnected(ctx context.Context, ref Reference, chain Chain) error {
	var errs []error
	for _, r := range rs.rules {
		v, ok := r.(Validator)
		if !ok {
			continue
		}
		if err := v.ValidateConnected(ctx, ref, chain); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				// Infrastructure failure: abort evaluation, propagate unchanged.
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateDisconnected runs every validator's disconnection check. The
// built-in constraint rules never restrict disconnection, but the contract
// exists so future rules can.
func (rs *Ruleset) ValidateDisconnected(ctx context.Context, ref Reference, chain Chain) error {
	var errs []error
	for _, r := range rs.rules {
		v, ok := r.(Validator)
		if !ok {
			continue
		}
		if err := v.ValidateDisconnected(ctx, ref, chain); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
