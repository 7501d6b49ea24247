// resolver.go implements kind-set resolution for both configuration styles.
//
// Separated from constraint.go so the evaluation engine stays independent of
// how allow-lists are expressed. A Resolver turns configuration into KindSet
// values per side; the engine never sees raw configuration. Two resolvers
// exist: one reading configured kind lists verbatim, one translating
// capability lists through the capability registry.
//
// Resolution happens fresh on every call rather than being cached: kind and
// capability registrations can change between evaluations, and a stale
// resolved set would silently allow or reject the wrong kinds.

package constraint

import "context"

// Resolver produces the allowed kind set for each side of a reference.
type Resolver interface {
	SourceKinds(ctx context.Context) (KindSet, error)
	TargetKinds(ctx context.Context) (KindSet, error)
}

// CapabilityIndex resolves capability identifiers to the concrete kinds
// providing at least one of them. Implemented by the store's kind registry.
type CapabilityIndex interface {
	KindsProviding(ctx context.Context, capabilities []string) ([]string, error)
}

// kindResolver returns configured kind lists verbatim. An empty list means
// unrestricted, never "nothing allowed".
type kindResolver struct {
	sources []string
	targets []string
}

func (r kindResolver) SourceKinds(context.Context) (KindSet, error) {
	return resolveKinds(r.sources), nil
}

func (r kindResolver) TargetKinds(context.Context) (KindSet, error) {
	return resolveKinds(r.targets), nil
}

func resolveKinds(kinds []string) KindSet {
	if len(kinds) == 0 {
		return Unrestricted()
	}
	return RestrictedTo(kinds)
}

// capabilityResolver translates capability lists into kind sets through the
// registry. An empty capability list is unrestricted, matching the kind
// resolver's semantics. A non-empty list that resolves to zero concrete
// kinds yields RestrictedTo(nothing): the configuration names requirements
// nothing satisfies, so everything is rejected rather than everything
// allowed.
type capabilityResolver struct {
	index   CapabilityIndex
	sources []string
	targets []string
}

func (r capabilityResolver) SourceKinds(ctx context.Context) (KindSet, error) {
	return r.resolve(ctx, r.sources)
}

func (r capabilityResolver) TargetKinds(ctx context.Context) (KindSet, error) {
	return r.resolve(ctx, r.targets)
}

func (r capabilityResolver) resolve(ctx context.Context, capabilities []string) (KindSet, error) {
	if len(capabilities) == 0 {
		return Unrestricted(), nil
	}
	kinds, err := r.index.KindsProviding(ctx, capabilities)
	if err != nil {
		// Registry failures are infrastructure errors, not validation
		// outcomes; propagate unchanged.
		return KindSet{}, err
	}
	return RestrictedTo(kinds), nil
}
