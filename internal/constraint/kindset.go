// kindset.go implements the tagged resolved-kind-set value.
//
// Separated because the set algebra is the invariant the whole package rests
// on: an empty configured list means "no restriction", while a capability
// list that resolves to zero concrete kinds means "nothing qualifies". A
// single list representation cannot express both, so KindSet carries an
// explicit restricted/unrestricted tag instead of a magic sentinel entry.

package constraint

// KindSet is the resolved set of allowed kinds for one side of a reference.
// The zero value is unrestricted: every kind is allowed. A restricted set
// allows exactly its members; a restricted set with no members allows
// nothing.
type KindSet struct {
	restricted bool
	members    map[string]struct{}
	order      []string // configured order, preserved for search terms
}

// Unrestricted returns the kind set that allows every kind.
func Unrestricted() KindSet {
	return KindSet{}
}

// RestrictedTo returns a kind set allowing exactly the given kinds.
// Duplicates are dropped, first occurrence wins for ordering. An empty or
// nil slice yields a restricted set that allows nothing.
func RestrictedTo(kinds []string) KindSet {
	s := KindSet{
		restricted: true,
		members:    make(map[string]struct{}, len(kinds)),
	}
	for _, k := range kinds {
		if _, dup := s.members[k]; dup {
			continue
		}
		s.members[k] = struct{}{}
		s.order = append(s.order, k)
	}
	return s
}

// Restricted reports whether the set restricts at all.
func (s KindSet) Restricted() bool {
	return s.restricted
}

// Allows reports whether the kind passes this set. Unrestricted sets allow
// every kind, including the empty string.
func (s KindSet) Allows(kind string) bool {
	if !s.restricted {
		return true
	}
	_, ok := s.members[kind]
	return ok
}

// Len returns the member count. Zero with Restricted() true means the set
// rejects everything.
func (s KindSet) Len() int {
	return len(s.order)
}

// Kinds returns the members in configured order. Nil for unrestricted sets.
func (s KindSet) Kinds() []string {
	if !s.restricted {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
