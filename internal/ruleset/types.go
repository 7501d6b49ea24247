// types.go defines the value types rules operate on.
//
// Separated from ruleset.go so the rule contracts and the engine read
// independently of the plain data carriers. Summaries are deliberately
// minimal: rules only ever need the kind identifier, and keeping the view
// small means validation never has to fetch full object content.

package ruleset

// Summary is an immutable lightweight view of a content object, sufficient
// for filtering and validation without loading the object itself.
type Summary struct {
	Path  string // object path within the store
	Kind  string // concrete content kind (e.g., "Document")
	Title string // display title, may be empty
}

// Reference is a directed link between two content objects, carrying
// summaries of both endpoints and the name of the ruleset that governs it.
type Reference struct {
	ID      string  // unique 8-char identifier, empty before creation
	Ruleset string  // governing ruleset name
	Source  Summary // originating endpoint
	Target  Summary // destination endpoint
}

// Chain is opaque caller-supplied diagnostic context threaded through
// validation calls and attached to failures unchanged. Rules never inspect
// it; callers use it to identify where in a larger operation a reference
// was rejected.
type Chain []string

// With returns a new chain with an element appended, leaving the receiver
// unmodified so callers can safely branch context.
func (c Chain) With(elem string) Chain {
	out := make(Chain, len(c), len(c)+1)
	copy(out, c)
	return append(out, elem)
}
