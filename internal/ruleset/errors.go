// errors.go defines the validation failure type raised by rules.
//
// Separated to centralise the error contract. A ValidationError is the only
// failure kind that originates from rule evaluation; infrastructure errors
// (catalog queries, registry lookups) pass through rules unwrapped so callers
// can distinguish "the reference is not allowed" from "evaluation broke".

package ruleset

// ValidationError reports that a reference failed rule validation. It carries
// a human-readable message, the offending reference, and the opaque chain
// context supplied by the caller. The wrapped category error enables
// errors.Is checks against the rule package's sentinel categories.
type ValidationError struct {
	Message   string
	Reference Reference
	Chain     Chain
	Category  error // failure category sentinel, exposed via Unwrap
}

// NewValidationError constructs a validation failure for a reference.
// The chain is attached as given, never copied or modified.
func NewValidationError(message string, ref Reference, chain Chain, category error) *ValidationError {
	return &ValidationError{
		Message:   message,
		Reference: ref,
		Chain:     chain,
		Category:  category,
	}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap exposes the failure category for errors.Is matching.
func (e *ValidationError) Unwrap() error {
	return e.Category
}
