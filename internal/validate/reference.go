// reference.go implements structural validation for object references.
//
// Separated because references have compound validation - both endpoints must
// be valid paths, and the relationship itself has rules (no self-references).
//
// Design: Self-references (source == target) are rejected because they
// create meaningless cycles and complicate graph traversal. Path length is
// NOT validated here - that's done by the store because read-only reference
// queries don't need length limits.

package validate

import "fmt"

// Reference validates reference source and target paths.
//
// Validation rules:
//   - Both paths must be valid (delegates to Path with maxLen=0)
//   - Self-references rejected (source == target creates cycles/confusion)
//
// Note: Path length validation uses maxLen=0 here because the actual MaxPath
// is enforced by the store via its options structs. This function only checks
// structural validity; rule evaluation is the ruleset engine's job.
func Reference(source, target string) error {
	if _, err := Path(source, 0); err != nil {
		return fmt.Errorf("%w: invalid source path: %w", ErrInvalidReference, err)
	}
	if _, err := Path(target, 0); err != nil {
		return fmt.Errorf("%w: invalid target path: %w", ErrInvalidReference, err)
	}
	if source == target {
		return fmt.Errorf("%w: self-reference", ErrInvalidReference)
	}
	return nil
}
