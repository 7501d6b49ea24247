// name.go implements identifier validation for kinds, capabilities, rulesets
// and rules.
//
// Separated from path.go because identifiers have different validation rules -
// they're labels, not hierarchical paths. Names don't need path normalisation
// or traversal protection.
//
// Design: Minimal validation by design. Names come from the deploying
// application's content model; overly restrictive rules would limit
// legitimate use cases. Only clearly dangerous inputs (empty, null bytes)
// are rejected.

package validate

import (
	"fmt"
	"strings"
)

// Name validates an identifier such as a kind, capability, ruleset or rule name.
//
// Validation rules:
//   - Empty names rejected (meaningless identifier)
//   - Null bytes rejected (security: prevents injection in queries/storage)
//
// Note: No max length enforced - names are typically short identifiers and SQL
// handles arbitrary lengths. If abuse becomes an issue, add options with MaxLen.
func Name(n string) error {
	if n == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.ContainsRune(n, 0) {
		return fmt.Errorf("%w: null byte in name", ErrInvalidName)
	}
	return nil
}

// Names validates every identifier in a list.
func Names(names []string) error {
	for _, n := range names {
		if err := Name(n); err != nil {
			return err
		}
	}
	return nil
}
