// Package validate provides input validation for relate's domain types.
//
// This package enforces security and data integrity rules at the boundary
// between user input and the storage layer. Each validation function returns
// nil on success or a descriptive error on failure.
//
// # Design Philosophy
//
// Validation is minimal by design. We reject clearly dangerous inputs (null
// bytes, path traversal, excessive sizes) but avoid overly restrictive rules
// that would limit legitimate use cases. The goal is security without
// arbitrarily constraining users.
//
// # Validation Functions
//
// Path validates and normalizes object paths with traversal protection.
// Name validates kind, capability, ruleset, and rule identifiers.
// Reference validates a proposed link between two objects.
//
// # Error Handling
//
// All validation errors wrap one of the sentinel errors defined in errors.go
// (ErrInvalidPath, ErrInvalidName, etc.). Use errors.Is() for type-safe
// error checking:
//
//	if errors.Is(err, validate.ErrInvalidPath) {
//	    // handle invalid path
//	}
package validate
