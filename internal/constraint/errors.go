// errors.go defines the failure category sentinels for constraint rules.
//
// Separated to centralise error definitions. The categories are wrapped
// inside ruleset.ValidationError values so callers can use errors.Is to
// distinguish which side of a reference was rejected and whether the
// restriction was expressed in kinds or capabilities.

package constraint

import "errors"

var (
	// ErrSourceKindDisallowed marks a reference whose source kind is absent
	// from a non-empty allowed-source-kind list.
	ErrSourceKindDisallowed = errors.New("source kind not allowed")
	// ErrTargetKindDisallowed marks a reference whose target kind is absent
	// from a non-empty allowed-target-kind list.
	ErrTargetKindDisallowed = errors.New("target kind not allowed")
	// ErrSourceCapabilityDisallowed marks a reference whose source kind
	// provides none of the required source capabilities.
	ErrSourceCapabilityDisallowed = errors.New("source capabilities not allowed")
	// ErrTargetCapabilityDisallowed marks a reference whose target kind
	// provides none of the required target capabilities.
	ErrTargetCapabilityDisallowed = errors.New("target capabilities not allowed")
)
