// Package store defines relation persistence types and the Store interface.
// Implementations handle the actual database operations while consumers
// depend only on this interface, enabling testing and alternative backends.
package store

import (
	"encoding/json"
	"time"
)

// Object represents a catalogued content object. relate does not own the
// objects themselves; it indexes path, kind, and title so rules can be
// evaluated and candidates searched without touching the host system.
type Object struct {
	ID        int64  // Database primary key (internal)
	Key       string // Unique 8-char identifier
	Path      string // Object path (e.g., "site/front-page")
	Kind      string // Content kind (e.g., "Document")
	Title     string // Display title, may be empty
	CreatedAt int64  // Unix timestamp of cataloguing
	DeletedAt *int64 // Unix timestamp of deletion, nil if not deleted
}

// ObjectJSON is the API-friendly representation of an Object with formatted
// timestamps and omitted internal fields.
type ObjectJSON struct {
	Key       string `json:"key"`
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"created_at"`
	Deleted   bool   `json:"deleted,omitempty"`
}

// ToJSON converts an Object to its API representation with RFC3339 timestamps.
func (o *Object) ToJSON() ObjectJSON {
	return ObjectJSON{
		Key:       o.Key,
		Path:      o.Path,
		Kind:      o.Kind,
		Title:     o.Title,
		CreatedAt: time.Unix(o.CreatedAt, 0).UTC().Format(time.RFC3339),
		Deleted:   o.DeletedAt != nil,
	}
}

// KindInfo describes a registered content kind and the capabilities it
// provides. Capability constraints resolve their allow-lists through this
// registry.
type KindInfo struct {
	Name         string   // Kind identifier (e.g., "Document")
	Title        string   // Display title, may be empty
	Capabilities []string // Capabilities this kind provides
	CreatedAt    int64    // Unix timestamp of registration
}

// KindJSON is the API-friendly representation of a KindInfo.
type KindJSON struct {
	Name         string   `json:"name"`
	Title        string   `json:"title,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

// ToJSON converts a KindInfo to its API representation.
func (k *KindInfo) ToJSON() KindJSON {
	return KindJSON{
		Name:         k.Name,
		Title:        k.Title,
		Capabilities: k.Capabilities,
		CreatedAt:    time.Unix(k.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

// Rule variants. VariantKind restricts endpoints by concrete kind;
// VariantCapability restricts them by provided capability.
const (
	VariantKind       = "kind"
	VariantCapability = "capability"
)

// RuleConfig is the persisted configuration of one constraint rule within a
// ruleset. Allow-lists are stored as JSON arrays; an empty list means no
// restriction on that side.
type RuleConfig struct {
	Ruleset        string   // Owning ruleset name
	Name           string   // Rule name, unique within the ruleset
	Position       int      // Evaluation order within the ruleset
	Variant        string   // VariantKind or VariantCapability
	AllowedSources []string // Allowed source kinds or capabilities
	AllowedTargets []string // Allowed target kinds or capabilities
	CreatedAt      int64    // Unix timestamp of creation
}

// RuleJSON is the API-friendly representation of a RuleConfig.
type RuleJSON struct {
	Ruleset        string   `json:"ruleset"`
	Name           string   `json:"name"`
	Position       int      `json:"position"`
	Variant        string   `json:"variant"`
	AllowedSources []string `json:"allowed_sources,omitempty"`
	AllowedTargets []string `json:"allowed_targets,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// ToJSON converts a RuleConfig to its API representation.
func (r *RuleConfig) ToJSON() RuleJSON {
	return RuleJSON{
		Ruleset:        r.Ruleset,
		Name:           r.Name,
		Position:       r.Position,
		Variant:        r.Variant,
		AllowedSources: r.AllowedSources,
		AllowedTargets: r.AllowedTargets,
		CreatedAt:      time.Unix(r.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

// RulesetInfo describes a named ruleset: a relation type governing a set of
// references, with an ordered list of rules attached.
type RulesetInfo struct {
	Name      string // Unique ruleset name (e.g., "related")
	Title     string // Display title used in validation messages
	CreatedAt int64  // Unix timestamp of creation
	RuleCount int64  // Number of rules attached
}

// RulesetJSON is the API-friendly representation of a RulesetInfo.
type RulesetJSON struct {
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"created_at"`
	RuleCount int64  `json:"rule_count"`
}

// ToJSON converts a RulesetInfo to its API representation.
func (r *RulesetInfo) ToJSON() RulesetJSON {
	return RulesetJSON{
		Name:      r.Name,
		Title:     r.Title,
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC().Format(time.RFC3339),
		RuleCount: r.RuleCount,
	}
}

// Reference represents a directed connection between two objects under a
// ruleset. References are soft-deleted so disconnections can be audited and
// recovered until vacuum.
type Reference struct {
	ID         string // Unique 8-char identifier
	Ruleset    string // Governing ruleset name
	SourcePath string // Source object path
	TargetPath string // Target object path
	CreatedAt  int64  // Unix timestamp of creation
	DeletedAt  *int64 // Unix timestamp of deletion, nil if not deleted
}

// ReferenceJSON is the API-friendly representation of a Reference with
// formatted timestamps and omitted internal fields.
type ReferenceJSON struct {
	ID         string `json:"id"`
	Ruleset    string `json:"ruleset"`
	SourcePath string `json:"source_path"`
	TargetPath string `json:"target_path"`
	CreatedAt  string `json:"created_at"`
}

// ToJSON converts a Reference to its API representation with RFC3339 timestamps.
func (r *Reference) ToJSON() ReferenceJSON {
	return ReferenceJSON{
		ID:         r.ID,
		Ruleset:    r.Ruleset,
		SourcePath: r.SourcePath,
		TargetPath: r.TargetPath,
		CreatedAt:  time.Unix(r.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

// MarshalJSON encodes a value with indentation for human-readable CLI output.
// Use this instead of json.Marshal when the output will be displayed to users.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// ObjectOptions configures object catalogue operations.
type ObjectOptions struct {
	MaxPath int // Max path length for validation, 0 means no limit
}

// ReferenceOptions configures reference operations.
type ReferenceOptions struct {
	MaxPath int // Max path length for validation, 0 means no limit
}

// Stats provides aggregate database statistics for capacity planning and
// operational visibility.
type Stats struct {
	Objects           int64 // Active (non-deleted) object count
	DeletedObjects    int64 // Soft-deleted objects pending vacuum
	Kinds             int64 // Registered kinds
	Capabilities      int64 // Distinct capabilities across all kinds
	Rulesets          int64 // Configured rulesets
	Rules             int64 // Rules across all rulesets
	References        int64 // Active references
	DeletedReferences int64 // Soft-deleted references pending vacuum
	OldestObject      int64 // Unix timestamp of earliest catalogued object
	NewestReference   int64 // Unix timestamp of most recent reference
	OldestDeletedAt   int64 // Unix timestamp of earliest soft-delete (0 if none)
}
