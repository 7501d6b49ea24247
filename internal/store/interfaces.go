// interfaces.go defines the storage abstraction for relation persistence.
//
// Separated from the SQLite implementation to enable testing and potential
// alternative backends. The interfaces are intentionally granular (Cataloger,
// Registrar, RuleStore, etc.) to support interface segregation - consumers
// only depend on the capabilities they need.
//
// Design: Objects and references use soft-delete semantics. They are never
// immediately removed; they're marked deleted and can be recovered until
// Vacuum permanently purges them. Kind and rule configuration is hard-deleted
// because it is cheap to re-create and has no recovery story.

package store

import (
	"context"
	"database/sql"
	"time"
)

// Cataloger defines operations on the object catalogue. The catalogue is
// relate's index of the host system's content objects; it exists so rules can
// resolve kinds and search candidates without calling back into the host.
type Cataloger interface {
	// AddObject catalogues an object at a path with its kind and title.
	// Re-adding an existing path updates kind and title in place.
	AddObject(ctx context.Context, path, kind, title string, opts ObjectOptions) error

	// Object retrieves a catalogued object by path. Use includeDeleted to
	// access soft-deleted objects for recovery operations.
	Object(ctx context.Context, path string, includeDeleted bool) (*Object, error)

	// ByKey retrieves an object by its unique 8-char key. Returns ErrNotFound
	// if no object exists with that key.
	ByKey(ctx context.Context, key string) (*Object, error)

	// ListObjects returns objects matching a path prefix. The deletedOnly flag
	// enables listing trash contents separately from active objects.
	ListObjects(ctx context.Context, prefix string, includeDeleted bool, deletedOnly bool) ([]Object, error)

	// ListPaths returns only paths, enabling efficient existence checks and
	// tree displays without loading full rows.
	ListPaths(ctx context.Context, prefix string) ([]string, error)

	// Search returns active objects matching every term. Term keys name
	// indexed fields ("kind", "path", "title"); values within a key are OR'd,
	// keys are AND'd. An empty terms map matches every active object.
	// Results are ordered by path.
	Search(ctx context.Context, terms map[string][]string) ([]Object, error)

	// RemoveObject marks an object as deleted without removing data, allowing
	// recovery via RestoreObject until Vacuum permanently removes it.
	RemoveObject(ctx context.Context, path string, opts ObjectOptions) error

	// RestoreObject recovers a soft-deleted object to active status.
	RestoreObject(ctx context.Context, path string, opts ObjectOptions) error

	// Exists checks object presence without loading the row, enabling fast
	// validation before operations that require the object to exist.
	Exists(ctx context.Context, path string) (bool, error)

	// CountObjects returns the active object count for a prefix.
	CountObjects(ctx context.Context, prefix string) (int64, error)

	// CountDeleted returns the count of soft-deleted objects, enabling
	// vacuum preview and trash management.
	CountDeleted(ctx context.Context, prefix string) (int64, error)
}

// Registrar defines operations on the kind registry. Kinds declare which
// capabilities they provide; capability constraints resolve allow-lists
// through KindsProviding.
type Registrar interface {
	// PutKind registers a kind with its capabilities, replacing any previous
	// registration of the same name.
	PutKind(ctx context.Context, info KindInfo) error

	// Kind retrieves a registered kind. Returns ErrNotFound if absent.
	Kind(ctx context.Context, name string) (*KindInfo, error)

	// ListKinds returns all registered kinds ordered by name.
	ListKinds(ctx context.Context) ([]KindInfo, error)

	// ListCapabilities returns every distinct capability any kind provides.
	ListCapabilities(ctx context.Context) ([]string, error)

	// KindsProviding returns the names of kinds providing at least one of the
	// given capabilities, ordered by name. Unknown capabilities contribute
	// nothing; an empty input yields an empty result.
	KindsProviding(ctx context.Context, capabilities []string) ([]string, error)

	// RemoveKind unregisters a kind and its capability associations.
	RemoveKind(ctx context.Context, name string) error
}

// RuleStore defines operations on ruleset and rule configuration.
type RuleStore interface {
	// PutRuleset creates or retitles a ruleset.
	PutRuleset(ctx context.Context, name, title string) error

	// Ruleset retrieves a ruleset with its rule count. Returns ErrNotFound
	// if absent.
	Ruleset(ctx context.Context, name string) (*RulesetInfo, error)

	// ListRulesets returns all rulesets ordered by name.
	ListRulesets(ctx context.Context) ([]RulesetInfo, error)

	// PutRule creates or replaces a rule within a ruleset. The ruleset must
	// exist. Position defaults to append order when zero.
	PutRule(ctx context.Context, cfg RuleConfig) error

	// Rule retrieves a single rule. Returns ErrNotFound if absent.
	Rule(ctx context.Context, ruleset, name string) (*RuleConfig, error)

	// Rules returns a ruleset's rules ordered by position.
	Rules(ctx context.Context, ruleset string) ([]RuleConfig, error)

	// RemoveRule deletes a rule from a ruleset.
	RemoveRule(ctx context.Context, ruleset, name string) error

	// RemoveRuleset deletes a ruleset, its rules, and soft-deletes its
	// references.
	RemoveRuleset(ctx context.Context, name string) error
}

// Referencer defines operations for managing references between objects.
// Rule evaluation happens above this layer; the store persists what the
// service has already validated.
type Referencer interface {
	// AddReference creates a reference between objects under a ruleset.
	// Returns the reference ID for later removal. Re-adding a soft-deleted
	// reference restores it instead of creating a duplicate.
	AddReference(ctx context.Context, ruleset, source, target string, opts ReferenceOptions) (string, error)

	// RemoveReference soft-deletes a specific reference for targeted removal.
	RemoveReference(ctx context.Context, id string) error

	// Reference retrieves a reference by ID. Returns ErrNotFound if absent
	// or soft-deleted.
	Reference(ctx context.Context, id string) (*Reference, error)

	// ListReferences returns active references touching a path in either
	// direction. Pass a ruleset name to filter, empty for all rulesets.
	ListReferences(ctx context.Context, path, ruleset string, opts ReferenceOptions) ([]Reference, error)

	// ListByRuleset returns all active references governed by a ruleset.
	ListByRuleset(ctx context.Context, ruleset string) ([]Reference, error)

	// RemoveReferencesForPath soft-deletes all references touching a path,
	// maintaining referential integrity when objects are removed.
	RemoveReferencesForPath(ctx context.Context, path string, opts ReferenceOptions) error

	// CountReferences returns the active reference count, optionally filtered
	// by ruleset (empty for all).
	CountReferences(ctx context.Context, ruleset string) (int64, error)
}

// Maintainer defines operations for database maintenance and lifecycle.
type Maintainer interface {
	// Close releases the database connection.
	Close() error

	// DB exposes the underlying connection for extensions needing custom tables.
	DB() *sql.DB

	// Checkpoint flushes WAL to the main database file.
	Checkpoint(ctx context.Context) error

	// Vacuum permanently removes soft-deleted data.
	Vacuum(ctx context.Context, olderThan *time.Duration, path string) (int64, error)

	// Stats returns aggregate database statistics for capacity planning
	// and operational dashboards.
	Stats(ctx context.Context) (*Stats, error)
}

// Store defines the persistence interface for the relations engine. Object
// and reference operations are designed for soft-delete semantics, enabling
// recovery until vacuum.
type Store interface {
	Cataloger
	Registrar
	RuleStore
	Referencer
	Maintainer
}
