// Package service defines the shared interface for relation operations.
// Commands and extensions depend on this interface rather than concrete
// implementations, enabling testing with mocks and future backend changes.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/relate-io/relate/internal/ruleset"
	"github.com/relate-io/relate/internal/store"
)

// Service defines all relation operations.
//
// Extensions should use relation.New() to obtain a Service implementation.
// Always call Close() when done (use defer).
//
// Example:
//
//	svc, err := relation.New("")
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	id, err := svc.Connect(ctx, "related", "site/front-page", "site/news")
type Service interface {
	// Close releases database resources. Always defer this after New().
	Close() error

	// AddObject catalogues an object at a path with its kind and title.
	// Re-adding an existing path updates kind and title in place.
	AddObject(ctx context.Context, path, kind, title string) error

	// Object retrieves a catalogued object by path.
	// If includeDeleted is false, returns store.ErrNotFound for deleted objects.
	Object(ctx context.Context, path string, includeDeleted bool) (*store.Object, error)

	// ByKey retrieves an object by its unique 8-char key.
	// Returns store.ErrNotFound if no object exists with that key.
	ByKey(ctx context.Context, key string) (*store.Object, error)

	// Resolve returns an object by path or key. Designed for user-facing entry
	// points where input could be either identifier type.
	//
	// For 8-character inputs, it checks both path and key concurrently since
	// SQLite WAL mode supports parallel reads. Non-8-character inputs are
	// treated as paths only since keys are always exactly 8 characters.
	// Path takes precedence when both match.
	Resolve(ctx context.Context, pathOrKey string, includeDeleted bool) (*store.Object, error)

	// ListObjects returns objects matching a path prefix.
	// Use "" for all objects. Set deletedOnly to list only deleted objects.
	ListObjects(ctx context.Context, prefix string, includeDeleted, deletedOnly bool) ([]store.Object, error)

	// ListPaths returns object paths without loading full rows, enabling
	// efficient enumeration for tree displays and existence checks.
	ListPaths(ctx context.Context, prefix string) ([]string, error)

	// SearchObjects returns active objects matching every term. Term keys name
	// indexed fields ("kind", "path", "title"); values within a key are OR'd,
	// keys are AND'd.
	SearchObjects(ctx context.Context, terms map[string][]string) ([]store.Object, error)

	// RemoveObject soft-deletes an object (can be restored). Extensions are
	// notified so references touching the object can be cleaned up.
	// Returns store.ErrNotFound if the object doesn't exist.
	RemoveObject(ctx context.Context, path string) error

	// RestoreObject un-deletes a soft-deleted object.
	// Returns store.ErrNotFound if the object doesn't exist or isn't deleted.
	RestoreObject(ctx context.Context, path string) error

	// Exists checks if an object exists without fetching the row.
	Exists(ctx context.Context, path string) (bool, error)

	// CountObjects returns the number of active objects matching a path prefix.
	// Use "" to count all objects.
	CountObjects(ctx context.Context, prefix string) (int64, error)

	// PutKind registers a kind with its capabilities, replacing any previous
	// registration of the same name.
	PutKind(ctx context.Context, name, title string, capabilities []string) error

	// Kind retrieves a registered kind. Returns store.ErrNotFound if absent.
	Kind(ctx context.Context, name string) (*store.KindInfo, error)

	// ListKinds returns all registered kinds ordered by name.
	ListKinds(ctx context.Context) ([]store.KindInfo, error)

	// ListCapabilities returns every distinct capability any kind provides.
	ListCapabilities(ctx context.Context) ([]string, error)

	// KindsProviding returns the names of kinds providing at least one of the
	// given capabilities.
	KindsProviding(ctx context.Context, capabilities []string) ([]string, error)

	// RemoveKind unregisters a kind and its capability associations.
	RemoveKind(ctx context.Context, name string) error

	// PutRuleset creates or retitles a ruleset.
	PutRuleset(ctx context.Context, name, title string) error

	// Ruleset retrieves a ruleset with its rule count.
	// Returns store.ErrNotFound if absent.
	Ruleset(ctx context.Context, name string) (*store.RulesetInfo, error)

	// ListRulesets returns all rulesets ordered by name.
	ListRulesets(ctx context.Context) ([]store.RulesetInfo, error)

	// PutRule creates or replaces a rule within a ruleset. The ruleset must
	// exist. Position defaults to append order when zero.
	PutRule(ctx context.Context, cfg store.RuleConfig) error

	// Rule retrieves a single rule. Returns store.ErrNotFound if absent.
	Rule(ctx context.Context, rulesetName, name string) (*store.RuleConfig, error)

	// Rules returns a ruleset's rules ordered by position.
	Rules(ctx context.Context, rulesetName string) ([]store.RuleConfig, error)

	// RemoveRule deletes a rule from a ruleset.
	RemoveRule(ctx context.Context, rulesetName, name string) error

	// RemoveRuleset deletes a ruleset, its rules, and soft-deletes its
	// references.
	RemoveRuleset(ctx context.Context, name string) error

	// Connect validates and creates a reference from source to target under a
	// ruleset, returning the reference ID. Validation runs every rule in the
	// ruleset; failures are reported together as joined ValidationErrors.
	// Pass "" as ruleset to use the configured default.
	Connect(ctx context.Context, rulesetName, source, target string) (string, error)

	// Disconnect validates and soft-deletes a reference by ID. Rules get the
	// chance to veto disconnection before the reference is removed.
	Disconnect(ctx context.Context, id string) error

	// Reference retrieves an active reference by ID.
	// Returns store.ErrNotFound if absent or soft-deleted.
	Reference(ctx context.Context, id string) (*store.Reference, error)

	// ListReferences returns active references touching a path in either
	// direction. Pass a ruleset name to filter, empty for all rulesets.
	ListReferences(ctx context.Context, path, rulesetName string) ([]store.Reference, error)

	// ListByRuleset returns all active references governed by a ruleset.
	ListByRuleset(ctx context.Context, rulesetName string) ([]store.Reference, error)

	// CountReferences returns the active reference count, optionally filtered
	// by ruleset (empty for all).
	CountReferences(ctx context.Context, rulesetName string) (int64, error)

	// RemoveReferencesForPath soft-deletes all references touching a path.
	// Used for cleanup when objects are removed from the catalogue.
	RemoveReferencesForPath(ctx context.Context, path string) error

	// Check re-validates existing references against current rules. Pass a
	// ruleset name to check one ruleset, empty for all. Pass a path to restrict
	// to references touching that path. Returns the references that no longer
	// satisfy their ruleset, with the validation error for each.
	Check(ctx context.Context, rulesetName, path string) ([]CheckResult, error)

	// Candidates returns the objects a source could legally reference under a
	// ruleset, by running the ruleset's vocabulary chain. When no rule in the
	// ruleset provides a vocabulary, every active object except the source is
	// a candidate.
	Candidates(ctx context.Context, rulesetName, source string) ([]ruleset.Summary, error)

	// DB returns the underlying SQLite connection.
	// Extensions use this to create custom tables.
	// Do not close this connection directly; use Service.Close().
	DB() *sql.DB

	// Tx runs a function within a database transaction.
	// If fn returns nil, the transaction is committed.
	// If fn returns an error, the transaction is rolled back.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// Vacuum permanently deletes soft-deleted objects and references.
	// If olderThan is set, only deletes rows deleted before that duration.
	// Returns the count of rows permanently removed.
	Vacuum(ctx context.Context, olderThan *time.Duration, prefix string) (int64, error)

	// Stats returns aggregate database statistics for capacity planning
	// and operational visibility.
	Stats(ctx context.Context) (*store.Stats, error)

	// Checkpoint flushes the WAL to the main database file, removing
	// the -wal and -shm files. Useful before backup or distribution.
	Checkpoint(ctx context.Context) error
}

// CheckResult reports a reference that failed re-validation.
type CheckResult struct {
	Reference store.Reference
	Err       error
}
