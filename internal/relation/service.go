// Package relation provides higher-level relation operations backed by a
// Store implementation. It exposes a `Service` which wraps a `store.Store`
// and offers convenience methods for cataloguing objects, configuring
// rulesets, and creating validated references between objects.
package relation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/config"
	"github.com/relate-io/relate/internal/log"
	norm "github.com/relate-io/relate/internal/path"
	"github.com/relate-io/relate/internal/repo"
	"github.com/relate-io/relate/internal/service"
	"github.com/relate-io/relate/internal/store"
)

// Service provides higher-level relation operations backed by a Store.
type Service struct {
	store          *store.SQLiteStore
	dbPath         string
	maxPath        int
	defaultRuleset string
	extCtx         extension.Context // for firing events to extensions
}

var _ service.Service = (*Service)(nil)

// New creates a new Service, discovering the DB by walking up the directory tree.
// The db parameter specifies which database to use (empty for default).
// Returns ErrNotInitialised if no matching database is found.
func New(db string) (*Service, error) {
	dbPath, err := repo.Discover(db)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err // config.Load provides detailed, actionable error messages
	}

	return &Service{
		store:          s,
		dbPath:         dbPath,
		maxPath:        cfg.MaxPath(),
		defaultRuleset: cfg.DefaultRuleset(),
	}, nil
}

// Init initialises a new relate store.
// If dir is empty, uses current directory; otherwise uses dir.
// The db parameter specifies which database to create (empty for default).
// If local is true, the database is added to .gitignore (not committed).
//
// Note: Init does not write config. Config is managed separately via "relate config".
func Init(force bool, db string, local bool, dir string) error {
	return repo.Init(force, db, local, dir)
}

// Close checkpoints the WAL and closes the database connection.
func (s *Service) Close() error {
	if err := s.store.Checkpoint(context.Background()); err != nil {
		log.Event("service:close", "checkpoint").
			Detail("error", err.Error()).
			Write(err)
	}
	return s.store.Close()
}

// ReloadConfig reloads configuration from disk and updates cached values.
// Call this after modifying config to ensure the service uses new settings.
func (s *Service) ReloadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s.maxPath = cfg.MaxPath()
	s.defaultRuleset = cfg.DefaultRuleset()
	return nil
}

// SetExtensionContext sets the extension context for firing events.
// Called from cmd/root.go after creating the context.
func (s *Service) SetExtensionContext(ctx extension.Context) {
	s.extCtx = ctx
}

// DefaultRuleset returns the configured default ruleset name.
func (s *Service) DefaultRuleset() string {
	return s.defaultRuleset
}

// resolveRuleset substitutes the configured default for an empty ruleset name.
func (s *Service) resolveRuleset(name string) string {
	if name == "" {
		return s.defaultRuleset
	}
	return name
}

// normalizePath normalises an object path for consistent storage and lookup.
// This is the service-layer entry point; store layer independently validates
// paths for defence-in-depth (protects against direct store access).
func (s *Service) normalizePath(path string) (string, error) {
	return norm.Normalise(path)
}

// normalizePrefix normalises an optional prefix path. Empty prefixes are
// passed through unchanged to enable "list all" operations.
func (s *Service) normalizePrefix(prefix string) (string, error) {
	if prefix == "" {
		return "", nil
	}
	return norm.Normalise(prefix)
}

// fireEvent notifies all registered extension event handlers.
//
// Design: Event handler errors are logged but not propagated. This is intentional:
// events are notifications, not veto points. Extensions observe operations but
// cannot block them. Blocking happens earlier, through ruleset validation.
//
// Thread-safe: extension.All() returns a snapshot copy under read lock,
// and extensions are only registered during init() (never removed).
func (s *Service) fireEvent(e extension.Event) {
	if s.extCtx == nil {
		return
	}
	for _, ext := range extension.All() {
		if h, ok := ext.(extension.EventHandler); ok {
			if err := h.HandleEvent(s.extCtx, e); err != nil {
				log.Event("event:error", "error").
					Detail("ext", ext.Name()).
					Detail("event", string(e.EventType())).
					Write(err)
			}
		}
	}
}

// DB returns the underlying database connection for extensions.
func (s *Service) DB() *sql.DB {
	return s.store.DB()
}

// DBPath returns the path to the database file.
func (s *Service) DBPath() string {
	return s.dbPath
}

// Tx runs a function within a database transaction.
//
// The defer Rollback pattern: We always defer Rollback(), then call Commit()
// at the end. This is safe because Rollback() on a committed transaction is
// a no-op. The pattern guarantees cleanup in all cases:
// - fn() returns error → Rollback() runs, undoing partial changes
// - fn() panics → Rollback() runs via defer
// - Commit() fails → Rollback() runs (already committed portions are safe)
// - Commit() succeeds → Rollback() is a no-op
//
// Why expose raw *sql.Tx: Extensions may need complex operations not covered
// by the Service API. Raw transactions let them do multi-step atomic operations
// while still benefiting from the service's connection management.
func (s *Service) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := fn(tx); err != nil {
		return fmt.Errorf("transaction rolled back: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
