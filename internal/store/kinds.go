// kinds.go implements the kind registry for the SQLite store.
//
// Separated from objects.go because kinds are configuration (what content
// kinds exist and what capabilities they provide), while objects are data.
// Capability constraints resolve their allow-lists through KindsProviding.
//
// Design: Kind registration is a full replace - PutKind rewrites the
// capability set atomically inside a transaction so a partially-updated
// registry is never observable.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/relate-io/relate/internal/validate"
)

// PutKind registers a kind with its capabilities, replacing any previous
// registration of the same name.
func (s *SQLiteStore) PutKind(ctx context.Context, info KindInfo) error {
	if err := validate.Name(info.Name); err != nil {
		return err
	}
	if err := validate.Names(info.Capabilities); err != nil {
		return err
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE kinds SET title = ? WHERE name = ?
		`, info.Title, info.Name)
		if err != nil {
			return fmt.Errorf("update kind %s: %w", info.Name, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO kinds (name, title, created_at) VALUES (?, ?, ?)
			`, info.Name, info.Title, time.Now().Unix())
			if err != nil {
				return fmt.Errorf("register kind %s: %w", info.Name, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM kind_capabilities WHERE kind = ?
		`, info.Name); err != nil {
			return fmt.Errorf("clear capabilities for %s: %w", info.Name, err)
		}
		for _, cap := range info.Capabilities {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO kind_capabilities (kind, capability) VALUES (?, ?)
			`, info.Name, cap); err != nil {
				return fmt.Errorf("register capability %s for %s: %w", cap, info.Name, err)
			}
		}
		return nil
	})
}

// Kind retrieves a registered kind with its capabilities.
func (s *SQLiteStore) Kind(ctx context.Context, name string) (*KindInfo, error) {
	var info KindInfo
	var title sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT name, title, created_at FROM kinds WHERE name = ?
	`, name).Scan(&info.Name, &title, &info.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load kind %s: %w", name, err)
	}
	if title.Valid {
		info.Title = title.String
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT capability FROM kind_capabilities WHERE kind = ? ORDER BY capability
	`, name)
	if err != nil {
		return nil, fmt.Errorf("load capabilities for %s: %w", name, err)
	}
	defer rows.Close()

	info.Capabilities, err = scanStrings(rows)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// ListKinds returns all registered kinds ordered by name.
func (s *SQLiteStore) ListKinds(ctx context.Context) ([]KindInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT k.name, k.title, k.created_at, GROUP_CONCAT(c.capability)
		FROM kinds k
		LEFT JOIN kind_capabilities c ON c.kind = k.name
		GROUP BY k.name
		ORDER BY k.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list kinds: %w", err)
	}
	defer rows.Close()

	var kinds []KindInfo
	for rows.Next() {
		var info KindInfo
		var title, caps sql.NullString
		if err := rows.Scan(&info.Name, &title, &info.CreatedAt, &caps); err != nil {
			return nil, fmt.Errorf("scan kind: %w", err)
		}
		if title.Valid {
			info.Title = title.String
		}
		if caps.Valid && caps.String != "" {
			info.Capabilities = strings.Split(caps.String, ",")
		}
		kinds = append(kinds, info)
	}
	return kinds, rows.Err()
}

// ListCapabilities returns every distinct capability any kind provides.
func (s *SQLiteStore) ListCapabilities(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT capability FROM kind_capabilities ORDER BY capability
	`)
	if err != nil {
		return nil, fmt.Errorf("list capabilities: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// KindsProviding returns the names of kinds providing at least one of the
// given capabilities, ordered by name. Unknown capabilities contribute
// nothing. An empty input yields an empty result, never "all kinds" - the
// caller decides what an empty allow-list means.
func (s *SQLiteStore) KindsProviding(ctx context.Context, capabilities []string) ([]string, error) {
	if len(capabilities) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(capabilities)-1) + "?"
	args := make([]any, len(capabilities))
	for i, c := range capabilities {
		args[i] = c
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT kind FROM kind_capabilities
		WHERE capability IN (`+placeholders+`)
		ORDER BY kind
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve capabilities: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// RemoveKind unregisters a kind and its capability associations. Objects of
// the kind remain catalogued; rules referencing the kind simply stop matching.
func (s *SQLiteStore) RemoveKind(ctx context.Context, name string) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM kind_capabilities WHERE kind = ?
		`, name); err != nil {
			return fmt.Errorf("remove capabilities for %s: %w", name, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM kinds WHERE name = ?`, name)
		if err != nil {
			return fmt.Errorf("remove kind %s: %w", name, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
