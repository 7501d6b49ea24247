// references.go implements reference persistence for the SQLite store.
//
// Separated from objects.go because references are edges between objects
// (two endpoints, a governing ruleset, traversable in either direction),
// while objects are nodes. Rule evaluation happens in the service layer;
// this file persists what has already been validated.
//
// Design: References are soft-deleted independently of objects. When an
// object is removed, its references are also soft-deleted to maintain
// referential integrity. A re-added reference restores the soft-deleted row
// instead of creating a duplicate.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/relate-io/relate/internal/validate"
)

const refColumns = `id, ruleset, source_path, target_path, created_at, deleted_at`

// AddReference creates a reference between objects under a ruleset. Avoids
// generating unused IDs by restoring a soft-deleted match or returning an
// existing active reference first.
func (s *SQLiteStore) AddReference(ctx context.Context, ruleset, source, target string, opts ReferenceOptions) (string, error) {
	if err := validate.Name(ruleset); err != nil {
		return "", err
	}
	if _, err := validate.Path(source, opts.MaxPath); err != nil {
		return "", err
	}
	if _, err := validate.Path(target, opts.MaxPath); err != nil {
		return "", err
	}
	if err := validate.Reference(source, target); err != nil {
		return "", err
	}

	// First try to restore a soft-deleted reference (avoids generating unused IDs)
	res, err := s.db.ExecContext(ctx, `
		UPDATE refs SET deleted_at = NULL
		WHERE ruleset = ? AND source_path = ? AND target_path = ? AND deleted_at IS NOT NULL
	`, ruleset, source, target)
	if err != nil {
		return "", fmt.Errorf("restoring reference: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		var id string
		err := s.db.QueryRowContext(ctx, `
			SELECT id FROM refs
			WHERE ruleset = ? AND source_path = ? AND target_path = ? AND deleted_at IS NULL
		`, ruleset, source, target).Scan(&id)
		if err != nil {
			return "", fmt.Errorf("fetching restored reference ID: %w", err)
		}
		return id, nil
	}

	// Check if an active reference already exists
	var existingID string
	err = s.db.QueryRowContext(ctx, `
		SELECT id FROM refs
		WHERE ruleset = ? AND source_path = ? AND target_path = ? AND deleted_at IS NULL
	`, ruleset, source, target).Scan(&existingID)
	if err == nil {
		return existingID, nil
	}

	id, err := genID()
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO refs (id, ruleset, source_path, target_path, created_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, NULL)
	`, id, ruleset, source, target, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("creating reference: %w", err)
	}
	return id, nil
}

// RemoveReference soft-deletes a specific reference, enabling targeted
// removal while preserving the row for potential recovery until vacuum.
func (s *SQLiteStore) RemoveReference(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE refs SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("remove reference %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove reference %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Reference retrieves an active reference by ID.
func (s *SQLiteStore) Reference(ctx context.Context, id string) (*Reference, error) {
	var r Reference
	var del sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT `+refColumns+` FROM refs WHERE id = ? AND deleted_at IS NULL
	`, id).Scan(&r.ID, &r.Ruleset, &r.SourcePath, &r.TargetPath, &r.CreatedAt, &del)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load reference %s: %w", id, err)
	}
	if del.Valid {
		r.DeletedAt = &del.Int64
	}
	return &r, nil
}

// ListReferences finds references touching a path in either direction,
// enabling relationship discovery regardless of direction. Pass a ruleset
// name to filter, empty for all rulesets.
func (s *SQLiteStore) ListReferences(ctx context.Context, path, ruleset string, opts ReferenceOptions) ([]Reference, error) {
	query := `SELECT ` + refColumns + ` FROM refs
		WHERE (source_path = ? OR target_path = ?) AND deleted_at IS NULL`
	args := []any{path, path}

	if ruleset != "" {
		query += ` AND ruleset = ?`
		args = append(args, ruleset)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list references for %s: %w", path, err)
	}
	defer rows.Close()

	return scanReferences(rows)
}

// ListByRuleset returns all active references governed by a ruleset, for
// re-validation after configuration changes and relationship analysis.
func (s *SQLiteStore) ListByRuleset(ctx context.Context, ruleset string) ([]Reference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+refColumns+` FROM refs
		WHERE ruleset = ? AND deleted_at IS NULL
		ORDER BY source_path, target_path
	`, ruleset)
	if err != nil {
		return nil, fmt.Errorf("list references by ruleset %s: %w", ruleset, err)
	}
	defer rows.Close()

	return scanReferences(rows)
}

// RemoveReferencesForPath soft-deletes all references touching a path,
// maintaining referential integrity when objects are removed.
func (s *SQLiteStore) RemoveReferencesForPath(ctx context.Context, path string, opts ReferenceOptions) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE refs SET deleted_at = ?
		WHERE (source_path = ? OR target_path = ?) AND deleted_at IS NULL
	`, time.Now().Unix(), path, path)
	return err
}

// CountReferences returns the active reference count, optionally filtered
// by ruleset.
func (s *SQLiteStore) CountReferences(ctx context.Context, ruleset string) (int64, error) {
	q := `SELECT COUNT(*) FROM refs WHERE deleted_at IS NULL`
	var args []any
	if ruleset != "" {
		q += ` AND ruleset = ?`
		args = append(args, ruleset)
	}

	var count int64
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&count)
	return count, err
}

// scanReferences iterates over query results, collecting references into a slice.
func scanReferences(rows *sql.Rows) ([]Reference, error) {
	var refs []Reference
	for rows.Next() {
		var r Reference
		var del sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Ruleset, &r.SourcePath, &r.TargetPath, &r.CreatedAt, &del); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		if del.Valid {
			r.DeletedAt = &del.Int64
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}
