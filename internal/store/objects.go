// objects.go implements object catalogue operations for the SQLite store.
//
// Separated from the main store file to isolate the catalogue from kind and
// rule configuration. The catalogue is relate's view of the host system's
// content: one row per path with the kind and title rule evaluation needs.
//
// Design: Re-cataloguing an existing path updates it in place rather than
// erroring, because the host system owns the objects and relate merely
// mirrors them. The includeDeleted flag controls whether soft-deleted
// objects are visible.

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

const objectColumns = `id, key, path, kind, title, created_at, deleted_at`

// AddObject catalogues an object, updating kind and title in place when the
// path already exists. A soft-deleted object at the path is revived.
func (s *SQLiteStore) AddObject(ctx context.Context, path, kind, title string, opts ObjectOptions) error {
	p, err := validate.Path(path, opts.MaxPath)
	if err != nil {
		return err
	}
	if err := validate.Name(kind); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE objects SET kind = ?, title = ?, deleted_at = NULL
		WHERE path = ?
	`, kind, title, p)
	if err != nil {
		return fmt.Errorf("update object %s: %w", p, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	key, err := genID()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO objects (key, path, kind, title, created_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, NULL)
	`, key, p, kind, title, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("catalogue object %s: %w", p, err)
	}
	return nil
}

// Object retrieves a catalogued object by path. The includeDeleted flag
// enables reading soft-deleted objects for recovery workflows - without it,
// deleted objects are invisible to prevent accidental use.
func (s *SQLiteStore) Object(ctx context.Context, path string, includeDeleted bool) (*Object, error) {
	query := `SELECT ` + objectColumns + ` FROM objects WHERE path = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	return s.scanObjectRow(s.db.QueryRowContext(ctx, query, path))
}

// ByKey retrieves an object by its 8-character unique key. Keys provide
// stable external references that survive renames.
func (s *SQLiteStore) ByKey(ctx context.Context, key string) (*Object, error) {
	query := `SELECT ` + objectColumns + ` FROM objects WHERE key = ?`
	return s.scanObjectRow(s.db.QueryRowContext(ctx, query, key))
}

// ListObjects returns objects matching a path prefix. The deletedOnly flag
// enables listing trash contents separately from active objects.
func (s *SQLiteStore) ListObjects(ctx context.Context, prefix string, includeDeleted bool, deletedOnly bool) ([]Object, error) {
	q := `SELECT ` + objectColumns + ` FROM objects`
	var args []any
	var conditions []string

	if prefix != "" {
		conditions = append(conditions, `path LIKE ?`)
		args = append(args, prefix+"%")
	}

	switch {
	case deletedOnly:
		conditions = append(conditions, `deleted_at IS NOT NULL`)
	case !includeDeleted:
		conditions = append(conditions, `deleted_at IS NULL`)
	}

	if len(conditions) > 0 {
		q += ` WHERE ` + strings.Join(conditions, ` AND `)
	}
	q += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	defer rows.Close()

	return s.scanObjects(rows)
}

// ListPaths returns only object paths, enabling efficient existence checks
// and tree displays without loading full rows.
func (s *SQLiteStore) ListPaths(ctx context.Context, prefix string) ([]string, error) {
	q := `SELECT path FROM objects WHERE deleted_at IS NULL`
	var args []any

	if prefix != "" {
		q += ` AND path LIKE ?`
		args = append(args, prefix+"%")
	}
	q += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// searchFields whitelists the term keys Search accepts, mapping them to
// column names. Terms are caller-supplied, so unknown keys are rejected
// rather than interpolated into SQL.
var searchFields = map[string]string{
	"kind":  "kind",
	"path":  "path",
	"title": "title",
}

// Search returns active objects matching every term: values within a key are
// OR'd, keys are AND'd. An empty terms map matches every active object.
// Results are ordered by path, which keeps vocabulary output deterministic.
func (s *SQLiteStore) Search(ctx context.Context, terms map[string][]string) ([]Object, error) {
	q := `SELECT ` + objectColumns + ` FROM objects WHERE deleted_at IS NULL`
	var args []any

	// Iterate the whitelist, not the input, for deterministic query text.
	for field, column := range searchFields {
		values, ok := terms[field]
		if !ok {
			continue
		}
		if len(values) == 0 {
			// A present key with no values matches nothing.
			return []Object{}, nil
		}
		placeholders := strings.Repeat("?, ", len(values)-1) + "?"
		q += ` AND ` + column + ` IN (` + placeholders + `)`
		for _, v := range values {
			args = append(args, v)
		}
	}

	for field := range terms {
		if _, ok := searchFields[field]; !ok {
			return nil, fmt.Errorf("search term %q: unknown field", field)
		}
	}

	q += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("search objects: %w", err)
	}
	defer rows.Close()

	objects, err := s.scanObjects(rows)
	if err != nil {
		return nil, err
	}
	if objects == nil {
		objects = []Object{}
	}
	return objects, nil
}

// RemoveObject marks an object as deleted without removing data, allowing
// recovery via RestoreObject until Vacuum permanently removes it.
func (s *SQLiteStore) RemoveObject(ctx context.Context, path string, opts ObjectOptions) error {
	p, err := validate.Path(path, opts.MaxPath)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE objects SET deleted_at = ?
		WHERE path = ? AND deleted_at IS NULL
	`, time.Now().Unix(), p)
	if err != nil {
		return fmt.Errorf("remove object %s: %w", p, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove object %s: %w", p, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RestoreObject recovers a soft-deleted object to active status.
func (s *SQLiteStore) RestoreObject(ctx context.Context, path string, opts ObjectOptions) error {
	p, err := validate.Path(path, opts.MaxPath)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE objects SET deleted_at = NULL
		WHERE path = ? AND deleted_at IS NOT NULL
	`, p)
	if err != nil {
		return fmt.Errorf("restore object %s: %w", p, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("restore object %s: %w", p, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists checks object presence without loading the row.
func (s *SQLiteStore) Exists(ctx context.Context, path string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM objects WHERE path = ? AND deleted_at IS NULL
	`, path).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check object %s: %w", path, err)
	}
	return true, nil
}

// CountObjects returns the active object count for a prefix.
func (s *SQLiteStore) CountObjects(ctx context.Context, prefix string) (int64, error) {
	q := `SELECT COUNT(*) FROM objects WHERE deleted_at IS NULL`
	var args []any

	if prefix != "" {
		q += ` AND path LIKE ?`
		args = append(args, prefix+"%")
	}

	var count int64
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&count)
	return count, err
}

// CountDeleted returns the count of soft-deleted objects. Supports vacuum
// preview to show users how many objects will be affected.
func (s *SQLiteStore) CountDeleted(ctx context.Context, prefix string) (int64, error) {
	q := `SELECT COUNT(*) FROM objects WHERE deleted_at IS NOT NULL`
	var args []any

	if prefix != "" {
		q += ` AND path LIKE ?`
		args = append(args, prefix+"%")
	}

	var count int64
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&count)
	return count, err
}

// scanStrings iterates over single-column query results.
func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
