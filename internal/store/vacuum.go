// vacuum.go implements permanent deletion of soft-deleted data.
//
// Separated because vacuum is a destructive, irreversible operation with
// different semantics than soft-delete. Vacuum should be called deliberately,
// not as part of normal operations.
//
// Design: Soft-delete enables recovery; vacuum removes that safety net.
// The olderThan parameter allows keeping recent deletions recoverable while
// cleaning up old trash.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Vacuum permanently removes soft-deleted data from the database.
// Parameters:
//   - olderThan: if non-nil, only delete items deleted before this duration ago
//   - path: if non-empty, only delete items matching this path prefix
//
// Returns the total number of rows deleted across all tables.
func (s *SQLiteStore) Vacuum(ctx context.Context, olderThan *time.Duration, path string) (int64, error) {
	var totalDeleted int64

	err := s.Tx(ctx, func(tx *sql.Tx) error {
		var cutoff int64
		if olderThan != nil {
			cutoff = time.Now().Add(-*olderThan).Unix()
		}

		// Delete soft-deleted objects
		objQuery := `DELETE FROM objects WHERE deleted_at IS NOT NULL`
		var objArgs []any
		if olderThan != nil {
			objQuery += ` AND deleted_at < ?`
			objArgs = append(objArgs, cutoff)
		}
		if path != "" {
			objQuery += ` AND path LIKE ?`
			objArgs = append(objArgs, path+"%")
		}

		result, err := tx.ExecContext(ctx, objQuery, objArgs...)
		if err != nil {
			return fmt.Errorf("vacuum objects: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil {
			totalDeleted += n
		}

		// Delete soft-deleted references
		refQuery := `DELETE FROM refs WHERE deleted_at IS NOT NULL`
		var refArgs []any
		if olderThan != nil {
			refQuery += ` AND deleted_at < ?`
			refArgs = append(refArgs, cutoff)
		}
		if path != "" {
			refQuery += ` AND (source_path LIKE ? OR target_path LIKE ?)`
			refArgs = append(refArgs, path+"%", path+"%")
		}
		result, err = tx.ExecContext(ctx, refQuery, refArgs...)
		if err != nil {
			return fmt.Errorf("vacuum references: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil {
			totalDeleted += n
		}

		// Clean up orphaned references (endpoints no longer catalogued)
		result, err = tx.ExecContext(ctx, `DELETE FROM refs WHERE
			source_path NOT IN (SELECT path FROM objects) OR
			target_path NOT IN (SELECT path FROM objects)`)
		if err != nil {
			return fmt.Errorf("vacuum orphan references: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil {
			totalDeleted += n
		}

		return nil
	})

	if err != nil {
		return 0, err
	}
	return totalDeleted, nil
}
