// stats.go implements statistics queries for operational visibility.
//
// Separated to collect "read-only, aggregate" operations distinct from CRUD.
// These queries power the db command, admin tools, and vacuum planning
// without modifying data.

package store

import (
	"context"
	"database/sql"
)

// Stats returns aggregate database statistics. Provides operational
// visibility into store utilisation for capacity planning and administrative
// tooling.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM objects WHERE deleted_at IS NULL`).Scan(&st.Objects)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM objects WHERE deleted_at IS NOT NULL`).Scan(&st.DeletedObjects)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kinds`).Scan(&st.Kinds)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT capability) FROM kind_capabilities`).Scan(&st.Capabilities)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rulesets`).Scan(&st.Rulesets)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rules`).Scan(&st.Rules)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM refs WHERE deleted_at IS NULL`).Scan(&st.References)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM refs WHERE deleted_at IS NOT NULL`).Scan(&st.DeletedReferences)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COALESCE(MIN(created_at), 0) FROM objects`).Scan(&st.OldestObject)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(created_at), 0) FROM refs`).Scan(&st.NewestReference)
	if err != nil {
		return nil, err
	}

	// Oldest deletion timestamp across objects and references, for vacuum
	// age planning
	var oldestDeleted sql.NullInt64
	err = s.db.QueryRowContext(ctx, `
		SELECT MIN(t) FROM (
			SELECT MIN(deleted_at) AS t FROM objects WHERE deleted_at IS NOT NULL
			UNION ALL
			SELECT MIN(deleted_at) AS t FROM refs WHERE deleted_at IS NOT NULL
		)
	`).Scan(&oldestDeleted)
	if err != nil {
		return nil, err
	}
	if oldestDeleted.Valid {
		st.OldestDeletedAt = oldestDeleted.Int64
	}

	return &st, nil
}
