// maint.go implements maintenance operations for the Service layer.

package relation

import (
	"context"
	"time"

	"github.com/relate-io/relate/internal/store"
)

// Vacuum permanently deletes soft-deleted objects and references.
// If olderThan is set, only rows deleted before that duration are removed.
// Returns the count of rows permanently removed.
func (s *Service) Vacuum(ctx context.Context, olderThan *time.Duration, prefix string) (int64, error) {
	prefix, err := s.normalizePrefix(prefix)
	if err != nil {
		return 0, err
	}
	return s.store.Vacuum(ctx, olderThan, prefix)
}

// Stats returns aggregate database statistics. Provides operational visibility
// for capacity planning and monitoring dashboards.
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	return s.store.Stats(ctx)
}

// Checkpoint flushes the WAL to the main database file.
func (s *Service) Checkpoint(ctx context.Context) error {
	return s.store.Checkpoint(ctx)
}
