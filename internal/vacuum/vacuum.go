// Package vacuum handles permanent deletion of soft-deleted objects and
// references. This is the only way to reclaim storage; soft-deleted rows
// remain until vacuum removes them, providing a recovery window.
package vacuum

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/relate-io/relate/internal/progress"
	"github.com/relate-io/relate/internal/service"
)

// Options configures vacuum scope and safety checks.
type Options struct {
	OlderThan *time.Duration // Retain recent deletions for recovery
	Prefix    string         // Limit to specific path prefix
	DryRun    bool           // Preview without deleting
}

// Result reports what was deleted, enabling confirmation and logging.
type Result struct {
	Deleted int      // Count of removed rows (objects plus references)
	Paths   []string // Affected object paths (populated in dry-run mode)
}

// Run permanently removes soft-deleted objects and references. This
// operation is irreversible; use DryRun first to preview what will be
// deleted.
func Run(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	if opts.DryRun {
		return preview(ctx, w, svc, opts)
	}

	spin := progress.NewSpinner("Vacuuming")
	spin.Start()
	count, err := svc.Vacuum(ctx, opts.OlderThan, opts.Prefix)
	spin.Stop()

	if err != nil {
		return result, err
	}

	result.Deleted = int(count)
	if count == 0 {
		fmt.Fprintln(w, "Nothing to vacuum")
	} else {
		fmt.Fprintf(w, "Vacuumed %d row(s)\n", count)
	}

	return result, nil
}

// preview simulates vacuum to let users verify before permanent deletion.
// References are reported in aggregate; per-row listing only makes sense
// for objects, which users recognise by path.
func preview(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	objs, err := svc.ListObjects(ctx, opts.Prefix, false, true) // deleted only
	if err != nil {
		return result, err
	}

	for _, o := range objs {
		if o.DeletedAt == nil {
			continue
		}

		// Skip recently deleted objects to give users time to recover
		if opts.OlderThan != nil {
			cutoff := time.Now().Add(-*opts.OlderThan).Unix()
			if *o.DeletedAt >= cutoff {
				continue
			}
		}

		fmt.Fprintf(w, "Would delete: %s (deleted %s)\n",
			o.Path,
			time.Unix(*o.DeletedAt, 0).Format("2006-01-02 15:04"))
		result.Paths = append(result.Paths, o.Path)
		result.Deleted++
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		return result, err
	}
	if stats.DeletedReferences > 0 {
		fmt.Fprintf(w, "Would delete: %d soft-deleted reference(s)\n", stats.DeletedReferences)
		result.Deleted += int(stats.DeletedReferences)
	}

	if result.Deleted == 0 {
		fmt.Fprintln(w, "Nothing to vacuum")
	} else {
		fmt.Fprintf(w, "\nWould delete %d row(s)\n", result.Deleted)
	}

	return result, nil
}
