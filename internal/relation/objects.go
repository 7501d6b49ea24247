// objects.go implements catalogue operations for the Service layer.
//
// Separated from service.go to isolate object CRUD. The Service layer adds
// path normalisation and event firing on top of the raw store operations,
// ensuring consistent path handling across all entry points.
//
// Design: All paths are normalised before reaching the store. This prevents
// "site/page" and "site//page" from being treated as different objects.

package relation

import (
	"context"
	"sync"

	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/store"
)

// AddObject catalogues an object at a path with its kind and title.
// Re-adding an existing path updates kind and title in place.
func (s *Service) AddObject(ctx context.Context, path, kind, title string) error {
	path, err := s.normalizePath(path)
	if err != nil {
		return err
	}
	if err := s.store.AddObject(ctx, path, kind, title, store.ObjectOptions{MaxPath: s.maxPath}); err != nil {
		return err
	}
	s.fireEvent(extension.ObjectEvent{Path: path, Kind: kind, Type: extension.EventObjectAdd})
	return nil
}

// Object retrieves a catalogued object by path.
func (s *Service) Object(ctx context.Context, path string, includeDeleted bool) (*store.Object, error) {
	path, err := s.normalizePath(path)
	if err != nil {
		return nil, err
	}
	return s.store.Object(ctx, path, includeDeleted)
}

// ByKey retrieves an object by its unique 8-char key.
func (s *Service) ByKey(ctx context.Context, key string) (*store.Object, error) {
	return s.store.ByKey(ctx, key)
}

// Resolve returns an object by path or key. Designed for user-facing entry
// points such as CLI commands and MCP tools where input could be either type.
//
// Users see keys in relate object ls output and naturally want to use them
// with other commands. An 8-character string like "my-notes" could be either
// a valid path or a key, so we check both, with path taking precedence.
//
// SQLite in WAL mode supports concurrent reads, so the two lookups run in
// parallel rather than sequentially for the ambiguous 8-character case.
func (s *Service) Resolve(ctx context.Context, pathOrKey string, includeDeleted bool) (*store.Object, error) {
	// Keys are always exactly 8 characters. Longer or shorter inputs can only
	// be paths.
	if len(pathOrKey) != 8 {
		return s.Object(ctx, pathOrKey, includeDeleted)
	}

	var pathObj, keyObj *store.Object
	var pathErr, keyErr error

	var wg sync.WaitGroup
	wg.Go(func() {
		pathObj, pathErr = s.Object(ctx, pathOrKey, includeDeleted)
	})
	wg.Go(func() {
		keyObj, keyErr = s.ByKey(ctx, pathOrKey)
	})
	wg.Wait()

	// Path takes precedence. If someone catalogued an object at "my-notes",
	// they mean that path rather than a key that happens to match.
	if pathErr == nil {
		return pathObj, nil
	}
	if keyErr == nil {
		return keyObj, nil
	}
	// Both failed. Return path error since that is more intuitive for users.
	return nil, pathErr
}

// ListObjects returns objects matching a path prefix.
func (s *Service) ListObjects(ctx context.Context, prefix string, includeDeleted, deletedOnly bool) ([]store.Object, error) {
	prefix, err := s.normalizePrefix(prefix)
	if err != nil {
		return nil, err
	}
	return s.store.ListObjects(ctx, prefix, includeDeleted, deletedOnly)
}

// ListPaths returns object paths without loading full rows. Enables efficient
// enumeration for tree displays and existence checks.
func (s *Service) ListPaths(ctx context.Context, prefix string) ([]string, error) {
	prefix, err := s.normalizePrefix(prefix)
	if err != nil {
		return nil, err
	}
	return s.store.ListPaths(ctx, prefix)
}

// SearchObjects returns active objects matching every term. Term keys name
// indexed fields ("kind", "path", "title"); values within a key are OR'd,
// keys are AND'd.
func (s *Service) SearchObjects(ctx context.Context, terms map[string][]string) ([]store.Object, error) {
	return s.store.Search(ctx, terms)
}

// RemoveObject soft-deletes an object. Extensions are notified so references
// touching the object can be cleaned up (the ref extension soft-deletes them).
func (s *Service) RemoveObject(ctx context.Context, path string) error {
	path, err := s.normalizePath(path)
	if err != nil {
		return err
	}
	obj, err := s.store.Object(ctx, path, false)
	if err != nil {
		return err
	}
	if err := s.store.RemoveObject(ctx, path, store.ObjectOptions{MaxPath: s.maxPath}); err != nil {
		return err
	}
	s.fireEvent(extension.ObjectEvent{Path: path, Kind: obj.Kind, Type: extension.EventObjectRemove})
	return nil
}

// RestoreObject recovers a soft-deleted object to active status.
func (s *Service) RestoreObject(ctx context.Context, path string) error {
	path, err := s.normalizePath(path)
	if err != nil {
		return err
	}
	if err := s.store.RestoreObject(ctx, path, store.ObjectOptions{MaxPath: s.maxPath}); err != nil {
		return err
	}
	s.fireEvent(extension.ObjectEvent{Path: path, Type: extension.EventObjectRestore})
	return nil
}

// Exists checks if an object exists without fetching the row.
func (s *Service) Exists(ctx context.Context, path string) (bool, error) {
	path, err := s.normalizePath(path)
	if err != nil {
		return false, err
	}
	return s.store.Exists(ctx, path)
}

// CountObjects returns the number of active objects matching a path prefix.
func (s *Service) CountObjects(ctx context.Context, prefix string) (int64, error) {
	prefix, err := s.normalizePrefix(prefix)
	if err != nil {
		return 0, err
	}
	return s.store.CountObjects(ctx, prefix)
}
