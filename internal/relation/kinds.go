// kinds.go implements kind registry operations for the Service layer.
//
// Separated from objects.go because kinds describe the shape of objects
// (which capabilities a kind provides), not the objects themselves. The
// registry is what capability constraints resolve their allow-lists against.

package relation

import (
	"context"

	"github.com/relate-io/relate/internal/store"
)

// PutKind registers a kind with its capabilities, replacing any previous
// registration of the same name.
func (s *Service) PutKind(ctx context.Context, name, title string, capabilities []string) error {
	return s.store.PutKind(ctx, store.KindInfo{
		Name:         name,
		Title:        title,
		Capabilities: capabilities,
	})
}

// Kind retrieves a registered kind.
func (s *Service) Kind(ctx context.Context, name string) (*store.KindInfo, error) {
	return s.store.Kind(ctx, name)
}

// ListKinds returns all registered kinds ordered by name.
func (s *Service) ListKinds(ctx context.Context) ([]store.KindInfo, error) {
	return s.store.ListKinds(ctx)
}

// ListCapabilities returns every distinct capability any kind provides.
func (s *Service) ListCapabilities(ctx context.Context) ([]string, error) {
	return s.store.ListCapabilities(ctx)
}

// KindsProviding returns the names of kinds providing at least one of the
// given capabilities.
func (s *Service) KindsProviding(ctx context.Context, capabilities []string) ([]string, error) {
	return s.store.KindsProviding(ctx, capabilities)
}

// RemoveKind unregisters a kind and its capability associations. Objects of
// the kind stay catalogued; capability constraints simply stop resolving to
// the kind, which "relate ref check" will surface.
func (s *Service) RemoveKind(ctx context.Context, name string) error {
	return s.store.RemoveKind(ctx, name)
}
