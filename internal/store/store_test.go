package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relate-io/relate/internal/store"
	"github.com/relate-io/relate/internal/validate"
)

// setupStore creates a temporary SQLite store for testing.
// Returns the store and a cleanup function.
func setupStore(t *testing.T) (*store.SQLiteStore, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "relate-store-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)

	require.NoError(t, s.Init())

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

// --- Object catalogue ---

func TestStore_AddAndGetObject(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	err := s.AddObject(ctx, "site/front-page", "Document", "Front Page", store.ObjectOptions{})
	require.NoError(t, err)

	obj, err := s.Object(ctx, "site/front-page", false)
	require.NoError(t, err)

	assert.Equal(t, "site/front-page", obj.Path)
	assert.Equal(t, "Document", obj.Kind)
	assert.Equal(t, "Front Page", obj.Title)
	assert.NotEmpty(t, obj.Key)
	assert.Nil(t, obj.DeletedAt)
}

func TestStore_AddObjectUpdatesInPlace(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.AddObject(ctx, "site/page", "Document", "Old", store.ObjectOptions{}))
	require.NoError(t, s.AddObject(ctx, "site/page", "Image", "New", store.ObjectOptions{}))

	obj, err := s.Object(ctx, "site/page", false)
	require.NoError(t, err)
	assert.Equal(t, "Image", obj.Kind)
	assert.Equal(t, "New", obj.Title)

	count, err := s.CountObjects(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStore_ObjectValidation(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	err := s.AddObject(ctx, "", "Document", "", store.ObjectOptions{})
	assert.ErrorIs(t, err, validate.ErrInvalidPath)

	err = s.AddObject(ctx, "site/page", "", "", store.ObjectOptions{})
	assert.ErrorIs(t, err, validate.ErrInvalidName)

	err = s.AddObject(ctx, "site/very-long-path", "Document", "", store.ObjectOptions{MaxPath: 5})
	assert.ErrorIs(t, err, validate.ErrPathTooLong)
}

func TestStore_ByKey(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.AddObject(ctx, "site/page", "Document", "", store.ObjectOptions{}))

	obj, err := s.Object(ctx, "site/page", false)
	require.NoError(t, err)

	byKey, err := s.ByKey(ctx, obj.Key)
	require.NoError(t, err)
	assert.Equal(t, obj.Path, byKey.Path)

	_, err = s.ByKey(ctx, "missing1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_RemoveAndRestoreObject(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.AddObject(ctx, "site/page", "Document", "", store.ObjectOptions{}))
	require.NoError(t, s.RemoveObject(ctx, "site/page", store.ObjectOptions{}))

	_, err := s.Object(ctx, "site/page", false)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Visible with includeDeleted
	obj, err := s.Object(ctx, "site/page", true)
	require.NoError(t, err)
	assert.NotNil(t, obj.DeletedAt)

	deleted, err := s.CountDeleted(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	require.NoError(t, s.RestoreObject(ctx, "site/page", store.ObjectOptions{}))
	obj, err = s.Object(ctx, "site/page", false)
	require.NoError(t, err)
	assert.Nil(t, obj.DeletedAt)

	// Double remove/restore report not found
	assert.ErrorIs(t, s.RestoreObject(ctx, "site/page", store.ObjectOptions{}), store.ErrNotFound)
	assert.ErrorIs(t, s.RemoveObject(ctx, "missing/page", store.ObjectOptions{}), store.ErrNotFound)
}

func TestStore_ListObjectsAndPaths(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.AddObject(ctx, "site/a", "Document", "", store.ObjectOptions{}))
	require.NoError(t, s.AddObject(ctx, "site/b", "Image", "", store.ObjectOptions{}))
	require.NoError(t, s.AddObject(ctx, "other/c", "Document", "", store.ObjectOptions{}))
	require.NoError(t, s.RemoveObject(ctx, "site/b", store.ObjectOptions{}))

	objects, err := s.ListObjects(ctx, "site/", false, false)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "site/a", objects[0].Path)

	objects, err = s.ListObjects(ctx, "site/", true, false)
	require.NoError(t, err)
	assert.Len(t, objects, 2)

	objects, err = s.ListObjects(ctx, "", false, true)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "site/b", objects[0].Path)

	paths, err := s.ListPaths(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"other/c", "site/a"}, paths)

	ok, err := s.Exists(ctx, "site/a")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Exists(ctx, "site/b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Search(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.AddObject(ctx, "site/doc-1", "Document", "First", store.ObjectOptions{}))
	require.NoError(t, s.AddObject(ctx, "site/img-1", "Image", "Picture", store.ObjectOptions{}))
	require.NoError(t, s.AddObject(ctx, "site/doc-2", "Document", "Second", store.ObjectOptions{}))
	require.NoError(t, s.RemoveObject(ctx, "site/doc-2", store.ObjectOptions{}))

	t.Run("by kind", func(t *testing.T) {
		objects, err := s.Search(ctx, map[string][]string{"kind": {"Document"}})
		require.NoError(t, err)
		require.Len(t, objects, 1)
		assert.Equal(t, "site/doc-1", objects[0].Path)
	})

	t.Run("multiple kinds ordered by path", func(t *testing.T) {
		objects, err := s.Search(ctx, map[string][]string{"kind": {"Document", "Image"}})
		require.NoError(t, err)
		require.Len(t, objects, 2)
		assert.Equal(t, "site/doc-1", objects[0].Path)
		assert.Equal(t, "site/img-1", objects[1].Path)
	})

	t.Run("empty terms match everything active", func(t *testing.T) {
		objects, err := s.Search(ctx, map[string][]string{})
		require.NoError(t, err)
		assert.Len(t, objects, 2)
	})

	t.Run("present key with no values matches nothing", func(t *testing.T) {
		objects, err := s.Search(ctx, map[string][]string{"kind": {}})
		require.NoError(t, err)
		assert.Empty(t, objects)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := s.Search(ctx, map[string][]string{"owner": {"alice"}})
		require.Error(t, err)
	})
}

// --- Kind registry ---

func TestStore_KindRegistry(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.PutKind(ctx, store.KindInfo{
		Name:         "Document",
		Title:        "Document",
		Capabilities: []string{"referenceable", "versionable"},
	}))
	require.NoError(t, s.PutKind(ctx, store.KindInfo{
		Name:         "Image",
		Capabilities: []string{"referenceable"},
	}))

	kind, err := s.Kind(ctx, "Document")
	require.NoError(t, err)
	assert.Equal(t, []string{"referenceable", "versionable"}, kind.Capabilities)

	kinds, err := s.ListKinds(ctx)
	require.NoError(t, err)
	require.Len(t, kinds, 2)
	assert.Equal(t, "Document", kinds[0].Name)
	assert.Equal(t, "Image", kinds[1].Name)

	caps, err := s.ListCapabilities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"referenceable", "versionable"}, caps)

	_, err = s.Kind(ctx, "File")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_PutKindReplacesCapabilities(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.PutKind(ctx, store.KindInfo{
		Name:         "Document",
		Capabilities: []string{"referenceable", "versionable"},
	}))
	require.NoError(t, s.PutKind(ctx, store.KindInfo{
		Name:         "Document",
		Capabilities: []string{"printable"},
	}))

	kind, err := s.Kind(ctx, "Document")
	require.NoError(t, err)
	assert.Equal(t, []string{"printable"}, kind.Capabilities)
}

func TestStore_KindsProviding(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.PutKind(ctx, store.KindInfo{Name: "Document", Capabilities: []string{"referenceable", "versionable"}}))
	require.NoError(t, s.PutKind(ctx, store.KindInfo{Name: "Image", Capabilities: []string{"referenceable"}}))
	require.NoError(t, s.PutKind(ctx, store.KindInfo{Name: "Folder", Capabilities: []string{"container"}}))

	kinds, err := s.KindsProviding(ctx, []string{"referenceable"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Document", "Image"}, kinds)

	// Union across capabilities, deduplicated
	kinds, err = s.KindsProviding(ctx, []string{"referenceable", "versionable"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Document", "Image"}, kinds)

	// Unknown capability resolves to nothing
	kinds, err = s.KindsProviding(ctx, []string{"printable"})
	require.NoError(t, err)
	assert.Empty(t, kinds)

	// Empty input resolves to nothing, not everything
	kinds, err = s.KindsProviding(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, kinds)
}

func TestStore_RemoveKind(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.PutKind(ctx, store.KindInfo{Name: "Document", Capabilities: []string{"referenceable"}}))
	require.NoError(t, s.RemoveKind(ctx, "Document"))

	_, err := s.Kind(ctx, "Document")
	assert.ErrorIs(t, err, store.ErrNotFound)

	kinds, err := s.KindsProviding(ctx, []string{"referenceable"})
	require.NoError(t, err)
	assert.Empty(t, kinds)

	assert.ErrorIs(t, s.RemoveKind(ctx, "Document"), store.ErrNotFound)
}

// --- Rulesets and rules ---

func TestStore_RulesetLifecycle(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.PutRuleset(ctx, "related", "Related Items"))

	rs, err := s.Ruleset(ctx, "related")
	require.NoError(t, err)
	assert.Equal(t, "Related Items", rs.Title)
	assert.Equal(t, int64(0), rs.RuleCount)

	// Retitle in place
	require.NoError(t, s.PutRuleset(ctx, "related", "Related Content"))
	rs, err = s.Ruleset(ctx, "related")
	require.NoError(t, err)
	assert.Equal(t, "Related Content", rs.Title)

	list, err := s.ListRulesets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = s.Ruleset(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_RuleLifecycle(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.PutRuleset(ctx, "related", "Related Items"))

	require.NoError(t, s.PutRule(ctx, store.RuleConfig{
		Ruleset:        "related",
		Name:           "kinds",
		Variant:        store.VariantKind,
		AllowedSources: []string{"Document"},
		AllowedTargets: []string{"Document", "Image"},
	}))
	require.NoError(t, s.PutRule(ctx, store.RuleConfig{
		Ruleset: "related",
		Name:    "caps",
		Variant: store.VariantCapability,
	}))

	rules, err := s.Rules(ctx, "related")
	require.NoError(t, err)
	require.Len(t, rules, 2)

	// Zero positions appended in insertion order
	assert.Equal(t, "kinds", rules[0].Name)
	assert.Equal(t, 1, rules[0].Position)
	assert.Equal(t, "caps", rules[1].Name)
	assert.Equal(t, 2, rules[1].Position)

	rule, err := s.Rule(ctx, "related", "kinds")
	require.NoError(t, err)
	assert.Equal(t, []string{"Document"}, rule.AllowedSources)
	assert.Equal(t, []string{"Document", "Image"}, rule.AllowedTargets)

	// Empty allow-lists round-trip as empty
	rule, err = s.Rule(ctx, "related", "caps")
	require.NoError(t, err)
	assert.Empty(t, rule.AllowedSources)
	assert.Empty(t, rule.AllowedTargets)

	// Replace in place
	require.NoError(t, s.PutRule(ctx, store.RuleConfig{
		Ruleset:        "related",
		Name:           "kinds",
		Position:       5,
		Variant:        store.VariantKind,
		AllowedTargets: []string{"File"},
	}))
	rule, err = s.Rule(ctx, "related", "kinds")
	require.NoError(t, err)
	assert.Equal(t, 5, rule.Position)
	assert.Empty(t, rule.AllowedSources)
	assert.Equal(t, []string{"File"}, rule.AllowedTargets)

	rs, err := s.Ruleset(ctx, "related")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rs.RuleCount)

	require.NoError(t, s.RemoveRule(ctx, "related", "caps"))
	assert.ErrorIs(t, s.RemoveRule(ctx, "related", "caps"), store.ErrNotFound)
}

func TestStore_PutRuleValidation(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.PutRuleset(ctx, "related", ""))

	err := s.PutRule(ctx, store.RuleConfig{Ruleset: "related", Name: "r", Variant: "bogus"})
	assert.ErrorIs(t, err, store.ErrUnknownVariant)

	err = s.PutRule(ctx, store.RuleConfig{Ruleset: "missing", Name: "r", Variant: store.VariantKind})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_RemoveRuleset(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.PutRuleset(ctx, "related", ""))
	require.NoError(t, s.PutRule(ctx, store.RuleConfig{Ruleset: "related", Name: "r", Variant: store.VariantKind}))
	_, err := s.AddReference(ctx, "related", "site/a", "site/b", store.ReferenceOptions{})
	require.NoError(t, err)

	require.NoError(t, s.RemoveRuleset(ctx, "related"))

	_, err = s.Ruleset(ctx, "related")
	assert.ErrorIs(t, err, store.ErrNotFound)

	rules, err := s.Rules(ctx, "related")
	require.NoError(t, err)
	assert.Empty(t, rules)

	refs, err := s.ListByRuleset(ctx, "related")
	require.NoError(t, err)
	assert.Empty(t, refs)

	assert.ErrorIs(t, s.RemoveRuleset(ctx, "related"), store.ErrNotFound)
}

// --- References ---

func TestStore_ReferenceLifecycle(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := s.AddReference(ctx, "related", "site/a", "site/b", store.ReferenceOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	ref, err := s.Reference(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "related", ref.Ruleset)
	assert.Equal(t, "site/a", ref.SourcePath)
	assert.Equal(t, "site/b", ref.TargetPath)

	// Duplicate add returns the existing ID
	id2, err := s.AddReference(ctx, "related", "site/a", "site/b", store.ReferenceOptions{})
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	require.NoError(t, s.RemoveReference(ctx, id))
	_, err = s.Reference(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.RemoveReference(ctx, id), store.ErrNotFound)

	// Re-adding restores the soft-deleted row with its original ID
	id3, err := s.AddReference(ctx, "related", "site/a", "site/b", store.ReferenceOptions{})
	require.NoError(t, err)
	assert.Equal(t, id, id3)
}

func TestStore_ReferenceValidation(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.AddReference(ctx, "", "site/a", "site/b", store.ReferenceOptions{})
	assert.ErrorIs(t, err, validate.ErrInvalidName)

	_, err = s.AddReference(ctx, "related", "site/a", "site/a", store.ReferenceOptions{})
	assert.ErrorIs(t, err, validate.ErrInvalidReference)

	_, err = s.AddReference(ctx, "related", "", "site/b", store.ReferenceOptions{})
	assert.ErrorIs(t, err, validate.ErrInvalidPath)
}

func TestStore_ListReferences(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.AddReference(ctx, "related", "site/a", "site/b", store.ReferenceOptions{})
	require.NoError(t, err)
	_, err = s.AddReference(ctx, "depends", "site/a", "site/c", store.ReferenceOptions{})
	require.NoError(t, err)
	_, err = s.AddReference(ctx, "related", "site/c", "site/a", store.ReferenceOptions{})
	require.NoError(t, err)

	// Both directions
	refs, err := s.ListReferences(ctx, "site/a", "", store.ReferenceOptions{})
	require.NoError(t, err)
	assert.Len(t, refs, 3)

	// Filtered by ruleset
	refs, err = s.ListReferences(ctx, "site/a", "related", store.ReferenceOptions{})
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	refs, err = s.ListByRuleset(ctx, "related")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "site/a", refs[0].SourcePath)
	assert.Equal(t, "site/c", refs[1].SourcePath)

	count, err := s.CountReferences(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	count, err = s.CountReferences(ctx, "depends")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStore_RemoveReferencesForPath(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.AddReference(ctx, "related", "site/a", "site/b", store.ReferenceOptions{})
	require.NoError(t, err)
	_, err = s.AddReference(ctx, "related", "site/c", "site/a", store.ReferenceOptions{})
	require.NoError(t, err)
	_, err = s.AddReference(ctx, "related", "site/b", "site/c", store.ReferenceOptions{})
	require.NoError(t, err)

	require.NoError(t, s.RemoveReferencesForPath(ctx, "site/a", store.ReferenceOptions{}))

	refs, err := s.ListByRuleset(ctx, "related")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "site/b", refs[0].SourcePath)
}

// --- Maintenance ---

func TestStore_Vacuum(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.AddObject(ctx, "site/a", "Document", "", store.ObjectOptions{}))
	require.NoError(t, s.AddObject(ctx, "site/b", "Document", "", store.ObjectOptions{}))
	_, err := s.AddReference(ctx, "related", "site/a", "site/b", store.ReferenceOptions{})
	require.NoError(t, err)

	require.NoError(t, s.RemoveObject(ctx, "site/b", store.ObjectOptions{}))
	require.NoError(t, s.RemoveReferencesForPath(ctx, "site/b", store.ReferenceOptions{}))

	n, err := s.Vacuum(ctx, nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Gone for good
	_, err = s.Object(ctx, "site/b", true)
	assert.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := s.CountDeleted(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestStore_VacuumOlderThan(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.AddObject(ctx, "site/a", "Document", "", store.ObjectOptions{}))
	require.NoError(t, s.RemoveObject(ctx, "site/a", store.ObjectOptions{}))

	// Just deleted: an age threshold keeps it recoverable
	age := time.Hour
	n, err := s.Vacuum(ctx, &age, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	obj, err := s.Object(ctx, "site/a", true)
	require.NoError(t, err)
	assert.NotNil(t, obj.DeletedAt)
}

func TestStore_Stats(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.AddObject(ctx, "site/a", "Document", "", store.ObjectOptions{}))
	require.NoError(t, s.AddObject(ctx, "site/b", "Image", "", store.ObjectOptions{}))
	require.NoError(t, s.PutKind(ctx, store.KindInfo{Name: "Document", Capabilities: []string{"referenceable", "versionable"}}))
	require.NoError(t, s.PutRuleset(ctx, "related", ""))
	require.NoError(t, s.PutRule(ctx, store.RuleConfig{Ruleset: "related", Name: "r", Variant: store.VariantKind}))
	_, err := s.AddReference(ctx, "related", "site/a", "site/b", store.ReferenceOptions{})
	require.NoError(t, err)
	require.NoError(t, s.RemoveObject(ctx, "site/b", store.ObjectOptions{}))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Objects)
	assert.Equal(t, int64(1), st.DeletedObjects)
	assert.Equal(t, int64(1), st.Kinds)
	assert.Equal(t, int64(2), st.Capabilities)
	assert.Equal(t, int64(1), st.Rulesets)
	assert.Equal(t, int64(1), st.Rules)
	assert.Equal(t, int64(1), st.References)
	assert.NotZero(t, st.OldestObject)
	assert.NotZero(t, st.NewestReference)
	assert.NotZero(t, st.OldestDeletedAt)
}

func TestStore_Checkpoint(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	require.NoError(t, s.Checkpoint(context.Background()))
}
