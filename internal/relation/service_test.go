package relation_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/relate-io/relate/internal/constraint"
	"github.com/relate-io/relate/internal/relation"
	"github.com/relate-io/relate/internal/ruleset"
	"github.com/relate-io/relate/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupService creates a temporary service and returns it along with a cleanup function.
func setupService(t *testing.T) (*relation.Service, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "relate-test-*")
	require.NoError(t, err, "creating temp dir")

	cwd, err := os.Getwd()
	require.NoError(t, err, "getting cwd")

	require.NoError(t, os.Chdir(tmpDir), "chdir to temp")

	require.NoError(t, relation.Init(true, "", false, ""), "init relation service")

	svc, err := relation.New("")
	require.NoError(t, err, "creating service")

	cleanup := func() {
		svc.Close()
		_ = os.Chdir(cwd)
		os.RemoveAll(tmpDir)
	}

	return svc, cleanup
}

// seedCatalogue registers two kinds and catalogues a small site.
func seedCatalogue(t *testing.T, svc *relation.Service) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, svc.PutKind(ctx, "Document", "Document", []string{"searchable", "printable"}))
	require.NoError(t, svc.PutKind(ctx, "Image", "Image", []string{"searchable"}))

	require.NoError(t, svc.AddObject(ctx, "site/front-page", "Document", "Front Page"))
	require.NoError(t, svc.AddObject(ctx, "site/news", "Document", "News"))
	require.NoError(t, svc.AddObject(ctx, "site/logo", "Image", "Logo"))
}

func TestService_CatalogueLifecycle(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, svc.PutKind(ctx, "Document", "Document", nil))
	require.NoError(t, svc.AddObject(ctx, "site/front-page", "Document", "Front Page"))

	obj, err := svc.Object(ctx, "site/front-page", false)
	require.NoError(t, err)
	assert.Equal(t, "Document", obj.Kind)
	assert.Equal(t, "Front Page", obj.Title)
	assert.Len(t, obj.Key, 8)

	ok, err := svc.Exists(ctx, "site/front-page")
	require.NoError(t, err)
	assert.True(t, ok)

	// Paths normalise on the way in, so sloppy input finds the same object.
	obj2, err := svc.Object(ctx, "site//front-page/", false)
	require.NoError(t, err)
	assert.Equal(t, obj.ID, obj2.ID)

	count, err := svc.CountObjects(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.RemoveObject(ctx, "site/front-page"))
	_, err = svc.Object(ctx, "site/front-page", false)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, svc.RestoreObject(ctx, "site/front-page"))
	_, err = svc.Object(ctx, "site/front-page", false)
	require.NoError(t, err)
}

func TestService_ConnectValidatesKinds(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "illustrates", "Illustrates"))
	require.NoError(t, svc.PutRule(ctx, store.RuleConfig{
		Ruleset:        "illustrates",
		Name:           "kinds",
		Variant:        store.VariantKind,
		AllowedSources: []string{"Image"},
		AllowedTargets: []string{"Document"},
	}))

	id, err := svc.Connect(ctx, "illustrates", "site/logo", "site/front-page")
	require.NoError(t, err)
	assert.Len(t, id, 8)

	// Document as source violates the rule.
	_, err = svc.Connect(ctx, "illustrates", "site/news", "site/front-page")
	require.Error(t, err)
	assert.ErrorIs(t, err, constraint.ErrSourceKindDisallowed)
	var verr *ruleset.ValidationError
	assert.ErrorAs(t, err, &verr)

	// Image as target violates the rule; source is checked first, so with a
	// valid source the target failure surfaces.
	_, err = svc.Connect(ctx, "illustrates", "site/logo", "site/logo2")
	require.Error(t, err) // target not catalogued at all

	require.NoError(t, svc.AddObject(ctx, "site/logo2", "Image", "Second Logo"))
	_, err = svc.Connect(ctx, "illustrates", "site/logo", "site/logo2")
	assert.ErrorIs(t, err, constraint.ErrTargetKindDisallowed)
}

func TestService_ConnectAggregatesFailures(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "strict", ""))
	require.NoError(t, svc.PutRule(ctx, store.RuleConfig{
		Ruleset:        "strict",
		Name:           "kinds",
		Variant:        store.VariantKind,
		AllowedSources: []string{"Document"},
	}))
	require.NoError(t, svc.PutRule(ctx, store.RuleConfig{
		Ruleset:        "strict",
		Name:           "caps",
		Variant:        store.VariantCapability,
		AllowedSources: []string{"printable"},
	}))

	// An Image source fails both rules: it isn't a Document and it doesn't
	// provide the printable capability. Both failures surface together.
	_, err := svc.Connect(ctx, "strict", "site/logo", "site/front-page")
	require.Error(t, err)
	assert.ErrorIs(t, err, constraint.ErrSourceKindDisallowed)
	assert.ErrorIs(t, err, constraint.ErrSourceCapabilityDisallowed)

	// A Document source satisfies both rules.
	_, err = svc.Connect(ctx, "strict", "site/front-page", "site/news")
	require.NoError(t, err)
}

func TestService_ConnectCapabilityRule(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "indexes", "Indexes"))
	require.NoError(t, svc.PutRule(ctx, store.RuleConfig{
		Ruleset:        "indexes",
		Name:           "caps",
		Variant:        store.VariantCapability,
		AllowedTargets: []string{"printable"},
	}))

	// Documents are printable, images are not.
	_, err := svc.Connect(ctx, "indexes", "site/logo", "site/front-page")
	require.NoError(t, err)

	_, err = svc.Connect(ctx, "indexes", "site/front-page", "site/logo")
	assert.ErrorIs(t, err, constraint.ErrTargetCapabilityDisallowed)
}

func TestService_ConnectDefaultRuleset(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, svc.DefaultRuleset(), "Related Items"))

	id, err := svc.Connect(ctx, "", "site/front-page", "site/news")
	require.NoError(t, err)

	ref, err := svc.Reference(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, svc.DefaultRuleset(), ref.Ruleset)
}

func TestService_ConnectRequiresCataloguedEndpoints(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "related", ""))

	_, err := svc.Connect(ctx, "related", "site/front-page", "site/ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Connect(ctx, "related", "site/ghost", "site/front-page")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_ConnectRejectsSelfReference(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "related", ""))

	_, err := svc.Connect(ctx, "related", "site/front-page", "site/front-page")
	assert.Error(t, err)
}

func TestService_DisconnectLifecycle(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "related", ""))

	id, err := svc.Connect(ctx, "related", "site/front-page", "site/news")
	require.NoError(t, err)

	refs, err := svc.ListReferences(ctx, "site/front-page", "")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "site/news", refs[0].TargetPath)

	// The target sees the same reference from the other direction.
	refs, err = svc.ListReferences(ctx, "site/news", "")
	require.NoError(t, err)
	require.Len(t, refs, 1)

	require.NoError(t, svc.Disconnect(ctx, id))

	_, err = svc.Reference(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	count, err := svc.CountReferences(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestService_DisconnectSurvivesMissingEndpoint(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "related", ""))

	id, err := svc.Connect(ctx, "related", "site/front-page", "site/news")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveObject(ctx, "site/news"))
	require.NoError(t, svc.Disconnect(ctx, id), "disconnect must work after an endpoint leaves the catalogue")
}

func TestService_Candidates(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "illustrates", "Illustrates"))
	require.NoError(t, svc.PutRule(ctx, store.RuleConfig{
		Ruleset:        "illustrates",
		Name:           "kinds",
		Variant:        store.VariantKind,
		AllowedSources: []string{"Image"},
		AllowedTargets: []string{"Document"},
	}))

	// An image may target documents only.
	cands, err := svc.Candidates(ctx, "illustrates", "site/logo")
	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, "site/front-page", cands[0].Path)
	assert.Equal(t, "site/news", cands[1].Path)

	// A document is no legal source, so it gets no candidates at all.
	cands, err = svc.Candidates(ctx, "illustrates", "site/front-page")
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestService_CandidatesWithoutProviders(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "related", ""))

	// A ruleset with no rules imposes no vocabulary: everything except the
	// source itself is a candidate.
	cands, err := svc.Candidates(ctx, "related", "site/front-page")
	require.NoError(t, err)
	require.Len(t, cands, 2)
	for _, c := range cands {
		assert.NotEqual(t, "site/front-page", c.Path)
	}
}

func TestService_CheckDetectsRuleChanges(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "related", ""))

	id, err := svc.Connect(ctx, "related", "site/front-page", "site/logo")
	require.NoError(t, err)

	results, err := svc.Check(ctx, "related", "")
	require.NoError(t, err)
	assert.Empty(t, results, "reference valid under current rules")

	// Tighten the ruleset after the fact: targets must now be documents.
	require.NoError(t, svc.PutRule(ctx, store.RuleConfig{
		Ruleset:        "related",
		Name:           "kinds",
		Variant:        store.VariantKind,
		AllowedTargets: []string{"Document"},
	}))

	results, err = svc.Check(ctx, "related", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].Reference.ID)
	assert.ErrorIs(t, results[0].Err, constraint.ErrTargetKindDisallowed)

	// The reference itself is untouched; Check only reports.
	_, err = svc.Reference(ctx, id)
	require.NoError(t, err)
}

func TestService_CheckDetectsMissingEndpoints(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "related", ""))

	id, err := svc.Connect(ctx, "related", "site/front-page", "site/news")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveObject(ctx, "site/news"))

	results, err := svc.Check(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].Reference.ID)
	assert.ErrorIs(t, results[0].Err, store.ErrNotFound)
}

func TestService_CheckScopedToPath(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "related", ""))

	_, err := svc.Connect(ctx, "related", "site/front-page", "site/logo")
	require.NoError(t, err)
	_, err = svc.Connect(ctx, "related", "site/news", "site/logo")
	require.NoError(t, err)

	require.NoError(t, svc.PutRule(ctx, store.RuleConfig{
		Ruleset:        "related",
		Name:           "kinds",
		Variant:        store.VariantKind,
		AllowedTargets: []string{"Document"},
	}))

	results, err := svc.Check(ctx, "related", "site/front-page")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "site/front-page", results[0].Reference.SourcePath)
}

func TestService_RemoveRulesetRemovesReferences(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "related", ""))

	id, err := svc.Connect(ctx, "related", "site/front-page", "site/news")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveRuleset(ctx, "related"))

	_, err = svc.Reference(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Ruleset(ctx, "related")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_ResolvePathOrKey(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	obj, err := svc.Object(ctx, "site/logo", false)
	require.NoError(t, err)

	byKey, err := svc.Resolve(ctx, obj.Key, false)
	require.NoError(t, err)
	assert.Equal(t, obj.ID, byKey.ID)

	byPath, err := svc.Resolve(ctx, "site/logo", false)
	require.NoError(t, err)
	assert.Equal(t, obj.ID, byPath.ID)

	_, err = svc.Resolve(ctx, "site/ghost", false)
	assert.Error(t, err)
}

func TestService_VacuumPurgesSoftDeleted(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "related", ""))

	_, err := svc.Connect(ctx, "related", "site/front-page", "site/news")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveObject(ctx, "site/news"))
	require.NoError(t, svc.RemoveReferencesForPath(ctx, "site/news"))

	n, err := svc.Vacuum(ctx, nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "one object plus one reference")

	_, err = svc.Object(ctx, "site/news", true)
	assert.ErrorIs(t, err, store.ErrNotFound, "vacuumed objects are gone for good")
}

func TestService_Stats(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "related", ""))
	_, err := svc.Connect(ctx, "related", "site/front-page", "site/news")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Objects)
	assert.Equal(t, int64(2), stats.Kinds)
	assert.Equal(t, int64(1), stats.Rulesets)
	assert.Equal(t, int64(1), stats.References)
}

func TestService_ValidationErrorDetails(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	seedCatalogue(t, svc)

	require.NoError(t, svc.PutRuleset(ctx, "illustrates", "Illustrates"))
	require.NoError(t, svc.PutRule(ctx, store.RuleConfig{
		Ruleset:        "illustrates",
		Name:           "kinds",
		Variant:        store.VariantKind,
		AllowedSources: []string{"Image"},
	}))

	_, err := svc.Connect(ctx, "illustrates", "site/news", "site/front-page")
	require.Error(t, err)

	var verr *ruleset.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "Illustrates", "message names the ruleset title")
	assert.Contains(t, verr.Message, "Document", "message names the offending kind")
	assert.Equal(t, "site/news", verr.Reference.Source.Path)
	assert.Contains(t, verr.Chain, "illustrates")
}
