package ruleset

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRule implements only the base contract, no capabilities.
type stubRule struct{ name string }

func (r stubRule) Name() string  { return r.name }
func (r stubRule) Title() string { return r.name }

// stubProvider records the targets it was called with and returns a canned
// vocabulary.
type stubProvider struct {
	stubRule
	gotTargets []Summary
	called     bool
	out        []Summary
	err        error
}

func (p *stubProvider) Vocabulary(_ context.Context, _ Summary, targets []Summary) ([]Summary, error) {
	p.called = true
	p.gotTargets = targets
	return p.out, p.err
}

// stubValidator fails with a fixed error on connect and disconnect.
type stubValidator struct {
	stubRule
	connectErr    error
	disconnectErr error
}

func (v *stubValidator) ValidateConnected(context.Context, Reference, Chain) error {
	return v.connectErr
}

func (v *stubValidator) ValidateDisconnected(context.Context, Reference, Chain) error {
	return v.disconnectErr
}

func TestRulesetRegisterAndRules(t *testing.T) {
	rs := New("related", "Related Items")
	assert.Equal(t, "related", rs.Name())
	assert.Equal(t, "Related Items", rs.Title())

	rs.Register(stubRule{name: "a"})
	rs.Register(stubRule{name: "b"})

	rules := rs.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "a", rules[0].Name())
	assert.Equal(t, "b", rules[1].Name())

	// Mutating the returned slice must not affect the ruleset.
	rules[0] = stubRule{name: "x"}
	assert.Equal(t, "a", rs.Rules()[0].Name())
}

func TestRulesetTitleDefaultsToName(t *testing.T) {
	rs := New("related", "")
	assert.Equal(t, "related", rs.Title())
}

func TestRulesetVocabulary(t *testing.T) {
	source := Summary{Path: "/src", Kind: "Document"}

	t.Run("no providers returns nil", func(t *testing.T) {
		rs := New("r", "")
		rs.Register(stubRule{name: "plain"})
		got, err := rs.Vocabulary(context.Background(), source)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.False(t, rs.HasVocabularyProviders())
	})

	t.Run("first provider searches, second filters", func(t *testing.T) {
		first := &stubProvider{stubRule: stubRule{name: "first"}, out: []Summary{{Kind: "Document"}, {Kind: "Image"}}}
		second := &stubProvider{stubRule: stubRule{name: "second"}, out: []Summary{{Kind: "Document"}}}
		rs := New("r", "")
		rs.Register(first)
		rs.Register(second)
		assert.True(t, rs.HasVocabularyProviders())

		got, err := rs.Vocabulary(context.Background(), source)
		require.NoError(t, err)
		assert.Equal(t, []Summary{{Kind: "Document"}}, got)
		assert.Nil(t, first.gotTargets, "first provider must receive nil targets")
		assert.Equal(t, first.out, second.gotTargets, "second provider must receive the first's output")
	})

	t.Run("nil provider output becomes empty, not a new search", func(t *testing.T) {
		first := &stubProvider{stubRule: stubRule{name: "first"}, out: nil}
		second := &stubProvider{stubRule: stubRule{name: "second"}}
		rs := New("r", "")
		rs.Register(first)
		rs.Register(second)

		got, err := rs.Vocabulary(context.Background(), source)
		require.NoError(t, err)
		assert.NotNil(t, second.gotTargets)
		assert.Empty(t, second.gotTargets)
		assert.Empty(t, got)
	})

	t.Run("provider errors abort the chain", func(t *testing.T) {
		boom := errors.New("search failed")
		first := &stubProvider{stubRule: stubRule{name: "first"}, err: boom}
		second := &stubProvider{stubRule: stubRule{name: "second"}}
		rs := New("r", "")
		rs.Register(first)
		rs.Register(second)

		_, err := rs.Vocabulary(context.Background(), source)
		require.ErrorIs(t, err, boom)
		assert.False(t, second.called)
	})

	t.Run("non-provider rules are skipped in the chain", func(t *testing.T) {
		provider := &stubProvider{stubRule: stubRule{name: "p"}, out: []Summary{{Kind: "Image"}}}
		rs := New("r", "")
		rs.Register(stubRule{name: "plain"})
		rs.Register(provider)

		got, err := rs.Vocabulary(context.Background(), source)
		require.NoError(t, err)
		assert.Equal(t, provider.out, got)
		assert.Nil(t, provider.gotTargets)
	})
}

func TestRulesetValidateConnected(t *testing.T) {
	ref := Reference{Ruleset: "r", Source: Summary{Kind: "Document"}, Target: Summary{Kind: "Image"}}

	t.Run("no validators passes", func(t *testing.T) {
		rs := New("r", "")
		rs.Register(stubRule{name: "plain"})
		require.NoError(t, rs.ValidateConnected(context.Background(), ref, nil))
	})

	t.Run("failures across rules are joined", func(t *testing.T) {
		catA := errors.New("category a")
		catB := errors.New("category b")
		rs := New("r", "")
		rs.Register(&stubValidator{stubRule: stubRule{name: "a"},
			connectErr: NewValidationError("a failed", ref, nil, catA)})
		rs.Register(&stubValidator{stubRule: stubRule{name: "b"},
			connectErr: NewValidationError("b failed", ref, nil, catB)})

		err := rs.ValidateConnected(context.Background(), ref, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, catA)
		assert.ErrorIs(t, err, catB)
	})

	t.Run("passing validator contributes nothing", func(t *testing.T) {
		cat := errors.New("category")
		rs := New("r", "")
		rs.Register(&stubValidator{stubRule: stubRule{name: "ok"}})
		rs.Register(&stubValidator{stubRule: stubRule{name: "bad"},
			connectErr: NewValidationError("bad failed", ref, nil, cat)})

		err := rs.ValidateConnected(context.Background(), ref, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, cat)
	})

	t.Run("infrastructure error aborts immediately", func(t *testing.T) {
		boom := errors.New("store unavailable")
		cat := errors.New("category")
		rs := New("r", "")
		rs.Register(&stubValidator{stubRule: stubRule{name: "broken"}, connectErr: boom})
		rs.Register(&stubValidator{stubRule: stubRule{name: "bad"},
			connectErr: NewValidationError("bad failed", ref, nil, cat)})

		err := rs.ValidateConnected(context.Background(), ref, nil)
		require.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, cat, "later validators must not run after an infrastructure failure")
	})
}

func TestRulesetValidateDisconnected(t *testing.T) {
	ref := Reference{Ruleset: "r", Source: Summary{Kind: "Document"}, Target: Summary{Kind: "Image"}}

	t.Run("default validators allow disconnection", func(t *testing.T) {
		rs := New("r", "")
		rs.Register(&stubValidator{stubRule: stubRule{name: "ok"}})
		require.NoError(t, rs.ValidateDisconnected(context.Background(), ref, nil))
	})

	t.Run("disconnect failures surface", func(t *testing.T) {
		cat := errors.New("category")
		rs := New("r", "")
		rs.Register(&stubValidator{stubRule: stubRule{name: "sticky"},
			disconnectErr: NewValidationError("references are permanent", ref, nil, cat)})
		err := rs.ValidateDisconnected(context.Background(), ref, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, cat)
	})
}

func TestValidationError(t *testing.T) {
	ref := Reference{Ruleset: "r"}
	cat := errors.New("category")
	chain := Chain{"/a"}.With("/b")

	verr := NewValidationError("rejected", ref, chain, cat)
	assert.Equal(t, "rejected", verr.Error())
	assert.ErrorIs(t, verr, cat)
	assert.Equal(t, Chain{"/a", "/b"}, verr.Chain)
	assert.Equal(t, ref, verr.Reference)
}

func TestChainWith(t *testing.T) {
	base := Chain{"/a"}
	extended := base.With("/b")
	assert.Equal(t, Chain{"/a"}, base)
	assert.Equal(t, Chain{"/a", "/b"}, extended)

	// With must copy: extending the same base twice must not alias.
	other := base.With("/c")
	assert.Equal(t, Chain{"/a", "/b"}, extended)
	assert.Equal(t, Chain{"/a", "/c"}, other)
}
