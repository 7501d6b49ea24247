package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidates(t *testing.T) {
	env := newSeededEnv(t)

	// Image source: the kind rule offers every Document as a target
	out := env.run("candidates", "site/logo", "-r", "illustrates")
	env.contains(out, "site/front-page")
	env.contains(out, "site/news")
	env.notContains(out, "site/logo")
}

func TestCandidates_PathsOnly(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("candidates", "site/logo", "-r", "illustrates", "--paths-only")
	paths := strings.Fields(strings.TrimSpace(out))
	assert.ElementsMatch(t, []string{"site/front-page", "site/news"}, paths)
}

func TestCandidates_Limit(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("candidates", "site/logo", "-r", "illustrates", "--paths-only", "-n", "1")
	paths := strings.Fields(strings.TrimSpace(out))
	assert.Len(t, paths, 1)
}

func TestCandidates_NoVocabularyFallsBackToCatalogue(t *testing.T) {
	env := newSeededEnv(t)
	env.run("ruleset", "add", "related", "-a", "tester")

	// A ruleset with no rules offers the whole catalogue except the source
	out := env.run("candidates", "site/front-page", "-r", "related", "--paths-only")
	paths := strings.Fields(strings.TrimSpace(out))
	assert.ElementsMatch(t, []string{"site/logo", "site/news"}, paths)
}

func TestCandidates_DisallowedSource(t *testing.T) {
	env := newSeededEnv(t)

	// Document sources are not allowed by the seeded rule, so nothing is offered
	out := env.run("candidates", "site/front-page", "-r", "illustrates", "--paths-only")
	assert.Empty(t, strings.TrimSpace(out))
}
