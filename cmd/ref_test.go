package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefAdd(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("ref", "add", "site/logo", "site/front-page", "-a", "tester", "-r", "illustrates")
	id := env.refID(out)
	env.contains(out, "site/logo -> site/front-page")

	out = env.run("ref", "show", id)
	env.contains(out, "Ruleset: illustrates")
	env.contains(out, "Source:  site/logo")
	env.contains(out, "Target:  site/front-page")
}

func TestRefAdd_RejectedByKindRule(t *testing.T) {
	env := newSeededEnv(t)

	// The seeded rule only allows Image sources; front-page is a Document
	out, err := env.runErr("ref", "add", "site/front-page", "site/logo", "-a", "tester", "-r", "illustrates")
	assert.Error(t, err)
	env.contains(out, "not allowed")
	env.contains(out, "Document")
}

func TestRefAdd_SelfReferenceRejected(t *testing.T) {
	env := newSeededEnv(t)
	env.run("ruleset", "add", "related", "-a", "tester")

	out, err := env.runErr("ref", "add", "site/logo", "site/logo", "-a", "tester", "-r", "related")
	assert.Error(t, err)
	env.contains(out, "self-reference")
}

func TestRefAdd_Idempotent(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("ref", "add", "site/logo", "site/front-page", "-a", "tester", "-r", "illustrates")
	first := env.refID(out)

	out = env.run("ref", "add", "site/logo", "site/front-page", "-a", "tester", "-r", "illustrates")
	second := env.refID(out)

	assert.Equal(t, first, second)
}

func TestRefLs_ByPath(t *testing.T) {
	env := newSeededEnv(t)
	env.run("ref", "add", "site/logo", "site/front-page", "-a", "tester", "-r", "illustrates")

	// References are listed from either endpoint
	out := env.run("ref", "ls", "site/logo")
	env.contains(out, "site/front-page")

	out = env.run("ref", "ls", "site/front-page")
	env.contains(out, "site/logo")

	out = env.run("ref", "ls", "site/news")
	env.notContains(out, "site/logo")
}

func TestRefLs_ByRuleset(t *testing.T) {
	env := newSeededEnv(t)
	env.run("ref", "add", "site/logo", "site/front-page", "-a", "tester", "-r", "illustrates")
	env.run("ref", "add", "site/logo", "site/news", "-a", "tester", "-r", "illustrates")

	out := env.run("ref", "ls", "-r", "illustrates")
	env.contains(out, "site/front-page")
	env.contains(out, "site/news")

	out = env.run("ref", "ls", "--count")
	env.contains(out, "2")
}

func TestRefRm(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("ref", "add", "site/logo", "site/front-page", "-a", "tester", "-r", "illustrates")
	id := env.refID(out)

	out = env.run("ref", "rm", id, "-a", "tester")
	env.contains(out, "Removed "+id)

	out = env.run("ref", "ls", "site/logo")
	env.notContains(out, "site/front-page")
}

func TestRefCheck_AllValid(t *testing.T) {
	env := newSeededEnv(t)
	env.run("ref", "add", "site/logo", "site/front-page", "-a", "tester", "-r", "illustrates")

	out := env.run("ref", "check", "-r", "illustrates")
	env.contains(out, "All references valid")
}

func TestRefCheck_AfterTighteningRule(t *testing.T) {
	env := newSeededEnv(t)
	env.run("ref", "add", "site/logo", "site/front-page", "-a", "tester", "-r", "illustrates")

	// Tighten the rule so Documents are no longer valid targets
	env.run("rule", "add", "only-images", "-a", "tester", "-r", "illustrates",
		"-v", "kind", "-s", "Image", "-t", "Image")

	out := env.run("ref", "check", "-r", "illustrates")
	env.contains(out, "not allowed")
	env.contains(out, "site/front-page")
}

func TestObjectRmCascadesToReferences(t *testing.T) {
	env := newSeededEnv(t)
	env.run("ref", "add", "site/logo", "site/front-page", "-a", "tester", "-r", "illustrates")

	env.run("object", "rm", "site/logo", "-a", "tester")

	out := env.run("ref", "ls", "site/front-page")
	env.notContains(out, "site/logo")
}
