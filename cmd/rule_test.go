package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRulesetAddAndShow(t *testing.T) {
	env := newTestEnv(t)

	env.run("ruleset", "add", "illustrates", "-a", "tester", "-T", "Illustrates")

	out := env.run("ruleset", "ls")
	env.contains(out, "illustrates")
	env.contains(out, "Illustrates")

	out = env.run("ruleset", "show", "illustrates")
	env.contains(out, "illustrates")
}

func TestRuleAdd(t *testing.T) {
	env := newTestEnv(t)
	env.run("ruleset", "add", "illustrates", "-a", "tester")

	out := env.run("rule", "add", "only-images", "-a", "tester", "-r", "illustrates",
		"-v", "kind", "-s", "Image", "-t", "Document")
	env.contains(out, "Added rule only-images")

	out = env.run("rule", "ls", "-r", "illustrates")
	env.contains(out, "only-images")
	env.contains(out, "kind")
}

func TestRuleAdd_InvalidVariant(t *testing.T) {
	env := newTestEnv(t)
	env.run("ruleset", "add", "illustrates", "-a", "tester")

	out, err := env.runErr("rule", "add", "bad", "-a", "tester", "-r", "illustrates", "-v", "bogus")
	assert.Error(t, err)
	env.contains(out, "invalid variant")
}

func TestRuleAdd_MissingRuleset(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.runErr("rule", "add", "orphan", "-a", "tester", "-r", "nonexistent", "-v", "kind")
	assert.Error(t, err)
}

func TestRuleReplaceShowsDiff(t *testing.T) {
	env := newSeededEnv(t)

	// Replacing with a different target list prints a config diff
	out := env.run("rule", "add", "only-images", "-a", "tester", "-r", "illustrates",
		"-v", "kind", "-s", "Image", "-t", "Image")
	env.contains(out, "only-images (old)")
	env.contains(out, "only-images (new)")
	env.contains(out, "-")
	env.contains(out, "+")

	// Replacing with the identical config reports no change
	out = env.run("rule", "add", "only-images", "-a", "tester", "-r", "illustrates",
		"-v", "kind", "-s", "Image", "-t", "Image")
	env.contains(out, "Rule only-images unchanged")
}

func TestRuleShow(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("rule", "show", "only-images", "-r", "illustrates")
	env.contains(out, "only-images")
	env.contains(out, "Image")
	env.contains(out, "Document")
}

func TestRuleRm(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("rule", "rm", "only-images", "-a", "tester", "-r", "illustrates")
	env.contains(out, "Removed rule only-images")

	out = env.run("rule", "ls", "-r", "illustrates")
	env.notContains(out, "only-images")
}

func TestRulesetRm_RemovesReferences(t *testing.T) {
	env := newSeededEnv(t)
	env.run("ref", "add", "site/logo", "site/front-page", "-a", "tester", "-r", "illustrates")

	out := env.run("ruleset", "rm", "illustrates", "-a", "tester")
	env.contains(out, "Removed ruleset illustrates")
	env.contains(out, "1 reference(s)")

	out = env.run("ruleset", "ls")
	env.notContains(out, "illustrates")
}
