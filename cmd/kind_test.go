package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindAddAndLs(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("kind", "add", "Document", "-a", "tester", "-T", "Document", "-c", "searchable", "-c", "printable")
	env.contains(out, "Registered kind Document")

	env.run("kind", "add", "Image", "-a", "tester", "-c", "searchable")

	out = env.run("kind", "ls")
	env.contains(out, "Document")
	env.contains(out, "Image")
	env.contains(out, "searchable")
}

func TestKindLs_FilterByCapability(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("kind", "ls", "-c", "printable")
	env.contains(out, "Document")
	env.notContains(out, "Image")
}

func TestKindReAddReplaces(t *testing.T) {
	env := newTestEnv(t)

	env.run("kind", "add", "Document", "-a", "tester", "-c", "searchable")
	env.run("kind", "add", "Document", "-a", "tester", "-c", "printable")

	out := env.run("kind", "ls")
	env.contains(out, "printable")
	env.notContains(out, "searchable")
}

func TestKindRm(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("kind", "rm", "Image", "-a", "tester")
	env.contains(out, "Removed kind Image")

	out = env.run("kind", "ls")
	env.notContains(out, "Image")

	// Objects carrying the kind stay catalogued
	out = env.run("object", "ls")
	env.contains(out, "site/logo")
}

func TestKindCaps(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("kind", "caps")
	lines := strings.Fields(strings.TrimSpace(out))
	assert.ElementsMatch(t, []string{"printable", "searchable"}, lines)
}
