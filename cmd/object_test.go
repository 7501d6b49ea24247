package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectAddAndLs(t *testing.T) {
	env := newTestEnv(t)
	env.run("kind", "add", "Document", "-a", "tester")

	env.run("object", "add", "site/front-page", "-a", "tester", "--kind", "Document", "-T", "Front page")
	env.run("object", "add", "site/news", "-a", "tester", "--kind", "Document")

	out := env.run("object", "ls")
	env.contains(out, "site/front-page")
	env.contains(out, "site/news")

	out = env.run("object", "ls", "-l")
	env.contains(out, "KIND")
	env.contains(out, "Document")
	env.contains(out, "Front page")
}

func TestObjectAdd_UnregisteredKindWarns(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("object", "add", "site/page", "-a", "tester", "--kind", "Document")
	env.contains(out, "not registered")

	// Object is catalogued regardless
	out = env.run("object", "ls")
	env.contains(out, "site/page")
}

func TestObjectAdd_NormalisesPath(t *testing.T) {
	env := newTestEnv(t)

	env.run("object", "add", "site//page/", "-a", "tester", "--kind", "Document")

	out := env.run("object", "ls", "--paths-only")
	env.contains(out, "site/page")
	env.notContains(out, "site//page")
}

func TestObjectRmAndRestore(t *testing.T) {
	env := newTestEnv(t)
	env.run("object", "add", "site/page", "-a", "tester", "--kind", "Document")

	env.run("object", "rm", "site/page", "-a", "tester")

	out := env.run("object", "ls")
	env.notContains(out, "site/page")

	out = env.run("object", "ls", "-D")
	env.contains(out, "site/page")

	env.run("object", "restore", "site/page", "-a", "tester")

	out = env.run("object", "ls")
	env.contains(out, "site/page")
}

func TestObjectShow_ByKey(t *testing.T) {
	env := newTestEnv(t)
	env.run("object", "add", "site/page", "-a", "tester", "--kind", "Document")

	// Extract key from plain listing (first column)
	out := env.run("object", "ls")
	key := strings.Fields(out)[0]
	assert.Len(t, key, 8)

	out = env.run("object", "show", key)
	env.contains(out, "site/page")
	env.contains(out, "Document")
}

func TestObjectFind(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("object", "find", "--kind", "Image")
	env.contains(out, "site/logo")
	env.notContains(out, "site/news")

	out = env.run("object", "find", "--kind", "Document", "--kind", "Image")
	env.contains(out, "site/logo")
	env.contains(out, "site/news")
}

func TestObjectLsTree(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("object", "ls", "-t")
	env.contains(out, "site/")
	env.contains(out, "front-page (Document)")
	env.contains(out, "logo (Image)")
}

func TestObjectCount(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("object", "ls", "--count")
	assert.Equal(t, "3", strings.TrimSpace(out))
}

func TestObjectAuthorRequired(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("object", "add", "site/page", "--kind", "Document")
	assert.Error(t, err)
	env.contains(out, "author not configured")
}
