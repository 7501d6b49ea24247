package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBList(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("db")
	env.contains(out, "relate.db")
	env.contains(out, "shared")
}

func TestDBLocalAndShare(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("db", "--local")
	env.contains(out, "relate.db marked as local")

	assert.FileExists(t, filepath.Join(env.dir, ".relate", ".gitignore"))

	out = env.run("db")
	env.contains(out, "local")

	out = env.run("db", "--share")
	env.contains(out, "relate.db marked as shared")

	out = env.run("db")
	env.contains(out, "shared")
	env.notContains(out, "local")
}

func TestDBNamedStatus(t *testing.T) {
	env := newTestEnv(t)
	env.run("init", "--db", "site")

	out := env.run("db")
	env.contains(out, "relate-site.db")

	env.run("db", "site", "--local")

	out = env.run("db", "site")
	env.contains(out, "relate-site.db: local")

	// The default database keeps its own status
	out = env.run("db", "")
	env.contains(out, "relate.db: shared")
}

func TestDBLocalShareMutuallyExclusive(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.runErr("db", "--local", "--share")
	assert.Error(t, err)
}
