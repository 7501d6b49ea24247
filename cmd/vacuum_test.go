package cmd

import (
	"testing"
)

func TestVacuum(t *testing.T) {
	env := newSeededEnv(t)
	env.run("ref", "add", "site/logo", "site/front-page", "-a", "tester", "-r", "illustrates")

	// Soft-delete an object; its references go with it
	env.run("object", "rm", "site/logo", "-a", "tester")

	out := env.run("vacuum", "--force", "-a", "tester")
	env.contains(out, "Vacuumed")

	// Purged rows are gone for good: restore can't find the object
	_, err := env.runErr("object", "restore", "site/logo", "-a", "tester")
	if err == nil {
		t.Fatal("expected restore to fail after vacuum")
	}

	out = env.run("object", "ls", "-D")
	env.notContains(out, "site/logo")
}

func TestVacuum_DryRun(t *testing.T) {
	env := newSeededEnv(t)
	env.run("object", "rm", "site/logo", "-a", "tester")

	out := env.run("vacuum", "--dry-run", "-a", "tester")
	env.contains(out, "Would delete")
	env.contains(out, "site/logo")

	// Dry run leaves the soft-deleted row in place
	out = env.run("object", "ls", "-D")
	env.contains(out, "site/logo")
}

func TestVacuum_NothingToDo(t *testing.T) {
	env := newSeededEnv(t)

	out := env.run("vacuum", "--force", "-a", "tester")
	env.contains(out, "Nothing to vacuum")
}

func TestVacuum_PathPrefix(t *testing.T) {
	env := newSeededEnv(t)
	env.run("object", "add", "archive/old", "-a", "tester", "--kind", "Document")
	env.run("object", "rm", "archive/old", "-a", "tester")
	env.run("object", "rm", "site/logo", "-a", "tester")

	env.run("vacuum", "--force", "-a", "tester", "-p", "archive")

	out := env.run("object", "ls", "-D")
	env.notContains(out, "archive/old")
	env.contains(out, "site/logo")
}

func TestVacuum_OlderThan(t *testing.T) {
	env := newSeededEnv(t)
	env.run("object", "rm", "site/logo", "-a", "tester")

	// Deleted moments ago, so a 7 day threshold purges nothing
	out := env.run("vacuum", "--force", "-a", "tester", "--older-than", "7d")
	env.contains(out, "Nothing to vacuum")

	out = env.run("object", "ls", "-D")
	env.contains(out, "site/logo")
}

func TestVacuum_BadDuration(t *testing.T) {
	env := newSeededEnv(t)

	out, err := env.runErr("vacuum", "--force", "-a", "tester", "--older-than", "sideways")
	if err == nil {
		t.Fatalf("expected duration parse error, got: %s", out)
	}
}
