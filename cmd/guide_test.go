package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Guide output is rendered with glamour only on a terminal. Tests capture
// piped output, so raw markdown is expected here.

func TestGuide(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("guide")
	env.contains(out, "# ")
	env.contains(out, "relate")
}

func TestGuideTopic(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("guide", "rules")
	env.contains(out, "ruleset")

	out = env.run("guide", "config")
	env.contains(out, "author")
}

func TestGuideUnknownTopic(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("guide", "nonexistent")
	assert.Error(t, err)
	// Error lists the available topics
	env.contains(out, "rules")
}
