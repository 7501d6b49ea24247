// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full stack:
// command parsing -> service layer -> store layer -> SQLite.
//
// Some internal packages show "[no test files]" - this is intentional.
// These packages are covered by the CLI integration tests:
//   - internal/format: covered by ls/show/check output assertions
//   - internal/repo: covered by init/db tests (store discovery works)
//   - internal/vacuum: covered by vacuum tests
//
// Unit tests for these packages would duplicate coverage without adding value.
// If underlying functionality breaks, the CLI tests fail - proving the stack works.

package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the relate binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		// Build to a temp location
		tmpDir, err := os.MkdirTemp("", "relate-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "relate"
		if os.PathSeparator == '\\' {
			binaryName = "relate.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	binary string
}

// newTestEnv creates a temporary directory with an initialised relate store.
//
// Note: init does not create config. Mutating commands in tests pass
// "-a tester" explicitly rather than relying on configured author.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	binary := buildBinary(t)
	dir := t.TempDir()

	env := &testEnv{t: t, dir: dir, binary: binary}

	env.run("init")

	return env
}

// newSeededEnv creates an initialised store with kinds, objects, and a
// ruleset most reference tests need:
//
//	kinds:   Document (searchable, printable), Image (searchable)
//	objects: site/front-page, site/news (Document), site/logo (Image)
//	ruleset: illustrates with a kind rule Image -> Document
func newSeededEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)

	env.run("kind", "add", "Document", "-a", "tester", "-c", "searchable", "-c", "printable")
	env.run("kind", "add", "Image", "-a", "tester", "-c", "searchable")

	env.run("object", "add", "site/front-page", "-a", "tester", "--kind", "Document", "-T", "Front page")
	env.run("object", "add", "site/news", "-a", "tester", "--kind", "Document")
	env.run("object", "add", "site/logo", "-a", "tester", "--kind", "Image")

	env.run("ruleset", "add", "illustrates", "-a", "tester", "-T", "Illustrates")
	env.run("rule", "add", "only-images", "-a", "tester", "-r", "illustrates",
		"-v", "kind", "-s", "Image", "-t", "Document")

	return env
}

// run executes relate with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("relate %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes relate and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runStdin executes relate with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("relate %v failed: %v\noutput: %s", args, err, out)
	}
	return string(out)
}

// refID extracts the leading 8-char reference ID from "ref add" output.
func (e *testEnv) refID(out string) string {
	e.t.Helper()
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) == 0 || len(fields[0]) != 8 {
		e.t.Fatalf("expected reference ID in output, got: %s", out)
	}
	return fields[0]
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// notContains checks that output does not contain the string.
func (e *testEnv) notContains(output, unexpected string) {
	e.t.Helper()
	assert.NotContains(e.t, output, unexpected)
}
