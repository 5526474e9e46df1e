// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full
// stack: command parsing -> review session -> timeline/gaps -> JSON files.
//
// Tests run against a compiled binary rather than calling RunE directly
// because session loading, config cascade, and audit logging all hang off
// process-level state (flags, $HOME, lazy open in PersistentPreRunE).
// Each test env gets its own HOME so config and the audit log are isolated.

package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the revu binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "revu-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "revu"
		if os.PathSeparator == '\\' {
			binaryName = "revu.exe"
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

// testEnv holds test environment state. home isolates config and the
// audit log; session is a populated session directory.
type testEnv struct {
	t       *testing.T
	home    string
	session string
	binary  string
}

// testDatum is the recording start of the fixture session, in
// microseconds since the Unix epoch.
const testDatum = int64(1_000_000_000_000_000)

// fixtureEvents has four events at +0s, +2s, +4s, +6s and a recorded
// pause from +4.5s to +5s, so the last event plays back at 5.5s.
const fixtureEvents = `{
  "events": [
    {"timestamp": 1000000000000000, "source": "interaction", "kind": "click", "originalIndex": 0},
    {"timestamp": 1000000002000000, "source": "focus", "kind": "focus-change", "originalIndex": 1},
    {"timestamp": 1000000004000000, "source": "system", "kind": "screenshot", "originalIndex": 2},
    {"timestamp": 1000000006000000, "source": "voiceover", "kind": "announcement", "originalIndex": 3}
  ],
  "metadata": {
    "pauseGaps": [{"start": 1000000004500000, "end": 1000000005000000, "kind": "pause"}],
    "cropGaps": [],
    "transitions": [],
    "accessibilityMarkers": [],
    "status": "in-review",
    "startTime": 1000000000000000
  }
}`

const fixtureTags = `{
  "eventTags": {"1": ["bug"]},
  "eventNotes": {}
}`

const fixtureMetadata = `{"recordingStartTimestamp": 1000000000000000}`

// newTestEnv creates an isolated HOME and a session directory populated
// with the fixture files.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	binary := buildBinary(t)
	env := &testEnv{
		t:       t,
		home:    t.TempDir(),
		session: t.TempDir(),
		binary:  binary,
	}

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(env.session, name), []byte(content), 0o644))
	}
	write("events.json", fixtureEvents)
	write("tags.json", fixtureTags)
	write("metadata.json", fixtureMetadata)

	return env
}

// run executes revu against the fixture session and returns stdout.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("revu %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes revu and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	args = append(args, "-s", e.session, "-a", "tester")
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.session
	cmd.Env = append(os.Environ(), "HOME="+e.home)
	out, err := cmd.CombinedOutput()
	return string(out), err
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

// countLines returns the number of non-empty output lines.
func countLines(output string) int {
	n := 0
	for _, l := range strings.Split(output, "\n") {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}
