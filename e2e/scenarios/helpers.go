package scenarios

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/isakkjerstad/inf2201-p6-tests/e2e/harness"
	"github.com/isakkjerstad/inf2201-p6-tests/internal/logging"
)

var (
	buildOnce   sync.Once
	builtBinary string
	buildErr    error
)

// targetBinary returns the target under test. P6_BINARY names a prebuilt
// executable; otherwise P6_SOURCE_DIR is built once with make. Tests are
// skipped when neither is set.
func targetBinary(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping conformance test in short mode")
	}

	if os.Getenv("P6_BINARY") != "" {
		binary, err := harness.ResolveBinary("p6sh")
		if err != nil {
			t.Fatalf("Failed to resolve target: %v", err)
		}
		return binary
	}

	if os.Getenv("P6_SOURCE_DIR") == "" {
		t.Skip("P6_BINARY or P6_SOURCE_DIR not set")
	}

	buildOnce.Do(func() {
		cfg, err := harness.ConfigFromEnv()
		if err != nil {
			buildErr = err
			return
		}
		target, err := harness.NewTarget(cfg, logging.NewNop())
		if err != nil {
			buildErr = err
			return
		}
		builtBinary, buildErr = target.Build(context.Background())
	})
	if buildErr != nil {
		t.Fatalf("Failed to build target: %v", buildErr)
	}
	return builtBinary
}

// runSequence runs the scenarios in order against one fresh copy of the
// target, so later scenarios see the file system left by earlier ones.
func runSequence(t *testing.T, scenarios ...harness.Scenario) {
	t.Helper()

	fixture, err := harness.NewFixture(t, targetBinary(t))
	if err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}
	runner := fixture.Runner()

	for _, scenario := range scenarios {
		if _, err := runner.Run(context.Background(), scenario); err != nil {
			t.Fatalf("Scenario failed: %v", err)
		}
	}
}

// commands is a single step running the given commands in one session.
func commands(cmds ...string) []harness.Step {
	return []harness.Step{{Commands: cmds}}
}

// sessions runs each command in its own session.
func sessions(cmds ...string) []harness.Step {
	steps := make([]harness.Step, 0, len(cmds))
	for _, cmd := range cmds {
		steps = append(steps, harness.Step{Commands: []string{cmd}})
	}
	return steps
}

// creates makes each file in its own session, holding its own name.
func creates(names ...string) []harness.Step {
	steps := make([]harness.Step, 0, len(names))
	for _, name := range names {
		steps = append(steps, harness.Step{Create: name})
	}
	return steps
}

// enter is one content-entry pass that leaves lines in name.
func enter(name string, lines ...string) []harness.Step {
	cmds := make([]string, 0, len(lines)+2)
	cmds = append(cmds, harness.WriteVerb+" "+name)
	cmds = append(cmds, lines...)
	cmds = append(cmds, harness.Terminator)
	return commands(cmds...)
}
