package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/isakkjerstad/inf2201-p6-tests/internal/logging"
)

// ErrScenarioFailed marks a scenario whose verdict or assertions did not
// hold. Harness failures are reported with other errors.
var ErrScenarioFailed = errors.New("scenario failed")

// Runner executes scenarios through an engine
type Runner struct {
	engine *Engine
	log    *slog.Logger
}

// NewRunner creates a new scenario runner
func NewRunner(engine *Engine, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{engine: engine, log: logger}
}

// Run executes a scenario and reports results
func (r *Runner) Run(ctx context.Context, scenario Scenario) (*Result, error) {
	r.log.Info("running scenario", "name", scenario.Name)
	if scenario.Description != "" {
		r.log.Debug("scenario description", "description", scenario.Description)
	}

	batches := make([]string, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		r.log.Debug("step", "n", i+1, "input", step.String())
		batches = append(batches, step.Script())
	}

	tokens, err := r.engine.RunCommands(ctx, batches...)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	result := &Result{
		Tokens:  tokens,
		Outcome: Classify(tokens, scenario.Expect),
	}
	r.log.Debug("classified", "tokens", len(tokens), "outcome", result.Outcome.String())

	assertions := append([]Assertion{AssertVerdict(scenario.Want)}, scenario.Verify...)
	for i, assertion := range assertions {
		if err := assertion(result); err != nil {
			return result, fmt.Errorf("%w: %s: assertion %d: %w", ErrScenarioFailed, scenario.Name, i+1, err)
		}
	}

	r.log.Info("scenario passed", "name", scenario.Name, "verdict", int(result.Verdict()))
	return result, nil
}

// ResolveBinary returns the path to the target executable.
// Checks P6_BINARY, then the working directory, then PATH.
func ResolveBinary(name string) (string, error) {
	if binary := os.Getenv("P6_BINARY"); binary != "" {
		if _, err := os.Stat(binary); err != nil {
			return "", fmt.Errorf("P6_BINARY set but file not found: %s", binary)
		}
		return filepath.Abs(binary)
	}

	if _, err := os.Stat(name); err == nil {
		return filepath.Abs(name)
	}

	binary, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in working directory or PATH - please set P6_BINARY", name)
	}
	return filepath.Abs(binary)
}
