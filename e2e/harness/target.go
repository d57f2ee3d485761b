package harness

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/isakkjerstad/inf2201-p6-tests/internal/logging"
)

// Target builds and cleans the target from its Makefile.
type Target struct {
	SourceDir  string
	MakeTarget string
	Logger     *slog.Logger
}

// NewTarget returns the builder described by cfg.
func NewTarget(cfg Config, logger *slog.Logger) (*Target, error) {
	if cfg.SourceDir == "" {
		return nil, fmt.Errorf("%w: source dir is required to build the target", ErrInvalidConfig)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	target := cfg.MakeTarget
	if target == "" {
		target = DefaultConfig().MakeTarget
	}
	return &Target{SourceDir: cfg.SourceDir, MakeTarget: target, Logger: logger}, nil
}

// Build runs a clean build and makes the artefact executable. It returns
// the absolute path of the built executable.
func (t *Target) Build(ctx context.Context) (string, error) {
	if err := t.Clean(ctx); err != nil {
		return "", err
	}
	if err := t.runMake(ctx, t.MakeTarget); err != nil {
		return "", err
	}

	binary := filepath.Join(t.SourceDir, t.MakeTarget)
	if err := os.Chmod(binary, 0755); err != nil {
		return "", fmt.Errorf("failed to make %s executable: %w", binary, err)
	}
	t.Logger.Info("target built", "binary", binary)
	return filepath.Abs(binary)
}

// Clean removes the executable and the target's on-disk state.
func (t *Target) Clean(ctx context.Context) error {
	return t.runMake(ctx, "clean")
}

// runMake executes make in the source directory
func (t *Target) runMake(ctx context.Context, args ...string) error {
	t.Logger.Debug("make", "dir", t.SourceDir, "args", args)
	cmd := exec.CommandContext(ctx, "make", args...)
	cmd.Dir = t.SourceDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("make %v failed: %w\nOutput: %s", args, err, output)
	}
	return nil
}
