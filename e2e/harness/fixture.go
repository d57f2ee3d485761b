package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/isakkjerstad/inf2201-p6-tests/internal/logging"
)

// Fixture represents a test environment holding a private copy of the
// target. The target keeps its disk image in its working directory, so
// every fixture starts from a freshly initialized file system whose state
// survives across the sessions of one test only.
type Fixture struct {
	t       *testing.T
	TempDir string
	Binary  string
	cfg     Config
}

// NewFixture creates a new test fixture with its own copy of binary
func NewFixture(t *testing.T, binary string) (*Fixture, error) {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Executable = binary

	cfg, err := installTarget(cfg, tmpDir)
	if err != nil {
		return nil, err
	}

	return &Fixture{
		t:       t,
		TempDir: tmpDir,
		Binary:  cfg.ExecutablePath(),
		cfg:     cfg,
	}, nil
}

// NewWorkdir copies the target described by cfg into a new temporary
// directory and returns a config pointing at the copy. The returned
// cleanup removes the directory.
func NewWorkdir(cfg Config) (Config, func() error, error) {
	dir, err := os.MkdirTemp("", "p6check-")
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to create workdir: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(dir) }

	fresh, err := installTarget(cfg, dir)
	if err != nil {
		cleanup()
		return cfg, nil, err
	}
	return fresh, cleanup, nil
}

func installTarget(cfg Config, dir string) (Config, error) {
	src := cfg.ExecutablePath()
	name := filepath.Base(src)
	if err := copyExecutable(src, filepath.Join(dir, name)); err != nil {
		return cfg, fmt.Errorf("failed to copy target: %w", err)
	}
	cfg.Executable = name
	cfg.Dir = dir
	return cfg, nil
}

func copyExecutable(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Config returns the engine configuration for this fixture.
func (f *Fixture) Config() Config {
	return f.cfg
}

// Engine returns an engine bound to the fixture's target that logs to
// the test log.
func (f *Fixture) Engine(opts ...EngineOption) *Engine {
	opts = append([]EngineOption{WithLogger(f.Logger())}, opts...)
	return NewEngine(f.cfg, opts...)
}

// Runner returns a scenario runner for the fixture's target.
func (f *Fixture) Runner() *Runner {
	return NewRunner(f.Engine(), f.Logger())
}

// Logger returns a logger that writes to the test log.
func (f *Fixture) Logger() *slog.Logger {
	return logging.NewWithWriter(testWriter{f.t}, slog.LevelDebug)
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
