package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/isakkjerstad/inf2201-p6-tests/internal/logging"
)

// Engine drives the target one session at a time and classifies what it
// prints.
type Engine struct {
	cfg     Config
	spawner Spawner
	log     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSpawner replaces the pseudo-terminal spawner.
func WithSpawner(s Spawner) EngineOption {
	return func(e *Engine) {
		e.spawner = s
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine creates an engine for the target described by cfg.
func NewEngine(cfg Config, opts ...EngineOption) *Engine {
	e := &Engine{
		cfg: cfg,
		log: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.spawner == nil {
		e.spawner = PTYSpawner{Config: cfg, Logger: e.log}
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// RunCommands runs every batch in its own fresh session, in order, and
// returns the concatenated token stream. The first harness error stops
// the run; later batches are not spawned.
func (e *Engine) RunCommands(ctx context.Context, batches ...string) (TokenStream, error) {
	transcripts := make([]Transcript, 0, len(batches))
	for i, batch := range batches {
		start := time.Now()
		transcript, err := e.spawner.Spawn(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i+1, err)
		}
		e.log.Debug("batch done", "batch", i+1, "lines", len(transcript), "elapsed", time.Since(start))
		transcripts = append(transcripts, transcript)
	}
	return Tokenize(transcripts...), nil
}

// Check runs the batches and classifies the combined output against the
// expected tokens.
func (e *Engine) Check(ctx context.Context, batches []string, expected ...string) (Outcome, error) {
	tokens, err := e.RunCommands(ctx, batches...)
	if err != nil {
		return Outcome{}, err
	}
	outcome := Classify(tokens, expected)
	e.log.Debug("classified", "verdict", int(outcome.Verdict()), "outcome", outcome.String())
	return outcome, nil
}

// CatWrite sends the two-pass WriteRequest for filename and lines in one
// session and returns its verdict. The file ends up holding filename.
func (e *Engine) CatWrite(ctx context.Context, filename string, lines []string) (Verdict, error) {
	req := WriteRequest{Filename: filename, Lines: lines}
	outcome, err := e.Check(ctx, []string{req.Script()})
	if err != nil {
		return 0, err
	}
	return outcome.Verdict(), nil
}
