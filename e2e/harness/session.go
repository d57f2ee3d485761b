package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/isakkjerstad/inf2201-p6-tests/internal/logging"
)

var (
	// ErrSpawn means the target could not be started.
	ErrSpawn = errors.New("failed to spawn target")
	// ErrTimeout means a session did not finish within Config.Timeout.
	ErrTimeout = errors.New("session timed out")
	// ErrUndecodable means the target printed bytes that are not UTF-8.
	ErrUndecodable = errors.New("target output is not valid UTF-8")
)

// exitDrainGrace bounds how long output is drained after the target has
// exited, for terminals that do not report EOF on their own.
const exitDrainGrace = time.Second

// terminal is the platform pseudo-terminal running one target process.
type terminal interface {
	io.ReadWriteCloser
	Wait() error
	Kill() error
}

// Spawner runs one script in one fresh target process and returns what
// the target printed.
type Spawner interface {
	Spawn(ctx context.Context, script string) (Transcript, error)
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(ctx context.Context, script string) (Transcript, error)

func (f SpawnerFunc) Spawn(ctx context.Context, script string) (Transcript, error) {
	return f(ctx, script)
}

// PTYSpawner spawns the configured target on a pseudo-terminal.
type PTYSpawner struct {
	Config Config
	Logger *slog.Logger
}

// Spawn sends script followed by the exit command and returns the
// transcript once the target has exited.
func (p PTYSpawner) Spawn(ctx context.Context, script string) (Transcript, error) {
	s, err := StartSession(ctx, p.Config, p.Logger)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.Send(script + "\n"); err != nil {
		return nil, err
	}
	return s.Finish()
}

// Session is one spawn-to-exit lifetime of the target. A session is
// acquired with StartSession, driven with Send, and released with Finish
// or Close.
type Session struct {
	term    terminal
	log     *slog.Logger
	timeout time.Duration
	started time.Time

	ctx    context.Context
	cancel context.CancelFunc

	output    bytes.Buffer
	outputMux sync.Mutex // Protects output buffer access
	done      chan struct{}

	exited  chan struct{}
	waitErr error

	closeOnce sync.Once
}

// StartSession spawns the target described by cfg. The whole session,
// including Finish, must complete within cfg.Timeout.
func StartSession(ctx context.Context, cfg Config, logger *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	path := cfg.ExecutablePath()
	term, err := startTerminal(path, cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrSpawn, path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	s := &Session{
		term:    term,
		log:     logger.With("target", path),
		timeout: cfg.Timeout,
		started: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	s.log.Debug("session started", "dir", cfg.Dir, "timeout", cfg.Timeout)

	go s.readLoop()
	go s.waitLoop()

	return s, nil
}

// readLoop continuously reads from the terminal and appends to the output buffer
func (s *Session) readLoop() {
	defer close(s.done)
	buf := make([]byte, 4096)
	for {
		n, err := s.term.Read(buf)
		if n > 0 {
			s.outputMux.Lock()
			s.output.Write(buf[:n])
			s.outputMux.Unlock()
		}
		if err != nil {
			if err != io.EOF {
				s.log.Debug("terminal read stopped", "error", err)
			}
			return
		}
	}
}

func (s *Session) waitLoop() {
	s.waitErr = s.term.Wait()
	close(s.exited)
}

// Send writes input to the target as if typed on its terminal.
func (s *Session) Send(input string) error {
	errc := make(chan error, 1)
	go func() {
		_, err := io.WriteString(s.term, input)
		errc <- err
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("failed to write to target: %w", err)
		}
		return nil
	case <-s.ctx.Done():
		return s.abort("writing input")
	}
}

// Finish sends the exit command, waits for the target to exit, and
// returns everything it printed.
func (s *Session) Finish() (Transcript, error) {
	if err := s.Send(ExitCommand + "\n"); err != nil {
		return nil, err
	}

	select {
	case <-s.exited:
	case <-s.ctx.Done():
		return nil, s.abort("waiting for exit")
	}

	select {
	case <-s.done:
	case <-time.After(exitDrainGrace):
		s.log.Debug("no EOF after exit, closing terminal")
		s.term.Close()
	case <-s.ctx.Done():
		return nil, s.abort("draining output")
	}

	// The exit status carries no verdict; only the text does.
	s.log.Debug("session finished", "elapsed", time.Since(s.started), "exit", s.waitErr)

	raw := s.Output()
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w (%d bytes)", ErrUndecodable, len(raw))
	}
	return SplitLines(raw), nil
}

// Output returns the raw bytes captured so far.
func (s *Session) Output() []byte {
	s.outputMux.Lock()
	defer s.outputMux.Unlock()
	return bytes.Clone(s.output.Bytes())
}

// abort kills a session that ran past its deadline.
func (s *Session) abort(phase string) error {
	err := s.ctx.Err()
	s.Close()
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s while %s\nGot output:\n%s", ErrTimeout, s.timeout, phase, s.Output())
	}
	return fmt.Errorf("session cancelled while %s: %w", phase, err)
}

// Close kills the target if it is still running and releases the
// terminal. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()

		select {
		case <-s.exited:
		default:
			s.log.Debug("killing target")
			if kerr := s.term.Kill(); kerr != nil {
				s.log.Debug("kill failed", "error", kerr)
			}
			<-s.exited
		}

		err = s.term.Close()
		select {
		case <-s.done:
		case <-time.After(exitDrainGrace):
			s.log.Debug("terminal reader did not stop")
		}
	})
	return err
}
