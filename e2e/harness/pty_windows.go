//go:build windows

package harness

import (
	"fmt"

	gopty "github.com/aymanbagabas/go-pty"
)

// conptyTerminal runs the target on a Windows pseudo console. There is no
// termios to clear, so a target reading in cooked console mode may have
// its input echoed into the transcript.
type conptyTerminal struct {
	pty gopty.Pty
	cmd *gopty.Cmd
}

func startTerminal(path, dir string) (terminal, error) {
	p, err := gopty.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create pseudo console: %w", err)
	}

	cmd := p.Command(path)
	cmd.Dir = dir
	if err := cmd.Start(); err != nil {
		p.Close()
		return nil, err
	}

	return &conptyTerminal{pty: p, cmd: cmd}, nil
}

func (t *conptyTerminal) Read(p []byte) (int, error) {
	return t.pty.Read(p)
}

func (t *conptyTerminal) Write(p []byte) (int, error) {
	return t.pty.Write(p)
}

func (t *conptyTerminal) Wait() error {
	return t.cmd.Wait()
}

func (t *conptyTerminal) Kill() error {
	if t.cmd.Process == nil {
		return nil
	}
	return t.cmd.Process.Kill()
}

func (t *conptyTerminal) Close() error {
	return t.pty.Close()
}
