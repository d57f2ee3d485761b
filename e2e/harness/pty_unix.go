//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package harness

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// unixTerminal runs the target on a pseudo-terminal pair (pty, tty).
type unixTerminal struct {
	ptmx *os.File
	cmd  *exec.Cmd
}

// startTerminal spawns path in dir with the tty as its controlling
// terminal. Echo is cleared on the tty before the child starts, so the
// master side only ever carries the target's own output.
func startTerminal(path, dir string) (terminal, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open pty: %w", err)
	}
	defer tty.Close()

	if err := disableEcho(tty); err != nil {
		ptmx.Close()
		return nil, err
	}

	cmd := exec.Command(path)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=dumb")
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}

	if err := cmd.Start(); err != nil {
		ptmx.Close()
		return nil, err
	}

	return &unixTerminal{ptmx: ptmx, cmd: cmd}, nil
}

func disableEcho(tty *os.File) error {
	fd := int(tty.Fd())
	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return fmt.Errorf("failed to read terminal attributes: %w", err)
	}
	termios.Lflag &^= unix.ECHO | unix.ECHONL
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, termios); err != nil {
		return fmt.Errorf("failed to disable echo: %w", err)
	}
	return nil
}

// Read reports io.EOF once the child side has gone away; Linux signals
// that with EIO on the master.
func (t *unixTerminal) Read(p []byte) (int, error) {
	n, err := t.ptmx.Read(p)
	if errors.Is(err, syscall.EIO) {
		err = io.EOF
	}
	return n, err
}

func (t *unixTerminal) Write(p []byte) (int, error) {
	return t.ptmx.Write(p)
}

func (t *unixTerminal) Wait() error {
	return t.cmd.Wait()
}

// Kill signals the whole session the target leads, so helpers it started
// cannot keep the tty open.
func (t *unixTerminal) Kill() error {
	if t.cmd.Process == nil {
		return nil
	}
	if err := unix.Kill(-t.cmd.Process.Pid, unix.SIGKILL); err == nil {
		return nil
	}
	return t.cmd.Process.Kill()
}

func (t *unixTerminal) Close() error {
	return t.ptmx.Close()
}
