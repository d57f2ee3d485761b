//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd && !windows

package harness

import (
	"fmt"
	"runtime"
)

func startTerminal(path, dir string) (terminal, error) {
	return nil, fmt.Errorf("pseudo-terminals are not supported on %s", runtime.GOOS)
}
