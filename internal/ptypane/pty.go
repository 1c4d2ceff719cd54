package ptypane

import (
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// PTYFactory is the downward interface a Pane needs from the platform: a
// way to spawn a command behind a PTY at a given size, and a way to
// resize that PTY afterward. Swappable in tests.
type PTYFactory interface {
	Spawn(cmd *exec.Cmd, cols, rows int) (*os.File, error)
	Resize(f *os.File, cols, rows int) error
}

// realPTYFactory wraps github.com/creack/pty, the pack's universal PTY
// library.
type realPTYFactory struct{}

// DefaultPTYFactory spawns real PTYs via creack/pty.
var DefaultPTYFactory PTYFactory = realPTYFactory{}

func (realPTYFactory) Spawn(cmd *exec.Cmd, cols, rows int) (*os.File, error) {
	return pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

func (realPTYFactory) Resize(f *os.File, cols, rows int) error {
	return pty.Setsize(f, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}
