// Package ptypane bridges a virtual terminal (internal/terminal) to a
// real child process running behind a PTY: it spawns the child, pipes its
// output into the VT, encodes and forwards key events, and tracks the
// child's working directory.
package ptypane

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AryaLabsHQ/agentree/internal/inputencoder"
	"github.com/AryaLabsHQ/agentree/internal/terminal"
	"github.com/gdamore/tcell/v2"
)

const (
	defaultCols = 80
	defaultRows = 24

	// DefaultScrollStep is how many rows ScrollUp/ScrollDown move the
	// viewport per call.
	DefaultScrollStep = 3

	readBufferSize = 4096

	// DefaultTickInterval is how often a host should call Tick to drive
	// the CWD tracker.
	DefaultTickInterval = 250 * time.Millisecond
)

// Pane owns one child process on a PTY, the VirtualTerminal it feeds, and
// the bookkeeping needed to track the child's current working directory.
// A Pane is safe for concurrent use by one UI goroutine and its own
// internal reader goroutine; the VT is guarded by a single sync.Mutex that
// both of them take.
type Pane struct {
	vt *terminal.VirtualTerminal
	mu sync.Mutex // guards vt

	ptyFile  *os.File
	writerMu sync.Mutex // guards writes to ptyFile

	cmd *exec.Cmd
	pid int

	exited atomic.Bool

	lastCols, lastRows int

	cwd                string
	shallowRevertCount int
	homeDir            string

	// ScrapeCWD enables the on-screen-text CWD heuristic (signal 2 of 3).
	// Defaults to true; a host that finds it too fragile can disable it
	// and rely on OSC 7 plus process introspection alone.
	ScrapeCWD bool

	factory PTYFactory
	notify  chan<- struct{}
	sink    func([]byte)
}

// New spawns `claude args...` in cwd behind a PTY, using the real PTY
// factory. notify receives a non-blocking signal after each chunk of
// output the child produces; sink, if non-nil, receives a copy of each raw
// chunk read from the child (e.g. for token-usage scraping).
func New(cwd string, args []string, notify chan<- struct{}, sink func([]byte)) *Pane {
	return NewWithFactory(DefaultPTYFactory, cwd, args, notify, sink)
}

// NewWithFactory is New with an injectable PTYFactory, for tests.
func NewWithFactory(factory PTYFactory, cwd string, args []string, notify chan<- struct{}, sink func([]byte)) *Pane {
	p := &Pane{
		vt:        terminal.New(defaultCols, defaultRows),
		cwd:       cwd,
		homeDir:   os.Getenv("HOME"),
		ScrapeCWD: true,
		factory:   factory,
		notify:    notify,
		sink:      sink,
		lastCols:  defaultCols,
		lastRows:  defaultRows,
	}

	if err := p.spawn(cwd, args); err != nil {
		msg := fmt.Sprintf("Failed to start Claude Code: %s\r\n\r\n"+
			"Make sure 'claude' CLI is installed and in your PATH.\r\n"+
			"Install: npm install -g @anthropic-ai/claude-code\r\n", err)
		p.vt.Feed([]byte(msg))
		p.exited.Store(true)
		return p
	}

	go p.readLoop()
	return p
}

func (p *Pane) spawn(cwd string, args []string) error {
	cmd := exec.Command("claude", args...)
	cmd.Dir = cwd
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	f, err := p.factory.Spawn(cmd, defaultCols, defaultRows)
	if err != nil {
		return err
	}

	p.ptyFile = f
	p.cmd = cmd
	if cmd.Process != nil {
		p.pid = cmd.Process.Pid
	}
	return nil
}

// readLoop is the dedicated reader goroutine: it blocks on Read, feeds
// whatever arrives to the VT, drains any responses the VT owes the host
// and writes them back — releasing the VT lock first, so a key press
// landing mid-drain can't deadlock against it — then signals notify.
func (p *Pane) readLoop() {
	buf := make([]byte, readBufferSize)
	for {
		n, err := p.ptyFile.Read(buf)
		if n > 0 {
			p.mu.Lock()
			p.vt.Feed(buf[:n])
			responses := p.vt.TakeResponses()
			p.mu.Unlock()

			for _, resp := range responses {
				p.writeRaw(resp)
			}
			if p.sink != nil {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				p.sink(chunk)
			}
			p.signalOutput()
		}
		if err != nil {
			p.exited.Store(true)
			if p.cmd != nil {
				_ = p.cmd.Wait()
			}
			return
		}
	}
}

func (p *Pane) signalOutput() {
	if p.notify == nil {
		return
	}
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

func (p *Pane) writeRaw(b []byte) {
	if len(b) == 0 || p.ptyFile == nil {
		return
	}
	p.writerMu.Lock()
	defer p.writerMu.Unlock()
	_, _ = p.ptyFile.Write(b) // transient I/O errors are silently dropped
}

// HandleKey encodes a key event and writes it to the child, if the PTY is
// still open. Unrecognised keys encode to nothing and are a no-op.
func (p *Pane) HandleKey(ev *tcell.EventKey) {
	p.writeRaw(inputencoder.Encode(ev))
}

// HandlePaste writes pasted text, wrapped in a bracketed-paste sequence
// when the host has requested it (mode 2004); raw bytes otherwise.
func (p *Pane) HandlePaste(text string, bracketed bool) {
	if !bracketed {
		p.writeRaw([]byte(text))
		return
	}
	p.writeRaw([]byte("\x1b[200~"))
	p.writeRaw([]byte(text))
	p.writeRaw([]byte("\x1b[201~"))
}

// SendInterrupt writes a single Ctrl-C byte.
func (p *Pane) SendInterrupt() { p.writeRaw(inputencoder.Interrupt()) }

// SendFocusEvent writes the focus-gained or focus-lost escape sequence.
func (p *Pane) SendFocusEvent(gained bool) {
	if gained {
		p.writeRaw(inputencoder.FocusGained())
	} else {
		p.writeRaw(inputencoder.FocusLost())
	}
}

// Resize updates both the PTY and the VT to the new size, in that order,
// so the two never observe different dimensions between one paint and
// the next. A no-op if unchanged from the last known size.
func (p *Pane) Resize(cols, rows int) {
	if cols == p.lastCols && rows == p.lastRows {
		return
	}
	p.lastCols, p.lastRows = cols, rows

	if p.ptyFile != nil {
		_ = p.factory.Resize(p.ptyFile, cols, rows)
	}

	p.mu.Lock()
	p.vt.Resize(cols, rows)
	p.mu.Unlock()
}

// ScrollUp and ScrollDown move the viewport by DefaultScrollStep rows.
func (p *Pane) ScrollUp() {
	p.mu.Lock()
	p.vt.ScrollUp(DefaultScrollStep)
	p.mu.Unlock()
}

func (p *Pane) ScrollDown() {
	p.mu.Lock()
	p.vt.ScrollDown(DefaultScrollStep)
	p.mu.Unlock()
}

// WithVT provides synchronized access to the VT for a renderer snapshot.
func (p *Pane) WithVT(f func(vt *terminal.VirtualTerminal)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f(p.vt)
}

// Tick runs the CWD tracker (internal/ptypane/cwd.go) once.
func (p *Pane) Tick() { p.tickCWD() }

// Cwd returns the best-known current working directory of the child.
func (p *Pane) Cwd() string { return p.cwd }

// IsProcessExited reports whether the child has terminated.
func (p *Pane) IsProcessExited() bool { return p.exited.Load() }

// Close terminates the child process and releases the PTY. Safe to call
// on a pane whose spawn already failed.
func (p *Pane) Close() {
	if p.ptyFile != nil {
		p.ptyFile.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
		_ = p.cmd.Wait()
	}
	p.exited.Store(true)
}
