package ptypane

import (
	"os"
	"os/exec"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/AryaLabsHQ/agentree/internal/terminal"
	"github.com/gdamore/tcell/v2"
)

// fakeFactory hands a pre-connected socketpair end to the Pane instead
// of actually spawning a PTY, so tests don't need a real `claude` binary.
type fakeFactory struct {
	f            *os.File
	resizeCols   int
	resizeRows   int
	resizeCalled bool
}

func (ff *fakeFactory) Spawn(cmd *exec.Cmd, cols, rows int) (*os.File, error) {
	return ff.f, nil
}

func (ff *fakeFactory) Resize(f *os.File, cols, rows int) error {
	ff.resizeCalled = true
	ff.resizeCols, ff.resizeRows = cols, rows
	return nil
}

// newTestPane builds a Pane wired to one end of a bidirectional
// socketpair, keeping the other end for the test to play the "child"
// process.
func newTestPane(t *testing.T) (*Pane, *fakeFactory, *os.File) {
	t.Helper()
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	paneEnd := os.NewFile(uintptr(fds[0]), "pane-end")
	testEnd := os.NewFile(uintptr(fds[1]), "test-end")
	t.Cleanup(func() { testEnd.Close() })

	factory := &fakeFactory{f: paneEnd}
	notify := make(chan struct{}, 1)
	p := NewWithFactory(factory, "/tmp", nil, notify, nil)
	return p, factory, testEnd
}

func TestPaneFeedsOutputIntoVT(t *testing.T) {
	p, _, testEnd := newTestPane(t)

	if _, err := testEnd.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		var row string
		p.WithVT(func(vt *terminal.VirtualTerminal) { row = vt.RowText(0) })
		if row == "hello" {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("row 0 = %q, want hello", row)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHandleKeyWritesToChild(t *testing.T) {
	p, _, testEnd := newTestPane(t)

	p.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	testEnd.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 16)
	n, err := testEnd.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf[:n]) != "\r" {
		t.Fatalf("child received %q, want \\r", buf[:n])
	}
}

func TestDSRResponseFlushedBack(t *testing.T) {
	p, _, testEnd := newTestPane(t)
	_ = p

	if _, err := testEnd.Write([]byte("\x1b[6n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	testEnd.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 32)
	n, err := testEnd.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf[:n]) != "\x1b[1;1R" {
		t.Fatalf("response = %q, want \\x1b[1;1R", buf[:n])
	}
}

func TestResizeIsNoopWhenUnchanged(t *testing.T) {
	p, factory, _ := newTestPane(t)
	p.Resize(defaultCols, defaultRows)
	if factory.resizeCalled {
		t.Fatal("Resize called the factory for an unchanged size")
	}
	p.Resize(100, 40)
	if !factory.resizeCalled || factory.resizeCols != 100 || factory.resizeRows != 40 {
		t.Fatalf("Resize didn't reach the factory with the new size: %+v", factory)
	}
}

func TestConstructionFailureFeedsMessageIntoVT(t *testing.T) {
	notify := make(chan struct{}, 1)
	p := NewWithFactory(failingFactory{}, "/tmp", nil, notify, nil)

	if !p.IsProcessExited() {
		t.Fatal("pane with failed spawn should report exited")
	}
	var row string
	p.WithVT(func(vt *terminal.VirtualTerminal) { row = vt.RowText(0) })
	if row == "" {
		t.Fatal("expected an install-hint message fed into the VT")
	}
}

func TestOutputSinkReceivesRawBytes(t *testing.T) {
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	paneEnd := os.NewFile(uintptr(fds[0]), "pane-end")
	testEnd := os.NewFile(uintptr(fds[1]), "test-end")
	t.Cleanup(func() { testEnd.Close() })

	var mu sync.Mutex
	var got []byte
	sink := func(chunk []byte) {
		mu.Lock()
		got = append(got, chunk...)
		mu.Unlock()
	}

	notify := make(chan struct{}, 1)
	p := NewWithFactory(&fakeFactory{f: paneEnd}, "/tmp", nil, notify, sink)
	_ = p

	if _, err := testEnd.Write([]byte("usage: 10 tokens")); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		seen := string(got)
		mu.Unlock()
		if seen == "usage: 10 tokens" {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("sink saw %q, want \"usage: 10 tokens\"", seen)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

type failingFactory struct{}

func (failingFactory) Spawn(cmd *exec.Cmd, cols, rows int) (*os.File, error) {
	return nil, os.ErrNotExist
}
func (failingFactory) Resize(f *os.File, cols, rows int) error { return nil }
