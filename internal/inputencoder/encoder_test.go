package inputencoder

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestKeyEncodeScenarios(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want []byte
	}{
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), []byte{0x03}},
		{"alt-a", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModAlt), []byte{0x1b, 0x61}},
		{"f5-no-mods", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), []byte("\x1b[15~")},
		{"shift-f5", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModShift), []byte("\x1b[15;2~")},
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), []byte("\x1b[A")},
		{"ctrl-up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModCtrl), []byte("\x1b[1;5A")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.ev)
			if string(got) != string(tt.want) {
				t.Fatalf("Encode(%s) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestEncodeNamedKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want []byte
	}{
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), []byte("\r")},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), []byte{0x7f}},
		{"alt-backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModAlt), []byte{0x1b, 0x7f}},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), []byte("\t")},
		{"shift-tab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModShift), []byte("\x1b[Z")},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), []byte{0x1b}},
		{"home", tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone), []byte("\x1b[H")},
		{"ctrl-end", tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModCtrl), []byte("\x1b[1;5F")},
		{"pgup", tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone), []byte("\x1b[5~")},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), []byte("\x1b[3~")},
		{"f1", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), []byte("\x1bOP")},
		{"shift-f1", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModShift), []byte("\x1b[1;2P")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.ev)
			if string(got) != string(tt.want) {
				t.Fatalf("Encode(%s) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestEncodeCtrlLetterRune(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModCtrl)
	if got := Encode(ev); string(got) != string([]byte{0x01}) {
		t.Fatalf("Encode(ctrl-a) = %v, want [0x01]", got)
	}
}

func TestEncodeCtrlAltC(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl|tcell.ModAlt)
	want := []byte{0x1b, 0x03}
	if got := Encode(ev); string(got) != string(want) {
		t.Fatalf("Encode(ctrl-alt-c) = %v, want %v", got, want)
	}
}

func TestEncodeUnknownKeyIsNoop(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyClear, 0, tcell.ModNone)
	if got := Encode(ev); got != nil {
		t.Fatalf("Encode(unknown) = %v, want nil", got)
	}
}

func TestInterruptAndFocusEvents(t *testing.T) {
	if string(Interrupt()) != "\x03" {
		t.Fatalf("Interrupt() = %q, want \\x03", Interrupt())
	}
	if string(FocusGained()) != "\x1b[I" {
		t.Fatalf("FocusGained() = %q, want ESC[I", FocusGained())
	}
	if string(FocusLost()) != "\x1b[O" {
		t.Fatalf("FocusLost() = %q, want ESC[O", FocusLost())
	}
}
