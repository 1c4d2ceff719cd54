// Package inputencoder translates tcell key events into the exact byte
// sequences a VT-100/xterm-family host program expects on its input
// stream. It is a pure function of (key, modifiers): no state, no I/O.
package inputencoder

import (
	"strconv"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Encode translates a key event into the bytes to write to the PTY. An
// unrecognised key variant returns nil (no-op), per the component design.
func Encode(ev *tcell.EventKey) []byte {
	mods := ev.Modifiers()
	shift := mods&tcell.ModShift != 0
	alt := mods&tcell.ModAlt != 0
	ctrl := mods&tcell.ModCtrl != 0
	param := modifierParam(shift, alt, ctrl)

	switch ev.Key() {
	case tcell.KeyRune:
		return encodeRune(ev.Rune(), shift, alt, ctrl)

	case tcell.KeyEnter:
		return []byte("\r")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if alt {
			return []byte{0x1b, 0x7f}
		}
		return []byte{0x7f}
	case tcell.KeyTab:
		return []byte("\t")
	case tcell.KeyBacktab:
		return []byte("\x1b[Z")
	case tcell.KeyEscape:
		return []byte{0x1b}

	case tcell.KeyUp:
		return arrow(param, 'A')
	case tcell.KeyDown:
		return arrow(param, 'B')
	case tcell.KeyRight:
		return arrow(param, 'C')
	case tcell.KeyLeft:
		return arrow(param, 'D')

	case tcell.KeyHome:
		return navLetter(param, 'H')
	case tcell.KeyEnd:
		return navLetter(param, 'F')
	case tcell.KeyPgUp:
		return navTilde(param, 5)
	case tcell.KeyPgDn:
		return navTilde(param, 6)
	case tcell.KeyInsert:
		return navTilde(param, 2)
	case tcell.KeyDelete:
		return navTilde(param, 3)

	case tcell.KeyF1:
		return functionKeyLow(param, 'P')
	case tcell.KeyF2:
		return functionKeyLow(param, 'Q')
	case tcell.KeyF3:
		return functionKeyLow(param, 'R')
	case tcell.KeyF4:
		return functionKeyLow(param, 'S')
	case tcell.KeyF5:
		return navTilde(param, 15)
	case tcell.KeyF6:
		return navTilde(param, 17)
	case tcell.KeyF7:
		return navTilde(param, 18)
	case tcell.KeyF8:
		return navTilde(param, 19)
	case tcell.KeyF9:
		return navTilde(param, 20)
	case tcell.KeyF10:
		return navTilde(param, 21)
	case tcell.KeyF11:
		return navTilde(param, 23)
	case tcell.KeyF12:
		return navTilde(param, 24)
	}

	if key := ev.Key(); key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		b := byte(key)
		if alt {
			return []byte{0x1b, b}
		}
		return []byte{b}
	}

	return nil
}

// Interrupt is the byte sequence for a user-requested SIGINT-equivalent.
func Interrupt() []byte { return []byte{0x03} }

// FocusGained and FocusLost are the byte sequences a host emits when the
// terminal window gains or loses focus, written only once the child has
// enabled focus-event tracking (mode 2004's sibling, mode 1004).
func FocusGained() []byte { return []byte("\x1b[I") }
func FocusLost() []byte   { return []byte("\x1b[O") }

// modifierParam computes the CSI modifier parameter: 1 plus 1 for shift,
// 2 for alt, 4 for ctrl. Equal to 1 when no modifiers are held.
func modifierParam(shift, alt, ctrl bool) int {
	p := 1
	if shift {
		p++
	}
	if alt {
		p += 2
	}
	if ctrl {
		p += 4
	}
	return p
}

func arrow(param int, final byte) []byte {
	if param == 1 {
		return []byte{0x1b, '[', final}
	}
	return []byte("\x1b[1;" + strconv.Itoa(param) + string(final))
}

func navLetter(param int, final byte) []byte {
	if param == 1 {
		return []byte{0x1b, '[', final}
	}
	return []byte("\x1b[1;" + strconv.Itoa(param) + string(final))
}

func navTilde(param int, code int) []byte {
	if param == 1 {
		return []byte("\x1b[" + strconv.Itoa(code) + "~")
	}
	return []byte("\x1b[" + strconv.Itoa(code) + ";" + strconv.Itoa(param) + "~")
}

func functionKeyLow(param int, final byte) []byte {
	if param == 1 {
		return []byte{0x1b, 'O', final}
	}
	return []byte("\x1b[1;" + strconv.Itoa(param) + string(final))
}

// encodeRune handles plain character input, including Ctrl- and
// Alt-modified letters that tcell delivers as KeyRune rather than a named
// Ctrl key constant (notably on non-letter runes).
func encodeRune(r rune, shift, alt, ctrl bool) []byte {
	if ctrl && !alt {
		if lower := unicode.ToLower(r); lower >= 'a' && lower <= 'z' {
			return []byte{byte(lower-'a') + 1}
		}
	}
	if ctrl && alt {
		if lower := unicode.ToLower(r); lower >= 'a' && lower <= 'z' {
			return []byte{0x1b, byte(lower-'a') + 1}
		}
	}
	if shift {
		r = unicode.ToUpper(r)
	}
	if alt {
		return append([]byte{0x1b}, []byte(string(r))...)
	}
	return []byte(string(r))
}
