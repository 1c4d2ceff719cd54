package terminal

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// parserState is the Paul-Williams VT-500-family state machine's own
// state, kept separate from VirtualTerminal's display state so Resize can
// leave it untouched; reset() (ESC c) replaces it along with the rest.
// pending holds the leading bytes of a UTF-8 rune cut off at the end of
// the previous Feed.
type parserState struct {
	state         pstate
	intermediates []byte
	params        []int
	curParam      int
	hasParam      bool
	oscBuf        []byte
	pending       []byte
}

type pstate int

const (
	stGround pstate = iota
	stEscape
	stCSI
	stOSC
	stOSCEscape
	stDCS
	stDCSEscape
)

// feed is the parser's byte-at-a-time (rune-at-a-time, in ground state)
// loop. It implements four dispatch points — print, execute, csiDispatch,
// escDispatch — plus oscDispatch, mirroring the vte-crate Perform trait
// the original implementation drove. DCS is entered and exited but its
// payload is discarded, per spec Non-goals.
func (vt *VirtualTerminal) feed(data []byte) {
	p := &vt.p
	if len(p.pending) > 0 {
		data = append(p.pending, data...)
		p.pending = nil
	}
	i := 0
	for i < len(data) {
		b := data[i]

		switch p.state {
		case stGround:
			if b == 0x1B {
				p.enterEscape()
				i++
				continue
			}
			if b < 0x20 || b == 0x7F {
				vt.execute(b)
				i++
				continue
			}
			if !utf8.FullRune(data[i:]) {
				p.pending = append([]byte(nil), data[i:]...)
				return
			}
			r, size := utf8.DecodeRune(data[i:])
			if r == utf8.RuneError && size <= 1 {
				r = utf8.RuneError
				size = 1
			}
			vt.printRune(r)
			i += size

		case stEscape:
			switch {
			case b == '[':
				p.enterCSI()
			case b == ']':
				p.enterOSC()
			case b == 'P' || b == 'X' || b == '^' || b == '_':
				p.state = stDCS
			case b >= 0x20 && b <= 0x2F:
				p.intermediates = append(p.intermediates, b)
			case b >= 0x30 && b <= 0x7E:
				vt.escDispatch(p.intermediates, b)
				p.state = stGround
			default:
				p.state = stGround
			}
			i++

		case stCSI:
			switch {
			case b >= '0' && b <= '9':
				p.curParam = p.curParam*10 + int(b-'0')
				p.hasParam = true
			case b == ';':
				p.params = append(p.params, p.paramOrZero())
				p.curParam, p.hasParam = 0, false
			case b == '?' || (b >= 0x3C && b <= 0x3F):
				p.intermediates = append(p.intermediates, b)
			case b >= 0x20 && b <= 0x2F:
				p.intermediates = append(p.intermediates, b)
			case b >= 0x40 && b <= 0x7E:
				p.params = append(p.params, p.paramOrZero())
				vt.csiDispatch(p.params, p.intermediates, b)
				p.state = stGround
			}
			i++

		case stOSC:
			switch b {
			case 0x07:
				vt.oscDispatch(p.oscBuf)
				p.state = stGround
			case 0x1B:
				p.state = stOSCEscape
			default:
				p.oscBuf = append(p.oscBuf, b)
			}
			i++

		case stOSCEscape:
			if b == '\\' {
				vt.oscDispatch(p.oscBuf)
				p.state = stGround
				i++
			} else {
				p.oscBuf = append(p.oscBuf, 0x1B)
				p.state = stOSC
				// reprocess b in stOSC, don't consume it twice
			}

		case stDCS:
			if b == 0x1B {
				p.state = stDCSEscape
			}
			i++

		case stDCSEscape:
			if b == '\\' {
				p.state = stGround
			} else {
				p.state = stDCS
			}
			i++
		}
	}
}

func (p *parserState) enterEscape() {
	p.state = stEscape
	p.intermediates = p.intermediates[:0]
}

func (p *parserState) enterCSI() {
	p.state = stCSI
	p.intermediates = p.intermediates[:0]
	p.params = p.params[:0]
	p.curParam, p.hasParam = 0, false
}

func (p *parserState) enterOSC() {
	p.state = stOSC
	p.oscBuf = p.oscBuf[:0]
}

func (p *parserState) paramOrZero() int {
	if p.hasParam {
		return p.curParam
	}
	return 0
}

// execute handles a C0 control byte.
func (vt *VirtualTerminal) execute(b byte) {
	switch b {
	case 0x07: // BEL
	case 0x08: // BS
		vt.backspace()
	case 0x09: // HT
		vt.tab()
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		vt.newline()
	case 0x0D: // CR
		vt.carriageReturn()
	}
}

func paramAt(params []int, i, def int) int {
	if i >= len(params) || params[i] == 0 {
		return def
	}
	return params[i]
}

func paramAtRaw(params []int, i, def int) int {
	if i >= len(params) {
		return def
	}
	return params[i]
}

func hasIntermediate(intermediates []byte, b byte) bool {
	for _, c := range intermediates {
		if c == b {
			return true
		}
	}
	return false
}

// csiDispatch applies a completed CSI sequence; see the final-byte table
// in the component design.
func (vt *VirtualTerminal) csiDispatch(params []int, intermediates []byte, final byte) {
	priv := hasIntermediate(intermediates, '?')

	switch final {
	case 'H', 'f':
		row := paramAt(params, 0, 1)
		col := paramAt(params, 1, 1)
		vt.moveCursor(col-1, row-1)
	case 'A':
		vt.moveCursor(vt.cursor.X, vt.cursor.Y-paramAt(params, 0, 1))
	case 'B':
		vt.moveCursor(vt.cursor.X, vt.cursor.Y+paramAt(params, 0, 1))
	case 'C':
		vt.moveCursor(vt.cursor.X+paramAt(params, 0, 1), vt.cursor.Y)
	case 'D':
		vt.moveCursor(vt.cursor.X-paramAt(params, 0, 1), vt.cursor.Y)
	case 'E':
		vt.moveCursor(0, vt.cursor.Y+paramAt(params, 0, 1))
	case 'F':
		vt.moveCursor(0, vt.cursor.Y-paramAt(params, 0, 1))
	case 'G':
		vt.moveCursor(paramAt(params, 0, 1)-1, vt.cursor.Y)
	case 'd':
		vt.moveCursor(vt.cursor.X, paramAt(params, 0, 1)-1)
	case 'J':
		vt.eraseInDisplay(paramAtRaw(params, 0, 0))
	case 'K':
		vt.eraseInLine(paramAtRaw(params, 0, 0))
	case 'L':
		vt.insertLines(paramAt(params, 0, 1))
	case 'M':
		vt.deleteLines(paramAt(params, 0, 1))
	case 'P':
		vt.deleteChars(paramAt(params, 0, 1))
	case '@':
		vt.insertChars(paramAt(params, 0, 1))
	case 'X':
		vt.eraseChars(paramAt(params, 0, 1))
	case 'S':
		vt.scrollRegionUp(paramAt(params, 0, 1))
	case 'T':
		vt.scrollRegionDown(paramAt(params, 0, 1))
	case 'm':
		vt.parseSGR(params)
	case 'h':
		if priv {
			vt.setDECMode(params, true)
		}
	case 'l':
		if priv {
			vt.setDECMode(params, false)
		}
	case 's':
		vt.saveCursor()
	case 'u':
		vt.restoreCursor()
	case 'r':
		vt.setScrollRegion(paramAt(params, 0, 1)-1, paramAt(params, 1, vt.rows))
	case 'n':
		vt.reportDSR(paramAtRaw(params, 0, 0))
	}
}

func (vt *VirtualTerminal) reportDSR(mode int) {
	switch mode {
	case 5:
		vt.enqueueResponse([]byte("\x1b[0n"))
	case 6:
		vt.enqueueResponse([]byte("\x1b[" + strconv.Itoa(vt.cursor.Y+1) + ";" + strconv.Itoa(vt.cursor.X+1) + "R"))
	}
}

// setDECMode applies DEC private set/reset modes acknowledged by this VT:
// 25 (cursor visibility) and the alternate-screen family. Others are
// accepted and ignored (rendered unchanged), as the component design asks.
func (vt *VirtualTerminal) setDECMode(params []int, set bool) {
	for _, mode := range params {
		switch mode {
		case 25:
			vt.setCursorVisible(set)
		case 1049:
			if set {
				vt.enterAlternateScreen(true)
			} else {
				vt.leaveAlternateScreen(true)
			}
		case 47, 1047:
			if set {
				vt.enterAlternateScreen(false)
			} else {
				vt.leaveAlternateScreen(false)
			}
		}
	}
}

// parseSGR applies Select Graphic Rendition codes left to right.
func (vt *VirtualTerminal) parseSGR(params []int) {
	if len(params) == 0 {
		vt.currentStyle = DefaultStyle
		return
	}
	style := vt.currentStyle
	for i := 0; i < len(params); i++ {
		code := params[i]
		switch {
		case code == 0:
			style = DefaultStyle
		case code == 1:
			style = style.SetBold()
		case code == 2:
			style = style.SetDim()
		case code == 3:
			style = style.SetItalic()
		case code == 4:
			style = style.SetUnderline()
		case code == 7:
			style = style.SetReverse()
		case code == 9:
			style = style.SetStrike()
		case code == 22:
			style = style.ClearBoldDim()
		case code == 23:
			style = style.ClearItalic()
		case code == 24:
			style = style.ClearUnderline()
		case code == 27:
			style = style.ClearReverse()
		case code == 29:
			style = style.ClearStrike()
		case code >= 30 && code <= 37:
			style = style.WithFg(NamedColorValue(NamedColor(code - 30)))
		case code == 38:
			var c Color
			c, i = vt.parseExtendedColor(params, i)
			style = style.WithFg(c)
		case code == 39:
			style = style.WithFg(Color{})
		case code >= 40 && code <= 47:
			style = style.WithBg(NamedColorValue(NamedColor(code - 40)))
		case code == 48:
			var c Color
			c, i = vt.parseExtendedColor(params, i)
			style = style.WithBg(c)
		case code == 49:
			style = style.WithBg(Color{})
		case code >= 90 && code <= 97:
			style = style.WithFg(NamedColorValue(NamedColor(code-90) + BrightBlack))
		case code >= 100 && code <= 107:
			style = style.WithBg(NamedColorValue(NamedColor(code-100) + BrightBlack))
		}
	}
	vt.currentStyle = style
}

// parseExtendedColor consumes the 5-or-2-indexed-color sub-parameters
// following a 38 or 48 code, returning the decoded color and the index of
// the last parameter consumed.
func (vt *VirtualTerminal) parseExtendedColor(params []int, i int) (Color, int) {
	if i+1 >= len(params) {
		return Color{}, i
	}
	switch params[i+1] {
	case 5:
		if i+2 < len(params) {
			return IndexedColor(uint8(params[i+2])), i + 2
		}
		return Color{}, i + 1
	case 2:
		if i+4 < len(params) {
			return RGBColor(uint8(params[i+2]), uint8(params[i+3]), uint8(params[i+4])), i + 4
		}
		return Color{}, i + 1
	default:
		return Color{}, i + 1
	}
}

// escDispatch applies a completed two-character escape sequence.
func (vt *VirtualTerminal) escDispatch(intermediates []byte, final byte) {
	switch final {
	case 'D': // IND
		vt.newline()
	case 'M': // RI
		if vt.cursor.Y <= vt.scrollTop {
			vt.scrollRegionDown(1)
		} else {
			vt.cursor.Y--
		}
	case '7':
		vt.saveCursor()
	case '8':
		vt.restoreCursor()
	case 'c': // RIS
		vt.reset()
	}
}

// oscDispatch handles an Operating System Command string. Only OSC 7
// (current working directory) is interpreted; all other numbers are
// silently accepted.
func (vt *VirtualTerminal) oscDispatch(data []byte) {
	s := string(data)
	num, rest, ok := strings.Cut(s, ";")
	if !ok || num != "7" {
		return
	}
	path, ok := decodeFileURL(rest)
	if !ok {
		return
	}
	vt.reportedCWD = path
	vt.hasCWD = true
}

// decodeFileURL parses OSC 7's file://<host>/<percent-encoded-path>
// payload, percent-decoding at the byte level before re-decoding as UTF-8
// so a %-escaped continuation byte of a multi-byte sequence is never
// corrupted by decoding through an intermediate string type first.
func decodeFileURL(payload string) (string, bool) {
	const scheme = "file://"
	if !strings.HasPrefix(payload, scheme) {
		return "", false
	}
	rest := payload[len(scheme):]
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return "", false
	}
	encodedPath := rest[slash:]

	decoded := make([]byte, 0, len(encodedPath))
	for i := 0; i < len(encodedPath); i++ {
		if encodedPath[i] == '%' && i+2 < len(encodedPath) {
			if v, err := strconv.ParseUint(encodedPath[i+1:i+3], 16, 8); err == nil {
				decoded = append(decoded, byte(v))
				i += 2
				continue
			}
		}
		decoded = append(decoded, encodedPath[i])
	}
	return string(decoded), true
}
