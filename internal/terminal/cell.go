// Package terminal implements a VT-100/xterm-family virtual terminal: a
// byte-stream parser that maintains an in-memory character grid, cursor,
// styling, scrollback, alternate screen, scroll region and a queue of
// responses owed back to the host (DSR/CPR replies, mainly).
package terminal

// ColorKind tags which variant of the Color sum type is populated.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorNamed
	ColorIndexed
	ColorRGB
)

// NamedColor enumerates the 16 standard ANSI palette colors.
type NamedColor uint8

const (
	Black NamedColor = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

// Color is a small sum type: the terminal default, one of the 16 named
// colors, an 8-bit palette index, or a 24-bit RGB triple. Zero value is
// ColorDefault.
type Color struct {
	Kind    ColorKind
	Named   NamedColor
	Indexed uint8
	R, G, B uint8
}

// NamedColorValue builds a Color from one of the 16 standard colors.
func NamedColorValue(n NamedColor) Color { return Color{Kind: ColorNamed, Named: n} }

// IndexedColor builds a Color from an 8-bit palette index.
func IndexedColor(i uint8) Color { return Color{Kind: ColorIndexed, Indexed: i} }

// RGBColor builds a Color from a 24-bit RGB triple.
func RGBColor(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// Attribute is a bitmask of text rendition modifiers.
type Attribute uint8

const (
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse
	AttrStrike
)

// Style is the set of visual attributes applied to a Cell: foreground and
// background color plus the modifier bitmask. All mutator methods return a
// modified copy, so a Style can be shared freely by value.
type Style struct {
	Attrs Attribute
	Fg    Color
	Bg    Color
}

func (s Style) has(a Attribute) bool { return s.Attrs&a != 0 }

func (s Style) set(a Attribute) Style {
	s.Attrs |= a
	return s
}

func (s Style) clear(a Attribute) Style {
	s.Attrs &^= a
	return s
}

func (s Style) SetBold() Style      { return s.set(AttrBold) }
func (s Style) ClearBold() Style    { return s.clear(AttrBold) }
func (s Style) SetDim() Style       { return s.set(AttrDim) }
func (s Style) ClearDim() Style     { return s.clear(AttrDim) }
func (s Style) SetItalic() Style    { return s.set(AttrItalic) }
func (s Style) ClearItalic() Style  { return s.clear(AttrItalic) }
func (s Style) SetUnderline() Style { return s.set(AttrUnderline) }
func (s Style) ClearUnderline() Style {
	return s.clear(AttrUnderline)
}
func (s Style) SetReverse() Style   { return s.set(AttrReverse) }
func (s Style) ClearReverse() Style { return s.clear(AttrReverse) }
func (s Style) SetStrike() Style    { return s.set(AttrStrike) }
func (s Style) ClearStrike() Style  { return s.clear(AttrStrike) }

// ClearBoldDim clears both bold and dim in one call, matching SGR code 22
// (the only code that clears two attributes at once).
func (s Style) ClearBoldDim() Style { return s.clear(AttrBold | AttrDim) }

func (s Style) WithFg(c Color) Style { s.Fg = c; return s }
func (s Style) WithBg(c Color) Style { s.Bg = c; return s }

// Bold, Dim, Italic, Underline, Reverse and Strike report whether the
// corresponding modifier is set.
func (s Style) Bold() bool      { return s.has(AttrBold) }
func (s Style) Dim() bool       { return s.has(AttrDim) }
func (s Style) Italic() bool    { return s.has(AttrItalic) }
func (s Style) Underline() bool { return s.has(AttrUnderline) }
func (s Style) Reverse() bool   { return s.has(AttrReverse) }
func (s Style) Strike() bool    { return s.has(AttrStrike) }

// DefaultStyle is the zero Style: default colors, no attributes.
var DefaultStyle = Style{}

// Cell is one grid position: a grapheme cluster plus a style. Rune holds
// the cell's first code point so the common single-rune case stays cheap;
// Grapheme, when non-empty, holds the full cluster (base rune plus any
// combining marks) and takes precedence for display. A cell with Rune == 0
// and an empty Grapheme is a continuation cell: the right half of a wide
// glyph printed to its left.
type Cell struct {
	Rune     rune
	Grapheme string
	Style    Style
}

// DefaultCell is a single space in the default style.
var DefaultCell = Cell{Rune: ' '}

// BlankCell returns a default space cell carrying the given style, used to
// pad rows after erase/insert/delete operations so the newly exposed cells
// still show the operation's current style (xterm clears with the current
// background, not always the terminal default).
func BlankCell(style Style) Cell { return Cell{Rune: ' ', Style: style} }

// IsContinuation reports whether c is the empty right half of a wide glyph.
func (c Cell) IsContinuation() bool { return c.Rune == 0 && c.Grapheme == "" }

// Display returns the cell's user-visible text: its grapheme cluster, or a
// single rune, or nothing for a continuation cell.
func (c Cell) Display() string {
	if c.Grapheme != "" {
		return c.Grapheme
	}
	if c.Rune == 0 {
		return ""
	}
	return string(c.Rune)
}
