package terminal

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultScrollbackLimit bounds how many evicted rows are retained above
// the grid. A tuning knob, not a contract: callers needing a different
// bound can drop down to NewWithScrollback.
const DefaultScrollbackLimit = 1000

// VirtualTerminal is a byte-stream parser that maintains a grid of Cells,
// a cursor, current style, scrollback, an alternate-screen buffer, a
// DECSTBM scroll region and a queue of bytes owed back to the host.
//
// VirtualTerminal does not lock itself. Callers that share one across
// goroutines (a PTY reader feeding it and a UI thread reading its grid)
// must serialize access with their own mutex — see internal/ptypane.Pane,
// which is the sole intended caller.
type VirtualTerminal struct {
	cols, rows int
	grid       [][]Cell
	cursor     CursorState

	currentStyle Style

	scrollback    [][]Cell
	maxScrollback int
	scrollOffset  int

	savedCursor *CursorState

	altScreen     bool
	altGrid       [][]Cell
	altScrollback [][]Cell
	altCursor     CursorState

	scrollTop, scrollBottom int

	responseQueue [][]byte
	reportedCWD   string
	hasCWD        bool

	p parserState
}

// New creates a VirtualTerminal of the given size: grid filled with
// default cells, scroll region [0, rows), parser in ground state.
func New(cols, rows int) *VirtualTerminal {
	return NewWithScrollback(cols, rows, DefaultScrollbackLimit)
}

// NewWithScrollback is New with an explicit scrollback bound.
func NewWithScrollback(cols, rows, maxScrollback int) *VirtualTerminal {
	vt := &VirtualTerminal{
		cols:          cols,
		rows:          rows,
		grid:          makeGrid(cols, rows),
		cursor:        DefaultCursorState,
		currentStyle:  DefaultStyle,
		maxScrollback: maxScrollback,
		scrollTop:     0,
		scrollBottom:  rows,
	}
	return vt
}

func makeGrid(cols, rows int) [][]Cell {
	grid := make([][]Cell, rows)
	for y := range grid {
		grid[y] = makeRow(cols)
	}
	return grid
}

func makeRow(cols int) []Cell {
	row := make([]Cell, cols)
	for x := range row {
		row[x] = DefaultCell
	}
	return row
}

// Cols returns the current column count.
func (vt *VirtualTerminal) Cols() int { return vt.cols }

// Rows returns the current row count.
func (vt *VirtualTerminal) Rows() int { return vt.rows }

// Cursor returns the current cursor state.
func (vt *VirtualTerminal) Cursor() CursorState { return vt.cursor }

// Grid returns a deep copy of the current on-screen grid, rows×cols.
func (vt *VirtualTerminal) Grid() [][]Cell {
	out := make([][]Cell, vt.rows)
	for y := range out {
		out[y] = append([]Cell(nil), vt.grid[y]...)
	}
	return out
}

// Scrollback returns a deep copy of the scrollback buffer, oldest first.
func (vt *VirtualTerminal) Scrollback() [][]Cell {
	out := make([][]Cell, len(vt.scrollback))
	for i := range out {
		out[i] = append([]Cell(nil), vt.scrollback[i]...)
	}
	return out
}

// ScrollOffset returns how many rows above the grid's bottom the viewport
// currently sits (0 = live).
func (vt *VirtualTerminal) ScrollOffset() int { return vt.scrollOffset }

// SetScrollOffset clamps and sets the scroll offset.
func (vt *VirtualTerminal) SetScrollOffset(n int) {
	if n < 0 {
		n = 0
	}
	if n > len(vt.scrollback) {
		n = len(vt.scrollback)
	}
	vt.scrollOffset = n
}

// ScrollUp moves the viewport n rows further into scrollback.
func (vt *VirtualTerminal) ScrollUp(n int) { vt.SetScrollOffset(vt.scrollOffset + n) }

// ScrollDown moves the viewport n rows back toward live.
func (vt *VirtualTerminal) ScrollDown(n int) { vt.SetScrollOffset(vt.scrollOffset - n) }

// ReportedCWD returns the last path reported via OSC 7, if any.
func (vt *VirtualTerminal) ReportedCWD() (string, bool) { return vt.reportedCWD, vt.hasCWD }

// RowText returns the concatenated graphemes of grid row y with trailing
// spaces trimmed. Used by the CWD screen-scraper. Returns "" for an
// out-of-range row.
func (vt *VirtualTerminal) RowText(y int) string {
	if y < 0 || y >= vt.rows {
		return ""
	}
	var b strings.Builder
	for _, cell := range vt.grid[y] {
		b.WriteString(cell.Display())
	}
	return strings.TrimRight(b.String(), " ")
}

// TakeResponses drains and returns the queue of byte strings the VT has
// generated in reply to host queries (DSR/CPR). Ownership transfers to
// the caller.
func (vt *VirtualTerminal) TakeResponses() [][]byte {
	out := vt.responseQueue
	vt.responseQueue = nil
	return out
}

func (vt *VirtualTerminal) enqueueResponse(b []byte) {
	vt.responseQueue = append(vt.responseQueue, b)
}

// Feed consumes an opaque byte slice, applying it to the state machine.
// Never blocks, never fails; invalid UTF-8 is replaced with U+FFFD. Parser
// state persists across Feed calls, so a multi-byte sequence split across
// two calls parses identically to one call with the concatenated bytes.
func (vt *VirtualTerminal) Feed(data []byte) {
	vt.feed(data)
}

// Resize reshapes the terminal. No-op if dimensions are unchanged.
// Otherwise allocates a new grid, copies the top-left min(old,new)
// rectangle of cells, resets the scroll region to [0, rows) and clamps
// the cursor. Scrollback is retained unchanged.
func (vt *VirtualTerminal) Resize(cols, rows int) {
	if cols == vt.cols && rows == vt.rows {
		return
	}

	newGrid := makeGrid(cols, rows)
	copyRows := min(vt.rows, rows)
	copyCols := min(vt.cols, cols)
	for y := 0; y < copyRows; y++ {
		copy(newGrid[y][:copyCols], vt.grid[y][:copyCols])
	}

	vt.cols = cols
	vt.rows = rows
	vt.grid = newGrid
	vt.scrollTop = 0
	vt.scrollBottom = rows

	if vt.cursor.X >= cols {
		vt.cursor.X = max(0, cols-1)
	}
	if vt.cursor.Y >= rows {
		vt.cursor.Y = max(0, rows-1)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// printRune writes a printable code point at the cursor, advancing it and
// handling zero-width combining marks and double-width glyphs per
// §4.B of the terminal core's component design.
func (vt *VirtualTerminal) printRune(r rune) {
	width := runewidth.RuneWidth(r)

	if width == 0 {
		vt.appendCombining(r)
		return
	}

	if vt.cursor.X >= vt.cols {
		vt.cursor.X = 0
		vt.cursor.Y++
		if vt.cursor.Y >= vt.scrollBottom {
			vt.scrollRegionUp(1)
			vt.cursor.Y = vt.scrollBottom - 1
		}
	}

	vt.setCell(vt.cursor.X, vt.cursor.Y, Cell{Rune: r, Style: vt.currentStyle})
	vt.cursor.X++

	if width == 2 && vt.cursor.X < vt.cols {
		vt.setCell(vt.cursor.X, vt.cursor.Y, Cell{Style: vt.currentStyle})
		vt.cursor.X++
	}
}

// appendCombining merges a zero-width code point into the grapheme
// cluster of the cell immediately to the left of the cursor (or two cells
// left, if that one is a wide glyph's continuation).
func (vt *VirtualTerminal) appendCombining(r rune) {
	x, y := vt.cursor.X-1, vt.cursor.Y
	if x < 0 {
		return
	}
	if x < vt.cols && vt.grid[y][x].IsContinuation() {
		x--
	}
	if x < 0 || x >= vt.cols {
		return
	}
	cell := vt.grid[y][x]
	base := cell.Grapheme
	if base == "" {
		if cell.Rune == 0 {
			return
		}
		base = string(cell.Rune)
	}
	cell.Grapheme = base + string(r)
	vt.grid[y][x] = cell
}

func (vt *VirtualTerminal) setCell(x, y int, c Cell) {
	if y < 0 || y >= vt.rows || x < 0 || x >= vt.cols {
		return
	}
	vt.grid[y][x] = c
}

// scrollRegionUp removes the top row of the scroll region, pushing it to
// scrollback only when the region's top coincides with the grid's top,
// and inserts a blank row at the region's bottom.
func (vt *VirtualTerminal) scrollRegionUp(n int) {
	for ; n > 0; n-- {
		top := vt.grid[vt.scrollTop]
		if vt.scrollTop == 0 {
			vt.pushScrollback(top)
		}
		copy(vt.grid[vt.scrollTop:vt.scrollBottom-1], vt.grid[vt.scrollTop+1:vt.scrollBottom])
		vt.grid[vt.scrollBottom-1] = blankRow(vt.cols, vt.currentStyle)
	}
}

// scrollRegionDown is the symmetric operation; it never touches
// scrollback.
func (vt *VirtualTerminal) scrollRegionDown(n int) {
	for ; n > 0; n-- {
		copy(vt.grid[vt.scrollTop+1:vt.scrollBottom], vt.grid[vt.scrollTop:vt.scrollBottom-1])
		vt.grid[vt.scrollTop] = blankRow(vt.cols, vt.currentStyle)
	}
}

func (vt *VirtualTerminal) pushScrollback(row []Cell) {
	stored := append([]Cell(nil), row...)
	if vt.maxScrollback > 0 && len(vt.scrollback) >= vt.maxScrollback {
		vt.scrollback = vt.scrollback[1:]
	}
	vt.scrollback = append(vt.scrollback, stored)
}

func blankRow(cols int, style Style) []Cell {
	row := make([]Cell, cols)
	for x := range row {
		row[x] = BlankCell(style)
	}
	return row
}

func (vt *VirtualTerminal) newline() {
	if vt.cursor.Y+1 >= vt.scrollBottom {
		vt.scrollRegionUp(1)
	} else {
		vt.cursor.Y++
	}
}

func (vt *VirtualTerminal) carriageReturn() { vt.cursor.X = 0 }

func (vt *VirtualTerminal) backspace() {
	if vt.cursor.X > 0 {
		vt.cursor.X--
	}
}

func (vt *VirtualTerminal) tab() {
	next := ((vt.cursor.X / 8) + 1) * 8
	vt.cursor.X = clamp(next, 0, vt.cols-1)
}

// moveCursor sets the cursor to an absolute, clamped position.
func (vt *VirtualTerminal) moveCursor(x, y int) {
	vt.cursor.X = clamp(x, 0, max(vt.cols-1, 0))
	vt.cursor.Y = clamp(y, 0, max(vt.rows-1, 0))
}

func (vt *VirtualTerminal) eraseInDisplay(mode int) {
	switch mode {
	case 0:
		vt.eraseInLine(0)
		for y := vt.cursor.Y + 1; y < vt.rows; y++ {
			vt.grid[y] = blankRow(vt.cols, vt.currentStyle)
		}
	case 1:
		vt.eraseInLine(1)
		for y := 0; y < vt.cursor.Y; y++ {
			vt.grid[y] = blankRow(vt.cols, vt.currentStyle)
		}
	case 2, 3:
		for y := 0; y < vt.rows; y++ {
			vt.grid[y] = blankRow(vt.cols, vt.currentStyle)
		}
	}
}

func (vt *VirtualTerminal) eraseInLine(mode int) {
	row := vt.grid[vt.cursor.Y]
	switch mode {
	case 0:
		for x := vt.cursor.X; x < vt.cols; x++ {
			row[x] = BlankCell(vt.currentStyle)
		}
	case 1:
		for x := 0; x <= vt.cursor.X && x < vt.cols; x++ {
			row[x] = BlankCell(vt.currentStyle)
		}
	case 2:
		for x := 0; x < vt.cols; x++ {
			row[x] = BlankCell(vt.currentStyle)
		}
	}
}

func (vt *VirtualTerminal) insertLines(n int) {
	if vt.cursor.Y < vt.scrollTop || vt.cursor.Y >= vt.scrollBottom {
		return
	}
	top, bottom := vt.scrollTop, vt.scrollBottom
	vt.scrollTop = vt.cursor.Y
	vt.scrollRegionDown(n)
	vt.scrollTop = top
	vt.scrollBottom = bottom
}

func (vt *VirtualTerminal) deleteLines(n int) {
	if vt.cursor.Y < vt.scrollTop || vt.cursor.Y >= vt.scrollBottom {
		return
	}
	top := vt.scrollTop
	vt.scrollTop = vt.cursor.Y
	for ; n > 0; n-- {
		copy(vt.grid[vt.scrollTop:vt.scrollBottom-1], vt.grid[vt.scrollTop+1:vt.scrollBottom])
		vt.grid[vt.scrollBottom-1] = blankRow(vt.cols, vt.currentStyle)
	}
	vt.scrollTop = top
}

func (vt *VirtualTerminal) deleteChars(n int) {
	row := vt.grid[vt.cursor.Y]
	x := vt.cursor.X
	if x >= vt.cols {
		return
	}
	n = clamp(n, 0, vt.cols-x)
	copy(row[x:vt.cols-n], row[x+n:vt.cols])
	for i := vt.cols - n; i < vt.cols; i++ {
		row[i] = BlankCell(vt.currentStyle)
	}
}

func (vt *VirtualTerminal) insertChars(n int) {
	row := vt.grid[vt.cursor.Y]
	x := vt.cursor.X
	if x >= vt.cols {
		return
	}
	n = clamp(n, 0, vt.cols-x)
	copy(row[x+n:vt.cols], row[x:vt.cols-n])
	for i := x; i < x+n; i++ {
		row[i] = BlankCell(vt.currentStyle)
	}
}

func (vt *VirtualTerminal) eraseChars(n int) {
	row := vt.grid[vt.cursor.Y]
	for i := vt.cursor.X; i < vt.cursor.X+n && i < vt.cols; i++ {
		row[i] = BlankCell(vt.currentStyle)
	}
}

func (vt *VirtualTerminal) setScrollRegion(top, bottom int) {
	top = clamp(top, 0, vt.rows)
	bottom = clamp(bottom, 0, vt.rows)
	if bottom <= top {
		vt.scrollTop, vt.scrollBottom = 0, vt.rows
	} else {
		vt.scrollTop, vt.scrollBottom = top, bottom
	}
	vt.moveCursor(0, 0)
}

func (vt *VirtualTerminal) saveCursor() {
	c := vt.cursor
	vt.savedCursor = &c
}

func (vt *VirtualTerminal) restoreCursor() {
	if vt.savedCursor != nil {
		vt.cursor = *vt.savedCursor
	}
}

// enterAlternateScreen snapshots grid and scrollback, then replaces the
// grid with a fresh blank of the same dimensions and clears scrollback.
// A no-op if already in the alternate screen. saveCursor selects mode
// 1049's behavior (snapshot the cursor too, and reset it for the alt
// screen); modes 47/1047 pass false and leave the cursor untouched.
func (vt *VirtualTerminal) enterAlternateScreen(saveCursor bool) {
	if vt.altScreen {
		return
	}
	vt.altGrid = vt.grid
	vt.altScrollback = vt.scrollback
	vt.altScreen = true

	vt.grid = makeGrid(vt.cols, vt.rows)
	vt.scrollback = nil

	if saveCursor {
		vt.altCursor = vt.cursor
		vt.cursor = DefaultCursorState
	}
}

// leaveAlternateScreen restores the snapshot taken on entry. A no-op if
// not currently in the alternate screen. The grid/scrollback snapshot is
// consumed; the cursor is only restored when saveCursor matches the entry
// call (mode 1049), mirroring the asymmetry in enterAlternateScreen.
func (vt *VirtualTerminal) leaveAlternateScreen(saveCursor bool) {
	if !vt.altScreen {
		return
	}
	vt.grid = vt.altGrid
	vt.scrollback = vt.altScrollback
	if saveCursor {
		vt.cursor = vt.altCursor
	}
	vt.altGrid = nil
	vt.altScrollback = nil
	vt.altScreen = false
}

func (vt *VirtualTerminal) setCursorVisible(v bool) { vt.cursor.Visible = v }

// reset replaces the VT's state with a fresh one of the same dimensions,
// for ESC c (RIS). The parser's own state is replaced along with it; only
// the scrollback limit is carried over.
func (vt *VirtualTerminal) reset() {
	cols, rows, maxScrollback := vt.cols, vt.rows, vt.maxScrollback
	*vt = *New(cols, rows)
	vt.maxScrollback = maxScrollback
}
