package terminal

import "testing"

func cellRunes(row []Cell) []rune {
	out := make([]rune, len(row))
	for i, c := range row {
		if c.Rune == 0 {
			out[i] = ' '
		} else {
			out[i] = c.Rune
		}
	}
	return out
}

func rowString(vt *VirtualTerminal, y int) string {
	return string(cellRunes(vt.Grid()[y]))
}

func TestBasicPrint(t *testing.T) {
	vt := New(10, 5)
	vt.Feed([]byte("Hello"))

	got := rowString(vt, 0)[:5]
	if got != "Hello" {
		t.Fatalf("row 0 = %q, want Hello", got)
	}
	if vt.Cursor().X != 5 || vt.Cursor().Y != 0 {
		t.Fatalf("cursor = %+v, want (5,0)", vt.Cursor())
	}
}

func TestCarriageReturnOverwrite(t *testing.T) {
	vt := New(10, 5)
	vt.Feed([]byte("Hello\rWorld"))

	if got := rowString(vt, 0); got != "World     " {
		t.Fatalf("row 0 = %q, want \"World     \"", got)
	}
}

func TestSGRAndErase(t *testing.T) {
	vt := New(10, 3)
	vt.Feed([]byte("\x1b[31mABC\x1b[0m\r\n"))

	grid := vt.Grid()
	for x := 0; x < 3; x++ {
		if grid[0][x].Style.Fg != NamedColorValue(Red) {
			t.Fatalf("row 0 cell %d fg = %+v, want red", x, grid[0][x].Style.Fg)
		}
	}

	vt.Feed([]byte("\x1b[1;2H\x1b[0K"))
	grid = vt.Grid()
	for x := 0; x < 10; x++ {
		if grid[1][x] != DefaultCell {
			t.Fatalf("row 1 cell %d = %+v, want default after EL", x, grid[1][x])
		}
	}
}

func TestScrollOnOverflow(t *testing.T) {
	vt := New(5, 3)
	vt.Feed([]byte("A\r\nB\r\nC\r\nD\r\nE"))

	sb := vt.Scrollback()
	if len(sb) != 2 {
		t.Fatalf("scrollback len = %d, want 2", len(sb))
	}
	if sb[0][0].Rune != 'A' || sb[1][0].Rune != 'B' {
		t.Fatalf("scrollback = %q,%q, want A,B", sb[0][0].Rune, sb[1][0].Rune)
	}

	grid := vt.Grid()
	want := []rune{'C', 'D', 'E'}
	for i, r := range want {
		if grid[i][0].Rune != r {
			t.Fatalf("grid row %d col 0 = %q, want %q", i, grid[i][0].Rune, r)
		}
	}
}

func TestAlternateScreenRoundTrip(t *testing.T) {
	vt := New(10, 3)
	vt.Feed([]byte("Main"))
	before := vt.Cursor()

	vt.Feed([]byte("\x1b[?1049hALT\x1b[?1049l"))

	if got := rowString(vt, 0); got != "Main      " {
		t.Fatalf("row 0 after round trip = %q, want \"Main      \"", got)
	}
	if vt.Cursor() != before {
		t.Fatalf("cursor after round trip = %+v, want %+v", vt.Cursor(), before)
	}
}

func TestAlternateScreenMode47DoesNotSaveCursor(t *testing.T) {
	vt := New(10, 3)
	vt.Feed([]byte("Main"))
	before := vt.Cursor()

	vt.Feed([]byte("\x1b[?47hALT\x1b[?47l"))

	if got := rowString(vt, 0); got != "Main      " {
		t.Fatalf("row 0 after round trip = %q, want \"Main      \"", got)
	}
	if vt.Cursor() == before {
		t.Fatalf("cursor after mode 47 round trip = %+v, want it left where ALT advanced it, not restored to %+v", vt.Cursor(), before)
	}
	want := CursorState{X: before.X + 3, Y: before.Y, Visible: true}
	if vt.Cursor() != want {
		t.Fatalf("cursor after mode 47 round trip = %+v, want %+v", vt.Cursor(), want)
	}
}

func TestOSC7CWD(t *testing.T) {
	vt := New(10, 3)
	vt.Feed([]byte("\x1b]7;file://host/home/user%20dir\x1b\\"))

	cwd, ok := vt.ReportedCWD()
	if !ok {
		t.Fatal("ReportedCWD: ok = false")
	}
	if cwd != "/home/user dir" {
		t.Fatalf("ReportedCWD = %q, want \"/home/user dir\"", cwd)
	}
}

func TestWideCharacter(t *testing.T) {
	vt := New(5, 2)
	vt.Feed([]byte("あA"))

	grid := vt.Grid()
	if grid[0][0].Rune != 'あ' {
		t.Fatalf("cell(0,0) = %q, want あ", grid[0][0].Rune)
	}
	if !grid[0][1].IsContinuation() {
		t.Fatalf("cell(1,0) = %+v, want continuation", grid[0][1])
	}
	if grid[0][2].Rune != 'A' {
		t.Fatalf("cell(2,0) = %q, want A", grid[0][2].Rune)
	}
	if vt.Cursor().X != 3 {
		t.Fatalf("cursor.X = %d, want 3", vt.Cursor().X)
	}
}

func TestDSRCursorPositionReport(t *testing.T) {
	vt := New(80, 24)
	vt.Feed([]byte("\x1b[12;34H\x1b[6n"))

	resp := vt.TakeResponses()
	if len(resp) != 1 {
		t.Fatalf("responses = %d, want 1", len(resp))
	}
	if string(resp[0]) != "\x1b[12;34R" {
		t.Fatalf("response = %q, want \"\\x1b[12;34R\"", resp[0])
	}
}

func TestResizeIdempotent(t *testing.T) {
	vt := New(10, 5)
	vt.Feed([]byte("hello"))
	vt.Resize(20, 8)
	first := vt.Grid()
	vt.Resize(20, 8)
	second := vt.Grid()

	if len(first) != len(second) {
		t.Fatalf("resize not idempotent: %d rows vs %d", len(first), len(second))
	}
	for y := range first {
		for x := range first[y] {
			if first[y][x] != second[y][x] {
				t.Fatalf("resize not idempotent at (%d,%d)", x, y)
			}
		}
	}
}

func TestResizePreservesScrollback(t *testing.T) {
	vt := New(5, 3)
	vt.Feed([]byte("A\r\nB\r\nC\r\nD"))
	before := len(vt.Scrollback())

	vt.Resize(10, 6)

	if got := len(vt.Scrollback()); got != before {
		t.Fatalf("scrollback len after resize = %d, want %d", got, before)
	}
}

func TestScrollbackBounded(t *testing.T) {
	vt := New(3, 1)
	for i := 0; i < DefaultScrollbackLimit+50; i++ {
		vt.Feed([]byte("x\r\n"))
	}
	if got := len(vt.Scrollback()); got > DefaultScrollbackLimit {
		t.Fatalf("scrollback len = %d, want <= %d", got, DefaultScrollbackLimit)
	}
}

func TestTab(t *testing.T) {
	vt := New(20, 1)
	vt.Feed([]byte("ab\t"))
	if vt.Cursor().X != 8 {
		t.Fatalf("cursor.X after tab = %d, want 8", vt.Cursor().X)
	}
}

func TestBackspace(t *testing.T) {
	vt := New(10, 1)
	vt.Feed([]byte("abc\x08"))
	if vt.Cursor().X != 2 {
		t.Fatalf("cursor.X after backspace = %d, want 2", vt.Cursor().X)
	}
}

func TestDeleteChars(t *testing.T) {
	vt := New(10, 1)
	vt.Feed([]byte("abcdef\x1b[3D\x1b[2P"))
	if got := rowString(vt, 0); got != "abcf      " {
		t.Fatalf("row 0 = %q, want \"abcf      \"", got)
	}
}

func TestInsertLines(t *testing.T) {
	vt := New(5, 3)
	vt.Feed([]byte("A\r\nB\r\nC\x1b[2;1H\x1b[1L"))

	grid := vt.Grid()
	if grid[0][0].Rune != 'A' {
		t.Fatalf("row 0 = %q, want A", grid[0][0].Rune)
	}
	if grid[1][0].Rune != 0 && grid[1][0].Rune != ' ' {
		t.Fatalf("row 1 = %q, want blank", grid[1][0].Rune)
	}
	if grid[2][0].Rune != 'B' {
		t.Fatalf("row 2 = %q, want B", grid[2][0].Rune)
	}
}

func TestParserSplitAcrossFeeds(t *testing.T) {
	whole := New(10, 3)
	whole.Feed([]byte("\x1b[31mAB\x1b[0m"))

	split := New(10, 3)
	seq := []byte("\x1b[31mAB\x1b[0m")
	split.Feed(seq[:3])
	split.Feed(seq[3:])

	w, s := whole.Grid(), split.Grid()
	for y := range w {
		for x := range w[y] {
			if w[y][x] != s[y][x] {
				t.Fatalf("split feed mismatch at (%d,%d): %+v vs %+v", x, y, w[y][x], s[y][x])
			}
		}
	}
}

func TestInvariantsAfterFeed(t *testing.T) {
	vt := New(10, 5)
	vt.Feed([]byte("some \x1b[2J\x1b[31mtext\r\nmore\x1b[5;10r\x1b[?1049h\x1b[?1049l"))

	if len(vt.Grid()) != vt.Rows() {
		t.Fatalf("grid rows = %d, want %d", len(vt.Grid()), vt.Rows())
	}
	for _, row := range vt.Grid() {
		if len(row) != vt.Cols() {
			t.Fatalf("grid row len = %d, want %d", len(row), vt.Cols())
		}
	}
	c := vt.Cursor()
	if c.X < 0 || c.X >= vt.Cols() || c.Y < 0 || c.Y >= vt.Rows() {
		t.Fatalf("cursor out of bounds: %+v", c)
	}
	if !(0 <= vt.scrollTop && vt.scrollTop < vt.scrollBottom && vt.scrollBottom <= vt.Rows()) {
		t.Fatalf("scroll region invalid: [%d,%d) rows=%d", vt.scrollTop, vt.scrollBottom, vt.Rows())
	}
}
