package terminal

// CursorState is a zero-indexed grid position plus a visibility flag.
type CursorState struct {
	X, Y    int
	Visible bool
}

// DefaultCursorState is the cursor's initial position: top-left, visible.
var DefaultCursorState = CursorState{Visible: true}
