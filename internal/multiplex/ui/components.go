package ui

import (
	"fmt"
	"strings"

	"github.com/AryaLabsHQ/agentree/internal/multiplex"
	"github.com/AryaLabsHQ/agentree/internal/ptypane"
	"github.com/AryaLabsHQ/agentree/internal/terminal"
	"github.com/gdamore/tcell/v2"
)

// Component is the base interface for UI components
type Component interface {
	Draw(screen tcell.Screen, x, y int)
	Resize(width, height int)
}

// Sidebar shows the list of instances
type Sidebar struct {
	width     int
	height    int
	instances []*InstanceView
	focused   int
}

// NewSidebar creates a new sidebar
func NewSidebar(width, height int) *Sidebar {
	return &Sidebar{
		width:   width,
		height:  height,
		focused: -1,
	}
}

// Draw renders the sidebar
func (s *Sidebar) Draw(screen tcell.Screen, x, y int) {
	// Draw border
	s.drawBorder(screen, x, y)
	
	// Draw title
	title := " Instances "
	titleX := x + (s.width-len(title))/2
	s.drawText(screen, titleX, y, title, tcell.StyleDefault.Bold(true))
	
	// Draw instances
	for i, instance := range s.instances {
		if i >= s.height-3 { // Leave room for border and title
			break
		}
		
		lineY := y + i + 2
		style := tcell.StyleDefault
		
		// Highlight focused instance
		if i == s.focused {
			style = style.Reverse(true)
		}
		
		// Set color based on state
		switch instance.State {
		case multiplex.StateRunning:
			style = style.Foreground(tcell.ColorGreen)
		case multiplex.StateThinking:
			style = style.Foreground(tcell.ColorYellow)
		case multiplex.StateStopped:
			style = style.Foreground(tcell.ColorRed)
		case multiplex.StateCrashed:
			style = style.Foreground(tcell.ColorRed).Bold(true)
		}
		
		// Format line
		statusChar := s.getStatusChar(instance.State)
		line := fmt.Sprintf(" %s %s", statusChar, s.truncate(instance.Worktree, s.width-4))
		
		// Draw line
		s.drawLine(screen, x, lineY, line, s.width, style)
	}
}

// Resize updates the sidebar dimensions
func (s *Sidebar) Resize(width, height int) {
	s.width = width
	s.height = height
}

// UpdateInstances updates the instance list
func (s *Sidebar) UpdateInstances(instances []*InstanceView) {
	s.instances = instances
}

// SetFocused sets the focused instance
func (s *Sidebar) SetFocused(index int) {
	s.focused = index
}

// Helper methods

func (s *Sidebar) drawBorder(screen tcell.Screen, x, y int) {
	style := tcell.StyleDefault
	
	// Top border
	screen.SetContent(x, y, '┌', nil, style)
	for i := 1; i < s.width-1; i++ {
		screen.SetContent(x+i, y, '─', nil, style)
	}
	screen.SetContent(x+s.width-1, y, '┐', nil, style)
	
	// Side borders
	for i := 1; i < s.height-1; i++ {
		screen.SetContent(x, y+i, '│', nil, style)
		screen.SetContent(x+s.width-1, y+i, '│', nil, style)
	}
	
	// Bottom border
	screen.SetContent(x, y+s.height-1, '└', nil, style)
	for i := 1; i < s.width-1; i++ {
		screen.SetContent(x+i, y+s.height-1, '─', nil, style)
	}
	screen.SetContent(x+s.width-1, y+s.height-1, '┘', nil, style)
}

func (s *Sidebar) drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, ch := range text {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (s *Sidebar) drawLine(screen tcell.Screen, x, y int, text string, width int, style tcell.Style) {
	// Clear line first
	for i := 0; i < width; i++ {
		screen.SetContent(x+i, y, ' ', nil, style)
	}
	
	// Draw text
	for i, ch := range text {
		if i >= width {
			break
		}
		screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (s *Sidebar) getStatusChar(state multiplex.InstanceState) string {
	switch state {
	case multiplex.StateIdle:
		return "○"
	case multiplex.StateStarting:
		return "◐"
	case multiplex.StateRunning:
		return "●"
	case multiplex.StateThinking:
		return "◍"
	case multiplex.StateStopping:
		return "◑"
	case multiplex.StateStopped:
		return "◯"
	case multiplex.StateCrashed:
		return "✗"
	default:
		return "?"
	}
}

func (s *Sidebar) truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-1] + "…"
}

// MainView displays the focused instance's virtual terminal, or a plain
// line buffer (e.g. the help overlay) when no pane is focused.
type MainView struct {
	width  int
	height int

	pane    *ptypane.Pane
	content []string
}

// NewMainView creates a new main view
func NewMainView(width, height int) *MainView {
	return &MainView{
		width:  width,
		height: height,
	}
}

// Draw renders the main view: the focused pane's VT grid if one is set,
// otherwise the plain content lines.
func (m *MainView) Draw(screen tcell.Screen, x, y int) {
	blank := tcell.StyleDefault
	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			screen.SetContent(x+col, y+row, ' ', nil, blank)
		}
	}

	if m.pane != nil {
		m.drawPane(screen, x, y)
		return
	}

	for i := 0; i < m.height && i < len(m.content); i++ {
		for j, ch := range m.content[i] {
			if j >= m.width {
				break
			}
			screen.SetContent(x+j, y+i, ch, nil, blank)
		}
	}
}

func (m *MainView) drawPane(screen tcell.Screen, x, y int) {
	var rows [][]terminal.Cell
	var cursor terminal.CursorState
	var offset int

	m.pane.WithVT(func(vt *terminal.VirtualTerminal) {
		rows = visibleRows(vt, m.height)
		cursor = vt.Cursor()
		offset = vt.ScrollOffset()
	})

	for row := 0; row < m.height; row++ {
		if row >= len(rows) {
			break
		}
		for col, cell := range rows[row] {
			if col >= m.width {
				break
			}
			if cell.IsContinuation() {
				continue
			}
			text := cell.Display()
			if text == "" {
				text = " "
			}
			screen.SetContent(x+col, y+row, []rune(text)[0], []rune(text)[1:], cellStyle(cell.Style))
		}
	}

	if offset == 0 && cursor.Visible && cursor.Y < m.height && cursor.X < m.width {
		screen.ShowCursor(x+cursor.X, y+cursor.Y)
	} else {
		screen.HideCursor()
	}
}

// visibleRows returns the height rows that should be on screen, blending
// scrollback and the live grid according to the VT's scroll offset
// (0 = pinned to the live bottom).
func visibleRows(vt *terminal.VirtualTerminal, height int) [][]terminal.Cell {
	all := append(vt.Scrollback(), vt.Grid()...)

	end := len(all) - vt.ScrollOffset()
	if end > len(all) {
		end = len(all)
	}
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}
	return all[start:end]
}

func cellStyle(s terminal.Style) tcell.Style {
	style := tcell.StyleDefault.
		Bold(s.Bold()).
		Dim(s.Dim()).
		Italic(s.Italic()).
		Underline(s.Underline()).
		Reverse(s.Reverse()).
		StrikeThrough(s.Strike())

	if fg, ok := tcellColor(s.Fg); ok {
		style = style.Foreground(fg)
	}
	if bg, ok := tcellColor(s.Bg); ok {
		style = style.Background(bg)
	}
	return style
}

var namedColors = [16]tcell.Color{
	tcell.ColorBlack, tcell.ColorMaroon, tcell.ColorGreen, tcell.ColorOlive,
	tcell.ColorNavy, tcell.ColorPurple, tcell.ColorTeal, tcell.ColorSilver,
	tcell.ColorGray, tcell.ColorRed, tcell.ColorLime, tcell.ColorYellow,
	tcell.ColorBlue, tcell.ColorFuchsia, tcell.ColorAqua, tcell.ColorWhite,
}

func tcellColor(c terminal.Color) (tcell.Color, bool) {
	switch c.Kind {
	case terminal.ColorNamed:
		return namedColors[c.Named], true
	case terminal.ColorIndexed:
		return tcell.PaletteColor(int(c.Indexed)), true
	case terminal.ColorRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)), true
	default:
		return tcell.ColorDefault, false
	}
}

// SetPane focuses the view on a running instance's pane.
func (m *MainView) SetPane(pane *ptypane.Pane) {
	m.pane = pane
	m.content = nil
}

// Resize updates the main view dimensions
func (m *MainView) Resize(width, height int) {
	m.width = width
	m.height = height
}

// SetContent displays a plain line buffer (e.g. the help overlay) instead
// of a pane's VT.
func (m *MainView) SetContent(content []string) {
	m.pane = nil
	m.content = content
}

// ScrollUp scrolls the focused pane's viewport up.
func (m *MainView) ScrollUp(lines int) {
	if m.pane == nil {
		return
	}
	m.pane.ScrollUp()
}

// ScrollDown scrolls the focused pane's viewport down.
func (m *MainView) ScrollDown(lines int) {
	if m.pane == nil {
		return
	}
	m.pane.ScrollDown()
}

// StatusBar shows system status
type StatusBar struct {
	width  int
	status string
}

// NewStatusBar creates a new status bar
func NewStatusBar(width int) *StatusBar {
	return &StatusBar{
		width: width,
	}
}

// Draw renders the status bar
func (s *StatusBar) Draw(screen tcell.Screen, x, y int) {
	style := tcell.StyleDefault.Background(tcell.ColorDarkGray)
	
	// Clear status bar
	for i := 0; i < s.width; i++ {
		screen.SetContent(x+i, y, ' ', nil, style)
	}
	
	// Draw status
	for i, ch := range s.status {
		if i >= s.width {
			break
		}
		screen.SetContent(x+i, y, ch, nil, style)
	}
	
	// Draw time on the right
	time := fmt.Sprintf(" %s ", strings.ToUpper(fmt.Sprintf("%d:%02d", 0, 0))) // Placeholder
	timeX := x + s.width - len(time)
	for i, ch := range time {
		screen.SetContent(timeX+i, y, ch, nil, style)
	}
}

// Resize updates the status bar width
func (s *StatusBar) Resize(width int) {
	s.width = width
}

// SetStatus updates the status message
func (s *StatusBar) SetStatus(status string) {
	s.status = status
}