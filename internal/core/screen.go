package core

import (
	"strings"
)

// Cell is a single character position on the screen with its styling.
type Cell struct {
	Rune  rune
	Color Color
	Bg    Color
}

// blank is the value every cell starts from after Clear.
var blank = Cell{Rune: ' '}

// Half-block glyphs let one terminal cell show two stacked pixels.
const (
	UpperHalf = '▀'
	LowerHalf = '▄'
)

// HalfBlock packs two vertically stacked pixels into one cell. An empty color
// leaves that half to the terminal background.
func HalfBlock(top, bottom Color) Cell {
	switch {
	case top == ColorDefault && bottom == ColorDefault:
		return blank
	case bottom == ColorDefault:
		return Cell{Rune: UpperHalf, Color: top}
	case top == ColorDefault:
		return Cell{Rune: LowerHalf, Color: bottom}
	case top == bottom:
		return Cell{Rune: '█', Color: top}
	default:
		return Cell{Rune: UpperHalf, Color: top, Bg: bottom}
	}
}

// Screen is a 2D cell buffer for rendering game graphics.
// It decouples rendering from the terminal, allowing the arena to draw
// with simple cell operations while the platform handles actual display.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  max(0, width),
		height: max(0, height),
	}
	s.allocate()
	s.Clear()
	return s
}

// allocate creates the underlying cell storage.
func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Bounds returns the screen area as a rectangle at the origin.
func (s *Screen) Bounds() Rect {
	return NewRect(0, 0, s.width, s.height)
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	width, height = max(0, width), max(0, height)
	if width == s.width && height == s.height {
		return
	}

	oldCells := s.cells
	oldW, oldH := s.width, s.height

	s.width = width
	s.height = height
	s.allocate()
	s.Clear()

	copyW := min(oldW, width)
	copyH := min(oldH, height)
	for y := 0; y < copyH; y++ {
		copy(s.cells[y][:copyW], oldCells[y][:copyW])
	}
}

// Clear resets every cell to an unstyled space.
func (s *Screen) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = blank
		}
	}
}

// Set places a rune with the default color at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetCell(x, y, Cell{Rune: r})
}

// SetCell places a styled cell at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) SetCell(x, y int, c Cell) {
	if !s.Bounds().Contains(x, y) {
		return
	}
	s.cells[y][x] = c
}

// Get returns the rune at the given position.
// Returns space for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at the given position.
// Returns a blank cell for out-of-bounds coordinates.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.Bounds().Contains(x, y) {
		return blank
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y) in the given color.
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string, color Color) {
	i := 0
	for _, r := range text {
		s.SetCell(x+i, y, Cell{Rune: r, Color: color})
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string, color Color) {
	x := (s.width - len([]rune(text))) / 2
	s.DrawText(x, y, text, color)
}

// DrawBox draws a box outline with box-drawing characters and blanks its interior.
func (s *Screen) DrawBox(r Rect, color Color) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			var ch rune
			switch {
			case y == r.Y && x == r.X:
				ch = '┌'
			case y == r.Y && x == r.Right()-1:
				ch = '┐'
			case y == r.Bottom()-1 && x == r.X:
				ch = '└'
			case y == r.Bottom()-1 && x == r.Right()-1:
				ch = '┘'
			case y == r.Y || y == r.Bottom()-1:
				ch = '─'
			case x == r.X || x == r.Right()-1:
				ch = '│'
			default:
				ch = ' '
			}
			s.SetCell(x, y, Cell{Rune: ch, Color: color})
		}
	}
}

// String converts the screen buffer to plain text, rows joined by newlines.
// Styling is dropped; see the platform renderer for colored output.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the specified row as plain text.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	runes := make([]rune, s.width)
	for x, c := range s.cells[y] {
		runes[x] = c.Rune
	}
	return string(runes)
}
