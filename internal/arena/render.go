package arena

import (
	"fmt"

	"github.com/vovakirdan/serpent-arena/internal/core"
)

// Style is the cosmetic look of the player snake. It never affects simulation.
type Style string

const (
	StyleClassic Style = "classic"
	StyleStripe  Style = "stripe"
	StyleNeon    Style = "neon"
)

// Styles lists the selectable styles in menu order.
var Styles = []Style{StyleClassic, StyleStripe, StyleNeon}

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	for _, st := range Styles {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("arena: unknown snake style %q", s)
}

// Label returns the display name of the style.
func (s Style) Label() string {
	switch s {
	case StyleStripe:
		return "Stripe"
	case StyleNeon:
		return "Neon"
	default:
		return "Classic"
	}
}

const (
	hudHeight = 2 // Score line + separator
	cellWidth = 2 // Terminal columns per grid cell
)

// Shading applied on top of a snake's own color.
const (
	bodyShade = 0.2  // Body segments toward black, so the head stands out
	deadShade = 0.6  // Dead snakes toward black
	neonGlow  = 0.35 // Neon player segments toward white
)

// ViewSize returns the screen size needed to render a grid.
// Each terminal row holds two grid rows drawn with half blocks.
func ViewSize(g Grid) (w, h int) {
	return g.Cols * cellWidth, (g.Rows+1)/2 + hudHeight
}

// Render draws a snapshot into dst: HUD, checkerboard, food and snakes.
func Render(snap Snapshot, style Style, dst *core.Screen) {
	dst.Clear()

	grid := snap.Board.Grid
	w, h := ViewSize(grid)
	if dst.Width() < w || dst.Height() < h {
		dst.DrawTextCentered(dst.Height()/2, "Window too small", core.ColorHUD)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", w, h), core.ColorHUD)
		return
	}

	offX := (dst.Width() - w) / 2
	renderHUD(snap, dst, offX, w)

	px := pixels(snap.Board, style)
	at := func(x, y int) core.Color {
		if !grid.Contains(Point{X: x, Y: y}) {
			return core.ColorDefault
		}
		return px[y][x]
	}
	for row := 0; row < h-hudHeight; row++ {
		for x := 0; x < grid.Cols; x++ {
			c := core.HalfBlock(at(x, 2*row), at(x, 2*row+1))
			for i := range cellWidth {
				dst.SetCell(offX+x*cellWidth+i, hudHeight+row, c)
			}
		}
	}

	if !snap.Running {
		renderOverlay(dst, "Game Over", fmt.Sprintf("Score: %d", snap.Score))
	}
}

// pixels resolves the color of every grid cell. Later layers win: tiles,
// food, then snakes in board order.
func pixels(b Board, style Style) [][]core.Color {
	px := make([][]core.Color, b.Grid.Rows)
	for y := range px {
		px[y] = make([]core.Color, b.Grid.Cols)
		for x := range px[y] {
			if (x+y)%2 == 0 {
				px[y][x] = core.ColorTile
			}
		}
	}

	set := func(p Point, c core.Color) {
		if b.Grid.Contains(p) {
			px[p.Y][p.X] = c
		}
	}
	set(b.Food, core.ColorFood)
	for _, s := range b.Snakes {
		// Tail first so the head is drawn over a body folded onto it.
		for idx := len(s.Body) - 1; idx >= 0; idx-- {
			set(s.Body[idx], segmentColor(s, idx, style))
		}
	}
	return px
}

// segmentColor picks the color of one body segment.
func segmentColor(s Snake, idx int, style Style) core.Color {
	c := core.Color(s.Color)
	if idx > 0 {
		c = c.Blend(core.ColorBlack, bodyShade)
	}
	if s.Player {
		switch style {
		case StyleNeon:
			c = c.Blend(core.ColorWhite, neonGlow)
		case StyleStripe:
			if idx%2 == 1 {
				c = core.ColorWhite
			}
		}
	}
	if !s.Alive {
		c = c.Blend(core.ColorBlack, deadShade)
	}
	return c
}

func renderHUD(snap Snapshot, dst *core.Screen, offX, w int) {
	hud := fmt.Sprintf(" Serpent Arena - Score: %d", snap.Score)
	dst.DrawText(offX, 0, hud, core.ColorHUD)
	for x := range w {
		dst.SetCell(offX+x, 1, core.Cell{Rune: '─', Color: core.ColorTile})
	}
}

// renderOverlay draws a centered two-line message box.
func renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len(line1), len(line2)) + 6
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawBox(box, core.ColorHUD)
	dst.DrawTextCentered(box.Y+1, line1, core.ColorHUD)
	dst.DrawTextCentered(box.Y+3, line2, core.ColorFood)
}
