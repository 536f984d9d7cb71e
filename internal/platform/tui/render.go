package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/serpent-arena/internal/core"
)

// cellLook is the part of a cell that decides its style.
type cellLook struct {
	color core.Color
	bg    core.Color
}

func lookOf(c core.Cell) cellLook {
	return cellLook{color: c.Color, bg: c.Bg}
}

func (l cellLook) style() lipgloss.Style {
	st := lipgloss.NewStyle()
	if l.color != core.ColorDefault {
		st = st.Foreground(lipgloss.Color(string(l.color)))
	}
	if l.bg != core.ColorDefault {
		st = st.Background(lipgloss.Color(string(l.bg)))
	}
	return st
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same look to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	styles := make(map[cellLook]lipgloss.Style)

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := lookOf(s.GetCell(x, y))

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if lookOf(cell) != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if start == (cellLook{}) {
				sb.WriteString(run.String())
				continue
			}
			st, ok := styles[start]
			if !ok {
				st = start.style()
				styles[start] = st
			}
			sb.WriteString(st.Render(run.String()))
		}
	}
	return sb.String()
}
