// Package tui provides the Bubble Tea front end for Serpent Arena.
// It runs the menu, the game loop and the game over screen, locally or over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg triggers one simulation step of game number Game.
type TickMsg struct {
	Game int
	At   time.Time
}

// GraceMsg fires when the post-game grace delay of game number Game has elapsed.
type GraceMsg struct {
	Game int
}

// tickCmd schedules the next tick. A tick that arrives late is simply the next
// tick; missed periods are never caught up.
func tickCmd(game int, period time.Duration) tea.Cmd {
	return tea.Tick(period, func(t time.Time) tea.Msg {
		return TickMsg{Game: game, At: t}
	})
}

// graceCmd schedules the report of a finished game.
func graceCmd(game int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return GraceMsg{Game: game}
	})
}
