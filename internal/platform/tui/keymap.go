package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/serpent-arena/internal/arena"
)

// KeyMap defines every key binding of the app.
type KeyMap struct {
	// Menu
	NextField key.Binding
	PrevField key.Binding
	Prev      key.Binding
	Next      key.Binding
	Play      key.Binding

	// Playing
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	End   key.Binding

	// Game over
	Menu    key.Binding
	Restart key.Binding

	Quit key.Binding
	// Exit quits from the menu, where q types into the username field.
	Exit key.Binding
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-tab", "prev field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "prev option"),
		),
		Next: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "next option"),
		),
		Play: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("up/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("down/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("left/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("right/d", "right"),
		),
		End: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end game"),
		),
		Menu: key.NewBinding(
			key.WithKeys("m", "esc"),
			key.WithHelp("m", "menu"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "play again"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Exit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// Steer maps a key to a direction. ok is false for non-steering keys.
func (k KeyMap) Steer(msg tea.KeyMsg) (d arena.Direction, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return arena.Up, true
	case key.Matches(msg, k.Down):
		return arena.Down, true
	case key.Matches(msg, k.Left):
		return arena.Left, true
	case key.Matches(msg, k.Right):
		return arena.Right, true
	}
	return arena.Direction{}, false
}

// phaseHelp adapts the key map to the help bubble for one phase.
type phaseHelp struct {
	keys  KeyMap
	phase arena.Phase
}

var _ help.KeyMap = phaseHelp{}

// ShortHelp returns key bindings for the short help view.
func (h phaseHelp) ShortHelp() []key.Binding {
	k := h.keys
	switch h.phase {
	case arena.PhasePlaying:
		return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.End, k.Quit}
	case arena.PhaseGameOver:
		return []key.Binding{k.Restart, k.Menu, k.Quit}
	default:
		return []key.Binding{k.NextField, k.Prev, k.Next, k.Play, k.Exit}
	}
}

// FullHelp returns key bindings for the full help view.
func (h phaseHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
