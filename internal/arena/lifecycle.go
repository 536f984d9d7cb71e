package arena

import (
	"errors"
	"fmt"
)

// Phase is the state of a game session from the host's point of view.
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is returned when a lifecycle move is not allowed from the current phase.
var ErrInvalidTransition = errors.New("arena: invalid phase transition")

// Lifecycle tracks menu -> playing -> gameover -> {menu | playing}.
type Lifecycle struct {
	phase Phase
	score int
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	return l.phase
}

// Score returns the score recorded by the last Finish.
func (l *Lifecycle) Score() int {
	return l.score
}

// Start begins a game from the menu, or restarts one from game over.
func (l *Lifecycle) Start() error {
	if l.phase == PhasePlaying {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, l.phase)
	}
	l.phase = PhasePlaying
	l.score = 0
	return nil
}

// Finish ends the running game with its final score.
func (l *Lifecycle) Finish(score int) error {
	if l.phase != PhasePlaying {
		return fmt.Errorf("%w: finish from %s", ErrInvalidTransition, l.phase)
	}
	l.phase = PhaseGameOver
	l.score = score
	return nil
}

// Menu returns to the menu after a game.
func (l *Lifecycle) Menu() error {
	if l.phase != PhaseGameOver {
		return fmt.Errorf("%w: menu from %s", ErrInvalidTransition, l.phase)
	}
	l.phase = PhaseMenu
	return nil
}
