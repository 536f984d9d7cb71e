// Package arena implements the Serpent Arena simulation: a player snake and
// bot snakes on a wrap-around grid, advanced one fixed tick at a time.
//
// The core is the pure Step function. Session owns the mutable state of one
// game and Driver advances a Session on a fixed-period timer.
package arena

import (
	"github.com/vovakirdan/serpent-arena/internal/core"
)

// Point is a grid cell.
type Point struct {
	X, Y int
}

// Direction is a unit movement vector with exactly one nonzero axis.
type Direction struct {
	X, Y int
}

// The four cardinal directions. Screen coordinates: Y grows downward.
var (
	Up    = Direction{X: 0, Y: -1}
	Down  = Direction{X: 0, Y: 1}
	Left  = Direction{X: -1, Y: 0}
	Right = Direction{X: 1, Y: 0}
)

// cardinals is the candidate order for bot turns.
var cardinals = [4]Direction{Right, Left, Down, Up}

// Valid reports whether d has components in {-1, 0, 1} with exactly one axis nonzero.
func (d Direction) Valid() bool {
	if d.X < -1 || d.X > 1 || d.Y < -1 || d.Y > 1 {
		return false
	}
	return (d.X == 0) != (d.Y == 0)
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return Direction{X: -d.X, Y: -d.Y}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "invalid"
	}
}

// Grid is a toroidal coordinate space: leaving one edge re-enters at the opposite one.
type Grid struct {
	Cols, Rows int
}

// DefaultGrid is the 32x24 arena.
var DefaultGrid = Grid{Cols: 32, Rows: 24}

// Wrap maps any point onto the grid using modulo on both axes.
func (g Grid) Wrap(p Point) Point {
	return Point{X: core.Mod(p.X, g.Cols), Y: core.Mod(p.Y, g.Rows)}
}

// Contains reports whether p lies inside the grid.
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Cols && p.Y >= 0 && p.Y < g.Rows
}

// Snake is one competitor on the board.
type Snake struct {
	Body   []Point // Head at index 0
	Dir    Direction
	Alive  bool
	Color  string // "#rrggbb"
	Player bool
	Size   int // Target length; the body is truncated to it every move
}

// Head returns the leading cell.
func (s Snake) Head() Point {
	return s.Body[0]
}

// Occupies reports whether any segment of the snake, head included, is on p.
func (s Snake) Occupies(p Point) bool {
	for _, seg := range s.Body {
		if seg == p {
			return true
		}
	}
	return false
}

func (s Snake) clone() Snake {
	s.Body = append([]Point(nil), s.Body...)
	return s
}

// Board is the full simulation state the Step function works on.
type Board struct {
	Grid   Grid
	Snakes []Snake
	Food   Point
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	snakes := make([]Snake, len(b.Snakes))
	for i, s := range b.Snakes {
		snakes[i] = s.clone()
	}
	b.Snakes = snakes
	return b
}

// PlayerIndex returns the index of the player snake, or -1 if there is none.
func (b Board) PlayerIndex() int {
	for i, s := range b.Snakes {
		if s.Player {
			return i
		}
	}
	return -1
}
