package arena

import (
	"math/rand"
	"sync"
	"time"
)

// Settings configures a session and its driver.
type Settings struct {
	Grid       Grid
	Rules      Rules
	Bots       int           // Number of bot snakes
	TickPeriod time.Duration // Fixed simulation period
	DeathGrace time.Duration // Delay before reporting after the player dies
	EndGrace   time.Duration // Delay before reporting after an external end signal
}

// DefaultSettings returns the standard arena: 32x24, three bots, 160ms ticks.
func DefaultSettings() Settings {
	return Settings{
		Grid:       DefaultGrid,
		Rules:      DefaultRules(),
		Bots:       3,
		TickPeriod: 160 * time.Millisecond,
		DeathGrace: 300 * time.Millisecond,
		EndGrace:   100 * time.Millisecond,
	}
}

// Player spawn and food placement for a fresh board.
var (
	playerSpawn = Point{X: 8, Y: 12}
	foodSpawn   = Point{X: 16, Y: 12}
	botColors   = []string{"#ff6b6b", "#7c3aed", "#00eaff", "#ffe600", "#ff1aff"}
)

const playerStartSize = 3

// NewBoard builds the starting board: the player at index 0 followed by the bots.
func NewBoard(settings Settings, playerColor string) Board {
	snakes := make([]Snake, 0, settings.Bots+1)
	snakes = append(snakes, Snake{
		Body:   []Point{settings.Grid.Wrap(playerSpawn)},
		Dir:    Right,
		Alive:  true,
		Color:  playerColor,
		Player: true,
		Size:   playerStartSize,
	})

	for i := range settings.Bots {
		dir := Right
		if i%2 == 0 {
			dir = Left
		}
		snakes = append(snakes, Snake{
			Body:  []Point{settings.Grid.Wrap(Point{X: 20 + i%3, Y: 10 + i%4})},
			Dir:   dir,
			Alive: true,
			Color: botColors[i%len(botColors)],
			Size:  2 + i%3,
		})
	}

	return Board{
		Grid:   settings.Grid,
		Snakes: snakes,
		Food:   settings.Grid.Wrap(foodSpawn),
	}
}

// EndReason explains why a session stopped.
type EndReason int

const (
	EndNone   EndReason = iota // Still running
	EndDeath                   // The player snake died
	EndSignal                  // An external end signal arrived
)

func (r EndReason) String() string {
	switch r {
	case EndNone:
		return "none"
	case EndDeath:
		return "death"
	case EndSignal:
		return "ended"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of a session's observable state.
type Snapshot struct {
	Tick    uint64
	Score   int
	Board   Board
	Running bool
	Reason  EndReason
}

// Player returns the player snake of the snapshot.
func (s Snapshot) Player() Snake {
	if i := s.Board.PlayerIndex(); i >= 0 {
		return s.Board.Snakes[i]
	}
	return Snake{}
}

// Session is the mutable state of one game, owned by whoever drives its ticks.
// Steer and End may be called from other goroutines.
type Session struct {
	mu       sync.Mutex
	settings Settings
	rng      Rand
	board    Board
	score    int
	tick     uint64
	running  bool
	reason   EndReason
}

// NewSession creates a running session. A zero seed uses the current time.
func NewSession(settings Settings, playerColor string, seed int64) *Session {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewSessionWithRand(settings, playerColor, rand.New(rand.NewSource(seed)))
}

// NewSessionWithRand creates a running session drawing from the given source.
func NewSessionWithRand(settings Settings, playerColor string, rnd Rand) *Session {
	return &Session{
		settings: settings,
		rng:      rnd,
		board:    NewBoard(settings, playerColor),
		running:  true,
	}
}

// Settings returns the session settings.
func (s *Session) Settings() Settings {
	return s.settings
}

// Steer stores a new direction for the player, read at the next movement.
// The last call before a tick wins. Returns false if the input was ignored
// because the session is stopped or the direction is invalid.
func (s *Session) Steer(d Direction) bool {
	if !d.Valid() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}
	p := s.board.PlayerIndex()
	if p < 0 {
		return false
	}
	s.board.Snakes[p].Dir = d
	return true
}

// Advance runs one tick. It is a no-op once the session has stopped.
func (s *Session) Advance() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return Outcome{}
	}

	next, out := Step(s.board, s.settings.Rules, s.rng)
	s.board = next
	s.score += out.ScoreDelta
	s.tick++

	if out.PlayerDead {
		s.running = false
		s.reason = EndDeath
	}
	return out
}

// End stops a running session on an external signal.
// Returns false if the session had already stopped.
func (s *Session) End() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}
	s.running = false
	s.reason = EndSignal
	return true
}

// Score returns the current score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Running reports whether the session still accepts ticks.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Tick:    s.tick,
		Score:   s.score,
		Board:   s.board.Clone(),
		Running: s.running,
		Reason:  s.reason,
	}
}
