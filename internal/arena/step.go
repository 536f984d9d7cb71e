package arena

// Rand is the randomness Step draws from. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Rules holds the tunable constants of the step.
type Rules struct {
	BotTurnChance float64 // Per-tick probability that a bot turns
	FoodScore     int     // Awarded when the player eats
	KillScore     int     // Awarded when the player outgrows another snake on contact
}

// DefaultRules returns the standard scoring and bot behavior.
func DefaultRules() Rules {
	return Rules{
		BotTurnChance: 0.1,
		FoodScore:     10,
		KillScore:     25,
	}
}

// Outcome reports the side effects of one step.
type Outcome struct {
	ScoreDelta int
	Ate        []int // Indices of snakes that grew this tick
	Killed     []int // Indices marked dead by self or cross collision, in order
	FoodMoved  bool
	PlayerDead bool
}

// Step advances the board by one tick. The input board is not modified.
//
// Phases run in a fixed order: movement, bot turns, food, player
// self-collision, pairwise collisions.
func Step(b Board, rules Rules, rnd Rand) (Board, Outcome) {
	next := b.Clone()
	var out Outcome

	move(&next)
	turnBots(&next, rules, rnd)
	eat(&next, b.Food, rules, rnd, &out)
	selfCollide(&next, &out)
	crossCollide(&next, rules, &out)

	if p := next.PlayerIndex(); p < 0 || !next.Snakes[p].Alive {
		out.PlayerDead = true
	}
	return next, out
}

// move advances every living head and truncates each body to its size.
func move(b *Board) {
	for i := range b.Snakes {
		s := &b.Snakes[i]
		if !s.Alive || len(s.Body) == 0 {
			continue
		}
		h := s.Head()
		head := b.Grid.Wrap(Point{X: h.X + s.Dir.X, Y: h.Y + s.Dir.Y})

		body := make([]Point, 0, len(s.Body)+1)
		body = append(body, head)
		body = append(body, s.Body...)
		if len(body) > s.Size {
			body = body[:s.Size]
		}
		s.Body = body
	}
}

// turnBots randomly changes bot directions, never to the exact reverse.
func turnBots(b *Board, rules Rules, rnd Rand) {
	for i := range b.Snakes {
		s := &b.Snakes[i]
		if s.Player || !s.Alive {
			continue
		}
		if rnd.Float64() >= rules.BotTurnChance {
			continue
		}
		options := make([]Direction, 0, len(cardinals))
		for _, d := range cardinals {
			if d != s.Dir.Reverse() {
				options = append(options, d)
			}
		}
		s.Dir = options[rnd.Intn(len(options))]
	}
}

// eat grows every living snake whose head is on food, the cell as it was
// when the tick began. Only the player scores and relocates the food.
func eat(b *Board, food Point, rules Rules, rnd Rand, out *Outcome) {
	for i := range b.Snakes {
		s := &b.Snakes[i]
		if !s.Alive || len(s.Body) == 0 || s.Head() != food {
			continue
		}
		s.Size++
		out.Ate = append(out.Ate, i)
		if s.Player {
			out.ScoreDelta += rules.FoodScore
			// Occupancy is not checked; food may land on a body.
			b.Food = Point{X: rnd.Intn(b.Grid.Cols), Y: rnd.Intn(b.Grid.Rows)}
			out.FoodMoved = true
		}
	}
}

// selfCollide kills the player if its head hits its own body. Bots are exempt.
func selfCollide(b *Board, out *Outcome) {
	for i := range b.Snakes {
		s := &b.Snakes[i]
		if !s.Player || !s.Alive || len(s.Body) == 0 {
			continue
		}
		head := s.Head()
		for _, seg := range s.Body[1:] {
			if seg == head {
				s.Alive = false
				out.Killed = append(out.Killed, i)
				break
			}
		}
	}
}

// crossCollide resolves contact between every pair of living snakes in
// index order. The strictly smaller snake dies; equal sizes bounce off.
func crossCollide(b *Board, rules Rules, out *Outcome) {
	for i := 0; i < len(b.Snakes); i++ {
		for j := i + 1; j < len(b.Snakes); j++ {
			a, c := &b.Snakes[i], &b.Snakes[j]
			if !a.Alive || !c.Alive || len(a.Body) == 0 || len(c.Body) == 0 {
				continue
			}
			if !touching(*a, *c) || a.Size == c.Size {
				continue
			}

			winner, loser, loserIdx := a, c, j
			if c.Size > a.Size {
				winner, loser, loserIdx = c, a, i
			}
			loser.Alive = false
			out.Killed = append(out.Killed, loserIdx)
			if winner.Player {
				out.ScoreDelta += rules.KillScore
			}
		}
	}
}

// touching reports whether the heads coincide or either head lies on the other's body.
func touching(a, b Snake) bool {
	ah, bh := a.Head(), b.Head()
	return ah == bh || a.Occupies(bh) || b.Occupies(ah)
}
