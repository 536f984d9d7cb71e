package arena

import (
	"math/rand"
	"testing"
)

// scriptedRand replays fixed values. Once a script runs out, Float64 returns
// 0.99 (no bot turns) and Intn returns 0.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func player(size int, dir Direction, body ...Point) Snake {
	return Snake{Body: body, Dir: dir, Alive: true, Color: "#39ff14", Player: true, Size: size}
}

func bot(size int, dir Direction, body ...Point) Snake {
	return Snake{Body: body, Dir: dir, Alive: true, Color: "#ff6b6b", Size: size}
}

func board(food Point, snakes ...Snake) Board {
	return Board{Grid: DefaultGrid, Snakes: snakes, Food: food}
}

// farFood keeps food out of the way in tests that are not about eating.
var farFood = Point{X: 0, Y: 23}

func TestDirectionValid(t *testing.T) {
	tests := []struct {
		d    Direction
		want bool
	}{
		{Up, true},
		{Down, true},
		{Left, true},
		{Right, true},
		{Direction{0, 0}, false},
		{Direction{1, 1}, false},
		{Direction{2, 0}, false},
		{Direction{0, -2}, false},
	}
	for _, tt := range tests {
		if got := tt.d.Valid(); got != tt.want {
			t.Errorf("%+v.Valid() = %v, expected %v", tt.d, got, tt.want)
		}
	}
}

func TestStepMovementWrapsAround(t *testing.T) {
	tests := []struct {
		name  string
		start Point
		dir   Direction
		want  Point
	}{
		{"right edge", Point{31, 5}, Right, Point{0, 5}},
		{"left edge", Point{0, 5}, Left, Point{31, 5}},
		{"top edge", Point{7, 0}, Up, Point{7, 23}},
		{"bottom edge", Point{7, 23}, Down, Point{7, 0}},
		{"interior", Point{7, 7}, Down, Point{7, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board(farFood, player(3, tt.dir, tt.start))
			next, _ := Step(b, DefaultRules(), &scriptedRand{})
			if got := next.Snakes[0].Head(); got != tt.want {
				t.Errorf("head = %+v, expected %+v", got, tt.want)
			}
		})
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	b := board(farFood, player(3, Right, Point{5, 5}, Point{4, 5}))
	Step(b, DefaultRules(), &scriptedRand{})

	if b.Snakes[0].Head() != (Point{5, 5}) || len(b.Snakes[0].Body) != 2 {
		t.Errorf("input board was modified: %+v", b.Snakes[0])
	}
}

func TestStepGrowthByRetention(t *testing.T) {
	b := board(farFood, player(3, Right, Point{5, 5}))
	rnd := &scriptedRand{}

	wantLens := []int{2, 3, 3, 3}
	for i, want := range wantLens {
		b, _ = Step(b, DefaultRules(), rnd)
		if got := len(b.Snakes[0].Body); got != want {
			t.Fatalf("tick %d: body length = %d, expected %d", i+1, got, want)
		}
	}
}

func TestStepPlayerEatsFood(t *testing.T) {
	food := Point{9, 12}
	b := board(food, player(3, Right, Point{8, 12}, Point{7, 12}, Point{6, 12}))
	rnd := &scriptedRand{ints: []int{20, 3}}

	next, out := Step(b, DefaultRules(), rnd)

	p := next.Snakes[0]
	if p.Size != 4 {
		t.Errorf("size = %d, expected 4", p.Size)
	}
	if out.ScoreDelta != 10 {
		t.Errorf("score delta = %d, expected 10", out.ScoreDelta)
	}
	if !out.FoodMoved || next.Food != (Point{20, 3}) {
		t.Errorf("food = %+v (moved=%v), expected relocation to {20 3}", next.Food, out.FoodMoved)
	}
	if len(out.Ate) != 1 || out.Ate[0] != 0 {
		t.Errorf("Ate = %v, expected [0]", out.Ate)
	}
	if out.PlayerDead {
		t.Error("player should survive eating")
	}
}

func TestStepBotEatsWithoutScoringOrMovingFood(t *testing.T) {
	food := Point{15, 3}
	b := board(food,
		player(3, Right, Point{2, 2}),
		bot(2, Left, Point{16, 3}),
	)

	next, out := Step(b, DefaultRules(), &scriptedRand{})

	if next.Snakes[1].Size != 3 {
		t.Errorf("bot size = %d, expected 3", next.Snakes[1].Size)
	}
	if out.ScoreDelta != 0 {
		t.Errorf("score delta = %d, expected 0", out.ScoreDelta)
	}
	if out.FoodMoved || next.Food != food {
		t.Errorf("food should stay at %+v, got %+v", food, next.Food)
	}
}

func TestStepFoodCheckUsesTickStartCell(t *testing.T) {
	// Player and bot both land on the food in the same tick. The player
	// relocates it, but the bot still grows from the original cell.
	food := Point{10, 10}
	b := board(food,
		player(5, Right, Point{9, 10}),
		bot(2, Left, Point{11, 10}),
	)

	next, out := Step(b, DefaultRules(), &scriptedRand{ints: []int{1, 1}})

	if len(out.Ate) != 2 {
		t.Fatalf("Ate = %v, expected both snakes", out.Ate)
	}
	if next.Snakes[1].Size != 3 {
		t.Errorf("bot size = %d, expected 3", next.Snakes[1].Size)
	}
}

func TestStepSelfCollisionKillsPlayer(t *testing.T) {
	// Reversing onto the neck puts the head on the third segment.
	b := board(farFood, player(3, Left, Point{5, 5}, Point{4, 5}, Point{3, 5}))

	next, out := Step(b, DefaultRules(), &scriptedRand{})

	p := next.Snakes[0]
	if p.Body[2] != p.Head() {
		t.Fatalf("test setup: expected head on third segment, body = %v", p.Body)
	}
	if p.Alive || !out.PlayerDead {
		t.Error("player should die on self collision")
	}
}

func TestStepBotsExemptFromSelfCollision(t *testing.T) {
	b := board(farFood,
		player(3, Up, Point{2, 20}),
		bot(3, Left, Point{10, 5}, Point{9, 5}, Point{8, 5}),
	)

	next, out := Step(b, DefaultRules(), &scriptedRand{})

	if !next.Snakes[1].Alive {
		t.Error("bot with self-intersecting body must stay alive")
	}
	if len(out.Killed) != 0 {
		t.Errorf("Killed = %v, expected none", out.Killed)
	}
}

func TestStepPlayerEatsSmallerBot(t *testing.T) {
	b := board(farFood,
		player(4, Right, Point{10, 10}, Point{9, 10}, Point{8, 10}, Point{7, 10}),
		bot(2, Left, Point{12, 10}, Point{13, 10}),
	)

	next, out := Step(b, DefaultRules(), &scriptedRand{})

	if next.Snakes[1].Alive {
		t.Error("smaller bot should be dead")
	}
	if !next.Snakes[0].Alive || out.PlayerDead {
		t.Error("player should be unaffected")
	}
	if out.ScoreDelta != 25 {
		t.Errorf("score delta = %d, expected 25", out.ScoreDelta)
	}
	if next.Snakes[0].Size != 4 {
		t.Errorf("player size = %d, expected unchanged 4", next.Snakes[0].Size)
	}
}

func TestStepBiggerBotEatsPlayer(t *testing.T) {
	b := board(farFood,
		player(2, Right, Point{10, 10}),
		bot(5, Up, Point{11, 11}, Point{11, 12}),
	)

	next, out := Step(b, DefaultRules(), &scriptedRand{})

	if next.Snakes[0].Alive || !out.PlayerDead {
		t.Error("player should die against a bigger snake")
	}
	if out.ScoreDelta != 0 {
		t.Errorf("score delta = %d, expected 0", out.ScoreDelta)
	}
}

func TestStepBodyOverlapCounts(t *testing.T) {
	// The bot's head runs into the middle of the player's body.
	b := board(farFood,
		player(5, Up, Point{10, 10}, Point{10, 11}, Point{10, 12}, Point{10, 13}),
		bot(2, Left, Point{11, 12}),
	)

	next, out := Step(b, DefaultRules(), &scriptedRand{})

	if next.Snakes[1].Alive {
		t.Error("bot touching the player's body should die")
	}
	if out.ScoreDelta != 25 {
		t.Errorf("score delta = %d, expected 25", out.ScoreDelta)
	}
}

func TestStepEqualSizeCollisionEliminatesNeither(t *testing.T) {
	b := board(farFood,
		player(3, Right, Point{10, 10}),
		bot(3, Left, Point{12, 10}),
	)

	next, out := Step(b, DefaultRules(), &scriptedRand{})

	if !next.Snakes[0].Alive || !next.Snakes[1].Alive {
		t.Error("equal-size collision must not eliminate either snake")
	}
	if out.ScoreDelta != 0 || len(out.Killed) != 0 {
		t.Errorf("unexpected outcome %+v", out)
	}
}

func TestStepDeadSnakesAreSkippedInPairScan(t *testing.T) {
	// Pair (0,1) kills bot 1 first, so pair (1,2) is skipped and the
	// smaller bot 2 survives even though it touches bot 1.
	b := board(farFood,
		player(4, Right, Point{9, 5}),
		bot(3, Left, Point{11, 5}, Point{12, 5}),
		bot(2, Up, Point{12, 6}),
	)

	next, out := Step(b, DefaultRules(), &scriptedRand{})

	if next.Snakes[1].Alive {
		t.Error("bot 1 should be eaten by the player")
	}
	if !next.Snakes[2].Alive {
		t.Error("bot 2 should survive: bot 1 was already dead")
	}
	if len(out.Killed) != 1 || out.Killed[0] != 1 {
		t.Errorf("Killed = %v, expected [1]", out.Killed)
	}
}

func TestStepDeadSnakesDoNotMove(t *testing.T) {
	dead := bot(3, Left, Point{20, 20})
	dead.Alive = false
	b := board(farFood, player(3, Right, Point{2, 2}), dead)

	next, _ := Step(b, DefaultRules(), &scriptedRand{floats: []float64{0}})

	if next.Snakes[1].Head() != (Point{20, 20}) || next.Snakes[1].Dir != Left {
		t.Errorf("dead snake changed: %+v", next.Snakes[1])
	}
}

func TestStepBotTurnExcludesReverse(t *testing.T) {
	for _, start := range cardinals {
		for pick := range 3 {
			b := board(farFood, player(3, Up, Point{2, 20}), bot(2, start, Point{15, 15}))
			rnd := &scriptedRand{floats: []float64{0.05}, ints: []int{pick}}

			next, _ := Step(b, DefaultRules(), rnd)

			got := next.Snakes[1].Dir
			if got == start.Reverse() {
				t.Errorf("bot heading %s turned to its reverse %s", start, got)
			}
			if !got.Valid() {
				t.Errorf("bot got invalid direction %+v", got)
			}
		}
	}
}

func TestStepBotTurnProbability(t *testing.T) {
	b := board(farFood, player(3, Up, Point{2, 20}), bot(2, Left, Point{15, 15}))

	next, _ := Step(b, DefaultRules(), &scriptedRand{floats: []float64{0.1}, ints: []int{2}})
	if next.Snakes[1].Dir != Left {
		t.Errorf("roll of 0.1 must not turn, got %s", next.Snakes[1].Dir)
	}

	// Options for a left-moving bot: Left, Down, Up (Right excluded).
	next, _ = Step(b, DefaultRules(), &scriptedRand{floats: []float64{0.09}, ints: []int{1}})
	if next.Snakes[1].Dir != Down {
		t.Errorf("roll of 0.09 with pick 1 should turn Down, got %s", next.Snakes[1].Dir)
	}
}

func TestStepInvariantsOverLongRuns(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		settings := DefaultSettings()
		settings.Bots = 5
		b := NewBoard(settings, "#39ff14")

		for tick := 0; tick < 400; tick++ {
			prev := b
			var out Outcome
			b, out = Step(b, settings.Rules, rnd)

			for i, s := range b.Snakes {
				if len(s.Body) > s.Size {
					t.Fatalf("seed %d tick %d: snake %d body %d exceeds size %d", seed, tick, i, len(s.Body), s.Size)
				}
				for _, p := range s.Body {
					if !b.Grid.Contains(p) {
						t.Fatalf("seed %d tick %d: snake %d out of range at %+v", seed, tick, i, p)
					}
				}
				if !s.Player && prev.Snakes[i].Alive && s.Dir == prev.Snakes[i].Dir.Reverse() {
					t.Fatalf("seed %d tick %d: bot %d reversed", seed, tick, i)
				}
				if !s.Player && prev.Snakes[i].Alive && !s.Alive {
					found := false
					for _, k := range out.Killed {
						found = found || k == i
					}
					if !found {
						t.Fatalf("seed %d tick %d: bot %d died without being reported", seed, tick, i)
					}
				}
			}
			if !b.Grid.Contains(b.Food) {
				t.Fatalf("seed %d tick %d: food out of range at %+v", seed, tick, b.Food)
			}
			if out.PlayerDead {
				break
			}
		}
	}
}
