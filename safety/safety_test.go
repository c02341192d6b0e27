package safety

import (
	"math"
	"math/rand"
	"testing"

	"github.com/brensch/snekpath/game"
)

func scenario() (game.Grid, []game.Point, game.Point, []game.Point) {
	return game.DefaultGrid(),
		[]game.Point{{X: 100, Y: 100}, {X: 90, Y: 100}, {X: 80, Y: 100}},
		game.Point{X: 130, Y: 100},
		[]game.Point{{X: 110, Y: 90}, {X: 110, Y: 110}}
}

func enclosed() (game.Grid, []game.Point, game.Point, []game.Point) {
	g, _, food, _ := scenario()
	snake := []game.Point{{X: 200, Y: 200}}
	obstacles := []game.Point{{X: 200, Y: 190}, {X: 200, Y: 210}, {X: 190, Y: 200}, {X: 210, Y: 200}}
	return g, snake, food, obstacles
}

func sameDirections(a, b []game.Direction) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSafeDirections_Scenario(t *testing.T) {
	g, snake, _, obstacles := scenario()
	got := SafeDirections(g, snake, obstacles)
	want := []game.Direction{game.Up, game.Down, game.Right}
	if !sameDirections(got, want) {
		t.Fatalf("SafeDirections=%v want=%v", got, want)
	}
}

func TestSafeDirections_Enclosed(t *testing.T) {
	g, snake, _, obstacles := enclosed()
	got := SafeDirections(g, snake, obstacles)
	if got == nil || len(got) != 0 {
		t.Fatalf("SafeDirections=%v want empty", got)
	}
}

func TestSafeDirections_Corner(t *testing.T) {
	g := game.DefaultGrid()
	snake := []game.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	got := SafeDirections(g, snake, nil)
	if !sameDirections(got, []game.Direction{game.Down}) {
		t.Fatalf("SafeDirections=%v want [Down]", got)
	}
}

func TestSafeDirections_NeverInvalid(t *testing.T) {
	g, _ := game.NewGrid(60, 60, 10)
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		state := &game.State{Snake: []game.Point{{X: rng.Intn(6) * 10, Y: rng.Intn(6) * 10}}}
		game.ScatterObstacles(g, state, rng.Intn(12), rng)
		for i := 0; i < rng.Intn(8); i++ {
			state.Obstacles = append(state.Obstacles, game.Point{X: rng.Intn(6) * 10, Y: rng.Intn(6) * 10})
		}
		for _, d := range SafeDirections(g, state.Snake, state.Obstacles) {
			next := g.Next(state.Snake[0], d)
			if !g.IsValid(next, state.Snake, state.Obstacles) {
				t.Fatalf("trial %d: %v is listed safe but %v is invalid\n%s", trial, d, next, game.Dump(g, state))
			}
		}
	}
}

func TestSafeDirections_Idempotent(t *testing.T) {
	g, snake, _, obstacles := scenario()
	first := SafeDirections(g, snake, obstacles)
	second := SafeDirections(g, snake, obstacles)
	if !sameDirections(first, second) {
		t.Fatalf("first=%v second=%v", first, second)
	}
}

func TestIsSafe(t *testing.T) {
	g, snake, _, obstacles := scenario()
	if !IsSafe(g, snake, obstacles, game.Right) {
		t.Fatalf("Right should be safe")
	}
	if IsSafe(g, snake, obstacles, game.Left) {
		t.Fatalf("Left runs into the neck")
	}
	if IsSafe(g, snake, obstacles, game.NoDirection) {
		t.Fatalf("NoDirection is never safe")
	}
}

func TestFreeSpaceCount(t *testing.T) {
	g, snake, _, obstacles := scenario()
	if got := FreeSpaceCount(g, snake, obstacles); got != 1600-5 {
		t.Fatalf("FreeSpaceCount=%d want=%d", got, 1595)
	}
}

func TestSurvivalProbability_Scenario(t *testing.T) {
	g, snake, _, obstacles := scenario()
	// 3/4 safe * (1 - 3*0.02) * (1 - 2*0.1)
	want := 0.75 * 0.94 * 0.8
	if got := SurvivalProbability(g, snake, obstacles); math.Abs(got-want) > 1e-9 {
		t.Fatalf("SurvivalProbability=%v want=%v", got, want)
	}
}

func TestSurvivalProbability_Bounds(t *testing.T) {
	g := game.DefaultGrid()
	if got := SurvivalProbability(g, nil, nil); got != 0 {
		t.Fatalf("empty snake survival=%v want=0", got)
	}
	if got := SurvivalProbability(g, []game.Point{{X: 200, Y: 200}}, nil); math.Abs(got-0.98) > 1e-9 {
		t.Fatalf("lone head survival=%v want=0.98", got)
	}

	for length := 0; length <= 120; length += 7 {
		for nObs := 0; nObs <= 40; nObs += 3 {
			var snake, obstacles []game.Point
			for i := 0; i < length; i++ {
				snake = append(snake, game.Point{X: (i % 40) * 10, Y: (i / 40) * 10})
			}
			for i := 0; i < nObs; i++ {
				obstacles = append(obstacles, game.Point{X: (i % 40) * 10, Y: 390 - (i/40)*10})
			}
			p := SurvivalProbability(g, snake, obstacles)
			if p < 0 || p > 1 {
				t.Fatalf("len=%d obstacles=%d survival=%v outside [0,1]", length, nObs, p)
			}
		}
	}
}

func TestSurvivalProbability_Floors(t *testing.T) {
	g := game.DefaultGrid()
	// Head in open space, but a long body elsewhere and many obstacles.
	snake := []game.Point{{X: 200, Y: 200}}
	for i := 0; i < 60; i++ {
		snake = append(snake, game.Point{X: (i % 40) * 10, Y: 0})
	}
	var obstacles []game.Point
	for i := 0; i < 20; i++ {
		obstacles = append(obstacles, game.Point{X: (i % 40) * 10, Y: 390})
	}
	// Both factors sit on their floors: 1 * 0.5 * 0.3.
	if got := SurvivalProbability(g, snake, obstacles); math.Abs(got-0.15) > 1e-9 {
		t.Fatalf("survival=%v want=0.15", got)
	}
}

func TestSurvivalProbability_Enclosed(t *testing.T) {
	g, snake, _, obstacles := enclosed()
	if got := SurvivalProbability(g, snake, obstacles); got != 0 {
		t.Fatalf("enclosed survival=%v want=0", got)
	}
}

func TestDifficultyFactors_Scenario(t *testing.T) {
	g, snake, food, obstacles := scenario()
	f := DifficultyFactors(g, snake, food, obstacles)
	want := Factors{
		SnakeLength:     6,
		Obstacles:       10,
		SpaceConstraint: 0,
		FoodDistance:    3,
		Mobility:        5,
	}
	if f != want {
		t.Fatalf("factors=%+v want=%+v", f, want)
	}
	if got := DifficultyScore(g, snake, food, obstacles); got != 24 {
		t.Fatalf("DifficultyScore=%v want=24", got)
	}
}

func TestDifficultyScore_Monotone(t *testing.T) {
	g, snake, food, obstacles := scenario()
	base := DifficultyScore(g, snake, food, obstacles)

	moreObstacles := append(append([]game.Point{}, obstacles...), game.Point{X: 300, Y: 300})
	if got := DifficultyScore(g, snake, food, moreObstacles); got < base {
		t.Fatalf("more obstacles lowered score: %v < %v", got, base)
	}

	fartherFood := game.Point{X: 300, Y: 300}
	if got := DifficultyScore(g, snake, fartherFood, obstacles); got < base {
		t.Fatalf("farther food lowered score: %v < %v", got, base)
	}

	blockUp := append(append([]game.Point{}, obstacles...), game.Point{X: 100, Y: 90})
	if got := DifficultyScore(g, snake, food, blockUp); got < base {
		t.Fatalf("fewer safe moves lowered score: %v < %v", got, base)
	}

	small, _ := game.NewGrid(100, 100, 10)
	if got := DifficultyScore(small, []game.Point{{X: 50, Y: 50}}, game.Point{X: 60, Y: 50}, nil); got <= 0 {
		t.Fatalf("small board score=%v want > 0", got)
	}
}

func TestDifficultyScore_Caps(t *testing.T) {
	g := game.DefaultGrid()
	var snake []game.Point
	for i := 0; i < 100; i++ {
		snake = append(snake, game.Point{X: (i % 40) * 10, Y: (i / 40) * 10})
	}
	f := DifficultyFactors(g, snake, game.Point{X: 390, Y: 390}, nil)
	if f.SnakeLength != 30 {
		t.Fatalf("SnakeLength=%v want cap 30", f.SnakeLength)
	}
	if f.FoodDistance != 20 {
		t.Fatalf("FoodDistance=%v want cap 20", f.FoodDistance)
	}
}

func TestAdaptiveDifficulty(t *testing.T) {
	g, snake, food, obstacles := scenario()
	base := DifficultyScore(g, snake, food, obstacles)
	if got := AdaptiveDifficulty(g, snake, food, obstacles, 0); got != base {
		t.Fatalf("score 0: %v want %v", got, base)
	}
	if got := AdaptiveDifficulty(g, snake, food, obstacles, 4); math.Abs(got-base*1.2) > 1e-9 {
		t.Fatalf("score 4: %v want %v", got, base*1.2)
	}
	if got := AdaptiveDifficulty(g, snake, food, obstacles, 1000); math.Abs(got-base*1.5) > 1e-9 {
		t.Fatalf("score 1000: %v want %v", got, base*1.5)
	}

	var crowded []game.Point
	for i := 0; i < 30; i++ {
		crowded = append(crowded, game.Point{X: (i % 40) * 10, Y: 390})
	}
	if got := AdaptiveDifficulty(g, snake, food, crowded, 50); got != 100 {
		t.Fatalf("crowded: %v want cap 100", got)
	}
}

func TestPredictCollision(t *testing.T) {
	g, snake, _, obstacles := scenario()
	if PredictCollision(g, snake, obstacles, game.Right, DefaultLookahead) {
		t.Fatalf("open row predicted a collision")
	}
	wall := []game.Point{{X: 370, Y: 200}}
	if !PredictCollision(g, wall, nil, game.Right, DefaultLookahead) {
		t.Fatalf("wall three cells ahead not predicted")
	}
	if !PredictCollision(g, snake, []game.Point{{X: 140, Y: 100}}, game.Right, DefaultLookahead) {
		t.Fatalf("obstacle four cells ahead not predicted")
	}
	if PredictCollision(g, snake, []game.Point{{X: 160, Y: 100}}, game.Right, DefaultLookahead) {
		t.Fatalf("obstacle six cells ahead predicted with a five step lookahead")
	}
}

func TestRelativeDirection(t *testing.T) {
	origin := game.Point{X: 100, Y: 100}
	cases := []struct {
		to   game.Point
		want game.Direction
	}{
		{game.Point{X: 150, Y: 110}, game.Right},
		{game.Point{X: 50, Y: 90}, game.Left},
		{game.Point{X: 110, Y: 150}, game.Down},
		{game.Point{X: 90, Y: 50}, game.Up},
		{game.Point{X: 120, Y: 120}, game.Down},
		{origin, game.Up},
	}
	for _, tc := range cases {
		if got := RelativeDirection(origin, tc.to); got != tc.want {
			t.Fatalf("RelativeDirection(%v,%v)=%v want=%v", origin, tc.to, got, tc.want)
		}
	}
}

func TestZeroGrid_ScoresStayFinite(t *testing.T) {
	var g game.Grid
	snake := []game.Point{{X: 0, Y: 0}}
	food := game.Point{X: 50, Y: 50}

	if got := SafeDirections(g, snake, nil); len(got) != 0 {
		t.Fatalf("SafeDirections=%v want none", got)
	}
	if p := SurvivalProbability(g, snake, nil); p != 0 {
		t.Fatalf("SurvivalProbability=%v want 0", p)
	}
	score := DifficultyScore(g, snake, food, nil)
	if math.IsInf(score, 0) || math.IsNaN(score) {
		t.Fatalf("DifficultyScore=%v", score)
	}
}
