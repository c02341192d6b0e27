// Package safety answers read-only risk questions about a board snapshot:
// which moves are safe right now, how crowded the field is, and how risky the
// position looks overall.
package safety

import (
	"math"

	"github.com/brensch/snekpath/game"
)

const (
	// DefaultLookahead is the number of straight steps PredictCollision checks.
	DefaultLookahead = 5

	lengthPenaltyPerSegment    = 0.02
	lengthPenaltyFloor         = 0.5
	obstaclePenaltyPerObstacle = 0.1
	obstaclePenaltyFloor       = 0.3
)

// SafeDirections returns the moves whose next head cell is valid, in the
// order Up, Down, Left, Right. The result is empty (never nil) when the head
// is boxed in or the snake is empty.
func SafeDirections(g game.Grid, snake, obstacles []game.Point) []game.Direction {
	moves := []game.Direction{}
	if len(snake) == 0 {
		return moves
	}

	head := snake[0]
	for _, d := range game.Directions {
		if g.IsValid(g.Next(head, d), snake, obstacles) {
			moves = append(moves, d)
		}
	}
	return moves
}

// IsSafe reports whether moving the head in direction d lands on a valid cell.
func IsSafe(g game.Grid, snake, obstacles []game.Point, d game.Direction) bool {
	if len(snake) == 0 || !d.Valid() {
		return false
	}
	return g.IsValid(g.Next(snake[0], d), snake, obstacles)
}

// FreeSpaceCount is the number of cells not covered by the snake or an
// obstacle. It is a density signal, not a count of reachable cells.
func FreeSpaceCount(g game.Grid, snake, obstacles []game.Point) int {
	return g.Cells() - (len(snake) + len(obstacles))
}

// SurvivalProbability scales the share of safe moves by penalties for snake
// length and obstacle count. Both penalties have floors so a long snake on a
// cluttered board still keeps some chance. The result is within [0,1].
func SurvivalProbability(g game.Grid, snake, obstacles []game.Point) float64 {
	base := float64(len(SafeDirections(g, snake, obstacles))) / 4

	lengthFactor := math.Max(lengthPenaltyFloor, 1-float64(len(snake))*lengthPenaltyPerSegment)
	obstacleFactor := math.Max(obstaclePenaltyFloor, 1-float64(len(obstacles))*obstaclePenaltyPerObstacle)

	return base * lengthFactor * obstacleFactor
}

// Factors are the weighted components of DifficultyScore.
type Factors struct {
	SnakeLength     float64
	Obstacles       float64
	SpaceConstraint float64
	FoodDistance    float64
	Mobility        float64
}

// Sum is the difficulty score.
func (f Factors) Sum() float64 {
	return f.SnakeLength + f.Obstacles + f.SpaceConstraint + f.FoodDistance + f.Mobility
}

// DifficultyFactors breaks the difficulty score into its five components.
func DifficultyFactors(g game.Grid, snake []game.Point, food game.Point, obstacles []game.Point) Factors {
	var f Factors

	f.SnakeLength = math.Min(30, float64(len(snake))*2)
	f.Obstacles = float64(len(obstacles)) * 5
	f.SpaceConstraint = math.Max(0, 50-float64(FreeSpaceCount(g, snake, obstacles))/2)
	if len(snake) > 0 && g.CellSize > 0 {
		f.FoodDistance = math.Min(20, euclidean(snake[0], food)/float64(g.CellSize))
	}
	f.Mobility = math.Max(0, 20-float64(len(SafeDirections(g, snake, obstacles)))*5)

	return f
}

// DifficultyScore is a display-only risk score: longer snakes, more
// obstacles, less space, farther food and fewer safe moves never lower it.
func DifficultyScore(g game.Grid, snake []game.Point, food game.Point, obstacles []game.Point) float64 {
	return DifficultyFactors(g, snake, food, obstacles).Sum()
}

// AdaptiveDifficulty scales DifficultyScore by the current score, capped at
// 100.
func AdaptiveDifficulty(g game.Grid, snake []game.Point, food game.Point, obstacles []game.Point, score int) float64 {
	scoreFactor := math.Min(1.5, 1+float64(score)*0.05)
	return math.Min(100, DifficultyScore(g, snake, food, obstacles)*scoreFactor)
}

// PredictCollision walks steps cells straight ahead of the head in direction
// d and reports whether any of them is invalid. The body is treated as
// frozen.
func PredictCollision(g game.Grid, snake, obstacles []game.Point, d game.Direction, steps int) bool {
	if len(snake) == 0 || !d.Valid() {
		return true
	}
	p := snake[0]
	for i := 0; i < steps; i++ {
		p = g.Next(p, d)
		if !g.IsValid(p, snake, obstacles) {
			return true
		}
	}
	return false
}

// RelativeDirection is the dominant-axis heading from one cell to another.
// Equal offsets resolve vertically; identical cells resolve to Up.
func RelativeDirection(from, to game.Point) game.Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y

	if abs(dx) > abs(dy) {
		if dx > 0 {
			return game.Right
		}
		return game.Left
	}
	if dy > 0 {
		return game.Down
	}
	return game.Up
}

func euclidean(a, b game.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
