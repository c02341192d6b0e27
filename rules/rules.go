// Package rules advances a single-snake game by one tick. It is used by tests
// and the headless evaluator; it is not a game loop.
package rules

import (
	"math/rand"

	"github.com/brensch/snekpath/game"
	"github.com/brensch/snekpath/safety"
)

// Outcome is what happened to the snake during one tick.
type Outcome int

const (
	Alive Outcome = iota
	Ate
	HitWall
	HitSelf
	HitObstacle
	NoMove // no direction given, or no snake to move
)

var outcomeNames = [...]string{"Alive", "Ate", "HitWall", "HitSelf", "HitObstacle", "NoMove"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "Unknown"
	}
	return outcomeNames[o]
}

// Dead reports whether the outcome ends the game.
func (o Outcome) Dead() bool {
	return o != Alive && o != Ate
}

// NextState returns the state after moving the snake one cell in direction d.
// The input state is not modified.
//
// The head moves first and the tail is dropped unless the head landed on the
// food, so following your own tail is legal. Collisions are checked against
// the resulting body. On eating, new food is placed with rng (nil means a
// deterministic placement). On a fatal move the moved state is still
// returned, head included, for logging.
func NextState(g game.Grid, state *game.State, d game.Direction, rng *rand.Rand) (*game.State, Outcome) {
	next := state.Clone()
	if next == nil {
		return &game.State{}, NoMove
	}
	head, ok := next.Head()
	if !ok || !d.Valid() {
		return next, NoMove
	}

	newHead := g.Next(head, d)
	ate := newHead == next.Food

	body := make([]game.Point, 0, len(next.Snake)+1)
	body = append(body, newHead)
	if ate {
		body = append(body, next.Snake...)
	} else {
		body = append(body, next.Snake[:len(next.Snake)-1]...)
	}
	next.Snake = body

	switch {
	case !g.InBounds(newHead):
		return next, HitWall
	case contains(next.Snake[1:], newHead):
		return next, HitSelf
	case contains(next.Obstacles, newHead):
		return next, HitObstacle
	}

	if !ate {
		return next, Alive
	}
	// A full board leaves the food under the head; IsTerminal reports it.
	game.PlaceFood(g, next, rng)
	return next, Ate
}

// IsTerminal reports whether the snake has no safe move left.
func IsTerminal(g game.Grid, state *game.State) bool {
	if state == nil {
		return true
	}
	return len(safety.SafeDirections(g, state.Snake, state.Obstacles)) == 0
}

func contains(cells []game.Point, p game.Point) bool {
	for _, c := range cells {
		if c == p {
			return true
		}
	}
	return false
}
