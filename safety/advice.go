package safety

import (
	"fmt"

	"github.com/brensch/snekpath/game"
	"github.com/brensch/snekpath/pathfind"
)

// Kind identifies one piece of advice for a player or a display.
type Kind int

const (
	Critical     Kind = iota // survival probability below 0.3
	Caution                  // survival probability below 0.6
	LongPath                 // path to food longer than 20 steps
	FoodClose                // path to food shorter than 5 steps
	PathBlocked              // no path to food
	Cramped                  // fewer than 50 free cells
	NoSafeMoves              // head is boxed in
	Recommended              // suggested move, see Advice.Direction
	FewSafeMoves             // two or fewer safe moves, see Advice.Count
	FoodFar                  // food more than 100 field units away
)

const (
	criticalSurvival = 0.3
	cautionSurvival  = 0.6
	longPathSteps    = 20
	closePathSteps   = 5
	crampedFreeCells = 50
	fewSafeMoves     = 2
	farFoodDistance  = 100
)

// Advice is a typed hint. Direction and Count are only set for the kinds that
// use them.
type Advice struct {
	Kind      Kind
	Direction game.Direction
	Count     int
}

func (a Advice) String() string {
	switch a.Kind {
	case Critical:
		return "critical: find a safe path now"
	case Caution:
		return "careful: little room to manoeuvre"
	case LongPath:
		return "long way to the food: consider alternatives"
	case FoodClose:
		return "food is close: move precisely"
	case PathBlocked:
		return "direct path to the food is blocked"
	case Cramped:
		return "little free space left: plan ahead"
	case NoSafeMoves:
		return "danger: no safe directions"
	case Recommended:
		return fmt.Sprintf("recommended direction: %s", a.Direction)
	case FewSafeMoves:
		return fmt.Sprintf("only %d safe directions", a.Count)
	case FoodFar:
		return "food is far away: stay careful"
	default:
		return fmt.Sprintf("advice(%d)", int(a.Kind))
	}
}

// StrategicAdvice reviews survival odds, the path to the food and free space.
// maxIterations bounds the path search.
func StrategicAdvice(g game.Grid, snake []game.Point, food game.Point, obstacles []game.Point, maxIterations int) []Advice {
	advice := []Advice{}

	survival := SurvivalProbability(g, snake, obstacles)
	switch {
	case survival < criticalSurvival:
		advice = append(advice, Advice{Kind: Critical})
	case survival < cautionSurvival:
		advice = append(advice, Advice{Kind: Caution})
	}

	path, ok := pathfind.FindPath(g, snake, food, obstacles, maxIterations)
	switch {
	case !ok || len(path) == 0:
		// An empty path means the head already sits on the food; there is
		// no route to comment on.
		if !ok {
			advice = append(advice, Advice{Kind: PathBlocked})
		}
	case len(path) > longPathSteps:
		advice = append(advice, Advice{Kind: LongPath})
	case len(path) < closePathSteps:
		advice = append(advice, Advice{Kind: FoodClose})
	}

	if FreeSpaceCount(g, snake, obstacles) < crampedFreeCells {
		advice = append(advice, Advice{Kind: Cramped})
	}

	return advice
}

// Suggestions lists hints about the immediate move. recommended is the move a
// selector picked for this tick, or game.NoDirection.
func Suggestions(g game.Grid, snake []game.Point, food game.Point, obstacles []game.Point, recommended game.Direction) []Advice {
	safe := SafeDirections(g, snake, obstacles)
	if len(safe) == 0 {
		return []Advice{{Kind: NoSafeMoves}}
	}

	advice := []Advice{}
	if recommended.Valid() {
		advice = append(advice, Advice{Kind: Recommended, Direction: recommended})
	}
	if len(safe) <= fewSafeMoves {
		advice = append(advice, Advice{Kind: FewSafeMoves, Count: len(safe)})
	}
	if euclidean(snake[0], food) > farFoodDistance {
		advice = append(advice, Advice{Kind: FoodFar})
	}
	return advice
}
