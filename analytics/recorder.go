// Package analytics keeps an in-memory history of moves and games and
// summarises it.
package analytics

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/brensch/snekpath/game"
	"github.com/brensch/snekpath/safety"
)

const (
	lowEfficiency   = 0.1
	farFoodDistance = 100

	// efficiencyCells is the approach, in cells, that scores a full +1.
	efficiencyCells = 5
)

// Move is one recorded tick.
type Move struct {
	Time         time.Time
	Direction    game.Direction
	Score        int
	SnakeLength  int
	Obstacles    int
	Head         game.Point
	FoodDistance float64 // straight-line, field units

	// FoodHeading is the dominant-axis direction from the head to the food.
	FoodHeading game.Direction
	// SafeDirections is how many moves were safe before this one was made.
	SafeDirections int
	// Efficiency is in [-1,1]; positive when the move closed on the food.
	Efficiency float64
}

// NewMove captures a tick from the state the move d is made from.
func NewMove(g game.Grid, state *game.State, d game.Direction, score int, now time.Time) Move {
	m := Move{
		Time:        now,
		Direction:   d,
		Score:       score,
		SnakeLength: len(state.Snake),
		Obstacles:   len(state.Obstacles),
		FoodHeading: game.NoDirection,
	}
	if head, ok := state.Head(); ok {
		m.Head = head
		m.FoodDistance = distance(head, state.Food)
		m.FoodHeading = safety.RelativeDirection(head, state.Food)
		m.SafeDirections = len(safety.SafeDirections(g, state.Snake, state.Obstacles))
		m.Efficiency = MoveEfficiency(g, head, state.Food, d)
	}
	return m
}

// MoveEfficiency is how much closer to the food one step in d brings the head,
// normalised so that efficiencyCells cells of approach is 1 and clamped to
// [-1,1]. A move that is not cardinal, or a grid with no cell size, scores 0.
func MoveEfficiency(g game.Grid, head, food game.Point, d game.Direction) float64 {
	if !d.Valid() || g.CellSize <= 0 {
		return 0
	}
	gain := distance(head, food) - distance(g.Next(head, d), food)
	return math.Max(-1, math.Min(1, gain/float64(efficiencyCells*g.CellSize)))
}

func distance(a, b game.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// Performance summarises a recorded history.
type Performance struct {
	TotalMoves      int
	MaxScore        int
	MaxLength       int
	AvgFoodDistance float64
	Directions      map[game.Direction]int
	// Efficiency is MaxScore per move; zero with fewer than two moves.
	Efficiency float64
}

// Recorder is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	moves []Move
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(m Move) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves = append(r.moves, m)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.moves)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves = nil
}

// Moves returns a copy of the history.
func (r *Recorder) Moves() []Move {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Move(nil), r.moves...)
}

// Performance returns the summary; ok is false when nothing was recorded.
func (r *Recorder) Performance() (Performance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.moves) == 0 {
		return Performance{}, false
	}

	p := Performance{
		TotalMoves: len(r.moves),
		Directions: make(map[game.Direction]int, 5),
	}
	var distance float64
	for _, m := range r.moves {
		p.MaxScore = max(p.MaxScore, m.Score)
		p.MaxLength = max(p.MaxLength, m.SnakeLength)
		distance += m.FoodDistance
		p.Directions[m.Direction]++
	}
	p.AvgFoodDistance = distance / float64(len(r.moves))
	if len(r.moves) >= 2 {
		p.Efficiency = float64(p.MaxScore) / float64(len(r.moves))
	}
	return p, true
}

// RecommendationKind identifies a recommendation.
type RecommendationKind int

const (
	ImproveEfficiency RecommendationKind = iota
	VaryDirections                       // see Recommendation.Most and Least
	ImproveNavigation
	TakeFewerRisks
	PlanAhead
	AimHigher
)

type Recommendation struct {
	Kind  RecommendationKind
	Most  game.Direction
	Least game.Direction
}

func (r Recommendation) String() string {
	switch r.Kind {
	case ImproveEfficiency:
		return "try a more efficient movement strategy"
	case VaryDirections:
		return fmt.Sprintf("vary your moves: use %s less and %s more", r.Most, r.Least)
	case ImproveNavigation:
		return "improve navigation towards the food"
	case TakeFewerRisks:
		return "too many moves left one way out or fewer; play safer"
	case PlanAhead:
		return "moves drift away from the food on average; plan the path ahead"
	case AimHigher:
		return "recent games all scored under 10; focus on reaching higher scores"
	default:
		return fmt.Sprintf("recommendation(%d)", int(r.Kind))
	}
}

// Recommendations derives advice from Performance. It is empty when nothing
// was recorded.
func (r *Recorder) Recommendations() []Recommendation {
	p, ok := r.Performance()
	if !ok {
		return nil
	}

	var out []Recommendation
	if p.Efficiency < lowEfficiency {
		out = append(out, Recommendation{Kind: ImproveEfficiency})
	}
	if most, least, ok := extremes(p.Directions); ok {
		out = append(out, Recommendation{Kind: VaryDirections, Most: most, Least: least})
	}
	if p.AvgFoodDistance > farFoodDistance {
		out = append(out, Recommendation{Kind: ImproveNavigation})
	}
	return out
}

// extremes picks the most and least used directions among those seen. Ties go
// to the earlier of Up, Down, Left, Right, None.
func extremes(counts map[game.Direction]int) (most, least game.Direction, ok bool) {
	order := []game.Direction{game.Up, game.Down, game.Left, game.Right, game.NoDirection}
	most, least = game.NoDirection, game.NoDirection
	mostN, leastN := -1, math.MaxInt
	for _, d := range order {
		n, seen := counts[d]
		if !seen {
			continue
		}
		ok = true
		if n > mostN {
			most, mostN = d, n
		}
		if n < leastN {
			least, leastN = d, n
		}
	}
	return most, least, ok
}
