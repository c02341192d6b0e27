// Package policy picks one direction per tick: follow the A* path when there
// is one, otherwise fall back to local safety reasoning.
package policy

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/brensch/snekpath/game"
	"github.com/brensch/snekpath/logging"
	"github.com/brensch/snekpath/pathfind"
	"github.com/brensch/snekpath/safety"
)

// ErrInvalidStep means a path's first cell is not one cardinal move from the
// head. It indicates a broken path, never a normal outcome.
var ErrInvalidStep = errors.New("path step is not a single cardinal move")

// fallbackOrder is the tie-break among safe moves when no RNG is configured.
var fallbackOrder = [4]game.Direction{game.Right, game.Left, game.Down, game.Up}

// Proposer suggests a move when no usable path exists. A proposal is only
// taken if it is a safe, non-reversing move.
type Proposer interface {
	Propose(state game.State, current game.Direction) (game.Direction, error)
}

// ProposerFunc adapts a function to Proposer.
type ProposerFunc func(state game.State, current game.Direction) (game.Direction, error)

func (f ProposerFunc) Propose(state game.State, current game.Direction) (game.Direction, error) {
	return f(state, current)
}

// Config holds selector configuration.
type Config struct {
	Grid          game.Grid
	MaxIterations int
}

// DefaultConfig uses a search budget large enough to cover the whole grid.
func DefaultConfig(grid game.Grid) Config {
	return Config{Grid: grid, MaxIterations: pathfind.BudgetFor(grid)}
}

type Option func(*Selector)

// WithLogger sets the logger used for per-tick decision records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Selector) { s.log = logging.OrDiscard(l) }
}

// WithRand makes the final fallback pick a random safe move instead of the
// fixed order. rng must not be shared across goroutines.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) { s.rng = rng }
}

// WithProposers appends proposers, consulted in order.
func WithProposers(p ...Proposer) Option {
	return func(s *Selector) { s.proposers = append(s.proposers, p...) }
}

// Selector is safe for concurrent use unless built WithRand.
type Selector struct {
	finder    *pathfind.Finder
	log       *slog.Logger
	rng       *rand.Rand
	proposers []Proposer
}

func New(config Config, opts ...Option) (*Selector, error) {
	finder, err := pathfind.NewFinder(config.Grid, pathfind.Config{MaxIterations: config.MaxIterations})
	if err != nil {
		return nil, fmt.Errorf("selector config: %w", err)
	}

	s := &Selector{
		finder: finder,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Selector) Grid() game.Grid { return s.finder.Grid() }

// ChooseDirection returns the move for this tick, or game.NoDirection when
// every move is fatal. current is the snake's heading (game.NoDirection if it
// has none) and is never reversed. The returned move is always safe.
func (s *Selector) ChooseDirection(state game.State, current game.Direction) (game.Direction, error) {
	head, ok := state.Head()
	if !ok {
		s.decided("none", game.NoDirection, current)
		return game.NoDirection, nil
	}
	grid := s.finder.Grid()

	path, found := s.finder.FindPath(state.Snake, state.Food, state.Obstacles)
	if found && len(path) > 0 {
		d, err := stepDirection(grid, head, path[0])
		if err != nil {
			return game.NoDirection, err
		}
		if !reverses(d, current) {
			s.decided("path", d, current, "path_len", len(path))
			return d, nil
		}
	}

	safe := withoutReversal(safety.SafeDirections(grid, state.Snake, state.Obstacles), current)
	if len(safe) == 0 {
		s.decided("none", game.NoDirection, current, "path_found", found)
		return game.NoDirection, nil
	}

	for i, p := range s.proposers {
		d, err := p.Propose(state, current)
		if err != nil {
			s.log.Warn("proposer failed", "proposer", i, "error", err)
			continue
		}
		if reverses(d, current) || !safety.IsSafe(grid, state.Snake, state.Obstacles, d) {
			s.log.Debug("proposal rejected", "proposer", i, "dir", d, "current", current)
			continue
		}
		s.decided("proposer", d, current, "proposer", i)
		return d, nil
	}

	if d, ok := greedy(head, state.Food, safe); ok {
		s.decided("greedy", d, current, "path_found", found)
		return d, nil
	}

	d := s.fallback(safe)
	s.decided("fallback", d, current, "safe", len(safe))
	return d, nil
}

// Advise combines strategic advice with hints about the move ChooseDirection
// would make.
func (s *Selector) Advise(state game.State, current game.Direction) ([]safety.Advice, error) {
	d, err := s.ChooseDirection(state, current)
	if err != nil {
		return nil, err
	}
	grid := s.finder.Grid()
	advice := safety.StrategicAdvice(grid, state.Snake, state.Food, state.Obstacles, s.finder.Config().MaxIterations)
	if len(state.Snake) == 0 {
		return advice, nil
	}
	return append(advice, safety.Suggestions(grid, state.Snake, state.Food, state.Obstacles, d)...), nil
}

func (s *Selector) decided(source string, d, current game.Direction, extra ...any) {
	args := append([]any{"source", source, "dir", d, "current", current}, extra...)
	s.log.Debug("decision", args...)
}

func (s *Selector) fallback(safe []game.Direction) game.Direction {
	if s.rng != nil {
		return safe[s.rng.Intn(len(safe))]
	}
	for _, d := range fallbackOrder {
		if contains(safe, d) {
			return d
		}
	}
	return game.NoDirection
}

// greedy tries the axis with the larger offset to food first (horizontal on a
// tie), then the other axis. A move along an axis with a zero offset would
// not get closer and is never tried.
func greedy(head, food game.Point, safe []game.Direction) (game.Direction, bool) {
	dx := food.X - head.X
	dy := food.Y - head.Y

	horizontal := game.NoDirection
	switch {
	case dx > 0:
		horizontal = game.Right
	case dx < 0:
		horizontal = game.Left
	}
	vertical := game.NoDirection
	switch {
	case dy > 0:
		vertical = game.Down
	case dy < 0:
		vertical = game.Up
	}

	order := [2]game.Direction{horizontal, vertical}
	if abs(dy) > abs(dx) {
		order = [2]game.Direction{vertical, horizontal}
	}
	for _, d := range order {
		if d.Valid() && contains(safe, d) {
			return d, true
		}
	}
	return game.NoDirection, false
}

func stepDirection(g game.Grid, head, next game.Point) (game.Direction, error) {
	d, ok := game.DirectionBetween(head, next, g.CellSize)
	if !ok {
		return game.NoDirection, fmt.Errorf("%w: %v -> %v", ErrInvalidStep, head, next)
	}
	return d, nil
}

func reverses(d, current game.Direction) bool {
	return current.Valid() && d == current.Opposite()
}

func withoutReversal(moves []game.Direction, current game.Direction) []game.Direction {
	out := moves[:0]
	for _, d := range moves {
		if !reverses(d, current) {
			out = append(out, d)
		}
	}
	return out
}

func contains(moves []game.Direction, d game.Direction) bool {
	for _, m := range moves {
		if m == d {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
