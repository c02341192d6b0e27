// Package pathfind finds shortest head-to-food paths with A* over the game
// grid.
//
// Every call works on a fresh snapshot and keeps no state afterwards. A
// search that does not reach the food within its iteration budget reports
// "not found"; that is a normal outcome, not an error.
package pathfind

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/brensch/snekpath/game"
)

// DefaultMaxIterations is the classic budget. It is smaller than the cell
// count of a 400x400 field; use BudgetFor when the board may fill up.
const DefaultMaxIterations = 1000

var ErrBudget = errors.New("iteration budget must be positive")

// Path is the sequence of cells from (excluding) the head to (including) the
// food.
type Path []game.Point

// Config holds search configuration.
type Config struct {
	MaxIterations int
}

// DefaultConfig returns the classic 1000 iteration budget.
func DefaultConfig() Config {
	return Config{MaxIterations: DefaultMaxIterations}
}

// BudgetFor returns a budget that can never cut a search short on g: each
// cell is popped at most once, so the cell count suffices.
func BudgetFor(g game.Grid) int {
	return max(DefaultMaxIterations, g.Cells())
}

func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: got %d", ErrBudget, c.MaxIterations)
	}
	return nil
}

// Stats describes one search.
type Stats struct {
	Iterations int // frontier pops
	Visited    int // distinct cells given a cost
}

// Finder runs searches on a fixed grid.
type Finder struct {
	grid   game.Grid
	config Config
}

// NewFinder validates the grid and budget up front so that searches never
// run with a bad configuration.
func NewFinder(grid game.Grid, config Config) (*Finder, error) {
	if _, err := game.NewGrid(grid.Width, grid.Height, grid.CellSize); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Finder{grid: grid, config: config}, nil
}

func (f *Finder) Grid() game.Grid { return f.grid }

func (f *Finder) Config() Config { return f.config }

// FindPath searches from snake[0] to food.
func (f *Finder) FindPath(snake []game.Point, food game.Point, obstacles []game.Point) (Path, bool) {
	path, _, ok := search(f.grid, snake, food, obstacles, f.config.MaxIterations)
	return path, ok
}

// Search is FindPath plus search statistics.
func (f *Finder) Search(snake []game.Point, food game.Point, obstacles []game.Point) (Path, Stats, bool) {
	return search(f.grid, snake, food, obstacles, f.config.MaxIterations)
}

// FindPath is the one-shot form of Finder.FindPath. A non-positive budget or
// a grid with a non-positive cell size finds nothing.
func FindPath(grid game.Grid, snake []game.Point, food game.Point, obstacles []game.Point, maxIterations int) (Path, bool) {
	if grid.CellSize <= 0 {
		return nil, false
	}
	path, _, ok := search(grid, snake, food, obstacles, maxIterations)
	return path, ok
}

func search(grid game.Grid, snake []game.Point, food game.Point, obstacles []game.Point, maxIterations int) (Path, Stats, bool) {
	var stats Stats
	if len(snake) == 0 || maxIterations <= 0 {
		return nil, stats, false
	}

	head := snake[0]
	if head == food {
		return Path{}, stats, true
	}

	occ := game.NewOccupancy(snake, obstacles)

	start := &node{cell: head, h: grid.Heuristic(head, food), index: -1}
	nodes := map[game.Point]*node{head: start}

	open := make(frontier, 0, 64)
	heap.Push(&open, start)

	for open.Len() > 0 && stats.Iterations < maxIterations {
		stats.Iterations++
		current := heap.Pop(&open).(*node)

		if current.cell == food {
			stats.Visited = len(nodes)
			return reconstruct(current), stats, true
		}

		for _, d := range game.Directions {
			cell := grid.Next(current.cell, d)
			if !grid.IsFree(cell, occ) {
				continue
			}

			tentative := current.g + 1
			n, seen := nodes[cell]
			if seen && tentative >= n.g {
				continue
			}
			if !seen {
				n = &node{cell: cell, h: grid.Heuristic(cell, food), index: -1}
				nodes[cell] = n
			}
			n.g = tentative
			n.parent = current
			open.update(n)
		}
	}

	stats.Visited = len(nodes)
	return nil, stats, false
}

// reconstruct walks predecessor links back to the head, which is left out.
func reconstruct(goal *node) Path {
	path := make(Path, 0, goal.g)
	for n := goal; n.parent != nil; n = n.parent {
		path = append(path, n.cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
