package game

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

const (
	DefaultWidth    = 400
	DefaultHeight   = 400
	DefaultCellSize = 10
)

var (
	ErrNonPositive  = errors.New("grid dimensions must be positive")
	ErrNotDivisible = errors.New("grid dimensions must be multiples of the cell size")
)

// Grid is the playing field: Width x Height field units split into square
// cells of CellSize units.
type Grid struct {
	Width    int
	Height   int
	CellSize int
}

// NewGrid validates the field configuration.
func NewGrid(width, height, cellSize int) (Grid, error) {
	if width <= 0 || height <= 0 || cellSize <= 0 {
		return Grid{}, fmt.Errorf("%w: width=%d height=%d cell=%d", ErrNonPositive, width, height, cellSize)
	}
	if width%cellSize != 0 || height%cellSize != 0 {
		return Grid{}, fmt.Errorf("%w: width=%d height=%d cell=%d", ErrNotDivisible, width, height, cellSize)
	}
	return Grid{Width: width, Height: height, CellSize: cellSize}, nil
}

// DefaultGrid is the classic 400x400 field with 10 unit cells.
func DefaultGrid() Grid {
	return Grid{Width: DefaultWidth, Height: DefaultHeight, CellSize: DefaultCellSize}
}

// Columns is the number of cells along X. A grid with no cell size has none.
func (g Grid) Columns() int {
	if g.CellSize <= 0 {
		return 0
	}
	return g.Width / g.CellSize
}

// Rows is the number of cells along Y.
func (g Grid) Rows() int {
	if g.CellSize <= 0 {
		return 0
	}
	return g.Height / g.CellSize
}

// Cells is the total number of cells on the field.
func (g Grid) Cells() int { return g.Columns() * g.Rows() }

// Next moves p one cell in direction d.
func (g Grid) Next(p Point, d Direction) Point {
	delta := d.Delta(g.CellSize)
	return Point{X: p.X + delta.X, Y: p.Y + delta.Y}
}

// InBounds reports whether p lies inside [0,Width) x [0,Height).
func (g Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// IsValid reports whether the head may occupy p: inside the field and not on
// any snake segment or obstacle.
func (g Grid) IsValid(p Point, snake, obstacles []Point) bool {
	// 1. Check bounds
	if !g.InBounds(p) {
		return false
	}

	// 2. Check snake (tail included; the tail has not moved yet)
	for _, s := range snake {
		if s == p {
			return false
		}
	}

	// 3. Check obstacles
	for _, o := range obstacles {
		if o == p {
			return false
		}
	}

	return true
}

// Heuristic is the Manhattan distance between a and b in cells. It matches
// the unit step cost of the path search, so it never overestimates. On a grid
// without a cell size the distance stays in field units.
func (g Grid) Heuristic(a, b Point) int {
	d := abs(a.X-b.X) + abs(a.Y-b.Y)
	if g.CellSize <= 0 {
		return d
	}
	return d / g.CellSize
}

// Occupancy is a set of blocked cells built once per query.
type Occupancy struct {
	cells mapset.Set[Point]
}

// NewOccupancy marks every snake segment and obstacle as blocked.
func NewOccupancy(snake, obstacles []Point) Occupancy {
	occ := Occupancy{cells: mapset.New[Point]()}
	for _, p := range snake {
		occ.cells.Put(p)
	}
	for _, p := range obstacles {
		occ.cells.Put(p)
	}
	return occ
}

// Add marks p as blocked.
func (o Occupancy) Add(p Point) { o.cells.Put(p) }

// Has reports whether p is blocked.
func (o Occupancy) Has(p Point) bool { return o.cells.Has(p) }

// Len is the number of distinct blocked cells, in bounds or not.
func (o Occupancy) Len() int { return o.cells.Size() }

// IsFree is IsValid over a prebuilt occupancy set.
func (g Grid) IsFree(p Point, occ Occupancy) bool {
	return g.InBounds(p) && !occ.Has(p)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
