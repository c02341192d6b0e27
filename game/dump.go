package game

import (
	"fmt"
	"strings"
)

// Dump renders the state as text, one row per line, top row first.
//
//	H head, s body, # obstacle, F food, . empty
//
// Boards larger than 80x80 cells only get the header line.
func Dump(g Grid, s *State) string {
	if s == nil {
		return "<nil state>"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Size=%dx%d Cell=%d Len=%d Obstacles=%d Food=(%d,%d)\n",
		g.Width, g.Height, g.CellSize, len(s.Snake), len(s.Obstacles), s.Food.X, s.Food.Y)

	cols, rows := 0, 0
	if g.CellSize > 0 {
		cols, rows = g.Columns(), g.Rows()
	}
	if cols <= 0 || rows <= 0 || cols > 80 || rows > 80 {
		return b.String()
	}

	grid := make([][]byte, rows)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(".", cols))
	}
	set := func(p Point, c byte) {
		if !g.InBounds(p) {
			return
		}
		grid[p.Y/g.CellSize][p.X/g.CellSize] = c
	}

	set(s.Food, 'F')
	for _, o := range s.Obstacles {
		set(o, '#')
	}
	for i := len(s.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			set(s.Snake[i], 'H')
		} else {
			set(s.Snake[i], 's')
		}
	}

	for _, row := range grid {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}
