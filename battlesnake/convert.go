package main

import (
	"fmt"

	"github.com/brensch/snekpath/game"
)

// converted is one move request translated into grid coordinates.
type converted struct {
	grid    game.Grid
	state   game.State
	current game.Direction
}

// convertRequest maps a Battlesnake board (unit cells, y up) onto a grid of
// cellSize field units with y down. Other snakes become obstacles, and so do
// hazards when avoidHazards is set. The nearest food by Manhattan distance is
// the target; with no food on the board the target is the head itself.
func convertRequest(req *GameRequest, cellSize int, avoidHazards bool) (converted, error) {
	g, err := game.NewGrid(req.Board.Width*cellSize, req.Board.Height*cellSize, cellSize)
	if err != nil {
		return converted{}, fmt.Errorf("board %dx%d: %w", req.Board.Width, req.Board.Height, err)
	}

	toPoint := func(c Coord) game.Point {
		return game.Point{X: c.X * cellSize, Y: (req.Board.Height - 1 - c.Y) * cellSize}
	}

	out := converted{grid: g, current: game.NoDirection}

	out.state.Snake = make([]game.Point, 0, len(req.You.Body))
	for _, c := range req.You.Body {
		out.state.Snake = append(out.state.Snake, toPoint(c))
	}

	for _, s := range req.Board.Snakes {
		if s.ID == req.You.ID {
			continue
		}
		for _, c := range s.Body {
			out.state.Obstacles = append(out.state.Obstacles, toPoint(c))
		}
	}
	if avoidHazards {
		for _, c := range req.Board.Hazards {
			out.state.Obstacles = append(out.state.Obstacles, toPoint(c))
		}
	}

	head, ok := out.state.Head()
	if !ok {
		return out, nil
	}
	out.state.Food = head
	best := -1
	for _, c := range req.Board.Food {
		f := toPoint(c)
		if d := g.Heuristic(head, f); best < 0 || d < best {
			out.state.Food, best = f, d
		}
	}

	// Snakes start stacked on one cell, so the neck may equal the head.
	if len(out.state.Snake) > 1 {
		if d, ok := game.DirectionBetween(out.state.Snake[1], head, cellSize); ok {
			out.current = d
		}
	}
	return out, nil
}

func moveToString(d game.Direction) string {
	switch d {
	case game.Up:
		return "up"
	case game.Down:
		return "down"
	case game.Left:
		return "left"
	case game.Right:
		return "right"
	default:
		return "up"
	}
}
