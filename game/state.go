// Package game defines the grid model shared by the search, safety and policy
// packages.
//
// Coordinates are expressed in field units: a cell at column c and row r sits
// at (c*CellSize, r*CellSize). (0,0) is the top-left corner and Y grows
// downwards, so Up decreases Y.
package game

// Point is a grid-aligned cell position in field units.
type Point struct {
	X int
	Y int
}

// State is the snapshot of one tick handed to the decision layer.
// Snake is head-first. The caller owns all slices; nothing here retains them.
type State struct {
	Snake     []Point
	Food      Point
	Obstacles []Point
}

// Head returns the first snake segment. ok is false for an empty snake.
func (s *State) Head() (Point, bool) {
	if s == nil || len(s.Snake) == 0 {
		return Point{}, false
	}
	return s.Snake[0], true
}

// Clone performs a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	out := &State{Food: s.Food}

	if len(s.Snake) > 0 {
		out.Snake = make([]Point, len(s.Snake))
		copy(out.Snake, s.Snake)
	}

	if len(s.Obstacles) > 0 {
		out.Obstacles = make([]Point, len(s.Obstacles))
		copy(out.Obstacles, s.Obstacles)
	}

	return out
}
