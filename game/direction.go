package game

import "strings"

// Direction is one of the four cardinal moves.
type Direction int

const (
	// NoDirection means "no move": no safe option, or no heading yet.
	NoDirection Direction = -1

	Up    Direction = 0
	Down  Direction = 1
	Left  Direction = 2
	Right Direction = 3
)

// Directions is the neighbour enumeration order used by search and safety
// checks.
var Directions = [4]Direction{Up, Down, Left, Right}

var directionNames = [4]string{"Up", "Down", "Left", "Right"}

func (d Direction) String() string {
	if d < Up || d > Right {
		return "None"
	}
	return directionNames[d]
}

// Valid reports whether d is one of the four cardinal moves.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// Opposite returns the reversal of d. NoDirection maps to itself.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return NoDirection
	}
}

// Delta returns the displacement of one step in field units.
func (d Direction) Delta(cellSize int) Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -cellSize}
	case Down:
		return Point{X: 0, Y: cellSize}
	case Left:
		return Point{X: -cellSize, Y: 0}
	case Right:
		return Point{X: cellSize, Y: 0}
	default:
		return Point{}
	}
}

// DirectionBetween returns the direction that moves from a to b in exactly
// one step. ok is false when b is not a single cardinal step away from a.
func DirectionBetween(a, b Point, cellSize int) (Direction, bool) {
	for _, d := range Directions {
		delta := d.Delta(cellSize)
		if a.X+delta.X == b.X && a.Y+delta.Y == b.Y {
			return d, true
		}
	}
	return NoDirection, false
}

// ParseDirection accepts "up", "Up", "UP" and friends.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	default:
		return NoDirection, false
	}
}
