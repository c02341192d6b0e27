// food.go implements food and obstacle placement for the evaluator and tests.

package game

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
)

// PlaceFood moves state.Food to a uniformly chosen free cell. A cell is free
// when no snake segment or obstacle sits on it.
//
// If rng is nil a deterministic generator seeded from the snake is used, so
// replays of the same game place food identically.
// Returns false when the board has no free cell; Food is left unchanged.
func PlaceFood(g Grid, state *State, rng *rand.Rand) bool {
	if state == nil || g.CellSize <= 0 {
		return false
	}
	if rng == nil {
		rng = deterministicRand(state, 0x464F4F44) // "FOOD"
	}

	available := freeCells(g, NewOccupancy(state.Snake, state.Obstacles))
	if len(available) == 0 {
		return false
	}
	state.Food = available[rng.Intn(len(available))]
	return true
}

// ScatterObstacles appends up to n obstacles on free cells that are neither
// food nor within one step of the snake head, so a fresh game is never lost
// on the first tick. Returns the number actually placed.
func ScatterObstacles(g Grid, state *State, n int, rng *rand.Rand) int {
	if state == nil || g.CellSize <= 0 || n <= 0 {
		return 0
	}
	if rng == nil {
		rng = deterministicRand(state, 0x4F425354) // "OBST"
	}

	occ := NewOccupancy(state.Snake, state.Obstacles)
	occ.Add(state.Food)
	if head, ok := state.Head(); ok {
		for _, d := range Directions {
			occ.Add(g.Next(head, d))
		}
	}

	available := freeCells(g, occ)
	placed := 0
	for placed < n && len(available) > 0 {
		i := rng.Intn(len(available))
		state.Obstacles = append(state.Obstacles, available[i])
		// remove chosen slot
		available[i] = available[len(available)-1]
		available = available[:len(available)-1]
		placed++
	}
	return placed
}

func freeCells(g Grid, occ Occupancy) []Point {
	available := make([]Point, 0, max(0, g.Cells()-occ.Len()))
	for y := 0; y < g.Height; y += g.CellSize {
		for x := 0; x < g.Width; x += g.CellSize {
			p := Point{X: x, Y: y}
			if occ.Has(p) {
				continue
			}
			available = append(available, p)
		}
	}
	return available
}

func deterministicRand(state *State, salt uint64) *rand.Rand {
	seed := int64(deterministicU64(state, salt))
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

func deterministicU64(state *State, salt uint64) uint64 {
	// Mix salt + snake length + head position + obstacle count.
	h := fnv.New64a()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], salt)
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(len(state.Snake)))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(len(state.Obstacles)))
	_, _ = h.Write(buf[:])

	if len(state.Snake) > 0 {
		head := state.Snake[0]
		binary.LittleEndian.PutUint64(buf[:], (uint64(uint32(head.X))<<32)|uint64(uint32(head.Y)))
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}
