package pathfind

import (
	"container/heap"

	"github.com/brensch/snekpath/game"
)

// node is the per-cell search bookkeeping for one FindPath call.
type node struct {
	cell   game.Point
	parent *node
	g      int // steps from the head
	h      int // heuristic steps to the food
	index  int // position in the frontier, -1 once popped
}

func (n *node) f() int { return n.g + n.h }

// frontier is a min-heap of open nodes ordered by f, then h, then Y, then X.
// The full ordering keeps search results reproducible.
type frontier []*node

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.f() != b.f() {
		return a.f() < b.f()
	}
	if a.h != b.h {
		return a.h < b.h
	}
	if a.cell.Y != b.cell.Y {
		return a.cell.Y < b.cell.Y
	}
	return a.cell.X < b.cell.X
}

func (q frontier) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *frontier) Push(x any) {
	n := x.(*node)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *frontier) Pop() any {
	old := *q
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*q = old[:last]
	return n
}

// update inserts n or repositions it after its cost dropped.
func (q *frontier) update(n *node) {
	if n.index >= 0 && n.index < len(*q) && (*q)[n.index] == n {
		heap.Fix(q, n.index)
		return
	}
	heap.Push(q, n)
}
