// Package pathfind provides A* search over the hex grid.
// Nodes live in a per-search arena keyed by coordinate; the open set is a
// binary heap ordered by f, ties broken by discovery order.
package pathfind

import (
	"container/heap"

	"github.com/talgya/hexworld/internal/world"
)

// DefaultMaxExpansions bounds a search when no cap is configured.
const DefaultMaxExpansions = 10000

// CostFunc returns the cost of entering a hex. Values below 1 make the hex
// distance heuristic inadmissible and paths may no longer be optimal.
type CostFunc func(world.HexCoord) float64

// ObstacleFunc reports whether a hex cannot be entered.
type ObstacleFunc func(world.HexCoord) bool

// Path is a sequence of hexes from start to goal, both included.
type Path []world.HexCoord

// Cost sums the entry cost of every hex after the start.
func (p Path) Cost(cost CostFunc) float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += stepCost(cost, p[i])
	}
	return total
}

// Finder runs searches with a fixed layout and expansion cap.
type Finder struct {
	Layout        world.Layout
	MaxExpansions int // Closed-set size at which a search gives up; <= 0 disables the cap
}

// NewFinder creates a finder with the default expansion cap.
func NewFinder(layout world.Layout) *Finder {
	return &Finder{Layout: layout, MaxExpansions: DefaultMaxExpansions}
}

// node is transient search state for one discovered hex.
type node struct {
	coord  world.HexCoord
	g      float64 // Cost from start
	h      float64 // Heuristic (hex distance to goal)
	f      float64 // g + h
	parent *node
	seq    int  // Discovery order, for tie breaking
	index  int  // Index in heap, -1 once popped
	closed bool // Finalized
}

// openSet implements heap.Interface.
type openSet []*node

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}

func (o *openSet) Push(x any) {
	n := x.(*node)
	n.index = len(*o)
	*o = append(*o, n)
}

func (o *openSet) Pop() any {
	old := *o
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*o = old[:last]
	return n
}

// FindPath finds a cheapest path from start to goal.
// The second return value is false when no path exists, an endpoint is an
// obstacle, or the search closed more than MaxExpansions hexes.
// A nil cost function means uniform cost 1; a nil obstacle function blocks nothing.
func (f *Finder) FindPath(start, goal world.HexCoord, cost CostFunc, blocked ObstacleFunc) (Path, bool) {
	if start == goal {
		return Path{start}, true
	}
	if isBlocked(blocked, start) || isBlocked(blocked, goal) {
		return nil, false
	}

	nodes := make(map[world.HexCoord]*node)
	open := &openSet{}
	seq := 0

	startNode := &node{coord: start, h: float64(world.Distance(start, goal))}
	startNode.f = startNode.h
	nodes[start] = startNode
	heap.Push(open, startNode)

	closedCount := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		current.closed = true
		closedCount++

		if current.coord == goal {
			return reconstructPath(current), true
		}
		if f.MaxExpansions > 0 && closedCount > f.MaxExpansions {
			return nil, false
		}

		for _, nc := range current.coord.Neighbors() {
			if isBlocked(blocked, nc) {
				continue
			}
			g := current.g + stepCost(cost, nc)

			neighbor, seen := nodes[nc]
			if !seen {
				seq++
				neighbor = &node{
					coord:  nc,
					g:      g,
					h:      float64(world.Distance(nc, goal)),
					parent: current,
					seq:    seq,
				}
				neighbor.f = neighbor.g + neighbor.h
				nodes[nc] = neighbor
				heap.Push(open, neighbor)
			} else if !neighbor.closed && g < neighbor.g {
				neighbor.g = g
				neighbor.f = g + neighbor.h
				neighbor.parent = current
				heap.Fix(open, neighbor.index)
			}
		}
	}

	return nil, false
}

// FindPathWorld runs FindPath and maps the result to world positions.
func (f *Finder) FindPathWorld(start, goal world.HexCoord, cost CostFunc, blocked ObstacleFunc) ([]world.Point, bool) {
	path, ok := f.FindPath(start, goal, cost, blocked)
	if !ok {
		return nil, false
	}
	return f.Layout.PathToWorld(path), true
}

func reconstructPath(n *node) Path {
	var path Path
	for n != nil {
		path = append(path, n.coord)
		n = n.parent
	}
	// Built from goal to start.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func isBlocked(blocked ObstacleFunc, h world.HexCoord) bool {
	return blocked != nil && blocked(h)
}

func stepCost(cost CostFunc, h world.HexCoord) float64 {
	if cost == nil {
		return 1
	}
	return cost(h)
}
