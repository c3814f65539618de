package pathfind

import (
	"testing"

	"github.com/talgya/hexworld/internal/world"
)

func TestHasLineOfSight(t *testing.T) {
	a := world.HexCoord{Q: 0, R: 0}
	b := world.HexCoord{Q: 5, R: 0}
	if !HasLineOfSight(a, b, nil) {
		t.Fatal("open line should be visible")
	}
	if HasLineOfSight(a, b, bounded(10, world.HexCoord{Q: 3, R: 0})) {
		t.Fatal("wall on the line should block sight")
	}
	// Endpoints are never tested.
	if !HasLineOfSight(a, b, bounded(10, a, b)) {
		t.Fatal("blocked endpoints should not block sight")
	}
	if !HasLineOfSight(a, a.Neighbor(2), bounded(10, a, a.Neighbor(2))) {
		t.Fatal("adjacent hexes always see each other")
	}
}

func TestSmoothPath_OpenGrid(t *testing.T) {
	f := newTestFinder()
	a := world.HexCoord{Q: -3, R: 0}
	b := world.HexCoord{Q: 4, R: -2}
	p, _ := f.FindPath(a, b, nil, nil)
	s := SmoothPath(p, nil)
	if len(s) != 2 || s[0] != a || s[1] != b {
		t.Fatalf("open grid should smooth to its endpoints, got %v", s)
	}
}

func TestSmoothPath_NeverWorse(t *testing.T) {
	var walls []world.HexCoord
	for r := -5; r <= 5; r++ {
		if r != -3 {
			walls = append(walls, world.HexCoord{Q: 2, R: r})
		}
	}
	walls = append(walls, world.HexCoord{Q: -1, R: 2}, world.HexCoord{Q: 4, R: -4})
	blocked := bounded(8, walls...)
	f := newTestFinder()

	starts := []world.HexCoord{{Q: 0, R: 0}, {Q: -4, R: 3}, {Q: 0, R: 5}}
	goals := []world.HexCoord{{Q: 5, R: 0}, {Q: 4, R: 2}, {Q: 6, R: -6}}
	for _, a := range starts {
		for _, b := range goals {
			p, ok := f.FindPath(a, b, nil, blocked)
			if !ok {
				t.Fatalf("no path %v → %v", a, b)
			}
			s := SmoothPath(p, blocked)
			if len(s) > len(p) {
				t.Fatalf("smoothing grew %v → %v", p, s)
			}
			if s[0] != p[0] || s[len(s)-1] != p[len(p)-1] {
				t.Fatalf("smoothing moved endpoints: %v", s)
			}
			for i := 1; i < len(s); i++ {
				if !HasLineOfSight(s[i-1], s[i], blocked) {
					t.Fatalf("segment %v → %v has no line of sight", s[i-1], s[i])
				}
			}
		}
	}
}

func TestSmoothPath_Short(t *testing.T) {
	if s := SmoothPath(nil, nil); len(s) != 0 {
		t.Fatalf("empty path smoothed to %v", s)
	}
	one := Path{{Q: 1, R: 1}}
	if s := SmoothPath(one, nil); len(s) != 1 || s[0] != one[0] {
		t.Fatalf("single-cell path smoothed to %v", s)
	}
}

func TestPathCost(t *testing.T) {
	p := Path{{Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 2, R: 0}}
	if c := p.Cost(nil); c != 2 {
		t.Fatalf("uniform cost = %f, want 2", c)
	}
	double := func(world.HexCoord) float64 { return 2 }
	if c := p.Cost(double); c != 4 {
		t.Fatalf("cost = %f, want 4", c)
	}
}
