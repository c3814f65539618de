package world

import (
	"math/rand"
	"testing"
)

func randomCoord(rng *rand.Rand, span int) HexCoord {
	return HexCoord{Q: rng.Intn(2*span+1) - span, R: rng.Intn(2*span+1) - span}
}

func TestDistance_SymmetricAndTriangle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		a := randomCoord(rng, 50)
		b := randomCoord(rng, 50)
		c := randomCoord(rng, 50)
		if Distance(a, b) != Distance(b, a) {
			t.Fatalf("distance not symmetric for %v %v", a, b)
		}
		if Distance(a, c) > Distance(a, b)+Distance(b, c) {
			t.Fatalf("triangle inequality broken for %v %v %v", a, b, c)
		}
	}
}

func TestDistance_Known(t *testing.T) {
	cases := []struct {
		a, b HexCoord
		want int
	}{
		{HexCoord{0, 0}, HexCoord{0, 0}, 0},
		{HexCoord{0, 0}, HexCoord{3, 0}, 3},
		{HexCoord{0, 0}, HexCoord{2, -5}, 5},
		{HexCoord{-2, 1}, HexCoord{2, -1}, 4},
		{HexCoord{1, 1}, HexCoord{-1, -1}, 4},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNeighbors_AllAtDistanceOne(t *testing.T) {
	center := HexCoord{Q: 4, R: -9}
	seen := make(map[HexCoord]bool)
	for i, n := range center.Neighbors() {
		if d := Distance(center, n); d != 1 {
			t.Errorf("neighbor %d %v at distance %d", i, n, d)
		}
		if n != center.Neighbor(i) {
			t.Errorf("Neighbor(%d) = %v, Neighbors()[%d] = %v", i, center.Neighbor(i), i, n)
		}
		seen[n] = true
	}
	if len(seen) != 6 {
		t.Fatalf("expected 6 distinct neighbors, got %d", len(seen))
	}
	if got := center.Neighbors()[0]; got != (HexCoord{Q: 5, R: -9}) {
		t.Errorf("direction 0 should be (+1,0), got %v", got)
	}
	if got := center.Neighbors()[5]; got != (HexCoord{Q: 4, R: -8}) {
		t.Errorf("direction 5 should be (0,+1), got %v", got)
	}
}

func TestCubeRound_PreservesInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 5000; i++ {
		q := rng.Float64()*40 - 20
		r := rng.Float64()*40 - 20
		h := CubeRound(q, r, -q-r)
		if h.Q+h.R+h.S() != 0 {
			t.Fatalf("rounded %v breaks q+r+s", h)
		}
		// The rounded cell must be the nearest: at most one step from the fractional point.
		if abs(float64(h.Q)-q) > 1 || abs(float64(h.R)-r) > 1 {
			t.Fatalf("CubeRound(%f,%f) = %v too far", q, r, h)
		}
	}
}

func TestCubeRound_NearBoundary(t *testing.T) {
	// Independent rounding gives (0, 0, -1), which is not a valid cube triple.
	got := CubeRound(0.4, 0.3, -0.7)
	want := HexCoord{Q: 1, R: 0}
	if got != want {
		t.Fatalf("CubeRound near boundary = %v, want %v", got, want)
	}
	got = CubeRound(0.45, 0.45, -0.9)
	if got.Q+got.R+got.S() != 0 || Distance(got, HexCoord{}) > 1 {
		t.Fatalf("CubeRound(0.45,0.45,-0.9) = %v", got)
	}
}

func TestRing_CountAndDistance(t *testing.T) {
	center := HexCoord{Q: -3, R: 2}
	if ring := Ring(center, 0); len(ring) != 1 || ring[0] != center {
		t.Fatalf("radius 0 ring should be the center, got %v", ring)
	}
	for k := 1; k <= 8; k++ {
		ring := Ring(center, k)
		if len(ring) != 6*k {
			t.Fatalf("ring %d has %d cells, want %d", k, len(ring), 6*k)
		}
		seen := make(map[HexCoord]bool)
		for _, h := range ring {
			if d := Distance(center, h); d != k {
				t.Fatalf("ring %d contains %v at distance %d", k, h, d)
			}
			seen[h] = true
		}
		if len(seen) != 6*k {
			t.Fatalf("ring %d has duplicates", k)
		}
		if want := center.Add(HexNeighborDirections[DirSouth].Scale(k)); ring[0] != want {
			t.Errorf("ring %d starts at %v, want %v", k, ring[0], want)
		}
	}
}

func TestHexesInRadius_Count(t *testing.T) {
	center := HexCoord{Q: 7, R: 7}
	for k := 0; k <= 10; k++ {
		cells := HexesInRadius(center, k)
		want := 1 + 3*k*(k+1)
		if len(cells) != want {
			t.Fatalf("radius %d: %d cells, want %d", k, len(cells), want)
		}
		seen := make(map[HexCoord]bool, len(cells))
		for _, h := range cells {
			if Distance(center, h) > k {
				t.Fatalf("radius %d contains %v", k, h)
			}
			seen[h] = true
		}
		if len(seen) != want {
			t.Fatalf("radius %d has duplicates", k)
		}
	}
	if cells := HexesInRadius(center, -1); len(cells) != 0 {
		t.Fatalf("negative radius should be empty, got %d", len(cells))
	}
}

func TestLine_Endpoints(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		a := randomCoord(rng, 15)
		b := randomCoord(rng, 15)
		line := Line(a, b)
		if len(line) != Distance(a, b)+1 {
			t.Fatalf("line %v→%v has %d cells, want %d", a, b, len(line), Distance(a, b)+1)
		}
		if line[0] != a || line[len(line)-1] != b {
			t.Fatalf("line %v→%v endpoints %v %v", a, b, line[0], line[len(line)-1])
		}
	}
}

func TestLine_SameCell(t *testing.T) {
	a := HexCoord{Q: 2, R: 2}
	if line := Line(a, a); len(line) != 1 || line[0] != a {
		t.Fatalf("Line(a, a) = %v", line)
	}
}
