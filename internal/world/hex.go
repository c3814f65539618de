// Package world provides the hex grid, coordinate spaces, and region data.
// Uses axial coordinates (q, r) for the hex grid, pointy-top orientation.
package world

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Add returns the component-wise sum of two coordinates.
func (h HexCoord) Add(o HexCoord) HexCoord {
	return HexCoord{Q: h.Q + o.Q, R: h.R + o.R}
}

// Scale multiplies a coordinate vector by k.
func (h HexCoord) Scale(k int) HexCoord {
	return HexCoord{Q: h.Q * k, R: h.R * k}
}

func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
// The order is the canonical direction enumeration used everywhere else:
// transitions are reported by index into this array.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// DirSouth is the direction index rings start from.
const DirSouth = 4

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Neighbor returns the adjacent coordinate in direction dir (0–5, wrapped).
func (h HexCoord) Neighbor(dir int) HexCoord {
	return h.Add(HexNeighborDirections[((dir%6)+6)%6])
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	// Max of the three absolute differences in cube coordinates.
	return max(dq, dr, ds)
}

// CubeRound converts a fractional cube coordinate to the nearest hex.
// Each component is rounded independently, then the one with the largest
// rounding error is recomputed from the other two so that q+r+s == 0.
func CubeRound(q, r, s float64) HexCoord {
	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	dq := math.Abs(rq - q)
	dr := math.Abs(rr - r)
	ds := math.Abs(rs - s)

	if dq > dr && dq > ds {
		rq = -rr - rs
	} else if dr > ds {
		rr = -rq - rs
	}
	// s is implicit in axial form; correcting it leaves q and r as rounded.
	return HexCoord{Q: int(rq), R: int(rr)}
}

// Ring returns every hex at exactly radius steps from center.
// Radius 0 yields the center alone; negative radius yields nothing.
func Ring(center HexCoord, radius int) []HexCoord {
	if radius < 0 {
		return nil
	}
	if radius == 0 {
		return []HexCoord{center}
	}

	results := make([]HexCoord, 0, 6*radius)
	h := center.Add(HexNeighborDirections[DirSouth].Scale(radius))
	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			results = append(results, h)
			h = h.Neighbor(side)
		}
	}
	return results
}

// HexesInRadius returns all hexes within radius of center (inclusive),
// ordered ring by ring outward from the center.
func HexesInRadius(center HexCoord, radius int) []HexCoord {
	if radius < 0 {
		return nil
	}
	results := make([]HexCoord, 0, 1+3*radius*(radius+1))
	for k := 0; k <= radius; k++ {
		results = append(results, Ring(center, k)...)
	}
	return results
}

// Line returns the hexes on the straight line from a to b, both ends included.
// Samples are taken at Distance(a, b) evenly spaced points in cube space.
func Line(a, b HexCoord) []HexCoord {
	n := Distance(a, b)
	if n == 0 {
		return []HexCoord{a}
	}

	results := make([]HexCoord, 0, n+1)
	aq, ar, as := float64(a.Q), float64(a.R), float64(a.S())
	bq, br, bs := float64(b.Q), float64(b.R), float64(b.S())
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		results = append(results, CubeRound(
			lerp(aq, bq, t),
			lerp(ar, br, t),
			lerp(as, bs, t),
		))
	}
	return results
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
