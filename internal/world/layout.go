package world

import (
	"fmt"
	"math"
)

const sqrt3 = 1.7320508075688772

// MaxGridRatio bounds GridSize/HexSize. A hex center sits at most half a
// cell diagonal (GridSize/√2) from its cell's center, and every point within
// 2·HexSize of a hex center lies in that hex or a neighbor, so hex → grid → hex
// stays within one hex up to a ratio of 2√2. 2 leaves margin.
const MaxGridRatio = 2.0

// Point is a continuous position in world (render/physics) space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GridCell is a discrete cell of the axis-aligned building grid.
type GridCell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Layout maps between hex, world, and grid space.
// HexSize and GridSize are independent: the grid is a coarser axis-aligned
// quantization of world space, not a subdivision of hexes. GridSize may not
// exceed MaxGridRatio·HexSize.
type Layout struct {
	HexSize  float64 `yaml:"hex_size" json:"hex_size"`   // Center-to-corner radius of one hex
	GridSize float64 `yaml:"grid_size" json:"grid_size"` // Edge length of one grid cell
}

// DefaultLayout returns the scales used by the world generator and the API.
func DefaultLayout() Layout {
	return Layout{HexSize: 32, GridSize: 48}
}

// Validate rejects scales that break the hex → grid → hex guarantee.
func (l Layout) Validate() error {
	if l.HexSize <= 0 {
		return fmt.Errorf("hex_size must be positive, got %v", l.HexSize)
	}
	if l.GridSize <= 0 {
		return fmt.Errorf("grid_size must be positive, got %v", l.GridSize)
	}
	if l.GridSize > MaxGridRatio*l.HexSize {
		return fmt.Errorf("grid_size %v exceeds %v × hex_size %v", l.GridSize, MaxGridRatio, l.HexSize)
	}
	return nil
}

// HexToWorld returns the world position of a hex center (pointy top).
func (l Layout) HexToWorld(h HexCoord) Point {
	q, r := float64(h.Q), float64(h.R)
	return Point{
		X: l.HexSize * (sqrt3*q + sqrt3/2*r),
		Y: l.HexSize * (3.0 / 2.0 * r),
	}
}

// WorldToHex returns the hex containing a world position.
// It is the exact left inverse of HexToWorld for integer coordinates.
func (l Layout) WorldToHex(p Point) HexCoord {
	q := (sqrt3/3*p.X - 1.0/3*p.Y) / l.HexSize
	r := (2.0 / 3 * p.Y) / l.HexSize
	return CubeRound(q, r, -q-r)
}

// GridToWorld returns the world position of a grid cell's center.
func (l Layout) GridToWorld(c GridCell) Point {
	return Point{
		X: (float64(c.X) + 0.5) * l.GridSize,
		Y: (float64(c.Y) + 0.5) * l.GridSize,
	}
}

// WorldToGrid returns the grid cell containing a world position.
func (l Layout) WorldToGrid(p Point) GridCell {
	return GridCell{
		X: int(math.Floor(p.X / l.GridSize)),
		Y: int(math.Floor(p.Y / l.GridSize)),
	}
}

// HexToGrid returns the grid cell under a hex center.
func (l Layout) HexToGrid(h HexCoord) GridCell {
	return l.WorldToGrid(l.HexToWorld(h))
}

// PathToWorld maps a sequence of hexes to their world-space centers.
func (l Layout) PathToWorld(hexes []HexCoord) []Point {
	points := make([]Point, len(hexes))
	for i, h := range hexes {
		points[i] = l.HexToWorld(h)
	}
	return points
}

// GridToHex returns the hex under a grid cell center. The round trip
// HexToGrid → GridToHex is lossy and lands within one hex of the original
// for any layout that passes Validate.
func (l Layout) GridToHex(c GridCell) HexCoord {
	return l.WorldToHex(l.GridToWorld(c))
}
