package world

import "fmt"

// Environment holds the scalar fields sampled for one hex, each in [0, 1].
type Environment struct {
	Elevation   float64 `json:"elevation"`   // 0.0 (sea level) to 1.0 (peak)
	Moisture    float64 `json:"moisture"`    // 0.0 (arid) to 1.0 (saturated)
	Temperature float64 `json:"temperature"` // 0.0 (frozen) to 1.0 (hot)
}

// Hex represents a single tile on the region map.
type Hex struct {
	Coord HexCoord    `json:"coord"`
	Biome Biome       `json:"biome"`
	Env   Environment `json:"env"`
}

// Map holds a generated hex region.
// Reads are safe from multiple goroutines once generation has finished.
type Map struct {
	Hexes  map[HexCoord]*Hex `json:"-"` // All hexes keyed by coordinate
	Radius int               `json:"radius"`
	Seed   int64             `json:"seed"` // Seed the map was generated from; 0 for hand-built maps
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int) *Map {
	return &Map{
		Hexes:  make(map[HexCoord]*Hex),
		Radius: radius,
	}
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	return m.Hexes[coord]
}

// Set places a hex at the given coordinate.
func (m *Map) Set(hex *Hex) {
	m.Hexes[hex.Coord] = hex
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	return Distance(coord, HexCoord{}) <= m.Radius
}

// BiomeAt returns the biome of a hex. It is total: coordinates outside the
// generated region report ocean.
func (m *Map) BiomeAt(coord HexCoord) Biome {
	if h := m.Get(coord); h != nil {
		return h.Biome
	}
	return BiomeOcean
}

// EnvironmentAt returns the sampled environment of a hex, or the zero value
// outside the region.
func (m *Map) EnvironmentAt(coord HexCoord) Environment {
	if h := m.Get(coord); h != nil {
		return h.Env
	}
	return Environment{}
}

// IsObstacle reports whether a hex cannot be entered on foot.
func (m *Map) IsObstacle(coord HexCoord) bool {
	return m.BiomeAt(coord).MoveCost() == 0
}

// TerrainCost returns the movement cost of entering a hex.
func (m *Map) TerrainCost(coord HexCoord) float64 {
	return m.BiomeAt(coord).MoveCost()
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, hexes=%d)", m.Radius, m.HexCount())
}

// BiomeCounts returns a summary of biome distribution.
func BiomeCounts(m *Map) map[Biome]int {
	counts := make(map[Biome]int)
	for _, hex := range m.Hexes {
		counts[hex.Biome]++
	}
	return counts
}
