// Landmark placement: finds well-spaced, reachable hexes worth routing between.
package world

import (
	"math/rand"
	"sort"
)

// Landmark is a named site picked for sample routes and map labels.
type Landmark struct {
	Coord HexCoord `json:"coord"`
	Score float64  `json:"score"`
	Name  string   `json:"name"`
}

// PlaceLandmarks picks up to n passable hexes, best-scored first, no two
// closer than minDist. Placement and names are deterministic for a seed.
func PlaceLandmarks(m *Map, n, minDist int, seed int64) []Landmark {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed + 200))

	type scored struct {
		coord HexCoord
		score float64
	}
	var candidates []scored
	for coord, hex := range m.Hexes {
		if s := landmarkScore(m, coord, hex); s > 0 {
			candidates = append(candidates, scored{coord, s})
		}
	}

	// Map iteration order is random; break ties by coordinate.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.coord.Q != b.coord.Q {
			return a.coord.Q < b.coord.Q
		}
		return a.coord.R < b.coord.R
	})

	var out []Landmark
	for _, c := range candidates {
		if len(out) >= n {
			break
		}
		if tooClose(c.coord, out, minDist) {
			continue
		}
		out = append(out, Landmark{Coord: c.coord, Score: c.score})
	}

	names := generateNames(rng, len(out))
	for i := range out {
		out[i].Name = names[i]
	}
	return out
}

// landmarkScore prefers passable hexes where several biomes meet.
// Impassable hexes score zero.
func landmarkScore(m *Map, coord HexCoord, hex *Hex) float64 {
	cost := hex.Biome.MoveCost()
	if cost == 0 {
		return 0
	}
	score := 3.0 / cost

	kinds := make(map[Biome]bool)
	open := 0
	for _, nc := range coord.Neighbors() {
		b := m.BiomeAt(nc)
		kinds[b] = true
		if b.MoveCost() > 0 {
			open++
		}
	}
	score += float64(len(kinds)) * 0.3
	score += float64(open) * 0.2

	if hex.Biome.IsCrystal() {
		score += 1.0
	}
	return score
}

func tooClose(coord HexCoord, existing []Landmark, minDist int) bool {
	for _, l := range existing {
		if Distance(coord, l.Coord) < minDist {
			return true
		}
	}
	return false
}

// generateNames produces procedural place names by combining syllables.
func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Iron", "Green", "Ash", "Stone", "Cross", "Black", "Silver",
		"Red", "White", "Bright", "High", "Low", "Far", "Deep",
		"Gold", "Frost", "Storm", "Thorn", "Elm", "Glass", "Amber",
	}
	suffixes := []string{
		"ford", "hollow", "gate", "crest", "vale", "reach", "spire",
		"moor", "ridge", "watch", "fall", "point", "cairn", "well",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)
	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if used[name] {
			if len(used) >= len(prefixes)*len(suffixes) {
				name += string(rune('A' + len(names)%26))
			} else {
				continue
			}
		}
		used[name] = true
		names = append(names, name)
	}
	return names
}
