// Region generation using layered simplex noise.
// Samples elevation, moisture, and temperature fields, then derives a base biome per hex.
package world

import (
	"log/slog"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds region generation parameters.
type GenConfig struct {
	Radius        int     `yaml:"radius"`         // Hex grid radius (~22 for ~2000 hexes)
	Seed          int64   `yaml:"seed"`           // Random seed (0 = random)
	SeaLevel      float64 `yaml:"sea_level"`      // Elevation threshold for ocean (0.0–1.0)
	MountainLevel float64 `yaml:"mountain_level"` // Elevation threshold for mountains (0.0–1.0)
	CrystalLevel  float64 `yaml:"crystal_level"`  // Crystal noise threshold (0.0–1.0)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:        22,
		Seed:          0,
		SeaLevel:      0.25,
		MountainLevel: 0.72,
		CrystalLevel:  0.78,
	}
}

// SmallTestConfig returns a tiny region for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:        5,
		Seed:          42,
		SeaLevel:      0.30,
		MountainLevel: 0.75,
		CrystalLevel:  0.78,
	}
}

// ResolveSeed returns seed, or a fresh random non-zero seed when seed is 0.
func ResolveSeed(seed int64) int64 {
	for seed == 0 {
		seed = rand.Int63()
	}
	return seed
}

// Generate creates a complete region map with biomes and environment fields.
// A zero seed is replaced by a random one, recorded in Map.Seed; generating
// again with that seed yields the same map.
func Generate(cfg GenConfig) *Map {
	seed := ResolveSeed(cfg.Seed)

	// Independent noise generators per layer.
	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)
	tempNoise := opensimplex.NewNormalized(seed + 2)
	crystalNoise := opensimplex.NewNormalized(seed + 3)

	m := NewMap(cfg.Radius)
	m.Seed = seed

	for _, coord := range HexesInRadius(HexCoord{}, cfg.Radius) {
		// Hex axial → cartesian: x = q + r*0.5, y = r * sqrt(3)/2
		x := float64(coord.Q) + float64(coord.R)*0.5
		y := float64(coord.R) * sqrt3 / 2.0

		elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
		moist := octaveNoise(moistNoise, x, y, 3, 0.06, 0.5)
		temp := octaveNoise(tempNoise, x, y, 3, 0.05, 0.5)
		crystal := octaveNoise(crystalNoise, x, y, 2, 0.15, 0.5)

		// Continental shaping: reduce elevation near edges to create an ocean border.
		radius := math.Max(float64(cfg.Radius), 1)
		distFromCenter := math.Sqrt(x*x+y*y) / radius
		edgeFalloff := 1.0 - math.Pow(distFromCenter, 3.5)
		if edgeFalloff < 0 {
			edgeFalloff = 0
		}
		elev *= edgeFalloff

		// Temperature falls with elevation and distance from the equator.
		temp = temp*0.6 + (1.0-math.Abs(y)/radius)*0.3 + (1.0-elev)*0.1

		env := Environment{
			Elevation:   clamp01(elev),
			Moisture:    clamp01(moist),
			Temperature: clamp01(temp),
		}

		m.Set(&Hex{
			Coord: coord,
			Biome: deriveBiome(env, crystal, cfg),
			Env:   env,
		})
	}

	// Post-pass: land hexes adjacent to ocean become coast.
	markCoastalHexes(m)

	// Post-pass: rivers flowing from high elevation to the sea.
	placeRivers(m, seed)

	slog.Debug("region generated", "seed", seed, "radius", cfg.Radius, "hexes", m.HexCount())
	return m
}

// deriveBiome determines the base biome from environmental parameters.
func deriveBiome(env Environment, crystal float64, cfg GenConfig) Biome {
	elev, moist, temp := env.Elevation, env.Moisture, env.Temperature
	if elev < cfg.SeaLevel {
		return BiomeOcean
	}
	if elev > cfg.MountainLevel {
		if crystal > cfg.CrystalLevel {
			return BiomeCrystalCavern
		}
		if moist < 0.3 && temp > 0.6 {
			return BiomeEnergyNexus
		}
		return BiomeMountain
	}
	if crystal > cfg.CrystalLevel {
		return BiomeCrystalField
	}
	if temp < 0.25 {
		return BiomeTundra
	}
	if moist < 0.25 && temp > 0.5 {
		return BiomeDesert
	}
	if moist > 0.7 && elev < 0.45 {
		return BiomeSwamp
	}
	if moist > 0.45 && elev > 0.45 {
		return BiomeForest
	}
	return BiomePlains
}

// markCoastalHexes converts low land hexes adjacent to ocean into coast.
func markCoastalHexes(m *Map) {
	var toMark []HexCoord

	for coord, hex := range m.Hexes {
		if hex.Biome == BiomeOcean {
			continue
		}
		for _, neighbor := range coord.Neighbors() {
			nh := m.Get(neighbor)
			if nh != nil && nh.Biome == BiomeOcean {
				toMark = append(toMark, coord)
				break
			}
		}
	}

	for _, coord := range toMark {
		hex := m.Get(coord)
		if (hex.Biome == BiomePlains || hex.Biome == BiomeForest) && hex.Env.Elevation < 0.5 {
			hex.Biome = BiomeCoast
		}
	}
}

// placeRivers traces paths from high elevation down to the sea.
func placeRivers(m *Map, seed int64) {
	rng := rand.New(rand.NewSource(seed + 100))

	// Sources are collected in ring order so the shuffle below is reproducible.
	var sources []HexCoord
	for _, coord := range HexesInRadius(HexCoord{}, m.Radius) {
		hex := m.Get(coord)
		if hex != nil && hex.Env.Elevation > 0.65 && hex.Biome != BiomeOcean {
			sources = append(sources, coord)
		}
	}

	numRivers := len(sources) / 8
	if numRivers < 2 {
		numRivers = 2
	}
	if numRivers > 10 {
		numRivers = 10
	}

	rng.Shuffle(len(sources), func(i, j int) {
		sources[i], sources[j] = sources[j], sources[i]
	})
	if len(sources) > numRivers {
		sources = sources[:numRivers]
	}

	for _, start := range sources {
		traceRiver(m, start)
	}
}

// traceRiver follows the steepest descent from a source hex until reaching
// ocean or running out of downhill path.
func traceRiver(m *Map, start HexCoord) {
	current := start
	visited := make(map[HexCoord]bool)
	maxSteps := 50

	for step := 0; step < maxSteps; step++ {
		visited[current] = true
		hex := m.Get(current)
		if hex == nil || hex.Biome == BiomeOcean {
			break
		}

		switch hex.Biome {
		case BiomeMountain, BiomeCoast, BiomeCrystalCavern, BiomeEnergyNexus:
		default:
			hex.Biome = BiomeRiver
		}

		var best *HexCoord
		bestElev := hex.Env.Elevation
		for _, nc := range current.Neighbors() {
			if visited[nc] {
				continue
			}
			nh := m.Get(nc)
			if nh == nil {
				continue
			}
			if nh.Env.Elevation < bestElev {
				bestElev = nh.Env.Elevation
				c := nc
				best = &c
			}
		}

		if best == nil {
			break // No downhill path, river ends
		}
		current = *best
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func clamp01[T ~float64 | ~float32](v T) T {
	return min(max(v, 0), 1)
}
