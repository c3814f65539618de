package biome

import "github.com/talgya/hexworld/internal/world"

// Emergence thresholds.
const (
	confluenceMinBiomes = 4

	nexusMinElevation   = 0.8
	nexusMaxMoisture    = 0.3
	nexusMinTemperature = 0.6

	spireMinElevation = 0.9

	voidMaxElevation   = 0.2
	voidMinTemperature = 0.9
	voidMaxMoisture    = 0.1
	voidGate           = 0.99
)

// DetermineSpecial evaluates the emergence rules for tile c in priority
// order and returns the first special biome that fires, or world.BiomeNone.
func (e *Engine) DetermineSpecial(c world.HexCoord, env world.Environment) world.Biome {
	hood := e.neighborhood(c)

	distinct := make(map[world.Biome]bool, neighborhoodSize)
	crystal, nexus := false, false
	for _, b := range hood {
		distinct[b] = true
		if b.IsCrystal() {
			crystal = true
		}
		if b == world.BiomeEnergyNexus {
			nexus = true
		}
	}

	switch {
	case len(distinct) >= confluenceMinBiomes:
		return world.BiomeConfluence
	case env.Elevation > nexusMinElevation && env.Moisture < nexusMaxMoisture && env.Temperature > nexusMinTemperature:
		return world.BiomeEnergyNexus
	case env.Elevation > spireMinElevation && crystal:
		return world.BiomeHarmonicSpire
	case crystal && nexus:
		return world.BiomeResonanceField
	case env.Elevation < voidMaxElevation && env.Temperature > voidMinTemperature &&
		env.Moisture < voidMaxMoisture && VoidHash(c) > voidGate:
		return world.BiomeVoidBreach
	}
	return world.BiomeNone
}

// VoidHash maps a coordinate to a fixed pseudo-random value in [0, 1).
// It depends on q and r only, so repeated generation agrees tile for tile.
func VoidHash(c world.HexCoord) float64 {
	h := uint64(uint32(int32(c.Q)))*0x9E3779B97F4A7C15 ^ uint64(uint32(int32(c.R)))*0xC2B2AE3D27D4EB4F
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	h *= 0xC4CEB9FE1A85EC53
	h ^= h >> 33
	// Top 53 bits give a uniform float64 in [0, 1).
	return float64(h>>11) / float64(1<<53)
}
