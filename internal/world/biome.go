package world

import "fmt"

// Biome identifies the ecosystem assigned to a hex.
type Biome uint8

const (
	BiomeNone          Biome = iota // Sentinel: no biome, or no special biome
	BiomePlains                     // Open grassland
	BiomeForest                     // Temperate woodland
	BiomeMountain                   // High rock
	BiomeCoast                      // Land bordering ocean
	BiomeRiver                      // Freshwater channel
	BiomeDesert                     // Hot and arid
	BiomeSwamp                      // Low and waterlogged
	BiomeTundra                     // Frozen flats
	BiomeOcean                      // Open water; default outside a generated region
	BiomeCrystalField               // Exposed crystal beds
	BiomeCrystalCavern              // Crystal growth beneath high ground
	BiomeEnergyNexus                // Exposed ley energy on hot, dry heights
	BiomeConfluence                 // Emergent: four or more biomes meet
	BiomeHarmonicSpire              // Emergent: crystal under extreme elevation
	BiomeResonanceField             // Emergent: crystal beside an energy nexus
	BiomeVoidBreach                 // Emergent: rare tear in extreme lowland heat
)

var biomeNames = [...]string{
	BiomeNone:           "None",
	BiomePlains:         "Plains",
	BiomeForest:         "Forest",
	BiomeMountain:       "Mountain",
	BiomeCoast:          "Coast",
	BiomeRiver:          "River",
	BiomeDesert:         "Desert",
	BiomeSwamp:          "Swamp",
	BiomeTundra:         "Tundra",
	BiomeOcean:          "Ocean",
	BiomeCrystalField:   "Crystal Field",
	BiomeCrystalCavern:  "Crystal Cavern",
	BiomeEnergyNexus:    "Energy Nexus",
	BiomeConfluence:     "Confluence",
	BiomeHarmonicSpire:  "Harmonic Spire",
	BiomeResonanceField: "Resonance Field",
	BiomeVoidBreach:     "Void Breach",
}

// String returns a human-readable name for a biome.
func (b Biome) String() string {
	if int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return "Unknown"
}

// MarshalText encodes the biome by name in JSON output.
func (b Biome) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes a biome name written by MarshalText.
func (b *Biome) UnmarshalText(text []byte) error {
	parsed, ok := ParseBiome(string(text))
	if !ok {
		return fmt.Errorf("unknown biome %q", text)
	}
	*b = parsed
	return nil
}

// ParseBiome looks up a biome by its display name.
func ParseBiome(name string) (Biome, bool) {
	for i, n := range biomeNames {
		if n == name {
			return Biome(i), true
		}
	}
	return BiomeNone, false
}

// IsCrystal reports whether b is one of the crystal-type biomes.
func (b Biome) IsCrystal() bool {
	return b == BiomeCrystalField || b == BiomeCrystalCavern
}

// IsSpecial reports whether b only arises from emergence rules.
func (b Biome) IsSpecial() bool {
	return b >= BiomeConfluence && b <= BiomeVoidBreach
}

// MoveCost returns the movement cost multiplier for crossing a hex of this
// biome. Every passable biome costs at least 1 so hex distance stays an
// admissible heuristic. Ocean is impassable and reports 0.
func (b Biome) MoveCost() float64 {
	switch b {
	case BiomePlains, BiomeCoast, BiomeDesert:
		return 1
	case BiomeForest, BiomeCrystalField:
		return 1.5
	case BiomeRiver, BiomeTundra:
		return 2
	case BiomeSwamp, BiomeCrystalCavern:
		return 2.5
	case BiomeMountain, BiomeEnergyNexus:
		return 3
	case BiomeOcean, BiomeNone:
		return 0
	default:
		return 2
	}
}
