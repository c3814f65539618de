package biome

import (
	"fmt"

	"github.com/talgya/hexworld/internal/world"
)

// Style describes how two adjacent biomes blend along a shared edge.
type Style uint8

const (
	StyleSharp       Style = iota // Hard edge, no blending
	StyleGradual                  // Soft gradient
	StyleRocky                    // Scree and outcrops
	StyleShoreline                // Beach or bank
	StyleMarshy                   // Reeds and standing water
	StyleDune                     // Drifting sand
	StyleFrost                    // Frozen fringe
	StyleCrystalline              // Crystal intrusions
	StyleEnergetic                // Ley discharge
	StyleConfluence               // Three or more biomes meeting
)

var styleNames = [...]string{
	StyleSharp:       "sharp",
	StyleGradual:     "gradual",
	StyleRocky:       "rocky",
	StyleShoreline:   "shoreline",
	StyleMarshy:      "marshy",
	StyleDune:        "dune",
	StyleFrost:       "frost",
	StyleCrystalline: "crystalline",
	StyleEnergetic:   "energetic",
	StyleConfluence:  "confluence",
}

func (s Style) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return "unknown"
}

// MarshalText encodes the style by name in JSON output.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a style name written by MarshalText.
func (s *Style) UnmarshalText(text []byte) error {
	for i, n := range styleNames {
		if n == string(text) {
			*s = Style(i)
			return nil
		}
	}
	return fmt.Errorf("unknown transition style %q", text)
}

// Rule is the blending behavior for one biome pair.
type Rule struct {
	Style         Style
	Compatibility float64 // 0 (never blends) to 1 (blends fully)
}

// DefaultRule applies to pairs missing from a table.
var DefaultRule = Rule{Style: StyleSharp, Compatibility: 0.2}

type pair struct {
	a, b world.Biome
}

func makePair(a, b world.Biome) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// TransitionTable maps unordered biome pairs to blending rules.
type TransitionTable struct {
	rules    map[pair]Rule
	fallback Rule
}

// NewTransitionTable creates an empty table with DefaultRule as fallback.
func NewTransitionTable() *TransitionTable {
	return &TransitionTable{
		rules:    make(map[pair]Rule),
		fallback: DefaultRule,
	}
}

// Set registers the rule for a pair. Order of a and b does not matter.
func (t *TransitionTable) Set(a, b world.Biome, style Style, compatibility float64) {
	t.rules[makePair(a, b)] = Rule{Style: style, Compatibility: compatibility}
}

// Lookup returns the rule for a pair, or the fallback if none is registered.
func (t *TransitionTable) Lookup(a, b world.Biome) Rule {
	if r, ok := t.rules[makePair(a, b)]; ok {
		return r
	}
	return t.fallback
}

// Len returns the number of registered pairs.
func (t *TransitionTable) Len() int {
	return len(t.rules)
}

// DefaultTable returns the transition rules for the stock biome set.
func DefaultTable() *TransitionTable {
	t := NewTransitionTable()

	t.Set(world.BiomePlains, world.BiomeForest, StyleGradual, 0.9)
	t.Set(world.BiomeForest, world.BiomeMountain, StyleRocky, 0.6)
	t.Set(world.BiomePlains, world.BiomeMountain, StyleRocky, 0.5)
	t.Set(world.BiomeDesert, world.BiomeMountain, StyleRocky, 0.4)

	t.Set(world.BiomeCoast, world.BiomeOcean, StyleShoreline, 0.8)
	t.Set(world.BiomeRiver, world.BiomeOcean, StyleShoreline, 0.7)
	t.Set(world.BiomeCoast, world.BiomePlains, StyleGradual, 0.8)
	t.Set(world.BiomeCoast, world.BiomeForest, StyleGradual, 0.7)
	t.Set(world.BiomeRiver, world.BiomePlains, StyleGradual, 0.85)
	t.Set(world.BiomeRiver, world.BiomeForest, StyleGradual, 0.8)

	t.Set(world.BiomeSwamp, world.BiomeForest, StyleMarshy, 0.75)
	t.Set(world.BiomeSwamp, world.BiomePlains, StyleMarshy, 0.7)
	t.Set(world.BiomeSwamp, world.BiomeRiver, StyleMarshy, 0.85)
	t.Set(world.BiomeSwamp, world.BiomeCoast, StyleMarshy, 0.6)

	t.Set(world.BiomeDesert, world.BiomePlains, StyleDune, 0.7)
	t.Set(world.BiomeDesert, world.BiomeCoast, StyleDune, 0.6)

	t.Set(world.BiomeTundra, world.BiomePlains, StyleFrost, 0.6)
	t.Set(world.BiomeTundra, world.BiomeForest, StyleFrost, 0.5)
	t.Set(world.BiomeTundra, world.BiomeMountain, StyleFrost, 0.7)

	t.Set(world.BiomeCrystalField, world.BiomeMountain, StyleCrystalline, 0.6)
	t.Set(world.BiomeCrystalField, world.BiomePlains, StyleCrystalline, 0.5)
	t.Set(world.BiomeCrystalCavern, world.BiomeMountain, StyleCrystalline, 0.8)
	t.Set(world.BiomeCrystalField, world.BiomeCrystalCavern, StyleCrystalline, 0.9)

	t.Set(world.BiomeEnergyNexus, world.BiomeMountain, StyleEnergetic, 0.6)
	t.Set(world.BiomeEnergyNexus, world.BiomeDesert, StyleEnergetic, 0.5)
	t.Set(world.BiomeEnergyNexus, world.BiomeCrystalField, StyleEnergetic, 0.7)
	t.Set(world.BiomeEnergyNexus, world.BiomeCrystalCavern, StyleEnergetic, 0.7)

	return t
}
