package biome

import (
	"math"
	"math/rand"
	"testing"

	"github.com/talgya/hexworld/internal/world"
)

const eps = 1e-9

// mapLookup returns fallback everywhere except the listed cells.
func mapLookup(fallback world.Biome, cells map[world.HexCoord]world.Biome) LookupFunc {
	return func(c world.HexCoord) world.Biome {
		if b, ok := cells[c]; ok {
			return b
		}
		return fallback
	}
}

func hc(q, r int) world.HexCoord {
	return world.HexCoord{Q: q, R: r}
}

func TestInfluences_FourForestThreeMountain(t *testing.T) {
	center := hc(0, 0)
	cells := map[world.HexCoord]world.Biome{
		center.Neighbor(0): world.BiomeMountain,
		center.Neighbor(1): world.BiomeMountain,
		center.Neighbor(2): world.BiomeMountain,
	}
	e := NewEngine(mapLookup(world.BiomeForest, cells))

	got := e.Influences(center)
	if len(got) != 2 {
		t.Fatalf("expected 2 influences, got %v", got)
	}
	if got[0].Biome != world.BiomeForest || math.Abs(got[0].Weight-4.0/7) > eps {
		t.Errorf("primary = %+v, want forest 0.571", got[0])
	}
	if got[1].Biome != world.BiomeMountain || math.Abs(got[1].Weight-3.0/7) > eps {
		t.Errorf("secondary = %+v, want mountain 0.429", got[1])
	}
}

func TestInfluences_TruncatesAndRenormalizes(t *testing.T) {
	center := hc(2, -1)
	biomes := []world.Biome{
		world.BiomeForest, world.BiomeMountain, world.BiomeDesert,
		world.BiomeSwamp, world.BiomeTundra, world.BiomeCoast,
	}
	cells := map[world.HexCoord]world.Biome{}
	for i, n := range center.Neighbors() {
		cells[n] = biomes[i]
	}
	e := NewEngine(mapLookup(world.BiomePlains, cells))

	got := e.Influences(center)
	if len(got) != 3 {
		t.Fatalf("expected 3 influences, got %d", len(got))
	}
	// Seven-way tie: self first, then neighbors in direction order.
	want := []world.Biome{world.BiomePlains, world.BiomeForest, world.BiomeMountain}
	for i, inf := range got {
		if inf.Biome != want[i] {
			t.Errorf("influence %d = %s, want %s", i, inf.Biome, want[i])
		}
		if math.Abs(inf.Weight-1.0/3) > eps {
			t.Errorf("influence %d weight %f, want 1/3", i, inf.Weight)
		}
	}
}

func TestInfluences_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	palette := []world.Biome{world.BiomePlains, world.BiomeForest, world.BiomeMountain, world.BiomeSwamp, world.BiomeDesert}
	cells := make(map[world.HexCoord]world.Biome)
	for _, c := range world.HexesInRadius(hc(0, 0), 12) {
		cells[c] = palette[rng.Intn(len(palette))]
	}
	e := NewEngine(mapLookup(world.BiomeOcean, cells))

	for _, c := range world.HexesInRadius(hc(0, 0), 13) {
		infs := e.Influences(c)
		if len(infs) == 0 || len(infs) > 3 {
			t.Fatalf("%v: %d influences", c, len(infs))
		}
		sum := 0.0
		for i, inf := range infs {
			if inf.Weight <= 0 || inf.Weight > 1 {
				t.Fatalf("%v: weight %f out of range", c, inf.Weight)
			}
			if i > 0 && inf.Weight > infs[i-1].Weight {
				t.Fatalf("%v: influences not sorted: %v", c, infs)
			}
			sum += inf.Weight
		}
		if math.Abs(sum-1) > eps {
			t.Fatalf("%v: weights sum to %f", c, sum)
		}
	}
}

func TestTileData_SingleMountainNeighbor(t *testing.T) {
	// The mountain neighbor east of the origin is itself mostly surrounded
	// by mountain, so its own dominant biome is mountain.
	cells := map[world.HexCoord]world.Biome{
		hc(1, 0):  world.BiomeMountain,
		hc(2, 0):  world.BiomeMountain,
		hc(2, -1): world.BiomeMountain,
		hc(1, 1):  world.BiomeMountain,
	}
	e := NewEngine(mapLookup(world.BiomeForest, cells))
	td := e.TileData(hc(0, 0))

	if td.Primary != world.BiomeForest {
		t.Fatalf("primary = %s, want forest", td.Primary)
	}
	if td.Tertiary != world.BiomeNone {
		t.Errorf("unexpected tertiary %s", td.Tertiary)
	}
	sum := 0.0
	for _, inf := range td.Influences {
		sum += inf.Weight
	}
	if math.Abs(sum-1) > eps {
		t.Errorf("influences sum to %f", sum)
	}

	if len(td.Transitions) != 1 {
		t.Fatalf("expected exactly one transition, got %+v", td.Transitions)
	}
	tr := td.Transitions[0]
	if tr.Direction != 0 || tr.Neighbor != world.BiomeMountain {
		t.Errorf("transition = %+v, want direction 0 toward mountain", tr)
	}
	rule := DefaultTable().Lookup(world.BiomeForest, world.BiomeMountain)
	if tr.Style != rule.Style {
		t.Errorf("style = %s, want %s", tr.Style, rule.Style)
	}
	selfW := 0.7*6.0/7 + 0.3*1.0/7
	nbW := 0.7*4.0/7 + 0.3*3.0/7
	want := rule.Compatibility * (1 - math.Abs(selfW-nbW))
	if math.Abs(tr.Blend-want) > eps {
		t.Errorf("blend = %f, want %f", tr.Blend, want)
	}
}

func TestTransitions_UniformHasNone(t *testing.T) {
	e := NewEngine(mapLookup(world.BiomePlains, nil))
	if tr := e.Transitions(hc(5, 5), nil); len(tr) != 0 {
		t.Fatalf("uniform region produced transitions %+v", tr)
	}
}

func TestTransitions_ConfluenceOverride(t *testing.T) {
	cells := map[world.HexCoord]world.Biome{
		hc(1, 0):  world.BiomeForest,
		hc(1, -1): world.BiomeForest,
		hc(0, -1): world.BiomeMountain,
		hc(-1, 0): world.BiomeMountain,
		// Make the east neighbor forest-dominated.
		hc(2, 0):  world.BiomeForest,
		hc(2, -1): world.BiomeForest,
		hc(1, 1):  world.BiomeForest,
	}
	e := NewEngine(mapLookup(world.BiomePlains, cells))

	infs := e.Influences(hc(0, 0))
	if len(infs) != 3 || infs[2].Weight <= 0.15 {
		t.Fatalf("center should have a heavy tertiary, got %v", infs)
	}

	var east *Transition
	trs := e.Transitions(hc(0, 0), infs)
	for i := range trs {
		if trs[i].Direction == 0 {
			east = &trs[i]
		}
	}
	if east == nil {
		t.Fatalf("no transition toward the east neighbor: %+v", trs)
	}
	if east.Style != StyleConfluence {
		t.Errorf("style = %s, want confluence", east.Style)
	}
	// 0.9 * (1 - 0.2) * 1.5 exceeds 1 and is capped.
	if east.Blend != 1 {
		t.Errorf("blend = %f, want 1", east.Blend)
	}
}

func TestTransitionTable_Symmetric(t *testing.T) {
	tbl := DefaultTable()
	for _, a := range []world.Biome{world.BiomePlains, world.BiomeForest, world.BiomeCoast, world.BiomeEnergyNexus} {
		for _, b := range []world.Biome{world.BiomeMountain, world.BiomeOcean, world.BiomeCrystalField} {
			if tbl.Lookup(a, b) != tbl.Lookup(b, a) {
				t.Errorf("lookup(%s,%s) != lookup(%s,%s)", a, b, b, a)
			}
		}
	}
	if r := tbl.Lookup(world.BiomeOcean, world.BiomeTundra); r != DefaultRule {
		t.Errorf("unlisted pair should fall back, got %+v", r)
	}
}

func TestWithTable(t *testing.T) {
	tbl := NewTransitionTable()
	tbl.Set(world.BiomeMountain, world.BiomeForest, StyleFrost, 1)
	cells := map[world.HexCoord]world.Biome{
		hc(1, 0): world.BiomeMountain, hc(2, 0): world.BiomeMountain,
		hc(2, -1): world.BiomeMountain, hc(1, 1): world.BiomeMountain,
	}
	e := NewEngine(mapLookup(world.BiomeForest, cells)).WithTable(tbl)
	trs := e.Transitions(hc(0, 0), nil)
	if len(trs) != 1 || trs[0].Style != StyleFrost {
		t.Fatalf("custom table not used: %+v", trs)
	}
}

func TestCached_MatchesUncached(t *testing.T) {
	m := world.Generate(world.SmallTestConfig())
	plain := NewEngine(m.BiomeAt)
	cached := plain.Cached()
	for _, c := range world.HexesInRadius(hc(0, 0), m.Radius) {
		a := plain.TileData(c)
		b := cached.TileData(c)
		if a.Primary != b.Primary || a.Secondary != b.Secondary || a.Tertiary != b.Tertiary {
			t.Fatalf("%v: cached record differs", c)
		}
		if len(a.Transitions) != len(b.Transitions) {
			t.Fatalf("%v: cached transitions differ", c)
		}
		for i := range a.Transitions {
			if a.Transitions[i] != b.Transitions[i] {
				t.Fatalf("%v: transition %d differs", c, i)
			}
		}
	}
}

func TestCached_ReturnsCopies(t *testing.T) {
	e := NewEngine(mapLookup(world.BiomePlains, nil)).Cached()
	first := e.Influences(hc(0, 0))
	first[0].Weight = 42
	if again := e.Influences(hc(0, 0)); again[0].Weight != 1 {
		t.Fatalf("memo was mutated through a returned slice: %v", again)
	}
}

func TestRegion_OrderAndConcurrency(t *testing.T) {
	m := world.Generate(world.SmallTestConfig())
	e := NewEngine(m.BiomeAt)
	cells := world.HexesInRadius(hc(0, 0), m.Radius)

	tiles := e.Region(cells, m.EnvironmentAt, 4)
	if len(tiles) != len(cells) {
		t.Fatalf("got %d tiles for %d cells", len(tiles), len(cells))
	}
	for i, tile := range tiles {
		if tile.Coord != cells[i] {
			t.Fatalf("tile %d is %v, want %v", i, tile.Coord, cells[i])
		}
		if want := e.DetermineSpecial(cells[i], m.EnvironmentAt(cells[i])); tile.Special != want {
			t.Fatalf("tile %v special %s, want %s", cells[i], tile.Special, want)
		}
	}
}
