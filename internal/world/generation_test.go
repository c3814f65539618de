package world

import "testing"

func TestGenerate_FillsRadius(t *testing.T) {
	cfg := SmallTestConfig()
	m := Generate(cfg)
	want := 1 + 3*cfg.Radius*(cfg.Radius+1)
	if m.HexCount() != want {
		t.Fatalf("expected %d hexes, got %d", want, m.HexCount())
	}
	for coord, hex := range m.Hexes {
		if !m.InBounds(coord) {
			t.Fatalf("hex %v outside radius %d", coord, cfg.Radius)
		}
		if hex.Biome == BiomeNone || hex.Biome.IsSpecial() {
			t.Fatalf("hex %v has non-base biome %s", coord, hex.Biome)
		}
		e := hex.Env
		if e.Elevation < 0 || e.Elevation > 1 || e.Moisture < 0 || e.Moisture > 1 || e.Temperature < 0 || e.Temperature > 1 {
			t.Fatalf("hex %v environment out of range: %+v", coord, e)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a := Generate(cfg)
	b := Generate(cfg)
	for coord, ha := range a.Hexes {
		hb := b.Get(coord)
		if hb == nil || ha.Biome != hb.Biome || ha.Env != hb.Env {
			t.Fatalf("hex %v differs between runs with seed %d", coord, cfg.Seed)
		}
	}
}

func TestMap_Contracts(t *testing.T) {
	m := Generate(SmallTestConfig())
	outside := HexCoord{Q: 100, R: -3}
	if m.BiomeAt(outside) != BiomeOcean {
		t.Errorf("outside region should be ocean, got %s", m.BiomeAt(outside))
	}
	if !m.IsObstacle(outside) {
		t.Error("outside region should be an obstacle")
	}
	for coord := range m.Hexes {
		if m.IsObstacle(coord) {
			continue
		}
		if c := m.TerrainCost(coord); c < 1 {
			t.Fatalf("passable hex %v has cost %f < 1", coord, c)
		}
	}
}

func TestBiome_Names(t *testing.T) {
	if BiomeForest.String() != "Forest" {
		t.Errorf("got %q", BiomeForest.String())
	}
	if Biome(200).String() != "Unknown" {
		t.Errorf("got %q", Biome(200).String())
	}
	if !BiomeCrystalCavern.IsCrystal() || BiomeEnergyNexus.IsCrystal() {
		t.Error("crystal classification wrong")
	}
}

func TestGenerate_ZeroSeedIsRecorded(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 0
	a := Generate(cfg)
	if a.Seed == 0 {
		t.Fatal("random seed not recorded on the map")
	}

	cfg.Seed = a.Seed
	b := Generate(cfg)
	if b.Seed != a.Seed {
		t.Fatalf("explicit seed %d reported as %d", a.Seed, b.Seed)
	}
	for coord, ha := range a.Hexes {
		hb := b.Get(coord)
		if hb == nil || ha.Biome != hb.Biome || ha.Env != hb.Env {
			t.Fatalf("hex %v differs when regenerating from recorded seed %d", coord, a.Seed)
		}
	}
}

func TestResolveSeed(t *testing.T) {
	if ResolveSeed(17) != 17 {
		t.Error("non-zero seed should pass through")
	}
	if ResolveSeed(0) == 0 {
		t.Error("zero seed should be replaced")
	}
}
