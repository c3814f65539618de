package biome

import (
	"runtime"
	"sync"

	"github.com/talgya/hexworld/internal/world"
)

// EnvironmentFunc returns the environmental scalars of a hex.
type EnvironmentFunc func(world.HexCoord) world.Environment

// Tile is a tile's biome record plus any emergent special biome.
type Tile struct {
	TileData
	Special world.Biome `json:"special,omitempty"`
}

// Evaluate returns the full record for one tile.
func (e *Engine) Evaluate(c world.HexCoord, env EnvironmentFunc) Tile {
	t := Tile{TileData: e.TileData(c)}
	if env != nil {
		t.Special = e.DetermineSpecial(c, env(c))
	}
	return t
}

// Region evaluates every cell in one pass, sharing a memo across workers.
// Results are returned in the order of cells. workers <= 0 uses GOMAXPROCS.
func (e *Engine) Region(cells []world.HexCoord, env EnvironmentFunc, workers int) []Tile {
	pass := e
	if pass.memo == nil {
		pass = e.Cached()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]Tile, len(cells))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = pass.Evaluate(cells[i], env)
			}
		}()
	}
	for i := range cells {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}
