// Command hexworld generates a hex region, evaluates its biome transitions,
// and optionally stores the result and serves it over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexworld/internal/api"
	"github.com/talgya/hexworld/internal/biome"
	"github.com/talgya/hexworld/internal/config"
	"github.com/talgya/hexworld/internal/logging"
	"github.com/talgya/hexworld/internal/pathfind"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/world"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (default ./hexworld.yaml if present)")
	seed := flag.Int64("seed", 0, "generation seed (overrides config)")
	radius := flag.Int("radius", 0, "region radius in hexes (overrides config)")
	dbPath := flag.String("db", "", "SQLite path for storing the pass (overrides config)")
	serve := flag.Bool("serve", false, "serve the region over HTTP until interrupted")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	debug := flag.Bool("debug", false, "debug logging")
	writeConfig := flag.String("write-config", "", "write the effective config to this path and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Generation.Seed = *seed
		case "radius":
			cfg.Generation.Radius = *radius
		case "db":
			cfg.Storage.Path = *dbPath
		case "serve":
			cfg.API.Enabled = *serve
		case "port":
			cfg.API.Port = *port
		case "debug":
			if *debug {
				cfg.Logging.Level = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if *writeConfig != "" {
		if err := cfg.SaveTo(*writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", *writeConfig)
		return
	}

	logCloser := logging.Init(cfg.Logging)
	defer logCloser.Close()

	// ── Region ────────────────────────────────────────────────────────
	slog.Info("generating region...", "seed", cfg.Generation.Seed, "radius", cfg.Generation.Radius)
	start := time.Now()
	worldMap := world.Generate(cfg.Generation)
	if cfg.Generation.Seed == 0 {
		slog.Info("random seed chosen", "seed", worldMap.Seed)
	}

	counts := world.BiomeCounts(worldMap)
	logCounts("biome", counts, worldMap.HexCount())

	// ── Biome pass ────────────────────────────────────────────────────
	engine := biome.NewEngine(worldMap.BiomeAt).Cached()
	cells := world.HexesInRadius(world.HexCoord{}, worldMap.Radius)
	tiles := engine.Region(cells, worldMap.EnvironmentAt, 0)

	specials := make(map[world.Biome]int)
	transitions := 0
	for _, t := range tiles {
		if t.Special != world.BiomeNone {
			specials[t.Special]++
		}
		transitions += len(t.Transitions)
	}
	logCounts("special", specials, len(tiles))
	slog.Info("biome pass complete",
		"tiles", humanize.Comma(int64(len(tiles))),
		"transitions", humanize.Comma(int64(transitions)),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	// ── Sample route ──────────────────────────────────────────────────
	finder := pathfind.NewFinder(cfg.Layout)
	finder.MaxExpansions = cfg.Pathfinding.MaxExpansions
	landmarks := world.PlaceLandmarks(worldMap, 8, max(3, worldMap.Radius/3), worldMap.Seed)
	for _, l := range landmarks {
		slog.Debug("landmark", "name", l.Name, "coord", l.Coord, "biome", worldMap.BiomeAt(l.Coord))
	}
	sampleRoute(finder, worldMap, landmarks, cfg.Pathfinding.Smooth)

	// ── Storage ───────────────────────────────────────────────────────
	var db *persistence.DB
	var passID string
	if cfg.Storage.Path != "" {
		db, err = openStore(cfg.Storage.Path)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if prev, err := db.GetMeta("last_pass"); err == nil {
			prevSeed, _ := db.GetMeta("last_seed")
			slog.Info("previous pass", "pass", prev, "seed", prevSeed)
		} else if !errors.Is(err, persistence.ErrNotFound) {
			slog.Warn("failed to read last pass", "error", err)
		}

		passID, err = db.SavePass(worldMap.Seed, cfg.Layout, worldMap, tiles)
		if err != nil {
			slog.Error("failed to save pass", "error", err)
			os.Exit(1)
		}
		stored, err := db.SpecialCounts(passID)
		if err != nil {
			slog.Warn("failed to read back special counts", "error", err)
		} else if sumCounts(stored) != sumCounts(specials) {
			slog.Warn("stored special count mismatch", "stored", sumCounts(stored), "computed", sumCounts(specials))
		} else {
			slog.Info("pass verified", "pass", passID, "specials", sumCounts(stored))
		}
		if err := db.SaveMeta("last_pass", passID); err != nil {
			slog.Warn("failed to record last pass", "error", err)
		}
		if err := db.SaveMeta("last_seed", strconv.FormatInt(worldMap.Seed, 10)); err != nil {
			slog.Warn("failed to record last seed", "error", err)
		}
	}

	fmt.Printf("\nRegion ready (seed %d): %s hexes, %s transitions, %d emergent sites.\n",
		worldMap.Seed, humanize.Comma(int64(worldMap.HexCount())), humanize.Comma(int64(transitions)), sumCounts(specials))
	if passID != "" {
		fmt.Printf("Stored as pass %s in %s\n", passID, cfg.Storage.Path)
	}

	if !cfg.API.Enabled {
		return
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Map:            worldMap,
		Engine:         engine,
		Finder:         finder,
		DB:             db,
		PassID:         passID,
		Landmarks:      landmarks,
		Seed:           worldMap.Seed,
		Port:           cfg.API.Port,
		PathRateLimit:  cfg.API.PathRateLimit,
		PathRateWindow: cfg.API.PathRateWindow,
	}
	apiServer.Start()
	fmt.Printf("API: http://localhost:%d/api/v1/status (Ctrl+C to stop)\n", cfg.API.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

// openStore creates the database's parent directory if needed and opens it.
func openStore(path string) (*persistence.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}
	return persistence.Open(path)
}

func logCounts(kind string, counts map[world.Biome]int, total int) {
	biomes := make([]world.Biome, 0, len(counts))
	for b := range counts {
		biomes = append(biomes, b)
	}
	sort.Slice(biomes, func(i, j int) bool { return counts[biomes[i]] > counts[biomes[j]] })
	for _, b := range biomes {
		share := 100 * float64(counts[b]) / float64(total)
		slog.Info(kind, "type", b, "count", humanize.Comma(int64(counts[b])), "share", humanize.Ftoa(roundTo(share, 1))+"%")
	}
}

// sampleRoute routes between the two best landmarks, or across the region
// west to east when fewer than two were placed.
func sampleRoute(finder *pathfind.Finder, m *world.Map, landmarks []world.Landmark, smooth bool) {
	from := world.HexCoord{Q: -m.Radius / 2, R: 0}
	to := world.HexCoord{Q: m.Radius / 2, R: 0}
	if len(landmarks) >= 2 {
		from, to = landmarks[0].Coord, landmarks[1].Coord
	}
	blocked := pathfind.ObstacleFunc(m.IsObstacle)

	path, found := finder.FindPath(from, to, m.TerrainCost, blocked)
	if !found {
		slog.Info("sample route not found", "from", from, "to", to)
		return
	}
	attrs := []any{
		"from", from, "to", to,
		"steps", len(path) - 1,
		"cost", humanize.Ftoa(roundTo(path.Cost(m.TerrainCost), 2)),
	}
	if smooth {
		attrs = append(attrs, "waypoints", len(pathfind.SmoothPath(path, blocked)))
	}
	slog.Info("sample route", attrs...)
}

func roundTo(v float64, places int) float64 {
	p := 1.0
	for i := 0; i < places; i++ {
		p *= 10
	}
	return float64(int64(v*p+0.5)) / p
}

func sumCounts(counts map[world.Biome]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
