// Package api provides a read-only HTTP API for querying a generated region.
// All endpoints are GET and return JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/hexworld/internal/biome"
	"github.com/talgya/hexworld/internal/pathfind"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/world"
)

// maxRingRadius bounds ring queries so a single request stays small.
const maxRingRadius = 256

// Server serves a generated region over HTTP.
type Server struct {
	Map    *world.Map
	Engine *biome.Engine
	Finder *pathfind.Finder
	DB     *persistence.DB // Optional. Nil when running without storage.
	PassID string          // ID of the stored pass for this region, if any.
	Seed   int64
	Port   int

	Landmarks []world.Landmark

	// Path queries allowed per window per client. Zero disables limiting.
	PathRateLimit  int
	PathRateWindow time.Duration

	limiter *RateLimiter
	srv     *http.Server
}

// Handler builds the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/tile/", s.handleTile)
	mux.HandleFunc("/api/v1/ring", s.handleRing)
	mux.HandleFunc("/api/v1/passes", s.handlePasses)
	mux.HandleFunc("/api/v1/passes/", s.handlePass)
	mux.HandleFunc("/api/v1/landmarks", s.handleLandmarks)

	if s.PathRateLimit > 0 {
		if s.limiter == nil {
			s.limiter = NewRateLimiter(s.PathRateLimit, s.PathRateWindow)
		}
		mux.HandleFunc("/api/v1/path", RateLimitMiddleware(s.limiter, s.handlePath))
	} else {
		mux.HandleFunc("/api/v1/path", s.handlePath)
	}

	return corsMiddleware(getOnly(mux))
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "pass", s.PassID)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the server and its rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodOptions {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	type biomeCount struct {
		Biome world.Biome `json:"biome"`
		Count int         `json:"count"`
	}
	counts := world.BiomeCounts(s.Map)
	biomes := make([]biomeCount, 0, len(counts))
	for b, n := range counts {
		biomes = append(biomes, biomeCount{Biome: b, Count: n})
	}
	sort.Slice(biomes, func(i, j int) bool {
		if biomes[i].Count != biomes[j].Count {
			return biomes[i].Count > biomes[j].Count
		}
		return biomes[i].Biome < biomes[j].Biome
	})

	writeJSON(w, map[string]any{
		"seed":      s.Seed,
		"radius":    s.Map.Radius,
		"hex_count": s.Map.HexCount(),
		"layout":    s.Finder.Layout,
		"pass_id":   s.PassID,
		"biomes":    biomes,
	})
}

// handleTile returns the biome record for one hex: GET /api/v1/tile/:q/:r.
func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// api/v1/tile/:q/:r → parts[3]=q parts[4]=r
	if len(parts) != 5 {
		writeError(w, http.StatusBadRequest, "usage: /api/v1/tile/:q/:r")
		return
	}
	q, err1 := strconv.Atoi(parts[3])
	rr, err2 := strconv.Atoi(parts[4])
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid coordinates")
		return
	}

	coord := world.HexCoord{Q: q, R: rr}
	if !s.Map.InBounds(coord) {
		writeError(w, http.StatusNotFound, "hex not found")
		return
	}

	tile := s.Engine.Evaluate(coord, s.Map.EnvironmentAt)
	writeJSON(w, map[string]any{
		"tile":        tile,
		"base":        s.Map.BiomeAt(coord),
		"environment": s.Map.EnvironmentAt(coord),
		"world":       s.Finder.Layout.HexToWorld(coord),
		"grid":        s.Finder.Layout.HexToGrid(coord),
		"move_cost":   s.Map.TerrainCost(coord),
	})
}

// handlePath runs A* between two hexes:
// GET /api/v1/path?from=q,r&to=q,r[&smooth=1][&world=1].
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := parseCoord(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from: "+err.Error())
		return
	}
	to, err := parseCoord(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to: "+err.Error())
		return
	}

	blocked := pathfind.ObstacleFunc(s.Map.IsObstacle)
	path, found := s.Finder.FindPath(from, to, s.Map.TerrainCost, blocked)
	if !found {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"found": false,
			"from":  from,
			"to":    to,
		})
		return
	}

	resp := map[string]any{
		"found": true,
		"steps": len(path) - 1,
		"cost":  path.Cost(s.Map.TerrainCost),
		"path":  path,
	}
	if truthy(query.Get("smooth")) {
		smoothed := pathfind.SmoothPath(path, blocked)
		resp["smoothed"] = smoothed
		path = smoothed
	}
	if truthy(query.Get("world")) {
		resp["world"] = s.Finder.Layout.PathToWorld(path)
	}
	writeJSON(w, resp)
}

// handleRing lists the hexes at an exact distance: GET /api/v1/ring?q=&r=&radius=.
func (s *Server) handleRing(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q, err1 := strconv.Atoi(query.Get("q"))
	rr, err2 := strconv.Atoi(query.Get("r"))
	radius, err3 := strconv.Atoi(query.Get("radius"))
	if err1 != nil || err2 != nil || err3 != nil {
		writeError(w, http.StatusBadRequest, "usage: /api/v1/ring?q=&r=&radius=")
		return
	}
	if radius < 0 || radius > maxRingRadius {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("radius must be in [0, %d]", maxRingRadius))
		return
	}

	center := world.HexCoord{Q: q, R: rr}
	ring := world.Ring(center, radius)
	writeJSON(w, map[string]any{
		"center": center,
		"radius": radius,
		"count":  len(ring),
		"hexes":  ring,
	})
}

func (s *Server) handleLandmarks(w http.ResponseWriter, r *http.Request) {
	if s.Landmarks == nil {
		writeJSON(w, []world.Landmark{})
		return
	}
	writeJSON(w, s.Landmarks)
}

// handlePasses lists stored generation passes, newest first.
func (s *Server) handlePasses(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusNotFound, "storage disabled")
		return
	}
	limit := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	passes, err := s.DB.Passes(limit)
	if err != nil {
		slog.Error("list passes", "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	writeJSON(w, passes)
}

// handlePass reads one stored pass. The id "latest" names the newest pass.
//
//	GET /api/v1/passes/:id
//	GET /api/v1/passes/:id/specials
//	GET /api/v1/passes/:id/tiles
//	GET /api/v1/passes/:id/tiles/:q/:r
func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusNotFound, "storage disabled")
		return
	}
	// api/v1/passes/:id[/...] → parts[3]=id
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 4 || parts[3] == "" {
		writeError(w, http.StatusBadRequest, "usage: /api/v1/passes/:id")
		return
	}

	passID := parts[3]
	if passID == "latest" {
		latest, err := s.DB.LatestPass()
		if errors.Is(err, persistence.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no stored passes")
			return
		}
		if err != nil {
			s.storageError(w, "latest pass", err)
			return
		}
		if len(parts) == 4 {
			writeJSON(w, latest)
			return
		}
		passID = latest.ID
	}

	switch {
	case len(parts) == 4:
		tiles, err := s.DB.Tiles(passID)
		if err != nil {
			s.storageError(w, "read tiles", err)
			return
		}
		if len(tiles) == 0 {
			writeError(w, http.StatusNotFound, "pass not found")
			return
		}
		writeJSON(w, map[string]any{"id": passID, "tile_count": len(tiles)})

	case len(parts) == 5 && parts[4] == "specials":
		counts, err := s.DB.SpecialCounts(passID)
		if err != nil {
			s.storageError(w, "special counts", err)
			return
		}
		writeJSON(w, map[string]any{"id": passID, "specials": counts})

	case len(parts) == 5 && parts[4] == "tiles":
		tiles, err := s.DB.Tiles(passID)
		if err != nil {
			s.storageError(w, "read tiles", err)
			return
		}
		if len(tiles) == 0 {
			writeError(w, http.StatusNotFound, "pass not found")
			return
		}
		writeJSON(w, tiles)

	case len(parts) == 7 && parts[4] == "tiles":
		q, err1 := strconv.Atoi(parts[5])
		rr, err2 := strconv.Atoi(parts[6])
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "invalid coordinates")
			return
		}
		tile, err := s.DB.Tile(passID, world.HexCoord{Q: q, R: rr})
		if errors.Is(err, persistence.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tile not found")
			return
		}
		if err != nil {
			s.storageError(w, "read tile", err)
			return
		}
		writeJSON(w, tile)

	default:
		writeError(w, http.StatusNotFound, "unknown pass resource")
	}
}

func (s *Server) storageError(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, "storage error")
}

func parseCoord(v string) (world.HexCoord, error) {
	qs, rs, ok := strings.Cut(v, ",")
	if !ok {
		return world.HexCoord{}, fmt.Errorf("want q,r, got %q", v)
	}
	q, err := strconv.Atoi(strings.TrimSpace(qs))
	if err != nil {
		return world.HexCoord{}, fmt.Errorf("bad q: %w", err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return world.HexCoord{}, fmt.Errorf("bad r: %w", err)
	}
	return world.HexCoord{Q: q, R: r}, nil
}

func truthy(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
