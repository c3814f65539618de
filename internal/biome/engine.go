// Package biome computes multi-biome influence and boundary transitions for
// hex tiles. Every result is a pure function of coordinates and the caller's
// biome lookup; an Engine may memoize influences for the length of one pass.
package biome

import (
	"slices"
	"sort"
	"sync"

	"golang.org/x/exp/constraints"

	"github.com/talgya/hexworld/internal/world"
)

const (
	// neighborhoodSize is self plus six neighbors, one vote each.
	neighborhoodSize = 7

	// maxInfluences caps how many biomes shape one tile.
	maxInfluences = 3

	// confluenceTertiary is the tertiary weight above which a tile counts as
	// a meeting point for the transition override.
	confluenceTertiary = 0.15

	confluenceBoost = 1.5

	primaryBoundaryWeight   = 0.7
	secondaryBoundaryWeight = 0.3
)

// LookupFunc returns the biome assigned to a hex. It must be total and
// deterministic for every coordinate the engine asks about.
type LookupFunc func(world.HexCoord) world.Biome

// Influence is one biome's share of a tile's blended appearance.
type Influence struct {
	Biome  world.Biome `json:"biome"`
	Weight float64     `json:"weight"`
}

// Transition describes the edge between a tile and one differing neighbor.
type Transition struct {
	Direction int         `json:"direction"` // Index into world.HexNeighborDirections
	Style     Style       `json:"style"`
	Neighbor  world.Biome `json:"neighbor"` // The neighbor's dominant biome
	Blend     float64     `json:"blend"`    // 0 (hard edge) to 1 (full blend)
}

// TileData is the complete biome record for one tile.
// Secondary and Tertiary are world.BiomeNone when absent.
type TileData struct {
	Coord       world.HexCoord `json:"coord"`
	Primary     world.Biome    `json:"primary"`
	Secondary   world.Biome    `json:"secondary,omitempty"`
	Tertiary    world.Biome    `json:"tertiary,omitempty"`
	Influences  []Influence    `json:"influences"`
	Transitions []Transition   `json:"transitions"`
}

// Engine evaluates influences, transitions, and emergence rules.
type Engine struct {
	biomeAt LookupFunc
	table   *TransitionTable
	memo    *influenceMemo
}

// NewEngine creates an engine over lookup using the default transition table.
func NewEngine(lookup LookupFunc) *Engine {
	return &Engine{biomeAt: lookup, table: DefaultTable()}
}

// WithTable returns a copy of the engine that uses t for transition rules.
func (e *Engine) WithTable(t *TransitionTable) *Engine {
	c := *e
	c.table = t
	return &c
}

// Cached returns a copy of the engine that memoizes influences by coordinate.
// Use one cached engine per generation pass; the lookup must not change
// while it is in use. The cache is safe for concurrent use.
func (e *Engine) Cached() *Engine {
	c := *e
	c.memo = &influenceMemo{entries: make(map[world.HexCoord][]Influence)}
	return &c
}

// BiomeAt exposes the engine's lookup.
func (e *Engine) BiomeAt(c world.HexCoord) world.Biome {
	return e.biomeAt(c)
}

type influenceMemo struct {
	mu      sync.Mutex
	entries map[world.HexCoord][]Influence
}

func (m *influenceMemo) get(c world.HexCoord) ([]Influence, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[c]
	return v, ok
}

func (m *influenceMemo) put(c world.HexCoord, v []Influence) {
	m.mu.Lock()
	m.entries[c] = v
	m.mu.Unlock()
}

// neighborhood returns the biomes of c and its six neighbors, self first.
func (e *Engine) neighborhood(c world.HexCoord) [neighborhoodSize]world.Biome {
	var out [neighborhoodSize]world.Biome
	out[0] = e.biomeAt(c)
	for i, n := range c.Neighbors() {
		out[i+1] = e.biomeAt(n)
	}
	return out
}

// Influences returns up to three biomes shaping tile c, heaviest first,
// with weights summing to 1. Each cell of the 7-cell neighborhood casts one
// vote; ties keep the order in which biomes first appear (self first).
func (e *Engine) Influences(c world.HexCoord) []Influence {
	if e.memo != nil {
		if v, ok := e.memo.get(c); ok {
			return slices.Clone(v)
		}
	}

	hood := e.neighborhood(c)
	var order []world.Biome
	counts := make(map[world.Biome]int, neighborhoodSize)
	for _, b := range hood {
		if counts[b] == 0 {
			order = append(order, b)
		}
		counts[b]++
	}

	influences := make([]Influence, 0, len(order))
	for _, b := range order {
		influences = append(influences, Influence{
			Biome:  b,
			Weight: float64(counts[b]) / neighborhoodSize,
		})
	}
	sort.SliceStable(influences, func(i, j int) bool {
		return influences[i].Weight > influences[j].Weight
	})
	if len(influences) > maxInfluences {
		influences = influences[:maxInfluences]
	}

	total := 0.0
	for _, inf := range influences {
		total += inf.Weight
	}
	for i := range influences {
		influences[i].Weight /= total
	}

	if e.memo != nil {
		e.memo.put(c, slices.Clone(influences))
	}
	return influences
}

// boundaryWeight condenses an influence list into one edge-strength figure.
func boundaryWeight(influences []Influence) float64 {
	w := 0.0
	if len(influences) > 0 {
		w += primaryBoundaryWeight * influences[0].Weight
	}
	if len(influences) > 1 {
		w += secondaryBoundaryWeight * influences[1].Weight
	}
	return w
}

// Transitions returns one record per neighbor whose dominant biome differs
// from this tile's, in direction order. influences must be the result of
// Influences(c); nil recomputes it.
func (e *Engine) Transitions(c world.HexCoord, influences []Influence) []Transition {
	if influences == nil {
		influences = e.Influences(c)
	}
	if len(influences) == 0 {
		return nil
	}

	dominant := influences[0].Biome
	selfWeight := boundaryWeight(influences)
	meetingPoint := len(influences) >= 3 && influences[2].Weight > confluenceTertiary

	var transitions []Transition
	for dir, n := range c.Neighbors() {
		ni := e.Influences(n)
		if ni[0].Biome == dominant {
			continue
		}

		rule := e.table.Lookup(dominant, ni[0].Biome)
		blend := rule.Compatibility * (1 - abs(selfWeight-boundaryWeight(ni)))
		style := rule.Style

		if meetingPoint && len(ni) >= 2 {
			style = StyleConfluence
			blend = min(blend*confluenceBoost, 1)
		}

		transitions = append(transitions, Transition{
			Direction: dir,
			Style:     style,
			Neighbor:  ni[0].Biome,
			Blend:     clamp(blend, 0, 1),
		})
	}
	return transitions
}

// TileData composes influences and transitions into a tile's full record.
func (e *Engine) TileData(c world.HexCoord) TileData {
	influences := e.Influences(c)
	td := TileData{
		Coord:       c,
		Primary:     influences[0].Biome,
		Influences:  influences,
		Transitions: e.Transitions(c, influences),
	}
	if len(influences) > 1 {
		td.Secondary = influences[1].Biome
	}
	if len(influences) > 2 {
		td.Tertiary = influences[2].Biome
	}
	return td
}

func abs[T constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
