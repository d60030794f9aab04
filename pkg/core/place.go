package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aquilax/go-perlin"
)

// Placement selects how random entities are scattered over empty cells.
type Placement string

const (
	// PlaceUniform picks empty cells uniformly at random.
	PlaceUniform Placement = "uniform"
	// PlaceClustered prefers empty cells where a perlin noise field peaks, which
	// produces patches instead of salt-and-pepper noise.
	PlaceClustered Placement = "clustered"
)

const (
	noiseAlpha  = 2.0
	noiseBeta   = 2.0
	noiseOctave = 3
	noiseScale  = 8.0
)

// ParsePlacement maps a config string onto a Placement.
func ParsePlacement(s string) (Placement, error) {
	switch Placement(strings.ToLower(strings.TrimSpace(s))) {
	case "", PlaceUniform:
		return PlaceUniform, nil
	case PlaceClustered:
		return PlaceClustered, nil
	default:
		return "", &ConfigError{Key: "placement", Reason: fmt.Sprintf("unknown strategy %q", s)}
	}
}

// Place writes n values produced by next into empty cells of g. When fewer than
// n empty cells exist every empty cell is filled and a *PlacementError reports
// the shortfall; the call never loops looking for space.
func Place[C comparable](g *Grid[C], rng *RNG, mode Placement, n int, next func() C) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	null := g.states.Null()
	empty := make([]int, 0, len(g.data))
	for i, c := range g.data {
		if c == null {
			empty = append(empty, i)
		}
	}

	switch mode {
	case PlaceClustered:
		orderByNoise(g, rng, empty)
	default:
		rng.Shuffle(empty)
	}

	placed := n
	if placed > len(empty) {
		placed = len(empty)
	}
	for _, idx := range empty[:placed] {
		v := next()
		if !g.states.Contains(v) {
			return 0, &CellValueError{X: idx % g.W, Y: idx / g.W, Value: v}
		}
		g.data[idx] = v
	}
	if placed < n {
		return placed, &PlacementError{Requested: n, Placed: placed}
	}
	return placed, nil
}

// Constant returns a value generator that always yields v.
func Constant[C any](v C) func() C {
	return func() C { return v }
}

func orderByNoise[C comparable](g *Grid[C], rng *RNG, idx []int) {
	// Shuffle first so equal noise values do not bias towards the top-left.
	rng.Shuffle(idx)
	noise := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, rng.Int64())
	score := make(map[int]float64, len(idx))
	for _, i := range idx {
		x, y := i%g.W, i/g.W
		score[i] = noise.Noise2D(float64(x)/noiseScale, float64(y)/noiseScale)
	}
	sort.SliceStable(idx, func(a, b int) bool { return score[idx[a]] > score[idx[b]] })
}
