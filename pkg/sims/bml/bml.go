// Package bml implements the Biham-Middleton-Levine traffic model: two kinds
// of cars on a torus, vertical cars moving down on odd turns and horizontal
// cars moving right on even turns.
package bml

import (
	"fmt"

	"torus-ca/pkg/core"
	"torus-ca/pkg/engine"
	"torus-ca/pkg/persist"
)

// Cell values.
const (
	Empty      uint8 = 0
	Vertical   uint8 = 1
	Horizontal uint8 = 2
)

var states = core.Digits(3)

// Config holds parameters for the BML model.
type Config struct {
	engine.Base
	// Vertical and Horizontal are the car counts scattered on reset. A negative
	// count derives from Density instead.
	Vertical   int
	Horizontal int
	// Density is the occupied fraction used when a count is negative; it is
	// split evenly between both kinds.
	Density float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Base: engine.DefaultBase(), Vertical: -1, Horizontal: -1, Density: 0.3}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) (Config, error) {
	base, err := engine.BaseFromMap(cfg)
	if err != nil {
		return Config{}, err
	}
	c := DefaultConfig()
	c.Base = base
	if c.Vertical, err = engine.NonNegativeInt(cfg, "vertical", c.Vertical); err != nil {
		return c, err
	}
	if c.Horizontal, err = engine.NonNegativeInt(cfg, "horizontal", c.Horizontal); err != nil {
		return c, err
	}
	if c.Density, err = engine.Probability(cfg, "density", c.Density); err != nil {
		return c, err
	}
	return c, nil
}

// Counts resolves the number of vertical and horizontal cars for a w×h grid.
func (c Config) Counts(w, h int) (vertical, horizontal int) {
	half := int(c.Density * float64(w*h) / 2)
	vertical, horizontal = c.Vertical, c.Horizontal
	if vertical < 0 {
		vertical = half
	}
	if horizontal < 0 {
		horizontal = half
	}
	return vertical, horizontal
}

// BML is the transition rule. It carries the turn counter, so each automaton
// needs its own instance.
type BML struct {
	turn  int
	moved int
	cars  int
}

// New returns a BML rule at turn zero.
func New() *BML { return &BML{} }

// Name returns the simulation identifier.
func (b *BML) Name() string { return "bml" }

// States returns empty, vertical and horizontal.
func (b *BML) States() *core.StateSet[uint8] { return states }

// Reset restarts the turn counter.
func (b *BML) Reset(int64) {
	b.turn = 0
	b.moved = 0
	b.cars = 0
}

// Turn returns the number of steps taken since the last reset.
func (b *BML) Turn() int { return b.turn }

// Step advances one half-step. The turn counter increments first, so the
// first step after a reset moves vertical cars.
func (b *BML) Step(cur *core.Grid[uint8]) *core.Grid[uint8] {
	b.turn++
	next := cur.Clone()
	if b.turn%2 == 1 {
		b.moved, b.cars = b.advanceColumns(cur, next)
	} else {
		b.moved, b.cars = b.advanceRows(cur, next)
	}
	return next
}

// advanceColumns moves every vertical car one cell down when the cell below
// was empty at the start of the pass.
func (b *BML) advanceColumns(cur, next *core.Grid[uint8]) (moved, cars int) {
	src, dst := cur.Cells(), next.Cells()
	w, h := cur.W, cur.H
	for x := 0; x < w; x++ {
		anchor := -1
		for y := 0; y < h; y++ {
			if src[y*w+x] == Empty {
				anchor = y
				break
			}
		}
		for y := 0; y < h; y++ {
			if src[y*w+x] == Vertical {
				cars++
			}
		}
		if anchor < 0 {
			continue
		}
		for i := 1; i <= h; i++ {
			y := (anchor + i) % h
			if src[y*w+x] != Vertical {
				continue
			}
			below := ((y+1)%h)*w + x
			if src[below] == Empty {
				dst[below] = Vertical
				dst[y*w+x] = Empty
				moved++
			}
		}
	}
	return moved, cars
}

// advanceRows moves every horizontal car one cell right when the cell to its
// right was empty at the start of the pass.
func (b *BML) advanceRows(cur, next *core.Grid[uint8]) (moved, cars int) {
	src, dst := cur.Cells(), next.Cells()
	w, h := cur.W, cur.H
	for y := 0; y < h; y++ {
		row := src[y*w : (y+1)*w]
		anchor := -1
		for x, c := range row {
			if c == Horizontal {
				cars++
			}
			if anchor < 0 && c == Empty {
				anchor = x
			}
		}
		if anchor < 0 {
			continue
		}
		for i := 1; i <= w; i++ {
			x := (anchor + i) % w
			if row[x] != Horizontal {
				continue
			}
			right := (x + 1) % w
			if row[right] == Empty {
				dst[y*w+right] = Horizontal
				dst[y*w+x] = Empty
				moved++
			}
		}
	}
	return moved, cars
}

// Metric returns the fraction of cars of the kind that moved last step which
// actually advanced, the usual BML mobility measure.
func (b *BML) Metric(*core.Grid[uint8]) float64 {
	if b.cars == 0 {
		return 0
	}
	return float64(b.moved) / float64(b.cars)
}

// Summary reports the car counts and the mobility of the last half-step.
func (b *BML) Summary(g *core.Grid[uint8]) string {
	return fmt.Sprintf("v %d h %d | mobility %.2f", g.Count(Vertical), g.Count(Horizontal), b.Metric(g))
}

// NewSim builds a BML automaton from the configuration.
func NewSim(c Config) (*engine.Automaton[uint8], error) {
	return engine.New(engine.Options[uint8]{
		Name:  "bml",
		Rule:  New(),
		Codec: persist.Digit{},
		Base:  c.Base,
		Populate: func(g *core.Grid[uint8], rng *core.RNG, mode core.Placement) error {
			vertical, horizontal := c.Counts(g.W, g.H)
			if _, err := core.Place(g, rng, mode, vertical, core.Constant(Vertical)); err != nil {
				return err
			}
			_, err := core.Place(g, rng, mode, horizontal, core.Constant(Horizontal))
			return err
		},
	})
}

func init() {
	engine.Register("bml", func(cfg map[string]string) (engine.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewSim(c)
	})
}
