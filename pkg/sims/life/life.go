package life

import (
	"torus-ca/pkg/core"
	"torus-ca/pkg/engine"
	"torus-ca/pkg/persist"
)

const (
	dead  uint8 = 0
	alive uint8 = 1
)

var states = core.Digits(2)

// Config holds parameters for the Game of Life.
type Config struct {
	engine.Base
	// Alive is the number of live cells scattered on reset; negative means a
	// fifth of the grid.
	Alive int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Base: engine.DefaultBase(), Alive: -1}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) (Config, error) {
	base, err := engine.BaseFromMap(cfg)
	if err != nil {
		return Config{}, err
	}
	c := Config{Base: base, Alive: -1}
	if c.Alive, err = engine.NonNegativeInt(cfg, "alive", c.Alive); err != nil {
		return c, err
	}
	return c, nil
}

// Life implements Conway's Game of Life with toroidal wrapping.
type Life struct{}

// New returns the Life rule.
func New() *Life { return &Life{} }

// Name returns the simulation identifier.
func (l *Life) Name() string { return "life" }

// States returns dead (0) and alive (1).
func (l *Life) States() *core.StateSet[uint8] { return states }

// Step advances the simulation by one generation. Neighbour counts read only
// from cur, so no cell sees an already updated neighbour.
func (l *Life) Step(cur *core.Grid[uint8]) *core.Grid[uint8] {
	next := cur.Blank()
	src, dst := cur.Cells(), next.Cells()
	w, h := cur.W, cur.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := 0
			for _, n := range cur.Neighbors8(x, y) {
				if n != dead {
					neighbors++
				}
			}
			idx := y*w + x
			live := src[idx] != dead
			if (live && (neighbors == 2 || neighbors == 3)) || (!live && neighbors == 3) {
				dst[idx] = alive
			}
		}
	}
	return next
}

// NewSim builds a Life automaton from the configuration.
func NewSim(c Config) (*engine.Automaton[uint8], error) {
	return engine.New(engine.Options[uint8]{
		Name:  "life",
		Rule:  New(),
		Codec: persist.Digit{},
		Base:  c.Base,
		Populate: func(g *core.Grid[uint8], rng *core.RNG, mode core.Placement) error {
			n := c.Alive
			if n < 0 {
				n = g.W * g.H / 5
			}
			_, err := core.Place(g, rng, mode, n, core.Constant(alive))
			return err
		},
	})
}

func init() {
	engine.Register("life", func(cfg map[string]string) (engine.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewSim(c)
	})
}
