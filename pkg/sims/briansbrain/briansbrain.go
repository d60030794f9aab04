package briansbrain

import (
	"torus-ca/pkg/core"
	"torus-ca/pkg/engine"
	"torus-ca/pkg/persist"
)

const (
	stateDead  uint8 = 0
	stateOn    uint8 = 1
	stateDying uint8 = 2
)

var states = core.Digits(3)

// Config holds parameters for Brian's Brain.
type Config struct {
	engine.Base
	// On is the number of firing cells scattered on reset; negative means an
	// eighth of the grid.
	On int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Base: engine.DefaultBase(), On: -1}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) (Config, error) {
	base, err := engine.BaseFromMap(cfg)
	if err != nil {
		return Config{}, err
	}
	c := Config{Base: base, On: -1}
	c.On, err = engine.NonNegativeInt(cfg, "on", c.On)
	return c, err
}

// Brain implements Brian's Brain cellular automaton.
type Brain struct{}

// New returns the Brian's Brain rule.
func New() *Brain { return &Brain{} }

// Name identifies the simulation.
func (b *Brain) Name() string { return "briansbrain" }

// States returns dead, firing and dying.
func (b *Brain) States() *core.StateSet[uint8] { return states }

// Step advances the automaton by one tick.
func (b *Brain) Step(cur *core.Grid[uint8]) *core.Grid[uint8] {
	next := cur.Blank()
	src, dst := cur.Cells(), next.Cells()
	w, h := cur.W, cur.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			switch src[idx] {
			case stateOn:
				dst[idx] = stateDying
			case stateDying:
				dst[idx] = stateDead
			default:
				neighbors := 0
				for _, n := range cur.Neighbors8(x, y) {
					if n == stateOn {
						neighbors++
					}
				}
				if neighbors == 2 {
					dst[idx] = stateOn
				}
			}
		}
	}
	return next
}

// NewSim builds a Brian's Brain automaton from the configuration.
func NewSim(c Config) (*engine.Automaton[uint8], error) {
	return engine.New(engine.Options[uint8]{
		Name:  "briansbrain",
		Rule:  New(),
		Codec: persist.Digit{},
		Base:  c.Base,
		Populate: func(g *core.Grid[uint8], rng *core.RNG, mode core.Placement) error {
			n := c.On
			if n < 0 {
				n = g.W * g.H / 8
			}
			_, err := core.Place(g, rng, mode, n, core.Constant(stateOn))
			return err
		},
	})
}

func init() {
	engine.Register("briansbrain", func(cfg map[string]string) (engine.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewSim(c)
	})
}
