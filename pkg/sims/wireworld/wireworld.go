// Package wireworld implements Brian Silverman's Wireworld on a torus.
package wireworld

import (
	"strconv"

	"torus-ca/pkg/core"
	"torus-ca/pkg/engine"
	"torus-ca/pkg/persist"
)

// Cell states in toggle order.
const (
	Empty     uint8 = 0
	Conductor uint8 = 1
	Tail      uint8 = 2
	Head      uint8 = 3
)

var states = core.Digits(4)

// Config holds parameters for Wireworld. Boards start empty unless loaded from
// a file; circuits are drawn by hand.
type Config struct {
	engine.Base
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Base: engine.DefaultBase()}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) (Config, error) {
	base, err := engine.BaseFromMap(cfg)
	if err != nil {
		return Config{}, err
	}
	return Config{Base: base}, nil
}

// Wireworld is the transition rule.
type Wireworld struct{}

// New returns the Wireworld rule.
func New() *Wireworld { return &Wireworld{} }

// Name returns the simulation identifier.
func (w *Wireworld) Name() string { return "wireworld" }

// States returns empty, conductor, tail and head.
func (w *Wireworld) States() *core.StateSet[uint8] { return states }

// Step advances every cell against the pre-step snapshot.
func (w *Wireworld) Step(cur *core.Grid[uint8]) *core.Grid[uint8] {
	next := cur.Blank()
	src, dst := cur.Cells(), next.Cells()
	for y := 0; y < cur.H; y++ {
		for x := 0; x < cur.W; x++ {
			idx := y*cur.W + x
			switch src[idx] {
			case Head:
				dst[idx] = Tail
			case Tail:
				dst[idx] = Conductor
			case Conductor:
				heads := 0
				for _, n := range cur.Neighbors8(x, y) {
					if n == Head {
						heads++
					}
				}
				if heads == 1 || heads == 2 {
					dst[idx] = Head
				} else {
					dst[idx] = Conductor
				}
			}
		}
	}
	return next
}

// Summary reports how many electrons are travelling.
func (w *Wireworld) Summary(g *core.Grid[uint8]) string {
	return "electrons " + strconv.Itoa(g.Count(Head))
}

// NewSim builds a Wireworld automaton from the configuration.
func NewSim(c Config) (*engine.Automaton[uint8], error) {
	return engine.New(engine.Options[uint8]{
		Name:  "wireworld",
		Rule:  New(),
		Codec: persist.Digit{},
		Base:  c.Base,
	})
}

func init() {
	engine.Register("wireworld", func(cfg map[string]string) (engine.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewSim(c)
	})
}
