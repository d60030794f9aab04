package elementary

import (
	"strconv"

	"torus-ca/pkg/core"
	"torus-ca/pkg/engine"
	"torus-ca/pkg/persist"
)

var states = core.Digits(2)

// Config holds parameters for the elementary cellular automaton.
type Config struct {
	engine.Base
	Rule uint8
	// Random seeds the whole top row instead of the single centre cell.
	Random bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Base: engine.DefaultBase(), Rule: 110}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) (Config, error) {
	base, err := engine.BaseFromMap(cfg)
	if err != nil {
		return Config{}, err
	}
	c := DefaultConfig()
	c.Base = base
	if v, ok := cfg["rule"]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 || parsed > 255 {
			return c, &core.ConfigError{Key: "rule", Reason: "must be a Wolfram code within [0, 255]"}
		}
		c.Rule = uint8(parsed)
	}
	if v, ok := cfg["random"]; ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return c, &core.ConfigError{Key: "random", Reason: err.Error()}
		}
		c.Random = parsed
	}
	return c, nil
}

// Elementary implements a one-dimensional Wolfram code projected vertically:
// row 0 holds the newest generation and older ones scroll down.
type Elementary struct {
	rule uint8
}

// New creates the rule for the given Wolfram code.
func New(rule uint8) *Elementary { return &Elementary{rule: rule} }

// Name returns the simulation identifier.
func (e *Elementary) Name() string { return "elementary" }

// States returns off and on.
func (e *Elementary) States() *core.StateSet[uint8] { return states }

// Code returns the Wolfram code.
func (e *Elementary) Code() uint8 { return e.rule }

// Step computes the next generation and scrolls history downwards.
func (e *Elementary) Step(cur *core.Grid[uint8]) *core.Grid[uint8] {
	next := cur.Blank()
	src, dst := cur.Cells(), next.Cells()
	w := cur.W
	copy(dst[w:], src[:w*(cur.H-1)])
	for x := 0; x < w; x++ {
		left := src[(x-1+w)%w]
		center := src[x]
		right := src[(x+1)%w]
		idx := (left << 2) | (center << 1) | right
		dst[x] = (e.rule >> idx) & 1
	}
	return next
}

// Parameters exposes the Wolfram code.
func (e *Elementary) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name:   "Rule",
		Params: []core.Parameter{core.IntParam("rule", "Wolfram code", int(e.rule))},
	}}}
}

// ParameterControls lets the HUD change the code while running.
func (e *Elementary) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{{Key: "rule", Label: "Rule", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 255, HasMin: true, HasMax: true}}
}

// SetIntParameter updates the Wolfram code.
func (e *Elementary) SetIntParameter(key string, value int) bool {
	if key != "rule" || value < 0 || value > 255 {
		return false
	}
	e.rule = uint8(value)
	return true
}

// NewSim builds an elementary automaton from the configuration.
func NewSim(c Config) (*engine.Automaton[uint8], error) {
	return engine.New(engine.Options[uint8]{
		Name:  "elementary",
		Rule:  New(c.Rule),
		Codec: persist.Digit{},
		Base:  c.Base,
		Populate: func(g *core.Grid[uint8], rng *core.RNG, _ core.Placement) error {
			if !c.Random {
				return g.Set(g.W/2, 0, 1)
			}
			for x := 0; x < g.W; x++ {
				if rng.Bool() {
					if err := g.Set(x, 0, 1); err != nil {
						return err
					}
				}
			}
			return nil
		},
	})
}

func init() {
	engine.Register("elementary", func(cfg map[string]string) (engine.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewSim(c)
	})
}
