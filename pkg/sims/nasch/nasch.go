// Package nasch implements the Nagel-Schreckenberg traffic model on a torus.
// Each car keeps a speed and one of four headings; horizontal cars share rows
// with vertical ones and block each other like any other car.
package nasch

import (
	"fmt"
	"strconv"

	"torus-ca/pkg/core"
	"torus-ca/pkg/engine"
)

// Config holds parameters for the NaSch model.
type Config struct {
	engine.Base
	Vmax             int
	BreakProbability float64
	TurnProbability  float64
	// Vertical and Horizontal are the car counts scattered on reset. A negative
	// count derives from Density instead.
	Vertical   int
	Horizontal int
	Density    float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Base:             engine.DefaultBase(),
		Vmax:             5,
		BreakProbability: 0.5,
		Vertical:         -1,
		Horizontal:       -1,
		Density:          0.2,
	}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) (Config, error) {
	base, err := engine.BaseFromMap(cfg)
	if err != nil {
		return Config{}, err
	}
	c := DefaultConfig()
	c.Base = base
	if c.Vmax, err = engine.NonNegativeInt(cfg, "vmax", c.Vmax); err != nil {
		return c, err
	}
	if c.BreakProbability, err = engine.Probability(cfg, "break_probability", c.BreakProbability); err != nil {
		return c, err
	}
	if c.TurnProbability, err = engine.Probability(cfg, "turn_probability", c.TurnProbability); err != nil {
		return c, err
	}
	if c.Vertical, err = engine.NonNegativeInt(cfg, "vertical", c.Vertical); err != nil {
		return c, err
	}
	if c.Horizontal, err = engine.NonNegativeInt(cfg, "horizontal", c.Horizontal); err != nil {
		return c, err
	}
	if c.Density, err = engine.Probability(cfg, "density", c.Density); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// Validate checks the ranges the rule depends on.
func (c Config) Validate() error {
	if c.Vmax < 0 || c.Vmax > MaxVmax {
		return &core.ConfigError{Key: "vmax", Reason: fmt.Sprintf("must be within [0, %d]", MaxVmax)}
	}
	if !(c.BreakProbability >= 0 && c.BreakProbability <= 1) {
		return &core.ConfigError{Key: "break_probability", Reason: "must be within [0, 1]"}
	}
	if !(c.TurnProbability >= 0 && c.TurnProbability <= 1) {
		return &core.ConfigError{Key: "turn_probability", Reason: "must be within [0, 1]"}
	}
	return nil
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

// NaSch is the transition rule. It owns the random stream used for braking
// and turning, so each automaton needs its own instance.
type NaSch struct {
	vmax         int
	breakProb    float64
	turnProb     float64
	states       *core.StateSet[Car]
	rng          *core.RNG
	lastCars     int
	lastDistance int
}

type plan struct {
	x, y int
	car  Car
}

// New validates the configuration and returns the rule.
func New(c Config) (*NaSch, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	n := &NaSch{
		vmax:      c.Vmax,
		breakProb: c.BreakProbability,
		turnProb:  c.TurnProbability,
		states:    StateSet(c.Vmax),
	}
	n.Reset(c.Seed)
	return n, nil
}

// Name returns the simulation identifier.
func (n *NaSch) Name() string { return "nasch" }

// States returns Empty followed by every (direction, speed) pair.
func (n *NaSch) States() *core.StateSet[Car] { return n.states }

// Vmax returns the speed limit.
func (n *NaSch) Vmax() int { return n.vmax }

// Reset reseeds the random stream used by braking and turning.
func (n *NaSch) Reset(seed int64) {
	n.rng = core.NewRNG(seed ^ 0x4e61536368)
	n.lastCars, n.lastDistance = 0, 0
}

// Step applies the sub-rules in order: optional turn, acceleration, slowing to
// the gap ahead, random braking, then motion. Gaps are measured on cur, so
// every car sees the positions as they were before the step.
func (n *NaSch) Step(cur *core.Grid[Car]) *core.Grid[Car] {
	src := cur.Cells()
	plans := make([]plan, 0, cur.Occupied())
	for i, c := range src {
		if c == Empty {
			continue
		}
		x, y := i%cur.W, i/cur.W
		if n.rng.Chance(n.turnProb) {
			c = Car{Speed: 0, Dir: n.turn(c.Dir)}
		}
		v := min(int(c.Speed)+1, n.vmax)
		v = min(v, gap(cur, x, y, c.Dir)-1)
		if v > 0 && n.rng.Chance(n.breakProb) {
			v--
		}
		c.Speed = uint8(max(v, 0))
		plans = append(plans, plan{x: x, y: y, car: c})
	}

	next := cur.Blank()
	dst := next.Cells()
	distance := 0
	for _, p := range plans {
		dx, dy := p.car.Dir.Delta()
		for v := int(p.car.Speed); v >= 0; v-- {
			tx, ty := next.Wrap(p.x+dx*v, p.y+dy*v)
			idx := next.Index(tx, ty)
			if dst[idx] != Empty && v > 0 {
				continue
			}
			dst[idx] = Car{Speed: uint8(v), Dir: p.car.Dir}
			distance += v
			break
		}
	}
	n.lastCars, n.lastDistance = len(plans), distance
	return next
}

// turn picks one of the two perpendicular headings.
func (n *NaSch) turn(d Direction) Direction {
	left := n.rng.Bool()
	switch {
	case d.Horizontal() && left:
		return North
	case d.Horizontal():
		return South
	case left:
		return West
	default:
		return East
	}
}

// gap is the number of cells to the next car ahead of (x, y) along d. A car
// alone on its line sees the whole line.
func gap(g *core.Grid[Car], x, y int, d Direction) int {
	dx, dy := d.Delta()
	length := g.H
	if d.Horizontal() {
		length = g.W
	}
	for dist := 1; dist < length; dist++ {
		if g.Get(x+dx*dist, y+dy*dist) != Empty {
			return dist
		}
	}
	return length
}

// MeanSpeed returns the average speed over the cars on g.
func MeanSpeed(g *core.Grid[Car]) float64 {
	cars, sum := 0, 0
	for _, c := range g.Cells() {
		if c != Empty {
			cars++
			sum += int(c.Speed)
		}
	}
	if cars == 0 {
		return 0
	}
	return float64(sum) / float64(cars)
}

// Metric returns the flow of the last step: cells travelled per cell of road.
func (n *NaSch) Metric(g *core.Grid[Car]) float64 {
	return float64(n.lastDistance) / float64(g.W*g.H)
}

// Summary reports the mean speed.
func (n *NaSch) Summary(g *core.Grid[Car]) string {
	return fmt.Sprintf("mean speed %.2f", MeanSpeed(g))
}

// Parameters exposes the traffic settings.
func (n *NaSch) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Traffic",
		Params: []core.Parameter{
			core.IntParam("vmax", "Max speed", n.vmax),
			core.FloatParam("break_probability", "Brake probability", n.breakProb),
			core.FloatParam("turn_probability", "Turn probability", n.turnProb),
		},
		Summary: "vmax " + strconv.Itoa(n.vmax),
	}}}
}

// ParameterControls lists the settings adjustable while running. vmax is fixed
// because it defines the state set.
func (n *NaSch) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "break_probability", Label: "Brake p", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "turn_probability", Label: "Turn p", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a probability, clamped to [0, 1].
func (n *NaSch) SetFloatParameter(key string, value float64) bool {
	value = min(max(value, 0), 1)
	switch key {
	case "break_probability":
		n.breakProb = value
	case "turn_probability":
		n.turnProb = value
	default:
		return false
	}
	return true
}

// NewSim builds a NaSch automaton from the configuration.
func NewSim(c Config) (*engine.Automaton[Car], error) {
	rule, err := New(c)
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Options[Car]{
		Name:  "nasch",
		Rule:  rule,
		Codec: Codec{},
		Base:  c.Base,
		Populate: func(g *core.Grid[Car], rng *core.RNG, mode core.Placement) error {
			vertical, horizontal := c.Counts(g.W, g.H)
			if _, err := core.Place(g, rng, mode, vertical, randomCar(rng, North, c.Vmax)); err != nil {
				return err
			}
			_, err := core.Place(g, rng, mode, horizontal, randomCar(rng, East, c.Vmax))
			return err
		},
	})
}

func randomCar(rng *core.RNG, d Direction, vmax int) func() Car {
	return func() Car {
		return Car{Speed: uint8(rng.IntN(vmax + 1)), Dir: d}
	}
}

func init() {
	engine.Register("nasch", func(cfg map[string]string) (engine.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewSim(c)
	})
}
