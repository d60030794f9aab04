package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"torus-ca/pkg/core"
	"torus-ca/pkg/edit"
	"torus-ca/pkg/persist"
)

// Exporter is implemented by sims that can write their grid in the persisted
// text format.
type Exporter interface {
	ExportTo(w io.Writer) error
}

// Metered is implemented by sims that expose a scalar observable for sweeps.
type Metered interface {
	Metric() float64
}

// Options configures an Automaton.
type Options[C comparable] struct {
	Name  string
	Rule  core.Rule[C]
	Codec persist.Codec[C]
	Base  Base
	// Populate scatters the initial entities on an empty grid. It may return a
	// *core.PlacementError, which is logged and reported but not fatal.
	Populate func(g *core.Grid[C], rng *core.RNG, mode core.Placement) error
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Automaton couples a rule with the grid it owns, the edit controller and the
// persisted form. It is the single owner of the grid: rules only see it for
// the duration of Step.
type Automaton[C comparable] struct {
	name     string
	rule     core.Rule[C]
	states   *core.StateSet[C]
	codec    persist.Codec[C]
	base     Base
	populate func(g *core.Grid[C], rng *core.RNG, mode core.Placement) error
	log      *slog.Logger

	grid    *core.Grid[C]
	initial *core.Grid[C]
	display []uint8
	ctrl    edit.Controller[C]
	rng     *core.RNG

	generation int
	population int
}

// New builds an automaton. When Base.File is set the grid (and its size) comes
// from that file and a malformed file is fatal.
func New[C comparable](opts Options[C]) (*Automaton[C], error) {
	if opts.Rule == nil || opts.Codec == nil {
		return nil, errors.New("engine: rule and codec are required")
	}
	a := &Automaton[C]{
		name:     opts.Name,
		rule:     opts.Rule,
		states:   opts.Rule.States(),
		codec:    opts.Codec,
		base:     opts.Base,
		populate: opts.Populate,
		log:      opts.Logger,
	}
	if a.name == "" {
		a.name = a.rule.Name()
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.states.Len() > 256 {
		return nil, fmt.Errorf("engine: %s declares %d states, at most 256 fit a display code", a.name, a.states.Len())
	}
	a.ctrl.Export = a.exportGrid

	if opts.Base.File != "" {
		g, err := persist.Load(opts.Base.File, a.codec, a.states)
		if err != nil {
			return nil, err
		}
		a.initial = g
		a.base.Width, a.base.Height = g.W, g.H
		a.log.Info("grid loaded", "sim", a.name, "file", opts.Base.File, "w", g.W, "h", g.H)
	}
	a.grid = core.NewGrid(a.base.Width, a.base.Height, a.states)
	a.display = make([]uint8, a.grid.W*a.grid.H)

	if err := a.Reset(a.base.Seed); err != nil && !errors.Is(err, core.ErrPlacementExhausted) {
		return nil, err
	}
	return a, nil
}

// Name returns the simulation identifier.
func (a *Automaton[C]) Name() string { return a.name }

// Size reports the grid dimensions.
func (a *Automaton[C]) Size() core.Size { return a.grid.Size() }

// Cells exposes the state indices of the current grid.
func (a *Automaton[C]) Cells() []uint8 { return a.display }

// StateCount returns how many states the rule declares.
func (a *Automaton[C]) StateCount() int { return a.states.Len() }

// Generation returns the number of steps since the last reset.
func (a *Automaton[C]) Generation() int { return a.generation }

// Population returns the number of non-empty cells.
func (a *Automaton[C]) Population() int { return a.population }

// Grid returns the current grid. Callers must treat it as read-only.
func (a *Automaton[C]) Grid() *core.Grid[C] { return a.grid }

// Rule returns the transition rule.
func (a *Automaton[C]) Rule() core.Rule[C] { return a.rule }

// Reset restores the initial board: the loaded file if there is one, otherwise
// an empty grid populated with a generator seeded by seed.
func (a *Automaton[C]) Reset(seed int64) error {
	a.rng = core.NewRNG(seed)
	if r, ok := a.rule.(core.Resetter); ok {
		r.Reset(seed)
	}
	a.generation = 0
	var err error
	if a.initial != nil {
		a.grid = a.initial.Clone()
	} else {
		a.grid.Clear()
		err = a.fill()
	}
	a.refresh()
	return err
}

// Randomize clears the board and scatters a fresh population, ignoring any
// loaded file.
func (a *Automaton[C]) Randomize() error {
	a.grid.Clear()
	a.generation = 0
	err := a.fill()
	a.refresh()
	return err
}

// Step advances the simulation by one generation.
func (a *Automaton[C]) Step() {
	next := a.rule.Step(a.grid)
	if next == nil || next.W != a.grid.W || next.H != a.grid.H {
		panic(fmt.Sprintf("engine: rule %s returned a grid of the wrong shape", a.rule.Name()))
	}
	a.grid = next
	a.generation++
	a.refresh()
}

// Apply performs a front-end edit. For Toggle it returns the new state code,
// for Set the previous one. Requests outside the grid are ignored.
func (a *Automaton[C]) Apply(req edit.Request) (uint8, error) {
	ev := edit.Event[C]{X: req.X, Y: req.Y, Kind: req.Kind}
	if req.Kind == edit.Set {
		v, ok := a.states.At(int(req.Code))
		if !ok {
			return 0, &core.CellValueError{X: req.X, Y: req.Y, Value: req.Code}
		}
		ev.Value = v
	}
	var before C
	inBounds := a.grid.InBounds(req.X, req.Y)
	if inBounds {
		before = a.grid.Get(req.X, req.Y)
	}

	val, applied, err := a.ctrl.Apply(a.grid, ev)
	if err != nil || !applied {
		return 0, err
	}

	switch req.Kind {
	case edit.Clear:
		a.refresh()
		return 0, nil
	case edit.Export:
		return 0, nil
	case edit.Toggle:
		a.tally(before, val)
	case edit.Set:
		a.tally(val, ev.Value)
	}
	idx := a.grid.Index(req.X, req.Y)
	code, _ := a.states.Index(a.grid.Cells()[idx])
	a.display[idx] = uint8(code)
	out, _ := a.states.Index(val)
	return uint8(out), nil
}

// ExportTo writes the grid in the persisted text format.
func (a *Automaton[C]) ExportTo(w io.Writer) error {
	return persist.Write(w, a.grid, a.codec)
}

// Lines renders the grid in the persisted text format.
func (a *Automaton[C]) Lines() []string {
	return persist.Lines(a.grid, a.codec)
}

// Caption summarises the run for a window title.
func (a *Automaton[C]) Caption() string {
	caption := fmt.Sprintf("%s | gen %d | population %d", a.name, a.generation, a.population)
	if s, ok := a.rule.(core.Summarizer[C]); ok {
		if extra := s.Summary(a.grid); extra != "" {
			caption += " | " + extra
		}
	}
	return caption
}

// Metric returns the rule's observable, or the occupied fraction when the rule
// defines none.
func (a *Automaton[C]) Metric() float64 {
	if m, ok := a.rule.(core.Meter[C]); ok {
		return m.Metric(a.grid)
	}
	return float64(a.population) / float64(a.grid.W*a.grid.H)
}

func (a *Automaton[C]) fill() error {
	if a.populate == nil {
		return nil
	}
	err := a.populate(a.grid, a.rng, a.base.Placement)
	var perr *core.PlacementError
	if errors.As(err, &perr) {
		a.log.Warn("placement capped at available cells",
			"sim", a.name, "requested", perr.Requested, "placed", perr.Placed, "shortfall", perr.Shortfall())
	}
	return err
}

func (a *Automaton[C]) tally(prev, next C) {
	null := a.states.Null()
	switch {
	case prev == null && next != null:
		a.population++
	case prev != null && next == null:
		a.population--
	}
}

func (a *Automaton[C]) refresh() {
	if len(a.display) != a.grid.W*a.grid.H {
		a.display = make([]uint8, a.grid.W*a.grid.H)
	}
	null := a.states.Null()
	pop := 0
	for i, c := range a.grid.Cells() {
		code, _ := a.states.Index(c)
		a.display[i] = uint8(code)
		if c != null {
			pop++
		}
	}
	a.population = pop
}

func (a *Automaton[C]) exportGrid(g *core.Grid[C]) error {
	prefix := a.base.Prefix
	if prefix == "" {
		prefix = a.name
	}
	f, err := persist.Dir{Path: a.base.OutDir, Prefix: prefix}.Create("txt")
	if err != nil {
		return fmt.Errorf("export %s: %w", a.name, err)
	}
	if err := persist.Write(f, g, a.codec); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", a.name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.log.Info("grid exported", "sim", a.name, "path", f.Name())
	return nil
}
