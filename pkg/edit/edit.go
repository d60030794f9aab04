// Package edit applies external point edits and board commands to a grid
// between simulation steps.
package edit

import (
	"errors"

	"torus-ca/pkg/core"
)

// Kind enumerates the edits a front end can request.
type Kind uint8

const (
	// Toggle advances the cell to the next declared state.
	Toggle Kind = iota
	// Set overwrites the cell with an explicit value.
	Set
	// Clear resets every cell to the null state.
	Clear
	// Export hands the grid to the controller's export sink.
	Export
)

func (k Kind) String() string {
	switch k {
	case Toggle:
		return "toggle"
	case Set:
		return "set"
	case Clear:
		return "clear"
	case Export:
		return "export"
	default:
		return "unknown"
	}
}

// ErrNoExportSink is returned for Export events when no sink is configured.
var ErrNoExportSink = errors.New("edit: no export sink configured")

// Event is a single edit request. Value is only read for Set.
type Event[C comparable] struct {
	X, Y  int
	Kind  Kind
	Value C
}

// Request is the rule-agnostic form of an Event used by front ends: Code is the
// position of the value in the rule's state cycle.
type Request struct {
	X, Y int
	Kind Kind
	Code uint8
}

// Controller applies events to grids. Export receives the grid on Export events.
type Controller[C comparable] struct {
	Export func(g *core.Grid[C]) error
}

// Apply performs ev on g.
//
// Toggle returns the new value; Set returns the previous value so callers can
// keep derived tallies. Edits outside the grid are ignored and report
// applied == false without an error.
func (c *Controller[C]) Apply(g *core.Grid[C], ev Event[C]) (value C, applied bool, err error) {
	switch ev.Kind {
	case Clear:
		g.Clear()
		return g.States().Null(), true, nil
	case Export:
		if c == nil || c.Export == nil {
			return value, false, ErrNoExportSink
		}
		if err := c.Export(g); err != nil {
			return value, false, err
		}
		return value, true, nil
	}

	if !g.InBounds(ev.X, ev.Y) {
		return value, false, nil
	}
	cur := g.Get(ev.X, ev.Y)

	switch ev.Kind {
	case Toggle:
		next := g.States().Next(cur)
		if err := g.Set(ev.X, ev.Y, next); err != nil {
			return value, false, err
		}
		return next, true, nil
	case Set:
		if err := g.Set(ev.X, ev.Y, ev.Value); err != nil {
			return value, false, err
		}
		return cur, true, nil
	default:
		return value, false, nil
	}
}
