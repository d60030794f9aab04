package engine

import "torus-ca/pkg/core"

// Parameters reports the shared settings followed by any groups the rule adds.
func (a *Automaton[C]) Parameters() core.ParameterSnapshot {
	world := core.ParameterGroup{
		Name: "World",
		Params: []core.Parameter{
			core.IntParam("w", "Width", a.grid.W),
			core.IntParam("h", "Height", a.grid.H),
			core.Int64Param("seed", "Seed", a.base.Seed),
			core.StringParam("placement", "Placement", string(a.base.Placement)),
			core.IntParam("states", "States", a.states.Len()),
		},
	}
	if a.base.File != "" {
		world.Params = append(world.Params, core.StringParam("file", "Input file", a.base.File))
	}
	snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{world}}
	if p, ok := a.rule.(core.ParameterProvider); ok {
		snap.Groups = append(snap.Groups, p.Parameters().Groups...)
	}
	return snap
}

// ParameterControls forwards the rule's adjustable controls, if any.
func (a *Automaton[C]) ParameterControls() []core.ParameterControl {
	if p, ok := a.rule.(core.ParameterControlsProvider); ok {
		return p.ParameterControls()
	}
	return nil
}

// SetIntParameter forwards to the rule when it accepts integer updates.
func (a *Automaton[C]) SetIntParameter(key string, value int) bool {
	if s, ok := a.rule.(core.IntParameterSetter); ok {
		return s.SetIntParameter(key, value)
	}
	return false
}

// SetFloatParameter forwards to the rule when it accepts float updates.
func (a *Automaton[C]) SetFloatParameter(key string, value float64) bool {
	if s, ok := a.rule.(core.FloatParameterSetter); ok {
		return s.SetFloatParameter(key, value)
	}
	return false
}
