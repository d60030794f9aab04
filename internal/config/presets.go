package config

// Presets holds named starting points per simulation.
var Presets = map[string]map[string]*Config{
	"life": {
		"soup": {
			Sim: "life", Width: 128, Height: 96,
			Params: map[string]string{"alive": "3600"},
		},
		"islands": {
			Sim: "life", Width: 128, Height: 96, Placement: "clustered",
			Params: map[string]string{"alive": "2400"},
		},
	},
	"wireworld": {
		"blank": {Sim: "wireworld", Width: 64, Height: 48, Scale: 12},
	},
	"bml": {
		"free-flow": {
			Sim: "bml", Width: 128, Height: 128,
			Params: map[string]string{"density": "0.25"},
		},
		"gridlock": {
			Sim: "bml", Width: 128, Height: 128,
			Params: map[string]string{"density": "0.45"},
		},
	},
	"nasch": {
		"highway": {
			Sim: "nasch", Width: 160, Height: 32,
			Params: map[string]string{"vmax": "5", "break_probability": "0.1", "vertical": "0", "density": "0.15"},
		},
		"stop-and-go": {
			Sim: "nasch", Width: 160, Height: 32,
			Params: map[string]string{"vmax": "5", "break_probability": "0.5", "vertical": "0", "density": "0.35"},
		},
		"city": {
			Sim: "nasch", Width: 96, Height: 96,
			Params: map[string]string{"vmax": "3", "break_probability": "0.2", "turn_probability": "0.05", "density": "0.2"},
		},
	},
	"briansbrain": {
		"storm": {Sim: "briansbrain", Width: 160, Height: 120},
	},
	"elementary": {
		"rule30": {
			Sim: "elementary", Width: 201, Height: 120,
			Params: map[string]string{"rule": "30"},
		},
		"rule110": {
			Sim: "elementary", Width: 201, Height: 120,
			Params: map[string]string{"rule": "110", "random": "true"},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(sim, name string) *Config {
	byName, ok := Presets[sim]
	if !ok {
		return nil
	}
	p, ok := byName[name]
	if !ok {
		return nil
	}
	out := &Config{}
	out.Overlay(p)
	return out
}
