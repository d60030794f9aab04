package engine

import (
	"strconv"

	"torus-ca/pkg/core"
)

// Base holds the settings every simulation shares.
type Base struct {
	Width     int
	Height    int
	Seed      int64
	File      string
	Placement core.Placement
	OutDir    string
	Prefix    string
}

// DefaultBase returns the standard shared configuration.
func DefaultBase() Base {
	return Base{Width: 64, Height: 64, Seed: 42, Placement: core.PlaceUniform}
}

// BaseFromMap populates the shared settings from a string map (flag-style
// key/value pairs). Unparsable or out-of-range values fail with
// core.ErrInvalidConfiguration.
func BaseFromMap(cfg map[string]string) (Base, error) {
	b := DefaultBase()
	if cfg == nil {
		return b, nil
	}
	var err error
	if b.Width, err = PositiveInt(cfg, "w", b.Width); err != nil {
		return b, err
	}
	if b.Height, err = PositiveInt(cfg, "h", b.Height); err != nil {
		return b, err
	}
	if v, ok := cfg["seed"]; ok {
		parsed, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return b, &core.ConfigError{Key: "seed", Reason: perr.Error()}
		}
		b.Seed = parsed
	}
	if v, ok := cfg["placement"]; ok {
		if b.Placement, err = core.ParsePlacement(v); err != nil {
			return b, err
		}
	}
	b.File = cfg["file"]
	b.OutDir = cfg["dir"]
	b.Prefix = cfg["out"]
	return b, nil
}

// PositiveInt reads key as an integer > 0, returning def when absent.
func PositiveInt(cfg map[string]string, key string, def int) (int, error) {
	v, ok := cfg[key]
	if !ok {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def, &core.ConfigError{Key: key, Reason: err.Error()}
	}
	if parsed <= 0 {
		return def, &core.ConfigError{Key: key, Reason: "must be > 0"}
	}
	return parsed, nil
}

// NonNegativeInt reads key as an integer >= 0, returning def when absent.
func NonNegativeInt(cfg map[string]string, key string, def int) (int, error) {
	v, ok := cfg[key]
	if !ok {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def, &core.ConfigError{Key: key, Reason: err.Error()}
	}
	if parsed < 0 {
		return def, &core.ConfigError{Key: key, Reason: "must be >= 0"}
	}
	return parsed, nil
}

// Probability reads key as a float in [0, 1], returning def when absent.
func Probability(cfg map[string]string, key string, def float64) (float64, error) {
	v, ok := cfg[key]
	if !ok {
		return def, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, &core.ConfigError{Key: key, Reason: err.Error()}
	}
	if !(parsed >= 0 && parsed <= 1) {
		return def, &core.ConfigError{Key: key, Reason: "must be within [0, 1]"}
	}
	return parsed, nil
}
