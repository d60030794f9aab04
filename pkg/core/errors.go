package core

import (
	"errors"
	"fmt"
)

// Domain errors for grid and rule operations.
var (
	// ErrInvalidCellValue indicates a mutation with a value outside the rule's states.
	ErrInvalidCellValue = errors.New("ca: invalid cell value")

	// ErrMalformedGridFile indicates a persisted grid that cannot be parsed.
	ErrMalformedGridFile = errors.New("ca: malformed grid file")

	// ErrInvalidConfiguration indicates rule parameters outside their valid range.
	ErrInvalidConfiguration = errors.New("ca: invalid configuration")

	// ErrPlacementExhausted indicates a random placement found too few empty cells.
	ErrPlacementExhausted = errors.New("ca: placement exhausted")
)

// CellValueError reports a rejected cell mutation.
type CellValueError struct {
	X, Y  int
	Value any
}

func (e *CellValueError) Error() string {
	if e.X < 0 || e.Y < 0 {
		return fmt.Sprintf("%v: %v", ErrInvalidCellValue, e.Value)
	}
	return fmt.Sprintf("%v: %v at (%d,%d)", ErrInvalidCellValue, e.Value, e.X, e.Y)
}

func (e *CellValueError) Unwrap() error { return ErrInvalidCellValue }

// MalformedError reports the first offending line of a grid file (1-based).
type MalformedError struct {
	Line   int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%v: line %d: %s", ErrMalformedGridFile, e.Line, e.Reason)
}

func (e *MalformedError) Unwrap() error { return ErrMalformedGridFile }

// ConfigError reports an out-of-range or unparsable configuration value.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidConfiguration, e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

// PlacementError reports how many of the requested entities could be placed.
type PlacementError struct {
	Requested int
	Placed    int
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("%v: placed %d of %d", ErrPlacementExhausted, e.Placed, e.Requested)
}

func (e *PlacementError) Unwrap() error { return ErrPlacementExhausted }

// Shortfall returns how many entities could not be placed.
func (e *PlacementError) Shortfall() int { return e.Requested - e.Placed }
