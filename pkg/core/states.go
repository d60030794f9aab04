package core

import "fmt"

// StateSet is the closed, ordered set of values a rule admits in a cell. The
// first value is the null (empty) state and the order defines the toggle cycle.
type StateSet[C comparable] struct {
	values []C
	index  map[C]int
}

// NewStateSet builds a state set. It panics on an empty or duplicated list since
// rules declare their states statically.
func NewStateSet[C comparable](values ...C) *StateSet[C] {
	if len(values) == 0 {
		panic("core: state set needs at least one value")
	}
	s := &StateSet[C]{values: append([]C(nil), values...), index: make(map[C]int, len(values))}
	for i, v := range s.values {
		if _, dup := s.index[v]; dup {
			panic(fmt.Sprintf("core: duplicate state %v", v))
		}
		s.index[v] = i
	}
	return s
}

// Values returns the declared values in cycle order.
func (s *StateSet[C]) Values() []C { return s.values }

// Len returns the number of declared values.
func (s *StateSet[C]) Len() int { return len(s.values) }

// Null returns the empty state.
func (s *StateSet[C]) Null() C { return s.values[0] }

// Contains reports whether v is declared.
func (s *StateSet[C]) Contains(v C) bool {
	_, ok := s.index[v]
	return ok
}

// Index returns the position of v in the cycle.
func (s *StateSet[C]) Index(v C) (int, bool) {
	i, ok := s.index[v]
	return i, ok
}

// At returns the value at position i.
func (s *StateSet[C]) At(i int) (C, bool) {
	if i < 0 || i >= len(s.values) {
		var zero C
		return zero, false
	}
	return s.values[i], true
}

// Next returns the value following v in the cycle, wrapping past the last one.
// Undeclared values restart the cycle at the null state.
func (s *StateSet[C]) Next(v C) C {
	i, ok := s.index[v]
	if !ok {
		return s.values[0]
	}
	return s.values[(i+1)%len(s.values)]
}

// Digits returns the byte states 0..n-1, the common case for single-digit rules.
func Digits(n int) *StateSet[uint8] {
	vals := make([]uint8, n)
	for i := range vals {
		vals[i] = uint8(i)
	}
	return NewStateSet(vals...)
}
