package core

// Rule advances a grid by one synchronous step. Step must read only from cur
// and return a freshly allocated grid; it never retains cur after returning.
type Rule[C comparable] interface {
	Name() string
	States() *StateSet[C]
	Step(cur *Grid[C]) *Grid[C]
}

// Resetter is implemented by rules that carry per-run state (turn counters,
// random streams) which must restart with the grid.
type Resetter interface {
	Reset(seed int64)
}

// Summarizer is implemented by rules that add detail to the window caption.
type Summarizer[C comparable] interface {
	Summary(g *Grid[C]) string
}

// Meter is implemented by rules that expose a scalar observable of the most
// recent step, used by parameter sweeps.
type Meter[C comparable] interface {
	Metric(g *Grid[C]) float64
}
