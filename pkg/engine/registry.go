package engine

import (
	"fmt"
	"sort"

	"torus-ca/pkg/core"
	"torus-ca/pkg/edit"
)

// Sim defines the rule-agnostic contract front ends drive. Cells reports each
// cell as its position in the rule's state cycle.
type Sim interface {
	Name() string
	Size() core.Size
	Reset(seed int64) error
	Randomize() error
	Step()
	Cells() []uint8
	StateCount() int
	Generation() int
	Population() int
	Caption() string
	Apply(req edit.Request) (uint8, error)
}

// Factory constructs a Sim from flag-style key/value pairs.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Names returns the registered simulation names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build looks up name and constructs the simulation.
func Build(name string, cfg map[string]string) (Sim, error) {
	f, ok := sims[name]
	if !ok {
		return nil, fmt.Errorf("unknown sim %q (have %v)", name, Names())
	}
	return f(cfg)
}
