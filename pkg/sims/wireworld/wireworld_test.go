package wireworld

import (
	"testing"

	"torus-ca/pkg/core"
)

func TestConductorNextToHeadCycles(t *testing.T) {
	g := core.NewGrid(5, 5, states)
	g.Set(1, 2, Head)
	g.Set(2, 2, Conductor)
	rule := New()

	want := []uint8{Head, Tail, Conductor}
	for i, w := range want {
		g = rule.Step(g)
		if got := g.Get(2, 2); got != w {
			t.Fatalf("step %d: cell = %d, want %d", i+1, got, w)
		}
	}
}

func TestElectronTravelsAlongWire(t *testing.T) {
	g := core.NewGrid(8, 3, states)
	for x := 0; x < 8; x++ {
		g.Set(x, 1, Conductor)
	}
	g.Set(1, 1, Tail)
	g.Set(2, 1, Head)
	rule := New()
	for i := 0; i < 3; i++ {
		g = rule.Step(g)
	}
	if g.Get(5, 1) != Head || g.Get(4, 1) != Tail {
		t.Fatalf("electron should be at x=5 after three steps, row = %v", g.Cells()[8:16])
	}
	if g.Count(Head) != 1 {
		t.Fatalf("heads = %d, want 1", g.Count(Head))
	}
}

func TestConductorWithThreeHeadsStays(t *testing.T) {
	g := core.NewGrid(5, 5, states)
	g.Set(2, 2, Conductor)
	g.Set(1, 1, Head)
	g.Set(2, 1, Head)
	g.Set(3, 1, Head)
	next := New().Step(g)
	if next.Get(2, 2) != Conductor {
		t.Fatalf("conductor with three head neighbours became %d", next.Get(2, 2))
	}
}

func TestEmptyStaysEmpty(t *testing.T) {
	g := core.NewGrid(3, 3, states)
	g.Set(0, 0, Head)
	next := New().Step(g)
	if next.Get(1, 1) != Empty {
		t.Fatal("empty cells never change")
	}
}

func TestNewSimStartsEmpty(t *testing.T) {
	c := DefaultConfig()
	c.Width, c.Height = 12, 7
	sim, err := NewSim(c)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	if sim.Population() != 0 || sim.StateCount() != 4 {
		t.Fatalf("population=%d states=%d, want 0 and 4", sim.Population(), sim.StateCount())
	}
}
