package nasch

import (
	"errors"
	"testing"

	"github.com/onsi/gomega"

	"torus-ca/pkg/core"
	"torus-ca/pkg/persist"
)

func newRule(t *testing.T, mutate func(*Config)) *NaSch {
	t.Helper()
	c := DefaultConfig()
	c.BreakProbability = 0
	if mutate != nil {
		mutate(&c)
	}
	rule, err := New(c)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rule
}

func TestLoneCarReachesVmax(t *testing.T) {
	rule := newRule(t, func(c *Config) { c.Vmax = 5 })
	g := core.NewGrid(40, 3, rule.States())
	if err := g.Set(0, 1, Car{Speed: 0, Dir: East}); err != nil {
		t.Fatalf("set: %v", err)
	}

	for step := 1; step <= 20; step++ {
		g = rule.Step(g)
		if g.Occupied() != 1 {
			t.Fatalf("step %d: %d cars, want 1", step, g.Occupied())
		}
		var car Car
		for _, c := range g.Cells() {
			if c != Empty {
				car = c
			}
		}
		want := min(step, 5)
		if int(car.Speed) != want {
			t.Fatalf("step %d: speed %d, want %d", step, car.Speed, want)
		}
	}
}

func TestCarSlowsToTheGapAhead(t *testing.T) {
	rule := newRule(t, func(c *Config) { c.Vmax = 5 })
	g := core.NewGrid(10, 1, rule.States())
	g.Set(0, 0, Car{Speed: 5, Dir: East})
	g.Set(3, 0, Car{Speed: 0, Dir: East})

	g = rule.Step(g)
	// Gaps are measured before anything moves, so the follower stops one cell
	// short of where the leader started.
	if got := g.Get(2, 0); got != (Car{Speed: 2, Dir: East}) {
		t.Fatalf("follower = %v, want east@2 at x=2 (row %v)", got, g.Cells())
	}
	if got := g.Get(4, 0); got != (Car{Speed: 1, Dir: East}) {
		t.Fatalf("leader = %v, want east@1 at x=4 (row %v)", got, g.Cells())
	}
}

func TestHeadOnCarsNeverPass(t *testing.T) {
	rule := newRule(t, func(c *Config) { c.Vmax = 5 })
	g := core.NewGrid(10, 1, rule.States())
	g.Set(0, 0, Car{Speed: 5, Dir: East})
	g.Set(3, 0, Car{Speed: 0, Dir: West})

	g = rule.Step(g)
	if got := g.Get(2, 0); got != (Car{Speed: 2, Dir: East}) {
		t.Fatalf("east car = %v, want east@2 at x=2 (row %v)", got, g.Cells())
	}
	// The west-bound car wanted x=2 as well and loses to the earlier scan.
	if got := g.Get(3, 0); got != (Car{Speed: 0, Dir: West}) {
		t.Fatalf("west car = %v, want west@0 held at x=3 (row %v)", got, g.Cells())
	}
}

func TestConflictResolvedByScanOrder(t *testing.T) {
	rule := newRule(t, func(c *Config) { c.Vmax = 1 })
	g := core.NewGrid(3, 3, rule.States())
	// Both cars aim at (1,1): the south-bound car scans first and wins.
	g.Set(1, 0, Car{Speed: 1, Dir: South})
	g.Set(0, 1, Car{Speed: 1, Dir: East})

	g = rule.Step(g)
	if got := g.Get(1, 1); got != (Car{Speed: 1, Dir: South}) {
		t.Fatalf("(1,1) = %v, want south@1", got)
	}
	if got := g.Get(0, 1); got != (Car{Speed: 0, Dir: East}) {
		t.Fatalf("(0,1) = %v, want east car held at speed 0", got)
	}
}

func TestCarsAreConserved(t *testing.T) {
	c := DefaultConfig()
	c.Width, c.Height, c.Density = 20, 20, 0.4
	c.TurnProbability = 0.2
	sim, err := NewSim(c)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	cars := sim.Population()
	for i := 0; i < 100; i++ {
		sim.Step()
		if sim.Population() != cars {
			t.Fatalf("step %d: %d cars, want %d", i, sim.Population(), cars)
		}
		for _, car := range sim.Grid().Cells() {
			if int(car.Speed) > c.Vmax {
				t.Fatalf("speed %d exceeds vmax", car.Speed)
			}
		}
	}
}

func TestBrakingNeverUnderflows(t *testing.T) {
	rule := newRule(t, func(c *Config) {
		c.Vmax = 0
		c.BreakProbability = 1
	})
	g := core.NewGrid(4, 4, rule.States())
	g.Set(1, 1, Car{Dir: North})
	g = rule.Step(g)
	if g.Get(1, 1) != (Car{Dir: North}) {
		t.Fatalf("car with vmax 0 must stay put, got %v", g.Cells())
	}
}

func TestTurningRestartsFromStandstill(t *testing.T) {
	rule := newRule(t, func(c *Config) { c.TurnProbability = 1 })
	g := core.NewGrid(9, 9, rule.States())
	g.Set(4, 4, Car{Speed: 3, Dir: East})
	g = rule.Step(g)
	var car Car
	for _, c := range g.Cells() {
		if c != Empty {
			car = c
		}
	}
	if car.Dir.Horizontal() {
		t.Fatalf("car should have turned onto a column, got %v", car)
	}
	if car.Speed != 1 {
		t.Fatalf("turned car speed = %d, want 1 after one acceleration", car.Speed)
	}
}

func TestConfigValidation(t *testing.T) {
	for _, cfg := range []map[string]string{
		{"vmax": "-1"},
		{"vmax": "12"},
		{"break_probability": "1.2"},
		{"break_probability": "NaN"},
		{"turn_probability": "-0.1"},
	} {
		if _, err := FromMap(cfg); !errors.Is(err, core.ErrInvalidConfiguration) {
			t.Fatalf("FromMap(%v) error = %v, want ErrInvalidConfiguration", cfg, err)
		}
	}
	if _, err := New(Config{Vmax: 3, BreakProbability: 2}); !errors.Is(err, core.ErrInvalidConfiguration) {
		t.Fatalf("New with p=2 error = %v", err)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	g := gomega.NewWithT(t)
	lines := []string{
		"0041000032",
		"1300000054",
	}
	grid, err := persist.Parse(lines, Codec{}, StateSet(5))
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(grid.W).To(gomega.Equal(5))
	g.Expect(grid.Get(1, 0)).To(gomega.Equal(Car{Speed: 4, Dir: East}))
	g.Expect(grid.Get(0, 1)).To(gomega.Equal(Car{Speed: 1, Dir: West}))
	g.Expect(persist.Lines(grid, Codec{})).To(gomega.Equal(lines))
}

func TestCodecRejectsBadCells(t *testing.T) {
	g := gomega.NewWithT(t)
	for _, line := range []string{"05", "70", "16", "001"} {
		_, err := persist.Parse([]string{line}, Codec{}, StateSet(5))
		g.Expect(err).To(gomega.MatchError(core.ErrMalformedGridFile), "line %q", line)
	}
}

func TestParametersAndControls(t *testing.T) {
	rule := newRule(t, nil)
	if !rule.SetFloatParameter("break_probability", 1.7) {
		t.Fatal("break_probability should be adjustable")
	}
	p, ok := rule.Parameters().Lookup("break_probability")
	if !ok || p.Value != "1" {
		t.Fatalf("break_probability = %+v, want clamped to 1", p)
	}
	if rule.SetFloatParameter("vmax", 3) {
		t.Fatal("vmax is fixed after construction")
	}
}
