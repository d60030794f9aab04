package engine

import (
	"errors"
	"testing"

	"torus-ca/pkg/core"
)

func TestBaseFromMap(t *testing.T) {
	b, err := BaseFromMap(map[string]string{
		"w": "20", "h": "10", "seed": "-4", "placement": "clustered",
		"file": "in.txt", "dir": "out", "out": "run",
	})
	if err != nil {
		t.Fatalf("BaseFromMap: %v", err)
	}
	want := Base{Width: 20, Height: 10, Seed: -4, File: "in.txt", Placement: core.PlaceClustered, OutDir: "out", Prefix: "run"}
	if b != want {
		t.Fatalf("base = %+v, want %+v", b, want)
	}
}

func TestBaseFromMapErrors(t *testing.T) {
	for _, cfg := range []map[string]string{
		{"w": "-1"},
		{"h": "x"},
		{"seed": "1.5"},
		{"placement": "grid"},
	} {
		_, err := BaseFromMap(cfg)
		var cerr *core.ConfigError
		if !errors.As(err, &cerr) {
			t.Fatalf("BaseFromMap(%v) error = %v, want *core.ConfigError", cfg, err)
		}
	}
}

func TestProbability(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"0", 0, true},
		{"1", 1, true},
		{"0.25", 0.25, true},
		{"1.01", 0, false},
		{"NaN", 0, false},
		{"-0.5", 0, false},
	}
	for _, tc := range cases {
		got, err := Probability(map[string]string{"p": tc.in}, "p", 0)
		if (err == nil) != tc.ok {
			t.Fatalf("Probability(%q) err = %v", tc.in, err)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("Probability(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
