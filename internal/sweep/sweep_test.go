package sweep

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"torus-ca/pkg/core"
	_ "torus-ca/pkg/sims/bml"
	_ "torus-ca/pkg/sims/nasch"

	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRange(t *testing.T) {
	got := Range(0.1, 0.5, 5)
	require.Len(t, got, 5)
	require.InDelta(t, 0.1, got[0], 1e-12)
	require.InDelta(t, 0.3, got[2], 1e-12)
	require.InDelta(t, 0.5, got[4], 1e-12)
	require.Equal(t, []float64{0.7}, Range(0.7, 0.9, 1))
}

func TestRunAggregatesEveryValue(t *testing.T) {
	opts := Options{
		Sim:     "bml",
		Params:  map[string]string{"w": "16", "h": "16"},
		Values:  []float64{0.1, 0.9},
		Seeds:   3,
		Steps:   10,
		Workers: 2,
		Logger:  quiet(),
	}
	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, "density", res.Key)
	require.Len(t, res.Points, 2)
	for _, p := range res.Points {
		require.Equal(t, 3, p.Runs)
		require.GreaterOrEqual(t, p.Mean, 0.0)
		require.LessOrEqual(t, p.Mean, 1.0)
		require.LessOrEqual(t, p.Min, p.Mean)
		require.GreaterOrEqual(t, p.Max, p.Mean)
	}

	again, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.InDeltaSlice(t, res.Means(), again.Means(), 1e-12)
	require.NotEmpty(t, res.Plot(40, 5))
	require.Contains(t, res.Plot(40, 5), "bml")
}

func TestRunSweepsTrafficBraking(t *testing.T) {
	res, err := Run(context.Background(), Options{
		Sim:     "nasch",
		Params:  map[string]string{"w": "20", "h": "20", "density": "0.1"},
		Key:     "break_probability",
		Values:  []float64{0, 1},
		Steps:   5,
		Warmup:  2,
		Workers: 1,
		Logger:  quiet(),
	})
	require.NoError(t, err)
	// Cars that always brake never speed up.
	require.Greater(t, res.Points[0].Mean, res.Points[1].Mean)
}

func TestRunReportsBadValue(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Sim:    "bml",
		Values: []float64{0.5, 2},
		Logger: quiet(),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, core.ErrInvalidConfiguration))
}

func TestRunUnknownSim(t *testing.T) {
	_, err := Run(context.Background(), Options{Sim: "nope", Values: []float64{0.1}, Logger: quiet()})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "unknown sim"))
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Sim: "bml", Values: []float64{0.2}, Steps: 1000, Logger: quiet()})
	require.ErrorIs(t, err, context.Canceled)
}
