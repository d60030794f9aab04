package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"torus-ca/pkg/core"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := run(context.Background(), out, errOut, append(args, "--log-level", "error"))
	return out.String(), errOut.String(), err
}

func TestSimsListsEveryRule(t *testing.T) {
	out, _, err := execute(t, "sims")
	require.NoError(t, err)
	for _, name := range []string{"life", "wireworld", "bml", "nasch", "briansbrain", "elementary"} {
		require.Contains(t, out, name)
	}
	require.Contains(t, out, "stop-and-go")
}

func TestParamsShowsRuleGroup(t *testing.T) {
	out, _, err := execute(t, "params", "--sim", "nasch", "--width", "10", "--height", "10")
	require.NoError(t, err)
	require.Contains(t, out, "World")
	require.Contains(t, out, "break_probability")
}

func TestRunPrintsFinalGrid(t *testing.T) {
	out, _, err := execute(t, "run", "--sim", "bml", "--width", "8", "--height", "5", "--steps", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	for _, line := range lines[:5] {
		require.Len(t, line, 8)
	}
	require.Contains(t, lines[5], "gen 3")
}

func TestRunSavesLoadableGrid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	_, _, err := execute(t, "run", "--sim", "nasch", "--width", "6", "--height", "4", "--steps", "2", "--save", path, "--quiet")
	require.NoError(t, err)

	out, _, err := execute(t, "run", "--sim", "nasch", "--file", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, string(data)), "reloaded grid differs:\n%s\nvs\n%s", out, data)
}

func TestRunRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("010\n01\n"), 0o600))
	_, _, err := execute(t, "run", "--sim", "life", "--file", path)
	require.ErrorIs(t, err, core.ErrMalformedGridFile)
}

func TestRunRejectsBadSet(t *testing.T) {
	_, _, err := execute(t, "run", "--set", "density")
	require.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestUnknownSim(t *testing.T) {
	_, _, err := execute(t, "run", "--sim", "langton")
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown sim "langton"`)
}

func TestConfigLayersPresetAndFlags(t *testing.T) {
	out, _, err := execute(t, "config", "--sim", "nasch", "--preset", "highway", "--width", "50", "--set", "vmax=3")
	require.NoError(t, err)
	require.Contains(t, out, "sim: nasch")
	require.Contains(t, out, "width: 50")
	require.Contains(t, out, "height: 32")
	require.Contains(t, out, "vmax: \"3\"")
}

func TestConfigFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim: wireworld\nwidth: 12\nheight: 7\n"), 0o600))
	saved := filepath.Join(dir, "saved.yaml")
	_, _, err := execute(t, "config", "--config", path, "--height", "9", "--write", saved)
	require.NoError(t, err)
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	require.Contains(t, string(data), "sim: wireworld")
	require.Contains(t, string(data), "width: 12")
	require.Contains(t, string(data), "height: 9")
}

func TestUnknownPreset(t *testing.T) {
	_, _, err := execute(t, "config", "--sim", "life", "--preset", "highway")
	require.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestSweepPrintsTableAndChart(t *testing.T) {
	out, _, err := execute(t, "sweep", "--sim", "bml", "--width", "10", "--height", "10",
		"--points", "3", "--seeds", "1", "--warmup", "0", "--steps", "4", "--workers", "2")
	require.NoError(t, err)
	require.Contains(t, out, "DENSITY")
	require.Contains(t, out, "0.350")
	require.Contains(t, out, "bml: mean metric")
}

func TestLogFlagsValidated(t *testing.T) {
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"sims", "--log-format", "xml"})
	require.ErrorIs(t, err, core.ErrInvalidConfiguration)
	err = run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"sims", "--log-level", "loud"})
	require.ErrorIs(t, err, core.ErrInvalidConfiguration)
}
