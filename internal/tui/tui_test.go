package tui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"torus-ca/internal/loop"
	"torus-ca/pkg/persist"
	"torus-ca/pkg/sims/life"

	tea "github.com/charmbracelet/bubbletea"
)

func newModel(t *testing.T, opts loop.Options) *Model {
	t.Helper()
	cfg := life.DefaultConfig()
	cfg.Width, cfg.Height = 6, 4
	cfg.Alive = 0
	sim, err := life.NewSim(cfg)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(loop.New(sim, opts), Options{TPS: 20, Logger: opts.Logger})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeysQueueUntilTick(t *testing.T) {
	m := newModel(t, loop.Options{})
	m.Update(runes("n"))
	if m.loop.Sim().Generation() != 0 {
		t.Fatalf("key stepped before the tick")
	}
	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatalf("tick did not schedule the next one")
	}
	if got := m.loop.Sim().Generation(); got != 1 {
		t.Fatalf("generation = %d, want 1", got)
	}
}

func TestCursorWrapsAndToggles(t *testing.T) {
	m := newModel(t, loop.Options{})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cx != 5 || m.cy != 3 {
		t.Fatalf("cursor = %d,%d, want 5,3", m.cx, m.cy)
	}
	m.Update(runes("t"))
	m.Update(tickMsg(time.Now()))
	sim := m.loop.Sim()
	if got := sim.Cells()[3*6+5]; got != 1 {
		t.Fatalf("cell = %d, want 1", got)
	}
	m.Update(runes("0"))
	m.Update(tickMsg(time.Now()))
	if sim.Population() != 0 {
		t.Fatalf("population = %d after setting 0", sim.Population())
	}
}

func TestPauseRunsOnTicks(t *testing.T) {
	m := newModel(t, loop.Options{})
	m.Update(runes("p"))
	m.Update(tickMsg(time.Now()))
	m.Update(tickMsg(time.Now()))
	if m.frame.State != loop.Running {
		t.Fatalf("state = %v, want running", m.frame.State)
	}
	if got := m.loop.Sim().Generation(); got != 2 {
		t.Fatalf("generation = %d, want 2", got)
	}
	if len(m.history) != 2 {
		t.Fatalf("history = %v", m.history)
	}
}

func TestQuitStopsLoop(t *testing.T) {
	m := newModel(t, loop.Options{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("quit returned no command")
	}
	if m.loop.State() != loop.Stopped {
		t.Fatalf("state = %v, want stopped", m.loop.State())
	}
	if m.View() != "" {
		t.Fatalf("view after quit should be empty")
	}
}

func TestScreenshotWritesPNG(t *testing.T) {
	dir := t.TempDir()
	m := newModel(t, loop.Options{Shots: persistDir(dir)})
	m.Update(runes("s"))
	m.Update(tickMsg(time.Now()))
	path := filepath.Join(dir, "shot0.png")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("screenshot missing: %v", err)
	}
	if !strings.Contains(m.View(), "saved "+path) {
		t.Fatalf("view does not report the screenshot")
	}
}

func TestViewShowsCaptionAndGrid(t *testing.T) {
	m := newModel(t, loop.Options{Manual: true})
	view := m.View()
	if !strings.Contains(view, "life | gen 0") {
		t.Fatalf("caption missing from view:\n%s", view)
	}
	if !strings.Contains(view, "(manual)") {
		t.Fatalf("manual marker missing")
	}
	if got := strings.Count(view, "██"); got != 6*4-1 {
		t.Fatalf("rendered %d blocks, want %d", got, 6*4-1)
	}
}

func persistDir(path string) persist.Dir { return persist.Dir{Path: path, Prefix: "shot"} }
