// Package tui runs a simulation loop inside a terminal using bubbletea.
package tui

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"torus-ca/internal/loop"
	"torus-ca/internal/render"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	warn   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	cursor = lipgloss.NewStyle().Reverse(true)
)

const historyLen = 60

const keyHelp = "space pause  n step  enter toggle  0-9 set  c clear  e export  s shot  r reset  x randomize  q quit"

type metered interface {
	Metric() float64
}

// Options configures the terminal front end.
type Options struct {
	// TPS is the tick rate; the loop steps at most once per tick.
	TPS int
	// Scale is the pixel size of a cell in screenshots.
	Scale   int
	Palette []color.RGBA
	Logger  *slog.Logger
}

type tickMsg time.Time

// Model is the bubbletea model wrapping a loop.
type Model struct {
	loop     *loop.Loop
	queue    loop.Queue
	interval time.Duration
	scale    int
	palette  []color.RGBA
	glyphs   []string
	log      *slog.Logger

	cx, cy  int
	frame   loop.Frame
	history []float64
	status  string
	done    bool
}

// New builds a model for l.
func New(l *loop.Loop, opts Options) *Model {
	if opts.TPS <= 0 {
		opts.TPS = 10
	}
	if opts.Scale <= 0 {
		opts.Scale = 4
	}
	sim := l.Sim()
	palette := opts.Palette
	if palette == nil {
		palette = render.Palette(sim.Name(), sim.StateCount())
	}
	m := &Model{
		loop:     l,
		interval: time.Second / time.Duration(opts.TPS),
		scale:    opts.Scale,
		palette:  palette,
		log:      opts.Logger,
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	m.glyphs = make([]string, len(palette))
	for i, c := range palette {
		m.glyphs[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(render.Hex(c))).Render("██")
	}
	m.frame = loop.Frame{State: l.State(), Generation: sim.Generation(), Caption: sim.Caption()}
	return m
}

// Run starts a full-screen program and blocks until the user quits.
func Run(l *loop.Loop, opts Options) error {
	_, err := tea.NewProgram(New(l, opts), tea.WithAltScreen()).Run()
	return err
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init schedules the first tick.
func (m *Model) Init() tea.Cmd { return m.tick() }

// Update handles keys and ticks.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if m.advance() {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	size := m.loop.Sim().Size()
	switch key := msg.String(); key {
	case "q", "esc", "ctrl+c":
		m.queue.PushKind(loop.Quit)
		m.advance()
		return m, tea.Quit
	case "up", "k":
		m.cy = (m.cy - 1 + size.H) % size.H
	case "down", "j":
		m.cy = (m.cy + 1) % size.H
	case "left", "h":
		m.cx = (m.cx - 1 + size.W) % size.W
	case "right", "l":
		m.cx = (m.cx + 1) % size.W
	case " ", "space", "p":
		m.queue.PushKind(loop.Pause)
	case "n":
		m.queue.PushKind(loop.Advance)
	case "enter", "t":
		m.queue.Push(loop.Toggle(m.cx, m.cy))
	case "c":
		m.queue.PushKind(loop.Clear)
	case "e":
		m.queue.PushKind(loop.Export)
	case "s":
		m.queue.PushKind(loop.Screenshot)
	case "r":
		m.queue.PushKind(loop.Reset)
	case "x":
		m.queue.PushKind(loop.Randomize)
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			m.queue.Push(loop.SetCell(m.cx, m.cy, key[0]-'0'))
		}
	}
	return m, nil
}

// advance ticks the loop once and reports whether it has stopped.
func (m *Model) advance() bool {
	frame, err := m.loop.Tick(&m.queue)
	m.frame = frame
	if errors.Is(err, loop.ErrStopped) {
		m.done = true
		return true
	}
	if frame.Steps > 0 {
		if s, ok := m.loop.Sim().(metered); ok {
			m.history = append(m.history, s.Metric())
			if len(m.history) > historyLen {
				m.history = m.history[len(m.history)-historyLen:]
			}
		}
	}
	if frame.Screenshot != "" {
		m.saveScreenshot(frame.Screenshot)
	}
	return false
}

func (m *Model) saveScreenshot(path string) {
	sim := m.loop.Sim()
	size := sim.Size()
	if err := render.SavePNG(path, sim.Cells(), size.W, size.H, m.scale, m.palette); err != nil {
		m.log.Warn("screenshot failed", "path", path, "err", err)
		m.status = "screenshot failed: " + err.Error()
		return
	}
	m.status = "saved " + path
}

// View renders the grid, the caption and a metric chart.
func (m *Model) View() string {
	if m.done {
		return ""
	}
	sim := m.loop.Sim()
	size := sim.Size()
	cells := sim.Cells()

	var b strings.Builder
	b.WriteString(title.Render(m.frame.Caption))
	b.WriteString("  ")
	b.WriteString(dim.Render(m.frame.State.String()))
	if m.loop.Manual() {
		b.WriteString(dim.Render(" (manual)"))
	}
	b.WriteString("\n\n")
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			code := int(cells[y*size.W+x])
			if code >= len(m.glyphs) {
				code = len(m.glyphs) - 1
			}
			if x == m.cx && y == m.cy {
				b.WriteString(cursor.Render(fmt.Sprintf("%2d", code)))
				continue
			}
			b.WriteString(m.glyphs[code])
		}
		b.WriteByte('\n')
	}
	if len(m.history) > 1 {
		b.WriteByte('\n')
		b.WriteString(asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(min(historyLen, 2*size.W)),
			asciigraph.Caption("metric"),
		))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(dim.Render(fmt.Sprintf("cursor %d,%d  seed %d", m.cx, m.cy, m.loop.Seed())))
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(warn.Render(m.status))
	}
	b.WriteByte('\n')
	b.WriteString(dim.Render(keyHelp))
	b.WriteByte('\n')
	return b.String()
}
