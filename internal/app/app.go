//go:build ebiten

package app

import (
	"errors"
	"image/color"
	"log/slog"
	"time"

	"torus-ca/internal/loop"
	"torus-ca/internal/render"
	"torus-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Options configures the window front end.
type Options struct {
	Scale    int
	HUDWidth int
	Palette  []color.RGBA
	Logger   *slog.Logger
}

// Game adapts a simulation loop to the ebiten.Game interface. Input becomes
// loop events; the loop decides what to apply and when to step.
type Game struct {
	loop    *loop.Loop
	queue   loop.Queue
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	palette []color.RGBA
	log     *slog.Logger

	scale int
	frame loop.Frame

	brush     uint8
	painting  bool
	erasing   bool
	lastCellX int
	lastCellY int
}

// New constructs a Game for the provided loop.
func New(l *loop.Loop, opts Options) *Game {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	sim := l.Sim()
	size := sim.Size()
	palette := opts.Palette
	if palette == nil {
		palette = render.Palette(sim.Name(), sim.StateCount())
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Game{
		loop:    l,
		painter: render.NewGridPainter(size.W, size.H, palette),
		overlay: ui.NewOverlay(sim, opts.Scale),
		hud:     ui.NewHUD(sim, opts.HUDWidth),
		palette: palette,
		log:     log,
		scale:   opts.Scale,
	}
}

// Update translates input into events and ticks the loop.
func (g *Game) Update() error {
	g.readKeys()
	g.overlay.Update()
	size := g.loop.Sim().Size()
	overHUD := g.hud.Update(size.W*g.scale, g.status())
	if !overHUD {
		g.readMouse()
	}

	frame, err := g.loop.Tick(&g.queue)
	g.frame = frame
	if errors.Is(err, loop.ErrStopped) {
		return ebiten.Termination
	}
	if err != nil {
		return err
	}
	if frame.Screenshot != "" {
		g.saveScreenshot(frame.Screenshot)
	}
	ebiten.SetWindowTitle(frame.Caption + " | " + frame.State.String())
	return nil
}

func (g *Game) readKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.queue.PushKind(loop.Quit)
	}
	bindings := []struct {
		key  ebiten.Key
		kind loop.Kind
	}{
		{ebiten.KeySpace, loop.Pause},
		{ebiten.KeyP, loop.Pause},
		{ebiten.KeyN, loop.Advance},
		{ebiten.KeyC, loop.Clear},
		{ebiten.KeyE, loop.Export},
		{ebiten.KeyS, loop.Screenshot},
		{ebiten.KeyR, loop.Reset},
		{ebiten.KeyX, loop.Randomize},
	}
	for _, b := range bindings {
		if inpututil.IsKeyJustPressed(b.key) {
			g.queue.PushKind(b.kind)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.queue.Push(loop.Event{Kind: loop.Reseed, Seed: time.Now().UnixNano()})
	}
}

// readMouse implements brush painting: a left press toggles the cell and arms
// the brush with the resulting state, dragging paints that state, and the
// right button erases.
func (g *Game) readMouse() {
	x, y, ok := g.overlay.Cursor()
	if !ok {
		return
	}
	sim := g.loop.Sim()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		cur := sim.Cells()[y*sim.Size().W+x]
		g.brush = uint8((int(cur) + 1) % sim.StateCount())
		g.painting = true
		g.queue.Push(loop.Toggle(x, y))
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		g.erasing = true
		g.queue.Push(loop.SetCell(x, y, 0))
	case g.painting && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		if x != g.lastCellX || y != g.lastCellY {
			g.queue.Push(loop.SetCell(x, y, g.brush))
		}
	case g.erasing && ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		if x != g.lastCellX || y != g.lastCellY {
			g.queue.Push(loop.SetCell(x, y, 0))
		}
	default:
		g.painting, g.erasing = false, false
	}
	g.lastCellX, g.lastCellY = x, y
}

func (g *Game) status() []string {
	sim := g.loop.Sim()
	mode := g.frame.State.String()
	if g.loop.Manual() {
		mode += " (manual)"
	}
	return []string{
		mode,
		"gen " + itoa(sim.Generation()),
		"population " + itoa(sim.Population()),
		"seed " + itoa64(g.loop.Seed()),
	}
}

func (g *Game) saveScreenshot(path string) {
	sim := g.loop.Sim()
	size := sim.Size()
	if err := render.SavePNG(path, sim.Cells(), size.W, size.H, g.scale, g.palette); err != nil {
		g.log.Warn("screenshot failed", "path", path, "err", err)
		return
	}
	g.log.Info("screenshot saved", "path", path)
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	sim := g.loop.Sim()
	g.painter.Blit(screen, sim.Cells(), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowSize(g.loop.Sim().Size().W, g.loop.Sim().Size().H, g.scale, g.hud.Width())
}
