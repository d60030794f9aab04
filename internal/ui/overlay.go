//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"torus-ca/pkg/engine"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional visuals on top of the grid: cell boundaries, the cell
// under the cursor and, for traffic models, the heading of every car.
type Overlay struct {
	sim          engine.Sim
	scale        int
	showGrid     bool
	showHeadings bool
	cursorX      int
	cursorY      int
	hasCursor    bool

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim engine.Sim, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{sim: sim, scale: scale, showGrid: scale >= 6}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers and tracks the hovered cell.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		o.showGrid = !o.showGrid
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		o.showHeadings = !o.showHeadings
	}
	mx, my := ebiten.CursorPosition()
	size := o.sim.Size()
	o.cursorX, o.cursorY = mx/o.scale, my/o.scale
	o.hasCursor = mx >= 0 && my >= 0 && o.cursorX < size.W && o.cursorY < size.H
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	s := float64(o.scale)
	if o.showGrid && o.scale >= 4 {
		line := color.RGBA{R: 80, G: 80, B: 90, A: 120}
		for x := 1; x < size.W; x++ {
			o.drawLine(screen, float64(x)*s, 0, float64(x)*s, float64(size.H)*s, 1, line)
		}
		for y := 1; y < size.H; y++ {
			o.drawLine(screen, 0, float64(y)*s, float64(size.W)*s, float64(y)*s, 1, line)
		}
	}
	if o.showHeadings && o.scale >= 4 {
		o.drawHeadings(screen, size.W, s)
	}
	if o.hasCursor {
		x0, y0 := float64(o.cursorX)*s, float64(o.cursorY)*s
		hi := color.RGBA{R: 255, G: 220, B: 60, A: 220}
		o.drawLine(screen, x0, y0, x0+s, y0, 1, hi)
		o.drawLine(screen, x0, y0+s, x0+s, y0+s, 1, hi)
		o.drawLine(screen, x0, y0, x0, y0+s, 1, hi)
		o.drawLine(screen, x0+s, y0, x0+s, y0+s, 1, hi)
	}
}

func (o *Overlay) drawHeadings(screen *ebiten.Image, w int, s float64) {
	states := o.sim.StateCount()
	tip := color.RGBA{R: 20, G: 20, B: 20, A: 255}
	for i, code := range o.sim.Cells() {
		dx, dy, ok := heading(states, code)
		if !ok {
			continue
		}
		cx := (float64(i%w) + 0.5) * s
		cy := (float64(i/w) + 0.5) * s
		reach := s * 0.35
		o.drawLine(screen, cx-float64(dx)*reach, cy-float64(dy)*reach, cx+float64(dx)*reach, cy+float64(dy)*reach, math.Max(1, s/8), tip)
		o.drawPoint(screen, cx+float64(dx)*reach, cy+float64(dy)*reach, math.Max(2, s/4), tip)
	}
}

// Cursor returns the hovered cell, if any.
func (o *Overlay) Cursor() (x, y int, ok bool) { return o.cursorX, o.cursorY, o.hasCursor }

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
