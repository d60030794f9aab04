//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"torus-ca/pkg/core"
	"torus-ca/pkg/engine"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// HUD renders the parameter panel to the right of the simulation view: the
// adjustable controls, then a status block and the key bindings.
type HUD struct {
	sim        engine.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
	status     []string

	knobs        []knob
	intSetter    core.IntParameterSetter
	floatSetter  core.FloatParameterSetter
	panelOffsetX int
	title        string

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim engine.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: sim, width: width, title: sim.Name()}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			h.knobs = append(h.knobs, knob{control: ctrl, value: "--"})
		}
		h.layoutKnobs()
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.intSetter = setter
	}
	if setter, ok := sim.(core.FloatParameterSetter); ok {
		h.floatSetter = setter
	}
	return h
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the cached parameter snapshot and handles clicks on the
// panel. It reports whether the cursor is over the panel so callers can skip
// grid edits for that click.
func (h *HUD) Update(panelOffsetX int, status []string) bool {
	if h == nil || h.width <= 0 {
		return false
	}
	h.panelOffsetX = panelOffsetX
	h.status = status
	if provider, ok := h.sim.(parameterProvider); ok {
		h.snapshot = provider.Parameters()
	} else {
		h.snapshot = core.ParameterSnapshot{}
	}
	h.syncKnobs()
	mx, _ := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return false
	}
	h.handleInput()
	return true
}

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := max(h.sim.Size().H*scale, MinPanelHeight)
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawKnobs()
	h.drawStatus()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) syncKnobs() {
	for i := range h.knobs {
		k := &h.knobs[i]
		param, ok := h.snapshot.Lookup(k.control.Key)
		if !ok {
			k.hasValue = false
			k.value = "--"
			continue
		}
		parsed, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			k.hasValue = false
			k.value = "--"
			continue
		}
		k.current = parsed
		k.hasValue = true
		if k.control.Type == core.ParamTypeFloat {
			k.value = formatFloat(k.control, parsed)
		} else {
			k.value = param.Value
		}
	}
}

func (h *HUD) handleInput() {
	if len(h.knobs) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	px := mx - h.panelOffsetX
	for i := range h.knobs {
		k := &h.knobs[i]
		if !k.hasValue {
			continue
		}
		if pointInRect(px, my, k.minusRect) {
			h.nudge(k, -1)
			return
		}
		if pointInRect(px, my, k.plusRect) {
			h.nudge(k, 1)
			return
		}
	}
}

func (h *HUD) nudge(k *knob, direction int) {
	target, ok := stepTarget(k.control, k.current, direction)
	if !ok {
		return
	}
	switch k.control.Type {
	case core.ParamTypeInt:
		if h.intSetter != nil && h.intSetter.SetIntParameter(k.control.Key, int(target)) {
			k.current = target
			k.value = strconv.Itoa(int(target))
		}
	case core.ParamTypeFloat:
		if h.floatSetter != nil && h.floatSetter.SetFloatParameter(k.control.Key, target) {
			k.current = target
			k.value = formatFloat(k.control, target)
		}
	}
}

func (h *HUD) canAdjust(k *knob, direction int) bool {
	switch k.control.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return false
		}
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return false
		}
	}
	_, ok := stepTarget(k.control, k.current, direction)
	return ok
}

func (h *HUD) drawKnobs() {
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, headerY, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	if len(h.knobs) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, headerY+infoSpacing, dimText)
		return
	}
	for i := range h.knobs {
		k := &h.knobs[i]
		labelY := k.top + labelBaseline
		text.Draw(h.panel, k.control.Label, face, panelPadding, labelY, brightText)
		valueColor := brightText
		if !k.hasValue {
			valueColor = dimText
		}
		bounds := text.BoundString(face, k.value)
		valueX := k.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, k.value, face, valueX, labelY, valueColor)

		h.drawButton(k.minusRect, "-", k.hasValue && h.canAdjust(k, -1))
		h.drawButton(k.plusRect, "+", k.hasValue && h.canAdjust(k, 1))
	}
}

// readouts lists the rule's fixed parameters, skipping the shared World group
// and anything already shown as a knob.
func (h *HUD) readouts() []string {
	var out []string
	for _, g := range h.snapshot.Groups {
		if g.Name == "World" {
			continue
		}
		for _, p := range g.Params {
			if h.isKnob(p.Key) {
				continue
			}
			out = append(out, fmt.Sprintf("%s: %s", p.Label, p.Value))
		}
	}
	return out
}

func (h *HUD) isKnob(key string) bool {
	for i := range h.knobs {
		if h.knobs[i].control.Key == key {
			return true
		}
	}
	return false
}

func (h *HUD) drawStatus() {
	face := basicfont.Face7x13
	y := controlsTop + max(len(h.knobs), 1)*lineHeight + statusGap
	for _, line := range h.readouts() {
		text.Draw(h.panel, line, face, panelPadding, y, dimText)
		y += statusLine
	}
	for _, line := range h.status {
		text.Draw(h.panel, line, face, panelPadding, y, brightText)
		y += statusLine
	}
	y += statusGap
	for _, k := range keyHelp {
		text.Draw(h.panel, fmt.Sprintf("%-6s %s", k[0], k[1]), face, panelPadding, y, dimText)
		y += statusLine
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutKnobs() {
	if h.width <= 0 {
		return
	}
	for i := range h.knobs {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.knobs[i].top = top
		h.knobs[i].minusRect = minusRect
		h.knobs[i].plusRect = plusRect
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

type knob struct {
	control  core.ParameterControl
	value    string
	current  float64
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

var (
	brightText = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimText    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

var keyHelp = [][2]string{
	{"space", "pause"},
	{"n", "step"},
	{"c", "clear"},
	{"e", "export"},
	{"s", "screenshot"},
	{"r", "reset"},
	{"x", "randomize"},
	{"t", "new seed"},
	{"lmb", "toggle, drag paints"},
	{"rmb", "erase"},
	{"g", "grid lines"},
	{"v", "headings"},
	{"q", "quit"},
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	controlsTop    = panelPadding + headerBaseline + 14
	statusGap      = 10
	statusLine     = 16
)
