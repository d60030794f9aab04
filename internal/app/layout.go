package app

import (
	"strconv"

	"torus-ca/internal/ui"
)

// WindowSize returns the window dimensions for a w×h grid drawn at scale with
// a HUD panel of hudWidth pixels on the right.
func WindowSize(w, h, scale, hudWidth int) (int, int) {
	width, height := w*scale, h*scale
	if hudWidth > 0 {
		width += hudWidth
		height = max(height, ui.MinPanelHeight)
	}
	return width, height
}

func itoa(v int) string     { return strconv.Itoa(v) }
func itoa64(v int64) string { return strconv.FormatInt(v, 10) }
