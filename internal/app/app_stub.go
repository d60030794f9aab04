//go:build !ebiten

package app

import (
	"errors"
	"image/color"
	"log/slog"

	"torus-ca/internal/loop"
)

// ErrNoGUI is returned by the headless build.
var ErrNoGUI = errors.New("app: the window front end requires building with the 'ebiten' tag")

// Options configures the window front end.
type Options struct {
	Scale    int
	HUDWidth int
	Palette  []color.RGBA
	Logger   *slog.Logger
}

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// New returns a placeholder; Update reports ErrNoGUI.
func New(*loop.Loop, Options) *Game { return &Game{} }

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error { return ErrNoGUI }

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
