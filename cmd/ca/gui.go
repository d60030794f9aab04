//go:build ebiten

package main

import (
	"errors"
	"log/slog"

	"torus-ca/internal/app"
	"torus-ca/internal/render"
	"torus-ca/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

const (
	frameRate = 60
	hudWidth  = 260
)

func newGUICmd(f *flags) *cobra.Command {
	var noHUD bool
	cmd := &cobra.Command{
		Use:   "gui",
		Short: "run a simulation in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sim, err := f.build(cmd)
			if err != nil {
				return err
			}
			// The window redraws at a fixed frame rate; the pacer decides
			// which frames also step the simulation.
			l := newLoop(cfg, sim, core.NewFixedStep(cfg.TPS), slog.Default())
			panel := hudWidth
			if noHUD {
				panel = 0
			}
			game := app.New(l, app.Options{
				Scale:    cfg.Scale,
				HUDWidth: panel,
				Palette:  render.Palette(sim.Name(), sim.StateCount()),
			})
			size := sim.Size()
			ebiten.SetWindowTitle(sim.Caption())
			ebiten.SetTPS(frameRate)
			ebiten.SetWindowSize(app.WindowSize(size.W, size.H, cfg.Scale, panel))
			if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noHUD, "no-hud", false, "hide the parameter panel")
	return cmd
}
