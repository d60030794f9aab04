//go:build !ebiten

package main

import (
	"torus-ca/internal/app"

	"github.com/spf13/cobra"
)

func newGUICmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "run a simulation in a window (requires -tags ebiten)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ErrNoGUI
		},
	}
}
