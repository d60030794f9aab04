// Command ca runs toroidal cellular automata headless, in a terminal or in a
// window (built with -tags ebiten).
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"torus-ca/internal/config"
	"torus-ca/pkg/core"
	"torus-ca/pkg/engine"
	_ "torus-ca/pkg/sims/bml"
	_ "torus-ca/pkg/sims/briansbrain"
	_ "torus-ca/pkg/sims/elementary"
	_ "torus-ca/pkg/sims/life"
	_ "torus-ca/pkg/sims/nasch"
	_ "torus-ca/pkg/sims/wireworld"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run builds the command tree and executes it against args. It is separate
// from main so tests can drive the CLI.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	root := newRootCmd()
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// flags holds everything the shared flag set binds.
type flags struct {
	configFile string
	preset     string
	sim        string
	width      int
	height     int
	seed       int64
	file       string
	output     string
	dir        string
	placement  string
	set        []string
	tps        int
	scale      int
	manual     bool
	running    bool
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "ca",
		Short:         "toroidal cellular automata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd.ErrOrStderr(), f.logLevel, f.logFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(log)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "config file (.yaml, .yml, .hcl or .json)")
	pf.StringVar(&f.preset, "preset", "", "named preset for the selected sim")
	pf.StringVar(&f.sim, "sim", "", "simulation to run (see 'ca sims')")
	pf.IntVar(&f.width, "width", 0, "grid width")
	pf.IntVar(&f.height, "height", 0, "grid height")
	pf.Int64Var(&f.seed, "seed", 0, "random seed")
	pf.StringVar(&f.file, "file", "", "load the initial grid from a text file")
	pf.StringVar(&f.output, "output", "", "file name prefix for exported grids")
	pf.StringVar(&f.dir, "dir", "", "directory for exported grids and screenshots")
	pf.StringVar(&f.placement, "placement", "", "initial placement: uniform or clustered")
	pf.StringArrayVar(&f.set, "set", nil, "sim parameter as key=value (repeatable)")
	pf.IntVar(&f.tps, "tps", 0, "simulation steps per second")
	pf.IntVar(&f.scale, "scale", 0, "pixels per cell")
	pf.BoolVar(&f.manual, "manual", false, "only step on demand")
	pf.BoolVar(&f.running, "running", false, "start running instead of paused")
	pf.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&f.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		newSimsCmd(),
		newParamsCmd(f),
		newConfigCmd(f),
		newRunCmd(f),
		newSweepCmd(f),
		newTUICmd(f),
		newGUICmd(f),
	)
	return root
}

// resolve layers the defaults, the config file, the preset and finally any
// flags given explicitly on the command line.
func (f *flags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configFile != "" {
		fromFile, err := config.Load(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg.Overlay(fromFile)
	}
	changed := cmd.Flags().Changed
	if changed("sim") {
		cfg.Sim = f.sim
	}
	if f.preset != "" {
		p := config.GetPreset(cfg.Sim, f.preset)
		if p == nil {
			return nil, &core.ConfigError{Key: "preset", Reason: fmt.Sprintf("%q is not a preset for %s", f.preset, cfg.Sim)}
		}
		cfg.Overlay(p)
	}

	set, err := config.ParseSet(f.set)
	if err != nil {
		return nil, err
	}
	over := &config.Config{
		Width:     f.width,
		Height:    f.height,
		File:      f.file,
		Output:    f.output,
		Dir:       f.dir,
		Placement: f.placement,
		TPS:       f.tps,
		Scale:     f.scale,
		Manual:    f.manual,
		Running:   f.running,
		Params:    set,
	}
	if changed("seed") {
		seed := f.seed
		over.Seed = &seed
	}
	cfg.Overlay(over)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// build resolves the configuration and constructs the selected sim.
func (f *flags) build(cmd *cobra.Command) (*config.Config, engine.Sim, error) {
	cfg, err := f.resolve(cmd)
	if err != nil {
		return nil, nil, err
	}
	sim, err := engine.Build(cfg.Sim, cfg.SimParams())
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("sim built", "sim", cfg.Sim, "size", fmt.Sprintf("%dx%d", sim.Size().W, sim.Size().H))
	return cfg, sim, nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, &core.ConfigError{Key: "log-level", Reason: err.Error()}
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, &core.ConfigError{Key: "log-format", Reason: fmt.Sprintf("unknown format %q", format)}
	}
}
