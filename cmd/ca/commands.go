package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"torus-ca/internal/config"
	"torus-ca/internal/loop"
	"torus-ca/internal/sweep"
	"torus-ca/internal/tui"
	"torus-ca/pkg/core"
	"torus-ca/pkg/engine"
	"torus-ca/pkg/persist"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

type parameterized interface {
	Parameters() core.ParameterSnapshot
}

type gridWriter interface {
	Lines() []string
	ExportTo(w io.Writer) error
}

func newSimsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sims",
		Short: "list the available simulations",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("SIM", "STATES", "PRESETS")
			for _, name := range engine.Names() {
				sim, err := engine.Build(name, map[string]string{"w": "4", "h": "4"})
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				t.Row(name, strconv.Itoa(sim.StateCount()), strings.Join(presetNames(name), ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func presetNames(sim string) []string {
	names := make([]string, 0, len(config.Presets[sim]))
	for name := range config.Presets[sim] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newParamsCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "show the parameters of the configured simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sim, err := f.build(cmd)
			if err != nil {
				return err
			}
			p, ok := sim.(parameterized)
			if !ok {
				return fmt.Errorf("%s exposes no parameters", sim.Name())
			}
			out := cmd.OutOrStdout()
			for _, g := range p.Parameters().Groups {
				fmt.Fprintln(out, header.Render(g.Name))
				t := table.New().Border(lipgloss.HiddenBorder()).Headers("KEY", "LABEL", "TYPE", "VALUE")
				for _, param := range g.Params {
					t.Row(param.Key, param.Label, string(param.Type), param.Value)
				}
				fmt.Fprintln(out, t.Render())
			}
			return nil
		},
	}
}

func newConfigCmd(f *flags) *cobra.Command {
	var write string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the resolved configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			if write != "" {
				return config.Save(write, cfg)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&write, "write", "", "write the configuration to this file instead")
	return cmd
}

func newRunCmd(f *flags) *cobra.Command {
	var (
		steps int
		save  string
		quiet bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "step a simulation headless and print the final grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sim, err := f.build(cmd)
			if err != nil {
				return err
			}
			for i := 0; i < steps; i++ {
				sim.Step()
			}
			gw, ok := sim.(gridWriter)
			if !ok {
				return fmt.Errorf("%s cannot be printed", sim.Name())
			}
			out := cmd.OutOrStdout()
			if save != "" {
				if err := saveGrid(save, gw); err != nil {
					return err
				}
			}
			if !quiet {
				for _, line := range gw.Lines() {
					fmt.Fprintln(out, line)
				}
			}
			fmt.Fprintln(out, sim.Caption())
			return nil
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 0, "number of steps to run")
	cmd.Flags().StringVar(&save, "save", "", "write the final grid to this file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the caption")
	return cmd
}

func saveGrid(path string, gw gridWriter) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gw.ExportTo(file); err != nil {
		file.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return file.Close()
}

func newSweepCmd(f *flags) *cobra.Command {
	var (
		opts     sweep.Options
		from, to float64
		points   int
		width    int
		height   int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "average a sim's metric over a range of one parameter",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			opts.Sim = cfg.Sim
			opts.Params = cfg.SimParams()
			opts.Seed = cfg.SeedOr(engine.DefaultBase().Seed)
			opts.Values = sweep.Range(from, to, points)
			res, err := sweep.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			t := table.New().Border(lipgloss.NormalBorder()).Headers(strings.ToUpper(res.Key), "MEAN", "MIN", "MAX", "RUNS")
			for _, p := range res.Points {
				t.Row(
					strconv.FormatFloat(p.Value, 'f', 3, 64),
					strconv.FormatFloat(p.Mean, 'f', 4, 64),
					strconv.FormatFloat(p.Min, 'f', 4, 64),
					strconv.FormatFloat(p.Max, 'f', 4, 64),
					strconv.Itoa(p.Runs),
				)
			}
			fmt.Fprintln(out, t.Render())
			if len(res.Points) > 1 {
				fmt.Fprintln(out, res.Plot(width, height))
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&opts.Key, "key", "density", "parameter to vary")
	fl.Float64Var(&from, "from", 0.1, "first value")
	fl.Float64Var(&to, "to", 0.6, "last value")
	fl.IntVar(&points, "points", 6, "number of values")
	fl.IntVar(&opts.Seeds, "seeds", 3, "runs per value")
	fl.IntVar(&opts.Warmup, "warmup", 50, "steps before measuring")
	fl.IntVar(&opts.Steps, "steps", 200, "measured steps")
	fl.IntVar(&opts.Workers, "workers", 0, "worker goroutines (default NumCPU)")
	fl.IntVar(&width, "plot-width", 60, "chart width")
	fl.IntVar(&height, "plot-height", 12, "chart height")
	return cmd
}

func newTUICmd(f *flags) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "run a simulation in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the UI; logs go to a file or nowhere.
			var sink io.Writer = io.Discard
			if logFile != "" {
				file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer file.Close()
				sink = file
			}
			log, err := newLogger(sink, f.logLevel, f.logFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(log)

			cfg, sim, err := f.build(cmd)
			if err != nil {
				return err
			}
			l := newLoop(cfg, sim, nil, log)
			return tui.Run(l, tui.Options{TPS: cfg.TPS, Scale: cfg.Scale, Logger: log})
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	return cmd
}

func newLoop(cfg *config.Config, sim engine.Sim, pacer loop.Pacer, log *slog.Logger) *loop.Loop {
	return loop.New(sim, loop.Options{
		Manual:  cfg.Manual,
		Running: cfg.Running,
		Pacer:   pacer,
		Shots:   persist.Dir{Path: cfg.Dir, Prefix: "screenshot"},
		Seed:    cfg.SeedOr(engine.DefaultBase().Seed),
		Logger:  log,
	})
}
