// Package loop drives a simulation one frame at a time: it drains queued input
// events, steps the automaton when running and reports what the front end
// should draw.
package loop

import (
	"errors"
	"log/slog"

	"torus-ca/pkg/core"
	"torus-ca/pkg/edit"
	"torus-ca/pkg/engine"
	"torus-ca/pkg/persist"
)

// ErrStopped is returned by Tick once a Quit event has been processed.
var ErrStopped = errors.New("loop: stopped")

// State is the run state of the loop.
type State uint8

const (
	Paused State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	default:
		return "stopped"
	}
}

// Pacer decides whether a running loop should step on this tick.
// *core.FixedStep satisfies it.
type Pacer interface {
	ShouldStep() bool
}

var _ Pacer = (*core.FixedStep)(nil)

// Options configures a Loop.
type Options struct {
	// Manual disables automatic stepping; only Advance events step.
	Manual bool
	// Running starts the loop in the Running state instead of Paused.
	Running bool
	// Pacer throttles automatic steps. Nil steps on every tick.
	Pacer Pacer
	// Shots names screenshot files.
	Shots persist.Dir
	// Seed is used by Reset events.
	Seed   int64
	Logger *slog.Logger
}

// Frame describes the outcome of a tick.
type Frame struct {
	State      State
	Generation int
	Steps      int
	Caption    string
	// Screenshot is the file the front end should write the rendered frame
	// to, or empty.
	Screenshot string
}

// Loop is the simulation state machine.
type Loop struct {
	sim   engine.Sim
	opts  Options
	state State
	seed  int64
	log   *slog.Logger
}

// New wraps sim. The loop starts Paused unless opts.Running is set.
func New(sim engine.Sim, opts Options) *Loop {
	l := &Loop{sim: sim, opts: opts, seed: opts.Seed, log: opts.Logger}
	if l.log == nil {
		l.log = slog.Default()
	}
	if opts.Running {
		l.state = Running
	}
	return l
}

// Sim returns the driven simulation.
func (l *Loop) Sim() engine.Sim { return l.sim }

// State returns the current run state.
func (l *Loop) State() State { return l.state }

// Seed returns the seed the next Reset event will use.
func (l *Loop) Seed() int64 { return l.seed }

// Manual reports whether automatic stepping is disabled.
func (l *Loop) Manual() bool { return l.opts.Manual }

// Tick applies every queued event in order, then steps the simulation: once
// per Advance event, or once if running, not manual and the pacer allows it.
// Rejected edits are logged and skipped. After Quit, Tick returns ErrStopped.
func (l *Loop) Tick(q *Queue) (Frame, error) {
	if l.state == Stopped {
		return l.frame(0, ""), ErrStopped
	}
	advances := 0
	shot := ""
	var events []Event
	if q != nil {
		events = q.Drain()
	}
	for _, ev := range events {
		switch ev.Kind {
		case Quit:
			l.state = Stopped
			l.log.Info("simulation stopped", "sim", l.sim.Name(), "generation", l.sim.Generation())
			return l.frame(0, ""), ErrStopped
		case Pause:
			if l.state == Running {
				l.state = Paused
			} else {
				l.state = Running
			}
			l.log.Debug("run state changed", "state", l.state)
		case Screenshot:
			name, err := l.opts.Shots.Next("png")
			if err != nil {
				l.log.Warn("screenshot skipped", "err", err)
				continue
			}
			shot = name
		case Clear:
			l.apply(edit.Request{Kind: edit.Clear})
		case Export:
			l.apply(edit.Request{Kind: edit.Export})
		case Edit:
			l.apply(ev.Edit)
		case Advance:
			advances++
		case Randomize:
			l.restart("randomize", l.sim.Randomize())
		case Reset:
			l.restart("reset", l.sim.Reset(l.seed))
		case Reseed:
			l.seed = ev.Seed
			l.restart("reset", l.sim.Reset(l.seed))
		default:
			l.log.Warn("unknown event ignored", "kind", ev.Kind)
		}
	}

	steps := advances
	if steps == 0 && l.state == Running && !l.opts.Manual && (l.opts.Pacer == nil || l.opts.Pacer.ShouldStep()) {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		l.sim.Step()
	}
	return l.frame(steps, shot), nil
}

func (l *Loop) apply(req edit.Request) {
	if _, err := l.sim.Apply(req); err != nil {
		l.log.Warn("edit rejected", "sim", l.sim.Name(), "kind", req.Kind, "x", req.X, "y", req.Y, "err", err)
	}
}

func (l *Loop) restart(what string, err error) {
	// Placement shortfalls are already reported by the automaton.
	if err != nil && !errors.Is(err, core.ErrPlacementExhausted) {
		l.log.Warn(what+" failed", "sim", l.sim.Name(), "err", err)
		return
	}
	l.log.Debug(what, "sim", l.sim.Name(), "seed", l.seed)
}

func (l *Loop) frame(steps int, shot string) Frame {
	return Frame{
		State:      l.state,
		Generation: l.sim.Generation(),
		Steps:      steps,
		Caption:    l.sim.Caption(),
		Screenshot: shot,
	}
}
