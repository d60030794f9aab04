package loop_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"torus-ca/internal/loop"
	"torus-ca/pkg/persist"
	"torus-ca/pkg/sims/life"
)

type gate struct{ open bool }

func (g *gate) ShouldStep() bool { return g.open }

var _ = Describe("Loop", func() {
	var (
		cfg  *life.Config
		q    *loop.Queue
		logs *bytes.Buffer
		dir  string
	)

	build := func(opts loop.Options) *loop.Loop {
		s, err := life.NewSim(*cfg)
		Expect(err).NotTo(HaveOccurred())
		opts.Logger = slog.New(slog.NewTextHandler(logs, nil))
		return loop.New(s, opts)
	}

	BeforeEach(func() {
		c := life.DefaultConfig()
		c.Width, c.Height, c.Alive = 6, 6, 0
		cfg = &c
		q = &loop.Queue{}
		logs = &bytes.Buffer{}
		dir = GinkgoT().TempDir()
	})

	It("starts paused and applies edits without stepping", func() {
		l := build(loop.Options{})
		Expect(l.State()).To(Equal(loop.Paused))

		q.Push(loop.Toggle(2, 2))
		frame, err := l.Tick(q)
		Expect(err).NotTo(HaveOccurred())
		Expect(frame.Steps).To(BeZero())
		Expect(frame.State).To(Equal(loop.Paused))
		Expect(l.Sim().Cells()[2*6+2]).To(Equal(uint8(1)))
		Expect(q.Len()).To(BeZero())
	})

	It("flips between running and paused on each pause event", func() {
		l := build(loop.Options{})
		q.PushKind(loop.Pause)
		frame, _ := l.Tick(q)
		Expect(frame.State).To(Equal(loop.Running))
		Expect(frame.Steps).To(Equal(1))

		q.PushKind(loop.Pause)
		frame, _ = l.Tick(q)
		Expect(frame.State).To(Equal(loop.Paused))
		Expect(frame.Steps).To(BeZero())
		Expect(frame.Generation).To(Equal(1))
	})

	It("steps once per advance and skips the regular step", func() {
		l := build(loop.Options{Running: true})
		q.PushKind(loop.Advance)
		q.PushKind(loop.Advance)
		frame, err := l.Tick(q)
		Expect(err).NotTo(HaveOccurred())
		Expect(frame.Steps).To(Equal(2))
		Expect(frame.Generation).To(Equal(2))
	})

	It("only advances on request in manual mode", func() {
		l := build(loop.Options{Manual: true, Running: true})
		frame, _ := l.Tick(q)
		Expect(frame.Steps).To(BeZero())

		q.PushKind(loop.Advance)
		frame, _ = l.Tick(q)
		Expect(frame.Steps).To(Equal(1))
	})

	It("lets the pacer throttle automatic steps", func() {
		g := &gate{}
		l := build(loop.Options{Running: true, Pacer: g})
		frame, _ := l.Tick(q)
		Expect(frame.Steps).To(BeZero())
		g.open = true
		frame, _ = l.Tick(q)
		Expect(frame.Steps).To(Equal(1))
	})

	It("logs rejected edits and keeps going", func() {
		l := build(loop.Options{})
		q.Push(loop.SetCell(1, 1, 9))
		q.Push(loop.Toggle(0, 0))
		_, err := l.Tick(q)
		Expect(err).NotTo(HaveOccurred())
		Expect(logs.String()).To(ContainSubstring("edit rejected"))
		Expect(l.Sim().Population()).To(Equal(1))
	})

	It("clears and resets the board", func() {
		cfg.Alive = 10
		l := build(loop.Options{Seed: cfg.Seed})
		start := append([]uint8(nil), l.Sim().Cells()...)

		q.PushKind(loop.Clear)
		l.Tick(q)
		Expect(l.Sim().Population()).To(BeZero())

		q.PushKind(loop.Reset)
		l.Tick(q)
		Expect(l.Sim().Cells()).To(Equal(start))

		q.Push(loop.Event{Kind: loop.Reseed, Seed: 7})
		l.Tick(q)
		Expect(l.Seed()).To(Equal(int64(7)))
		Expect(l.Sim().Population()).To(Equal(10))
	})

	It("exports the grid and names screenshots", func() {
		cfg.OutDir = dir
		l := build(loop.Options{Shots: persist.Dir{Path: dir, Prefix: "shot"}})
		q.PushKind(loop.Export)
		q.PushKind(loop.Screenshot)
		frame, err := l.Tick(q)
		Expect(err).NotTo(HaveOccurred())
		Expect(frame.Screenshot).To(Equal(filepath.Join(dir, "shot0.png")))
		_, statErr := os.Stat(filepath.Join(dir, "life0.txt"))
		Expect(statErr).NotTo(HaveOccurred())
	})

	It("stops for good on quit", func() {
		l := build(loop.Options{Running: true})
		q.PushKind(loop.Quit)
		q.Push(loop.Toggle(1, 1))
		frame, err := l.Tick(q)
		Expect(err).To(MatchError(loop.ErrStopped))
		Expect(frame.State).To(Equal(loop.Stopped))
		Expect(l.Sim().Population()).To(BeZero())

		_, err = l.Tick(q)
		Expect(err).To(MatchError(loop.ErrStopped))
	})
})
