// Package sweep runs many headless simulations in parallel, varying one
// parameter, and averages each run's metric.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"runtime"
	"strconv"
	"sync"
	"time"

	"torus-ca/pkg/engine"

	"github.com/guptarohit/asciigraph"
)

// ErrNoMetric is returned when the simulation does not report a metric.
var ErrNoMetric = errors.New("sweep: simulation has no metric")

// Options describes a sweep.
type Options struct {
	Sim    string
	Params map[string]string
	// Key is the parameter varied across Values.
	Key    string
	Values []float64
	// Seeds is the number of runs per value; run i uses Seed+i.
	Seeds   int
	Seed    int64
	Warmup  int
	Steps   int
	Workers int
	Logger  *slog.Logger
}

// Point aggregates the runs for one parameter value.
type Point struct {
	Value float64
	Mean  float64
	Min   float64
	Max   float64
	Runs  int
}

// Result holds a finished sweep, ordered by value.
type Result struct {
	Sim     string
	Key     string
	Points  []Point
	Elapsed time.Duration
}

type job struct {
	index int
	value float64
	seed  int64
}

type outcome struct {
	index  int
	metric float64
	err    error
}

// Range returns n evenly spaced values from lo to hi inclusive.
func Range(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Run executes the sweep. The first failing run cancels the rest.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Key == "" {
		opts.Key = "density"
	}
	if opts.Seeds <= 0 {
		opts.Seeds = 1
	}
	if opts.Steps <= 0 {
		opts.Steps = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if len(opts.Values) == 0 {
		return Result{}, errors.New("sweep: no values to sweep")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job)
	results := make(chan outcome)
	var wg sync.WaitGroup

	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				m, err := runOne(ctx, opts, j)
				select {
				case results <- outcome{index: j.index, metric: m, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for i, v := range opts.Values {
			for s := 0; s < opts.Seeds; s++ {
				select {
				case jobs <- job{index: i, value: v, seed: opts.Seed + int64(s)}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	start := time.Now()
	log.Info("sweep started", "sim", opts.Sim, "key", opts.Key, "values", len(opts.Values),
		"seeds", opts.Seeds, "workers", opts.Workers, "steps", opts.Steps)

	points := make([]Point, len(opts.Values))
	for i, v := range opts.Values {
		points[i] = Point{Value: v, Min: math.Inf(1), Max: math.Inf(-1)}
	}
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		p := &points[res.index]
		p.Runs++
		p.Mean += (res.metric - p.Mean) / float64(p.Runs)
		p.Min = math.Min(p.Min, res.metric)
		p.Max = math.Max(p.Max, res.metric)
	}
	if firstErr != nil {
		return Result{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	out := Result{Sim: opts.Sim, Key: opts.Key, Points: points, Elapsed: time.Since(start)}
	log.Info("sweep finished", "sim", opts.Sim, "elapsed", out.Elapsed.Round(time.Millisecond))
	return out, nil
}

func runOne(ctx context.Context, opts Options, j job) (float64, error) {
	params := maps.Clone(opts.Params)
	if params == nil {
		params = map[string]string{}
	}
	params[opts.Key] = strconv.FormatFloat(j.value, 'g', -1, 64)
	params["seed"] = strconv.FormatInt(j.seed, 10)

	sim, err := engine.Build(opts.Sim, params)
	if err != nil {
		return 0, fmt.Errorf("%s=%g seed %d: %w", opts.Key, j.value, j.seed, err)
	}
	m, ok := sim.(engine.Metered)
	if !ok {
		return 0, ErrNoMetric
	}
	for i := 0; i < opts.Warmup; i++ {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		sim.Step()
	}
	total := 0.0
	for i := 0; i < opts.Steps; i++ {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		sim.Step()
		total += m.Metric()
	}
	return total / float64(opts.Steps), nil
}

// Means returns the mean metric of every point in order.
func (r Result) Means() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Mean
	}
	return out
}

// Plot draws the mean metric against the swept value.
func (r Result) Plot(width, height int) string {
	if len(r.Points) == 0 {
		return ""
	}
	first, last := r.Points[0].Value, r.Points[len(r.Points)-1].Value
	return asciigraph.Plot(r.Means(),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s: mean metric for %s %.2f..%.2f", r.Sim, r.Key, first, last)),
	)
}
