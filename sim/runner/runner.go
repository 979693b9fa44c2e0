// Package runner evaluates independent simulation runs, optionally in
// parallel. Each run owns an isolated Simulator; nothing is shared across
// runs, so concurrent evaluation cannot perturb determinism.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dispatch-sim/dispatch-sim/sim"
	"github.com/dispatch-sim/dispatch-sim/sim/trace"
)

// Spec describes one run to evaluate. The same Inputs value may back many
// specs: the engine never mutates input records.
type Spec struct {
	Name   string
	Config sim.Config
	Inputs sim.Inputs
}

// Result bundles all outputs from one simulation run. Used by downstream
// reporters for unified access to metrics, the event log, and timing.
type Result struct {
	RunID   string // unique per evaluation, not part of determinism
	Name    string
	Summary sim.Summary
	Log     *trace.Log
	// Incomplete is non-nil when at least one call failed to reach a
	// terminal state (truncated or stranded run).
	Incomplete error

	SimDuration int64         // simulation clock at end (ticks)
	WallTime    time.Duration // wall-clock duration of Run()
}

// Evaluate builds and runs one simulation to completion.
func Evaluate(ctx context.Context, spec Spec) (*Result, error) {
	s, err := sim.NewSimulator(spec.Config, spec.Inputs)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", spec.Name, err)
	}

	start := time.Now()
	if err := s.Run(ctx); err != nil {
		return nil, fmt.Errorf("run %q: %w", spec.Name, err)
	}
	wall := time.Since(start)

	if err := s.CheckComplete(); err != nil {
		logrus.Warnf("run %q: %v", spec.Name, err)
		return &Result{
			RunID:       uuid.NewString(),
			Name:        spec.Name,
			Summary:     s.Metrics.Summarize(),
			Log:         s.Log,
			Incomplete:  err,
			SimDuration: s.Metrics.SimEndedTicks,
			WallTime:    wall,
		}, nil
	}

	return &Result{
		RunID:       uuid.NewString(),
		Name:        spec.Name,
		Summary:     s.Metrics.Summarize(),
		Log:         s.Log,
		SimDuration: s.Metrics.SimEndedTicks,
		WallTime:    wall,
	}, nil
}

// EvaluateAll runs every spec as its own worker goroutine and returns the
// results in spec order. The first constructor or run error cancels nothing:
// remaining runs finish, and the first error encountered (in spec order) is
// returned alongside the partial results.
func EvaluateAll(ctx context.Context, specs []Spec) ([]*Result, error) {
	results := make([]*Result, len(specs))
	errs := make([]error, len(specs))

	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec Spec) {
			defer wg.Done()
			results[i], errs[i] = Evaluate(ctx, spec)
		}(i, spec)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
