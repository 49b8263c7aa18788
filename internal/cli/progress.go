package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mewc/pkg/mewc"
)

// heartbeatInterval is the minimum gap between "Searching..." lines.
const heartbeatInterval = 10 * time.Second

// solveReporter turns solver progress events into log lines: the first
// solution, every improvement, and a periodic heartbeat while the search runs
// without improving.
//
// A reporter follows a single solver run and is not safe for concurrent use.
type solveReporter struct {
	prog     *progress
	logger   *log.Logger
	strategy mewc.Strategy
	timeout  time.Duration
	interval time.Duration

	lastWeight int64
	lastLog    time.Time
}

// newSolveReporter creates a reporter using the logger from ctx.
func newSolveReporter(ctx context.Context, s mewc.Strategy, timeout time.Duration) *solveReporter {
	logger := loggerFromContext(ctx)
	return &solveReporter{
		prog:       newProgress(logger),
		logger:     logger,
		strategy:   s,
		timeout:    timeout,
		interval:   heartbeatInterval,
		lastWeight: -1,
	}
}

// onProgress is installed as mewc.Options.Progress.
func (r *solveReporter) onProgress(ev mewc.ProgressEvent) {
	if ev.Weight < 0 {
		return
	}

	switch {
	case r.lastWeight < 0:
		r.logger.Infof("Initial: weight %d, %d vertices (iterations: %d)", ev.Weight, ev.Size, ev.Iterations)
		r.lastLog = time.Now()
	case ev.Weight > r.lastWeight:
		if ev.Trial > 0 {
			r.logger.Infof("Improved: weight %d (↑%d, trial %d)", ev.Weight, ev.Weight-r.lastWeight, ev.Trial)
		} else {
			r.logger.Infof("Improved: weight %d (↑%d)", ev.Weight, ev.Weight-r.lastWeight)
		}
		r.lastLog = time.Now()
	default:
		if time.Since(r.lastLog) >= r.interval {
			elapsed := time.Since(r.prog.start).Truncate(time.Second)
			if r.timeout > 0 {
				r.logger.Infof("Searching... %v/%v elapsed, weight %d (iterations: %d)", elapsed, r.timeout, ev.Weight, ev.Iterations)
			} else {
				r.logger.Infof("Searching... %v elapsed, weight %d (iterations: %d)", elapsed, ev.Weight, ev.Iterations)
			}
			r.lastLog = time.Now()
		}
	}
	if ev.Weight > r.lastWeight {
		r.lastWeight = ev.Weight
	}
}

// finish logs the final result and warns when the search stopped on its
// budget instead of completing.
func (r *solveReporter) finish(res mewc.Result, cached bool) {
	if cached {
		r.prog.done(fmt.Sprintf("Loaded cached %s result: weight %d", r.strategy, res.Clique.Weight()))
		return
	}
	r.prog.done(fmt.Sprintf("Solved with %s: weight %d, %d vertices", r.strategy, res.Clique.Weight(), res.Clique.Size()))
	r.logger.Debugf("Iterations: %d, improvements: %d", res.Iterations, len(res.Trace))
	if !res.Complete {
		r.logger.Warn("Search stopped on its budget; try increasing --timeout or --max-iterations")
	}
}
