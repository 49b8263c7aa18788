package mewc

import (
	"context"
	"errors"
	"time"
)

// errBudgetExhausted stops a search that ran out of time or iterations. It
// never escapes the package: Solve maps it to Complete=false.
var errBudgetExhausted = errors.New("search budget exhausted")

const (
	checkEvery     = 256
	heartbeatEvery = 1 << 14
)

// budget counts work units and checks the context and deadline every
// checkEvery units, so the hot loops stay cheap.
type budget struct {
	ctx      context.Context
	deadline time.Time
	max      int64
	n        int64

	strategy Strategy
	trial    int
	weight   int64
	size     int
	progress func(ProgressEvent)
	trace    []int64
}

func newBudget(ctx context.Context, s Strategy, opts *Options) *budget {
	b := &budget{
		ctx:      ctx,
		max:      opts.MaxIterations,
		strategy: s,
		weight:   -1,
		progress: opts.Progress,
	}
	if opts.Timeout > 0 {
		b.deadline = time.Now().Add(opts.Timeout)
	}
	return b
}

// step accounts for one unit of work.
func (b *budget) step() error {
	b.n++
	if b.max > 0 && b.n > b.max {
		b.n = b.max
		return errBudgetExhausted
	}
	if b.n == 1 || b.n%checkEvery == 0 {
		if err := b.ctx.Err(); err != nil {
			return err
		}
		if !b.deadline.IsZero() && time.Now().After(b.deadline) {
			return errBudgetExhausted
		}
	}
	if b.progress != nil && b.n%heartbeatEvery == 0 {
		b.emit(false)
	}
	return nil
}

// improved records a new best solution.
func (b *budget) improved(weight int64, size int) {
	b.weight, b.size = weight, size
	b.trace = append(b.trace, weight)
	if b.progress != nil {
		b.emit(true)
	}
}

func (b *budget) emit(improved bool) {
	b.progress(ProgressEvent{
		Strategy:   b.strategy,
		Iterations: b.n,
		Weight:     b.weight,
		Size:       b.size,
		Improved:   improved,
		Trial:      b.trial,
	})
}

// outcome converts a search error into the Complete flag and the error
// returned to callers.
func outcome(err error) (complete bool, _ error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errBudgetExhausted):
		return false, nil
	default:
		return false, err
	}
}
