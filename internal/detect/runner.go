package detect

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runner fans the registered detectors out concurrently against one immutable
// frame and joins their candidate lists. Each detector gets the same bounded
// wait; blowing the budget degrades that capability to unavailable for the
// cycle instead of failing the cycle.
type Runner struct {
	detectors []Detector
	budget    time.Duration
	log       *zap.Logger
}

func NewRunner(detectors []Detector, budget time.Duration, log *zap.Logger) *Runner {
	return &Runner{detectors: detectors, budget: budget, log: log}
}

// Run scans the frame with every registered detector whose capability is in
// want. Detector errors and timeouts never propagate as errors; they flip the
// capability off in Results.Available.
func (r *Runner) Run(ctx context.Context, frame Frame, want map[Capability]bool) Results {
	res := Results{
		Captured:   frame.Captured,
		Candidates: make(map[Capability][]Candidate, len(r.detectors)),
		Available:  make(map[Capability]bool, len(r.detectors)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, d := range r.detectors {
		cap := d.Capability()
		res.Available[cap] = false
		if want != nil && !want[cap] {
			continue
		}
		d := d
		g.Go(func() error {
			cands, err := r.scanBounded(gctx, d, frame)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.log.Warn("detector unavailable",
					zap.String("capability", string(cap)),
					zap.Error(err))
				return nil
			}
			res.Candidates[cap] = cands
			res.Available[cap] = true
			return nil
		})
	}
	_ = g.Wait()
	return res
}

// scanBounded runs one Scan under the per-detector budget. The scan goroutine
// is handed a cancelled context when the budget expires; a detector that
// ignores cancellation leaks only until it returns.
func (r *Runner) scanBounded(ctx context.Context, d Detector, frame Frame) ([]Candidate, error) {
	tctx, cancel := context.WithTimeout(ctx, r.budget)
	defer cancel()

	type scanOut struct {
		cands []Candidate
		err   error
	}
	out := make(chan scanOut, 1)
	go func() {
		cands, err := d.Scan(tctx, frame)
		out <- scanOut{cands, err}
	}()

	select {
	case <-tctx.Done():
		return nil, tctx.Err()
	case o := <-out:
		return o.cands, o.err
	}
}
