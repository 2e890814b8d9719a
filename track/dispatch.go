package track

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-track/dsp/chip"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/mat"
)

// candidate is a reference center that passed the sample and guess checks,
// with the search chip shift derived from the guess field.
type candidate struct {
	center Point
	ox, oy int
}

// task is one chip pair ready for correlation. Tasks are not modified after
// construction.
type task struct {
	center      Point
	ref, search *mat.Dense
	ox, oy      int
	dx, dy      float64
	keepChips   bool
}

type outcome struct {
	result Result
	err    error
}

// run performs one correlation task. A panic inside the correlation path is
// converted into an error so the worker survives.
func (m *matcher) run(t task) (o outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = outcome{err: fmt.Errorf("%w at (%g, %g): %v", ErrTaskFailed, t.center.X, t.center.Y, r)}
		}
	}()

	match, err := m.match(t.search, t.ref)
	if err != nil {
		return outcome{err: fmt.Errorf("%w at (%g, %g): %w", ErrTaskFailed, t.center.X, t.center.Y, err)}
	}

	x, y := Convert(match.OffsetX, match.OffsetY, t.ox, t.oy, t.dx, t.dy)

	res := Result{
		Center:   t.center,
		DX:       x,
		DY:       y,
		Strength: match.Strength,
		Peak:     match.Peak,
		ShiftX:   t.ox,
		ShiftY:   t.oy,
	}
	if t.keepChips {
		res.RefChip = t.ref
		res.SearchChip = t.search
	}

	return outcome{result: res}
}

// dispatch extracts chip pairs for cands, correlates them on a fixed pool of
// workers and collects results in completion order. At most MaxInFlight chip
// pairs exist between extraction and collection. When ctx is cancelled no
// further tasks are submitted; the results collected so far are returned
// together with ctx.Err().
func (e *Engine) dispatch(ctx context.Context, p *scenePair, cands []candidate, keepChips bool, stats *Stats) ([]Result, error) {
	cfg := &e.cfg
	sem := semaphore.NewWeighted(int64(cfg.MaxInFlight))
	tasks := make(chan task)
	outcomes := make(chan outcome)

	var results []Result
	collected := make(chan struct{})

	go func() {
		defer close(collected)

		for o := range outcomes {
			if o.err != nil {
				stats.Failed++
				cfg.Logger.Printf("track: dropped task: %v", o.err)
			} else {
				stats.Completed++
				results = append(results, o.result)
			}
			sem.Release(1)
		}
	}()

	// Task failures stay inside their outcome; only the submitter reports an
	// error through the group.
	var pool errgroup.Group
	for i := 0; i < cfg.Workers; i++ {
		pool.Go(func() error {
			m := matcher{cfg: cfg}
			for t := range tasks {
				outcomes <- m.run(t)
			}
			return nil
		})
	}

	pool.Go(func() error {
		defer close(tasks)
		return e.submit(ctx, p, cands, keepChips, sem, tasks, stats)
	})

	err := pool.Wait()
	close(outcomes)
	<-collected

	return results, err
}

// submit extracts and prechecks the chip pair of every candidate and hands
// admitted pairs to the workers. It stops at the first cancellation.
func (e *Engine) submit(ctx context.Context, p *scenePair, cands []candidate, keepChips bool,
	sem *semaphore.Weighted, tasks chan<- task, stats *Stats,
) error {
	cfg := &e.cfg
	dx, dy := p.later.Resolution()
	refVals := p.earlier.Values()
	searchVals := p.later.Values()

	for _, c := range cands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}

		ir, jr := p.earlier.Indices(c.center.X, c.center.Y)
		is, js := p.later.Indices(c.center.X, c.center.Y)

		ref := chip.Extract(refVals, ir, jr, cfg.RefSize)
		search := chip.Extract(searchVals, is+c.oy, js+c.ox, cfg.SearchSize)

		if reason := precheck(ref, search, cfg.RefSize, cfg.SearchSize); reason != admitted {
			sem.Release(1)
			stats.skip(reason)
			continue
		}

		stats.Scheduled++
		tasks <- task{
			center:    c.center,
			ref:       ref,
			search:    search,
			ox:        c.ox,
			oy:        c.oy,
			dx:        dx,
			dy:        dy,
			keepChips: keepChips,
		}
	}

	return nil
}
