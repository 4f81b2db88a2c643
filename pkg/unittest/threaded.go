package unittest

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ThreadedParams configures a ThreadedRunner.
type ThreadedParams struct {
	// Workers is the number of worker goroutines. Zero runs every case on
	// the goroutine calling Run.
	Workers int
}

// DefaultThreadedParams uses one worker when more than one CPU is available
// and none otherwise.
func DefaultThreadedParams() ThreadedParams {
	if runtime.NumCPU() > 1 {
		return ThreadedParams{Workers: 1}
	}
	return ThreadedParams{Workers: 0}
}

// NewBudget returns a budget of n units that threaded runners draw from. A
// runner with W workers holds W+1 units until it is closed.
func NewBudget(n int64) *semaphore.Weighted {
	return semaphore.NewWeighted(n)
}

// job is one dispatched case together with the group it belongs to.
type job struct {
	ctx       context.Context
	tc        *Case
	group     *sync.WaitGroup
	exclusive bool
}

// ThreadedRunner executes cases on a pool of worker goroutines. A case
// without the Parallel flag is a barrier: it waits for every earlier case to
// finish and nothing after it is dispatched until it finishes. A case with
// the flag is handed to the next free worker right away.
type ThreadedRunner struct {
	runnerCore

	workers int
	budget  *semaphore.Weighted
	cost    int64
	jobs    chan job
	wg      sync.WaitGroup
	once    sync.Once
}

var _ Runner = (*ThreadedRunner)(nil)

// NewThreadedRunner reserves W+1 units of budget and starts W workers. If the
// budget cannot cover it, no runner is created and ErrAllocation is returned.
// prm may be nil for DefaultThreadedParams.
func NewThreadedRunner(budget *semaphore.Weighted, prm *ThreadedParams, opts ...Option) (*ThreadedRunner, error) {
	if budget == nil {
		return nil, ErrNoAllocator
	}
	params := DefaultThreadedParams()
	if prm != nil {
		params = *prm
	}
	if params.Workers < 0 {
		return nil, fmt.Errorf("%w: negative worker count %d", ErrAllocation, params.Workers)
	}

	cost := int64(params.Workers) + 1
	if !budget.TryAcquire(cost) {
		return nil, fmt.Errorf("%w: %d workers need %d units", ErrAllocation, params.Workers, cost)
	}

	r := &ThreadedRunner{
		workers: params.Workers,
		budget:  budget,
		cost:    cost,
		jobs:    make(chan job),
	}
	r.apply(opts)

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r, nil
}

// Workers returns the size of the worker pool.
func (r *ThreadedRunner) Workers() int {
	return r.workers
}

// Run executes s honoring parallel groups.
func (r *ThreadedRunner) Run(ctx context.Context, s *Suite) error {
	return r.run(ctx, r, s, r.dispatch)
}

func (r *ThreadedRunner) dispatch(ctx context.Context, cases []*Case) {
	group := new(sync.WaitGroup)
	defer func() { group.Wait() }()

	for _, tc := range cases {
		if ctx.Err() != nil {
			return
		}
		barrier := !tc.flags.Has(Parallel)
		if barrier {
			group.Wait()
			group = new(sync.WaitGroup)
		}

		if r.workers == 0 {
			r.execute(ctx, r, tc, true)
			continue
		}

		group.Add(1)
		select {
		case r.jobs <- job{ctx: ctx, tc: tc, group: group, exclusive: barrier || r.workers == 1}:
		case <-ctx.Done():
			group.Done()
			return
		}

		if barrier {
			group.Wait()
		}
	}
}

func (r *ThreadedRunner) worker() {
	defer r.wg.Done()
	for j := range r.jobs {
		r.execute(j.ctx, r, j.tc, j.exclusive)
		j.group.Done()
	}
}

// Close stops the workers and returns the reserved budget. It must not be
// called while Run is in progress.
func (r *ThreadedRunner) Close() error {
	if err := r.markClosed(); err != nil {
		return err
	}
	r.once.Do(func() {
		close(r.jobs)
		r.wg.Wait()
		r.budget.Release(r.cost)
	})
	return nil
}
