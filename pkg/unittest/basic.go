package unittest

import "context"

// BasicRunner runs cases one after another on the calling goroutine, in
// insertion order, ignoring the Parallel flag. It starts no goroutines and
// needs no budget; the zero value is ready to use.
type BasicRunner struct {
	runnerCore
}

var _ Runner = (*BasicRunner)(nil)

// NewBasicRunner returns a BasicRunner configured with opts.
func NewBasicRunner(opts ...Option) *BasicRunner {
	r := &BasicRunner{}
	r.apply(opts)
	return r
}

// Run executes s. Completion callbacks for a case fire before the next case
// starts.
func (r *BasicRunner) Run(ctx context.Context, s *Suite) error {
	return r.run(ctx, r, s, r.dispatch)
}

func (r *BasicRunner) dispatch(ctx context.Context, cases []*Case) {
	for _, tc := range cases {
		if ctx.Err() != nil {
			return
		}
		r.execute(ctx, r, tc, true)
	}
}

// Close marks the runner as torn down.
func (r *BasicRunner) Close() error {
	return r.markClosed()
}
