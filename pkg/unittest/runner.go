package unittest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"utest/pkg/logcapture"
	"utest/pkg/logging"
)

// Runner executes a suite. A runner is used for a single run and then closed;
// closing it never invalidates the suite or its cases.
type Runner interface {
	// Run executes every case of s. It returns an error only for misuse or
	// when ctx is cancelled; failing cases are recorded in their results.
	Run(ctx context.Context, s *Suite) error
	// Logger returns the logger the run writes to. It is the global logger
	// saved at run start, tagged with the run ID.
	Logger() *zap.Logger
	// RunID identifies the run in log output and reports.
	RunID() string
	// Close tears the runner down.
	Close() error
}

// CompletionFunc is called after each case finishes. Calls are serialized.
type CompletionFunc func(r Runner, tc *Case)

// Option configures a runner.
type Option func(*runnerCore)

// WithCompletion replaces the default completion callback (MergeLogs) with
// fns, called in order. Passing none disables completion callbacks.
func WithCompletion(fns ...CompletionFunc) Option {
	return func(c *runnerCore) {
		c.completions = fns
		c.completionsSet = true
	}
}

// WithRunID sets the run ID instead of generating one.
func WithRunID(id string) Option {
	return func(c *runnerCore) {
		c.runID = id
	}
}

const (
	stateIdle int32 = iota
	stateRunning
	stateFinished
	stateClosed
)

// runnerCore is the part shared by both runners: run bookkeeping, the logger
// redirect and serialized completion.
type runnerCore struct {
	completions    []CompletionFunc
	completionsSet bool
	runID          string

	state atomic.Int32
	log   *zap.Logger
	guard *logging.Guard
	mu    sync.Mutex
}

func (c *runnerCore) apply(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Logger returns the run's logger, or the global logger before a run.
func (c *runnerCore) Logger() *zap.Logger {
	if c.log == nil {
		return zap.L()
	}
	return c.log
}

// RunID returns the run ID, empty before a run unless set by WithRunID.
func (c *runnerCore) RunID() string {
	return c.runID
}

func (c *runnerCore) run(ctx context.Context, self Runner, s *Suite, dispatch func(context.Context, []*Case)) error {
	if !c.state.CompareAndSwap(stateIdle, stateRunning) {
		if c.state.Load() == stateClosed {
			return ErrRunnerClosed
		}
		return ErrRunnerUsed
	}
	defer c.state.CompareAndSwap(stateRunning, stateFinished)

	if err := s.prepare(self); err != nil {
		return err
	}
	if c.runID == "" {
		c.runID = uuid.NewString()
	}

	guard, err := logging.Redirect(zap.String("run", c.runID))
	if err != nil {
		return fmt.Errorf("run %s: %w", c.runID, err)
	}
	defer guard.Release()
	c.guard = guard
	c.log = guard.Sink()

	s.start = time.Now()
	s.end = time.Time{}
	defer func() { s.end = time.Now() }()

	dispatch(ctx, s.cases)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run %s interrupted: %w", c.runID, err)
	}
	return nil
}

// execute runs tc on the calling goroutine and then fires the completion
// callbacks under the completion lock. exclusive tells that no other case is
// executing, so the global logger can point at tc's logger while it runs.
// Concurrent cases only get the context logger.
func (c *runnerCore) execute(ctx context.Context, self Runner, tc *Case, exclusive bool) {
	var scope func(*zap.Logger) func()
	if exclusive {
		scope = c.guard.Scope
	}
	tc.run(ctx, c.log, scope)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.completionsSet {
		MergeLogs(self, tc)
		return
	}
	for _, fn := range c.completions {
		fn(self, tc)
	}
}

func (c *runnerCore) markClosed() error {
	for {
		st := c.state.Load()
		switch st {
		case stateClosed:
			return nil
		case stateRunning:
			return fmt.Errorf("close: run %s still in progress", c.runID)
		}
		if c.state.CompareAndSwap(st, stateClosed) {
			return nil
		}
	}
}

// MergeLogs is the default completion callback. It writes a status line for
// tc followed by its captured entries to the run's logger. Entries of a case
// with StreamLogs were already written live and are not repeated.
func MergeLogs(r Runner, tc *Case) {
	log := r.Logger()
	lvl, status := zapcore.InfoLevel, "OK"
	if tc.Failed() {
		lvl, status = zapcore.ErrorLevel, "FAILED"
	}
	if ce := log.Check(lvl, fmt.Sprintf("[%d/%d] %s %s", tc.Index()+1, tc.Total(), tc.Name(), status)); ce != nil {
		ce.Write(zap.Int("result", int(tc.Result())), zap.Duration("duration", tc.Duration()))
	}
	if tc.Flags().Has(StreamLogs) {
		return
	}
	core := log.Core()
	for _, e := range tc.Logs() {
		writeEntry(core, e)
	}
}

func writeEntry(core zapcore.Core, e logcapture.Entry) {
	ent := zapcore.Entry{
		Level:      e.Level,
		Time:       e.Time,
		LoggerName: e.Logger,
		Message:    e.Message,
	}
	if ce := core.Check(ent, nil); ce != nil {
		ce.Write(e.Fields...)
	}
}
