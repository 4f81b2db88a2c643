package unittest

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"utest/pkg/logcapture"
	"utest/pkg/logging"
)

// MaxNameLen is the longest case name kept, in bytes.
const MaxNameLen = 64

// Flag controls how a case is scheduled, called and logged.
type Flag uint8

const (
	// Parallel lets the case run concurrently with the case before it. Only
	// runners with worker goroutines honor it.
	Parallel Flag = 1 << iota
	// NoArgument calls the function with a nil argument.
	NoArgument
	// StreamLogs writes the case's log entries to the original logger as they
	// happen, in addition to capturing them.
	StreamLogs

	allFlags = Parallel | NoArgument | StreamLogs
)

// Has reports whether every bit in f is set.
func (fl Flag) Has(f Flag) bool {
	return fl&f == f
}

func (fl Flag) String() string {
	if fl == 0 {
		return "-"
	}
	var s string
	for _, f := range []struct {
		flag Flag
		name string
	}{{Parallel, "parallel"}, {NoArgument, "no-arg"}, {StreamLogs, "stream"}} {
		if fl.Has(f.flag) {
			if s != "" {
				s += "|"
			}
			s += f.name
		}
	}
	return s
}

// Result is the outcome code of a case. Zero means passed; anything other
// than zero and ResultPending means failed.
type Result int

const (
	// ResultPass is returned by a passing case.
	ResultPass Result = 0
	// ResultPending is the value of a case that has not completed. A function
	// must never return it.
	ResultPending Result = 70002
	// ResultInvalidReturn replaces ResultPending when a function returns it.
	ResultInvalidReturn Result = -12345
)

// Func is the body of a test case. It returns zero on success.
type Func func(ctx context.Context, arg any) int

// CaseParams holds optional per-case settings.
type CaseParams struct {
	// LogLevel is the minimum level captured for the case.
	LogLevel zapcore.Level
}

// DefaultCaseParams returns parameters that capture every level.
func DefaultCaseParams() CaseParams {
	return CaseParams{LogLevel: zapcore.DebugLevel}
}

// Case is a single named unit of test work.
type Case struct {
	name    string
	flags   Flag
	fn      Func
	arg     any
	capture *logcapture.Buffer
	params  CaseParams

	suite  *Suite
	runner Runner
	result Result
	index  int
	total  int
	start  time.Time
	end    time.Time
}

// NewCase creates a case. capture may be nil to disable log capture and prm
// may be nil for DefaultCaseParams.
func NewCase(name string, flags Flag, fn Func, arg any, capture *logcapture.Buffer, prm *CaseParams) (*Case, error) {
	if fn == nil {
		return nil, fmt.Errorf("case %q: %w", name, ErrNilFunc)
	}
	if flags&^allFlags != 0 {
		return nil, fmt.Errorf("case %q: %w: %#x", name, ErrInvalidFlags, uint8(flags))
	}
	params := DefaultCaseParams()
	if prm != nil {
		params = *prm
	}
	return &Case{
		name:    truncateName(name),
		flags:   flags,
		fn:      fn,
		arg:     arg,
		capture: capture,
		params:  params,
		result:  ResultPending,
	}, nil
}

func truncateName(name string) string {
	if len(name) <= MaxNameLen {
		return name
	}
	cut := MaxNameLen
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

// Name returns the display name.
func (tc *Case) Name() string { return tc.name }

// Flags returns the flags given at creation.
func (tc *Case) Flags() Flag { return tc.flags }

// Params returns the parameters given at creation.
func (tc *Case) Params() CaseParams { return tc.params }

// Capture returns the case's capture buffer, or nil.
func (tc *Case) Capture() *logcapture.Buffer { return tc.capture }

// Result returns the outcome, ResultPending until the case completes.
func (tc *Case) Result() Result { return tc.result }

// Completed reports whether the case has left the pending state.
func (tc *Case) Completed() bool { return tc.result != ResultPending }

// Passed reports whether the case completed with a zero result.
func (tc *Case) Passed() bool { return tc.result == ResultPass }

// Failed reports whether the case completed with a non-zero result.
func (tc *Case) Failed() bool { return tc.Completed() && tc.result != ResultPass }

// Runner returns the runner that executed the case, or nil before it ran.
func (tc *Case) Runner() Runner { return tc.runner }

// Index returns the 0-based position in the suite. Valid once a run started.
func (tc *Case) Index() int { return tc.index }

// Total returns the number of cases in the suite. Valid once a run started.
func (tc *Case) Total() int { return tc.total }

// Duration returns how long the function ran.
func (tc *Case) Duration() time.Duration { return tc.end.Sub(tc.start) }

// Logs returns the captured entries, oldest first.
func (tc *Case) Logs() []logcapture.Entry {
	if tc.capture == nil {
		return nil
	}
	return tc.capture.Entries()
}

// logger builds the case-local logger. sink receives live entries when the
// case streams or has nowhere to capture into.
func (tc *Case) logger(sink *zap.Logger) *zap.Logger {
	var cores []zapcore.Core
	if tc.capture != nil {
		cores = append(cores, tc.capture.Core(tc.params.LogLevel))
	}
	if tc.capture == nil || tc.flags.Has(StreamLogs) {
		cores = append(cores, logging.AtLeast(sink.Core(), tc.params.LogLevel))
	}
	return zap.New(zapcore.NewTee(cores...)).Named(tc.name)
}

// run invokes the function and records the result exactly once. When scope
// is not nil the case is the only one executing, and scope installs its
// logger as the global logger until the function returns.
func (tc *Case) run(ctx context.Context, sink *zap.Logger, scope func(*zap.Logger) func()) {
	log := tc.logger(sink)
	arg := tc.arg
	if tc.flags.Has(NoArgument) {
		arg = nil
	}

	tc.start = time.Now()
	rc := tc.call(logging.WithLogger(ctx, log), log, arg, scope)
	tc.end = time.Now()

	if rc == ResultPending {
		sink.Warn("test function returned pending, recording invalid result",
			zap.String("case", tc.name), zap.Int("result", int(ResultInvalidReturn)))
		rc = ResultInvalidReturn
	}
	tc.result = rc
}

func (tc *Case) call(ctx context.Context, log *zap.Logger, arg any, scope func(*zap.Logger) func()) Result {
	if scope != nil {
		defer scope(log)()
	}
	return Result(tc.fn(ctx, arg))
}
