package selftest

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"utest/internal/registry"
	"utest/pkg/check"
	"utest/pkg/logcapture"
	"utest/pkg/logging"
	"utest/pkg/unittest"
)

func selfCheckSuite() registry.SuiteDef {
	return registry.SuiteDef{
		Name:        SelfCheck,
		Description: "Checks the capture buffer, the check helpers and the logger guard from inside a run",
		Cases: []registry.CaseDef{
			{Name: "capture_order", Func: captureOrder},
			{Name: "capture_drop_newest", Flags: unittest.Parallel, Func: captureOverflow, Arg: logcapture.DropNewest},
			{Name: "capture_drop_oldest", Flags: unittest.Parallel, Func: captureOverflow, Arg: logcapture.DropOldest},
			{Name: "capture_level_filter", Flags: unittest.Parallel, Func: captureLevelFilter},
			{Name: "check_logs_failure", Flags: unittest.Parallel, Func: checkLogsFailure},
			{Name: "redirect_held_during_run", Func: redirectHeld},
			{Name: "schedule_groups", Flags: unittest.Parallel | unittest.NoArgument, Func: scheduleGroups},
		},
	}
}

// bufferLogger returns a logger writing into a fresh buffer.
func bufferLogger(capacity int, policy logcapture.Policy, min zapcore.Level) (*zap.Logger, *logcapture.Buffer) {
	buf := logcapture.New(capacity, policy)
	return zap.New(buf.Core(min)), buf
}

func captureOrder(ctx context.Context, _ any) int {
	log, buf := bufferLogger(4096, logcapture.DropNewest, zapcore.DebugLevel)
	want := []string{"one", "two", "three"}
	for _, msg := range want {
		log.Info(msg)
	}

	entries := buf.Entries()
	if !check.Eq(ctx, len(entries), len(want), "entry count") {
		return -1
	}
	for i, e := range entries {
		if !check.Eq(ctx, e.Message, want[i], "entry order") {
			return -2
		}
	}
	logging.FromContext(ctx).Debug("captured in order", zap.Int("entries", len(entries)))
	return 0
}

func captureOverflow(ctx context.Context, arg any) int {
	policy, ok := arg.(logcapture.Policy)
	if !check.True(ctx, ok, "policy argument") {
		return -1
	}

	// every entry is charged EntryOverhead plus its message length
	msg := strings.Repeat("x", 16)
	size := logcapture.EntryOverhead + len(msg)
	log, buf := bufferLogger(3*size, policy, zapcore.DebugLevel)
	for i := 0; i < 5; i++ {
		log.Info(msg)
	}

	if !check.Eq(ctx, buf.Len(), 3, "entries kept") {
		return -2
	}
	if !check.Eq(ctx, buf.Dropped(), 2, "entries dropped") {
		return -3
	}
	if !check.Lte(ctx, buf.Used(), buf.Cap(), "capacity respected") {
		return -4
	}
	logging.FromContext(ctx).Info("overflow handled", zap.Stringer("policy", policy), zap.Int("dropped", buf.Dropped()))
	return 0
}

func captureLevelFilter(ctx context.Context, _ any) int {
	log, buf := bufferLogger(4096, logcapture.DropNewest, zapcore.WarnLevel)
	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("kept")
	log.Error("kept")

	if !check.Eq(ctx, buf.Len(), 2, "entries at or above warn") {
		return -1
	}
	return 0
}

func checkLogsFailure(ctx context.Context, _ any) int {
	log, buf := bufferLogger(4096, logcapture.DropNewest, zapcore.DebugLevel)
	inner := logging.WithLogger(ctx, log)

	ok := check.Eq(inner, 1, 2, "expected mismatch")
	if !check.True(ctx, !ok, "failed check reports false") {
		return -1
	}
	if !check.Eq(ctx, buf.Len(), 1, "one error logged") {
		return -2
	}
	e := buf.Entries()[0]
	if !check.Eq(ctx, e.Level, zapcore.ErrorLevel, "error level") {
		return -3
	}
	if !check.True(ctx, strings.Contains(e.Message, "(expected mismatch)"), "reason in message") {
		return -4
	}
	return 0
}

func redirectHeld(ctx context.Context, _ any) int {
	guard, err := logging.Redirect()
	if err == nil {
		guard.Release()
	}
	if !check.True(ctx, errors.Is(err, logging.ErrRedirectActive), "global logger is held by the run") {
		return -1
	}
	return 0
}

func scheduleGroups(ctx context.Context, arg any) int {
	if !check.True(ctx, arg == nil, "no-arg case receives nil") {
		return -1
	}

	flags := []unittest.Flag{0, unittest.Parallel, unittest.Parallel, 0, 0, unittest.Parallel}
	cases := make([]*unittest.Case, 0, len(flags))
	for _, fl := range flags {
		tc, err := unittest.NewCase("g", fl, func(context.Context, any) int { return 0 }, nil, nil, nil)
		if !check.Success(ctx, err, "new case") {
			return -2
		}
		cases = append(cases, tc)
	}

	groups := unittest.Groups(cases)
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g)
	}
	if !check.Eq(ctx, len(sizes), 3, "group count") {
		return -3
	}
	for i, want := range []int{3, 1, 2} {
		if !check.Eq(ctx, sizes[i], want, "group size") {
			return -4
		}
	}
	return 0
}
