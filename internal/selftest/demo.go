package selftest

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"utest/internal/registry"
	"utest/pkg/check"
	"utest/pkg/logging"
	"utest/pkg/unittest"
)

// DemoFailures lists the demo cases that fail on purpose.
var DemoFailures = []string{"parse_rejects_garbage"}

func demoSuite() registry.SuiteDef {
	return registry.SuiteDef{
		Name:        Demo,
		Description: "Parallel groups, streamed logs and one intentional failure",
		Cases: []registry.CaseDef{
			{Name: "setup", Func: demoSetup},
			{Name: "fetch_small", Flags: unittest.Parallel, Func: demoWork, Arg: 20 * time.Millisecond},
			{Name: "fetch_medium", Flags: unittest.Parallel, Func: demoWork, Arg: 40 * time.Millisecond},
			{Name: "fetch_large", Flags: unittest.Parallel, Func: demoWork, Arg: 60 * time.Millisecond},
			{Name: "barrier_checkpoint", Func: demoCheckpoint},
			{Name: "parse_accepts_numbers", Flags: unittest.Parallel, Func: demoParse, Arg: "12345"},
			{Name: "parse_rejects_garbage", Flags: unittest.Parallel, Func: demoParse, Arg: "12a45"},
			{Name: "stream_progress", Flags: unittest.Parallel | unittest.StreamLogs, Func: demoStream},
			{Name: "uncaptured_notice", Flags: unittest.NoArgument, Func: demoNotice, NoCapture: true},
		},
	}
}

func demoSetup(ctx context.Context, _ any) int {
	logging.FromContext(ctx).Info("environment ready")
	return 0
}

func demoWork(ctx context.Context, arg any) int {
	d, ok := arg.(time.Duration)
	if !check.True(ctx, ok, "duration argument") {
		return -1
	}
	lg := logging.FromContext(ctx)
	lg.Debug("start", zap.Duration("work", d))
	select {
	case <-time.After(d):
	case <-ctx.Done():
		lg.Warn("interrupted", zap.Error(ctx.Err()))
		return -2
	}
	lg.Info("done", zap.Duration("work", d))
	return 0
}

func demoCheckpoint(ctx context.Context, _ any) int {
	// a barrier runs alone, so the std logger writes into this case
	log.Printf("checkpoint reached")
	logging.FromContext(ctx).Info("previous group drained")
	return 0
}

func demoParse(ctx context.Context, arg any) int {
	in, _ := arg.(string)
	lg := logging.FromContext(ctx)
	lg.Debug("parsing", zap.String("input", in))
	for i, r := range in {
		if !check.True(ctx, r >= '0' && r <= '9', "digit expected") {
			lg.Error("bad character", zap.Int("offset", i), zap.String("char", string(r)))
			return 1
		}
	}
	return 0
}

func demoStream(ctx context.Context, _ any) int {
	lg := logging.FromContext(ctx)
	for i := 1; i <= 3; i++ {
		lg.Info("\x1b[36mprogress\x1b[0m", zap.Int("step", i))
	}
	return 0
}

func demoNotice(ctx context.Context, arg any) int {
	if !check.True(ctx, arg == nil, "no-arg case receives nil") {
		return -1
	}
	logging.FromContext(ctx).Info("this case logs straight to the run logger")
	return 0
}
