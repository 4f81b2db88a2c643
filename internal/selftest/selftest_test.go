package selftest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"utest/internal/registry"
	"utest/pkg/logcapture"
	"utest/pkg/unittest"
)

func builtins(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, Register(r))
	return r
}

func observeGlobal(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	undo := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(undo)
	return logs
}

func runBuiltin(t *testing.T, name string, workers int) *unittest.Suite {
	t.Helper()
	s, err := builtins(t).Build(name, registry.BuildOptions{Capacity: 8192, Policy: logcapture.DropNewest})
	require.NoError(t, err)

	r, err := unittest.NewThreadedRunner(unittest.NewBudget(16), &unittest.ThreadedParams{Workers: workers})
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Run(context.Background(), s))
	return s
}

func TestRegister(t *testing.T) {
	r := builtins(t)
	assert.Equal(t, []string{Demo, SelfCheck}, r.Names())
	assert.Error(t, Register(r), "registering twice fails")
}

func TestSelfCheckPasses(t *testing.T) {
	for _, workers := range []int{0, 1, 3} {
		observeGlobal(t)
		s := runBuiltin(t, SelfCheck, workers)

		st := unittest.StatsOf(s)
		assert.Equal(t, st.Total, st.Executed)
		assert.Zero(t, st.Failed, "workers=%d failed: %v", workers, st.FailedNames)
	}
}

func TestDemoFailsOnPurpose(t *testing.T) {
	logs := observeGlobal(t)
	s := runBuiltin(t, Demo, 3)

	st := unittest.StatsOf(s)
	assert.Equal(t, st.Total, st.Executed)
	assert.Equal(t, DemoFailures, st.FailedNames)

	checkpoint := s.Cases()[4]
	require.Equal(t, "barrier_checkpoint", checkpoint.Name())
	var captured []string
	for _, e := range checkpoint.Logs() {
		captured = append(captured, e.Message)
	}
	assert.Contains(t, captured, "checkpoint reached", "std log of a barrier case lands in its buffer")
	assert.NotZero(t, logs.FilterMessage("checkpoint reached").Len(), "merged into the run logger on completion")
	assert.Equal(t, 1, logs.FilterMessage("this case logs straight to the run logger").Len())
	assert.Equal(t, 3, logs.FilterMessageSnippet("\x1b[36mprogress").FilterField(zap.String("run", s.Cases()[0].Runner().RunID())).Len(),
		"streamed entries are written live and not merged again")
}
