package metrics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"utest/pkg/logcapture"
	"utest/pkg/logging"
	"utest/pkg/unittest"
)

func runObserved(t *testing.T, m *Metrics) *unittest.Suite {
	t.Helper()
	undo := zap.ReplaceGlobals(zap.NewNop())
	defer undo()

	s := unittest.NewSuite()
	add := func(name string, fn unittest.Func, capacity int) {
		var buf *logcapture.Buffer
		if capacity > 0 {
			buf = logcapture.New(capacity, logcapture.DropNewest)
		}
		tc, err := unittest.NewCase(name, unittest.Parallel, fn, nil, buf, nil)
		require.NoError(t, err)
		require.NoError(t, s.Add(tc))
	}
	add("pass", func(context.Context, any) int { return 0 }, 0)
	add("fail", func(context.Context, any) int { return 3 }, 0)
	add("pending", func(context.Context, any) int { return int(unittest.ResultPending) }, 0)
	add("noisy", func(ctx context.Context, _ any) int {
		for i := 0; i < 10; i++ {
			logging.FromContext(ctx).Info(strings.Repeat("x", 40))
		}
		return 0
	}, 2*(logcapture.EntryOverhead+40))

	r, err := unittest.NewThreadedRunner(unittest.NewBudget(4), &unittest.ThreadedParams{Workers: 2},
		unittest.WithCompletion(m.ObserveCase("demo")))
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Run(context.Background(), s))
	return s
}

func TestObserveCase(t *testing.T) {
	m := New()
	runObserved(t, m)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.casesTotal.WithLabelValues("demo", "pass")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.casesTotal.WithLabelValues("demo", "fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.casesTotal.WithLabelValues("demo", "invalid")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.droppedLogs.WithLabelValues("demo")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.caseDuration))
}

func TestRecordRun(t *testing.T) {
	tests := []struct {
		name   string
		stats  unittest.Stats
		status string
	}{
		{name: "pass", stats: unittest.Stats{Total: 3, Executed: 3}, status: "pass"},
		{name: "fail", stats: unittest.Stats{Total: 3, Executed: 3, Failed: 1}, status: "fail"},
		{name: "interrupted", stats: unittest.Stats{Total: 3, Executed: 1, Failed: 1}, status: "interrupted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			tt.stats.Duration = 1500 * time.Millisecond
			m.RecordRun("demo", tt.stats)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("demo", tt.status)))
			assert.Equal(t, 1.5, testutil.ToFloat64(m.runDuration.WithLabelValues("demo")))
		})
	}
}

func TestWriteFile(t *testing.T) {
	m := New()
	s := runObserved(t, m)
	m.RecordRun("demo", unittest.StatsOf(s))

	path := filepath.Join(t.TempDir(), "utest.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `utest_cases_total{result="pass",suite="demo"} 2`)
	assert.Contains(t, text, `utest_runs_total{status="fail",suite="demo"} 1`)
	assert.Contains(t, text, "utest_case_duration_seconds_bucket")
}
