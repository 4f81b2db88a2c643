package unittest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"utest/pkg/logging"
)

func TestStatsOf(t *testing.T) {
	tests := []struct {
		name        string
		results     []int
		failed      int
		failedNames []string
	}{
		{name: "empty suite", results: nil, failed: 0},
		{name: "all pass", results: []int{0, 0, 0}, failed: 0},
		{name: "mixed", results: []int{0, 1, 0, -1, int(ResultPending)}, failed: 3, failedNames: []string{"case-1", "case-3", "case-4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observeGlobal(t)
			s := NewSuite()
			for i, rc := range tt.results {
				rc := rc
				mustCase(t, s, fmt.Sprintf("case-%d", i), 0, func(context.Context, any) int { return rc })
			}
			require.NoError(t, NewBasicRunner(WithCompletion()).Run(context.Background(), s))

			st := StatsOf(s)
			assert.Equal(t, len(tt.results), st.Total)
			assert.Equal(t, len(tt.results), st.Executed)
			assert.Equal(t, tt.failed, st.Failed)
			assert.Equal(t, tt.failedNames, st.FailedNames)
			assert.Equal(t, st.Executed-st.Failed, st.Passed())
			assert.False(t, st.Truncated())
		})
	}
}

func TestStatsOf_TruncatesNames(t *testing.T) {
	observeGlobal(t)
	s := NewSuite()
	for i := 0; i < 45; i++ {
		rc := 1
		if i%9 == 0 {
			rc = 0
		}
		mustCase(t, s, fmt.Sprintf("case-%02d", i), Parallel, func(context.Context, any) int { return rc })
	}

	r, err := NewThreadedRunner(NewBudget(8), &ThreadedParams{Workers: 4}, WithCompletion())
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Run(context.Background(), s))

	st := StatsOf(s)
	assert.Equal(t, 45, st.Total)
	assert.Equal(t, 45, st.Executed)
	assert.Equal(t, 40, st.Failed)
	require.Len(t, st.FailedNames, MaxFailedNames)
	assert.True(t, st.Truncated())

	var expected []string
	for _, tc := range s.Cases() {
		if tc.Failed() && len(expected) < MaxFailedNames {
			expected = append(expected, tc.Name())
		}
	}
	assert.Equal(t, expected, st.FailedNames)
	assert.Equal(t, "case-01", st.FailedNames[0])
}

func TestStatsOf_BeforeRun(t *testing.T) {
	s := NewSuite()
	mustCase(t, s, "pending", 0, pass)

	st := StatsOf(s)
	assert.Equal(t, 1, st.Total)
	assert.Zero(t, st.Executed)
	assert.Zero(t, st.Failed)
	assert.Zero(t, st.Duration)
}

func replaySuite(t *testing.T) *Suite {
	t.Helper()
	s := NewSuite()
	for i, rc := range []int{0, 1, 0, 2} {
		name := fmt.Sprintf("case-%d", i)
		rc := rc
		mustCase(t, s, name, Parallel, func(ctx context.Context, _ any) int {
			log := logging.FromContext(ctx)
			log.Info(name + " first")
			log.Warn(name + " second")
			return rc
		})
	}
	mustCase(t, s, "silent", 0, pass)

	r, err := NewThreadedRunner(NewBudget(8), &ThreadedParams{Workers: 3}, WithCompletion())
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Run(context.Background(), s))
	return s
}

func TestReplay(t *testing.T) {
	observeGlobal(t)
	s := replaySuite(t)

	tests := []struct {
		sel      Selection
		expected []string
	}{
		{sel: SelectAll, expected: []string{
			"case-0 first", "case-0 second", "case-1 first", "case-1 second",
			"case-2 first", "case-2 second", "case-3 first", "case-3 second",
		}},
		{sel: SelectFailed, expected: []string{"case-1 first", "case-1 second", "case-3 first", "case-3 second"}},
		{sel: SelectPassed, expected: []string{"case-0 first", "case-0 second", "case-2 first", "case-2 second"}},
	}

	for _, tt := range tests {
		t.Run(tt.sel.String(), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			Replay(s, tt.sel, zap.New(core))

			var got []string
			for _, e := range logs.All() {
				got = append(got, e.Message)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReplay_KeepsLevelsAndHonorsDestinationLevel(t *testing.T) {
	observeGlobal(t)
	s := replaySuite(t)

	core, logs := observer.New(zapcore.WarnLevel)
	Replay(s, SelectFailed, zap.New(core))

	require.Equal(t, 2, logs.Len())
	for _, e := range logs.All() {
		assert.Equal(t, zapcore.WarnLevel, e.Level)
	}
	assert.Equal(t, "case-1", logs.All()[0].LoggerName)
}

func TestReplay_DefaultsToGlobalLogger(t *testing.T) {
	observeGlobal(t)
	s := replaySuite(t)

	logs := observeGlobal(t)
	Replay(s, SelectFailed, nil)
	assert.Equal(t, 4, logs.Len())
}

func TestCollect(t *testing.T) {
	observeGlobal(t)
	s := replaySuite(t)

	got := Collect(s, SelectFailed)
	require.Len(t, got, 2)
	assert.Equal(t, "case-1", got[0].Case.Name())
	assert.Equal(t, "case-3", got[1].Case.Name())
	assert.Len(t, got[0].Entries, 2)

	assert.Len(t, Collect(s, SelectAll), 4, "cases without captured entries are skipped")
}

func TestParseSelection(t *testing.T) {
	for _, sel := range []Selection{SelectAll, SelectFailed, SelectPassed} {
		got, ok := ParseSelection(sel.String())
		assert.True(t, ok)
		assert.Equal(t, sel, got)
	}
	_, ok := ParseSelection("some")
	assert.False(t, ok)
}
