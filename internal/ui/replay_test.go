package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"utest/internal/domain"
	"utest/pkg/unittest"
)

func savedReport() *domain.RunReport {
	return &domain.RunReport{
		Meta: domain.RunMeta{TotalCases: 3},
		Cases: []domain.CaseReport{
			{Index: 0, Name: "ok", Completed: true, Passed: true, Logs: []domain.LogLine{
				{Time: "2026-01-02T03:04:05.000000006Z", Level: "debug", Logger: "ok", Message: "ready"},
			}},
			{Index: 1, Name: "bad", Completed: true, Result: 2, Logs: []domain.LogLine{
				{Level: "info", Logger: "bad", Message: "trying", Fields: map[string]any{"attempt": float64(1)}},
				{Level: "error", Logger: "bad", Message: "gave up"},
			}},
			{Index: 2, Name: "skipped"},
		},
	}
}

func TestReplayReport(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	n := ReplayReport(savedReport(), unittest.SelectFailed, zap.New(core))

	assert.Equal(t, 2, n)
	all := logs.AllUntimed()
	require.Len(t, all, 3)
	assert.Equal(t, "[2/3] bad FAILED", all[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, all[0].Level)
	assert.Equal(t, "trying", all[1].Message)
	assert.Equal(t, "bad", all[1].LoggerName)
	assert.Equal(t, map[string]any{"attempt": float64(1)}, all[1].ContextMap())
	assert.Equal(t, zapcore.ErrorLevel, all[2].Level)
}

func TestReplayReport_All(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	ReplayReport(savedReport(), unittest.SelectAll, zap.New(core))

	var messages []string
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{"[1/3] ok OK", "[2/3] bad FAILED", "trying", "gave up", "[3/3] skipped NOT RUN"}, messages,
		"debug lines are filtered by the destination level")
}
