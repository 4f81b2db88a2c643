package domain

import (
	"time"

	"go.uber.org/zap/zapcore"

	"utest/pkg/logcapture"
	"utest/pkg/unittest"
)

// CaseReport represents a single test case of a saved run
type CaseReport struct {
	Index           int       `json:"index"`
	Name            string    `json:"name"`
	Flags           string    `json:"flags"`
	Result          int       `json:"result"`
	Completed       bool      `json:"completed"`
	Passed          bool      `json:"passed"`
	DurationSeconds float64   `json:"duration_seconds"`
	DroppedLogs     int       `json:"dropped_logs,omitempty"`
	Logs            []LogLine `json:"logs,omitempty"`
	Resolved        bool      `json:"resolved,omitempty"` // toggled from the fails viewer
}

// LogLine is one captured log entry of a case
type LogLine struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Logger  string         `json:"logger,omitempty"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Failed reports whether the case ran and did not pass.
func (c *CaseReport) Failed() bool {
	return c.Completed && !c.Passed
}

// NewCaseReport snapshots tc after a run.
func NewCaseReport(tc *unittest.Case) CaseReport {
	c := CaseReport{
		Index:     tc.Index(),
		Name:      tc.Name(),
		Flags:     tc.Flags().String(),
		Result:    int(tc.Result()),
		Completed: tc.Completed(),
		Passed:    tc.Passed(),
	}
	if tc.Completed() {
		c.DurationSeconds = tc.Duration().Seconds()
	}
	if buf := tc.Capture(); buf != nil {
		c.DroppedLogs = buf.Dropped()
	}
	for _, e := range tc.Logs() {
		c.Logs = append(c.Logs, NewLogLine(e))
	}
	return c
}

// NewLogLine converts a captured entry, encoding its fields into plain values.
func NewLogLine(e logcapture.Entry) LogLine {
	l := LogLine{
		Time:    e.Time.Format(time.RFC3339Nano),
		Level:   e.Level.String(),
		Logger:  e.Logger,
		Message: e.Message,
	}
	if len(e.Fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, f := range e.Fields {
			f.AddTo(enc)
		}
		l.Fields = enc.Fields
	}
	return l
}

// ParseLevel returns the zap level of the line, falling back to info.
func (l LogLine) ParseLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
