package ui

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"utest/internal/domain"
	"utest/pkg/unittest"
)

// ReplayReport writes the captured lines of the selected cases of a saved
// report to log, each case preceded by its status line.
func ReplayReport(report *domain.RunReport, sel unittest.Selection, log *zap.Logger) int {
	if log == nil {
		log = zap.L()
	}
	core := log.Core()
	n := 0
	for _, c := range report.Select(sel) {
		status, lvl := "OK", zapcore.InfoLevel
		switch {
		case !c.Completed:
			status, lvl = "NOT RUN", zapcore.WarnLevel
		case c.Failed():
			status, lvl = "FAILED", zapcore.ErrorLevel
		}
		if ce := log.Check(lvl, fmt.Sprintf("[%d/%d] %s %s", c.Index+1, report.Meta.TotalCases, c.Name, status)); ce != nil {
			ce.Write(zap.Int("result", c.Result))
		}
		for _, l := range c.Logs {
			writeLine(core, l)
			n++
		}
	}
	return n
}

func writeLine(core zapcore.Core, l domain.LogLine) {
	ts, err := time.Parse(time.RFC3339Nano, l.Time)
	if err != nil {
		ts = time.Now()
	}
	ent := zapcore.Entry{
		Level:      l.ParseLevel(),
		Time:       ts,
		LoggerName: l.Logger,
		Message:    l.Message,
	}
	ce := core.Check(ent, nil)
	if ce == nil {
		return
	}
	keys := make([]string, 0, len(l.Fields))
	for k := range l.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, l.Fields[k]))
	}
	ce.Write(fields...)
}
