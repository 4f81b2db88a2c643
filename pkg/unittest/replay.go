package unittest

import (
	"go.uber.org/zap"

	"utest/pkg/logcapture"
)

// Selection picks which cases to replay.
type Selection int

const (
	SelectAll Selection = iota
	SelectFailed
	SelectPassed
)

func (sel Selection) String() string {
	switch sel {
	case SelectAll:
		return "all"
	case SelectFailed:
		return "failed"
	case SelectPassed:
		return "passed"
	default:
		return "unknown"
	}
}

// ParseSelection maps "all", "failed" and "passed" to a Selection.
func ParseSelection(s string) (Selection, bool) {
	switch s {
	case "all":
		return SelectAll, true
	case "failed":
		return SelectFailed, true
	case "passed":
		return SelectPassed, true
	}
	return SelectAll, false
}

// Matches reports whether tc is selected.
func (sel Selection) Matches(tc *Case) bool {
	switch sel {
	case SelectFailed:
		return tc.Failed()
	case SelectPassed:
		return tc.Passed()
	default:
		return true
	}
}

// CaseLogs is the captured output of one case.
type CaseLogs struct {
	Case    *Case
	Entries []logcapture.Entry
}

// Collect returns the captured entries of the selected cases in suite order.
// Cases with nothing captured are skipped.
func Collect(s *Suite, sel Selection) []CaseLogs {
	var out []CaseLogs
	for _, tc := range s.cases {
		if !sel.Matches(tc) {
			continue
		}
		entries := tc.Logs()
		if len(entries) == 0 {
			continue
		}
		out = append(out, CaseLogs{Case: tc, Entries: entries})
	}
	return out
}

// Replay writes the captured entries of the selected cases to log, case by
// case in suite order and each case's entries in capture order. A nil log
// writes to the global logger. Order across cases that ran concurrently is not
// reconstructed.
func Replay(s *Suite, sel Selection, log *zap.Logger) {
	if log == nil {
		log = zap.L()
	}
	core := log.Core()
	for _, cl := range Collect(s, sel) {
		for _, e := range cl.Entries {
			writeEntry(core, e)
		}
	}
}
