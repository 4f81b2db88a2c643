package domain

import (
	"time"

	"utest/pkg/unittest"
)

// RunMeta contains metadata about a test run
type RunMeta struct {
	RunID           string   `json:"run_id"`
	Suite           string   `json:"suite"`
	TotalCases      int      `json:"total_cases"`
	ExecutedCases   int      `json:"executed_cases"`
	PassedCases     int      `json:"passed_cases"`
	FailedCases     int      `json:"failed_cases"`
	FailedNames     []string `json:"failed_names,omitempty"`
	Duration        string   `json:"duration"`
	DurationSeconds float64  `json:"duration_seconds"`
	Workers         int      `json:"workers"`
	OverflowPolicy  string   `json:"overflow_policy"`
	Timestamp       string   `json:"timestamp"`
}

// RunReport is the complete output structure for a test run
type RunReport struct {
	Meta  RunMeta      `json:"meta"`
	Cases []CaseReport `json:"cases"`
}

// ReportOptions carries run settings that the suite itself does not know.
type ReportOptions struct {
	RunID   string
	Suite   string
	Workers int
	Policy  string
}

// NewRunReport builds the report of a finished run from the suite state.
func NewRunReport(s *unittest.Suite, opts ReportOptions) *RunReport {
	st := unittest.StatsOf(s)

	ts := s.EndTime()
	if ts.IsZero() {
		ts = time.Now()
	}

	report := &RunReport{
		Meta: RunMeta{
			RunID:           opts.RunID,
			Suite:           opts.Suite,
			TotalCases:      st.Total,
			ExecutedCases:   st.Executed,
			PassedCases:     st.Passed(),
			FailedCases:     st.Failed,
			FailedNames:     st.FailedNames,
			Duration:        st.Duration.String(),
			DurationSeconds: st.Duration.Seconds(),
			Workers:         opts.Workers,
			OverflowPolicy:  opts.Policy,
			Timestamp:       ts.Format(time.RFC3339),
		},
		Cases: make([]CaseReport, 0, s.Len()),
	}
	for _, tc := range s.Cases() {
		report.Cases = append(report.Cases, NewCaseReport(tc))
	}
	return report
}

// Failures returns the reports of the cases that failed, in suite order.
func (r *RunReport) Failures() []*CaseReport {
	var failed []*CaseReport
	for i := range r.Cases {
		if r.Cases[i].Failed() {
			failed = append(failed, &r.Cases[i])
		}
	}
	return failed
}

// Select returns the case reports matching sel, in suite order.
func (r *RunReport) Select(sel unittest.Selection) []*CaseReport {
	var out []*CaseReport
	for i := range r.Cases {
		c := &r.Cases[i]
		switch {
		case sel == unittest.SelectFailed && !c.Failed():
			continue
		case sel == unittest.SelectPassed && !c.Passed:
			continue
		}
		out = append(out, c)
	}
	return out
}
