package domain

// RunSummary is one row of the stored run history
type RunSummary struct {
	RunID           string  `json:"run_id"`
	Suite           string  `json:"suite"`
	TotalCases      int     `json:"total_cases"`
	FailedCases     int     `json:"failed_cases"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// Summary returns the history row of the report.
func (r *RunReport) Summary() RunSummary {
	return RunSummary{
		RunID:           r.Meta.RunID,
		Suite:           r.Meta.Suite,
		TotalCases:      r.Meta.TotalCases,
		FailedCases:     r.Meta.FailedCases,
		DurationSeconds: r.Meta.DurationSeconds,
		Timestamp:       r.Meta.Timestamp,
	}
}

// UnresolvedFailures counts the failed cases not yet marked as resolved.
func (r *RunReport) UnresolvedFailures() int {
	n := 0
	for _, c := range r.Failures() {
		if !c.Resolved {
			n++
		}
	}
	return n
}
