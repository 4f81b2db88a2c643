package unittest

import "time"

// MaxFailedNames is how many failing case names Stats keeps.
const MaxFailedNames = 32

// Stats summarizes a suite after a run.
type Stats struct {
	Duration time.Duration
	Total    int
	Executed int
	Failed   int
	// FailedNames holds the first MaxFailedNames failing cases in suite
	// order. Failed is exact even when names were left out.
	FailedNames []string
}

// Passed returns the number of executed cases that passed.
func (st Stats) Passed() int {
	return st.Executed - st.Failed
}

// Truncated reports whether some failing names are missing.
func (st Stats) Truncated() bool {
	return st.Failed > len(st.FailedNames)
}

// StatsOf computes the statistics of s. The suite and its cases must still be
// alive; the runner may already be closed.
func StatsOf(s *Suite) Stats {
	st := Stats{
		Duration: s.Duration(),
		Total:    len(s.cases),
	}
	for _, tc := range s.cases {
		if !tc.Completed() {
			continue
		}
		st.Executed++
		if tc.Failed() {
			st.Failed++
			if len(st.FailedNames) < MaxFailedNames {
				st.FailedNames = append(st.FailedNames, tc.name)
			}
		}
	}
	return st
}
