package unittest

import (
	"fmt"
	"time"
)

// Suite is an ordered collection of cases. Insertion order is both the
// execution order and the reporting order.
type Suite struct {
	cases []*Case
	start time.Time
	end   time.Time
}

// NewSuite returns an empty suite.
func NewSuite() *Suite {
	return &Suite{}
}

// Add appends tc. A case can belong to one suite only.
func (s *Suite) Add(tc *Case) error {
	if tc == nil {
		return fmt.Errorf("add: %w", ErrNilCase)
	}
	if tc.suite != nil {
		return fmt.Errorf("add %q: %w", tc.name, ErrCaseOwned)
	}
	tc.suite = s
	s.cases = append(s.cases, tc)
	return nil
}

// Cases returns the cases in insertion order.
func (s *Suite) Cases() []*Case {
	out := make([]*Case, len(s.cases))
	copy(out, s.cases)
	return out
}

// Len returns the number of cases.
func (s *Suite) Len() int {
	return len(s.cases)
}

// StartTime returns when the last run started.
func (s *Suite) StartTime() time.Time { return s.start }

// EndTime returns when the last run finished.
func (s *Suite) EndTime() time.Time { return s.end }

// Duration returns the wall time of the run.
func (s *Suite) Duration() time.Duration {
	if s.end.Before(s.start) {
		return 0
	}
	return s.end.Sub(s.start)
}

// prepare numbers the cases and binds them to r before a run.
func (s *Suite) prepare(r Runner) error {
	for _, tc := range s.cases {
		if tc.Completed() {
			return fmt.Errorf("case %q: %w", tc.name, ErrSuiteRan)
		}
	}
	total := len(s.cases)
	for i, tc := range s.cases {
		tc.index = i
		tc.total = total
		tc.runner = r
	}
	return nil
}
