package unittest

import "errors"

var (
	// ErrNilFunc is returned by NewCase without a function.
	ErrNilFunc = errors.New("test function is nil")
	// ErrInvalidFlags is returned by NewCase for unknown flag bits.
	ErrInvalidFlags = errors.New("invalid case flags")
	// ErrNilCase is returned by Suite.Add for a nil case.
	ErrNilCase = errors.New("case is nil")
	// ErrCaseOwned is returned when a case is added to a second suite.
	ErrCaseOwned = errors.New("case already belongs to a suite")
	// ErrSuiteRan is returned when a suite with completed cases is run again.
	ErrSuiteRan = errors.New("suite already ran")
	// ErrRunnerUsed is returned when a runner is asked to run twice.
	ErrRunnerUsed = errors.New("runner already used")
	// ErrRunnerClosed is returned by Run after Close.
	ErrRunnerClosed = errors.New("runner closed")
	// ErrNoAllocator is returned by NewThreadedRunner without a budget.
	ErrNoAllocator = errors.New("threaded runner requires a budget")
	// ErrAllocation is returned when the budget cannot cover the runner.
	ErrAllocation = errors.New("not enough budget for threaded runner")
)
