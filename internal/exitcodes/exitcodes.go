// Package exitcodes defines the exit codes used by utest.
package exitcodes

import "errors"

// Exit code constants:
//
// * Success (0): all executed cases passed
// * TestFailure (1): one or more cases failed
// * RuntimeErr (2): configuration, storage or runner errors and interrupted runs
const (
	Success     = 0 // All tests pass
	TestFailure = 1 // Test failures
	RuntimeErr  = 2 // Runtime errors
)

// ErrTestsFailed is returned by commands whose run completed with failing cases.
var ErrTestsFailed = errors.New("test cases failed")

// Code maps the error returned by a command to the process exit code.
func Code(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrTestsFailed):
		return TestFailure
	default:
		return RuntimeErr
	}
}
