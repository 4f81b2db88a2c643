// Package unittest is a small embeddable test runner.
//
// The main components are:
//   - Case: a named function with flags, an optional capture buffer and an outcome
//   - Suite: cases in insertion order, which is also execution and report order
//   - BasicRunner: runs a suite on the calling goroutine
//   - ThreadedRunner: runs a suite on a worker pool, honoring parallel groups
//   - StatsOf and Replay: post-run statistics and captured log replay
//
// While a case runs, the logger returned by logging.FromContext on the context
// passed to its function writes into the case's capture buffer, so cases
// running side by side never interleave their output. The global zap logger and
// the standard library log package are saved at run start and restored at the
// end. While exactly one case is executing (every case of a BasicRunner or a
// ThreadedRunner without workers or with a single worker, and every barrier
// case) they point at that case's logger too. Parallel cases running
// concurrently share the run logger as the global one and capture only what
// they log through the context.
package unittest
