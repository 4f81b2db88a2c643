package logging

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrRedirectActive is returned when another run already holds the global
// logger redirect.
var ErrRedirectActive = errors.New("global logger redirect already active")

var redirectHeld atomic.Bool

// Guard owns the process-wide logger for the duration of a run. The logger
// that was global when the guard was acquired is restored by Release.
type Guard struct {
	orig    *zap.Logger
	sink    *zap.Logger
	undo    func()
	undoStd func()
	once    sync.Once
}

// Redirect saves the current global zap logger and installs a logger that
// writes to the same core tagged with fields. Output of the standard library
// log package is routed to it as well. Only one guard may be held at a time;
// the caller must call Release on every exit path.
func Redirect(fields ...zap.Field) (*Guard, error) {
	if !redirectHeld.CompareAndSwap(false, true) {
		return nil, ErrRedirectActive
	}
	orig := zap.L()
	sink := orig.With(fields...)
	g := &Guard{
		orig: orig,
		sink: sink,
		undo: zap.ReplaceGlobals(sink),
	}
	g.undoStd = zap.RedirectStdLog(sink)
	return g, nil
}

// Original returns the logger that was global before the redirect.
func (g *Guard) Original() *zap.Logger {
	return g.orig
}

// Sink returns the logger installed as global while the guard is held.
func (g *Guard) Sink() *zap.Logger {
	return g.sink
}

// Scope installs log as the global zap logger and as the destination of the
// standard library log package. The returned func puts the run sink back.
// Only one scope may be open at a time; the runner opens one only while a
// single case executes.
func (g *Guard) Scope(log *zap.Logger) func() {
	undo := zap.ReplaceGlobals(log)
	zap.RedirectStdLog(log)
	return func() {
		// the std log restore func resets output to stderr, so redirect again
		zap.RedirectStdLog(g.sink)
		undo()
	}
}

// Release restores the saved global logger. It is safe to call more than once.
func (g *Guard) Release() {
	g.once.Do(func() {
		g.undoStd()
		g.undo()
		_ = g.sink.Sync()
		redirectHeld.Store(false)
	})
}
