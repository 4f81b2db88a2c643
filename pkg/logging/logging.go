// Package logging holds the process-wide logger plumbing used by the test
// runner: the context-carried case logger, a minimum-level filter for cores,
// and the scoped guard that swaps the global zap logger for the duration of a
// run.
package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// WithLogger returns a copy of ctx carrying log.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the logger stored in ctx, or the global logger when
// there is none.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && log != nil {
			return log
		}
	}
	return zap.L()
}

// AtLeast wraps core so that only entries at min or above are enabled.
// Unlike zapcore.NewIncreaseLevelCore it accepts any min, even one below the
// wrapped core's own level; the wrapped core still applies its own filter.
func AtLeast(core zapcore.Core, min zapcore.Level) zapcore.Core {
	return &minLevelCore{Core: core, min: min}
}

type minLevelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *minLevelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &minLevelCore{Core: c.Core.With(fields), min: c.min}
}

func (c *minLevelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ent.Level < c.min {
		return ce
	}
	return c.Core.Check(ent, ce)
}
