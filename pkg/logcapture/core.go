package logcapture

import (
	"go.uber.org/zap/zapcore"
)

var fieldEncoder = zapcore.NewJSONEncoder(zapcore.EncoderConfig{})

// entrySize charges the message, the JSON encoding of the fields and a fixed
// per-entry overhead.
func entrySize(msg string, fields []zapcore.Field) int {
	size := EntryOverhead + len(msg)
	if len(fields) == 0 {
		return size
	}
	buf, err := fieldEncoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		return size
	}
	size += buf.Len()
	buf.Free()
	return size
}

// Core returns a zapcore.Core that appends every entry at or above min to b.
func (b *Buffer) Core(min zapcore.Level) zapcore.Core {
	return &captureCore{buf: b, min: min}
}

type captureCore struct {
	buf    *Buffer
	min    zapcore.Level
	fields []zapcore.Field
}

func (c *captureCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min
}

func (c *captureCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &captureCore{buf: c.buf, min: c.min, fields: merged}
}

func (c *captureCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *captureCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	c.buf.Append(Entry{
		Level:   ent.Level,
		Time:    ent.Time,
		Logger:  ent.LoggerName,
		Message: ent.Message,
		Fields:  all,
	})
	return nil
}

func (c *captureCore) Sync() error {
	return nil
}
