package logcapture

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func messages(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}

// sized returns a message whose entry is charged exactly n bytes.
func sized(prefix string, n int) string {
	return prefix + strings.Repeat(".", n-EntryOverhead-len(prefix))
}

func TestBuffer_AppendKeepsOrder(t *testing.T) {
	b := New(1024, DropNewest)
	for i := 0; i < 5; i++ {
		require.True(t, b.Append(Entry{Message: fmt.Sprintf("m%d", i)}))
	}

	assert.Equal(t, []string{"m0", "m1", "m2", "m3", "m4"}, messages(b.Entries()))
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, 5*(EntryOverhead+2), b.Used())
	assert.Zero(t, b.Dropped())
}

func TestBuffer_Overflow(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		expected []string
		dropped  int
	}{
		{
			name:     "drop newest rejects incoming entries",
			policy:   DropNewest,
			expected: []string{sized("a", 32), sized("b", 32), sized("c", 32)},
			dropped:  2,
		},
		{
			name:     "drop oldest evicts from the front",
			policy:   DropOldest,
			expected: []string{sized("c", 32), sized("d", 32), sized("e", 32)},
			dropped:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(100, tt.policy)
			for _, p := range []string{"a", "b", "c", "d", "e"} {
				b.Append(Entry{Message: sized(p, 32)})
			}
			assert.Equal(t, tt.expected, messages(b.Entries()))
			assert.Equal(t, tt.dropped, b.Dropped())
			assert.LessOrEqual(t, b.Used(), b.Cap())
		})
	}
}

func TestBuffer_DropOldestEvictsUntilFit(t *testing.T) {
	b := New(100, DropOldest)
	for _, p := range []string{"a", "b", "c", "d"} {
		require.True(t, b.Append(Entry{Message: sized(p, 25)}))
	}

	require.True(t, b.Append(Entry{Message: sized("big", 60)}))

	assert.Equal(t, []string{sized("d", 25), sized("big", 60)}, messages(b.Entries()))
	assert.Equal(t, 3, b.Dropped())
	assert.Equal(t, 85, b.Used())
}

func TestBuffer_OversizedEntryAlwaysDropped(t *testing.T) {
	for _, policy := range []Policy{DropNewest, DropOldest} {
		t.Run(policy.String(), func(t *testing.T) {
			b := New(64, policy)
			require.True(t, b.Append(Entry{Message: "kept"}))

			assert.False(t, b.Append(Entry{Message: strings.Repeat("x", 64)}))
			assert.Equal(t, []string{"kept"}, messages(b.Entries()))
			assert.Equal(t, 1, b.Dropped())
		})
	}
}

func TestBuffer_ZeroCapacity(t *testing.T) {
	b := New(0, DropNewest)
	assert.False(t, b.Append(Entry{Message: "x"}))
	assert.Zero(t, b.Len())
}

func TestBuffer_Reset(t *testing.T) {
	b := New(40, DropNewest)
	b.Append(Entry{Message: "one"})
	b.Append(Entry{Message: strings.Repeat("y", 40)})
	b.Reset()

	assert.Zero(t, b.Len())
	assert.Zero(t, b.Used())
	assert.Zero(t, b.Dropped())
}

func TestBuffer_ManyEvictionsCompact(t *testing.T) {
	b := New(10*(EntryOverhead+3), DropOldest)
	for i := 0; i < 1000; i++ {
		b.Append(Entry{Message: fmt.Sprintf("%03d", i)})
	}

	got := messages(b.Entries())
	require.Len(t, got, 10)
	assert.Equal(t, "990", got[0])
	assert.Equal(t, "999", got[9])
	assert.Equal(t, 990, b.Dropped())
}

func TestCore_FiltersByLevel(t *testing.T) {
	b := New(4096, DropNewest)
	log := zap.New(b.Core(zapcore.WarnLevel)).Named("case")

	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error", zap.Int("code", 7))

	entries := b.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "case", entries[0].Logger)
	assert.Equal(t, "error", entries[1].Message)
	require.Len(t, entries[1].Fields, 1)
	assert.Equal(t, "code", entries[1].Fields[0].Key)
	assert.Greater(t, entries[1].Size, EntryOverhead+len("error"))
}

func TestCore_WithFields(t *testing.T) {
	b := New(4096, DropNewest)
	log := zap.New(b.Core(zapcore.DebugLevel)).With(zap.String("worker", "1"))

	log.Info("hello", zap.Bool("ok", true))

	entries := b.Entries()
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Fields, 2)
	assert.Equal(t, "worker", entries[0].Fields[0].Key)
	assert.Equal(t, "ok", entries[0].Fields[1].Key)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in       string
		expected Policy
		ok       bool
	}{
		{in: "", expected: DropNewest, ok: true},
		{in: "drop-newest", expected: DropNewest, ok: true},
		{in: "drop-oldest", expected: DropOldest, ok: true},
		{in: "overwrite", expected: DropNewest, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, ok := ParsePolicy(tt.in)
			assert.Equal(t, tt.expected, p)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
