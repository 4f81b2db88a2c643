// Package logcapture implements the bounded, per-case log store used by the
// test runner. A Buffer has a fixed byte capacity and keeps entries in the
// order they were written; Core adapts it to zapcore so a case's logger can
// write straight into it.
package logcapture

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// EntryOverhead is the number of bytes every entry is charged on top of its
// message and encoded fields.
const EntryOverhead = 16

// Policy decides what happens to an entry that does not fit.
type Policy int

const (
	// DropNewest discards the incoming entry and keeps what is stored.
	DropNewest Policy = iota
	// DropOldest evicts stored entries from the front until the incoming
	// entry fits.
	DropOldest
)

func (p Policy) String() string {
	switch p {
	case DropNewest:
		return "drop-newest"
	case DropOldest:
		return "drop-oldest"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a policy name as printed by String back to a Policy.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "", "drop-newest":
		return DropNewest, true
	case "drop-oldest":
		return DropOldest, true
	}
	return DropNewest, false
}

// Entry is one captured log record.
type Entry struct {
	Level   zapcore.Level
	Time    time.Time
	Logger  string
	Message string
	Fields  []zapcore.Field
	Size    int
}

// Buffer is a fixed-capacity ordered log store.
type Buffer struct {
	mu       sync.Mutex
	capacity int
	policy   Policy
	entries  []Entry
	head     int
	used     int
	dropped  int
}

// New returns a Buffer holding at most capacity bytes of entries.
func New(capacity int, policy Policy) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{capacity: capacity, policy: policy}
}

// Append stores e and reports whether it was kept. e.Size is computed here.
func (b *Buffer) Append(e Entry) bool {
	e.Size = entrySize(e.Message, e.Fields)

	b.mu.Lock()
	defer b.mu.Unlock()

	if e.Size > b.capacity {
		b.dropped++
		return false
	}
	if b.used+e.Size > b.capacity {
		if b.policy == DropNewest {
			b.dropped++
			return false
		}
		for b.used+e.Size > b.capacity {
			b.used -= b.entries[b.head].Size
			b.entries[b.head] = Entry{}
			b.head++
			b.dropped++
		}
		b.compact()
	}
	b.entries = append(b.entries, e)
	b.used += e.Size
	return true
}

// compact reclaims the evicted prefix once it dominates the backing slice.
func (b *Buffer) compact() {
	if b.head == 0 || b.head < len(b.entries)/2 {
		return
	}
	n := copy(b.entries, b.entries[b.head:])
	clear(b.entries[n:])
	b.entries = b.entries[:n]
	b.head = 0
}

// Entries returns a copy of the stored entries, oldest first.
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Entry, len(b.entries)-b.head)
	copy(out, b.entries[b.head:])
	return out
}

// Len returns the number of stored entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries) - b.head
}

// Used returns the number of bytes charged to stored entries.
func (b *Buffer) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Cap returns the configured capacity in bytes.
func (b *Buffer) Cap() int {
	return b.capacity
}

// Policy returns the overflow policy.
func (b *Buffer) Policy() Policy {
	return b.policy
}

// Dropped returns how many entries were discarded, whether rejected on
// arrival or evicted later.
func (b *Buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Reset empties the buffer and clears the drop counter.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
	b.head = 0
	b.used = 0
	b.dropped = 0
}
