package flow

import "sync"

// DefaultCapacity bounds the buffer when no capacity is configured.
const DefaultCapacity = 500

// Buffer is a bounded, insertion-ordered sequence of records shared between
// the backfill loader, the live listener, and the rendering layer. Live
// records are prepended (most recent first); backfill records are appended
// once at startup and sink toward the tail as live records accumulate. When
// capacity is exceeded the tail is evicted.
type Buffer struct {
	mu   sync.RWMutex
	cap  int
	recs []Record
}

// NewBuffer creates a buffer holding at most capacity records.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		cap:  capacity,
		recs: make([]Record, 0, capacity),
	}
}

// Prepend inserts a record at the head, evicting the tail at capacity.
func (b *Buffer) Prepend(r Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.recs = append(b.recs, Record{})
	copy(b.recs[1:], b.recs)
	b.recs[0] = r

	if len(b.recs) > b.cap {
		b.recs = b.recs[:b.cap]
	}
}

// Append inserts a record at the tail. At capacity the tail position is the
// oldest slot, so the insert is dropped.
func (b *Buffer) Append(r Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.recs) >= b.cap {
		return
	}
	b.recs = append(b.recs, r)
}

// Snapshot returns a consistent point-in-time copy for rendering.
func (b *Buffer) Snapshot() []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Record, len(b.recs))
	copy(out, b.recs)
	return out
}

// Len reports the current record count.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.recs)
}

// Cap reports the configured capacity.
func (b *Buffer) Cap() int {
	return b.cap
}
