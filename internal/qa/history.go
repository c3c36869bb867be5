package qa

import (
	"strings"
	"sync"
)

// HistoryBuffer is a bounded, order-preserving log of raw conversation
// turns. When full, the oldest entries are evicted first. Intended to be
// per-session; a single buffer shared across concurrent sessions is not a
// supported configuration.
type HistoryBuffer struct {
	mu      sync.Mutex
	entries []string
	maxSize int
}

// NewHistoryBuffer creates a buffer holding at most maxSize entries.
func NewHistoryBuffer(maxSize int) *HistoryBuffer {
	return &HistoryBuffer{maxSize: maxSize}
}

// Add appends an entry, evicting from the front while over capacity.
func (b *HistoryBuffer) Add(entry string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, entry)
	for len(b.entries) > b.maxSize {
		b.entries = b.entries[1:]
	}
}

// History returns the buffered entries joined in insertion order,
// oldest first.
func (b *HistoryBuffer) History() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.entries, " ")
}

// Len returns the number of buffered entries.
func (b *HistoryBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Clear empties the buffer.
func (b *HistoryBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}
