package logging

import "sync"

// DefaultRingSize is how many entries the TUI ring keeps.
const DefaultRingSize = 200

// RingBuffer keeps the most recent entries, overwriting the oldest.
type RingBuffer struct {
	mu    sync.RWMutex
	buf   []Entry
	next  int
	count int
}

// NewRingBuffer returns a ring holding up to size entries.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{buf: make([]Entry, size)}
}

// Append adds e, evicting the oldest entry when full.
func (r *RingBuffer) Append(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = e
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Tail returns up to n of the newest entries, oldest first.
// A negative n returns everything.
func (r *RingBuffer) Tail(n int) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n < 0 || n > r.count {
		n = r.count
	}
	out := make([]Entry, n)
	first := r.next - n
	if first < 0 {
		first += len(r.buf)
	}
	for i := range out {
		out[i] = r.buf[(first+i)%len(r.buf)]
	}
	return out
}

// Len reports how many entries are held.
func (r *RingBuffer) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Reset drops every entry.
func (r *RingBuffer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next, r.count = 0, 0
}
