// Package history holds a bounded log of successfully executed commands.
package history

import "iter"

// DefaultSize is the number of entries kept when no size is configured.
const DefaultSize = 10

// Ring is a fixed capacity command history. Once full, recording a new entry
// overwrites the oldest one.
//
// Ring isn't safe for concurrent use.
type Ring struct {
	entries []string
	// head is the index the next entry is written to.
	head  int
	count int
}

// NewRing creates an empty history. A non-positive capacity uses DefaultSize.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultSize
	}
	return &Ring{entries: make([]string, capacity)}
}

// Record inserts line as the most recent entry.
func (r *Ring) Record(line string) {
	r.entries[r.head] = line
	r.head = (r.head + 1) % len(r.entries)
	if r.count < len(r.entries) {
		r.count++
	}
}

// Len gets the number of entries held.
func (r *Ring) Len() int {
	return r.count
}

// Cap gets the maximum number of entries held.
func (r *Ring) Cap() int {
	return len(r.entries)
}

// All iterates over the held entries from most to least recent. The sequence
// reflects the ring at the time each iteration starts.
func (r *Ring) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 1; i <= r.count; i++ {
			idx := (r.head - i + len(r.entries)) % len(r.entries)
			if !yield(r.entries[idx]) {
				return
			}
		}
	}
}
