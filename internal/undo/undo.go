// Package undo keeps a bounded history of remaining-quota snapshots.
package undo

// DefaultLimit is the number of snapshots kept before the oldest is dropped.
const DefaultLimit = 20

// Log is an ordered stack of remaining-minute values, newest last.
// The zero value is not usable; construct with New.
type Log struct {
	entries []int
	limit   int
}

// New returns an empty log holding at most limit entries.
func New(limit int) *Log {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Log{limit: limit}
}

// Push records v unless it equals the current top. The oldest entry is
// evicted when the log grows past its limit.
func (l *Log) Push(v int) {
	if n := len(l.entries); n > 0 && l.entries[n-1] == v {
		return
	}
	l.entries = append(l.entries, v)
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
}

// Undo returns the value to restore and whether there was anything to undo.
//
// The top entry is popped; if a second entry exists it is popped as well and
// becomes the restored value, otherwise the top itself is restored. The
// restored value is pushed back so a further Undo can step from it. Repeated
// calls therefore alternate between the two most recent snapshots.
func (l *Log) Undo() (int, bool) {
	n := len(l.entries)
	if n == 0 {
		return 0, false
	}
	restore := l.entries[n-1]
	l.entries = l.entries[:n-1]
	if n >= 2 {
		restore = l.entries[n-2]
		l.entries = l.entries[:n-2]
	}
	l.entries = append(l.entries, restore)
	return restore, true
}

// Len reports how many snapshots are held.
func (l *Log) Len() int {
	return len(l.entries)
}

// Values returns a copy of the entries, oldest first.
func (l *Log) Values() []int {
	out := make([]int, len(l.entries))
	copy(out, l.entries)
	return out
}

// Restore replaces the contents with values, keeping only the newest
// entries that fit.
func (l *Log) Restore(values []int) {
	l.entries = l.entries[:0]
	for _, v := range values {
		l.Push(v)
	}
}

// Clear drops every entry.
func (l *Log) Clear() {
	l.entries = nil
}
