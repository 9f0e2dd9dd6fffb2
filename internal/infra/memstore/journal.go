// Package memstore provides the in-memory account store and transaction
// journal backing one replay run. Both grow monotonically with the number
// of distinct ids seen and live for the duration of a single run.
//
// The engine is strictly sequential, so neither store carries a lock.
package memstore

import (
	"sort"

	"github.com/tally-ledger/tally/internal/domain"
)

// ─── Journal ────────────────────────────────────────────────────────────────

// Journal holds every standard transaction ever seen, keyed by TX id.
type Journal struct {
	entries map[uint32]*domain.JournalEntry
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{entries: make(map[uint32]*domain.JournalEntry)}
}

// Record inserts the entry under its TX id. First write wins: a duplicate
// id leaves the existing entry untouched and returns false.
func (j *Journal) Record(entry domain.JournalEntry) bool {
	if _, ok := j.entries[entry.TX]; ok {
		return false
	}
	e := entry
	j.entries[entry.TX] = &e
	return true
}

// Get returns the entry for the id, or nil when it was never journaled.
func (j *Journal) Get(tx uint32) *domain.JournalEntry {
	return j.entries[tx]
}

// MarkDisputed flips the disputed flag on an existing entry. Unknown ids
// are ignored.
func (j *Journal) MarkDisputed(tx uint32, disputed bool) {
	if e, ok := j.entries[tx]; ok {
		e.Disputed = disputed
	}
}

// Len returns the number of journaled entries.
func (j *Journal) Len() int {
	return len(j.entries)
}

// Walk visits every entry in ascending TX order.
func (j *Journal) Walk(fn func(domain.JournalEntry)) {
	ids := make([]uint32, 0, len(j.entries))
	for id := range j.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	for _, id := range ids {
		fn(*j.entries[id])
	}
}
