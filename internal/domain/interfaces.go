package domain

// ─── Store Interfaces ───────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the ledger engine depends on them.

// Journal abstracts the transaction journal: every standard transaction
// ever seen, keyed by its global TX id. Entries are never removed.
type Journal interface {
	// Record inserts the entry for its TX id. The first write for an id
	// wins; Record reports false when the id was already journaled and
	// leaves the existing entry untouched.
	Record(entry JournalEntry) bool

	// Get returns the entry for the id, or nil when the id was never
	// journaled.
	Get(tx uint32) *JournalEntry

	// MarkDisputed sets the disputed flag on an existing entry.
	MarkDisputed(tx uint32, disputed bool)

	// Len returns the number of journaled entries.
	Len() int

	// Walk visits every entry in ascending TX order.
	Walk(fn func(JournalEntry))
}

// AccountStore abstracts per-client account state, keyed by client id.
// Accounts are created lazily on first reference and never deleted.
type AccountStore interface {
	// GetOrCreate returns the account for the client, creating a
	// zero-balance unlocked one on first access.
	GetOrCreate(client uint16) *Account

	// Get returns the account for the client, or nil when the client was
	// never referenced.
	Get(client uint16) *Account

	// Len returns the number of accounts.
	Len() int

	// Snapshot returns a copy of every account, sorted by client id.
	Snapshot() []Account
}
