package memstore

import (
	"sort"

	"github.com/tally-ledger/tally/internal/domain"
)

// ─── Account Store ──────────────────────────────────────────────────────────

// Accounts holds one account per client id, created lazily and never
// deleted.
type Accounts struct {
	accounts map[uint16]*domain.Account
}

// NewAccounts creates an empty account store.
func NewAccounts() *Accounts {
	return &Accounts{accounts: make(map[uint16]*domain.Account)}
}

// GetOrCreate returns the client's account, creating a zero-balance
// unlocked one on first reference.
func (s *Accounts) GetOrCreate(client uint16) *domain.Account {
	if a, ok := s.accounts[client]; ok {
		return a
	}
	a := domain.NewAccount(client)
	s.accounts[client] = a
	return a
}

// Get returns the client's account, or nil when the client was never
// referenced.
func (s *Accounts) Get(client uint16) *domain.Account {
	return s.accounts[client]
}

// Len returns the number of accounts.
func (s *Accounts) Len() int {
	return len(s.accounts)
}

// Snapshot returns a copy of every account, sorted by client id. Map order
// would do — output order is unspecified — but sorting keeps runs
// reproducible byte for byte.
func (s *Accounts) Snapshot() []domain.Account {
	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}
