package domain

import "github.com/shopspring/decimal"

// ─── Account ────────────────────────────────────────────────────────────────

// Account is one client's balance state. Created lazily the first time any
// transaction references the client id, never deleted, and mutated only by
// the ledger engine.
//
// Invariant: Total equals Available plus Held after every mutation. The
// fields are updated independently — each mutation touches exactly the two
// fields whose semantics it moves — so the methods below are the only
// sanctioned way to change a balance.
type Account struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// NewAccount returns a zero-balance, unlocked account for the client.
func NewAccount(client uint16) *Account {
	return &Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
	}
}

// Deposit credits available and total funds.
func (a *Account) Deposit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
	a.Total = a.Total.Add(amount)
}

// Withdraw debits available and total funds. The caller decides whether an
// overdraft is acceptable; the account itself never rejects one.
func (a *Account) Withdraw(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Total = a.Total.Sub(amount)
}

// Hold freezes funds against an open dispute: available down, held up,
// total unchanged.
func (a *Account) Hold(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
}

// Release returns disputed funds to the client: held down, available up,
// total unchanged.
func (a *Account) Release(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
}

// ChargeOff removes disputed funds permanently: held down, total down,
// available unchanged.
func (a *Account) ChargeOff(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Total = a.Total.Sub(amount)
}

// Freeze locks the account after a chargeback. Nothing in this module ever
// unlocks it.
func (a *Account) Freeze() {
	a.Locked = true
}

// Balanced reports whether the sum invariant holds.
func (a *Account) Balanced() bool {
	return a.Total.Equal(a.Available.Add(a.Held))
}
