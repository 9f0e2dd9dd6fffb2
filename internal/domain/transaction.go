// Package domain contains the pure ledger types with ZERO infrastructure imports.
// This is the innermost ring of the module — it depends on nothing but the
// decimal arithmetic the amounts require.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ─── Transaction Types ──────────────────────────────────────────────────────

// TransactionType is the closed set of transaction kinds the engine accepts.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeDispute    TransactionType = "dispute"
	TypeResolve    TransactionType = "resolve"
	TypeChargeback TransactionType = "chargeback"
)

// ParseTransactionType normalizes a raw type token (case-insensitive,
// surrounding whitespace tolerated) into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeDispute, TypeResolve, TypeChargeback:
		return t, nil
	}
	return "", ErrUnknownTransactionType
}

// Standard reports whether the type moves its own funds. Deposits and
// withdrawals are journaled; the three meta kinds only reference a prior
// standard transaction by id and are never journaled themselves.
func (t TransactionType) Standard() bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

// ─── Transaction ────────────────────────────────────────────────────────────

// Transaction is one decoded input row. Amount is nil for the meta kinds —
// a dispute, resolve, or chargeback always uses the referenced journal
// entry's amount, never its own.
type Transaction struct {
	Type   TransactionType
	Client uint16
	TX     uint32
	Amount *decimal.Decimal
}

// AmountValue returns the transaction's amount, or ErrMissingAmount when a
// standard transaction arrived without one.
func (t Transaction) AmountValue() (decimal.Decimal, error) {
	if t.Amount == nil {
		return decimal.Decimal{}, ErrMissingAmount
	}
	return *t.Amount, nil
}

// ─── Journal Entry ──────────────────────────────────────────────────────────

// JournalEntry is the retained record of one standard transaction. TX ids
// are global across all clients; Disputed flips while a dispute is open.
type JournalEntry struct {
	TX       uint32
	Client   uint16
	Type     TransactionType
	Amount   decimal.Decimal
	Disputed bool
}
