package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Fatal: aborts the whole run.
	ErrMissingAmount          = errors.New("standard transaction has no amount")
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// Absorbed by the engine: the transaction is dropped and counted,
	// the run continues.
	ErrDuplicateTransaction = errors.New("transaction id already journaled")
	ErrAmountNotPositive    = errors.New("amount is zero or negative")
	ErrInsufficientFunds    = errors.New("withdrawal exceeds available funds")
	ErrAccountLocked        = errors.New("account is locked")
)
