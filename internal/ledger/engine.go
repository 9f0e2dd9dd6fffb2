// Package ledger implements the transaction-application state machine.
//
// The engine folds one transaction at a time over the account store and
// journal it owns. Deposits and withdrawals move their own funds and are
// journaled; disputes, resolves, and chargebacks reference a journaled
// transaction by id and move the referenced amount. Referential looseness
// (unknown ids, stale references) is expected input noise: those
// transactions are dropped and counted, never surfaced as errors. The only
// hard failure is a standard transaction arriving without an amount.
//
// The engine is single-goroutine by contract — transactions are applied in
// arrival order with no overlap, so there is no locking discipline.
package ledger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tally-ledger/tally/internal/domain"
	"github.com/tally-ledger/tally/internal/infra/observability"
)

// ─── Drop Reasons ───────────────────────────────────────────────────────────

// DropReason classifies a transaction the engine absorbed without applying.
type DropReason string

const (
	// DropDanglingReference: a meta-transaction referenced a TX id that
	// was never journaled.
	DropDanglingReference DropReason = "dangling_reference"
	// DropAlreadyDisputed: a dispute referenced an entry already under
	// dispute. Re-disputing would double-hold the funds.
	DropAlreadyDisputed DropReason = "already_disputed"
	// DropNotDisputed: a resolve or chargeback referenced an entry with no
	// open dispute.
	DropNotDisputed DropReason = "not_disputed"
	// DropDuplicateTX: a standard transaction reused a journaled TX id.
	DropDuplicateTX DropReason = "duplicate_tx"
	// DropOverdraft: strict mode rejected a withdrawal exceeding available
	// funds.
	DropOverdraft DropReason = "overdraft"
	// DropLocked: strict mode rejected a standard transaction on a locked
	// account.
	DropLocked DropReason = "account_locked"
	// DropNonPositive: strict mode rejected a zero or negative amount.
	DropNonPositive DropReason = "non_positive_amount"
)

// ─── Options ────────────────────────────────────────────────────────────────

// Options control the optional strict gates. All default to off, matching
// the permissive replay semantics: accounts may go negative, locked
// accounts keep transacting.
type Options struct {
	RejectOverdrafts  bool
	RejectLocked      bool
	RejectNonPositive bool
}

// ─── Stats ──────────────────────────────────────────────────────────────────

// Stats are the engine's running counters.
type Stats struct {
	Processed int64                            `json:"processed"`
	Applied   map[domain.TransactionType]int64 `json:"applied"`
	Dropped   map[DropReason]int64             `json:"dropped"`
}

func newStats() Stats {
	return Stats{
		Applied: make(map[domain.TransactionType]int64),
		Dropped: make(map[DropReason]int64),
	}
}

// ─── Engine ─────────────────────────────────────────────────────────────────

// Engine applies transactions to the journal and account store it was
// built with.
type Engine struct {
	journal  domain.Journal
	accounts domain.AccountStore
	opts     Options
	stats    Stats
	log      *zap.Logger
}

// New creates an engine over the given stores.
func New(journal domain.Journal, accounts domain.AccountStore, opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		journal:  journal,
		accounts: accounts,
		opts:     opts,
		stats:    newStats(),
		log:      log,
	}
}

// Accounts returns the engine's account store.
func (e *Engine) Accounts() domain.AccountStore { return e.accounts }

// Journal returns the engine's journal.
func (e *Engine) Journal() domain.Journal { return e.journal }

// Stats returns a copy of the engine's counters.
func (e *Engine) Stats() Stats {
	out := newStats()
	out.Processed = e.stats.Processed
	for k, v := range e.stats.Applied {
		out.Applied[k] = v
	}
	for k, v := range e.stats.Dropped {
		out.Dropped[k] = v
	}
	return out
}

// Apply runs one transaction through the state machine. A non-nil error is
// fatal to the run; absorbed transactions return nil and are counted under
// their drop reason.
func (e *Engine) Apply(tx domain.Transaction) error {
	e.stats.Processed++

	if tx.Type.Standard() {
		return e.applyStandard(tx)
	}
	e.applyMeta(tx)
	return nil
}

// applyStandard handles deposits and withdrawals.
func (e *Engine) applyStandard(tx domain.Transaction) error {
	amount, err := tx.AmountValue()
	if err != nil {
		return fmt.Errorf("%s client %d tx %d: %w", tx.Type, tx.Client, tx.TX, err)
	}

	// Reject before touching balances: a dropped transaction must leave no
	// trace.
	if e.journal.Get(tx.TX) != nil {
		e.drop(tx, DropDuplicateTX)
		return nil
	}
	if e.opts.RejectNonPositive && amount.Sign() <= 0 {
		e.drop(tx, DropNonPositive)
		return nil
	}

	account := e.accounts.GetOrCreate(tx.Client)

	if e.opts.RejectLocked && account.Locked {
		e.drop(tx, DropLocked)
		return nil
	}

	switch tx.Type {
	case domain.TypeDeposit:
		account.Deposit(amount)
	case domain.TypeWithdrawal:
		if e.opts.RejectOverdrafts && account.Available.LessThan(amount) {
			e.drop(tx, DropOverdraft)
			return nil
		}
		account.Withdraw(amount)
	}

	e.journal.Record(domain.JournalEntry{
		TX:     tx.TX,
		Client: tx.Client,
		Type:   tx.Type,
		Amount: amount,
	})

	e.applied(tx)
	observability.JournalEntries.Set(float64(e.journal.Len()))
	observability.AccountsTracked.Set(float64(e.accounts.Len()))
	return nil
}

// applyMeta handles disputes, resolves, and chargebacks. The amount moved
// is always the referenced entry's; the account acted on is the one the
// meta-transaction names.
func (e *Engine) applyMeta(tx domain.Transaction) {
	entry := e.journal.Get(tx.TX)
	if entry == nil {
		e.drop(tx, DropDanglingReference)
		return
	}

	account := e.accounts.GetOrCreate(tx.Client)

	switch tx.Type {
	case domain.TypeDispute:
		if entry.Disputed {
			e.drop(tx, DropAlreadyDisputed)
			return
		}
		account.Hold(entry.Amount)
		e.journal.MarkDisputed(tx.TX, true)

	case domain.TypeResolve:
		if !entry.Disputed {
			e.drop(tx, DropNotDisputed)
			return
		}
		account.Release(entry.Amount)
		e.journal.MarkDisputed(tx.TX, false)

	case domain.TypeChargeback:
		if !entry.Disputed {
			e.drop(tx, DropNotDisputed)
			return
		}
		account.ChargeOff(entry.Amount)
		account.Freeze()
	}

	e.applied(tx)
	observability.AccountsTracked.Set(float64(e.accounts.Len()))
}

func (e *Engine) applied(tx domain.Transaction) {
	e.stats.Applied[tx.Type]++
	observability.TransactionsApplied.WithLabelValues(string(tx.Type)).Inc()
}

func (e *Engine) drop(tx domain.Transaction, reason DropReason) {
	e.stats.Dropped[reason]++
	observability.TransactionsDropped.WithLabelValues(string(reason)).Inc()
	e.log.Debug("transaction dropped",
		zap.String("type", string(tx.Type)),
		zap.Uint16("client", tx.Client),
		zap.Uint32("tx", tx.TX),
		zap.String("reason", string(reason)),
	)
}
