// Package sqlite writes the optional per-run audit export: the run record,
// every journaled transaction, and the final account snapshots. The export
// is a pure output artifact produced after a replay completes — account
// state is never read back, so each run still derives entirely from its
// input stream.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tally-ledger/tally/internal/app/replay"
	"github.com/tally-ledger/tally/internal/domain"
)

// ─── Schema ─────────────────────────────────────────────────────────────────

// migrations returns the audit schema statements. Each string is a single
// SQL statement (SQLite executes one at a time).
func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id      TEXT PRIMARY KEY,
			source      TEXT NOT NULL,
			rows        INTEGER NOT NULL,
			processed   INTEGER NOT NULL,
			accounts    INTEGER NOT NULL,
			journal_len INTEGER NOT NULL,
			started_at  TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS journal_entries (
			run_id   TEXT NOT NULL,
			tx       INTEGER NOT NULL,
			client   INTEGER NOT NULL,
			type     TEXT NOT NULL,
			amount   TEXT NOT NULL,
			disputed INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, tx)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_client ON journal_entries(run_id, client)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			run_id    TEXT NOT NULL,
			client    INTEGER NOT NULL,
			available TEXT NOT NULL,
			held      TEXT NOT NULL,
			total     TEXT NOT NULL,
			locked    INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, client)
		)`,
	}
}

// ─── DB ─────────────────────────────────────────────────────────────────────

// DB is an open audit database.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the audit database at path and applies
// the schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	for _, stmt := range migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate audit db: %w", err)
		}
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// ─── Export ─────────────────────────────────────────────────────────────────

// ExportRun writes one completed run: its report row, the full journal,
// and the final snapshots, in a single transaction. Amounts are stored as
// decimal strings to keep them exact.
func (d *DB) ExportRun(report replay.Report, journal domain.Journal, accounts domain.AccountStore) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, source, rows, processed, accounts, journal_len, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID.String(), report.Source, report.Rows, report.Stats.Processed,
		accounts.Len(), journal.Len(),
		report.Started.UTC().Format("2006-01-02T15:04:05.000Z"),
		report.Finished.UTC().Format("2006-01-02T15:04:05.000Z"),
	)
	if err != nil {
		return fmt.Errorf("export run: %w", err)
	}

	entryStmt, err := tx.Prepare(`
		INSERT INTO journal_entries (run_id, tx, client, type, amount, disputed)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare journal export: %w", err)
	}
	defer entryStmt.Close()

	var walkErr error
	journal.Walk(func(e domain.JournalEntry) {
		if walkErr != nil {
			return
		}
		_, walkErr = entryStmt.Exec(
			report.RunID.String(), e.TX, e.Client, string(e.Type), e.Amount.String(), boolInt(e.Disputed))
	})
	if walkErr != nil {
		return fmt.Errorf("export journal: %w", walkErr)
	}

	snapStmt, err := tx.Prepare(`
		INSERT INTO snapshots (run_id, client, available, held, total, locked)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare snapshot export: %w", err)
	}
	defer snapStmt.Close()

	for _, a := range accounts.Snapshot() {
		if _, err := snapStmt.Exec(
			report.RunID.String(), a.Client, a.Available.String(), a.Held.String(), a.Total.String(), boolInt(a.Locked)); err != nil {
			return fmt.Errorf("export snapshot: %w", err)
		}
	}

	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
