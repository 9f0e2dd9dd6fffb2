package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/tally-ledger/tally/internal/domain"
)

// ─── Writer ─────────────────────────────────────────────────────────────────

// Writer encodes account snapshots as a header-bearing CSV document with a
// fixed number of fractional digits on every amount.
type Writer struct {
	csv       *csv.Writer
	precision int32
}

// NewWriter creates a snapshot writer. precision is the number of
// fractional digits rendered (4 matches the historical output format).
func NewWriter(w io.Writer, precision int) *Writer {
	return &Writer{csv: csv.NewWriter(w), precision: int32(precision)}
}

// WriteAccounts writes the header and one row per account, then flushes.
func (w *Writer) WriteAccounts(accounts []domain.Account) error {
	if err := w.csv.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}
	for _, a := range accounts {
		row := []string{
			strconv.FormatUint(uint64(a.Client), 10),
			a.Available.StringFixed(w.precision),
			a.Held.StringFixed(w.precision),
			a.Total.StringFixed(w.precision),
			strconv.FormatBool(a.Locked),
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	w.csv.Flush()
	return w.csv.Error()
}
