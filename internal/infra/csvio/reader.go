// Package csvio decodes input rows into transactions and encodes final
// account snapshots back to CSV. Any row that fails to decode is fatal —
// the contract with the engine is that it only ever sees well-formed
// transactions.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-ledger/tally/internal/domain"
)

// ─── Reader ─────────────────────────────────────────────────────────────────

// Reader streams transactions from a header-bearing CSV document, one row
// at a time.
type Reader struct {
	csv  *csv.Reader
	cols columns
	row  int // 1-based data row counter for error messages
}

// columns maps the header names to their positions. Order in the input is
// whatever the header says.
type columns struct {
	typ, client, tx, amount int
}

// NewReader reads the header row and prepares to stream transactions.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // meta rows may omit the trailing amount field

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := columns{typ: -1, client: -1, tx: -1, amount: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "type":
			cols.typ = i
		case "client":
			cols.client = i
		case "tx":
			cols.tx = i
		case "amount":
			cols.amount = i
		}
	}
	if cols.typ < 0 || cols.client < 0 || cols.tx < 0 {
		return nil, fmt.Errorf("header missing required columns (type, client, tx): %v", header)
	}

	return &Reader{csv: cr, cols: cols}, nil
}

// Read decodes the next row. It returns io.EOF when the stream is
// exhausted and a descriptive error on any malformed row.
func (r *Reader) Read() (domain.Transaction, error) {
	record, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return domain.Transaction{}, io.EOF
		}
		return domain.Transaction{}, fmt.Errorf("row %d: %w", r.row+1, err)
	}
	r.row++

	tx, err := r.decode(record)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("row %d: %w", r.row, err)
	}
	return tx, nil
}

func (r *Reader) decode(record []string) (domain.Transaction, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	typ, err := domain.ParseTransactionType(field(r.cols.typ))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("type %q: %w", field(r.cols.typ), err)
	}

	client, err := strconv.ParseUint(field(r.cols.client), 10, 16)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("client %q: %w", field(r.cols.client), err)
	}

	txID, err := strconv.ParseUint(field(r.cols.tx), 10, 32)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("tx %q: %w", field(r.cols.tx), err)
	}

	tx := domain.Transaction{
		Type:   typ,
		Client: uint16(client),
		TX:     uint32(txID),
	}

	if raw := field(r.cols.amount); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("amount %q: %w", raw, err)
		}
		tx.Amount = &amount
	}

	return tx, nil
}
