package csvio

import (
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tally-ledger/tally/internal/domain"
)

// ─── Reader Tests ───────────────────────────────────────────────────────────

func readAll(t *testing.T, input string) []domain.Transaction {
	t.Helper()
	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	var out []domain.Transaction
	for {
		tx, err := r.Read()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		out = append(out, tx)
	}
}

func TestReader_Basic(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"deposit,1,1,10.4752\n" +
		"withdrawal,1,2,5\n" +
		"dispute,1,1,\n"

	txs := readAll(t, input)
	if len(txs) != 3 {
		t.Fatalf("decoded %d rows, want 3", len(txs))
	}

	if txs[0].Type != domain.TypeDeposit || txs[0].Client != 1 || txs[0].TX != 1 {
		t.Errorf("row 1 = %+v", txs[0])
	}
	if txs[0].Amount == nil || !txs[0].Amount.Equal(decimal.RequireFromString("10.4752")) {
		t.Errorf("row 1 amount = %v, want 10.4752", txs[0].Amount)
	}
	if txs[2].Type != domain.TypeDispute || txs[2].Amount != nil {
		t.Errorf("row 3 = %+v, want dispute with nil amount", txs[2])
	}
}

func TestReader_WhitespaceAndCase(t *testing.T) {
	input := "type, client, tx, amount\n" +
		" DEPOSIT , 1, 1, 2.0\n" +
		"  Dispute, 1, 1,\n"

	txs := readAll(t, input)
	if txs[0].Type != domain.TypeDeposit {
		t.Errorf("row 1 type = %q, want deposit", txs[0].Type)
	}
	if txs[1].Type != domain.TypeDispute {
		t.Errorf("row 2 type = %q, want dispute", txs[1].Type)
	}
}

func TestReader_MetaRowWithoutAmountField(t *testing.T) {
	// Meta rows may omit the trailing comma entirely.
	input := "type,client,tx,amount\n" +
		"deposit,1,1,5\n" +
		"dispute,1,1\n"

	txs := readAll(t, input)
	if len(txs) != 2 {
		t.Fatalf("decoded %d rows, want 2", len(txs))
	}
	if txs[1].Amount != nil {
		t.Errorf("dispute amount = %v, want nil", txs[1].Amount)
	}
}

func TestReader_HeaderOrderIrrelevant(t *testing.T) {
	input := "client,amount,type,tx\n" +
		"7,3.5,deposit,9\n"

	txs := readAll(t, input)
	tx := txs[0]
	if tx.Client != 7 || tx.TX != 9 || tx.Type != domain.TypeDeposit {
		t.Errorf("decoded = %+v", tx)
	}
	if tx.Amount == nil || !tx.Amount.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("amount = %v, want 3.5", tx.Amount)
	}
}

func TestReader_MalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"unknown type", "transfer,1,1,5"},
		{"non-numeric client", "deposit,abc,1,5"},
		{"client overflow", "deposit,70000,1,5"},
		{"non-numeric tx", "deposit,1,abc,5"},
		{"bad amount", "deposit,1,1,five"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader("type,client,tx,amount\n" + tt.row + "\n"))
			if err != nil {
				t.Fatalf("NewReader: %v", err)
			}
			if _, err := r.Read(); err == nil {
				t.Fatalf("Read(%q) should fail", tt.row)
			}
		})
	}
}

func TestReader_MissingHeaderColumns(t *testing.T) {
	if _, err := NewReader(strings.NewReader("type,client\n")); err == nil {
		t.Fatal("NewReader should reject a header without a tx column")
	}
}

// ─── Writer Tests ───────────────────────────────────────────────────────────

func TestWriter_FixedPrecision(t *testing.T) {
	accounts := []domain.Account{
		{
			Client:    1,
			Available: decimal.RequireFromString("15.4752"),
			Held:      decimal.Zero,
			Total:     decimal.RequireFromString("15.4752"),
		},
		{
			Client:    2,
			Available: decimal.RequireFromString("-3"),
			Held:      decimal.RequireFromString("1.5"),
			Total:     decimal.RequireFromString("-1.5"),
			Locked:    true,
		},
	}

	var sb strings.Builder
	if err := NewWriter(&sb, 4).WriteAccounts(accounts); err != nil {
		t.Fatalf("WriteAccounts: %v", err)
	}

	want := "client,available,held,total,locked\n" +
		"1,15.4752,0.0000,15.4752,false\n" +
		"2,-3.0000,1.5000,-1.5000,true\n"
	if sb.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriter_EmptyLedger(t *testing.T) {
	var sb strings.Builder
	if err := NewWriter(&sb, 4).WriteAccounts(nil); err != nil {
		t.Fatalf("WriteAccounts: %v", err)
	}
	if sb.String() != "client,available,held,total,locked\n" {
		t.Errorf("output = %q, want header only", sb.String())
	}
}

// ─── Round Trip ─────────────────────────────────────────────────────────────

func TestReader_TruncatedQuote(t *testing.T) {
	input := "type,client,tx,amount\n\"deposit,1,1,5\n"
	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := r.Read(); err == nil {
		t.Fatal("Read should fail on an unterminated quote")
	}
}
