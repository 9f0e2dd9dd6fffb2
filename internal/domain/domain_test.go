package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ─── TransactionType Tests ──────────────────────────────────────────────────

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		in      string
		want    TransactionType
		wantErr bool
	}{
		{"deposit", TypeDeposit, false},
		{"withdrawal", TypeWithdrawal, false},
		{"dispute", TypeDispute, false},
		{"resolve", TypeResolve, false},
		{"chargeback", TypeChargeback, false},
		{"  Deposit ", TypeDeposit, false},
		{"CHARGEBACK", TypeChargeback, false},
		{"transfer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTransactionType(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownTransactionType) {
					t.Fatalf("ParseTransactionType(%q) err = %v, want ErrUnknownTransactionType", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTransactionType(%q) err = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseTransactionType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransactionType_Standard(t *testing.T) {
	standard := map[TransactionType]bool{
		TypeDeposit:    true,
		TypeWithdrawal: true,
		TypeDispute:    false,
		TypeResolve:    false,
		TypeChargeback: false,
	}
	for typ, want := range standard {
		if got := typ.Standard(); got != want {
			t.Errorf("%s.Standard() = %v, want %v", typ, got, want)
		}
	}
}

// ─── Transaction Tests ──────────────────────────────────────────────────────

func TestTransaction_AmountValue(t *testing.T) {
	amt := dec("10.4752")
	tx := Transaction{Type: TypeDeposit, Client: 1, TX: 1, Amount: &amt}

	got, err := tx.AmountValue()
	if err != nil {
		t.Fatalf("AmountValue() err = %v", err)
	}
	if !got.Equal(amt) {
		t.Errorf("AmountValue() = %s, want %s", got, amt)
	}
}

func TestTransaction_AmountValue_Missing(t *testing.T) {
	tx := Transaction{Type: TypeWithdrawal, Client: 1, TX: 2}
	if _, err := tx.AmountValue(); !errors.Is(err, ErrMissingAmount) {
		t.Fatalf("AmountValue() err = %v, want ErrMissingAmount", err)
	}
}

// ─── Account Tests ──────────────────────────────────────────────────────────

func TestAccount_Deposit(t *testing.T) {
	a := NewAccount(1)
	a.Deposit(dec("10"))
	if !a.Available.Equal(dec("10")) || !a.Total.Equal(dec("10")) {
		t.Errorf("after deposit: available=%s total=%s, want 10/10", a.Available, a.Total)
	}
	if !a.Balanced() {
		t.Error("invariant broken after deposit")
	}
}

func TestAccount_Withdraw(t *testing.T) {
	a := NewAccount(1)
	a.Deposit(dec("15"))
	a.Withdraw(dec("7"))
	if !a.Available.Equal(dec("8")) || !a.Total.Equal(dec("8")) {
		t.Errorf("after withdraw: available=%s total=%s, want 8/8", a.Available, a.Total)
	}
	if !a.Balanced() {
		t.Error("invariant broken after withdraw")
	}
}

func TestAccount_Withdraw_Overdraft(t *testing.T) {
	// Overdrafts are the caller's problem; the account just goes negative.
	a := NewAccount(1)
	a.Withdraw(dec("3"))
	if !a.Available.Equal(dec("-3")) || !a.Total.Equal(dec("-3")) {
		t.Errorf("after overdraft: available=%s total=%s, want -3/-3", a.Available, a.Total)
	}
}

func TestAccount_Hold(t *testing.T) {
	a := NewAccount(1)
	a.Deposit(dec("15"))
	a.Hold(dec("5"))
	if !a.Available.Equal(dec("10")) {
		t.Errorf("available = %s, want 10", a.Available)
	}
	if !a.Held.Equal(dec("5")) {
		t.Errorf("held = %s, want 5", a.Held)
	}
	if !a.Total.Equal(dec("15")) {
		t.Errorf("total = %s, want 15", a.Total)
	}
}

func TestAccount_Release(t *testing.T) {
	a := NewAccount(1)
	a.Deposit(dec("20"))
	a.Hold(dec("10"))
	a.Release(dec("5"))
	if !a.Available.Equal(dec("15")) {
		t.Errorf("available = %s, want 15", a.Available)
	}
	if !a.Held.Equal(dec("5")) {
		t.Errorf("held = %s, want 5", a.Held)
	}
	if !a.Total.Equal(dec("20")) {
		t.Errorf("total = %s, want 20", a.Total)
	}
}

func TestAccount_ChargeOff(t *testing.T) {
	// Chargeback removes disputed funds from held, not available, so the
	// sum invariant survives.
	a := NewAccount(1)
	a.Deposit(dec("10"))
	a.Hold(dec("10"))
	a.ChargeOff(dec("10"))
	if !a.Available.Equal(dec("0")) {
		t.Errorf("available = %s, want 0", a.Available)
	}
	if !a.Held.Equal(dec("0")) {
		t.Errorf("held = %s, want 0", a.Held)
	}
	if !a.Total.Equal(dec("0")) {
		t.Errorf("total = %s, want 0", a.Total)
	}
	if !a.Balanced() {
		t.Error("invariant broken after charge-off")
	}
}

func TestAccount_Freeze(t *testing.T) {
	a := NewAccount(1)
	a.Freeze()
	if !a.Locked {
		t.Error("account should be locked after Freeze")
	}
}

func TestAccount_ExactDecimal(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3 — no float drift.
	a := NewAccount(1)
	a.Deposit(dec("0.1"))
	a.Deposit(dec("0.2"))
	if !a.Available.Equal(dec("0.3")) {
		t.Errorf("available = %s, want exactly 0.3", a.Available)
	}
}

// ─── Sentinel Error Tests ───────────────────────────────────────────────────

func TestSentinelErrors(t *testing.T) {
	errs := []struct {
		name string
		err  error
	}{
		{"ErrMissingAmount", ErrMissingAmount},
		{"ErrUnknownTransactionType", ErrUnknownTransactionType},
		{"ErrDuplicateTransaction", ErrDuplicateTransaction},
		{"ErrAmountNotPositive", ErrAmountNotPositive},
		{"ErrInsufficientFunds", ErrInsufficientFunds},
		{"ErrAccountLocked", ErrAccountLocked},
	}

	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Errorf("%s is nil", tt.name)
			}
			if tt.err.Error() == "" {
				t.Errorf("%s.Error() is empty", tt.name)
			}
		})
	}
}
