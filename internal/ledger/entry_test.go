package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBuildEntryBalanced(t *testing.T) {
	total := decimal.RequireFromString("1260.00")
	entry, err := BuildEntry(EntryInput{
		BookingID:  uuid.New(),
		CustomerID: uuid.New(),
		Total:      total,
		Sequence:   7,
		At:         time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("build entry: %v", err)
	}
	if !entry.Balanced() {
		t.Fatal("entry must be balanced by construction")
	}
	if !entry.DebitAmount.Equal(total) || !entry.CreditAmount.Equal(total) {
		t.Fatalf("amounts must equal total: debit=%s credit=%s", entry.DebitAmount, entry.CreditAmount)
	}
	if entry.Status != StatusPosted {
		t.Fatalf("expected POSTED status, got %s", entry.Status)
	}
	if entry.DebitAccount != DebitAccountCardClearing {
		t.Fatalf("unexpected debit account %s", entry.DebitAccount)
	}
}

func TestEntryNumberFormat(t *testing.T) {
	if got := EntryNumber(2025, 7); got != "JE-2025-0007" {
		t.Fatalf("unexpected entry number %s", got)
	}
	if got := EntryNumber(2025, 12345); got != "JE-2025-12345" {
		t.Fatalf("sequence must not truncate: %s", got)
	}
}

func TestCreditAccountDerivedFromCustomer(t *testing.T) {
	customer := uuid.MustParse("8f14e45f-ceea-467f-a0e6-e815db4b1b5d")
	account := CreditAccountFor(customer)
	if !strings.HasPrefix(account, "1200-AR-") {
		t.Fatalf("unexpected account prefix %s", account)
	}
	if account != CreditAccountFor(customer) {
		t.Fatal("account derivation must be deterministic")
	}
}

func TestBuildEntryRejectsBadInput(t *testing.T) {
	_, err := BuildEntry(EntryInput{BookingID: uuid.New(), CustomerID: uuid.New(), Total: decimal.Zero})
	if err != ErrNonPositiveAmount {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
	_, err = BuildEntry(EntryInput{BookingID: uuid.New(), Total: decimal.NewFromInt(10)})
	if err != ErrMissingCustomer {
		t.Fatalf("expected ErrMissingCustomer, got %v", err)
	}
}
