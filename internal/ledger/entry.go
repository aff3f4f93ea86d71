package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	StatusDraft  EntryStatus = "DRAFT"
	StatusPosted EntryStatus = "POSTED"
)

// DebitAccountCardClearing is the fixed clearing account debited for every
// card payment.
const DebitAccountCardClearing = "1120-CARD-CLEARING"

// creditAccountPrefix prefixes the per-customer receivable account.
const creditAccountPrefix = "1200-AR"

var (
	// ErrNonPositiveAmount rejects entries that would not move money.
	ErrNonPositiveAmount = errors.New("ledger: amount must be positive")
	// ErrMissingCustomer rejects entries without a payer identity.
	ErrMissingCustomer = errors.New("ledger: customer id is required")
)

// Entry is a balanced double-entry journal record for a payment. Debit and
// credit amounts are the same field written twice at construction time, so
// the ledger stays balanced structurally and needs no reconciliation.
type Entry struct {
	ID            uuid.UUID       `json:"id"`
	EntryNumber   string          `json:"entryNumber"`
	BookingID     uuid.UUID       `json:"bookingId"`
	DebitAccount  string          `json:"debitAccount"`
	CreditAccount string          `json:"creditAccount"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	Status        EntryStatus     `json:"status"`
	EntryDate     time.Time       `json:"entryDate"`
}

// Balanced reports whether debit and credit match. It can only be false for
// records loaded from outside this package.
func (e Entry) Balanced() bool {
	return e.DebitAmount.Equal(e.CreditAmount)
}

// EntryInput carries everything needed to build a posted entry.
type EntryInput struct {
	BookingID  uuid.UUID
	CustomerID uuid.UUID
	Total      decimal.Decimal
	Sequence   int
	At         time.Time
}

// CreditAccountFor derives the receivable account code for a customer.
func CreditAccountFor(customerID uuid.UUID) string {
	return fmt.Sprintf("%s-%s", creditAccountPrefix, strings.ToUpper(customerID.String()[:8]))
}

// EntryNumber formats the journal entry display number for a given year and
// per-year sequence value.
func EntryNumber(year, sequence int) string {
	return fmt.Sprintf("JE-%d-%04d", year, sequence)
}

// BuildEntry constructs a POSTED entry debiting the card clearing account and
// crediting the customer receivable account with the booking total.
func BuildEntry(in EntryInput) (Entry, error) {
	if !in.Total.IsPositive() {
		return Entry{}, ErrNonPositiveAmount
	}
	if in.CustomerID == uuid.Nil {
		return Entry{}, ErrMissingCustomer
	}
	at := in.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return Entry{
		ID:            uuid.New(),
		EntryNumber:   EntryNumber(at.Year(), in.Sequence),
		BookingID:     in.BookingID,
		DebitAccount:  DebitAccountCardClearing,
		CreditAccount: CreditAccountFor(in.CustomerID),
		DebitAmount:   in.Total,
		CreditAmount:  in.Total,
		Status:        StatusPosted,
		EntryDate:     at,
	}, nil
}
