package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no journal entry exists for a booking.
var ErrNotFound = errors.New("ledger: entry not found")

// Store persists journal entries and allocates per-year entry numbers.
type Store struct {
	Pool *pgxpool.Pool
}

// NextSequence reserves the next entry number for the given year. The upsert
// keeps the counter transactional under concurrent bookings.
func (s *Store) NextSequence(ctx context.Context, tx pgx.Tx, year int) (int, error) {
	const q = `
		INSERT INTO journal_sequences (year, value)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET value = journal_sequences.value + 1
		RETURNING value`
	var seq int
	if err := tx.QueryRow(ctx, q, year).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// Post builds and persists a POSTED entry inside the caller's transaction so
// it commits or rolls back together with the booking.
func (s *Store) Post(ctx context.Context, tx pgx.Tx, in EntryInput) (Entry, error) {
	if s == nil || s.Pool == nil {
		return Entry{}, errors.New("ledger: store not configured")
	}
	at := in.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	seq, err := s.NextSequence(ctx, tx, at.Year())
	if err != nil {
		return Entry{}, err
	}
	in.Sequence = seq
	in.At = at
	entry, err := BuildEntry(in)
	if err != nil {
		return Entry{}, err
	}
	const q = `
		INSERT INTO journal_entries
			(id, entry_number, booking_id, debit_account, credit_account,
			 debit_amount, credit_amount, status, entry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.Exec(ctx, q,
		entry.ID, entry.EntryNumber, entry.BookingID,
		entry.DebitAccount, entry.CreditAccount,
		entry.DebitAmount, entry.CreditAmount,
		string(entry.Status), entry.EntryDate,
	)
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// GetByBooking loads the journal entry recorded for a booking. The booking
// detail endpoint serves it alongside the booking as the payment audit record.
func (s *Store) GetByBooking(ctx context.Context, bookingID uuid.UUID) (Entry, error) {
	if s == nil || s.Pool == nil {
		return Entry{}, errors.New("ledger: store not configured")
	}
	const q = `
		SELECT id, entry_number, booking_id, debit_account, credit_account,
		       debit_amount, credit_amount, status, entry_date
		FROM journal_entries
		WHERE booking_id = $1`
	var (
		e      Entry
		status string
		debit  decimal.Decimal
		credit decimal.Decimal
	)
	err := s.Pool.QueryRow(ctx, q, bookingID).Scan(
		&e.ID, &e.EntryNumber, &e.BookingID,
		&e.DebitAccount, &e.CreditAccount,
		&debit, &credit, &status, &e.EntryDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	e.DebitAmount = debit
	e.CreditAmount = credit
	e.Status = EntryStatus(status)
	return e, nil
}
