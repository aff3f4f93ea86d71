package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-sewa/internal/events"
	"github.com/noah-isme/backend-sewa/internal/ledger"
	"github.com/noah-isme/backend-sewa/internal/obs"
)

// ErrValidation marks submissions rejected before any persistence.
var ErrValidation = errors.New("booking: missing required fields")

// Service owns the booking write path: validation, the transactional
// insert, journal posting and event emission.
type Service struct {
	Pool   *pgxpool.Pool
	Repo   *Repo
	Ledger *ledger.Store
	Bus    *events.Bus
	Logger zerolog.Logger
}

// Create validates the submission and persists the booking, its add-on
// lines and the journal entry in a single transaction. The domain event is
// emitted only after a successful commit.
func (s *Service) Create(ctx context.Context, in CreateInput) (Booking, ledger.Entry, error) {
	if in.MissingRequired() {
		return Booking{}, ledger.Entry{}, ErrValidation
	}

	companyID, err := uuid.Parse(in.CompanyID)
	if err != nil {
		return s.failCreate(fmt.Errorf("invalid companyId: %w", err))
	}
	vehicleID, err := uuid.Parse(in.VehicleID)
	if err != nil {
		return s.failCreate(fmt.Errorf("invalid vehicleId: %w", err))
	}
	customerID, err := uuid.Parse(in.CustomerID)
	if err != nil {
		return s.failCreate(fmt.Errorf("invalid customerId: %w", err))
	}
	start, err := ParseDate(in.StartDate)
	if err != nil {
		return s.failCreate(fmt.Errorf("invalid startDate: %w", err))
	}
	end, err := ParseDate(in.EndDate)
	if err != nil {
		return s.failCreate(fmt.Errorf("invalid endDate: %w", err))
	}

	now := time.Now().UTC()
	b := Booking{
		BookingNumber:  Number(now),
		CompanyID:      companyID,
		VehicleID:      vehicleID,
		CustomerID:     customerID,
		StartDate:      start,
		EndDate:        end,
		TotalDays:      in.TotalDays,
		MonthlyPeriods: in.MonthlyPeriods,
		RemainingDays:  in.RemainingDays,
		DailyRate:      in.DailyRate,
		MonthlyRate:    in.MonthlyRate,
		TotalAmount:    *in.TotalAmount,
		Notes:          in.Notes,
		Status:         StatusPending,
		AddOns:         []AddOn{},
	}
	for _, a := range in.AddOns {
		qty := 1
		if a.Quantity != nil {
			qty = *a.Quantity
		}
		b.AddOns = append(b.AddOns, AddOn{
			Name:        a.Name,
			DailyRate:   a.DailyRate,
			Quantity:    qty,
			TotalAmount: a.TotalAmount,
		})
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return s.failCreate(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.Repo.Insert(ctx, tx, &b); err != nil {
		return s.failCreate(err)
	}
	for i := range b.AddOns {
		if err := s.Repo.InsertAddOn(ctx, tx, b.ID, &b.AddOns[i]); err != nil {
			return s.failCreate(err)
		}
	}
	entry, err := s.Ledger.Post(ctx, tx, ledger.EntryInput{
		BookingID:  b.ID,
		CustomerID: customerID,
		Total:      b.TotalAmount,
		At:         now,
	})
	if err != nil {
		return s.failCreate(err)
	}
	customerEmail, err := s.Repo.CustomerEmail(ctx, tx, customerID)
	if err != nil {
		return s.failCreate(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return s.failCreate(err)
	}

	if obs.BookingCreatedTotal != nil {
		obs.BookingCreatedTotal.WithLabelValues("ok").Inc()
	}
	if obs.LedgerEntriesTotal != nil {
		obs.LedgerEntriesTotal.Inc()
	}

	s.emit(ctx, events.TopicBookingCreated, b.ID, map[string]any{
		"bookingId":     b.ID.String(),
		"bookingNumber": b.BookingNumber,
		"customerEmail": customerEmail,
		"totalAmount":   b.TotalAmount.StringFixed(2),
		"notifyEmail":   in.Notifications.Email,
		"notifySms":     in.Notifications.SMS,
	})
	s.emit(ctx, events.TopicLedgerEntryPosted, b.ID, map[string]any{
		"bookingId":   b.ID.String(),
		"entryNumber": entry.EntryNumber,
		"amount":      entry.DebitAmount.StringFixed(2),
	})

	s.Logger.Info().
		Str("booking_id", b.ID.String()).
		Str("booking_number", b.BookingNumber).
		Str("entry_number", entry.EntryNumber).
		Msg("booking created")
	return b, entry, nil
}

func (s *Service) failCreate(err error) (Booking, ledger.Entry, error) {
	if obs.BookingCreatedTotal != nil {
		obs.BookingCreatedTotal.WithLabelValues("error").Inc()
	}
	return Booking{}, ledger.Entry{}, err
}

// UpdateStatus moves a booking to one of the patchable statuses.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Booking, error) {
	b, err := s.Repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return Booking{}, err
	}
	if obs.BookingStatusTotal != nil {
		obs.BookingStatusTotal.WithLabelValues(string(status)).Inc()
	}
	s.emit(ctx, events.TopicBookingStatusChanged, b.ID, map[string]any{
		"bookingId":     b.ID.String(),
		"bookingNumber": b.BookingNumber,
		"status":        string(b.Status),
	})
	return b, nil
}

// emit records a domain event; failures are logged, never surfaced to the
// caller after commit.
func (s *Service) emit(ctx context.Context, topic string, aggregateID uuid.UUID, payload any) {
	if s.Bus == nil {
		return
	}
	if _, err := s.Bus.Emit(ctx, topic, aggregateID, payload); err != nil {
		s.Logger.Error().Err(err).Str("topic", topic).Msg("emit event")
	}
}
