package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a booking id does not exist.
var ErrNotFound = errors.New("booking: not found")

// Repo persists bookings and their add-on lines.
type Repo struct {
	Pool *pgxpool.Pool
}

const listColumns = `
	b.id, b.booking_number, b.company_id, b.vehicle_id, b.customer_id,
	b.start_date, b.end_date, b.total_days, b.monthly_periods, b.remaining_days,
	b.daily_rate, b.monthly_rate, b.total_amount, b.notes, b.status,
	c.full_name, v.name, co.name,
	COALESCE(
		json_agg(json_build_object(
			'id', ba.id,
			'name', ba.name,
			'dailyRate', ba.daily_rate,
			'quantity', ba.quantity,
			'totalAmount', ba.total_amount
		)) FILTER (WHERE ba.id IS NOT NULL), '[]'
	),
	b.created_at, b.updated_at`

const listJoins = `
	FROM bookings b
	JOIN customers c ON c.id = b.customer_id
	JOIN vehicles v ON v.id = b.vehicle_id
	JOIN companies co ON co.id = b.company_id
	LEFT JOIN booking_addons ba ON ba.booking_id = b.id`

const listGroupBy = ` GROUP BY b.id, c.full_name, v.name, co.name`

// Insert writes the booking row inside the caller's transaction and fills
// the generated id and timestamps.
func (r *Repo) Insert(ctx context.Context, tx pgx.Tx, b *Booking) error {
	const q = `
		INSERT INTO bookings (
			booking_number, company_id, vehicle_id, customer_id,
			start_date, end_date, total_days, monthly_periods, remaining_days,
			daily_rate, monthly_rate, total_amount, notes, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, created_at, updated_at`
	return tx.QueryRow(ctx, q,
		b.BookingNumber, b.CompanyID, b.VehicleID, b.CustomerID,
		b.StartDate, b.EndDate, b.TotalDays, b.MonthlyPeriods, b.RemainingDays,
		b.DailyRate, b.MonthlyRate, b.TotalAmount, b.Notes, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// InsertAddOn writes one add-on line inside the caller's transaction.
func (r *Repo) InsertAddOn(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, a *AddOn) error {
	const q = `
		INSERT INTO booking_addons (booking_id, name, daily_rate, quantity, total_amount)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`
	return tx.QueryRow(ctx, q, bookingID, a.Name, a.DailyRate, a.Quantity, a.TotalAmount).Scan(&a.ID)
}

// CustomerEmail looks up the customer's contact email for notifications.
func (r *Repo) CustomerEmail(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (string, error) {
	var email string
	err := tx.QueryRow(ctx, `SELECT email FROM customers WHERE id = $1`, customerID).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return email, err
}

// Count returns the number of bookings, optionally filtered by status.
func (r *Repo) Count(ctx context.Context, status string) (int64, error) {
	var total int64
	if status == "" {
		err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&total)
		return total, err
	}
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE status = $1`, status).Scan(&total)
	return total, err
}

// List returns one page of bookings, newest first, with joined display
// names and aggregated add-ons.
func (r *Repo) List(ctx context.Context, status string, limit, offset int) ([]Booking, error) {
	q := `SELECT` + listColumns + listJoins
	args := []any{}
	if status != "" {
		q += ` WHERE b.status = $1`
		args = append(args, status)
	}
	q += listGroupBy + ` ORDER BY b.created_at DESC`
	q += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Get returns one booking with joined names and add-ons.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (Booking, error) {
	q := `SELECT` + listColumns + listJoins + ` WHERE b.id = $1` + listGroupBy
	b, err := scanBooking(r.Pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, ErrNotFound
	}
	return b, err
}

// UpdateStatus sets the booking status and returns the updated row.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Booking, error) {
	const q = `
		UPDATE bookings SET status = $2, updated_at = now()
		WHERE id = $1`
	tag, err := r.Pool.Exec(ctx, q, id, status)
	if err != nil {
		return Booking{}, err
	}
	if tag.RowsAffected() == 0 {
		return Booking{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (Booking, error) {
	var b Booking
	var addonsJSON []byte
	err := row.Scan(
		&b.ID, &b.BookingNumber, &b.CompanyID, &b.VehicleID, &b.CustomerID,
		&b.StartDate, &b.EndDate, &b.TotalDays, &b.MonthlyPeriods, &b.RemainingDays,
		&b.DailyRate, &b.MonthlyRate, &b.TotalAmount, &b.Notes, &b.Status,
		&b.CustomerName, &b.VehicleName, &b.CompanyName,
		&addonsJSON,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return Booking{}, err
	}
	b.AddOns = []AddOn{}
	if len(addonsJSON) > 0 {
		if err := json.Unmarshal(addonsJSON, &b.AddOns); err != nil {
			return Booking{}, fmt.Errorf("booking: decode addons: %w", err)
		}
	}
	return b, nil
}
