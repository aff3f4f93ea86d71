package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-sewa/internal/common"
	"github.com/noah-isme/backend-sewa/internal/pricing"
)

// Vehicle is the public vehicle payload.
type Vehicle struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"companyId"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	DailyRate   decimal.Decimal `json:"dailyRate"`
	MonthlyRate decimal.Decimal `json:"monthlyRate"`
	Status      string          `json:"status"`
}

// AddOn is the public optional-service payload.
type AddOn struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	MonthlyRate decimal.Decimal `json:"monthlyRate"`
}

// QuoteRequest is the pricing-preview payload. No booking is created.
type QuoteRequest struct {
	VehicleID string   `json:"vehicleId"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	AddOnIDs  []string `json:"addOnIds,omitempty"`
}

// QuoteLine is one priced add-on inside a quote.
type QuoteLine struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	MonthlyRate decimal.Decimal `json:"monthlyRate"`
	Total       decimal.Decimal `json:"total"`
}

// Quote is the computed pricing preview returned to the client.
type Quote struct {
	VehicleID      uuid.UUID       `json:"vehicleId"`
	TotalDays      int             `json:"totalDays"`
	MonthlyPeriods int             `json:"monthlyPeriods"`
	RemainingDays  int             `json:"remainingDays"`
	DailyRate      decimal.Decimal `json:"dailyRate"`
	MonthlyRate    decimal.Decimal `json:"monthlyRate"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	AddOnsTotal    decimal.Decimal `json:"addOnsTotal"`
	AddOnLines     []QuoteLine     `json:"addOnLines"`
	Savings        decimal.Decimal `json:"savings"`
	VATAmount      decimal.Decimal `json:"vatAmount"`
	TotalWithVAT   decimal.Decimal `json:"totalWithVat"`
}

// store abstracts the catalog queries so handlers can be tested without a
// database.
type store interface {
	ListVehicles(ctx context.Context, category string) ([]Vehicle, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (Vehicle, error)
	ListAddOns(ctx context.Context) ([]AddOn, error)
	GetAddOns(ctx context.Context, ids []uuid.UUID) ([]AddOn, error)
}

// PGStore reads the vehicle and add-on catalog from Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// ListVehicles returns available vehicles, optionally filtered by category.
func (s PGStore) ListVehicles(ctx context.Context, category string) ([]Vehicle, error) {
	q := `
		SELECT id, company_id, name, category, daily_rate, monthly_rate, status
		FROM vehicles
		WHERE status = 'AVAILABLE'`
	args := []any{}
	if category != "" {
		q += ` AND category = $1`
		args = append(args, category)
	}
	q += ` ORDER BY name`
	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	out := []Vehicle{}
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Name, &v.Category, &v.DailyRate, &v.MonthlyRate, &v.Status); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetVehicle loads one vehicle by id.
func (s PGStore) GetVehicle(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	const q = `
		SELECT id, company_id, name, category, daily_rate, monthly_rate, status
		FROM vehicles WHERE id = $1`
	var v Vehicle
	err := s.Pool.QueryRow(ctx, q, id).Scan(
		&v.ID, &v.CompanyID, &v.Name, &v.Category, &v.DailyRate, &v.MonthlyRate, &v.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vehicle{}, notFound("vehicle not found", err)
	}
	return v, err
}

// ListAddOns returns all active optional services.
func (s PGStore) ListAddOns(ctx context.Context) ([]AddOn, error) {
	const q = `SELECT id, name, monthly_rate FROM addons WHERE active ORDER BY name`
	rows, err := s.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	defer rows.Close()

	out := []AddOn{}
	for rows.Next() {
		var a AddOn
		if err := rows.Scan(&a.ID, &a.Name, &a.MonthlyRate); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAddOns loads the given active add-ons by id.
func (s PGStore) GetAddOns(ctx context.Context, ids []uuid.UUID) ([]AddOn, error) {
	if len(ids) == 0 {
		return []AddOn{}, nil
	}
	const q = `SELECT id, name, monthly_rate FROM addons WHERE active AND id = ANY($1)`
	rows, err := s.Pool.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("get addons: %w", err)
	}
	defer rows.Close()

	out := []AddOn{}
	for rows.Next() {
		var a AddOn
		if err := rows.Scan(&a.ID, &a.Name, &a.MonthlyRate); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Service serves the read-side catalog with a Redis cache in front of the
// vehicle and add-on listings.
type Service struct {
	Store store
	Cache *Cache
}

// Vehicles returns available vehicles. Unfiltered listings are cached.
func (s *Service) Vehicles(ctx context.Context, category string) ([]Vehicle, error) {
	category = strings.TrimSpace(category)
	key := ""
	if category == "" {
		key = "catalog:vehicles"
	}
	if key != "" {
		var cached []Vehicle
		if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	vehicles, err := s.Store.ListVehicles(ctx, category)
	if err != nil {
		return nil, err
	}
	if key != "" {
		_ = s.Cache.SetJSON(ctx, key, vehicles)
	}
	return vehicles, nil
}

// Vehicle returns one vehicle by id.
func (s *Service) Vehicle(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	return s.Store.GetVehicle(ctx, id)
}

// AddOns returns the active optional services, cached.
func (s *Service) AddOns(ctx context.Context) ([]AddOn, error) {
	const key = "catalog:addons"
	var cached []AddOn
	if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	addons, err := s.Store.ListAddOns(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.Cache.SetJSON(ctx, key, addons)
	return addons, nil
}

// BuildQuote computes a pricing preview for a vehicle and rental window.
func (s *Service) BuildQuote(ctx context.Context, req QuoteRequest) (Quote, error) {
	vehicleID, err := uuid.Parse(strings.TrimSpace(req.VehicleID))
	if err != nil {
		return Quote{}, badRequest("vehicleId", "vehicleId must be a valid UUID", err)
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return Quote{}, badRequest("startDate", "startDate must be an ISO date", err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return Quote{}, badRequest("endDate", "endDate must be an ISO date", err)
	}
	if !end.After(start) {
		return Quote{}, badRequest("endDate", "endDate must be after startDate", nil)
	}

	vehicle, err := s.Store.GetVehicle(ctx, vehicleID)
	if err != nil {
		return Quote{}, err
	}

	addOnIDs := make([]uuid.UUID, 0, len(req.AddOnIDs))
	for _, raw := range req.AddOnIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return Quote{}, badRequest("addOnIds", "addOnIds must be valid UUIDs", err)
		}
		addOnIDs = append(addOnIDs, id)
	}
	addons, err := s.Store.GetAddOns(ctx, addOnIDs)
	if err != nil {
		return Quote{}, err
	}

	rate := pricing.Quote(start, end, vehicle.DailyRate, vehicle.MonthlyRate)
	if !rate.Valid() {
		return Quote{}, badRequest("dates", "rental window has no billable days", nil)
	}
	lines := make([]pricing.AddOn, 0, len(addons))
	quoteLines := make([]QuoteLine, 0, len(addons))
	for _, a := range addons {
		lines = append(lines, pricing.AddOn{ID: a.ID.String(), Name: a.Name, MonthlyRate: a.MonthlyRate})
		quoteLines = append(quoteLines, QuoteLine{
			ID:          a.ID,
			Name:        a.Name,
			MonthlyRate: a.MonthlyRate,
			Total:       pricing.AddOnsTotal([]pricing.AddOn{{MonthlyRate: a.MonthlyRate}}, rate.Months),
		})
	}
	addOnsTotal := pricing.AddOnsTotal(lines, rate.Months)
	breakdown := pricing.Breakdown(rate.Subtotal, addOnsTotal)

	return Quote{
		VehicleID:      vehicle.ID,
		TotalDays:      rate.TotalDays,
		MonthlyPeriods: rate.Months,
		RemainingDays:  rate.RemainingDays,
		DailyRate:      vehicle.DailyRate,
		MonthlyRate:    rate.MonthlyRateApplied,
		Subtotal:       rate.Subtotal,
		AddOnsTotal:    addOnsTotal,
		AddOnLines:     quoteLines,
		Savings:        rate.Savings,
		VATAmount:      breakdown.VATAmount,
		TotalWithVAT:   breakdown.TotalWithVAT,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func badRequest(field, message string, err error) *common.AppError {
	return &common.AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
		Details:    map[string]any{"field": field},
	}
}

func notFound(message string, err error) *common.AppError {
	return &common.AppError{
		Code:       "NOT_FOUND",
		Message:    message,
		HTTPStatus: http.StatusNotFound,
		Err:        err,
	}
}
