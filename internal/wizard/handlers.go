package wizard

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-sewa/internal/booking"
	"github.com/noah-isme/backend-sewa/internal/catalog"
	"github.com/noah-isme/backend-sewa/internal/common"
	"github.com/noah-isme/backend-sewa/internal/ledger"
	"github.com/noah-isme/backend-sewa/internal/lock"
	"github.com/noah-isme/backend-sewa/internal/obs"
)

// Catalog is the slice of the catalog service the wizard needs.
type Catalog interface {
	Vehicle(ctx context.Context, id uuid.UUID) (catalog.Vehicle, error)
	BuildQuote(ctx context.Context, req catalog.QuoteRequest) (catalog.Quote, error)
}

// Bookings creates the final booking on submit.
type Bookings interface {
	Create(ctx context.Context, in booking.CreateInput) (booking.Booking, ledger.Entry, error)
}

// Customers resolves the KYC details to a customer record.
type Customers interface {
	Ensure(ctx context.Context, k KYC) (uuid.UUID, error)
}

// PGCustomers matches customers by email and creates them on first booking.
type PGCustomers struct {
	Pool *pgxpool.Pool
}

// Ensure implements Customers.
func (c PGCustomers) Ensure(ctx context.Context, k KYC) (uuid.UUID, error) {
	var id uuid.UUID
	err := c.Pool.QueryRow(ctx, `SELECT id FROM customers WHERE email = $1`, k.Email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, err
	}
	err = c.Pool.QueryRow(ctx,
		`INSERT INTO customers (full_name, email, phone) VALUES ($1, $2, $3) RETURNING id`,
		k.FullName, k.Email, k.Phone,
	).Scan(&id)
	return id, err
}

// Handler exposes the booking wizard session endpoints.
type Handler struct {
	Store     Store
	Catalog   Catalog
	Bookings  Bookings
	Customers Customers
	Locker    lock.Locker
	Logger    zerolog.Logger
}

// Routes mounts the wizard endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.CreateSession)
	r.Get("/{id}", h.GetSession)
	r.Post("/{id}/steps/{step}", h.ApplyStep)
	r.Post("/{id}/submit", h.Submit)
}

// CreateSession handles POST /api/wizard/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := NewSession()
	if err := h.Store.Put(r.Context(), session); err != nil {
		h.Logger.Error().Err(err).Msg("store wizard session")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "could not start session", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": session})
}

// GetSession handles GET /api/wizard/sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": session})
}

// ApplyStep handles POST /api/wizard/sessions/{id}/steps/{step}.
func (h *Handler) ApplyStep(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	stepNum, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil || stepNum < int(StepVehicle) || stepNum > int(StepConfirm) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "step must be between 1 and 4", nil)
		return
	}
	step := Step(stepNum)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "could not read body", nil)
		return
	}

	if err := session.Apply(step, payload); err != nil {
		h.countStep(step, "error")
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid step payload", verr.Fields)
		case errors.Is(err, ErrWrongStep):
			common.JSONError(w, http.StatusConflict, "WRONG_STEP", err.Error(), map[string]any{
				"currentStep": session.Step,
			})
		default:
			h.Logger.Error().Err(err).Msg("apply wizard step")
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "could not apply step", nil)
		}
		return
	}
	if err := h.Store.Put(r.Context(), session); err != nil {
		h.Logger.Error().Err(err).Msg("store wizard session")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "could not save session", nil)
		return
	}
	h.countStep(step, "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": session})
}

// Submit handles POST /api/wizard/sessions/{id}/submit. Submissions for the
// same session are serialized through the Redis lock, so a double-tap
// produces one booking and one conflict instead of two bookings.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "session not found", nil)
		return
	}

	var (
		created SubmitResult
		submErr error
	)
	lockKey := "sewa:wizard:submit:" + id.String()
	err = h.Locker.WithLock(r.Context(), lockKey, 30*time.Second, func(ctx context.Context) error {
		created, submErr = h.submit(ctx, id)
		return nil
	})
	if err != nil {
		h.Logger.Error().Err(err).Msg("acquire submit lock")
		common.JSONError(w, http.StatusServiceUnavailable, "BUSY", "submission already in progress", nil)
		return
	}
	if submErr != nil {
		h.countStep(StepConfirm, "error")
		h.writeSubmitError(w, submErr)
		return
	}
	h.countStep(StepConfirm, "ok")
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// SubmitResult is the submit response payload.
type SubmitResult struct {
	Booking      booking.Booking `json:"booking"`
	JournalEntry ledger.Entry    `json:"journalEntry"`
}

func (h *Handler) submit(ctx context.Context, id uuid.UUID) (SubmitResult, error) {
	session, err := h.Store.Get(ctx, id)
	if err != nil {
		return SubmitResult{}, err
	}
	if err := session.ReadyToSubmit(); err != nil {
		return SubmitResult{}, err
	}

	quote, err := h.Catalog.BuildQuote(ctx, catalog.QuoteRequest{
		VehicleID: session.Vehicle.VehicleID,
		StartDate: session.Vehicle.StartDate,
		EndDate:   session.Vehicle.EndDate,
		AddOnIDs:  session.Vehicle.AddOnIDs,
	})
	if err != nil {
		return SubmitResult{}, err
	}
	vehicle, err := h.Catalog.Vehicle(ctx, quote.VehicleID)
	if err != nil {
		return SubmitResult{}, err
	}
	customerID, err := h.Customers.Ensure(ctx, *session.KYC)
	if err != nil {
		return SubmitResult{}, err
	}

	total := quote.TotalWithVAT
	in := booking.CreateInput{
		CompanyID:      vehicle.CompanyID.String(),
		VehicleID:      vehicle.ID.String(),
		CustomerID:     customerID.String(),
		StartDate:      session.Vehicle.StartDate,
		EndDate:        session.Vehicle.EndDate,
		TotalDays:      quote.TotalDays,
		MonthlyPeriods: quote.MonthlyPeriods,
		RemainingDays:  quote.RemainingDays,
		DailyRate:      quote.DailyRate,
		MonthlyRate:    quote.MonthlyRate,
		TotalAmount:    &total,
		PaymentMethod:  session.Payment.Method,
		TermsAccepted:  session.Confirmation.TermsAccepted,
		Notes:          session.Confirmation.Notes,
		Notifications:  session.Confirmation.Notifications,
	}
	for _, line := range quote.AddOnLines {
		in.AddOns = append(in.AddOns, booking.AddOnInput{
			Name:        line.Name,
			TotalAmount: line.Total,
		})
	}

	b, entry, err := h.Bookings.Create(ctx, in)
	if err != nil {
		return SubmitResult{}, err
	}
	if err := h.Store.Delete(ctx, id); err != nil {
		h.Logger.Warn().Err(err).Str("session_id", id.String()).Msg("delete submitted session")
	}
	return SubmitResult{Booking: b, JournalEntry: entry}, nil
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "session not found", nil)
	case errors.Is(err, ErrIncomplete):
		common.JSONError(w, http.StatusConflict, "INCOMPLETE", "all wizard steps must be completed first", nil)
	case errors.As(err, &appErr):
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
	default:
		h.Logger.Error().Err(err).Msg("submit wizard session")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "could not submit booking", nil)
	}
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "session not found", nil)
		return Session{}, false
	}
	session, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, ErrSessionNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "session not found", nil)
		return Session{}, false
	}
	if err != nil {
		h.Logger.Error().Err(err).Msg("load wizard session")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "could not load session", nil)
		return Session{}, false
	}
	return session, true
}

func (h *Handler) countStep(step Step, result string) {
	if obs.WizardStepTotal != nil {
		obs.WizardStepTotal.WithLabelValues(StepName(step), result).Inc()
	}
}
