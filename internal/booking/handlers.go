package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-sewa/internal/common"
	"github.com/noah-isme/backend-sewa/internal/ledger"
)

// Reader loads bookings for the read endpoints.
type Reader interface {
	Count(ctx context.Context, status string) (int64, error)
	List(ctx context.Context, status string, limit, offset int) ([]Booking, error)
	Get(ctx context.Context, id uuid.UUID) (Booking, error)
}

// EntrySource loads the journal entry posted with a booking.
type EntrySource interface {
	GetByBooking(ctx context.Context, bookingID uuid.UUID) (ledger.Entry, error)
}

// Handler exposes the bookings REST resource. Response shapes here follow
// the flat contract the mobile client was built against, not the enveloped
// one used by the newer endpoints.
type Handler struct {
	Svc             *Service
	Reader          Reader
	Entries         EntrySource
	Logger          zerolog.Logger
	DefaultPageSize int
	MaxPageSize     int
}

// Create handles POST /api/bookings.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.FlatError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	b, _, err := h.Svc.Create(r.Context(), in)
	if errors.Is(err, ErrValidation) {
		common.FlatError(w, http.StatusBadRequest, "Missing required fields", map[string]any{
			"required": RequiredFields,
		})
		return
	}
	if err != nil {
		h.Logger.Error().Err(err).Msg("create booking")
		common.FlatError(w, http.StatusInternalServerError, "Failed to create booking", map[string]any{
			"details": err.Error(),
		})
		return
	}

	common.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"booking": b,
		"message": "Booking created successfully",
	})
}

// Count handles GET /api/bookings/count.
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	total, err := h.Reader.Count(r.Context(), status)
	if err != nil {
		h.Logger.Error().Err(err).Msg("count bookings")
		common.FlatError(w, http.StatusInternalServerError, "Failed to count bookings", map[string]any{
			"details": err.Error(),
		})
		return
	}
	scope := status
	if scope == "" {
		scope = "all"
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   total,
		"status":  scope,
	})
}

// List handles GET /api/bookings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, h.DefaultPageSize, h.MaxPageSize)
	status := r.URL.Query().Get("status")

	total, err := h.Reader.Count(r.Context(), status)
	if err != nil {
		h.Logger.Error().Err(err).Msg("count bookings")
		common.FlatError(w, http.StatusInternalServerError, "Failed to fetch bookings", map[string]any{
			"details": err.Error(),
		})
		return
	}
	items, err := h.Reader.List(r.Context(), status, limit, (page-1)*limit)
	if err != nil {
		h.Logger.Error().Err(err).Msg("list bookings")
		common.FlatError(w, http.StatusInternalServerError, "Failed to fetch bookings", map[string]any{
			"details": err.Error(),
		})
		return
	}

	common.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"bookings":   items,
		"pagination": common.NewPagination(page, limit, total),
	})
}

// Get handles GET /api/bookings/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.FlatError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	b, err := h.Reader.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		common.FlatError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	if err != nil {
		h.Logger.Error().Err(err).Msg("get booking")
		common.FlatError(w, http.StatusInternalServerError, "Failed to fetch booking", map[string]any{
			"details": err.Error(),
		})
		return
	}
	resp := map[string]any{
		"success": true,
		"booking": b,
	}
	if h.Entries != nil {
		entry, err := h.Entries.GetByBooking(r.Context(), b.ID)
		switch {
		case err == nil:
			resp["journalEntry"] = entry
		case !errors.Is(err, ledger.ErrNotFound):
			h.Logger.Error().Err(err).Msg("load journal entry")
		}
	}
	common.JSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /api/bookings/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !ValidPatchStatus(body.Status) {
		common.FlatError(w, http.StatusBadRequest, "Invalid status", map[string]any{
			"validStatuses": PatchableStatuses(),
		})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.FlatError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	b, err := h.Svc.UpdateStatus(r.Context(), id, Status(body.Status))
	if errors.Is(err, ErrNotFound) {
		common.FlatError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	if err != nil {
		h.Logger.Error().Err(err).Msg("update booking status")
		common.FlatError(w, http.StatusInternalServerError, "Failed to update booking status", map[string]any{
			"details": err.Error(),
		})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"booking": b,
		"message": "Booking status updated",
	})
}
