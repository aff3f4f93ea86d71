package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-sewa/internal/common"
)

// Handler exposes the public catalog and quote endpoints.
type Handler struct {
	Service *Service
}

// Routes mounts the catalog endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/vehicles", h.Vehicles)
	r.Get("/vehicles/{id}", h.Vehicle)
	r.Get("/addons", h.AddOns)
	r.Post("/quotes", h.Quote)
}

// Vehicles handles GET /api/vehicles.
func (h *Handler) Vehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Service.Vehicles(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": vehicles})
}

// Vehicle handles GET /api/vehicles/{id}.
func (h *Handler) Vehicle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "vehicle not found", nil)
		return
	}
	vehicle, err := h.Service.Vehicle(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": vehicle})
}

// AddOns handles GET /api/addons.
func (h *Handler) AddOns(w http.ResponseWriter, r *http.Request) {
	addons, err := h.Service.AddOns(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": addons})
}

// Quote handles POST /api/quotes, a side-effect-free pricing preview.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	quote, err := h.Service.BuildQuote(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": quote})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := appErr.Code
		if code == "" {
			code = "INTERNAL"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}
