package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-sewa/internal/ledger"
)

func newTestRouter() *chi.Mux {
	h := &Handler{
		Svc:             &Service{Logger: zerolog.Nop()},
		Reader:          &Repo{},
		Logger:          zerolog.Nop(),
		DefaultPageSize: 10,
		MaxPageSize:     100,
	}
	r := chi.NewRouter()
	r.Route("/api/bookings", func(b chi.Router) {
		b.Post("/", h.Create)
		b.Get("/", h.List)
		b.Get("/count", h.Count)
		b.Get("/{id}", h.Get)
		b.Patch("/{id}/status", h.UpdateStatus)
	})
	return r
}

func TestCreateRejectsMissingFields(t *testing.T) {
	body := `{
		"companyId": "9b9e5af1-0000-0000-0000-000000000001",
		"vehicleId": "9b9e5af1-0000-0000-0000-000000000002",
		"customerId": "9b9e5af1-0000-0000-0000-000000000003",
		"startDate": "2026-01-01",
		"endDate": "2026-02-15"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error    string   `json:"error"`
		Required []string `json:"required"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Missing required fields", resp.Error)
	require.Equal(t, RequiredFields, resp.Required)
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUnknownIDReturns404(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Booking not found", resp.Error)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	req := httptest.NewRequest(
		http.MethodPatch,
		"/api/bookings/9b9e5af1-0000-0000-0000-000000000001/status",
		strings.NewReader(`{"status":"SHIPPED"}`),
	)
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error         string   `json:"error"`
		ValidStatuses []string `json:"validStatuses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Invalid status", resp.Error)
	require.ElementsMatch(t, []string{"PENDING", "CONFIRMED", "CANCELLED", "COMPLETED"}, resp.ValidStatuses)
}

type stubReader struct {
	booking Booking
	err     error
}

func (s stubReader) Count(context.Context, string) (int64, error) { return 1, nil }

func (s stubReader) List(context.Context, string, int, int) ([]Booking, error) {
	return []Booking{s.booking}, nil
}

func (s stubReader) Get(context.Context, uuid.UUID) (Booking, error) {
	return s.booking, s.err
}

type stubEntries struct {
	entry ledger.Entry
	err   error
}

func (s stubEntries) GetByBooking(context.Context, uuid.UUID) (ledger.Entry, error) {
	return s.entry, s.err
}

func detailRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/bookings/{id}", h.Get)
	return r
}

func TestGetIncludesJournalEntry(t *testing.T) {
	id := uuid.New()
	entry, err := ledger.BuildEntry(ledger.EntryInput{
		BookingID:  id,
		CustomerID: uuid.New(),
		Total:      decimal.RequireFromString("2047.50"),
		Sequence:   7,
	})
	require.NoError(t, err)

	h := &Handler{
		Reader:  stubReader{booking: Booking{ID: id, BookingNumber: "BK-1700000000000", Status: StatusPending}},
		Entries: stubEntries{entry: entry},
		Logger:  zerolog.Nop(),
	}
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+id.String(), nil)
	rec := httptest.NewRecorder()
	detailRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success      bool          `json:"success"`
		Booking      Booking       `json:"booking"`
		JournalEntry *ledger.Entry `json:"journalEntry"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, id, resp.Booking.ID)
	require.NotNil(t, resp.JournalEntry)
	require.Equal(t, entry.EntryNumber, resp.JournalEntry.EntryNumber)
	require.True(t, resp.JournalEntry.DebitAmount.Equal(resp.JournalEntry.CreditAmount))
}

func TestGetOmitsMissingJournalEntry(t *testing.T) {
	id := uuid.New()
	h := &Handler{
		Reader:  stubReader{booking: Booking{ID: id}},
		Entries: stubEntries{err: ledger.ErrNotFound},
		Logger:  zerolog.Nop(),
	}
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+id.String(), nil)
	rec := httptest.NewRecorder()
	detailRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp, "booking")
	require.NotContains(t, resp, "journalEntry")
}

func TestUpdateStatusRejectsActive(t *testing.T) {
	req := httptest.NewRequest(
		http.MethodPatch,
		"/api/bookings/9b9e5af1-0000-0000-0000-000000000001/status",
		strings.NewReader(`{"status":"ACTIVE"}`),
	)
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
