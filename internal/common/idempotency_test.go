package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestIdemMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	var hits int
	handler := Idem{R: client, TTL: time.Minute}.Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(http.StatusCreated)
		}),
	)

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusCreated, send("abc").Code)
	require.Equal(t, http.StatusConflict, send("abc").Code)
	require.Equal(t, 1, hits, "replayed key must not reach the handler")

	require.Equal(t, http.StatusCreated, send("other").Code)

	// Requests without the header bypass the guard entirely.
	require.Equal(t, http.StatusCreated, send("").Code)
	require.Equal(t, http.StatusCreated, send("").Code)
	require.Equal(t, 4, hits)
}
