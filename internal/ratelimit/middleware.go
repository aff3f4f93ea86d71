package ratelimit

import (
	"net/http"
	"time"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	mstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewBookingLimiter returns a middleware limiting booking submissions per
// client IP. The window state lives in Redis so the limit holds across
// replicas.
func NewBookingLimiter(client *redis.Client, perMinute int64) (func(http.Handler) http.Handler, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "sewa:ratelimit:bookings",
	})
	if err != nil {
		return nil, err
	}
	if perMinute <= 0 {
		perMinute = 60
	}
	instance := limiter.New(store, limiter.Rate{Period: time.Minute, Limit: perMinute})
	middleware := mstdlib.NewMiddleware(instance)
	return middleware.Handler, nil
}
