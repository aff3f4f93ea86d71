package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/backend-sewa/internal/events"
	"github.com/noah-isme/backend-sewa/internal/obs"
	"github.com/noah-isme/backend-sewa/internal/resilience"
)

// NewHTTPClient builds the outbound client used for webhook deliveries,
// instrumented with tracing.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// WebhookNotifier delivers every emitted domain event to a single configured
// endpoint. An empty URL disables delivery. Deliveries go through the
// resilience client so a flapping endpoint trips the breaker instead of
// stalling event emission.
type WebhookNotifier struct {
	URL  string
	HTTP *resilience.HTTPClient
}

// Notify implements events.Notifier.
func (n WebhookNotifier) Notify(ctx context.Context, ev events.Event) error {
	if n.URL == "" {
		return nil
	}
	client := n.HTTP
	if client == nil {
		client = &resilience.HTTPClient{Client: NewHTTPClient(0)}
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Sewa-Topic", ev.Topic)

	resp, err := client.Do(ctx, req)
	if err != nil {
		if obs.NotifyDeliveriesTotal != nil {
			obs.NotifyDeliveriesTotal.WithLabelValues("webhook", "error").Inc()
		}
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if obs.NotifyDeliveriesTotal != nil {
			obs.NotifyDeliveriesTotal.WithLabelValues("webhook", "error").Inc()
		}
		return fmt.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}
	if obs.NotifyDeliveriesTotal != nil {
		obs.NotifyDeliveriesTotal.WithLabelValues("webhook", "ok").Inc()
	}
	return nil
}
