package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-sewa/internal/common"
	"github.com/noah-isme/backend-sewa/internal/events"
	"github.com/noah-isme/backend-sewa/internal/obs"
)

// bookingEventPayload mirrors the fields the booking service publishes on
// booking.created events.
type bookingEventPayload struct {
	BookingID     string `json:"bookingId"`
	BookingNumber string `json:"bookingNumber"`
	CustomerEmail string `json:"customerEmail"`
	TotalAmount   string `json:"totalAmount"`
	NotifyEmail   bool   `json:"notifyEmail"`
	NotifySMS     bool   `json:"notifySms"`
}

// EmailNotifier reacts to booking events by enqueueing confirmation email
// tasks. Delivery itself happens in the worker process.
type EmailNotifier struct {
	Enq     Enqueuer
	Enabled bool
}

// Notify implements events.Notifier.
func (n EmailNotifier) Notify(ctx context.Context, ev events.Event) error {
	if !n.Enabled || ev.Topic != events.TopicBookingCreated {
		return nil
	}
	var p bookingEventPayload
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		return fmt.Errorf("notify: decode booking payload: %w", err)
	}
	if !p.NotifyEmail || p.CustomerEmail == "" {
		return nil
	}
	return n.Enq.EnqueueBookingEmail(ctx, BookingEmailPayload{
		To:            p.CustomerEmail,
		BookingID:     p.BookingID,
		BookingNumber: p.BookingNumber,
		TotalAmount:   p.TotalAmount,
	})
}

// EmailWorker consumes booking email tasks and sends them through the
// configured sender.
type EmailWorker struct {
	Mail   common.EmailSender
	From   string
	Logger zerolog.Logger
}

// ProcessTask implements asynq.Handler.
func (w EmailWorker) ProcessTask(_ context.Context, task *asynq.Task) error {
	var p BookingEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("notify: decode task payload: %w", err)
	}
	subject := fmt.Sprintf("Booking %s confirmed", p.BookingNumber)
	html := fmt.Sprintf(
		"<p>Your booking <strong>%s</strong> has been received.</p><p>Total: %s</p>",
		p.BookingNumber, p.TotalAmount,
	)
	if err := w.Mail.Send(w.From, p.To, subject, html); err != nil {
		if obs.NotifyDeliveriesTotal != nil {
			obs.NotifyDeliveriesTotal.WithLabelValues("email", "error").Inc()
		}
		return err
	}
	if obs.NotifyDeliveriesTotal != nil {
		obs.NotifyDeliveriesTotal.WithLabelValues("email", "ok").Inc()
	}
	w.Logger.Info().Str("booking_number", p.BookingNumber).Str("to", p.To).Msg("booking email sent")
	return nil
}
