package notify

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"
)

// TypeBookingEmail is the asynq task type for booking confirmation emails.
const TypeBookingEmail = "notify:booking_email"

// QueueName is the asynq queue notifications are routed to.
const QueueName = "notify"

// BookingEmailPayload carries everything the worker needs to send a booking
// confirmation email.
type BookingEmailPayload struct {
	To            string `json:"to"`
	BookingID     string `json:"bookingId"`
	BookingNumber string `json:"bookingNumber"`
	TotalAmount   string `json:"totalAmount"`
}

// NewBookingEmailTask builds the asynq task for a confirmation email.
func NewBookingEmailTask(p BookingEmailPayload) (*asynq.Task, error) {
	if p.To == "" {
		return nil, errors.New("notify: recipient is required")
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingEmail, payload, asynq.Queue(QueueName), asynq.MaxRetry(5)), nil
}

// Enqueuer publishes notification tasks to the asynq backend.
type Enqueuer struct {
	Client *asynq.Client
}

// EnqueueBookingEmail schedules a booking confirmation email.
func (e Enqueuer) EnqueueBookingEmail(ctx context.Context, p BookingEmailPayload) error {
	if e.Client == nil {
		return errors.New("notify: asynq client not configured")
	}
	task, err := NewBookingEmailTask(p)
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, task)
	return err
}
