package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a booking. Transitions are server-driven.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// PatchableStatuses lists the statuses accepted by the status PATCH
// endpoint. ACTIVE is set by the rental lifecycle jobs, never by hand.
func PatchableStatuses() []string {
	return []string{
		string(StatusPending),
		string(StatusConfirmed),
		string(StatusCancelled),
		string(StatusCompleted),
	}
}

// ValidPatchStatus reports whether the value is accepted by the PATCH endpoint.
func ValidPatchStatus(value string) bool {
	for _, s := range PatchableStatuses() {
		if s == value {
			return true
		}
	}
	return false
}

// Number formats the display booking number. It embeds the creation
// timestamp in milliseconds; the primary key is a separate UUID, so the
// display number is not required to be collision-proof.
func Number(at time.Time) string {
	return fmt.Sprintf("BK-%d", at.UnixMilli())
}

// AddOn is a persisted optional service line on a booking.
type AddOn struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	DailyRate   decimal.Decimal `json:"dailyRate"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// Booking is the persisted rental booking. Joined display names are filled
// by list and detail queries only.
type Booking struct {
	ID             uuid.UUID       `json:"id"`
	BookingNumber  string          `json:"bookingNumber"`
	CompanyID      uuid.UUID       `json:"companyId"`
	VehicleID      uuid.UUID       `json:"vehicleId"`
	CustomerID     uuid.UUID       `json:"customerId"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	TotalDays      int             `json:"totalDays"`
	MonthlyPeriods int             `json:"monthlyPeriods"`
	RemainingDays  int             `json:"remainingDays"`
	DailyRate      decimal.Decimal `json:"dailyRate"`
	MonthlyRate    decimal.Decimal `json:"monthlyRate"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Notes          *string         `json:"notes,omitempty"`
	Status         Status          `json:"status"`
	CustomerName   string          `json:"customerName,omitempty"`
	VehicleName    string          `json:"vehicleName,omitempty"`
	CompanyName    string          `json:"companyName,omitempty"`
	AddOns         []AddOn         `json:"addons"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AddOnInput is one optional service line in the submission payload.
type AddOnInput struct {
	Name        string          `json:"name"`
	DailyRate   decimal.Decimal `json:"dailyRate"`
	Quantity    *int            `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// NotificationPreferences mirrors the client's notification toggles.
type NotificationPreferences struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

// CreateInput is the booking submission payload. Totals arrive precomputed
// from the client; the server persists them as sent.
type CreateInput struct {
	CompanyID      string                  `json:"companyId"`
	VehicleID      string                  `json:"vehicleId"`
	CustomerID     string                  `json:"customerId"`
	StartDate      string                  `json:"startDate"`
	EndDate        string                  `json:"endDate"`
	TotalDays      int                     `json:"totalDays"`
	MonthlyPeriods int                     `json:"monthlyPeriods"`
	RemainingDays  int                     `json:"remainingDays"`
	DailyRate      decimal.Decimal         `json:"dailyRate"`
	MonthlyRate    decimal.Decimal         `json:"monthlyRate"`
	TotalAmount    *decimal.Decimal        `json:"totalAmount"`
	PaymentMethod  string                  `json:"paymentMethod,omitempty"`
	TermsAccepted  bool                    `json:"termsAccepted,omitempty"`
	Notes          *string                 `json:"notes,omitempty"`
	AddOns         []AddOnInput            `json:"addOns,omitempty"`
	Notifications  NotificationPreferences `json:"notificationPreferences,omitempty"`
}

// RequiredFields is the canonical required-field list echoed on validation
// failures.
var RequiredFields = []string{
	"companyId", "vehicleId", "customerId", "startDate", "endDate", "totalAmount",
}

// MissingRequired reports whether any required submission field is absent.
// A zero total counts as absent; clients send 0 to mean unset.
func (in CreateInput) MissingRequired() bool {
	if in.CompanyID == "" || in.VehicleID == "" || in.CustomerID == "" {
		return true
	}
	if in.StartDate == "" || in.EndDate == "" {
		return true
	}
	if in.TotalAmount == nil || in.TotalAmount.IsZero() {
		return true
	}
	return false
}

// ParseDate accepts RFC 3339 timestamps and bare dates from clients.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
