package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-sewa/internal/booking"
)

// Step identifies one stage of the booking wizard. Steps are applied in
// order; a session only accepts the payload for the step it is currently on.
type Step int

const (
	StepVehicle Step = 1
	StepKYC     Step = 2
	StepPayment Step = 3
	StepConfirm Step = 4
)

// StepName returns the client-facing name of a step.
func StepName(s Step) string {
	switch s {
	case StepVehicle:
		return "vehicle"
	case StepKYC:
		return "kyc"
	case StepPayment:
		return "payment"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

var (
	// ErrWrongStep is returned when a payload targets a step the session
	// is not currently on.
	ErrWrongStep = errors.New("wizard: payload does not match current step")
	// ErrIncomplete is returned when a session is submitted before the
	// confirm step was applied.
	ErrIncomplete = errors.New("wizard: session is not complete")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// VehicleSelection is the step 1 payload.
type VehicleSelection struct {
	VehicleID string   `json:"vehicleId" validate:"required,uuid"`
	StartDate string   `json:"startDate" validate:"required"`
	EndDate   string   `json:"endDate" validate:"required"`
	AddOnIDs  []string `json:"addOnIds" validate:"dive,uuid"`
}

// KYC is the step 2 payload, the renter's identity details.
type KYC struct {
	FullName       string `json:"fullName" validate:"required,min=2"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"omitempty,min=6"`
	DocumentType   string `json:"documentType" validate:"required,oneof=passport national_id driver_license"`
	DocumentNumber string `json:"documentNumber" validate:"required,min=3"`
	DateOfBirth    string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
}

// Payment is the step 3 payload. The card token comes from the payment
// provider's client SDK; raw card numbers never reach this API.
type Payment struct {
	Method    string `json:"method" validate:"required,oneof=card bank_transfer"`
	CardToken string `json:"cardToken" validate:"required_if=Method card"`
}

// Confirmation is the step 4 payload.
type Confirmation struct {
	TermsAccepted bool                            `json:"termsAccepted" validate:"eq=true"`
	Notifications booking.NotificationPreferences `json:"notificationPreferences"`
	Notes         *string                         `json:"notes,omitempty"`
}

// Session is a server-held wizard draft. It lives in the session Store
// until submitted or expired.
type Session struct {
	ID            uuid.UUID         `json:"id"`
	Step          Step              `json:"step"`
	Completed     bool              `json:"completed"`
	Vehicle       *VehicleSelection `json:"vehicle,omitempty"`
	KYC           *KYC              `json:"kyc,omitempty"`
	Payment       *Payment          `json:"payment,omitempty"`
	Confirmation  *Confirmation     `json:"confirmation,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// NewSession starts a wizard session at the vehicle step.
func NewSession() Session {
	now := time.Now().UTC()
	return Session{
		ID:        uuid.New(),
		Step:      StepVehicle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply validates the payload for the given step and advances the session.
// Applying any step other than the current one fails with ErrWrongStep, so
// clients cannot skip ahead or silently rewind.
func (s *Session) Apply(step Step, payload json.RawMessage) error {
	if s.Completed {
		return fmt.Errorf("%w: session already confirmed", ErrWrongStep)
	}
	if step != s.Step {
		return fmt.Errorf("%w: session is on step %d (%s)", ErrWrongStep, s.Step, StepName(s.Step))
	}

	switch step {
	case StepVehicle:
		var v VehicleSelection
		if err := decodeStep(payload, &v); err != nil {
			return err
		}
		if err := validateWindow(v.StartDate, v.EndDate); err != nil {
			return err
		}
		s.Vehicle = &v
	case StepKYC:
		var k KYC
		if err := decodeStep(payload, &k); err != nil {
			return err
		}
		s.KYC = &k
	case StepPayment:
		var p Payment
		if err := decodeStep(payload, &p); err != nil {
			return err
		}
		s.Payment = &p
	case StepConfirm:
		var c Confirmation
		if err := decodeStep(payload, &c); err != nil {
			return err
		}
		s.Confirmation = &c
		s.Completed = true
	default:
		return fmt.Errorf("wizard: unknown step %d", step)
	}

	if !s.Completed {
		s.Step = step + 1
	}
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// ReadyToSubmit reports whether every step has been applied.
func (s Session) ReadyToSubmit() error {
	if !s.Completed || s.Vehicle == nil || s.KYC == nil || s.Payment == nil || s.Confirmation == nil {
		return ErrIncomplete
	}
	return nil
}

// ValidationError carries per-field messages from a rejected step payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wizard: invalid step payload (%d fields)", len(e.Fields))
}

func decodeStep(payload json.RawMessage, dst any) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return &ValidationError{Fields: map[string]string{"payload": "must be a JSON object"}}
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return &ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

func validateWindow(start, end string) error {
	from, err := booking.ParseDate(start)
	if err != nil {
		return &ValidationError{Fields: map[string]string{"startDate": "must be an ISO date"}}
	}
	to, err := booking.ParseDate(end)
	if err != nil {
		return &ValidationError{Fields: map[string]string{"endDate": "must be an ISO date"}}
	}
	if !to.After(from) {
		return &ValidationError{Fields: map[string]string{"endDate": "must be after startDate"}}
	}
	return nil
}
