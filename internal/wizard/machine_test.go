package wizard

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func vehiclePayload() json.RawMessage {
	payload, _ := json.Marshal(VehicleSelection{
		VehicleID: uuid.NewString(),
		StartDate: "2026-01-01",
		EndDate:   "2026-02-15",
	})
	return payload
}

func kycPayload() json.RawMessage {
	payload, _ := json.Marshal(KYC{
		FullName:       "Jane Renter",
		Email:          "jane@example.com",
		DocumentType:   "passport",
		DocumentNumber: "X1234567",
		DateOfBirth:    "1990-04-12",
	})
	return payload
}

func paymentPayload() json.RawMessage {
	payload, _ := json.Marshal(Payment{Method: "card", CardToken: "tok_abc123"})
	return payload
}

func confirmPayload() json.RawMessage {
	return json.RawMessage(`{"termsAccepted":true,"notificationPreferences":{"email":true,"sms":false}}`)
}

func TestSessionWalksAllSteps(t *testing.T) {
	s := NewSession()
	require.Equal(t, StepVehicle, s.Step)

	require.NoError(t, s.Apply(StepVehicle, vehiclePayload()))
	require.Equal(t, StepKYC, s.Step)

	require.NoError(t, s.Apply(StepKYC, kycPayload()))
	require.Equal(t, StepPayment, s.Step)

	require.NoError(t, s.Apply(StepPayment, paymentPayload()))
	require.Equal(t, StepConfirm, s.Step)

	require.NoError(t, s.Apply(StepConfirm, confirmPayload()))
	require.True(t, s.Completed)
	require.NoError(t, s.ReadyToSubmit())
}

func TestSessionRejectsSkippingAhead(t *testing.T) {
	s := NewSession()
	err := s.Apply(StepPayment, paymentPayload())
	require.ErrorIs(t, err, ErrWrongStep)
	require.Equal(t, StepVehicle, s.Step)
}

func TestSessionRejectsReplayAfterConfirm(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Apply(StepVehicle, vehiclePayload()))
	require.NoError(t, s.Apply(StepKYC, kycPayload()))
	require.NoError(t, s.Apply(StepPayment, paymentPayload()))
	require.NoError(t, s.Apply(StepConfirm, confirmPayload()))

	err := s.Apply(StepVehicle, vehiclePayload())
	require.ErrorIs(t, err, ErrWrongStep)
}

func TestSessionValidatesStepPayloads(t *testing.T) {
	s := NewSession()

	err := s.Apply(StepVehicle, json.RawMessage(`{"vehicleId":"not-a-uuid","startDate":"2026-01-01","endDate":"2026-02-15"}`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "VehicleID")

	err = s.Apply(StepVehicle, json.RawMessage(`{"vehicleId":"`+uuid.NewString()+`","startDate":"2026-02-15","endDate":"2026-01-01"}`))
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "endDate")

	require.Equal(t, StepVehicle, s.Step, "failed payloads must not advance the session")
}

func TestSessionRequiresCardTokenForCardPayments(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Apply(StepVehicle, vehiclePayload()))
	require.NoError(t, s.Apply(StepKYC, kycPayload()))

	err := s.Apply(StepPayment, json.RawMessage(`{"method":"card"}`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	require.NoError(t, s.Apply(StepPayment, json.RawMessage(`{"method":"bank_transfer"}`)))
}

func TestSessionRejectsUnacceptedTerms(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Apply(StepVehicle, vehiclePayload()))
	require.NoError(t, s.Apply(StepKYC, kycPayload()))
	require.NoError(t, s.Apply(StepPayment, paymentPayload()))

	err := s.Apply(StepConfirm, json.RawMessage(`{"termsAccepted":false}`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.False(t, s.Completed)
}

func TestReadyToSubmitIncomplete(t *testing.T) {
	s := NewSession()
	require.ErrorIs(t, s.ReadyToSubmit(), ErrIncomplete)
}
