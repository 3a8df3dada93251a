package payment

import (
	"context"

	"tabeza/gateway/mpesa"
	"tabeza/models"
)

// STKGateway is the slice of the Daraja client the payment service
// needs. Tests substitute a fake.
type STKGateway interface {
	STKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error)
}

// PaymentService creates settlement attempts and reconciles their
// asynchronous outcomes.
type PaymentService interface {
	// InitiateMpesa persists a pending payment and pushes an STK
	// request. The pending row is written before the gateway is called
	// so a later callback always has something to match against.
	InitiateMpesa(ctx context.Context, req InitiateMpesaRequest) (*models.Payment, error)
	// Record books a staff-entered cash or card settlement directly as
	// success.
	Record(ctx context.Context, req RecordPaymentRequest) (*models.Payment, error)
	// Reconcile applies a raw gateway callback body to its pending
	// payment. It never returns an error to the webhook caller; the
	// outcome says how the notification was disposed of.
	Reconcile(ctx context.Context, raw []byte) ReconcileOutcome
}

type InitiateMpesaRequest struct {
	TabID       string  `json:"tab_id"`
	Amount      float64 `json:"amount"`
	PhoneNumber string  `json:"phone"`
}

type RecordPaymentRequest struct {
	TabID  string  `json:"tab_id"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

// ReconcileOutcome is the acknowledgment sent back to the gateway.
type ReconcileOutcome string

const (
	// OutcomeOK covers both a settled payment and a payload that could
	// not be matched; the gateway must never see a failure.
	OutcomeOK ReconcileOutcome = "ok"
	// OutcomeAlreadyProcessed is the idempotent answer to a duplicate
	// or replayed callback.
	OutcomeAlreadyProcessed ReconcileOutcome = "already_processed"
)
