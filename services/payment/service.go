package payment

import (
	"context"

	paymentRepo "tabeza/database/repository/payment"
	tabRepo "tabeza/database/repository/tab"
	venueRepo "tabeza/database/repository/venue"
	"tabeza/gateway/mpesa"
	"tabeza/models"

	"go.uber.org/zap"
)

type DefaultPaymentService struct {
	Payments paymentRepo.PaymentRepository
	Tabs     tabRepo.TabRepository
	Venues   venueRepo.VenueRepository
	Gateway  STKGateway
	Logger   *zap.Logger
}

func NewPaymentService(
	payments paymentRepo.PaymentRepository,
	tabs tabRepo.TabRepository,
	venues venueRepo.VenueRepository,
	gateway STKGateway,
) *DefaultPaymentService {
	return &DefaultPaymentService{
		Payments: payments,
		Tabs:     tabs,
		Venues:   venues,
		Gateway:  gateway,
		Logger:   zap.L().Named("payment_service"),
	}
}

// InitiateMpesa starts one settlement attempt. A failed attempt stands
// as a failed row; retrying creates a fresh row with a fresh reference,
// never resurrecting an old one.
func (s *DefaultPaymentService) InitiateMpesa(ctx context.Context, req InitiateMpesaRequest) (*models.Payment, error) {
	if req.TabID == "" {
		return nil, models.ValidationError{Field: "tab_id", Reason: "required"}
	}
	if req.Amount <= 0 {
		return nil, models.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if req.PhoneNumber == "" {
		return nil, models.ValidationError{Field: "phone", Reason: "required"}
	}

	tab, err := s.Tabs.GetByID(ctx, req.TabID)
	if err != nil {
		return nil, err
	}
	if tab.Status != models.TabOpen {
		return nil, models.InvalidStateError{Kind: "tab", ID: tab.ID, Reason: "closed tab accepts no payments"}
	}

	venue, err := s.Venues.GetByID(ctx, tab.VenueID)
	if err != nil {
		return nil, err
	}
	if !venue.MpesaEnabled {
		return nil, models.ConfigurationError{VenueID: venue.ID, Reason: "M-Pesa not enabled for this venue"}
	}
	shortcode := venue.Shortcode()
	if shortcode == "" {
		return nil, models.ConfigurationError{VenueID: venue.ID, Reason: "no M-Pesa shortcode on file"}
	}

	ref := newReference(venue.ID, tab.ID)

	// The pending row goes in before the gateway call so a crash
	// mid-call still leaves an auditable record for the callback to
	// match.
	id, err := s.Payments.Create(ctx, models.Payment{
		TabID:     tab.ID,
		Amount:    req.Amount,
		Method:    models.MethodMpesa,
		Status:    models.PaymentPending,
		Reference: ref,
		Metadata: models.Metadata{
			"phone":    req.PhoneNumber,
			"venue_id": venue.ID,
		},
	})
	if err != nil {
		return nil, err
	}

	stk, err := s.Gateway.STKPush(ctx, mpesa.STKPushRequest{
		ShortCode:        shortcode,
		Passkey:          venue.MpesaPasskey,
		Amount:           req.Amount,
		PhoneNumber:      req.PhoneNumber,
		AccountReference: ref,
	})
	if err != nil {
		s.Logger.Warn("stk push failed",
			zap.String("payment_id", id),
			zap.String("reference", ref),
			zap.Error(err),
		)
		s.failPayment(ctx, id, err)
		return nil, err
	}

	// Keep the gateway's own correlation identifiers for audit; the
	// payment stays pending until the callback settles it.
	created, err := s.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := created.Metadata.Merge(models.Metadata{
		"stk_request": models.Metadata{
			"merchant_request_id": stk.MerchantRequestID,
			"checkout_request_id": stk.CheckoutRequestID,
			"response_code":       stk.ResponseCode,
			"response_desc":       stk.ResponseDescription,
		},
	})
	if err := s.Payments.SetMetadata(ctx, id, meta); err != nil {
		return nil, err
	}

	s.Logger.Info("stk push accepted",
		zap.String("payment_id", id),
		zap.String("reference", ref),
		zap.String("checkout_request_id", stk.CheckoutRequestID),
	)
	return s.Payments.GetByID(ctx, id)
}

// failPayment marks the just-created row failed with the error captured
// in metadata. Best effort: the initiation error is what the caller
// sees either way.
func (s *DefaultPaymentService) failPayment(ctx context.Context, id string, cause error) {
	p, err := s.Payments.GetByID(ctx, id)
	if err != nil {
		s.Logger.Error("failed loading payment after gateway error", zap.String("payment_id", id), zap.Error(err))
		return
	}
	meta := p.Metadata.Merge(models.Metadata{"mpesa_error": cause.Error()})
	if _, err := s.Payments.ResolveIfPending(ctx, id, models.PaymentFailed, meta); err != nil {
		s.Logger.Error("failed marking payment failed", zap.String("payment_id", id), zap.Error(err))
	}
}

// Record books an already-settled payment taken outside the gateway
// (cash at the counter, a card terminal).
func (s *DefaultPaymentService) Record(ctx context.Context, req RecordPaymentRequest) (*models.Payment, error) {
	if req.TabID == "" {
		return nil, models.ValidationError{Field: "tab_id", Reason: "required"}
	}
	if req.Amount <= 0 {
		return nil, models.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if req.Method != models.MethodCash && req.Method != models.MethodCard {
		return nil, models.ValidationError{Field: "method", Reason: "must be cash or card"}
	}

	tab, err := s.Tabs.GetByID(ctx, req.TabID)
	if err != nil {
		return nil, err
	}
	if tab.Status != models.TabOpen {
		return nil, models.InvalidStateError{Kind: "tab", ID: tab.ID, Reason: "closed tab accepts no payments"}
	}

	id, err := s.Payments.Create(ctx, models.Payment{
		TabID:  tab.ID,
		Amount: req.Amount,
		Method: req.Method,
		Status: models.PaymentSuccess,
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("payment recorded",
		zap.String("payment_id", id),
		zap.String("tab_id", tab.ID),
		zap.String("method", req.Method),
		zap.Float64("amount", req.Amount),
	)
	return s.Payments.GetByID(ctx, id)
}
