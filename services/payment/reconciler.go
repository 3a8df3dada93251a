package payment

import (
	"context"
	"errors"

	"tabeza/gateway/mpesa"
	"tabeza/models"

	"go.uber.org/zap"
)

// Reconcile settles a pending payment from an asynchronous gateway
// notification. The gateway retries aggressively on anything but a
// clean acknowledgment, so every branch here — malformed payload,
// unknown reference, datastore trouble — still acknowledges; problems
// are logged internally instead.
func (s *DefaultPaymentService) Reconcile(ctx context.Context, raw []byte) ReconcileOutcome {
	parsed, err := mpesa.ParseCallback(raw)
	if err != nil {
		// Keep the raw payload in the log for manual follow-up.
		s.Logger.Warn("unparseable gateway callback",
			zap.ByteString("payload", raw),
			zap.Error(err),
		)
		return OutcomeOK
	}

	if parsed.AccountReference == "" {
		s.Logger.Warn("gateway callback without account reference",
			zap.ByteString("payload", raw),
		)
		return OutcomeOK
	}

	p, err := s.Payments.LatestByReference(ctx, parsed.AccountReference)
	if err != nil {
		var nf models.NotFoundError
		if errors.As(err, &nf) {
			s.Logger.Warn("gateway callback matched no payment",
				zap.String("reference", parsed.AccountReference),
			)
		} else {
			s.Logger.Error("payment lookup failed during reconciliation",
				zap.String("reference", parsed.AccountReference),
				zap.Error(err),
			)
		}
		return OutcomeOK
	}

	// Idempotency gate: a payment leaves pending exactly once. A second
	// delivery of the same event finds a settled row and stops here.
	if p.Status != models.PaymentPending {
		return OutcomeAlreadyProcessed
	}

	status := models.PaymentFailed
	if parsed.ResultCode == 0 {
		status = models.PaymentSuccess
	}
	meta := p.Metadata.Merge(models.Metadata{"mpesa_result": parsed.Map()})

	moved, err := s.Payments.ResolveIfPending(ctx, p.ID, status, meta)
	if err != nil {
		s.Logger.Error("failed settling payment from callback",
			zap.String("payment_id", p.ID),
			zap.String("reference", parsed.AccountReference),
			zap.Error(err),
		)
		return OutcomeOK
	}
	if !moved {
		// A concurrent delivery won the conditional write.
		return OutcomeAlreadyProcessed
	}

	s.Logger.Info("payment reconciled",
		zap.String("payment_id", p.ID),
		zap.String("reference", parsed.AccountReference),
		zap.String("status", status),
		zap.Int("result_code", parsed.ResultCode),
		zap.String("receipt", parsed.ReceiptNumber),
	)
	return OutcomeOK
}
