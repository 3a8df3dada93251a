package handlers

import (
	"net/http"

	"tabeza/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	Svc    payment.PaymentService
	Logger *zap.Logger
}

func NewPaymentHandler(svc payment.PaymentService) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Logger: zap.L().Named("payment_handler")}
}

// InitiateMpesa handles POST /api/payments/mpesa.
func (h *PaymentHandler) InitiateMpesa(c *gin.Context) {
	var req payment.InitiateMpesaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	p, err := h.Svc.InitiateMpesa(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payment_id": p.ID,
		"status":     p.Status,
		"reference":  p.Reference,
		"stk":        p.Metadata["stk_request"],
	})
}

// RecordPayment handles POST /api/payments/record — staff books a cash
// or card settlement taken off-gateway.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req payment.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	p, err := h.Svc.Record(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// MpesaCallback handles POST /api/payments/mpesa/callback. The gateway
// retries on any non-2xx answer, so this endpoint always acknowledges;
// failures surface in the logs, never to the caller.
func (h *PaymentHandler) MpesaCallback(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.Logger.Warn("callback body read failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"message": string(payment.OutcomeOK)})
		return
	}
	outcome := h.Svc.Reconcile(c.Request.Context(), raw)
	c.JSON(http.StatusOK, gin.H{"message": string(outcome)})
}
