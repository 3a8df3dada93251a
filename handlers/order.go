package handlers

import (
	"net/http"

	"tabeza/services/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Svc    order.OrderService
	Logger *zap.Logger
}

func NewOrderHandler(svc order.OrderService) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: zap.L().Named("order_handler")}
}

// CreateOrder handles POST /api/orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	ord, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ord)
}

// partyBody identifies the acting side of an approval. Authentication
// is handled upstream of this service; the body carries the role.
type partyBody struct {
	Party string `json:"party" binding:"required"`
}

// ApproveOrder handles POST /api/orders/:id/approve.
func (h *OrderHandler) ApproveOrder(c *gin.Context) {
	var body partyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	ord, err := h.Svc.Approve(c.Request.Context(), c.Param("id"), body.Party)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

// RejectOrder handles POST /api/orders/:id/reject.
func (h *OrderHandler) RejectOrder(c *gin.Context) {
	var body partyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	ord, err := h.Svc.Reject(c.Request.Context(), c.Param("id"), body.Party)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}
