package order

import (
	"context"

	"tabeza/models"
)

// OrderService governs the order lifecycle: creation by either party,
// then confirmation or cancellation by the other.
type OrderService interface {
	Create(ctx context.Context, req CreateOrderRequest) (*models.Order, error)
	// Approve confirms a pending order. Party is the acting side and
	// must not be the side that initiated the order.
	Approve(ctx context.Context, orderID string, party string) (*models.Order, error)
	// Reject cancels a pending order, removing its total from the
	// ledger's charge side.
	Reject(ctx context.Context, orderID string, party string) (*models.Order, error)
}

// CreateOrderRequest carries a new order. Line totals and the order
// total are computed server-side; any client-sent totals are ignored.
type CreateOrderRequest struct {
	TabID       string             `json:"tab_id"`
	Items       []models.OrderItem `json:"items"`
	InitiatedBy string             `json:"initiated_by"`
}
