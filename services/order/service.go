package order

import (
	"context"

	orderRepo "tabeza/database/repository/order"
	tabRepo "tabeza/database/repository/tab"
	"tabeza/models"

	"go.uber.org/zap"
)

type DefaultOrderService struct {
	Orders orderRepo.OrderRepository
	Tabs   tabRepo.TabRepository
	Logger *zap.Logger
}

func NewOrderService(orders orderRepo.OrderRepository, tabs tabRepo.TabRepository) *DefaultOrderService {
	return &DefaultOrderService{
		Orders: orders,
		Tabs:   tabs,
		Logger: zap.L().Named("order_service"),
	}
}

// Create validates the request, fixes line totals, and persists the
// order as pending with its initiator tag.
func (s *DefaultOrderService) Create(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if req.TabID == "" {
		return nil, models.ValidationError{Field: "tab_id", Reason: "required"}
	}
	if len(req.Items) == 0 {
		return nil, models.ValidationError{Field: "items", Reason: "at least one item required"}
	}
	if req.InitiatedBy != models.PartyCustomer && req.InitiatedBy != models.PartyStaff {
		return nil, models.ValidationError{Field: "initiated_by", Reason: "must be customer or staff"}
	}

	tab, err := s.Tabs.GetByID(ctx, req.TabID)
	if err != nil {
		return nil, err
	}
	if tab.Status != models.TabOpen {
		return nil, models.InvalidStateError{Kind: "tab", ID: tab.ID, Reason: "closed tab accepts no orders"}
	}

	items := make(models.OrderItems, 0, len(req.Items))
	var total float64
	for _, item := range req.Items {
		if item.Name == "" && item.ProductID == "" {
			return nil, models.ValidationError{Field: "items", Reason: "item needs a product reference or name"}
		}
		if item.Quantity < 1 {
			return nil, models.ValidationError{Field: "items", Reason: "quantity must be at least 1"}
		}
		if item.Price < 0 {
			return nil, models.ValidationError{Field: "items", Reason: "price must not be negative"}
		}
		item.Total = float64(item.Quantity) * item.Price
		total += item.Total
		items = append(items, item)
	}

	ord := models.Order{
		TabID:       tab.ID,
		Items:       items,
		Total:       total,
		Status:      models.OrderPending,
		InitiatedBy: req.InitiatedBy,
	}
	id, err := s.Orders.Create(ctx, ord)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("order created",
		zap.String("order_id", id),
		zap.String("tab_id", tab.ID),
		zap.String("initiated_by", req.InitiatedBy),
		zap.Float64("total", total),
	)
	return s.Orders.GetByID(ctx, id)
}

// Approve confirms a pending order on behalf of the non-initiating party.
func (s *DefaultOrderService) Approve(ctx context.Context, orderID string, party string) (*models.Order, error) {
	return s.transition(ctx, orderID, party, models.OrderConfirmed)
}

// Reject cancels a pending order on behalf of the non-initiating party.
func (s *DefaultOrderService) Reject(ctx context.Context, orderID string, party string) (*models.Order, error) {
	return s.transition(ctx, orderID, party, models.OrderCancelled)
}

func (s *DefaultOrderService) transition(ctx context.Context, orderID string, party string, status string) (*models.Order, error) {
	if party != models.PartyCustomer && party != models.PartyStaff {
		return nil, models.ValidationError{Field: "party", Reason: "must be customer or staff"}
	}

	ord, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Only the party that did not create the order may move it out of
	// pending.
	if ord.InitiatedBy == party {
		return nil, models.InvalidStateError{
			Kind:   "order",
			ID:     orderID,
			Reason: "initiating party cannot confirm its own order",
		}
	}
	if ord.Status != models.OrderPending {
		return nil, models.InvalidStateError{
			Kind:   "order",
			ID:     orderID,
			Reason: "order is already " + ord.Status,
		}
	}

	moved, err := s.Orders.TransitionIfPending(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	if !moved {
		// Lost the race against a concurrent transition.
		return nil, models.InvalidStateError{Kind: "order", ID: orderID, Reason: "order is no longer pending"}
	}

	s.Logger.Info("order transitioned",
		zap.String("order_id", orderID),
		zap.String("status", status),
		zap.String("by", party),
	)
	return s.Orders.GetByID(ctx, orderID)
}
