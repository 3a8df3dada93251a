package tab

import (
	"context"

	orderRepo "tabeza/database/repository/order"
	paymentRepo "tabeza/database/repository/payment"
	tabRepo "tabeza/database/repository/tab"
	venueRepo "tabeza/database/repository/venue"
	"tabeza/models"
	"tabeza/services/ledger"

	"go.uber.org/zap"
)

type DefaultTabService struct {
	Tabs     tabRepo.TabRepository
	Orders   orderRepo.OrderRepository
	Payments paymentRepo.PaymentRepository
	Venues   venueRepo.VenueRepository
	Logger   *zap.Logger
}

func NewTabService(
	tabs tabRepo.TabRepository,
	orders orderRepo.OrderRepository,
	payments paymentRepo.PaymentRepository,
	venues venueRepo.VenueRepository,
) *DefaultTabService {
	return &DefaultTabService{
		Tabs:     tabs,
		Orders:   orders,
		Payments: payments,
		Venues:   venues,
		Logger:   zap.L().Named("tab_service"),
	}
}

// Open starts a new visit: the tab gets the venue's next sequential
// display number and an open status.
func (s *DefaultTabService) Open(ctx context.Context, req OpenTabRequest) (*models.Tab, error) {
	if req.VenueID == "" {
		return nil, models.ValidationError{Field: "venue_id", Reason: "required"}
	}
	if _, err := s.Venues.GetByID(ctx, req.VenueID); err != nil {
		return nil, err
	}

	number, err := s.Tabs.NextTabNumber(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}
	id, err := s.Tabs.Create(ctx, models.Tab{
		VenueID:    req.VenueID,
		TabNumber:  number,
		Status:     models.TabOpen,
		OwnerLabel: req.OwnerLabel,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("tab opened",
		zap.String("tab_id", id),
		zap.String("venue_id", req.VenueID),
		zap.Int("tab_number", number),
	)
	return s.Tabs.GetByID(ctx, id)
}

// View assembles the polled derived view. The balance is recomputed
// from the rows on every call.
func (s *DefaultTabService) View(ctx context.Context, tabID string) (*models.TabView, error) {
	t, err := s.Tabs.GetByID(ctx, tabID)
	if err != nil {
		return nil, err
	}
	orders, err := s.Orders.ListByTab(ctx, tabID)
	if err != nil {
		return nil, err
	}
	payments, err := s.Payments.ListByTab(ctx, tabID)
	if err != nil {
		return nil, err
	}

	totals := ledger.Compute(orders, payments)
	return &models.TabView{
		Tab:      *t,
		Orders:   orders,
		Payments: payments,
		Charges:  totals.Charges,
		Paid:     totals.Paid,
		Balance:  totals.Balance,
	}, nil
}

// ListByVenue builds the staff dashboard rows.
func (s *DefaultTabService) ListByVenue(ctx context.Context, venueID string) ([]models.TabSummary, error) {
	if _, err := s.Venues.GetByID(ctx, venueID); err != nil {
		return nil, err
	}
	tabs, err := s.Tabs.ListByVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.TabSummary, 0, len(tabs))
	for _, t := range tabs {
		orders, err := s.Orders.ListByTab(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		payments, err := s.Payments.ListByTab(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		totals := ledger.Compute(orders, payments)
		pending := 0
		for _, o := range orders {
			if o.Status == models.OrderPending {
				pending++
			}
		}
		summaries = append(summaries, models.TabSummary{
			Tab:           t,
			Charges:       totals.Charges,
			Paid:          totals.Paid,
			Balance:       totals.Balance,
			PendingOrders: pending,
		})
	}
	return summaries, nil
}

// Close settles a tab once nothing is owed on it.
func (s *DefaultTabService) Close(ctx context.Context, tabID string) (*models.Tab, error) {
	view, err := s.View(ctx, tabID)
	if err != nil {
		return nil, err
	}
	if view.Tab.Status != models.TabOpen {
		return nil, models.InvalidStateError{Kind: "tab", ID: tabID, Reason: "tab is already " + view.Tab.Status}
	}
	if view.Balance > 0 {
		return nil, models.InvalidStateError{Kind: "tab", ID: tabID, Reason: "tab still owes a balance"}
	}

	if err := s.Tabs.SetStatus(ctx, tabID, models.TabClosed); err != nil {
		return nil, err
	}
	s.Logger.Info("tab closed", zap.String("tab_id", tabID))
	return s.Tabs.GetByID(ctx, tabID)
}
