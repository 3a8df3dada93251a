package orderRepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tabeza/models"

	"github.com/google/uuid"
)

// Create inserts a new order and returns its ID.
func (r *sqlOrderRepo) Create(ctx context.Context, order models.Order) (string, error) {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	order.CreatedAt = time.Now().UTC()

	q := r.db.Rebind(`INSERT INTO tab_orders
		(id, tab_id, items, total, status, initiated_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, q,
		order.ID, order.TabID, order.Items, order.Total, order.Status,
		order.InitiatedBy, order.CreatedAt)
	if err != nil {
		return "", err
	}
	return order.ID, nil
}

// GetByID returns an order by its ID.
func (r *sqlOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	q := r.db.Rebind(`SELECT * FROM tab_orders WHERE id = ?`)
	err := r.db.GetContext(ctx, &order, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundError{Kind: "order", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByTab returns all orders on a tab, newest first.
func (r *sqlOrderRepo) ListByTab(ctx context.Context, tabID string) ([]models.Order, error) {
	orders := []models.Order{}
	q := r.db.Rebind(`SELECT * FROM tab_orders WHERE tab_id = ? ORDER BY created_at DESC`)
	if err := r.db.SelectContext(ctx, &orders, q, tabID); err != nil {
		return nil, err
	}
	return orders, nil
}

// TransitionIfPending performs the single allowed status mutation. The
// WHERE clause guards against double-click and concurrent-approval
// races: a second transition finds no pending row and reports false.
func (r *sqlOrderRepo) TransitionIfPending(ctx context.Context, id string, status string) (bool, error) {
	q := r.db.Rebind(`UPDATE tab_orders SET status = ? WHERE id = ? AND status = ?`)
	res, err := r.db.ExecContext(ctx, q, status, id, models.OrderPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
