package orderRepo

import (
	"context"

	"tabeza/models"

	"github.com/jmoiron/sqlx"
)

type OrderRepository interface {
	Create(ctx context.Context, order models.Order) (string, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByTab(ctx context.Context, tabID string) ([]models.Order, error)
	// TransitionIfPending moves a pending order into a terminal status.
	// It reports false when the order was not pending anymore, leaving
	// the row untouched.
	TransitionIfPending(ctx context.Context, id string, status string) (bool, error)
}

type sqlOrderRepo struct {
	db *sqlx.DB
}

// NewSQLOrderRepo returns an OrderRepository backed by the given database handle.
func NewSQLOrderRepo(db *sqlx.DB) OrderRepository {
	return &sqlOrderRepo{db: db}
}
