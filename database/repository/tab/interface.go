package tabRepo

import (
	"context"

	"tabeza/models"

	"github.com/jmoiron/sqlx"
)

type TabRepository interface {
	Create(ctx context.Context, tab models.Tab) (string, error)
	GetByID(ctx context.Context, id string) (*models.Tab, error)
	ListByVenue(ctx context.Context, venueID string) ([]models.Tab, error)
	NextTabNumber(ctx context.Context, venueID string) (int, error)
	SetStatus(ctx context.Context, id string, status string) error
}

type sqlTabRepo struct {
	db *sqlx.DB
}

// NewSQLTabRepo returns a TabRepository backed by the given database handle.
func NewSQLTabRepo(db *sqlx.DB) TabRepository {
	return &sqlTabRepo{db: db}
}
