package venueRepo

import (
	"context"

	"tabeza/models"

	"github.com/jmoiron/sqlx"
)

type VenueRepository interface {
	Create(ctx context.Context, venue models.Venue) (string, error)
	GetByID(ctx context.Context, id string) (*models.Venue, error)
}

type sqlVenueRepo struct {
	db *sqlx.DB
}

// NewSQLVenueRepo returns a VenueRepository backed by the given database handle.
func NewSQLVenueRepo(db *sqlx.DB) VenueRepository {
	return &sqlVenueRepo{db: db}
}
