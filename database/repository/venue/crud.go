package venueRepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tabeza/models"

	"github.com/google/uuid"
)

// Create inserts a new venue and returns its ID.
func (r *sqlVenueRepo) Create(ctx context.Context, venue models.Venue) (string, error) {
	if venue.ID == "" {
		venue.ID = uuid.New().String()
	}
	venue.CreatedAt = time.Now().UTC()

	q := r.db.Rebind(`INSERT INTO venues
		(id, name, mpesa_till_number, mpesa_paybill_number, mpesa_passkey, mpesa_enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, q,
		venue.ID, venue.Name, venue.MpesaTillNumber, venue.MpesaPaybill,
		venue.MpesaPasskey, venue.MpesaEnabled, venue.CreatedAt)
	if err != nil {
		return "", err
	}
	return venue.ID, nil
}

// GetByID returns a venue by its ID.
func (r *sqlVenueRepo) GetByID(ctx context.Context, id string) (*models.Venue, error) {
	var venue models.Venue
	q := r.db.Rebind(`SELECT * FROM venues WHERE id = ?`)
	err := r.db.GetContext(ctx, &venue, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundError{Kind: "venue", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &venue, nil
}
