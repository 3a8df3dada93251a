package tabRepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tabeza/models"

	"github.com/google/uuid"
)

// Create inserts a new tab and returns its ID.
func (r *sqlTabRepo) Create(ctx context.Context, tab models.Tab) (string, error) {
	if tab.ID == "" {
		tab.ID = uuid.New().String()
	}
	if tab.Status == "" {
		tab.Status = models.TabOpen
	}
	tab.OpenedAt = time.Now().UTC()

	q := r.db.Rebind(`INSERT INTO tabs
		(id, venue_id, tab_number, status, owner_label, notes, opened_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, q,
		tab.ID, tab.VenueID, tab.TabNumber, tab.Status, tab.OwnerLabel, tab.Notes, tab.OpenedAt)
	if err != nil {
		return "", err
	}
	return tab.ID, nil
}

// GetByID returns a tab by its ID.
func (r *sqlTabRepo) GetByID(ctx context.Context, id string) (*models.Tab, error) {
	var tab models.Tab
	q := r.db.Rebind(`SELECT * FROM tabs WHERE id = ?`)
	err := r.db.GetContext(ctx, &tab, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundError{Kind: "tab", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &tab, nil
}

// ListByVenue returns all tabs for a venue, newest tab number first.
func (r *sqlTabRepo) ListByVenue(ctx context.Context, venueID string) ([]models.Tab, error) {
	tabs := []models.Tab{}
	q := r.db.Rebind(`SELECT * FROM tabs WHERE venue_id = ? ORDER BY tab_number DESC`)
	if err := r.db.SelectContext(ctx, &tabs, q, venueID); err != nil {
		return nil, err
	}
	return tabs, nil
}

// NextTabNumber returns the next sequential display number for a venue.
func (r *sqlTabRepo) NextTabNumber(ctx context.Context, venueID string) (int, error) {
	var max sql.NullInt64
	q := r.db.Rebind(`SELECT MAX(tab_number) FROM tabs WHERE venue_id = ?`)
	if err := r.db.GetContext(ctx, &max, q, venueID); err != nil {
		return 0, err
	}
	return int(max.Int64) + 1, nil
}

// SetStatus updates a tab's lifecycle status.
func (r *sqlTabRepo) SetStatus(ctx context.Context, id string, status string) error {
	q := r.db.Rebind(`UPDATE tabs SET status = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundError{Kind: "tab", ID: id}
	}
	return nil
}
