package paymentRepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tabeza/models"

	"github.com/google/uuid"
)

// Create inserts a new payment and returns its ID.
func (r *sqlPaymentRepo) Create(ctx context.Context, payment models.Payment) (string, error) {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentPending
	}
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	q := r.db.Rebind(`INSERT INTO tab_payments
		(id, tab_id, amount, method, status, reference, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, q,
		payment.ID, payment.TabID, payment.Amount, payment.Method, payment.Status,
		payment.Reference, payment.Metadata, payment.CreatedAt, payment.UpdatedAt)
	if err != nil {
		return "", err
	}
	return payment.ID, nil
}

// GetByID returns a payment by its ID.
func (r *sqlPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	q := r.db.Rebind(`SELECT * FROM tab_payments WHERE id = ?`)
	err := r.db.GetContext(ctx, &payment, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundError{Kind: "payment", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByTab returns all payments on a tab, newest first.
func (r *sqlPaymentRepo) ListByTab(ctx context.Context, tabID string) ([]models.Payment, error) {
	payments := []models.Payment{}
	q := r.db.Rebind(`SELECT * FROM tab_payments WHERE tab_id = ? ORDER BY created_at DESC`)
	if err := r.db.SelectContext(ctx, &payments, q, tabID); err != nil {
		return nil, err
	}
	return payments, nil
}

// LatestByReference finds the newest payment carrying the reference. The
// reference column is indexed for this reconciliation lookup.
func (r *sqlPaymentRepo) LatestByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var payment models.Payment
	q := r.db.Rebind(`SELECT * FROM tab_payments WHERE reference = ? ORDER BY created_at DESC LIMIT 1`)
	err := r.db.GetContext(ctx, &payment, q, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundError{Kind: "payment", ID: reference}
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// SetMetadata replaces the metadata column, leaving status alone.
func (r *sqlPaymentRepo) SetMetadata(ctx context.Context, id string, metadata models.Metadata) error {
	q := r.db.Rebind(`UPDATE tab_payments SET metadata = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q, metadata, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundError{Kind: "payment", ID: id}
	}
	return nil
}

// ResolveIfPending is the single allowed mutation of a pending payment.
// The conditional WHERE makes duplicate callback deliveries a no-op even
// when they race on the same row.
func (r *sqlPaymentRepo) ResolveIfPending(ctx context.Context, id string, status string, metadata models.Metadata) (bool, error) {
	q := r.db.Rebind(`UPDATE tab_payments SET status = ?, metadata = ?, updated_at = ?
		WHERE id = ? AND status = ?`)
	res, err := r.db.ExecContext(ctx, q, status, metadata, time.Now().UTC(), id, models.PaymentPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
