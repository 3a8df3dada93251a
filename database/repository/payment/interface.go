package paymentRepo

import (
	"context"

	"tabeza/models"

	"github.com/jmoiron/sqlx"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment models.Payment) (string, error)
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	ListByTab(ctx context.Context, tabID string) ([]models.Payment, error)
	// LatestByReference returns the most recently created payment whose
	// reference matches, or a NotFoundError.
	LatestByReference(ctx context.Context, reference string) (*models.Payment, error)
	// SetMetadata replaces a payment's metadata without touching status.
	SetMetadata(ctx context.Context, id string, metadata models.Metadata) error
	// ResolveIfPending moves a pending payment into a terminal status and
	// replaces its metadata in one write. It reports false when the
	// payment was no longer pending.
	ResolveIfPending(ctx context.Context, id string, status string, metadata models.Metadata) (bool, error)
}

type sqlPaymentRepo struct {
	db *sqlx.DB
}

// NewSQLPaymentRepo returns a PaymentRepository backed by the given database handle.
func NewSQLPaymentRepo(db *sqlx.DB) PaymentRepository {
	return &sqlPaymentRepo{db: db}
}
