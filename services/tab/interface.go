package tab

import (
	"context"

	"tabeza/models"
)

// TabService owns the tab lifecycle and the derived views clients poll.
type TabService interface {
	Open(ctx context.Context, req OpenTabRequest) (*models.Tab, error)
	// View returns the tab with its orders, payments and recomputed
	// totals.
	View(ctx context.Context, tabID string) (*models.TabView, error)
	// ListByVenue returns dashboard summaries for every tab of a venue.
	ListByVenue(ctx context.Context, venueID string) ([]models.TabSummary, error)
	// Close settles a tab. Only a tab with no outstanding balance can
	// close; a closed tab accepts no further orders or payments.
	Close(ctx context.Context, tabID string) (*models.Tab, error)
}

type OpenTabRequest struct {
	VenueID    string `json:"venue_id"`
	OwnerLabel string `json:"owner_label"`
	Notes      string `json:"notes"`
}
