package models

import "time"

// Tab statuses.
const (
	TabOpen   = "open"
	TabClosed = "closed"
)

// Tab is one running bill for a single venue visit. A closed tab accepts
// no further orders or payments.
type Tab struct {
	ID         string    `db:"id" json:"id"`
	VenueID    string    `db:"venue_id" json:"venue_id"`
	TabNumber  int       `db:"tab_number" json:"tab_number"`
	Status     string    `db:"status" json:"status"`
	OwnerLabel string    `db:"owner_label" json:"owner_label,omitempty"`
	Notes      string    `db:"notes" json:"notes,omitempty"`
	OpenedAt   time.Time `db:"opened_at" json:"opened_at"`
}

// TabView is the derived view clients poll: the tab plus its orders,
// payments and the recomputed totals. The balance is never stored.
type TabView struct {
	Tab      Tab       `json:"tab"`
	Orders   []Order   `json:"orders"`
	Payments []Payment `json:"payments"`
	Charges  float64   `json:"charges"`
	Paid     float64   `json:"paid"`
	Balance  float64   `json:"balance"`
}

// TabSummary is a single row of the staff dashboard listing.
type TabSummary struct {
	Tab           Tab     `json:"tab"`
	Charges       float64 `json:"charges"`
	Paid          float64 `json:"paid"`
	Balance       float64 `json:"balance"`
	PendingOrders int     `json:"pending_orders"`
}
