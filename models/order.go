package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Order statuses. Confirmed and cancelled are terminal.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderCancelled = "cancelled"
)

// Parties that can initiate or act on an order.
const (
	PartyCustomer = "customer"
	PartyStaff    = "staff"
)

// OrderItem is one line of an order. Total is fixed at creation time as
// Quantity * Price and never recomputed afterwards.
type OrderItem struct {
	ProductID string  `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

// OrderItems is stored as a JSON array column.
type OrderItems []OrderItem

func (i OrderItems) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *OrderItems) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	case nil:
		*i = nil
		return nil
	default:
		return fmt.Errorf("order items: cannot scan %T", src)
	}
}

// Order is a request to add charges to a tab, created by one party and
// confirmed or cancelled only by the other.
type Order struct {
	ID          string     `db:"id" json:"id"`
	TabID       string     `db:"tab_id" json:"tab_id"`
	Items       OrderItems `db:"items" json:"items"`
	Total       float64    `db:"total" json:"total"`
	Status      string     `db:"status" json:"status"`
	InitiatedBy string     `db:"initiated_by" json:"initiated_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
