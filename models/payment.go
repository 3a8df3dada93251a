package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Payment statuses. A payment is written once as pending and mutated
// exactly once into success or failed.
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// Payment methods.
const (
	MethodMpesa = "mpesa"
	MethodCash  = "cash"
	MethodCard  = "card"
)

// Metadata is the opaque JSON column holding gateway request/response
// artifacts and error detail.
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(Metadata{})
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = nil
		return nil
	default:
		return fmt.Errorf("metadata: cannot scan %T", src)
	}
}

// Merge returns a copy of m with the given keys overlaid.
func (m Metadata) Merge(extra Metadata) Metadata {
	out := Metadata{}
	for k, v := range m {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Payment is one settlement attempt against a tab. Reference correlates
// the row with the external gateway transaction and is unique per
// attempt; a retry always creates a new row with a new reference.
type Payment struct {
	ID        string    `db:"id" json:"id"`
	TabID     string    `db:"tab_id" json:"tab_id"`
	Amount    float64   `db:"amount" json:"amount"`
	Method    string    `db:"method" json:"method"`
	Status    string    `db:"status" json:"status"`
	Reference string    `db:"reference" json:"reference"`
	Metadata  Metadata  `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
