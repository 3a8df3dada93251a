package models

import "time"

// Venue holds the per-venue M-Pesa merchant configuration alongside the
// basic venue record. A venue may carry a till number, a paybill number,
// or neither; Shortcode resolves the one to charge against.
type Venue struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	MpesaTillNumber string    `db:"mpesa_till_number" json:"mpesa_till_number,omitempty"`
	MpesaPaybill    string    `db:"mpesa_paybill_number" json:"mpesa_paybill_number,omitempty"`
	MpesaPasskey    string    `db:"mpesa_passkey" json:"-"`
	MpesaEnabled    bool      `db:"mpesa_enabled" json:"mpesa_enabled"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Shortcode returns the business shortcode to bill against, preferring
// the till number over the paybill number. Empty when neither is set.
func (v Venue) Shortcode() string {
	if v.MpesaTillNumber != "" {
		return v.MpesaTillNumber
	}
	return v.MpesaPaybill
}
