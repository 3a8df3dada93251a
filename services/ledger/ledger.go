// Package ledger computes a tab's outstanding balance. The balance is
// derived on every read from the order and payment rows; nothing here
// has side effects and no component may cache the result as
// authoritative.
package ledger

import "tabeza/models"

// Totals is the derived breakdown of a tab's ledger.
type Totals struct {
	Charges float64
	Paid    float64
	Balance float64
}

// Compute sums charges and credits for one tab.
//
// Pending orders count as charges: a charge hits the ledger as soon as
// either party places it, before the other party has approved. A
// rejected order drops out the moment its status flips to cancelled.
// Only success payments count as credits; pending and failed attempts
// never reduce the balance. A negative balance means overpaid and is
// treated as settled.
func Compute(orders []models.Order, payments []models.Payment) Totals {
	var t Totals
	for _, o := range orders {
		if o.Status != models.OrderCancelled {
			t.Charges += o.Total
		}
	}
	for _, p := range payments {
		if p.Status == models.PaymentSuccess {
			t.Paid += p.Amount
		}
	}
	t.Balance = t.Charges - t.Paid
	return t
}

// Balance is the single-number form of Compute.
func Balance(orders []models.Order, payments []models.Payment) float64 {
	return Compute(orders, payments).Balance
}
