package models

import "time"

// Invoice is an immutable billing snapshot of an order. TotalCost captures
// the price at the moment the invoice was issued and is never recomputed,
// even if the referenced order changes afterwards.
type Invoice struct {
	InvoiceID  int       `json:"invoice_id"`
	OrderID    int       `json:"order_id"`
	TotalCost  float64   `json:"total_cost"`
	DateIssued time.Time `json:"date_issued"`
}

// NewInvoice creates an invoice snapshot for the given order and amount.
// The invoice ID is assigned by the invoice store at registration time.
func NewInvoice(orderID int, totalCost float64) *Invoice {
	return &Invoice{
		OrderID:    orderID,
		TotalCost:  totalCost,
		DateIssued: time.Now(),
	}
}
