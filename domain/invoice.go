package domain

import (
	"fmt"
	"math"
)

// LineItem is an immutable snapshot of one medicine at sale time. The name
// and price are copied from the catalog deliberately: later catalog edits
// must not drift a finalized invoice.
type LineItem struct {
	MedicineName string  `db:"medicine_name" json:"medicine_name"`
	Quantity     int64   `db:"quantity" json:"quantity"`
	UnitPrice    float64 `db:"price" json:"unit_price"`
	Subtotal     float64 `db:"subtotal" json:"subtotal"`
}

// NewLineItem builds a snapshot with the subtotal derived from price and
// quantity, rounded to cents.
func NewLineItem(medicineName string, unitPrice float64, quantity int64) LineItem {
	return LineItem{
		MedicineName: medicineName,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Subtotal:     round2(unitPrice * float64(quantity)),
	}
}

// Invoice is persisted once and never updated. ID and CreatedAt are assigned
// by the invoice store on persistence.
type Invoice struct {
	ID           int64      `db:"id" json:"id"`
	PharmacyID   int64      `db:"pharmacy_id" json:"pharmacy_id"`
	PatientName  string     `db:"patient_name" json:"patient_name"`
	PatientPhone *string    `db:"patient_phone" json:"patient_phone,omitempty"`
	TotalAmount  float64    `db:"total_amount" json:"total_amount"`
	CreatedAt    string     `db:"created_at" json:"created_at"`
	Items        []LineItem `json:"items"`
}

// NewInvoice builds an unpersisted invoice from sale-time line items. The
// total is computed here and the subtotal invariant is checked on every
// item; a violated invariant is rejected before it can reach the store.
func NewInvoice(pharmacyID int64, patientName string, patientPhone *string, items []LineItem) (*Invoice, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "invoice must contain at least one line item"}
	}
	var total float64
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Field: "items", Reason: fmt.Sprintf("item %d has non-positive quantity", i)}
		}
		if item.UnitPrice < 0 {
			return nil, &ValidationError{Field: "items", Reason: fmt.Sprintf("item %d has negative unit price", i)}
		}
		if item.Subtotal != round2(item.UnitPrice*float64(item.Quantity)) {
			return nil, &ValidationError{Field: "items", Reason: fmt.Sprintf("item %d subtotal does not equal price times quantity", i)}
		}
		total += item.Subtotal
	}
	return &Invoice{
		PharmacyID:   pharmacyID,
		PatientName:  patientName,
		PatientPhone: patientPhone,
		TotalAmount:  round2(total),
		Items:        items,
	}, nil
}

// HydrateInvoice rebuilds an invoice loaded from the store, trusting the
// stored id, timestamp and total as-is.
func HydrateInvoice(id, pharmacyID int64, patientName string, patientPhone *string, totalAmount float64, createdAt string, items []LineItem) *Invoice {
	return &Invoice{
		ID:           id,
		PharmacyID:   pharmacyID,
		PatientName:  patientName,
		PatientPhone: patientPhone,
		TotalAmount:  totalAmount,
		CreatedAt:    createdAt,
		Items:        items,
	}
}

// CheckTotal verifies the money invariant: the total must reconcile to the
// line items exactly.
func (inv *Invoice) CheckTotal() error {
	var sum float64
	for _, item := range inv.Items {
		sum += item.Subtotal
	}
	if round2(sum) != inv.TotalAmount {
		return &ValidationError{Field: "total_amount", Reason: fmt.Sprintf("total %.2f does not match line item sum %.2f", inv.TotalAmount, sum)}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
