// Package sale coordinates a checkout: validate the basket, reserve stock,
// persist the invoice, then attempt the receipt. The sale is the durable
// fact; the receipt is advisory.
package sale

import (
	"context"
	"log"
	"regexp"

	"medistock/m/domain"
	"medistock/m/internal/catalog"
)

// MaxPatientNameLen bounds the patient name on a sale request.
const MaxPatientNameLen = 100

var phonePattern = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

// CatalogReserver is the slice of the catalog store the orchestrator needs.
type CatalogReserver interface {
	CheckAndReserve(ctx context.Context, medicineID, quantity int64) (catalog.Reservation, error)
	Release(ctx context.Context, medicineID, quantity int64) error
}

// InvoicePersister is the slice of the invoice store the orchestrator needs.
type InvoicePersister interface {
	Persist(ctx context.Context, inv *domain.Invoice) (int64, error)
}

// ReceiptGenerator produces a receipt artifact for a committed sale. Its
// failure is reported but never undoes the sale.
type ReceiptGenerator interface {
	Generate(inv *domain.Invoice) (string, error)
}

// Orchestrator runs the sale pipeline against the two stores and the receipt
// collaborator.
type Orchestrator struct {
	catalog  CatalogReserver
	invoices InvoicePersister
	receipts ReceiptGenerator
}

// New constructs an Orchestrator. receipts may be nil, in which case no
// receipt is attempted.
func New(catalog CatalogReserver, invoices InvoicePersister, receipts ReceiptGenerator) *Orchestrator {
	return &Orchestrator{catalog: catalog, invoices: invoices, receipts: receipts}
}

// ItemRequest is one basket entry.
type ItemRequest struct {
	MedicineID int64 `json:"medicine_id"`
	Quantity   int64 `json:"quantity"`
}

// SaleRequest is the caller's input to ExecuteSale. The caller's identity
// and pharmacy come in explicitly; the orchestrator reads no ambient state.
type SaleRequest struct {
	PharmacyID   int64         `json:"pharmacy_id"`
	PatientName  string        `json:"patient_name"`
	PatientPhone *string       `json:"patient_phone,omitempty"`
	Items        []ItemRequest `json:"items"`
}

// SaleResult reports a committed sale. ReceiptErr is non-nil when the sale
// succeeded but the receipt could not be generated.
type SaleResult struct {
	InvoiceID   int64   `json:"invoice_id"`
	TotalAmount float64 `json:"total_amount"`
	ReceiptPath string  `json:"receipt_path,omitempty"`
	ReceiptErr  error   `json:"-"`
}

func validate(req SaleRequest) error {
	if len(req.Items) == 0 {
		return &domain.ValidationError{Field: "items", Reason: "sale must contain at least one item"}
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return &domain.ValidationError{Field: "items", Reason: "quantity must be positive"}
		}
	}
	if req.PatientName == "" {
		return &domain.ValidationError{Field: "patient_name", Reason: "cannot be empty"}
	}
	if len(req.PatientName) > MaxPatientNameLen {
		return &domain.ValidationError{Field: "patient_name", Reason: "too long"}
	}
	if req.PatientPhone != nil && !phonePattern.MatchString(*req.PatientPhone) {
		return &domain.ValidationError{Field: "patient_phone", Reason: "must be 6-15 digits with optional leading +"}
	}
	return nil
}

// ExecuteSale runs the pipeline. A non-nil error means nothing durable
// happened: any reservations made before the failure have been released.
// On success the catalog has been decremented by exactly the requested
// quantities and the invoice is persisted.
func (o *Orchestrator) ExecuteSale(ctx context.Context, req SaleRequest) (SaleResult, error) {
	if err := validate(req); err != nil {
		return SaleResult{}, err
	}

	// Reserve in request order. Each reservation is individually atomic;
	// the basket as a whole is not, which is why a failure part-way must
	// compensate every reservation already made.
	reserved := make([]catalog.Reservation, 0, len(req.Items))
	for _, item := range req.Items {
		res, err := o.catalog.CheckAndReserve(ctx, item.MedicineID, item.Quantity)
		if err != nil {
			o.releaseAll(ctx, reserved)
			return SaleResult{}, err
		}
		reserved = append(reserved, res)
	}

	items := make([]domain.LineItem, len(reserved))
	for i, res := range reserved {
		items[i] = domain.NewLineItem(res.Name, res.UnitPrice, res.Quantity)
	}
	inv, err := domain.NewInvoice(req.PharmacyID, req.PatientName, req.PatientPhone, items)
	if err != nil {
		o.releaseAll(ctx, reserved)
		return SaleResult{}, err
	}

	invoiceID, err := o.invoices.Persist(ctx, inv)
	if err != nil {
		o.releaseAll(ctx, reserved)
		return SaleResult{}, err
	}

	result := SaleResult{InvoiceID: invoiceID, TotalAmount: inv.TotalAmount}
	if o.receipts != nil {
		path, err := o.receipts.Generate(inv)
		if err != nil {
			log.Printf("sale %d committed but receipt failed: %v", invoiceID, err)
			result.ReceiptErr = &domain.ReceiptError{Err: err}
		} else {
			result.ReceiptPath = path
		}
	}
	return result, nil
}

// releaseAll compensates reservations in reverse order. Release failures are
// logged, not returned: the terminal result the caller sees is the original
// failure, and a best-effort release beats losing it.
func (o *Orchestrator) releaseAll(ctx context.Context, reserved []catalog.Reservation) {
	for i := len(reserved) - 1; i >= 0; i-- {
		res := reserved[i]
		if err := o.catalog.Release(ctx, res.MedicineID, res.Quantity); err != nil {
			log.Printf("failed to release %d units of medicine %d: %v", res.Quantity, res.MedicineID, err)
		}
	}
}
