// Package invoice durably persists invoice headers and their line items.
// The store owns invoice identity: ids exist only once a header and all of
// its items have committed together.
package invoice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"medistock/m/domain"
)

// Store persists invoices over the invoices and invoice_items tables.
type Store struct {
	db *sqlx.DB
}

// New constructs a Store.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Persist inserts the header and every line item as one transaction. On any
// failure the whole write is rolled back and no id is assigned. On success
// the invoice's ID and CreatedAt are filled in from the store.
func (s *Store) Persist(ctx context.Context, inv *domain.Invoice) (int64, error) {
	if len(inv.Items) == 0 {
		return 0, &domain.ValidationError{Field: "items", Reason: "invoice must contain at least one line item"}
	}
	if err := inv.CheckTotal(); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "begin invoice transaction", Err: err}
	}
	defer tx.Rollback()

	var (
		id        int64
		createdAt string
	)
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO invoices (pharmacy_id, patient_name, patient_phone, total_amount)
		 VALUES (?, ?, ?, ?) RETURNING id, created_at`,
		inv.PharmacyID, inv.PatientName, inv.PatientPhone, inv.TotalAmount).Scan(&id, &createdAt)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "insert invoice", Err: err}
	}

	for _, item := range inv.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO invoice_items (invoice_id, medicine_name, quantity, price, subtotal)
			 VALUES (?, ?, ?, ?, ?)`,
			id, item.MedicineName, item.Quantity, item.UnitPrice, item.Subtotal)
		if err != nil {
			return 0, &domain.PersistenceError{Op: "insert invoice item", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &domain.PersistenceError{Op: "commit invoice", Err: err}
	}

	inv.ID = id
	inv.CreatedAt = createdAt
	return id, nil
}

type invoiceHeader struct {
	ID           int64   `db:"id"`
	PharmacyID   int64   `db:"pharmacy_id"`
	PatientName  string  `db:"patient_name"`
	PatientPhone *string `db:"patient_phone"`
	TotalAmount  float64 `db:"total_amount"`
	CreatedAt    string  `db:"created_at"`
}

// GetByID loads one invoice with all of its line items.
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	var header invoiceHeader
	err := s.db.GetContext(ctx, &header,
		`SELECT id, pharmacy_id, patient_name, patient_phone, total_amount, created_at
		 FROM invoices WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "invoice", ID: id}
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load invoice", Err: err}
	}

	var items []domain.LineItem
	err = s.db.SelectContext(ctx, &items,
		`SELECT medicine_name, quantity, price, subtotal FROM invoice_items
		 WHERE invoice_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load invoice items", Err: err}
	}

	return domain.HydrateInvoice(header.ID, header.PharmacyID, header.PatientName,
		header.PatientPhone, header.TotalAmount, header.CreatedAt, items), nil
}

type lineItemRow struct {
	InvoiceID int64 `db:"invoice_id"`
	domain.LineItem
}

// ListByPharmacy returns a pharmacy's invoices newest first, each with its
// line items attached.
func (s *Store) ListByPharmacy(ctx context.Context, pharmacyID int64) ([]*domain.Invoice, error) {
	var headers []invoiceHeader
	err := s.db.SelectContext(ctx, &headers,
		`SELECT id, pharmacy_id, patient_name, patient_phone, total_amount, created_at
		 FROM invoices WHERE pharmacy_id = ? ORDER BY created_at DESC, id DESC`, pharmacyID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list invoices", Err: err}
	}
	if len(headers) == 0 {
		return []*domain.Invoice{}, nil
	}

	ids := make([]int64, len(headers))
	for i, h := range headers {
		ids[i] = h.ID
	}
	itemsQuery, itemsArgs, err := sqlx.In(
		`SELECT invoice_id, medicine_name, quantity, price, subtotal FROM invoice_items
		 WHERE invoice_id IN (?) ORDER BY rowid`, ids)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "prepare invoice items query", Err: err}
	}
	itemsQuery = s.db.Rebind(itemsQuery)

	var rows []lineItemRow
	if err := s.db.SelectContext(ctx, &rows, itemsQuery, itemsArgs...); err != nil {
		return nil, &domain.PersistenceError{Op: "load invoice items", Err: err}
	}
	itemsByInvoice := make(map[int64][]domain.LineItem)
	for _, row := range rows {
		itemsByInvoice[row.InvoiceID] = append(itemsByInvoice[row.InvoiceID], row.LineItem)
	}

	invoices := make([]*domain.Invoice, len(headers))
	for i, h := range headers {
		invoices[i] = domain.HydrateInvoice(h.ID, h.PharmacyID, h.PatientName,
			h.PatientPhone, h.TotalAmount, h.CreatedAt, itemsByInvoice[h.ID])
	}
	return invoices, nil
}

// Delete removes line items then header as one transaction, so a reader can
// never observe a header without its items or orphaned items.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "begin invoice delete", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, id); err != nil {
		return &domain.PersistenceError{Op: "delete invoice items", Err: err}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return &domain.PersistenceError{Op: "delete invoice", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "invoice", ID: id}
	}
	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "commit invoice delete", Err: err}
	}
	return nil
}

// SalesSummary reports revenue and invoice count for a pharmacy since a
// point in time.
func (s *Store) SalesSummary(ctx context.Context, pharmacyID int64, since time.Time) (revenue float64, count int64, err error) {
	err = s.db.QueryRowxContext(ctx,
		`SELECT COALESCE(SUM(total_amount), 0), COUNT(*) FROM invoices
		 WHERE pharmacy_id = ? AND created_at >= ?`,
		pharmacyID, since.UTC().Format("2006-01-02 15:04:05")).Scan(&revenue, &count)
	if err != nil {
		return 0, 0, &domain.PersistenceError{Op: "sales summary", Err: err}
	}
	return revenue, count, nil
}
