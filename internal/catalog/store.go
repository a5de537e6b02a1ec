// Package catalog owns stock truth. Every stock mutation goes through the
// conditional reserve/release pair; nothing else in the system decrements
// quantity.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"medistock/m/domain"
)

// Store provides stock-aware reads and the atomic conditional decrement over
// the medicines table.
type Store struct {
	db *sqlx.DB
}

// New constructs a Store.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Reservation is the successful outcome of CheckAndReserve: the name and
// unit price captured at reservation time. The price charged for a sale is
// this price, never a later re-read.
type Reservation struct {
	MedicineID int64
	Name       string
	UnitPrice  float64
	Quantity   int64
}

// CheckAndReserve decrements stock by quantity only if current stock covers
// it. The check and the decrement are a single conditional UPDATE so that
// two racing sales cannot both pass a read-then-write check and jointly
// oversell.
func (s *Store) CheckAndReserve(ctx context.Context, medicineID, quantity int64) (Reservation, error) {
	if quantity <= 0 {
		return Reservation{}, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	var (
		name  string
		price float64
	)
	err := s.db.QueryRowxContext(ctx,
		`UPDATE medicines SET quantity = quantity - ? WHERE id = ? AND quantity >= ? RETURNING name, price`,
		quantity, medicineID, quantity).Scan(&name, &price)
	if err == nil {
		return Reservation{MedicineID: medicineID, Name: name, UnitPrice: price, Quantity: quantity}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Reservation{}, &domain.PersistenceError{Op: "reserve stock", Err: err}
	}

	// No row changed: either the medicine does not exist or stock is short.
	var available int64
	err = s.db.GetContext(ctx, &available, `SELECT quantity FROM medicines WHERE id = ?`, medicineID)
	if errors.Is(err, sql.ErrNoRows) {
		return Reservation{}, &domain.NotFoundError{Entity: "medicine", ID: medicineID}
	}
	if err != nil {
		return Reservation{}, &domain.PersistenceError{Op: "reserve stock", Err: err}
	}
	return Reservation{}, &domain.OutOfStockError{MedicineID: medicineID, Requested: quantity, Available: available}
}

// Release is the compensating increment for a reservation whose sale failed
// at a later step.
func (s *Store) Release(ctx context.Context, medicineID, quantity int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE medicines SET quantity = quantity + ? WHERE id = ?`, quantity, medicineID)
	if err != nil {
		return &domain.PersistenceError{Op: "release stock", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "medicine", ID: medicineID}
	}
	return nil
}

// Get returns a single catalog row.
func (s *Store) Get(ctx context.Context, medicineID int64) (domain.Medicine, error) {
	var med domain.Medicine
	err := s.db.GetContext(ctx, &med,
		`SELECT id, pharmacyId, name, genericName, brand, price, quantity, expiryDate FROM medicines WHERE id = ?`,
		medicineID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Medicine{}, &domain.NotFoundError{Entity: "medicine", ID: medicineID}
	}
	if err != nil {
		return domain.Medicine{}, &domain.PersistenceError{Op: "load medicine", Err: err}
	}
	return med, nil
}

// FindByNameAcrossPharmacies returns every catalog row whose name matches
// exactly, case-insensitively, across all pharmacies. Used by availability
// search, which needs the pharmacy name for ranking.
func (s *Store) FindByNameAcrossPharmacies(ctx context.Context, name string) ([]domain.MedicineWithPharmacy, error) {
	var rows []domain.MedicineWithPharmacy
	err := s.db.SelectContext(ctx, &rows,
		`SELECT m.id, m.pharmacyId, m.name, m.genericName, m.brand, m.price, m.quantity, m.expiryDate,
		        p.name AS pharmacy_name, p.area AS pharmacy_area
		 FROM medicines m
		 JOIN pharmacies p ON p.id = m.pharmacyId
		 WHERE LOWER(m.name) = LOWER(?)`, strings.TrimSpace(name))
	if err != nil {
		return nil, &domain.PersistenceError{Op: "find medicine across pharmacies", Err: err}
	}
	return rows, nil
}

// SearchByName is the free-text catalog search used by the UI: substring,
// case-insensitive, within one pharmacy.
func (s *Store) SearchByName(ctx context.Context, pharmacyID int64, query string) ([]domain.Medicine, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var meds []domain.Medicine
	err := s.db.SelectContext(ctx, &meds,
		`SELECT id, pharmacyId, name, genericName, brand, price, quantity, expiryDate
		 FROM medicines
		 WHERE pharmacyId = ? AND (LOWER(name) LIKE ? OR LOWER(genericName) LIKE ?)
		 ORDER BY name LIMIT 25`, pharmacyID, like, like)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "search medicines", Err: err}
	}
	return meds, nil
}

// ListByPharmacy returns a pharmacy's whole catalog, name order.
func (s *Store) ListByPharmacy(ctx context.Context, pharmacyID int64) ([]domain.Medicine, error) {
	var meds []domain.Medicine
	err := s.db.SelectContext(ctx, &meds,
		`SELECT id, pharmacyId, name, genericName, brand, price, quantity, expiryDate
		 FROM medicines WHERE pharmacyId = ? ORDER BY name`, pharmacyID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list medicines", Err: err}
	}
	return meds, nil
}

// Add inserts a catalog row and returns its id.
func (s *Store) Add(ctx context.Context, med domain.Medicine) (int64, error) {
	if med.Name == "" {
		return 0, &domain.ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if med.Price < 0 {
		return 0, &domain.ValidationError{Field: "price", Reason: "must be non-negative"}
	}
	if med.Quantity < 0 {
		return 0, &domain.ValidationError{Field: "quantity", Reason: "must be non-negative"}
	}
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO medicines (pharmacyId, name, genericName, brand, price, quantity, expiryDate)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		med.PharmacyID, med.Name, med.GenericName, med.Brand, med.Price, med.Quantity, med.ExpiryDate).Scan(&id)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "add medicine", Err: err}
	}
	return id, nil
}

// Update replaces the mutable attributes of a catalog row.
func (s *Store) Update(ctx context.Context, med domain.Medicine) error {
	if med.Name == "" {
		return &domain.ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if med.Price < 0 {
		return &domain.ValidationError{Field: "price", Reason: "must be non-negative"}
	}
	if med.Quantity < 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "must be non-negative"}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE medicines SET name = ?, genericName = ?, brand = ?, price = ?, quantity = ?, expiryDate = ?
		 WHERE id = ? AND pharmacyId = ?`,
		med.Name, med.GenericName, med.Brand, med.Price, med.Quantity, med.ExpiryDate, med.ID, med.PharmacyID)
	if err != nil {
		return &domain.PersistenceError{Op: "update medicine", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "medicine", ID: med.ID}
	}
	return nil
}

// Delete removes a catalog row.
func (s *Store) Delete(ctx context.Context, medicineID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = ?`, medicineID)
	if err != nil {
		return &domain.PersistenceError{Op: "delete medicine", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "medicine", ID: medicineID}
	}
	return nil
}

// ExpiringWithin lists in-stock rows whose expiry date falls inside the next
// `days` days, soonest first.
func (s *Store) ExpiringWithin(ctx context.Context, pharmacyID int64, days int) ([]domain.Medicine, error) {
	if days <= 0 {
		days = 30
	}
	var meds []domain.Medicine
	err := s.db.SelectContext(ctx, &meds,
		`SELECT id, pharmacyId, name, genericName, brand, price, quantity, expiryDate
		 FROM medicines
		 WHERE pharmacyId = ? AND quantity > 0 AND expiryDate IS NOT NULL
		   AND DATE(expiryDate) <= DATE('now', ?)
		 ORDER BY expiryDate ASC`, pharmacyID, fmt.Sprintf("+%d days", days))
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list expiring medicines", Err: err}
	}
	return meds, nil
}
