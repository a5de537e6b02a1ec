// Package domain defines the core entities and error types of the pharmacy system.
package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports bad caller input. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// OutOfStockError is a definitive answer: the requested quantity exceeds
// current stock. Not a transient condition.
type OutOfStockError struct {
	MedicineID int64
	Requested  int64
	Available  int64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("medicine %d out of stock: requested %d, available %d", e.MedicineID, e.Requested, e.Available)
}

// NotFoundError reports a missing entity reference.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// PersistenceError wraps a store-level failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ReceiptError wraps a receipt generation failure. It never invalidates the
// sale it belongs to.
type ReceiptError struct {
	Err error
}

func (e *ReceiptError) Error() string {
	return fmt.Sprintf("receipt generation failed: %v", e.Err)
}

func (e *ReceiptError) Unwrap() error { return e.Err }

// IsValidation checks if an error is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsOutOfStock checks if an error is an OutOfStockError.
func IsOutOfStock(err error) bool {
	var o *OutOfStockError
	return errors.As(err, &o)
}

// IsNotFound checks if an error is a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// IsPersistence checks if an error is a PersistenceError.
func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
