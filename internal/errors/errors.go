// Package errors provides the domain errors of the inventory service.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrOutOfStock          = errors.New("not enough stock")
	ErrConstraintViolation = errors.New("constraint violation")
)

// NotFoundError reports a missing product. It matches ErrProductNotFound.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Product not found with id: %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// OutOfStockError is returned when a reduction asks for more than is on hand.
type OutOfStockError struct {
	ID        int64
	Name      string
	Available int64
	Requested int64
}

func (e *OutOfStockError) Error() string {
	return "Not enough stock for product " + e.Name
}

func (e *OutOfStockError) Is(target error) bool {
	return target == ErrOutOfStock
}

// ConstraintViolationError wraps a data-integrity failure reported by the database.
// Message is the database's own description and is safe to show to clients.
type ConstraintViolationError struct {
	Message string
	Err     error
}

func (e *ConstraintViolationError) Error() string {
	return "Database error: " + e.Message
}

func (e *ConstraintViolationError) Is(target error) bool {
	return target == ErrConstraintViolation
}

func (e *ConstraintViolationError) Unwrap() error {
	return e.Err
}
