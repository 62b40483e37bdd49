// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/abgdnv/inventory/internal/store/db"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns an error matching ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*db.Product, error)

	// FindAll returns every product ordered by ID.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]db.Product, error)

	// Save inserts the product when its ID is zero and overwrites the stored record otherwise.
	// The returned product carries the assigned ID.
	// Integrity failures are reported as ConstraintViolationError.
	Save(ctx context.Context, product *db.Product) (*db.Product, error)

	// Delete removes the given product.
	// Returns an error matching ErrProductNotFound if it no longer exists.
	Delete(ctx context.Context, product *db.Product) error
}
