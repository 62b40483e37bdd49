package store

import (
	"context"
	"errors"
	"fmt"

	inverrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/store/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE classes reported as constraint violations: 22 covers values the column cannot hold
// (numeric overflow, string too long), 23 covers unique, check, not-null and foreign key failures.
const (
	dataExceptionClass      = "22"
	integrityViolationClass = "23"
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

// FindByID retrieves a product by its unique identifier.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*db.Product, error) {
	product, err := p.q.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &inverrors.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// FindAll retrieves all products ordered by ID.
func (p *PgStore) FindAll(ctx context.Context) ([]db.Product, error) {
	products, err := p.q.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	return products, nil
}

// Save creates or overwrites a product.
func (p *PgStore) Save(ctx context.Context, product *db.Product) (*db.Product, error) {
	if product.ID == 0 {
		created, err := p.q.Create(ctx, db.CreateParams{
			Name:          product.Name,
			Description:   product.Description,
			Price:         product.Price,
			StockQuantity: product.StockQuantity,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create product: %w", translate(err))
		}
		return &created, nil
	}

	updated, err := p.q.Update(ctx, db.UpdateParams{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &inverrors.NotFoundError{ID: product.ID}
		}
		return nil, fmt.Errorf("failed to update product: %w", translate(err))
	}
	return &updated, nil
}

// Delete removes a product.
func (p *PgStore) Delete(ctx context.Context, product *db.Product) error {
	count, err := p.q.Delete(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", translate(err))
	}
	if count == 0 {
		return &inverrors.NotFoundError{ID: product.ID}
	}
	return nil
}

// translate turns PostgreSQL data and integrity errors into ConstraintViolationError and leaves other errors alone.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || len(pgErr.Code) < 2 {
		return err
	}
	switch pgErr.Code[:2] {
	case dataExceptionClass, integrityViolationClass:
		return &inverrors.ConstraintViolationError{Message: pgErr.Message, Err: err}
	}
	return err
}
