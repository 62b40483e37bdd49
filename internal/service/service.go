// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	inverrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/store"
	"github.com/abgdnv/inventory/internal/store/db"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const msgStockOutOfRange = "stock_quantity out of range"

// ProductService defines the methods for managing products and their stock.
type ProductService interface {
	// Create stores a new product and returns it with its assigned ID.
	Create(ctx context.Context, product ProductRequestDto) (*ProductDto, error)

	// FindAll returns every product ordered by ID.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// Update overwrites name, description, price and stock quantity of an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, product ProductRequestDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// ReduceStock takes qty units out of stock.
	// Returns ErrOutOfStock, without writing, when fewer than qty units are on hand.
	ReduceStock(ctx context.Context, id int64, qty int64) error

	// IncreaseStock adds qty units to stock.
	IncreaseStock(ctx context.Context, id int64, qty int64) error
}

// Service implements ProductService on top of a ProductStore.
// Each operation is one read plus, for mutations, one write. Nothing is locked between the two,
// so concurrent stock changes of the same product may overwrite each other.
type Service struct {
	repository    store.ProductStore
	stockUnits    metric.Int64Counter
	stockRejected metric.Int64Counter
}

// Option customizes a Service.
type Option func(*options)

type options struct {
	meter metric.Meter
}

// WithMeter records stock metrics with m instead of the global "inventory" meter.
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore, opts ...Option) *Service {
	o := options{meter: otel.Meter("inventory")}
	for _, opt := range opts {
		opt(&o)
	}
	stockUnits, err := o.meter.Int64Counter("stock_units_changed",
		metric.WithDescription("Units taken out of or put into stock"), metric.WithUnit("{unit}"))
	if err != nil {
		panic(fmt.Sprintf("failed to create stock_units_changed counter: %v", err))
	}
	stockRejected, err := o.meter.Int64Counter("stock_reductions_rejected",
		metric.WithDescription("Stock reductions refused for insufficient stock"))
	if err != nil {
		panic(fmt.Sprintf("failed to create stock_reductions_rejected counter: %v", err))
	}
	return &Service{
		repository:    repo,
		stockUnits:    stockUnits,
		stockRejected: stockRejected,
	}
}

var (
	directionReduce   = metric.WithAttributes(attribute.String("direction", "reduce"))
	directionIncrease = metric.WithAttributes(attribute.String("direction", "increase"))
)

// ProductRequestDto carries the client-supplied fields of a create or update.
// Pointers distinguish an absent field from its zero value.
type ProductRequestDto struct {
	Name          string           `json:"name"          validate:"required,max=255"`
	Description   *string          `json:"description"   validate:"omitempty,max=1000"`
	Price         *decimal.Decimal `json:"price"         validate:"required,dgte=0,dlt=10000000000,dscale=2"`
	StockQuantity *int64           `json:"stockQuantity" validate:"required,gte=0"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stockQuantity"`
}

// MarshalJSON writes the price as a JSON number with its exact decimal digits.
func (p ProductDto) MarshalJSON() ([]byte, error) {
	type plain ProductDto
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain: plain(p), Price: json.Number(p.Price.String())})
}

func (s *Service) Create(ctx context.Context, product ProductRequestDto) (*ProductDto, error) {
	p := &db.Product{}
	apply(p, product)
	created, err := s.repository.Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toDto(created), nil
}

func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}
	return productDTOs, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

func (s *Service) Update(ctx context.Context, id int64, product ProductRequestDto) (*ProductDto, error) {
	existing, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	apply(existing, product)
	updated, err := s.repository.Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	return toDto(updated), nil
}

func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	existing, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	if err := s.repository.Delete(ctx, existing); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	return nil
}

// ReduceStock does not reject a non-positive qty; callers are expected to validate it.
func (s *Service) ReduceStock(ctx context.Context, id int64, qty int64) error {
	existing, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	if existing.StockQuantity < qty {
		s.stockRejected.Add(ctx, 1)
		return &inverrors.OutOfStockError{
			ID:        existing.ID,
			Name:      existing.Name,
			Available: existing.StockQuantity,
			Requested: qty,
		}
	}
	existing.StockQuantity -= qty
	if _, err := s.repository.Save(ctx, existing); err != nil {
		return fmt.Errorf("failed to reduce stock for product with ID %d: %w", id, err)
	}
	s.stockUnits.Add(ctx, qty, directionReduce)
	return nil
}

// IncreaseStock does not bound qty; callers are expected to validate it.
// A sum that does not fit the stock column is reported as a constraint violation.
func (s *Service) IncreaseStock(ctx context.Context, id int64, qty int64) error {
	existing, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	if qty > 0 && existing.StockQuantity > math.MaxInt64-qty {
		return &inverrors.ConstraintViolationError{Message: msgStockOutOfRange}
	}
	existing.StockQuantity += qty
	if _, err := s.repository.Save(ctx, existing); err != nil {
		return fmt.Errorf("failed to increase stock for product with ID %d: %w", id, err)
	}
	s.stockUnits.Add(ctx, qty, directionIncrease)
	return nil
}

// apply copies the request fields onto p. The ID is never touched.
func apply(p *db.Product, req ProductRequestDto) {
	p.Name = req.Name
	p.Description = pgtype.Text{}
	if req.Description != nil {
		p.Description = pgtype.Text{String: *req.Description, Valid: true}
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.StockQuantity != nil {
		p.StockQuantity = *req.StockQuantity
	}
}

func toDto(product *db.Product) *ProductDto {
	dto := &ProductDto{
		ID:            product.ID,
		Name:          product.Name,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
	}
	if product.Description.Valid {
		description := product.Description.String
		dto.Description = &description
	}
	return dto
}
