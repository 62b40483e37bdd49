package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// price travels as text in both directions so that NUMERIC keeps its exact scale.
const productColumns = `id, name, description, price::text, stock_quantity, created_at, updated_at`

const findByID = `-- name: FindByID :one
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`

func (q *Queries) FindByID(ctx context.Context, id int64) (Product, error) {
	row := q.db.QueryRow(ctx, findByID, id)
	return scanProduct(row)
}

const findAll = `-- name: FindAll :many
SELECT ` + productColumns + `
FROM products
ORDER BY id
`

func (q *Queries) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, findAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const create = `-- name: Create :one
INSERT INTO products (name, description, price, stock_quantity)
VALUES ($1, $2, $3::text::numeric, $4)
RETURNING ` + productColumns

type CreateParams struct {
	Name          string
	Description   pgtype.Text
	Price         decimal.Decimal
	StockQuantity int64
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Product, error) {
	row := q.db.QueryRow(ctx, create,
		arg.Name,
		arg.Description,
		arg.Price.String(),
		arg.StockQuantity,
	)
	return scanProduct(row)
}

const update = `-- name: Update :one
UPDATE products
SET name           = $2,
    description    = $3,
    price          = $4::text::numeric,
    stock_quantity = $5,
    updated_at     = NOW()
WHERE id = $1
RETURNING ` + productColumns

type UpdateParams struct {
	ID            int64
	Name          string
	Description   pgtype.Text
	Price         decimal.Decimal
	StockQuantity int64
}

func (q *Queries) Update(ctx context.Context, arg UpdateParams) (Product, error) {
	row := q.db.QueryRow(ctx, update,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price.String(),
		arg.StockQuantity,
	)
	return scanProduct(row)
}

const deleteByID = `-- name: Delete :execrows
DELETE FROM products
WHERE id = $1
`

func (q *Queries) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteByID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var i Product
	var price string
	if err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&price,
		&i.StockQuantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	); err != nil {
		return i, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return i, fmt.Errorf("invalid price %q: %w", price, err)
	}
	i.Price = p
	return i, nil
}
