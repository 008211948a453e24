package catalog

import (
	"context"
	"database/sql"
	"errors"

	"materiaux-bot/internal/logger"

	"go.uber.org/zap"
)

// Repository is the read-only catalog access used by the checkout flow.
// Products are administered outside this process.
type Repository interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAll(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, unit_price, unit, stock, description FROM products ORDER BY id",
	)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.Unit, &p.Stock, &p.Description); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, unit_price, unit, stock, description FROM products WHERE id = $1",
		id,
	).Scan(&p.ID, &p.Name, &p.UnitPrice, &p.Unit, &p.Stock, &p.Description)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to query product",
			zap.Int64("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	return &p, nil
}
