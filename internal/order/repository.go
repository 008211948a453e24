package order

import (
	"context"
	"database/sql"
	"errors"

	"materiaux-bot/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx writes the order header and all items as one
	// transaction and fills in o.ID and the item ids. A partially
	// persisted order must never be observable.
	CreateOrderTx(ctx context.Context, o *Order) error

	GetRecent(ctx context.Context, limit int) ([]Order, error)
	GetDetail(ctx context.Context, orderID int64) (*Order, error)
	GetByID(ctx context.Context, orderID int64) (*Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.Int64("user_id", o.UserID),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, status, total, delivery_type, address, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		o.UserID,
		o.Status,
		o.Total,
		o.DeliveryType,
		o.Address,
		o.Phone,
		o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	// Keep the customer's latest contact number on the user record.
	_, err = tx.ExecContext(ctx,
		`UPDATE users SET phone = $1 WHERE user_id = $2`,
		o.Phone, o.UserID,
	)
	if err != nil {
		log.Error("failed to update user phone", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order persisted", zap.Int64("order_id", o.ID))

	return nil
}

func (r *repository) GetRecent(ctx context.Context, limit int) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, status, total, delivery_type, address, phone, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to query recent orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Status, &o.Total,
			&o.DeliveryType, &o.Address, &o.Phone, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, total, delivery_type, address, phone, created_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.UserID, &o.Status, &o.Total,
		&o.DeliveryType, &o.Address, &o.Phone, &o.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) GetDetail(ctx context.Context, orderID int64) (*Order, error) {
	o, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.product_id, oi.quantity, oi.unit_price, p.name, p.unit
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to query order items",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.ProductName, &item.Unit,
		); err != nil {
			return nil, err
		}
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
	}

	return o, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, orderID int64, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`,
		status, orderID,
	)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
