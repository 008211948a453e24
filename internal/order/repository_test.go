package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"materiaux-bot/internal/session"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder() *Order {
	return &Order{
		UserID:       42,
		Status:       StatusNew,
		Total:        50000,
		DeliveryType: session.DeliveryStandard,
		Address:      "Lot 12 Analakely",
		Phone:        "0341234567",
		CreatedAt:    time.Now(),
		Items: []Item{
			{ProductID: 5, ProductName: "Ciment (sac 50kg)", Unit: "sac", Quantity: 2, UnitPrice: 25000},
		},
	}
}

func TestRepository_CreateOrderTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		o := newTestOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders \(user_id, status, total, delivery_type, address, phone, created_at\)`).
			WithArgs(o.UserID, o.Status, o.Total, o.DeliveryType, o.Address, o.Phone, o.CreatedAt).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(`INSERT INTO order_items \(order_id, product_id, quantity, unit_price\)`).
			WithArgs(int64(7), int64(5), 2.0, 25000.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectExec(`UPDATE users SET phone = \$1 WHERE user_id = \$2`).
			WithArgs(o.Phone, o.UserID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateOrderTx(ctx, o)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), o.ID)
		assert.Equal(t, int64(7), o.Items[0].OrderID)
		assert.Equal(t, int64(1), o.Items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnItemFailure", func(t *testing.T) {
		o := newTestOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		err := repo.CreateOrderTx(ctx, o)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnHeaderFailure", func(t *testing.T) {
		o := newTestOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		err := repo.CreateOrderTx(ctx, o)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "status", "total", "delivery_type", "address", "phone", "created_at"}).
			AddRow(9, 42, "NEW", 70000.0, "EXPRESS", "Lot 12", "034", time.Now()).
			AddRow(8, 43, "LIVRÉ", 50000.0, "STANDARD", "Lot 13", "033", time.Now().Add(-time.Hour))

		mock.ExpectQuery(`SELECT id, user_id, status, total, delivery_type, address, phone, created_at FROM orders ORDER BY created_at DESC LIMIT \$1`).
			WithArgs(50).
			WillReturnRows(rows)

		orders, err := repo.GetRecent(ctx, 50)
		assert.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, int64(9), orders[0].ID)
		assert.Equal(t, Status("LIVRÉ"), orders[1].Status)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders`).
			WillReturnError(errors.New("db error"))

		_, err := repo.GetRecent(ctx, 50)
		assert.Error(t, err)
	})
}

func TestRepository_GetDetail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		header := sqlmock.NewRows([]string{"id", "user_id", "status", "total", "delivery_type", "address", "phone", "created_at"}).
			AddRow(7, 42, "NEW", 50000.0, "STANDARD", "Lot 12", "034", time.Now())
		items := sqlmock.NewRows([]string{"id", "product_id", "quantity", "unit_price", "name", "unit"}).
			AddRow(1, 5, 2.0, 25000.0, "Ciment (sac 50kg)", "sac")

		mock.ExpectQuery(`SELECT id, user_id, status, total, delivery_type, address, phone, created_at FROM orders WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(header)
		mock.ExpectQuery(`SELECT oi.id, oi.product_id, oi.quantity, oi.unit_price, p.name, p.unit FROM order_items oi JOIN products p`).
			WithArgs(int64(7)).
			WillReturnRows(items)

		o, err := repo.GetDetail(ctx, 7)
		assert.NoError(t, err)
		require.NotNil(t, o)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "Ciment (sac 50kg)", o.Items[0].ProductName)
		assert.Equal(t, int64(7), o.Items[0].OrderID)
		assert.Equal(t, 50000.0, o.Items[0].Subtotal())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status", "total", "delivery_type", "address", "phone", "created_at"}))

		o, err := repo.GetDetail(ctx, 99)
		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.Nil(t, o)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status = \$1 WHERE id = \$2`).
			WithArgs(Status("LIVRÉ"), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, 7, "LIVRÉ")
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status = \$1 WHERE id = \$2`).
			WithArgs(Status("LIVRÉ"), int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, 99, "LIVRÉ")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
