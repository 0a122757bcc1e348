package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestFindItemsForSeveralOrders(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE i.order_id IN ($1, $2) ORDER BY i.id")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price", "price", "created_at", "product_name"}).
			AddRow(10, 1, 5, 2, "3.50", "7.00", now, "Bolt").
			AddRow(11, 2, 5, 1, "3.50", "3.50", now, "Bolt"))

	items, err := repo.FindItems(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[1].OrderID)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(7)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindItemsWithoutOrders(t *testing.T) {
	repo, mock := newMock(t)
	items, err := repo.FindItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderAndItemInOneTransaction(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs("Ada", "+12025550110", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_date", "total_amount"}).AddRow(1, now, "0"))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(int64(1), int64(5), 2, decimal.RequireFromString("3.50"), decimal.RequireFromString("7.00")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(10, now))
	mock.ExpectQuery(regexp.QuoteMeta("SET total_amount = (SELECT COALESCE(SUM(price), 0) FROM order_items WHERE order_id = $1)")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"total_amount"}).AddRow("7.00"))
	mock.ExpectCommit()

	o := &model.Order{CustomerName: "Ada", TelephoneNumber: "+12025550110", Status: model.OrderPending}
	err := repo.WithinTx(context.Background(), func(tx order.TxRepository) error {
		if err := tx.CreateOrder(context.Background(), o); err != nil {
			return err
		}
		item := &model.OrderItem{
			OrderID:   o.ID,
			ProductID: 5,
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("3.50"),
			Price:     decimal.RequireFromString("7.00"),
		}
		if err := tx.CreateItem(context.Background(), item); err != nil {
			return err
		}
		total, err := tx.RecalculateTotal(context.Background(), o.ID)
		o.TotalAmount = total
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "7.00", o.TotalAmount.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteItemMissing(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM order_items WHERE id = $1 RETURNING order_id")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))
	mock.ExpectRollback()

	err := repo.WithinTx(context.Background(), func(tx order.TxRepository) error {
		_, found, err := tx.DeleteItem(context.Background(), 9)
		require.NoError(t, err)
		assert.False(t, found)
		return order.ErrItemNotFound(9)
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
