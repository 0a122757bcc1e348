package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
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

var rowColumns = []string{
	"id", "product_id", "quantity", "transaction_type", "transaction_cost", "transaction_date",
	"product_name", "product_price", "product_quantity",
}

func TestFindByIDJoinsProduct(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("JOIN products p ON p.id = t.product_id WHERE t.id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow(5, 1, 20, "sale", "210.00", now, "Widget", "10.00", 80))

	row, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Widget", row.ProductName)
	assert.Equal(t, model.TransactionSale, row.TransactionType)
	assert.True(t, row.TransactionCost.Equal(decimal.NewFromInt(210)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllFilters(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM inventory_transactions t WHERE t.product_id = $1 AND t.transaction_type = $2")).
		WithArgs(int64(1), "restock").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)ORDER BY t.transaction_date DESC, t.id DESC LIMIT 10 OFFSET 10`).
		WithArgs(int64(1), "restock").
		WillReturnRows(sqlmock.NewRows(rowColumns))

	rows, count, err := repo.FindAll(context.Background(), &dto.TransactionFilters{
		ProductID: 1, TransactionType: model.TransactionRestock, Page: 2, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRunsInsideTransaction(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO inventory_transactions")).
		WithArgs(int64(1), 3, "restock", decimal.RequireFromString("31.50")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "transaction_date"}).AddRow(9, now))
	mock.ExpectCommit()

	row := &model.InventoryTransaction{
		ProductID:       1,
		Quantity:        3,
		TransactionType: model.TransactionRestock,
		TransactionCost: decimal.RequireFromString("31.50"),
	}
	err := repo.WithinTx(context.Background(), func(tx inventory.TxRepository) error {
		return tx.Create(context.Background(), row)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), row.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
