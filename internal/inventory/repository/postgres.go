package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	stockrepo "github.com/fekuna/omnipos-inventory-service/internal/stock/repository"
	"github.com/fekuna/omnipos-inventory-service/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const selectWithProduct = `
        SELECT t.*,
               p.name AS product_name,
               p.price AS product_price,
               p.quantity_in_stock AS product_quantity
        FROM inventory_transactions t
        JOIN products p ON p.id = t.product_id`

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.InventoryTransaction, error) {
	var t model.InventoryTransaction
	err := r.DB.GetContext(ctx, &t, selectWithProduct+` WHERE t.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	items := []model.InventoryTransaction{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID > 0 {
		conditions = append(conditions, "t.product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.TransactionType != "" {
		conditions = append(conditions, "t.transaction_type = :transaction_type")
		args["transaction_type"] = string(f.TransactionType)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := r.DB.BindNamed("SELECT count(*) FROM inventory_transactions t"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := selectWithProduct + whereClause + " ORDER BY t.transaction_date DESC, t.id DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	query, qargs, err := r.DB.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.SelectContext(ctx, &items, query, qargs...); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) WithinTx(ctx context.Context, fn func(tx inventory.TxRepository) error) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return fn(&txRepository{PGStore: stockrepo.NewPGStore(tx), tx: tx})
	})
}

type txRepository struct {
	*stockrepo.PGStore
	tx *sqlx.Tx
}

func (r *txRepository) Create(ctx context.Context, t *model.InventoryTransaction) error {
	query := `
        INSERT INTO inventory_transactions (product_id, quantity, transaction_type, transaction_cost)
        VALUES ($1, $2, $3, $4)
        RETURNING id, transaction_date
    `
	return r.tx.QueryRowxContext(ctx, query, t.ProductID, t.Quantity, string(t.TransactionType), t.TransactionCost).
		Scan(&t.ID, &t.TransactionDate)
}
