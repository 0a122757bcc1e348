package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
	stockrepo "github.com/fekuna/omnipos-inventory-service/internal/stock/repository"
	"github.com/fekuna/omnipos-inventory-service/pkg/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const selectItems = `
        SELECT i.*, p.name AS product_name
        FROM order_items i
        JOIN products p ON p.id = i.product_id`

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	orders := []model.Order{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = string(f.Status)
	}
	if f.Search != "" {
		conditions = append(conditions, "customer_name ILIKE :search")
		args["search"] = "%" + f.Search + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := r.DB.BindNamed("SELECT count(*) FROM orders"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM orders" + whereClause + " ORDER BY order_date DESC, id DESC"
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
	if err := r.DB.SelectContext(ctx, &orders, query, qargs...); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *PGRepository) FindItems(ctx context.Context, orderIDs ...int64) ([]model.OrderItem, error) {
	items := []model.OrderItem{}
	if len(orderIDs) == 0 {
		return items, nil
	}
	query, args, err := sqlx.In(selectItems+` WHERE i.order_id IN (?) ORDER BY i.id`, orderIDs)
	if err != nil {
		return nil, err
	}
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) FindItemByID(ctx context.Context, id int64) (*model.OrderItem, error) {
	var item model.OrderItem
	err := r.DB.GetContext(ctx, &item, selectItems+` WHERE i.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET customer_name = :customer_name,
            telephone_number = :telephone_number,
            status = :status
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PGRepository) WithinTx(ctx context.Context, fn func(tx order.TxRepository) error) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return fn(&txRepository{PGStore: stockrepo.NewPGStore(tx), tx: tx})
	})
}

type txRepository struct {
	*stockrepo.PGStore
	tx *sqlx.Tx
}

func (r *txRepository) CreateOrder(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO orders (customer_name, telephone_number, status, total_amount)
        VALUES ($1, $2, $3, 0)
        RETURNING id, order_date, total_amount
    `
	return r.tx.QueryRowxContext(ctx, query, o.CustomerName, o.TelephoneNumber, string(o.Status)).
		Scan(&o.ID, &o.OrderDate, &o.TotalAmount)
}

func (r *txRepository) OrderExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id)
	return exists, err
}

func (r *txRepository) CreateItem(ctx context.Context, item *model.OrderItem) error {
	query := `
        INSERT INTO order_items (order_id, product_id, quantity, unit_price, price)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	return r.tx.QueryRowxContext(ctx, query, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Price).
		Scan(&item.ID, &item.CreatedAt)
}

func (r *txRepository) DeleteItem(ctx context.Context, id int64) (int64, bool, error) {
	var orderID int64
	err := r.tx.QueryRowxContext(ctx, `DELETE FROM order_items WHERE id = $1 RETURNING order_id`, id).Scan(&orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return orderID, true, nil
}

func (r *txRepository) RecalculateTotal(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	query := `
        UPDATE orders
        SET total_amount = (SELECT COALESCE(SUM(price), 0) FROM order_items WHERE order_id = $1)
        WHERE id = $1
        RETURNING total_amount
    `
	var total decimal.Decimal
	err := r.tx.QueryRowxContext(ctx, query, orderID).Scan(&total)
	return total, err
}
