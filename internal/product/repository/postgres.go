package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
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

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var products []model.Product
	err = r.DB.SelectContext(ctx, &products, query, args...)
	return products, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	products := []model.Product{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.LowStock {
		conditions = append(conditions, "quantity_in_stock < threshold_level")
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR category ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := r.DB.BindNamed("SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	// Whitelisted to keep ORDER BY out of reach of user input.
	orderBy := "id"
	switch f.SortBy {
	case "name":
		orderBy = "name"
	case "price":
		orderBy = "price"
	case "quantity":
		orderBy = "quantity_in_stock"
	case "date_added":
		orderBy = "date_added"
	}
	if strings.ToLower(f.SortOrder) == "desc" {
		orderBy += " DESC"
	} else {
		orderBy += " ASC"
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := r.DB.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.SelectContext(ctx, &products, listQuery, listArgs...); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *PGRepository) IsNameUnique(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM products WHERE lower(name) = lower($1) AND id <> $2)`, name, excludeID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// Delete removes the product. Its order lines go with it through the foreign
// key cascade, so the totals of the orders that held them are recomputed in
// the same transaction.
func (r *PGRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var orderIDs []int64
		err := tx.SelectContext(ctx, &orderIDs,
			`SELECT DISTINCT order_id FROM order_items WHERE product_id = $1 ORDER BY order_id`, id)
		if err != nil {
			return fmt.Errorf("find affected orders: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0

		for _, orderID := range orderIDs {
			_, err := tx.ExecContext(ctx, `
				UPDATE orders
				SET total_amount = (SELECT COALESCE(SUM(price), 0) FROM order_items WHERE order_id = $1)
				WHERE id = $1
			`, orderID)
			if err != nil {
				return fmt.Errorf("recalculate order %d total: %w", orderID, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *PGRepository) WithinTx(ctx context.Context, fn func(tx product.TxRepository) error) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return fn(&txRepository{PGStore: stockrepo.NewPGStore(tx), tx: tx})
	})
}

type txRepository struct {
	*stockrepo.PGStore
	tx *sqlx.Tx
}

func (r *txRepository) Create(ctx context.Context, p *model.Product) error {
	query, args, err := r.tx.BindNamed(`
        INSERT INTO products (
            name, category, description, quantity_in_stock,
            price, threshold_level, extra_charge_percent
        )
        VALUES (
            :name, :category, :description, :quantity_in_stock,
            :price, :threshold_level, :extra_charge_percent
        )
        RETURNING id, date_added
    `, p)
	if err != nil {
		return err
	}
	err = r.tx.QueryRowxContext(ctx, query, args...).Scan(&p.ID, &p.DateAdded)
	return mapWriteError(err)
}

// Update writes the product's fields. The stored quantity is only overwritten
// when setStock is true; either way p ends up holding the committed quantity.
func (r *txRepository) Update(ctx context.Context, p *model.Product, setStock bool) error {
	stockExpr := "quantity_in_stock"
	if setStock {
		stockExpr = ":quantity_in_stock"
	}
	query, args, err := r.tx.BindNamed(`
        UPDATE products
        SET name = :name,
            category = :category,
            description = :description,
            quantity_in_stock = `+stockExpr+`,
            price = :price,
            threshold_level = :threshold_level,
            extra_charge_percent = :extra_charge_percent
        WHERE id = :id
        RETURNING quantity_in_stock
    `, p)
	if err != nil {
		return err
	}
	err = r.tx.QueryRowxContext(ctx, query, args...).Scan(&p.QuantityInStock)
	if errors.Is(err, sql.ErrNoRows) {
		return product.ErrNotFound(p.ID)
	}
	return mapWriteError(err)
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if postgres.IsUniqueViolation(err) {
		return product.ErrDuplicateName
	}
	if postgres.IsCheckViolation(err) {
		return product.ErrInvalidValues
	}
	return err
}
