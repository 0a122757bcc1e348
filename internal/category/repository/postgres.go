package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const summarySelect = `
        SELECT category,
               count(*) AS product_count,
               COALESCE(sum(quantity_in_stock), 0) AS units_in_stock,
               COALESCE(sum(price * quantity_in_stock), 0) AS stock_value
        FROM products`

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, error) {
	categories := []model.Category{}

	conditions := []string{"category <> ''"}
	args := map[string]interface{}{}
	if f.SearchQuery != "" {
		conditions = append(conditions, "category ILIKE :search")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	query := summarySelect + " WHERE " + strings.Join(conditions, " AND ") + " GROUP BY category"
	if f.LowStockOnly {
		query += " HAVING bool_or(quantity_in_stock < threshold_level)"
	}
	query += " ORDER BY category ASC"

	query, qargs, err := r.DB.BindNamed(query, args)
	if err != nil {
		return nil, err
	}
	if err := r.DB.SelectContext(ctx, &categories, query, qargs...); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PGRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	query := summarySelect + " WHERE lower(category) = lower($1) GROUP BY category LIMIT 1"
	err := r.DB.GetContext(ctx, &c, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
