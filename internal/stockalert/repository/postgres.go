package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/stockalert"
	"github.com/fekuna/omnipos-inventory-service/internal/stockalert/dto"
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
        SELECT a.*, p.name AS product_name
        FROM stock_alerts a
        JOIN products p ON p.id = a.product_id`

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.StockAlert, error) {
	var a model.StockAlert
	err := r.DB.GetContext(ctx, &a, selectWithProduct+` WHERE a.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.AlertFilters) ([]model.StockAlert, error) {
	alerts := []model.StockAlert{}

	conditions := []string{}
	args := map[string]interface{}{}
	if !f.IncludeResolved {
		conditions = append(conditions, "NOT a.resolved")
	}
	if f.ProductID > 0 {
		conditions = append(conditions, "a.product_id = :product_id")
		args["product_id"] = f.ProductID
	}

	query := selectWithProduct
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.alert_date DESC, a.id DESC"

	query, qargs, err := r.DB.BindNamed(query, args)
	if err != nil {
		return nil, err
	}
	if err := r.DB.SelectContext(ctx, &alerts, query, qargs...); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *PGRepository) SetResolved(ctx context.Context, id int64, resolved bool) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE stock_alerts SET resolved = $2 WHERE id = $1`, id, resolved)
	if postgres.IsUniqueViolation(err) {
		return stockalert.ErrAlreadyOpen
	}
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM stock_alerts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
