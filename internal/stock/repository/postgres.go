package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
)

// PGStore implements stock.Store on top of an open transaction, or any other
// sqlx query executor.
type PGStore struct {
	q sqlx.ExtContext
}

func NewPGStore(q sqlx.ExtContext) *PGStore {
	return &PGStore{q: q}
}

func (s *PGStore) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := sqlx.GetContext(ctx, s.q, &p, `SELECT * FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *PGStore) AdjustQuantity(ctx context.Context, id int64, delta int) (int, bool, error) {
	query := `
        UPDATE products
        SET quantity_in_stock = quantity_in_stock + $2
        WHERE id = $1 AND quantity_in_stock + $2 >= 0
        RETURNING quantity_in_stock
    `
	var qty int
	err := s.q.QueryRowxContext(ctx, query, id, delta).Scan(&qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return qty, true, nil
}

func (s *PGStore) UpsertOpenAlert(ctx context.Context, productID int64, stockLevel int) error {
	query := `
        INSERT INTO stock_alerts (product_id, stock_level, alert_date, resolved)
        VALUES ($1, $2, NOW(), FALSE)
        ON CONFLICT (product_id) WHERE NOT resolved
        DO UPDATE SET stock_level = EXCLUDED.stock_level
    `
	_, err := s.q.ExecContext(ctx, query, productID, stockLevel)
	return err
}

func (s *PGStore) ResolveOpenAlerts(ctx context.Context, productID int64) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE stock_alerts SET resolved = TRUE WHERE product_id = $1 AND NOT resolved`, productID)
	return err
}
