package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics"
	"github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
	"github.com/jmoiron/sqlx"
)

const topCategoryLimit = 3

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) MeanItemQuantity(ctx context.Context, since time.Time) (float64, bool, error) {
	var mean sql.NullFloat64
	err := r.DB.GetContext(ctx, &mean, `
		SELECT AVG(oi.quantity)::float8
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_date >= $1
	`, since)
	if err != nil {
		return 0, false, err
	}
	return mean.Float64, mean.Valid, nil
}

func (r *PGRepository) ProductSales(ctx context.Context, since time.Time) ([]dto.ProductSales, error) {
	rows := []dto.ProductSales{}
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT p.name AS product_name,
		       COALESCE(NULLIF(p.category, ''), 'N/A') AS category,
		       COALESCE(SUM(oi.quantity) FILTER (WHERE o.order_date >= $1), 0) AS total_sales,
		       p.quantity_in_stock AS current_stock
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.id
		LEFT JOIN orders o ON o.id = oi.order_id
		GROUP BY p.id
		ORDER BY p.name
	`, since)
	return rows, err
}

func (r *PGRepository) SalesSummary(ctx context.Context, since time.Time) (*dto.SalesSummary, error) {
	var s dto.SalesSummary
	err := r.DB.GetContext(ctx, &s, `
		SELECT
			COALESCE((SELECT SUM(oi.quantity) FROM order_items oi
			          JOIN orders o ON o.id = oi.order_id
			          WHERE o.order_date >= $1), 0)::float8 AS total_sales,
			COALESCE(SUM(total_amount), 0)::float8 AS total_revenue,
			COUNT(*) AS order_count
		FROM orders
		WHERE order_date >= $1
	`, since)
	if err != nil {
		return nil, err
	}
	if s.OrderCount > 0 {
		s.AvgOrderValue = s.TotalRevenue / float64(s.OrderCount)
	}
	return &s, nil
}

func (r *PGRepository) SalesByCategory(ctx context.Context, since time.Time) ([]dto.CategorySales, error) {
	rows := []dto.CategorySales{}
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT p.category, COALESCE(SUM(oi.quantity), 0)::float8 AS total_sold
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.order_date >= $1
		GROUP BY p.category
		ORDER BY total_sold DESC
	`, since)
	return rows, err
}

func (r *PGRepository) StockLevels(ctx context.Context) ([]dto.StockLevel, error) {
	rows := []dto.StockLevel{}
	err := r.DB.SelectContext(ctx, &rows,
		`SELECT name, quantity_in_stock::float8 AS stock FROM products ORDER BY name`)
	return rows, err
}

func (r *PGRepository) MonthlySales(ctx context.Context, since time.Time) (map[int]float64, error) {
	var rows []struct {
		Month int     `db:"month"`
		Sales float64 `db:"sales"`
	}
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT EXTRACT(MONTH FROM order_date)::int AS month,
		       COALESCE(SUM(total_amount), 0)::float8 AS sales
		FROM orders
		WHERE order_date >= $1
		GROUP BY 1
	`, since)
	if err != nil {
		return nil, err
	}
	out := make(map[int]float64, len(rows))
	for _, row := range rows {
		out[row.Month] = row.Sales
	}
	return out, nil
}

func (r *PGRepository) ProductsBelow(ctx context.Context, stock int) ([]dto.StockedProduct, error) {
	return r.stocked(ctx, `WHERE quantity_in_stock < $1 ORDER BY quantity_in_stock, name`, stock)
}

func (r *PGRepository) CriticalStock(ctx context.Context) ([]dto.StockedProduct, error) {
	return r.stocked(ctx, `WHERE quantity_in_stock <= threshold_level ORDER BY quantity_in_stock, name`)
}

func (r *PGRepository) OutOfStock(ctx context.Context) ([]dto.StockedProduct, error) {
	return r.stocked(ctx, `WHERE quantity_in_stock = 0 ORDER BY name`)
}

func (r *PGRepository) stocked(ctx context.Context, where string, args ...interface{}) ([]dto.StockedProduct, error) {
	rows := []dto.StockedProduct{}
	err := r.DB.SelectContext(ctx, &rows,
		`SELECT name, category, quantity_in_stock, threshold_level FROM products `+where, args...)
	return rows, err
}

func (r *PGRepository) RecentOrders(ctx context.Context, limit int) ([]dto.RecentOrder, error) {
	rows := []dto.RecentOrder{}
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT id::text AS order_number, customer_name, total_amount::float8 AS total_amount,
		       to_char(order_date, 'YYYY-MM-DD') AS order_date
		FROM orders
		ORDER BY order_date DESC, id DESC
		LIMIT $1
	`, limit)
	return rows, err
}

func (r *PGRepository) InventoryStats(ctx context.Context) (*dto.InventoryStats, error) {
	var s dto.InventoryStats
	err := r.DB.GetContext(ctx, &s, `
		SELECT COUNT(*) AS total_products,
		       COUNT(*) FILTER (WHERE quantity_in_stock <= threshold_level) AS low_stock,
		       COUNT(*) FILTER (WHERE quantity_in_stock = 0) AS out_of_stock,
		       COUNT(DISTINCT category) AS categories,
		       COALESCE(SUM(price * quantity_in_stock), 0)::float8 AS total_value,
		       COALESCE(AVG(price), 0)::float8 AS avg_price
		FROM products
	`)
	if err != nil {
		return nil, err
	}

	s.TopCategories = []dto.CategoryValue{}
	err = r.DB.SelectContext(ctx, &s.TopCategories, `
		SELECT category, COALESCE(SUM(price * quantity_in_stock), 0)::float8 AS value
		FROM products
		GROUP BY category
		ORDER BY value DESC
		LIMIT $1
	`, topCategoryLimit)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) RecentActivity(ctx context.Context, since time.Time) (*dto.Activity, error) {
	var a dto.Activity
	err := r.DB.GetContext(ctx, &a, `
		SELECT
			(SELECT COUNT(*) FROM orders WHERE order_date >= $1) AS orders,
			(SELECT COUNT(*) FROM products WHERE date_added >= $1) AS new_products,
			(SELECT COUNT(*) FROM inventory_transactions WHERE transaction_date >= $1) AS updated_products
	`, since)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) OrderCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM orders`)
	return n, err
}

var _ analytics.Repository = (*PGRepository)(nil)
