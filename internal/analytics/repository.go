package analytics

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
)

// Repository runs the read-only aggregate queries behind the analytics and
// assistant endpoints.
type Repository interface {
	// MeanItemQuantity reports false when no items were ordered since.
	MeanItemQuantity(ctx context.Context, since time.Time) (float64, bool, error)
	ProductSales(ctx context.Context, since time.Time) ([]dto.ProductSales, error)
	SalesSummary(ctx context.Context, since time.Time) (*dto.SalesSummary, error)
	SalesByCategory(ctx context.Context, since time.Time) ([]dto.CategorySales, error)
	StockLevels(ctx context.Context) ([]dto.StockLevel, error)
	// MonthlySales sums order totals per calendar month (1-12).
	MonthlySales(ctx context.Context, since time.Time) (map[int]float64, error)
	ProductsBelow(ctx context.Context, stock int) ([]dto.StockedProduct, error)
	RecentOrders(ctx context.Context, limit int) ([]dto.RecentOrder, error)
	InventoryStats(ctx context.Context) (*dto.InventoryStats, error)
	RecentActivity(ctx context.Context, since time.Time) (*dto.Activity, error)
	CriticalStock(ctx context.Context) ([]dto.StockedProduct, error)
	OutOfStock(ctx context.Context) ([]dto.StockedProduct, error)
	OrderCount(ctx context.Context) (int64, error)
}
