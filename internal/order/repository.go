package order

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/stock"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// FindByID loads the order row without items; nil, nil when missing.
	FindByID(ctx context.Context, id int64) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	// FindItems returns the items of every given order, oldest first.
	FindItems(ctx context.Context, orderIDs ...int64) ([]model.OrderItem, error)
	FindItemByID(ctx context.Context, id int64) (*model.OrderItem, error)
	Update(ctx context.Context, o *model.Order) error
	Delete(ctx context.Context, id int64) (bool, error)

	WithinTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository writes orders and items together with the stock they consume.
type TxRepository interface {
	stock.Store
	CreateOrder(ctx context.Context, o *model.Order) error
	OrderExists(ctx context.Context, id int64) (bool, error)
	CreateItem(ctx context.Context, item *model.OrderItem) error
	// DeleteItem removes the item and reports the order it belonged to.
	DeleteItem(ctx context.Context, id int64) (orderID int64, found bool, err error)
	// RecalculateTotal sets total_amount to the sum of the item prices.
	RecalculateTotal(ctx context.Context, orderID int64) (decimal.Decimal, error)
}
