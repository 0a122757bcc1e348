package inventory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/stock"
)

type Repository interface {
	// FindByID returns nil, nil when the transaction does not exist.
	FindByID(ctx context.Context, id int64) (*model.InventoryTransaction, error)
	FindAll(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)

	WithinTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository writes a ledger row and moves stock in one transaction.
type TxRepository interface {
	stock.Store
	Create(ctx context.Context, t *model.InventoryTransaction) error
}
