package inventory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	CreateTransaction(ctx context.Context, input *dto.CreateTransactionInput) (*model.InventoryTransaction, error)
	GetTransaction(ctx context.Context, id int64) (*model.InventoryTransaction, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)
}
