package product

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/stock"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	IsNameUnique(ctx context.Context, name string, excludeID int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// WithinTx runs fn in one database transaction.
	WithinTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository is the write side, bound to an open transaction so that the
// product row and its stock alert commit together.
type TxRepository interface {
	stock.Store
	Create(ctx context.Context, p *model.Product) error
	// Update keeps the stored quantity unless setStock is true, and reads
	// the committed quantity back into p.
	Update(ctx context.Context, p *model.Product, setStock bool) error
}
