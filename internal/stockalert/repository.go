package stockalert

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/stockalert/dto"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*model.StockAlert, error)
	FindAll(ctx context.Context, filters *dto.AlertFilters) ([]model.StockAlert, error)
	SetResolved(ctx context.Context, id int64, resolved bool) error
	Delete(ctx context.Context, id int64) (bool, error)
}
