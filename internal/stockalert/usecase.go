package stockalert

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/stockalert/dto"
)

type UseCase interface {
	ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.StockAlert, error)
	GetAlert(ctx context.Context, id int64) (*model.StockAlert, error)
	SetResolved(ctx context.Context, id int64, resolved bool) (*model.StockAlert, error)
	DeleteAlert(ctx context.Context, id int64) error
}
