package usecase

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/stockalert"
	"github.com/fekuna/omnipos-inventory-service/internal/stockalert/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type stockAlertUseCase struct {
	repo   stockalert.Repository
	logger logger.ZapLogger
}

func NewStockAlertUseCase(repo stockalert.Repository, log logger.ZapLogger) stockalert.UseCase {
	return &stockAlertUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *stockAlertUseCase) ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.StockAlert, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *stockAlertUseCase) GetAlert(ctx context.Context, id int64) (*model.StockAlert, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, stockalert.ErrNotFound(id)
	}
	return a, nil
}

// SetResolved marks an alert handled. Alerts are raised and resolved
// automatically by stock changes too; this is the manual override.
func (uc *stockAlertUseCase) SetResolved(ctx context.Context, id int64, resolved bool) (*model.StockAlert, error) {
	a, err := uc.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Resolved == resolved {
		return a, nil
	}
	if err := uc.repo.SetResolved(ctx, id, resolved); err != nil {
		return nil, err
	}
	a.Resolved = resolved

	uc.logger.Info("stock alert updated",
		zap.Int64("alert_id", id),
		zap.Int64("product_id", a.ProductID),
		zap.Bool("resolved", resolved),
	)
	return a, nil
}

func (uc *stockAlertUseCase) DeleteAlert(ctx context.Context, id int64) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return stockalert.ErrNotFound(id)
	}
	return nil
}
