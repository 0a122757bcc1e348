package analytics

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
)

type UseCase interface {
	Forecast(ctx context.Context) (*dto.ForecastResult, error)
	// DemandInsights asks the model for a 30 day demand forecast. Replies are
	// cached for a short while.
	DemandInsights(ctx context.Context) ([]dto.DemandPrediction, error)
	Dashboard(ctx context.Context) (*dto.Dashboard, error)
	InventoryForecast(ctx context.Context, rows []dto.ForecastRow) (*dto.InventoryForecast, error)
}
