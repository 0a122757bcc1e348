package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics"
	"github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/llm"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	forecastWindow  = 30 * 24 * time.Hour
	demandWindow    = 60 * 24 * time.Hour
	analyticsWindow = 30 * 24 * time.Hour
	monthlyWindow   = 365 * 24 * time.Hour

	// lowStockLevel is the absolute stock level the dashboard flags.
	lowStockLevel     = 10
	recentOrdersLimit = 5

	demandCacheKey = "analytics:demand-insights"
)

type analyticsUseCase struct {
	repo     analytics.Repository
	llm      llm.Generator
	cache    *cache.RedisClient
	cacheTTL time.Duration
	logger   logger.ZapLogger
	now      func() time.Time
}

// NewAnalyticsUseCase wires the analytics use case. cache may be nil, in which
// case demand insights are never reused.
func NewAnalyticsUseCase(repo analytics.Repository, gen llm.Generator, cache *cache.RedisClient, cacheTTL time.Duration, log logger.ZapLogger) analytics.UseCase {
	return &analyticsUseCase{
		repo:     repo,
		llm:      gen,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
		now:      time.Now,
	}
}

func (uc *analyticsUseCase) Forecast(ctx context.Context) (*dto.ForecastResult, error) {
	mean, ok, err := uc.repo.MeanItemQuantity(ctx, uc.now().Add(-forecastWindow))
	if err != nil {
		return nil, fmt.Errorf("mean item quantity: %w", err)
	}
	if !ok {
		return &dto.ForecastResult{Message: "No sales data found."}, nil
	}
	return &dto.ForecastResult{Forecast: &mean}, nil
}

func (uc *analyticsUseCase) DemandInsights(ctx context.Context) ([]dto.DemandPrediction, error) {
	var cached []dto.DemandPrediction
	if uc.cache != nil && uc.cacheTTL > 0 {
		hit, err := uc.cache.GetJSON(ctx, demandCacheKey, &cached)
		if err != nil {
			uc.logger.Warn("Failed to read demand insights cache", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	sales, err := uc.repo.ProductSales(ctx, uc.now().Add(-demandWindow))
	if err != nil {
		return nil, fmt.Errorf("product sales: %w", err)
	}
	prompt, err := analytics.DemandPrompt(sales)
	if err != nil {
		return nil, err
	}

	var predictions []dto.DemandPrediction
	if err := uc.ask(ctx, prompt, &predictions); err != nil {
		return nil, err
	}
	if predictions == nil {
		predictions = []dto.DemandPrediction{}
	}

	if uc.cache != nil && uc.cacheTTL > 0 {
		if err := uc.cache.SetJSON(ctx, demandCacheKey, predictions, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache demand insights", zap.Error(err))
		}
	}
	return predictions, nil
}

func (uc *analyticsUseCase) Dashboard(ctx context.Context) (*dto.Dashboard, error) {
	input, err := uc.dashboardInput(ctx)
	if err != nil {
		return nil, err
	}
	prompt, err := analytics.DashboardPrompt(input)
	if err != nil {
		return nil, err
	}

	var dashboard dto.Dashboard
	if err := uc.ask(ctx, prompt, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (uc *analyticsUseCase) dashboardInput(ctx context.Context) (*dto.AnalyticsInput, error) {
	now := uc.now()
	since := now.Add(-analyticsWindow)

	summary, err := uc.repo.SalesSummary(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	byCategory, err := uc.repo.SalesByCategory(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}
	levels, err := uc.repo.StockLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock levels: %w", err)
	}
	monthly, err := uc.repo.MonthlySales(ctx, now.Add(-monthlyWindow))
	if err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}
	low, err := uc.repo.ProductsBelow(ctx, lowStockLevel)
	if err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}
	recent, err := uc.repo.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}

	input := &dto.AnalyticsInput{
		SalesSummary:    *summary,
		SalesByCategory: byCategory,
		InventoryHealth: levels,
		MonthlySales:    MonthlyBuckets(monthly),
		StockAlerts:     make([]dto.StockAlertEntry, 0, len(low)),
		TotalProducts:   int64(len(levels)),
		RecentOrders:    recent,
	}
	for _, l := range levels {
		input.TotalInventory += int64(l.Stock)
	}
	for _, p := range low {
		input.StockAlerts = append(input.StockAlerts, dto.StockAlertEntry{
			Product:    p.Name,
			StockLevel: p.QuantityInStock,
			Message:    fmt.Sprintf("Low stock (%d)", p.QuantityInStock),
		})
	}
	return input, nil
}

func (uc *analyticsUseCase) InventoryForecast(ctx context.Context, rows []dto.ForecastRow) (*dto.InventoryForecast, error) {
	if len(rows) == 0 {
		return nil, analytics.ErrNoData
	}

	fast, slow := analytics.Movement(rows)
	result := &dto.InventoryForecast{
		InventoryAnalysis:  analytics.AnalyzeForecastRows(rows),
		FastMovingProducts: fast,
		SlowMovingProducts: slow,
	}

	prompt, err := analytics.DemandPrompt(rows)
	if err != nil {
		return nil, err
	}
	if err := uc.ask(ctx, prompt, &result.Forecast); err != nil {
		return nil, err
	}
	if result.Forecast == nil {
		result.Forecast = []dto.DemandPrediction{}
	}
	return result, nil
}

// ask sends prompt to the model and strictly decodes the reply into dest.
func (uc *analyticsUseCase) ask(ctx context.Context, prompt string, dest interface{}) error {
	raw, err := uc.llm.Generate(ctx, prompt)
	if err != nil {
		return apperror.Upstream(fmt.Sprintf("AI provider request failed: %v", err), err)
	}
	if err := llm.DecodeStrict(raw, dest); err != nil {
		uc.logger.Warn("Rejected AI response", zap.Error(err), zap.Int("raw_length", len(raw)))
		return apperror.Parse(raw, err)
	}
	return nil
}

// MonthlyBuckets lays out twelve Jan..Dec buckets, treating missing months
// as zero.
func MonthlyBuckets(sales map[int]float64) []dto.MonthlySales {
	out := make([]dto.MonthlySales, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, dto.MonthlySales{Month: m.String()[:3], Sales: sales[int(m)]})
	}
	return out
}
