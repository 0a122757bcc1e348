package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-inventory-service/internal/analytics"
	"github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// stubRepo returns canned aggregates.
type stubRepo struct {
	analytics.Repository
	mean     float64
	hasMean  bool
	since    time.Time
	sales    []dto.ProductSales
	summary  dto.SalesSummary
	levels   []dto.StockLevel
	monthly  map[int]float64
	below    []dto.StockedProduct
	belowArg int
}

func (s *stubRepo) MeanItemQuantity(ctx context.Context, since time.Time) (float64, bool, error) {
	s.since = since
	return s.mean, s.hasMean, nil
}

func (s *stubRepo) ProductSales(ctx context.Context, since time.Time) ([]dto.ProductSales, error) {
	s.since = since
	return s.sales, nil
}

func (s *stubRepo) SalesSummary(ctx context.Context, since time.Time) (*dto.SalesSummary, error) {
	sum := s.summary
	return &sum, nil
}

func (s *stubRepo) SalesByCategory(ctx context.Context, since time.Time) ([]dto.CategorySales, error) {
	return []dto.CategorySales{{Category: "Tools", TotalSold: 4}}, nil
}

func (s *stubRepo) StockLevels(ctx context.Context) ([]dto.StockLevel, error) {
	return s.levels, nil
}

func (s *stubRepo) MonthlySales(ctx context.Context, since time.Time) (map[int]float64, error) {
	return s.monthly, nil
}

func (s *stubRepo) ProductsBelow(ctx context.Context, stock int) ([]dto.StockedProduct, error) {
	s.belowArg = stock
	return s.below, nil
}

func (s *stubRepo) RecentOrders(ctx context.Context, limit int) ([]dto.RecentOrder, error) {
	return []dto.RecentOrder{}, nil
}

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T, repo analytics.Repository, gen *fakeLLM, rc *cache.RedisClient) *analyticsUseCase {
	t.Helper()
	uc := NewAnalyticsUseCase(repo, gen, rc, 10*time.Minute, logger.NewNop()).(*analyticsUseCase)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestForecast(t *testing.T) {
	repo := &stubRepo{mean: 3.5, hasMean: true}
	uc := newUseCase(t, repo, &fakeLLM{}, nil)

	res, err := uc.Forecast(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Forecast)
	assert.Equal(t, 3.5, *res.Forecast)
	assert.Equal(t, fixedNow.Add(-30*24*time.Hour), repo.since)
}

func TestForecastNoSales(t *testing.T) {
	uc := newUseCase(t, &stubRepo{}, &fakeLLM{}, nil)

	res, err := uc.Forecast(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Forecast)
	assert.Equal(t, "No sales data found.", res.Message)
}

func TestDemandInsightsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	repo := &stubRepo{sales: []dto.ProductSales{{ProductName: "Widget", Category: "Tools", TotalSales: 12, CurrentStock: 3}}}
	gen := &fakeLLM{reply: "```json\n[{\"product_name\":\"Widget\",\"predicted_sales\":20,\"confidence_score\":0.7}]\n```"}
	uc := newUseCase(t, repo, gen, rc)

	first, err := uc.DemandInsights(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Widget", first[0].ProductName)
	assert.Equal(t, 20.0, *first[0].PredictedSales)
	assert.Contains(t, gen.prompts[0], `"total_sales_last_60_days": 12`)
	assert.Equal(t, fixedNow.Add(-60*24*time.Hour), repo.since)

	second, err := uc.DemandInsights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.calls())

	mr.FastForward(11 * time.Minute)
	_, err = uc.DemandInsights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls())
}

func TestDemandInsightsParseError(t *testing.T) {
	gen := &fakeLLM{reply: "Sure! Here is your forecast."}
	uc := newUseCase(t, &stubRepo{}, gen, nil)

	_, err := uc.DemandInsights(context.Background())
	require.Error(t, err)
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindParse, ae.Kind)
	assert.Equal(t, "Sure! Here is your forecast.", ae.Fields["raw_response"])
}

func TestDemandInsightsRejectsSchemaMismatch(t *testing.T) {
	gen := &fakeLLM{reply: `[{"product_name":"Widget","predicted_sales":20,"confidence_score":7}]`}
	uc := newUseCase(t, &stubRepo{}, gen, nil)

	_, err := uc.DemandInsights(context.Background())
	assert.True(t, apperror.IsKind(err, apperror.KindParse))
}

func TestDemandInsightsProviderError(t *testing.T) {
	gen := &fakeLLM{err: errors.New("quota exceeded")}
	uc := newUseCase(t, &stubRepo{}, gen, nil)

	_, err := uc.DemandInsights(context.Background())
	require.Error(t, err)
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindUpstream, ae.Kind)
	assert.Equal(t, "AI provider request failed: quota exceeded", ae.Message)
}

const dashboardReply = `{
  "kpis": {"totalRevenue": 500, "averageOrderValue": 250, "totalOrders": 2, "totalProducts": 2, "totalInventory": 23,
           "topCategories": [{"category": "Tools", "sales": 4}]},
  "monthlySalesTrend": [{"month": "2025-03", "totalSales": 500}],
  "salesByCategory": [{"category": "Tools", "sales": 4}],
  "inventoryHealth": {"totalProductsInStock": 2, "lowStockItems": 1, "outOfStockItems": 0},
  "recentOrders": [{"orderNumber": "7", "customerName": "Ada", "totalAmount": 300, "date": "2025-03-14"}],
  "stockAlerts": [{"product": "Widget", "stockLevel": 3, "message": "Low stock (3)"}]
}`

func TestDashboard(t *testing.T) {
	repo := &stubRepo{
		summary: dto.SalesSummary{TotalSales: 4, TotalRevenue: 500, OrderCount: 2, AvgOrderValue: 250},
		levels:  []dto.StockLevel{{Name: "Widget", Stock: 3}, {Name: "Gadget", Stock: 20}},
		monthly: map[int]float64{3: 500},
		below:   []dto.StockedProduct{{Name: "Widget", QuantityInStock: 3}},
	}
	gen := &fakeLLM{reply: dashboardReply}
	uc := newUseCase(t, repo, gen, nil)

	d, err := uc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500.0, d.KPIs.TotalRevenue)
	assert.Equal(t, int64(1), d.InventoryHealth.LowStockItems)
	require.Len(t, d.RecentOrders, 1)
	assert.Equal(t, "Ada", d.RecentOrders[0].CustomerName)

	assert.Equal(t, 10, repo.belowArg)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, `"message": "Low stock (3)"`)
	assert.Contains(t, prompt, `"total_inventory": 23`)
	assert.Contains(t, prompt, `"month": "Mar"`)
}

func TestDashboardRejectsUnknownFields(t *testing.T) {
	gen := &fakeLLM{reply: `{"kpis": {}, "summary": "looks good"}`}
	uc := newUseCase(t, &stubRepo{summary: dto.SalesSummary{}}, gen, nil)

	_, err := uc.Dashboard(context.Background())
	assert.True(t, apperror.IsKind(err, apperror.KindParse))
}

func TestInventoryForecast(t *testing.T) {
	gen := &fakeLLM{reply: `[{"product_name":"A","predicted_sales":12,"confidence_score":0.9}]`}
	uc := newUseCase(t, &stubRepo{}, gen, nil)
	rows := []dto.ForecastRow{
		{ProductName: "A", Category: "Tools", Price: 2, Stock: 5, SalesLastMonth: 10},
		{ProductName: "B", Category: "Tools", Price: 1, Stock: 50, SalesLastMonth: 2},
	}

	res, err := uc.InventoryForecast(context.Background(), rows)
	require.NoError(t, err)
	assert.Len(t, res.Forecast, 1)
	assert.Equal(t, analytics.StatusCritical, res.InventoryAnalysis.Status)
	assert.Equal(t, []string{"A"}, res.FastMovingProducts)
	assert.Equal(t, []string{"B"}, res.SlowMovingProducts)
	assert.Contains(t, gen.prompts[0], `"sales_last_month": 10`)
}

func TestInventoryForecastNoData(t *testing.T) {
	gen := &fakeLLM{}
	uc := newUseCase(t, &stubRepo{}, gen, nil)

	_, err := uc.InventoryForecast(context.Background(), nil)
	assert.ErrorIs(t, err, analytics.ErrNoData)
	assert.Zero(t, gen.calls())
}

func TestMonthlyBuckets(t *testing.T) {
	buckets := MonthlyBuckets(map[int]float64{1: 10, 12: 5})
	require.Len(t, buckets, 12)
	assert.Equal(t, dto.MonthlySales{Month: "Jan", Sales: 10}, buckets[0])
	assert.Equal(t, dto.MonthlySales{Month: "Feb", Sales: 0}, buckets[1])
	assert.Equal(t, dto.MonthlySales{Month: "Dec", Sales: 5}, buckets[11])
}
