package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
	tx *mockTx
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Product)
	return p, args.Error(1)
}

func (m *mockRepo) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockRepo) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *mockRepo) IsNameUnique(ctx context.Context, name string, excludeID int64) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) WithinTx(ctx context.Context, fn func(tx product.TxRepository) error) error {
	return fn(m.tx)
}

type mockTx struct {
	mock.Mock
}

func (m *mockTx) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Product)
	return p, args.Error(1)
}

func (m *mockTx) AdjustQuantity(ctx context.Context, id int64, delta int) (int, bool, error) {
	args := m.Called(ctx, id, delta)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *mockTx) UpsertOpenAlert(ctx context.Context, productID int64, level int) error {
	return m.Called(ctx, productID, level).Error(0)
}

func (m *mockTx) ResolveOpenAlerts(ctx context.Context, productID int64) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *mockTx) Create(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	p.ID = 11
	return args.Error(0)
}

func (m *mockTx) Update(ctx context.Context, p *model.Product, setStock bool) error {
	return m.Called(ctx, p, setStock).Error(0)
}

func setup(t *testing.T) (product.UseCase, *mockRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { rc.Close() })

	repo := &mockRepo{tx: &mockTx{}}
	return NewProductUseCase(repo, rc, nil, logger.NewNop()), repo, mr
}

func TestCreateProductAppliesDefaultsAndRaisesAlert(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()

	repo.On("IsNameUnique", ctx, "Widget", int64(0)).Return(true, nil)
	repo.tx.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(nil)
	repo.tx.On("UpsertOpenAlert", ctx, int64(11), 3).Return(nil)

	p, err := uc.CreateProduct(ctx, &dto.CreateProductInput{
		Name:            " Widget ",
		Category:        "Tools",
		QuantityInStock: 3,
		Price:           decimal.RequireFromString("9.99"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.ID)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 5, p.ThresholdLevel)
	assert.Equal(t, "5.00", p.ExtraChargePercent.StringFixed(2))
	repo.AssertExpectations(t)
	repo.tx.AssertExpectations(t)
}

func TestCreateProductRejectsDuplicateName(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()
	repo.On("IsNameUnique", ctx, "Widget", int64(0)).Return(false, nil)

	_, err := uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Widget", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, product.ErrDuplicateName)
	repo.tx.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{Name: "Widget", Price: decimal.NewFromInt(-1)})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestUpdateProductResolvesAlertWhenRestocked(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()

	existing := &model.Product{ID: 4, Name: "Widget", QuantityInStock: 3, ThresholdLevel: 5, Price: decimal.NewFromInt(2)}
	repo.On("FindByID", ctx, int64(4)).Return(existing, nil)
	repo.tx.On("Update", ctx, existing, true).Return(nil)
	repo.tx.On("ResolveOpenAlerts", ctx, int64(4)).Return(nil)

	qty := 6
	p, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: 4, QuantityInStock: &qty})
	require.NoError(t, err)
	assert.Equal(t, 6, p.QuantityInStock)
	repo.tx.AssertExpectations(t)
}

func TestUpdateProductKeepsCommittedStock(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()

	existing := &model.Product{ID: 4, Name: "Widget", QuantityInStock: 8, ThresholdLevel: 5, Price: decimal.NewFromInt(2)}
	repo.On("FindByID", ctx, int64(4)).Return(existing, nil)
	// A sale committed after the read left 1 unit on the row.
	repo.tx.On("Update", ctx, existing, false).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Product).QuantityInStock = 1 }).
		Return(nil)
	repo.tx.On("UpsertOpenAlert", ctx, int64(4), 1).Return(nil)

	desc := "Blue widget"
	p, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: 4, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, 1, p.QuantityInStock)
	assert.Equal(t, "Blue widget", p.Description)
	repo.tx.AssertExpectations(t)
}

func TestUpdateProductNotFound(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()
	repo.On("FindByID", ctx, int64(99)).Return(nil, nil)

	_, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: 99})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDeleteProduct(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()
	repo.On("Delete", ctx, int64(1)).Return(true, nil)
	repo.On("Delete", ctx, int64(2)).Return(false, nil)

	require.NoError(t, uc.DeleteProduct(ctx, 1))
	err := uc.DeleteProduct(ctx, 2)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestListProductsIsCachedUntilRefresh(t *testing.T) {
	uc, repo, mr := setup(t)
	ctx := context.Background()
	filters := &dto.ProductFilters{Category: "Tools"}
	rows := []model.Product{{ID: 1, Name: "Widget", Price: decimal.NewFromInt(3)}}

	repo.On("FindAll", ctx, filters).Return(rows, 1, nil).Twice()

	got, count, err := uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, got, 1)

	got, _, err = uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got[0].Name)
	repo.AssertNumberOfCalls(t, "FindAll", 1)
	assert.Len(t, mr.Keys(), 1)

	uc.Refresh(ctx)
	require.Eventually(t, func() bool { return len(mr.Keys()) == 0 }, time.Second, 10*time.Millisecond)

	_, _, err = uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "FindAll", 2)
}
