package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/category"
	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error) {
	filters.SearchQuery = strings.TrimSpace(filters.SearchQuery)
	categories, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to list categories", zap.Error(err))
		return nil, err
	}
	return categories, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, category.ErrNotFound(name)
	}
	c, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, category.ErrNotFound(name)
	}
	return c, nil
}
