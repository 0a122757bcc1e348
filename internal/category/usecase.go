package category

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error)
	GetCategory(ctx context.Context, name string) (*model.Category, error)
}
