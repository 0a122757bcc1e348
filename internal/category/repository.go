package category

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error)
	// FindByName returns nil, nil when no product carries the category.
	FindByName(ctx context.Context, name string) (*model.Category, error)
}
