package auth

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Repository returns nil, nil when a user does not exist.
type Repository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfile(ctx context.Context, u *model.User) error
}
