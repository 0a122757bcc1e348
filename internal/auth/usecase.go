package auth

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/auth/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	Register(ctx context.Context, input *dto.RegisterInput) (*dto.AuthResult, error)
	Login(ctx context.Context, input *dto.LoginInput) (*dto.AuthResult, error)
	// Refresh rotates a refresh token. The presented token is blacklisted.
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input *dto.ResetPasswordInput) error
	GetProfile(ctx context.Context, userID int64) (*model.User, error)
	UpdateProfile(ctx context.Context, input *dto.UpdateProfileInput) (*model.User, error)
}
