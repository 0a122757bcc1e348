package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/auth/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/mail"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resetSubject = "Password Reset Request"

type authUseCase struct {
	repo        auth.Repository
	maker       auth.Maker
	blacklist   auth.Blacklist
	mailer      mail.Sender
	frontendURL string
	hashCost    int
	logger      logger.ZapLogger
}

func NewAuthUseCase(repo auth.Repository, maker auth.Maker, blacklist auth.Blacklist, mailer mail.Sender, frontendURL string, log logger.ZapLogger) auth.UseCase {
	return &authUseCase{
		repo:        repo,
		maker:       maker,
		blacklist:   blacklist,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		hashCost:    bcrypt.DefaultCost,
		logger:      log,
	}
}

func (uc *authUseCase) Register(ctx context.Context, input *dto.RegisterInput) (*dto.AuthResult, error) {
	if input.Password != input.ConfirmPassword {
		return nil, auth.ErrPasswordMismatch
	}

	existing, err := uc.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return nil, auth.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hash),
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	uc.logger.Info("User registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return uc.authResult(u)
}

func (uc *authUseCase) Login(ctx context.Context, input *dto.LoginInput) (*dto.AuthResult, error) {
	u, err := uc.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, auth.ErrInvalidCredentials
	}
	return uc.authResult(u)
}

func (uc *authUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	claims, err := uc.checkRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := uc.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, auth.ErrRefreshInvalid
	}

	if err := uc.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	return uc.issuePair(u)
}

func (uc *authUseCase) Logout(ctx context.Context, refreshToken string) error {
	claims, err := uc.checkRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	if caller := auth.UserID(ctx); caller != 0 && caller != claims.UserID {
		return auth.ErrRefreshInvalid
	}
	if err := uc.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	uc.logger.Info("User logged out", zap.Int64("user_id", claims.UserID))
	return nil
}

func (uc *authUseCase) checkRefresh(ctx context.Context, token string) (*auth.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, auth.ErrNoRefreshToken
	}
	claims, err := uc.maker.VerifyToken(token, auth.TokenRefresh)
	if err != nil {
		return nil, auth.ErrRefreshInvalid
	}
	revoked, err := uc.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, auth.ErrRefreshRevoked
	}
	return claims, nil
}

func (uc *authUseCase) ForgotPassword(ctx context.Context, email string) error {
	u, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find user by email: %w", err)
	}
	if u == nil {
		return auth.ErrUnknownEmail
	}

	token, _, err := uc.maker.CreateToken(u.ID, u.Username, auth.TokenPasswordReset, auth.PasswordFingerprint(u.PasswordHash))
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password/%s/%s/", uc.frontendURL, encodeUID(u.ID), token)

	err = uc.mailer.Send(ctx, mail.Message{
		To:      []string{u.Email},
		Subject: resetSubject,
		Text:    "Click the link below to reset your password:\n" + link,
	})
	if err != nil {
		return apperror.Upstream("Failed to send password reset email.", err)
	}

	uc.logger.Info("Password reset link sent", zap.Int64("user_id", u.ID))
	return nil
}

func (uc *authUseCase) ResetPassword(ctx context.Context, input *dto.ResetPasswordInput) error {
	id, err := decodeUID(input.UIDB64)
	if err != nil {
		return auth.ErrResetUserInvalid
	}
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return auth.ErrResetUserInvalid
	}

	claims, err := uc.maker.VerifyToken(input.Token, auth.TokenPasswordReset)
	if err != nil || claims.UserID != u.ID || claims.Fingerprint != auth.PasswordFingerprint(u.PasswordHash) {
		return auth.ErrResetTokenInvalid
	}

	if input.Password != input.ConfirmPassword {
		return auth.ErrPasswordMismatch
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := uc.repo.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	uc.logger.Info("Password reset", zap.Int64("user_id", u.ID))
	return nil
}

func (uc *authUseCase) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func (uc *authUseCase) UpdateProfile(ctx context.Context, input *dto.UpdateProfileInput) (*model.User, error) {
	u, err := uc.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		u.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		u.LastName = strings.TrimSpace(*input.LastName)
	}
	if err := uc.repo.UpdateProfile(ctx, u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (uc *authUseCase) authResult(u *model.User) (*dto.AuthResult, error) {
	pair, err := uc.issuePair(u)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResult{
		User:      dto.UserSummary{Username: u.Username, Email: u.Email},
		TokenPair: *pair,
	}, nil
}

func (uc *authUseCase) issuePair(u *model.User) (*dto.TokenPair, error) {
	refresh, _, err := uc.maker.CreateToken(u.ID, u.Username, auth.TokenRefresh, "")
	if err != nil {
		return nil, err
	}
	access, _, err := uc.maker.CreateToken(u.ID, u.Username, auth.TokenAccess, "")
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{Refresh: refresh, Access: access}, nil
}

func encodeUID(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}

func decodeUID(uidb64 string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(uidb64, "="))
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("uid must be positive")
	}
	return id, nil
}
