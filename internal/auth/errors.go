package auth

import "github.com/fekuna/omnipos-inventory-service/internal/apperror"

var (
	ErrPasswordMismatch   = apperror.Validation("confirm_password: Passwords must match.").With("field", "confirm_password")
	ErrEmailTaken         = apperror.Validation("email: A user with this email already exists.").With("field", "email")
	ErrUsernameTaken      = apperror.Validation("username: A user with that username already exists.").With("field", "username")
	ErrInvalidCredentials = apperror.Validation("Invalid username or password.")
	ErrNoRefreshToken     = apperror.Validation("No refresh token provided")
	ErrRefreshInvalid     = apperror.Validation("Token is invalid or expired")
	ErrRefreshRevoked     = apperror.Validation("Token is blacklisted")
	ErrUnknownEmail       = apperror.NotFound("User with this email does not exist")
	ErrResetTokenInvalid  = apperror.Validation("Invalid or expired token")
	ErrResetUserInvalid   = apperror.Validation("Invalid token or user")
	ErrUserNotFound       = apperror.NotFound("User not found.")
)
