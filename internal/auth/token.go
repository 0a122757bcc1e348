package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenAccess        TokenType = "access"
	TokenRefresh       TokenType = "refresh"
	TokenPasswordReset TokenType = "password_reset"
)

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the payload carried by every token the service issues.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64     `json:"user_id"`
	Username string    `json:"username,omitempty"`
	Type     TokenType `json:"typ"`
	// Fingerprint binds a password reset token to the password hash it was
	// issued against.
	Fingerprint string `json:"fp,omitempty"`
}

// Maker issues and verifies signed tokens.
type Maker interface {
	CreateToken(userID int64, username string, typ TokenType, fingerprint string) (string, *Claims, error)
	VerifyToken(token string, typ TokenType) (*Claims, error)
}

type JWTMaker struct {
	secret []byte
	ttl    map[TokenType]time.Duration
	now    func() time.Time
}

func NewJWTMaker(secret string, accessTTL, refreshTTL, resetTTL time.Duration) (*JWTMaker, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("jwt secret must be at least 16 characters")
	}
	return &JWTMaker{
		secret: []byte(secret),
		ttl: map[TokenType]time.Duration{
			TokenAccess:        accessTTL,
			TokenRefresh:       refreshTTL,
			TokenPasswordReset: resetTTL,
		},
		now: time.Now,
	}, nil
}

func (m *JWTMaker) CreateToken(userID int64, username string, typ TokenType, fingerprint string) (string, *Claims, error) {
	ttl, ok := m.ttl[typ]
	if !ok {
		return "", nil, fmt.Errorf("unknown token type %q", typ)
	}
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:      userID,
		Username:    username,
		Type:        typ,
		Fingerprint: fingerprint,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

func (m *JWTMaker) VerifyToken(token string, typ TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if claims.Type != typ || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// PasswordFingerprint derives the value stored in reset tokens from the
// user's current password hash. Changing the password invalidates every
// outstanding reset token.
func PasswordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}
