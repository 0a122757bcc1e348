package auth

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/httpx"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
)

const (
	authorizationHeader = "Authorization"
	bearerScheme        = "bearer"
)

var (
	errMissingCredentials = apperror.Unauthenticated("Authentication credentials were not provided.")
	errBadCredentials     = apperror.Unauthenticated("Given token not valid for any token type")
)

// Middleware rejects requests without a valid access token and stores the
// caller in the request context.
func Middleware(maker Maker, log logger.ZapLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(authorizationHeader)
			if header == "" {
				httpx.Error(w, r, log, errMissingCredentials)
				return
			}

			fields := strings.Fields(header)
			if len(fields) != 2 || strings.ToLower(fields[0]) != bearerScheme {
				httpx.Error(w, r, log, errBadCredentials)
				return
			}

			claims, err := maker.VerifyToken(fields[1], TokenAccess)
			if err != nil {
				httpx.Error(w, r, log, errBadCredentials)
				return
			}

			ctx := WithPrincipal(r.Context(), &Principal{
				UserID:   claims.UserID,
				Username: claims.Username,
				TokenID:  claims.ID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
