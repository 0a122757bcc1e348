package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(t *testing.T, m Maker) (http.Handler, *Principal) {
	t.Helper()
	seen := &Principal{}
	h := Middleware(m, logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = *PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, seen
}

func TestMiddlewareMissingToken(t *testing.T) {
	h, _ := protected(t, newMaker(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/product/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication credentials were not provided."}`, rec.Body.String())
}

func TestMiddlewareRejectsRefreshToken(t *testing.T) {
	m := newMaker(t)
	h, _ := protected(t, m)
	refresh, _, err := m.CreateToken(3, "bob", TokenRefresh, "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/product/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsOtherScheme(t *testing.T) {
	h, _ := protected(t, newMaker(t))

	req := httptest.NewRequest(http.MethodGet, "/api/product/", nil)
	req.Header.Set("Authorization", "Basic Ym9iOnB3")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	m := newMaker(t)
	h, seen := protected(t, m)
	access, claims, err := m.CreateToken(3, "bob", TokenAccess, "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/product/", nil)
	req.Header.Set("Authorization", "bearer "+access)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(3), seen.UserID)
	assert.Equal(t, "bob", seen.Username)
	assert.Equal(t, claims.ID, seen.TokenID)
}
