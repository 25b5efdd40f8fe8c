package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func tokens(t *testing.T, role model.Role, tenantID string) *utils.TokenPair {
	t.Helper()
	pair, err := utils.GenerateTokenPair(model.JWTClaims{
		UserID:   "user-1",
		Email:    "staff@museu.org",
		Role:     string(role),
		TenantID: tenantID,
	}, secret, 1, 24)
	require.NoError(t, err)
	return pair
}

func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-User", GetUserIDFromContext(r.Context()))
		w.Header().Set("X-Tenant", GetTenantIDFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	pair := tokens(t, model.RoleAdmin, "tenant-1")
	h := Authenticate(secret)(echoHandler())

	rec := serve(h, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Header().Get("X-User"))
	assert.Equal(t, "tenant-1", rec.Header().Get("X-Tenant"))

	assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Bearer "+pair.RefreshToken).Code)
}

func TestOptionalAuthenticate(t *testing.T) {
	pair := tokens(t, model.RoleVisitor, "")
	h := OptionalAuthenticate(secret)(echoHandler())

	rec := serve(h, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-User"))

	rec = serve(h, "Bearer "+pair.AccessToken)
	assert.Equal(t, "user-1", rec.Header().Get("X-User"))

	rec = serve(h, "Bearer rusak")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-User"))
}

func TestRequireRole(t *testing.T) {
	h := Authenticate(secret)(RequireRole(model.RoleAdmin, model.RoleMaster)(echoHandler()))

	assert.Equal(t, http.StatusOK, serve(h, "Bearer "+tokens(t, model.RoleMaster, "").AccessToken).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "Bearer "+tokens(t, model.RoleVisitor, "").AccessToken).Code)
}

func TestRequireTenant(t *testing.T) {
	h := Authenticate(secret)(RequireTenant(echoHandler()))

	assert.Equal(t, http.StatusForbidden, serve(h, "Bearer "+tokens(t, model.RoleMaster, "").AccessToken).Code)
	assert.Equal(t, http.StatusOK, serve(h, "Bearer "+tokens(t, model.RoleAdmin, "tenant-9").AccessToken).Code)
}
