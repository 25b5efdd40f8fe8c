package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ahmadqo/museum-engagement-ledger/internal/middleware"
	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", service.ErrCertificateNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", service.ErrTrailNotFound), http.StatusNotFound},
		{"bad input", service.ErrInvalidID, http.StatusBadRequest},
		{"no tenant", service.ErrNoTenantID, http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"conflict", service.ErrConflict, http.StatusConflict},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid refresh", service.ErrInvalidRefresh, http.StatusUnauthorized},
		{"disabled account", service.ErrAccountDisabled, http.StatusForbidden},
		{"storage down", service.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, zap.NewNop(), tt.err, "Terjadi kesalahan")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestActorFrom(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), model.JWTClaims{
		UserID:   userID.String(),
		Role:     "admin",
		TenantID: tenantID.String(),
	}))

	actor := actorFrom(req)
	assert.Equal(t, userID, actor.UserID)
	assert.Equal(t, model.RoleAdmin, actor.Role)
	require.NotNil(t, actor.TenantID)
	assert.Equal(t, tenantID, *actor.TenantID)

	anon := actorFrom(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, uuid.Nil, anon.UserID)
	assert.Nil(t, anon.TenantID)
}

func TestTenantQuery(t *testing.T) {
	tokenTenant := uuid.NewString()
	queryTenant := uuid.NewString()

	withToken := func(r *http.Request) *http.Request {
		return r.WithContext(middleware.WithClaims(r.Context(), model.JWTClaims{TenantID: tokenTenant}))
	}

	assert.Equal(t, queryTenant, tenantQuery(withToken(httptest.NewRequest(http.MethodGet, "/?tenantId="+queryTenant, nil))))
	assert.Equal(t, queryTenant, tenantQuery(httptest.NewRequest(http.MethodGet, "/?tenant_id="+queryTenant, nil)))
	assert.Equal(t, tokenTenant, tenantQuery(withToken(httptest.NewRequest(http.MethodGet, "/", nil))))
	assert.Empty(t, tenantQuery(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestParseIntQuery(t *testing.T) {
	assert.Equal(t, 10, parseIntQuery("", 10))
	assert.Equal(t, 3, parseIntQuery(" 3 ", 10))
	assert.Equal(t, 10, parseIntQuery("-1", 10))
	assert.Equal(t, 10, parseIntQuery("abc", 10))
}
