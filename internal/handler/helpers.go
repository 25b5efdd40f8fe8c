package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/middleware"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
	"go.uber.org/zap"
)

// actorFrom membangun Actor dari claims yang dipasang middleware auth (kosong untuk request anonim)
func actorFrom(r *http.Request) service.Actor {
	ctx := r.Context()
	return service.NewActor(
		middleware.GetUserIDFromContext(ctx),
		middleware.GetRoleFromContext(ctx),
		middleware.GetTenantIDFromContext(ctx),
	)
}

// tenantQuery: ?tenantId= bila ada, selain itu tenant dari token
func tenantQuery(r *http.Request) string {
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("tenantId")); v != "" {
		return v
	}
	if v := strings.TrimSpace(q.Get("tenant_id")); v != "" {
		return v
	}
	return middleware.GetTenantIDFromContext(r.Context())
}

// decodeAndValidate menulis 400 dan mengembalikan false bila body tidak valid
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return false
	}
	if errs := utils.ValidateStruct(dst); errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return false
	}
	return true
}

// writeError memetakan error service ke status HTTP
func writeError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, service.ErrBadInput):
		response.BadRequest(w, err.Error(), nil)
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, service.ErrConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidRefresh):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, service.ErrAccountDisabled):
		response.Forbidden(w, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		response.JSON(w, http.StatusServiceUnavailable, false, err.Error(), nil)
	default:
		if logger != nil {
			logger.Error(fallback, zap.Error(err))
		}
		response.InternalError(w, fallback)
	}
}

func parseIntQuery(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}
