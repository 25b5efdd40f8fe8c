package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
)

type contextKey string

const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyEmail    contextKey = "email"
	ContextKeyRole     contextKey = "role"
	ContextKeyName     contextKey = "name"
	ContextKeyTenantID contextKey = "tenant_id"
)

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func withClaims(ctx context.Context, claims *model.JWTClaims) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
	ctx = context.WithValue(ctx, ContextKeyEmail, claims.Email)
	ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
	ctx = context.WithValue(ctx, ContextKeyName, claims.Name)
	ctx = context.WithValue(ctx, ContextKeyTenantID, claims.TenantID)
	return ctx
}

// Authenticate memvalidasi access token JWT dari Authorization header
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				response.Unauthorized(w, "Token tidak ditemukan")
				return
			}

			tokenString, ok := bearerToken(r)
			if !ok {
				response.Unauthorized(w, "Format token tidak valid, gunakan: Bearer <token>")
				return
			}

			claims, err := utils.ValidateToken(tokenString, jwtSecret, utils.TokenTypeAccess)
			if err != nil {
				response.Unauthorized(w, "Token tidak valid atau sudah expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuthenticate mengisi context bila token valid, tanpa menolak request anonim.
// Dipakai endpoint publik yang perilakunya berbeda untuk visitor yang login (leaderboard).
func OptionalAuthenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenString, ok := bearerToken(r); ok {
				if claims, err := utils.ValidateToken(tokenString, jwtSecret, utils.TokenTypeAccess); err == nil {
					r = r.WithContext(withClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole memastikan user memiliki salah satu dari role yang diizinkan
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := r.Context().Value(ContextKeyRole).(string)
			if !ok || userRole == "" {
				response.Unauthorized(w, "Role tidak ditemukan dalam token")
				return
			}

			for _, role := range roles {
				if strings.EqualFold(userRole, string(role)) {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Anda tidak memiliki akses ke resource ini")
		})
	}
}

// RequireTenant menolak staff yang token-nya belum terikat tenant (MASTER tanpa switch-tenant)
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetTenantIDFromContext(r.Context()) == "" {
			response.Forbidden(w, "Token tidak terikat ke tenant, gunakan switch-tenant")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserIDFromContext helper untuk ambil user ID dari context
func GetUserIDFromContext(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyUserID).(string)
	return val
}

func GetRoleFromContext(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyRole).(string)
	return val
}

func GetTenantIDFromContext(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyTenantID).(string)
	return val
}

// WithClaims dipakai test handler untuk menyiapkan context terautentikasi
func WithClaims(ctx context.Context, claims model.JWTClaims) context.Context {
	return withClaims(ctx, &claims)
}
