package handler

import (
	"net/http"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/middleware"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Login godoc
// @Summary      Login
// @Description  Autentikasi dengan email dan password, mengembalikan pasangan token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      service.LoginRequest  true  "Kredensial"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	req.Email = utils.SanitizeString(strings.ToLower(req.Email))
	if errs := utils.ValidateStruct(req); errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err, "Terjadi kesalahan server")
		return
	}

	response.Success(w, "Login berhasil", result)
}

// Register godoc
// @Summary      Register visitor
// @Description  Pendaftaran mandiri pengunjung; profil visitor dibuat bila tenant_id diisi
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      service.RegisterRequest  true  "Data pendaftaran"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	req.Name = utils.SanitizeString(req.Name)
	req.Email = utils.SanitizeString(strings.ToLower(req.Email))
	errs := utils.ValidateStruct(req)
	if req.Password != "" && !utils.IsValidPassword(req.Password) {
		errs["password"] = "Password minimal 8 karakter dan harus mengandung huruf dan angka"
	}
	if errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err, "Terjadi kesalahan server")
		return
	}

	response.Created(w, "Registrasi berhasil", result)
}

// RefreshToken godoc
// @Summary      Refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      service.RefreshTokenRequest  true  "Refresh token"
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tokenPair, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, h.logger, err, "Terjadi kesalahan server")
		return
	}

	response.Success(w, "Token berhasil diperbarui", tokenPair)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "User tidak terautentikasi")
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err, "Terjadi kesalahan server")
		return
	}

	response.Success(w, "Data user berhasil diambil", user)
}

// SwitchTenant godoc
// @Summary      Switch tenant
// @Description  Pindah ke museu lain; profil visitor dibuat bila belum ada dan token diterbitkan ulang
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      service.SwitchTenantRequest  true  "Tenant tujuan"
// @Security     BearerAuth
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /auth/switch-tenant [post]
func (h *AuthHandler) SwitchTenant(w http.ResponseWriter, r *http.Request) {
	var req service.SwitchTenantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.SwitchTenant(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal berpindah tenant")
		return
	}

	response.Success(w, "Tenant berhasil diganti", result)
}

// CreateUser godoc
// @Summary      Create staff user
// @Description  MASTER membuat MASTER/ADMIN; ADMIN hanya membuat ADMIN di tenant-nya
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      service.CreateUserRequest  true  "Data user"
// @Security     BearerAuth
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /users [post]
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	req.Name = utils.SanitizeString(req.Name)
	req.Email = utils.SanitizeString(strings.ToLower(req.Email))
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	errs := utils.ValidateStruct(req)
	if req.Password != "" && !utils.IsValidPassword(req.Password) {
		errs["password"] = "Password minimal 8 karakter dan harus mengandung huruf dan angka"
	}
	if errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	user, err := h.authService.CreateUser(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Terjadi kesalahan server")
		return
	}

	response.Created(w, "User berhasil dibuat", user)
}
