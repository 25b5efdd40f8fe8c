package handler

import (
	"net/http"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TenantHandler struct {
	svc    service.TenantService
	logger *zap.Logger
}

func NewTenantHandler(svc service.TenantService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{svc: svc, logger: logger}
}

// GetPublic godoc
// @Summary      List museums (public)
// @Tags         tenants
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /tenants/public [get]
func (h *TenantHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.svc.GetPublic(r.Context())
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data museu")
		return
	}
	response.Success(w, "Data museu berhasil diambil", tenants)
}

// GetAll godoc
// @Summary      List museums
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /tenants [get]
func (h *TenantHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.svc.GetAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data museu")
		return
	}
	response.Success(w, "Data museu berhasil diambil", tenants)
}

// GetByID godoc
// @Summary      Get museum
// @Tags         tenants
// @Produce      json
// @Param        id   path      string  true  "Tenant ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data museu")
		return
	}
	response.Success(w, "Data museu berhasil diambil", tenant)
}

// Create godoc
// @Summary      Create museum
// @Description  Membuat tenant beserta user ADMIN-nya dalam satu transaksi
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request  body      model.CreateTenantRequest  true  "Data tenant"
// @Security     BearerAuth
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /tenants [post]
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTenantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal membuat museu")
		return
	}
	response.Created(w, "Museu berhasil dibuat", result)
}

// Update godoc
// @Summary      Update museum
// @Description  Branding dan aset sertifikat; plan dan max_works hanya untuk MASTER
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Tenant ID"
// @Param        request  body      model.UpdateTenantRequest  true  "Data tenant"
// @Security     BearerAuth
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /tenants/{id} [put]
func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateTenantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tenant, err := h.svc.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal memperbarui museu")
		return
	}
	response.Success(w, "Museu berhasil diperbarui", tenant)
}
