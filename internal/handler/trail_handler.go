package handler

import (
	"net/http"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TrailHandler struct {
	svc    service.TrailService
	logger *zap.Logger
}

func NewTrailHandler(svc service.TrailService, logger *zap.Logger) *TrailHandler {
	return &TrailHandler{svc: svc, logger: logger}
}

// GetAll godoc
// @Summary      List trails
// @Tags         trails
// @Produce      json
// @Param        tenantId  query     string  true  "Tenant ID"
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Router       /trails [get]
func (h *TrailHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	trails, err := h.svc.GetByTenant(r.Context(), tenantQuery(r))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data trilha")
		return
	}
	response.Success(w, "Data trilha berhasil diambil", trails)
}

// GetByID godoc
// @Summary      Get trail
// @Tags         trails
// @Produce      json
// @Param        id   path      string  true  "Trail ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /trails/{id} [get]
func (h *TrailHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	trail, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data trilha")
		return
	}
	response.Success(w, "Data trilha berhasil diambil", trail)
}

// Create godoc
// @Summary      Create trail
// @Tags         trails
// @Accept       json
// @Produce      json
// @Param        request  body      model.TrailRequest  true  "Data trilha"
// @Security     BearerAuth
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /trails [post]
func (h *TrailHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.TrailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	trail, err := h.svc.Create(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal menyimpan trilha")
		return
	}
	response.Created(w, "Trilha berhasil ditambahkan", trail)
}

// Update godoc
// @Summary      Update trail
// @Tags         trails
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Trail ID"
// @Param        request  body      model.TrailRequest  true  "Data trilha"
// @Security     BearerAuth
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /trails/{id} [put]
func (h *TrailHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.TrailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	trail, err := h.svc.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal memperbarui trilha")
		return
	}
	response.Success(w, "Trilha berhasil diperbarui", trail)
}

// Delete godoc
// @Summary      Delete trail
// @Tags         trails
// @Produce      json
// @Param        id   path      string  true  "Trail ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /trails/{id} [delete]
func (h *TrailHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err, "Gagal menghapus trilha")
		return
	}
	response.Success(w, "Trilha berhasil dihapus", nil)
}

// Complete godoc
// @Summary      Complete trail
// @Description  Mencatat penyelesaian trilha (+XP) lalu mengevaluasi rule TRAIL_COMPLETED dan XP_THRESHOLD
// @Tags         trails
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Trail ID"
// @Param        request  body      model.CompleteTrailRequest  true  "Visitor"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /trails/{id}/complete [post]
func (h *TrailHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req model.CompleteTrailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.Complete(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal menyelesaikan trilha")
		return
	}
	response.Success(w, "Trilha concluída", result)
}
