package handler

import (
	"net/http"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WorkHandler struct {
	svc    service.WorkService
	logger *zap.Logger
}

func NewWorkHandler(svc service.WorkService, logger *zap.Logger) *WorkHandler {
	return &WorkHandler{svc: svc, logger: logger}
}

// GetAll godoc
// @Summary      List works
// @Description  Obra yang belum dipublikasikan hanya terlihat oleh staff tenant
// @Tags         works
// @Produce      json
// @Param        tenantId  query     string  true   "Tenant ID"
// @Param        search    query     string  false  "Cari judul atau artis"
// @Param        page      query     int     false  "Page number"
// @Param        per_page  query     int     false  "Items per page"
// @Success      200       {object}  response.PaginatedResponse
// @Failure      400       {object}  response.Response
// @Router       /works [get]
func (h *WorkHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.WorkFilter{
		TenantID: tenantQuery(r),
		Search:   q.Get("search"),
		Page:     parseIntQuery(q.Get("page"), 1),
		PerPage:  parseIntQuery(q.Get("per_page"), 20),
	}

	works, pagination, err := h.svc.GetAll(r.Context(), actorFrom(r), filter)
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data obra")
		return
	}

	response.Paginated(w, "Data obra berhasil diambil", works, pagination)
}

// GetByID godoc
// @Summary      Get work
// @Tags         works
// @Produce      json
// @Param        id   path      string  true  "Work ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /works/{id} [get]
func (h *WorkHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	work, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data obra")
		return
	}
	response.Success(w, "Data obra berhasil diambil", work)
}

// Create godoc
// @Summary      Create work
// @Description  Ditolak bila jumlah obra sudah mencapai max_works paket tenant
// @Tags         works
// @Accept       json
// @Produce      json
// @Param        request  body      model.WorkRequest  true  "Data obra"
// @Security     BearerAuth
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /works [post]
func (h *WorkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.WorkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	work, err := h.svc.Create(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal menyimpan obra")
		return
	}
	response.Created(w, "Obra berhasil ditambahkan", work)
}

// Update godoc
// @Summary      Update work
// @Tags         works
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Work ID"
// @Param        request  body      model.WorkRequest  true  "Data obra"
// @Security     BearerAuth
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /works/{id} [put]
func (h *WorkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.WorkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	work, err := h.svc.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal memperbarui obra")
		return
	}
	response.Success(w, "Obra berhasil diperbarui", work)
}

// Delete godoc
// @Summary      Delete work
// @Tags         works
// @Produce      json
// @Param        id   path      string  true  "Work ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /works/{id} [delete]
func (h *WorkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err, "Gagal menghapus obra")
		return
	}
	response.Success(w, "Obra berhasil dihapus", nil)
}
