package handler

import (
	"net/http"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VisitorHandler struct {
	svc    service.VisitorService
	logger *zap.Logger
}

func NewVisitorHandler(svc service.VisitorService, logger *zap.Logger) *VisitorHandler {
	return &VisitorHandler{svc: svc, logger: logger}
}

// Register godoc
// @Summary      Register visitor profile
// @Description  Membuat profil pengunjung tanpa akun
// @Tags         visitors
// @Accept       json
// @Produce      json
// @Param        request  body      model.RegisterVisitorRequest  true  "Data visitor"
// @Success      201      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /visitors/register [post]
func (h *VisitorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterVisitorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	visitor, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal mendaftarkan visitor")
		return
	}
	response.Created(w, "Visitor berhasil didaftarkan", visitor)
}

// Track godoc
// @Summary      Track visit
// @Description  Kunjungan dan XP disimpan dalam satu transaksi, lalu rule XP_THRESHOLD dievaluasi
// @Tags         visitors
// @Accept       json
// @Produce      json
// @Param        request  body      model.TrackVisitRequest  true  "Kunjungan"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /visitors/track [post]
func (h *VisitorHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req model.TrackVisitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.Track(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal mencatat kunjungan")
		return
	}
	response.Success(w, "Kunjungan berhasil dicatat", result)
}

// VisitFromQR godoc
// @Summary      Visit from QR
// @Description  Pemindaian QR: visitor anonim dibuat bila perlu, XP + stamp (QR obra) dalam satu transaksi
// @Tags         visitors
// @Accept       json
// @Produce      json
// @Param        request  body      model.VisitFromQRRequest  true  "QR code"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /visitors/visit-from-qr [post]
func (h *VisitorHandler) VisitFromQR(w http.ResponseWriter, r *http.Request) {
	var req model.VisitFromQRRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.VisitFromQR(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal mencatat kunjungan QR")
		return
	}
	response.Success(w, "Visita registrada", result)
}

// Summary godoc
// @Summary      Visitor summary
// @Tags         visitors
// @Produce      json
// @Param        id   path      string  true  "Visitor ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /visitors/{id}/summary [get]
func (h *VisitorHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil ringkasan visitor")
		return
	}
	response.Success(w, "Ringkasan visitor berhasil diambil", summary)
}

// MeSummary godoc
// @Summary      My summary
// @Description  Ringkasan profil pengguna di tenant aktif; kosong bila belum punya profil
// @Tags         visitors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /visitors/me/summary [get]
func (h *VisitorHandler) MeSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.MeSummary(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil ringkasan visitor")
		return
	}
	response.Success(w, "Ringkasan visitor berhasil diambil", summary)
}

// UpdateMe godoc
// @Summary      Update my profile
// @Tags         visitors
// @Accept       json
// @Produce      json
// @Param        request  body      model.UpdateVisitorRequest  true  "Profil"
// @Security     BearerAuth
// @Success      200      {object}  response.Response
// @Router       /visitors/me [put]
func (h *VisitorHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateVisitorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	visitor, err := h.svc.UpdateMe(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal memperbarui profil")
		return
	}
	response.Success(w, "Profil berhasil diperbarui", visitor)
}

// GetAll godoc
// @Summary      List visitors
// @Tags         visitors
// @Produce      json
// @Param        tenantId  query     string  false  "Tenant ID (MASTER)"
// @Param        search    query     string  false  "Cari nama atau email"
// @Param        page      query     int     false  "Page number"
// @Param        per_page  query     int     false  "Items per page"
// @Security     BearerAuth
// @Success      200       {object}  response.PaginatedResponse
// @Router       /visitors [get]
func (h *VisitorHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.VisitorFilter{
		TenantID: q.Get("tenantId"),
		Search:   q.Get("search"),
		Page:     parseIntQuery(q.Get("page"), 1),
		PerPage:  parseIntQuery(q.Get("per_page"), 20),
	}

	visitors, pagination, err := h.svc.GetAll(r.Context(), actorFrom(r), filter)
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data visitor")
		return
	}
	response.Paginated(w, "Data visitor berhasil diambil", visitors, pagination)
}
