package handler

import (
	"fmt"
	"net/http"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QRCodeHandler struct {
	svc    service.QRCodeService
	logger *zap.Logger
}

func NewQRCodeHandler(svc service.QRCodeService, logger *zap.Logger) *QRCodeHandler {
	return &QRCodeHandler{svc: svc, logger: logger}
}

// GetAll godoc
// @Summary      List QR codes
// @Description  ADMIN melihat tenant-nya; MASTER boleh menyebut tenantId
// @Tags         qrcodes
// @Produce      json
// @Param        tenantId  query     string  false  "Tenant ID (MASTER)"
// @Security     BearerAuth
// @Success      200       {object}  response.Response
// @Router       /qrcodes [get]
func (h *QRCodeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	codes, err := h.svc.GetByTenant(r.Context(), actorFrom(r), r.URL.Query().Get("tenantId"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data QR code")
		return
	}
	if codes == nil {
		codes = []*model.QRCode{}
	}
	response.Success(w, "Data QR code berhasil diambil", codes)
}

// GetByCode godoc
// @Summary      Resolve QR code
// @Description  Dipakai halaman publik setelah pemindaian
// @Tags         qrcodes
// @Produce      json
// @Param        code  path      string  true  "QR code"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /qr/{code} [get]
func (h *QRCodeHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	qr, err := h.svc.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data QR code")
		return
	}
	response.Success(w, "Data QR code berhasil diambil", qr)
}

// Create godoc
// @Summary      Create QR code
// @Tags         qrcodes
// @Accept       json
// @Produce      json
// @Param        request  body      model.QRCodeRequest  true  "Data QR code"
// @Security     BearerAuth
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /qrcodes [post]
func (h *QRCodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.QRCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	qr, err := h.svc.Create(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal membuat QR code")
		return
	}
	response.Created(w, "QR code berhasil dibuat", qr)
}

// Delete godoc
// @Summary      Delete QR code
// @Tags         qrcodes
// @Produce      json
// @Param        id   path      string  true  "QR code ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /qrcodes/{id} [delete]
func (h *QRCodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err, "Gagal menghapus QR code")
		return
	}
	response.Success(w, "QR code berhasil dihapus", nil)
}

// Image godoc
// @Summary      QR code image
// @Description  PNG siap cetak yang mengarah ke halaman /qr/{code} di frontend
// @Tags         qrcodes
// @Produce      image/png
// @Param        id   path      string  true  "QR code ID"
// @Security     BearerAuth
// @Success      200  {file}    file    "QR code PNG"
// @Failure      404  {object}  response.Response
// @Router       /qrcodes/{id}/image [get]
func (h *QRCodeHandler) Image(w http.ResponseWriter, r *http.Request) {
	png, filename, err := h.svc.Image(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal membuat gambar QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
