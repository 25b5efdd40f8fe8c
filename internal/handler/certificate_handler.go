package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CertificateHandler struct {
	svc    service.CertificateService
	logger *zap.Logger
}

func NewCertificateHandler(svc service.CertificateService, logger *zap.Logger) *CertificateHandler {
	return &CertificateHandler{svc: svc, logger: logger}
}

// GetAll retrieves certificates of the caller's tenant
// @Summary      Get all certificates
// @Description  Daftar sertifikat tenant; MASTER melihat semua tenant
// @Tags         certificates
// @Produce      json
// @Param        type        query    string  false  "TRAIL, EVENT atau CUSTOM"
// @Param        status      query    string  false  "VALID atau REVOKED"
// @Param        visitor_id  query    string  false  "Filter by visitor ID"
// @Param        tenantId    query    string  false  "Filter by tenant (MASTER)"
// @Param        page        query    int     false  "Page number"
// @Param        per_page    query    int     false  "Items per page"
// @Security     BearerAuth
// @Success      200  {object}  response.PaginatedResponse
// @Failure      500  {object}  response.Response
// @Router       /certificates [get]
func (h *CertificateHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.CertificateFilter{
		TenantID:  q.Get("tenantId"),
		VisitorID: q.Get("visitor_id"),
		Type:      q.Get("type"),
		Status:    q.Get("status"),
		Page:      parseIntQuery(q.Get("page"), 1),
		PerPage:   parseIntQuery(q.Get("per_page"), 10),
	}

	certs, pagination, err := h.svc.GetAll(r.Context(), actorFrom(r), filter)
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data sertifikat")
		return
	}

	response.Paginated(w, "Data sertifikat berhasil diambil", certs, pagination)
}

// Mine lists the caller's certificates across all museums
// @Summary      My certificates
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /certificates/mine [get]
func (h *CertificateHandler) Mine(w http.ResponseWriter, r *http.Request) {
	certs, err := h.svc.Mine(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data sertifikat")
		return
	}
	response.Success(w, "Data sertifikat berhasil diambil", certs)
}

// Generate issues a certificate for a completed trail or attended event
// @Summary      Generate a certificate
// @Description  Sekali per (visitor, type, related_id): 201 bila baru, 200 bila sudah ada
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Param        request  body      model.GenerateCertificateRequest  true  "Certificate generation request"
// @Security     BearerAuth
// @Success      201      {object}  response.Response
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /certificates/generate [post]
func (h *CertificateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateCertificateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cert, created, err := h.svc.Generate(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal menerbitkan sertifikat")
		return
	}
	if !created {
		response.Success(w, "Certificado já emitido", cert)
		return
	}
	response.Created(w, "Certificado emitido", cert)
}

// Revoke invalidates a certificate
// @Summary      Revoke a certificate
// @Description  Hanya VALID → REVOKED
// @Tags         certificates
// @Produce      json
// @Param        id   path      string  true  "Certificate ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /certificates/{id}/revoke [post]
func (h *CertificateHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	cert, err := h.svc.Revoke(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mencabut sertifikat")
		return
	}

	response.Success(w, "Sertifikat berhasil dicabut", cert)
}

// Download generates and returns the certificate PDF
// @Summary      Download certificate PDF
// @Description  Layout template bila rule menyertakan template, selain itu layout default
// @Tags         certificates
// @Produce      application/pdf
// @Param        id   path      string  true  "Certificate ID"
// @Success      200  {file}    file    "Certificate PDF file"
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /certificates/{id}/pdf [get]
func (h *CertificateHandler) Download(w http.ResponseWriter, r *http.Request) {
	pdfBytes, filename, err := h.svc.RenderPDF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal generate PDF")
		return
	}

	// Set header untuk download PDF
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

// Verify checks a certificate by its public code
// @Summary      Verify a certificate
// @Description  Endpoint publik; body tanpa envelope success/message
// @Tags         public
// @Produce      json
// @Param        code  path      string  true  "Certificate code"
// @Success      200   {object}  model.VerifyResponse
// @Failure      404   {object}  model.VerifyNotFoundResponse
// @Failure      500   {object}  response.Response
// @Router       /certificates/verify/{code} [get]
func (h *CertificateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Verify(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, service.ErrCertificateNotFound) {
			response.Raw(w, http.StatusNotFound, model.VerifyNotFoundResponse{Valid: false, Message: err.Error()})
			return
		}
		writeError(w, h.logger, err, "Gagal memverifikasi sertifikat")
		return
	}

	response.Raw(w, http.StatusOK, result)
}

// SendEmail mails an event participation certificate
// @Summary      Email certificate
// @Description  Hanya sertifikat EVENT; tanpa kredensial SMTP pengiriman hanya disimulasikan (delivered=false)
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true   "Certificate ID"
// @Param        request  body      model.EmailCertificateRequest  false  "Penerima (opsional)"
// @Security     BearerAuth
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /certificates/{id}/email [post]
func (h *CertificateHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req model.EmailCertificateRequest
	if r.ContentLength != 0 && !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.SendEmail(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengirim sertifikat")
		return
	}

	response.Success(w, "Certificado enviado para "+result.Recipient, result)
}
