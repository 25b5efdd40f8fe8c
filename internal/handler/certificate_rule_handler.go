package handler

import (
	"net/http"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CertificateRuleHandler struct {
	svc    service.CertificateRuleService
	logger *zap.Logger
}

func NewCertificateRuleHandler(svc service.CertificateRuleService, logger *zap.Logger) *CertificateRuleHandler {
	return &CertificateRuleHandler{svc: svc, logger: logger}
}

// GetAll godoc
// @Summary      List certificate rules
// @Tags         certificate-rules
// @Produce      json
// @Param        tenantId  query     string  false  "Tenant ID (MASTER)"
// @Security     BearerAuth
// @Success      200       {object}  response.Response
// @Router       /certificate-rules [get]
func (h *CertificateRuleHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.GetAll(r.Context(), actorFrom(r), r.URL.Query().Get("tenantId"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data rule")
		return
	}
	response.Success(w, "Data rule berhasil diambil", rules)
}

// GetByID godoc
// @Summary      Get certificate rule
// @Tags         certificate-rules
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /certificate-rules/{id} [get]
func (h *CertificateRuleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	rule, err := h.svc.GetByID(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data rule")
		return
	}
	response.Success(w, "Data rule berhasil diambil", rule)
}

// Create godoc
// @Summary      Create certificate rule
// @Description  conditions divalidasi sesuai trigger_type (trail_id, event_id, min_xp)
// @Tags         certificate-rules
// @Accept       json
// @Produce      json
// @Param        request  body      model.CertificateRuleRequest  true  "Rule"
// @Security     BearerAuth
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /certificate-rules [post]
func (h *CertificateRuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CertificateRuleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rule, err := h.svc.Create(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal menyimpan rule")
		return
	}
	response.Created(w, "Rule berhasil dibuat", rule)
}

// Update godoc
// @Summary      Update certificate rule
// @Tags         certificate-rules
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Rule ID"
// @Param        request  body      model.CertificateRuleRequest  true  "Rule"
// @Security     BearerAuth
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /certificate-rules/{id} [put]
func (h *CertificateRuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.CertificateRuleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rule, err := h.svc.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal memperbarui rule")
		return
	}
	response.Success(w, "Rule berhasil diperbarui", rule)
}

// Delete godoc
// @Summary      Delete certificate rule
// @Tags         certificate-rules
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /certificate-rules/{id} [delete]
func (h *CertificateRuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err, "Gagal menghapus rule")
		return
	}
	response.Success(w, "Rule berhasil dihapus", nil)
}

type CertificateTemplateHandler struct {
	svc    service.CertificateTemplateService
	logger *zap.Logger
}

func NewCertificateTemplateHandler(svc service.CertificateTemplateService, logger *zap.Logger) *CertificateTemplateHandler {
	return &CertificateTemplateHandler{svc: svc, logger: logger}
}

// GetAll godoc
// @Summary      List certificate templates
// @Tags         certificate-templates
// @Produce      json
// @Param        tenantId  query     string  false  "Tenant ID (MASTER)"
// @Security     BearerAuth
// @Success      200       {object}  response.Response
// @Router       /certificate-templates [get]
func (h *CertificateTemplateHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.GetAll(r.Context(), actorFrom(r), r.URL.Query().Get("tenantId"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data template")
		return
	}
	response.Success(w, "Data template berhasil diambil", templates)
}

// GetByID godoc
// @Summary      Get certificate template
// @Tags         certificate-templates
// @Produce      json
// @Param        id   path      string  true  "Template ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /certificate-templates/{id} [get]
func (h *CertificateTemplateHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.svc.GetByID(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data template")
		return
	}
	response.Success(w, "Data template berhasil diambil", tpl)
}

// Create godoc
// @Summary      Create certificate template
// @Description  Elemen text/qrcode diposisikan absolut dalam point A4 landscape
// @Tags         certificate-templates
// @Accept       json
// @Produce      json
// @Param        request  body      model.CertificateTemplateRequest  true  "Template"
// @Security     BearerAuth
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /certificate-templates [post]
func (h *CertificateTemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CertificateTemplateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tpl, err := h.svc.Create(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal menyimpan template")
		return
	}
	response.Created(w, "Template berhasil dibuat", tpl)
}

// Update godoc
// @Summary      Update certificate template
// @Tags         certificate-templates
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Template ID"
// @Param        request  body      model.CertificateTemplateRequest  true  "Template"
// @Security     BearerAuth
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /certificate-templates/{id} [put]
func (h *CertificateTemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.CertificateTemplateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tpl, err := h.svc.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal memperbarui template")
		return
	}
	response.Success(w, "Template berhasil diperbarui", tpl)
}

// Delete godoc
// @Summary      Delete certificate template
// @Tags         certificate-templates
// @Produce      json
// @Param        id   path      string  true  "Template ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /certificate-templates/{id} [delete]
func (h *CertificateTemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err, "Gagal menghapus template")
		return
	}
	response.Success(w, "Template berhasil dihapus", nil)
}
