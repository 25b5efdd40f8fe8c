package handler

import (
	"net/http"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EventHandler struct {
	svc    service.EventService
	logger *zap.Logger
}

func NewEventHandler(svc service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, logger: logger}
}

// GetAll godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        tenantId  query     string  true  "Tenant ID"
// @Success      200       {object}  response.Response
// @Router       /events [get]
func (h *EventHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.GetByTenant(r.Context(), tenantQuery(r))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data evento")
		return
	}
	response.Success(w, "Data evento berhasil diambil", events)
}

// GetByID godoc
// @Summary      Get event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /events/{id} [get]
func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data evento")
		return
	}
	response.Success(w, "Data evento berhasil diambil", event)
}

// Create godoc
// @Summary      Create event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      model.EventRequest  true  "Data evento"
// @Security     BearerAuth
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /events [post]
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event, err := h.svc.Create(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal menyimpan evento")
		return
	}
	response.Created(w, "Evento berhasil ditambahkan", event)
}

// Update godoc
// @Summary      Update event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Event ID"
// @Param        request  body      model.EventRequest  true  "Data evento"
// @Security     BearerAuth
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /events/{id} [put]
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event, err := h.svc.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal memperbarui evento")
		return
	}
	response.Success(w, "Evento berhasil diperbarui", event)
}

// Delete godoc
// @Summary      Delete event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err, "Gagal menghapus evento")
		return
	}
	response.Success(w, "Evento berhasil dihapus", nil)
}

// CheckIn godoc
// @Summary      Event check-in
// @Description  Kehadiran dicatat sekali per visitor; rule EVENT_ATTENDED dievaluasi setiap check-in
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Event ID"
// @Param        request  body      model.CheckInRequest  true  "Visitor"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /events/{id}/checkin [post]
func (h *EventHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req model.CheckInRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.CheckIn(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal melakukan check-in")
		return
	}
	response.Success(w, "Check-in realizado", result)
}
