package handler

import (
	"net/http"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StampHandler struct {
	svc    service.StampService
	logger *zap.Logger
}

func NewStampHandler(svc service.StampService, logger *zap.Logger) *StampHandler {
	return &StampHandler{svc: svc, logger: logger}
}

// Create godoc
// @Summary      Stamp passport
// @Description  Idempoten per (visitor, obra): 201 bila stamp baru, 200 bila sudah ada
// @Tags         stamps
// @Accept       json
// @Produce      json
// @Param        request  body      model.StampRequest  true  "Stamp"
// @Success      201      {object}  response.Response
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /stamps [post]
func (h *StampHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.StampRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	stamp, created, err := h.svc.Create(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal menyimpan stamp")
		return
	}
	if !created {
		response.Success(w, "Stamp sudah ada", stamp)
		return
	}
	response.Created(w, "Stamp berhasil disimpan", stamp)
}

// GetByVisitor godoc
// @Summary      Visitor stamps
// @Tags         stamps
// @Produce      json
// @Param        visitorId  path      string  true  "Visitor ID"
// @Success      200        {object}  response.Response
// @Router       /stamps/visitor/{visitorId} [get]
func (h *StampHandler) GetByVisitor(w http.ResponseWriter, r *http.Request) {
	stamps, err := h.svc.GetByVisitor(r.Context(), actorFrom(r), chi.URLParam(r, "visitorId"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data stamp")
		return
	}
	response.Success(w, "Data stamp berhasil diambil", stamps)
}

// Delete godoc
// @Summary      Delete stamp
// @Tags         stamps
// @Produce      json
// @Param        id   path      string  true  "Stamp ID"
// @Success      200  {object}  response.Response
// @Router       /stamps/{id} [delete]
func (h *StampHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err, "Gagal menghapus stamp")
		return
	}
	response.Success(w, "Stamp berhasil dihapus", nil)
}

type AchievementHandler struct {
	svc    service.AchievementService
	logger *zap.Logger
}

func NewAchievementHandler(svc service.AchievementService, logger *zap.Logger) *AchievementHandler {
	return &AchievementHandler{svc: svc, logger: logger}
}

// GetAll godoc
// @Summary      List achievements
// @Tags         achievements
// @Produce      json
// @Param        tenantId  query     string  true  "Tenant ID"
// @Success      200       {object}  response.Response
// @Router       /achievements [get]
func (h *AchievementHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.svc.GetByTenant(r.Context(), tenantQuery(r))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data conquista")
		return
	}
	response.Success(w, "Data conquista berhasil diambil", achievements)
}

// GetByID godoc
// @Summary      Get achievement
// @Tags         achievements
// @Produce      json
// @Param        id   path      string  true  "Achievement ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /achievements/{id} [get]
func (h *AchievementHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data conquista")
		return
	}
	response.Success(w, "Data conquista berhasil diambil", a)
}

// Create godoc
// @Summary      Create achievement
// @Tags         achievements
// @Accept       json
// @Produce      json
// @Param        request  body      model.AchievementRequest  true  "Conquista"
// @Security     BearerAuth
// @Success      201      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /achievements [post]
func (h *AchievementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.AchievementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	a, err := h.svc.Create(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal menyimpan conquista")
		return
	}
	response.Created(w, "Conquista berhasil ditambahkan", a)
}

// Update godoc
// @Summary      Update achievement
// @Tags         achievements
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Achievement ID"
// @Param        request  body      model.AchievementRequest  true  "Conquista"
// @Security     BearerAuth
// @Success      200      {object}  response.Response
// @Router       /achievements/{id} [put]
func (h *AchievementHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.AchievementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	a, err := h.svc.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal memperbarui conquista")
		return
	}
	response.Success(w, "Conquista berhasil diperbarui", a)
}

// Delete godoc
// @Summary      Delete achievement
// @Tags         achievements
// @Produce      json
// @Param        id   path      string  true  "Achievement ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /achievements/{id} [delete]
func (h *AchievementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err, "Gagal menghapus conquista")
		return
	}
	response.Success(w, "Conquista berhasil dihapus", nil)
}

// Unlock godoc
// @Summary      Unlock achievement
// @Tags         achievements
// @Accept       json
// @Produce      json
// @Param        request  body      model.UnlockAchievementRequest  true  "Unlock"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /achievements/unlock [post]
func (h *AchievementHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req model.UnlockAchievementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.Unlock(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err, "Gagal membuka conquista")
		return
	}
	response.Success(w, "Conquista desbloqueada", result)
}

// GetByVisitor godoc
// @Summary      Visitor achievements
// @Tags         achievements
// @Produce      json
// @Param        visitorId  path      string  true  "Visitor ID"
// @Success      200        {object}  response.Response
// @Router       /achievements/visitor/{visitorId} [get]
func (h *AchievementHandler) GetByVisitor(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetByVisitor(r.Context(), actorFrom(r), chi.URLParam(r, "visitorId"))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil data conquista")
		return
	}
	response.Success(w, "Data conquista berhasil diambil", list)
}

type LeaderboardHandler struct {
	svc    service.LeaderboardService
	logger *zap.Logger
}

func NewLeaderboardHandler(svc service.LeaderboardService, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc, logger: logger}
}

// Get godoc
// @Summary      Leaderboard
// @Description  Top 10 XP di tenant aktif beserta peringkat pemanggil
// @Tags         leaderboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /leaderboard [get]
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Get(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengambil leaderboard")
		return
	}
	response.Success(w, "Leaderboard berhasil diambil", board)
}
