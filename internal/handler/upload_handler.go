package handler

import (
	"io"
	"net/http"

	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
	"go.uber.org/zap"
)

type UploadHandler struct {
	svc    service.UploadService
	logger *zap.Logger
}

func NewUploadHandler(svc service.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{svc: svc, logger: logger}
}

type deleteUploadRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// UploadImage godoc
// @Summary      Upload image
// @Description  Gambar obra, logo, tanda tangan, atau background sertifikat (JPG/PNG/WEBP, maks 10MB)
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image file"
// @Security     BearerAuth
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      503   {object}  response.Response
// @Router       /uploads/image [post]
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, service.UploadImage, utils.MaxImageFileSize)
}

// UploadAudio godoc
// @Summary      Upload audio
// @Description  Audio guide obra (MP3/WAV/OGG, maks 30MB)
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Audio file"
// @Security     BearerAuth
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      503   {object}  response.Response
// @Router       /uploads/audio [post]
func (h *UploadHandler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, service.UploadAudio, utils.MaxAudioFileSize)
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request, kind service.UploadKind, maxSize int64) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		response.BadRequest(w, "File terlalu besar atau format tidak valid", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "File tidak ditemukan dalam request", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalError(w, "Gagal membaca file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	result, err := h.svc.Upload(r.Context(), actorFrom(r), kind, data, contentType)
	if err != nil {
		writeError(w, h.logger, err, "Gagal mengunggah file")
		return
	}
	response.Created(w, "File berhasil diunggah", result)
}

// Delete godoc
// @Summary      Delete uploaded file
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        request  body      deleteUploadRequest  true  "URL file"
// @Security     BearerAuth
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /uploads [delete]
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteUploadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.Delete(r.Context(), actorFrom(r), req.URL); err != nil {
		writeError(w, h.logger, err, "Gagal menghapus file")
		return
	}
	response.Success(w, "File berhasil dihapus", nil)
}
