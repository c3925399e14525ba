package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/errs"
	"github.com/rpupo63/reelbyte-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type mediaHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  *storage.Uploader
}

func newMediaHandler(uploader *storage.Uploader) *mediaHandler {
	logger := log.With().Str("handlerName", "mediaHandler").Logger()

	return &mediaHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
	}
}

// createUpload issues a presigned URL for uploading a sample video or image
// @Summary Create media upload
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body storage.UploadRequest true "File to upload"
// @Success 201 {object} storage.Upload
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid file description"
// @Failure 413 {object} ErrorResponse "Request Entity Too Large - File exceeds the size limit"
// @Failure 415 {object} ErrorResponse "Unsupported Media Type - Not a video or image"
// @Router /media/uploads [post]
func (h *mediaHandler) createUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := uuid.Parse(ctxGetClaims(r.Context()).Subject)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidTokenError(err))
			return
		}

		var req storage.UploadRequest
		if err := decodeJSON(w, r, "upload", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		upload, err := h.uploader.Presign(r.Context(), owner, req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("key", upload.Key).Int64("sizeBytes", req.SizeBytes).Msg("upload presigned")
		h.responder.WriteJSONStatus(w, http.StatusCreated, upload)
	}
}
