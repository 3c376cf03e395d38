package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-cms/helper"
	"blog-cms/models"
	"blog-cms/services"
)

// multipartOverhead leaves room for the form fields around the file part.
const multipartOverhead = 1 << 20

type MediaHandler struct {
	media    services.MediaService
	maxBytes int64
	Helper   *helper.HTTPHelper
}

func NewMediaHandler(media services.MediaService, maxBytes int64, h *helper.HTTPHelper) *MediaHandler {
	return &MediaHandler{media: media, maxBytes: maxBytes, Helper: h}
}

func (h *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	if err := c.Request.ParseMultipartForm(h.maxBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Helper.SendServiceError(c, services.FileTooLarge(h.maxBytes))
			return
		}
	}

	var req models.UploadMediaRequest
	if !h.Helper.BindForm(c, &req) {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.Helper.SendError(c, http.StatusUnprocessableEntity, "The file field is required.")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.Helper.SendError(c, http.StatusUnprocessableEntity, "The file failed to upload.")
		return
	}
	defer file.Close()

	media, err := h.media.Upload(c.Request.Context(), req.ArticleUUID, ownerID(c), services.UploadedFile{
		Name:    header.Filename,
		Size:    header.Size,
		Content: file,
	})
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendPayload(c, http.StatusOK, "Media uploaded", gin.H{"media": toMediaResponse(*media)})
}

func (h *MediaHandler) ListForArticle(c *gin.Context) {
	media, err := h.media.ListForArticle(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	out := make([]models.MediaResponse, 0, len(media))
	for _, m := range media {
		out = append(out, toMediaResponse(m))
	}
	h.Helper.SendPayload(c, http.StatusOK, "Media loaded", gin.H{"media": out})
}

func toMediaResponse(m models.Media) models.MediaResponse {
	return models.MediaResponse{
		ID:       m.ID,
		URL:      m.URL,
		Filename: m.OriginalName,
		MimeType: m.MimeType,
	}
}
