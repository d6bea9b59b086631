package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"penbridge/apierr"
	"penbridge/models"
)

// Transcribe accepts a multipart upload with an audio "file" field.
func (h *Handler) Transcribe(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.respondError(c, "Transcribe", apierr.BadRequest("Failed to parse form data"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, "Transcribe", apierr.BadRequest("No audio file provided"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, "Transcribe", apierr.Internal(err))
		return
	}
	defer file.Close()

	text, err := h.transcriber.Transcribe(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		h.respondError(c, "Transcribe", err)
		return
	}

	c.JSON(http.StatusOK, models.TranscribeResponse{Transcription: text})
}
