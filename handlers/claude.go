package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"penbridge/apierr"
	"penbridge/models"
)

// Claude relays the upstream JSON verbatim on success.
func (h *Handler) Claude(c *gin.Context) {
	var req models.ClaudeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "Claude", apierr.BadRequest("Invalid request body"))
		return
	}

	body, err := h.chat.Complete(c.Request.Context(), req.Prompt, req.SystemPrompt)
	if err != nil {
		h.respondError(c, "Claude", err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
