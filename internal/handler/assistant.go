package handler

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"roomie/internal/model"
	"roomie/internal/service"
)

// Asker answers one question. Implemented by *service.Assistant.
type Asker interface {
	Ask(ctx context.Context, message string) *model.AskResponse
}

// AssistantHandler handles assistant HTTP requests
type AssistantHandler struct {
	assistant Asker
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistant Asker) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Ask handles POST /api/v1/ai and POST /ai
func (h *AssistantHandler) Ask(c *gin.Context) {
	reqID := service.RequestIDFrom(c.Request.Context())

	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[Handler][%s] ⚠️ Invalid request: %v", reqID, err)
		c.JSON(http.StatusBadRequest, model.AskResponse{Response: service.ReplyEmptyMessage})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, model.AskResponse{Response: service.ReplyEmptyMessage})
		return
	}

	log.Printf("[Handler][%s] 📨 Question (%d chars)", reqID, len(req.Message))
	c.JSON(http.StatusOK, h.assistant.Ask(c.Request.Context(), req.Message))
}
