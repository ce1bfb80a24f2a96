package handler

import (
	"errors"
	"net/http"
	"roleplay-coach-go/internal/repository"
	"roleplay-coach-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ConversationHandler 处理会话记录查询请求。
type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler。
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// GetConversation 返回进行中会话的回合记录。
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	sessionID := c.Param("sessionId")

	turns, err := h.service.GetConversationHistory(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversation history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"turns":     turns,
	})
}
