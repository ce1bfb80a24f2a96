// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"roleplay-coach-go/internal/catalog"
	"roleplay-coach-go/internal/model"
	"roleplay-coach-go/internal/service"
	"roleplay-coach-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AskClientRequest 是 /ask-client 与 /ws/ask-client 的请求体。
type AskClientRequest struct {
	Message        string `json:"message"`
	Persona        string `json:"persona"`
	Scenario       string `json:"scenario"`
	SessionID      string `json:"sessionId"`
	IsFirstMessage bool   `json:"isFirstMessage"`
}

func (r AskClientRequest) toTurn() service.TurnRequest {
	return service.TurnRequest{
		Message:        r.Message,
		PersonaID:      r.Persona,
		ScenarioID:     r.Scenario,
		SessionID:      r.SessionID,
		IsFirstMessage: r.IsFirstMessage,
	}
}

// EndConversationRequest 是 /end-conversation 的请求体。
type EndConversationRequest struct {
	SessionID string `json:"sessionId"`
	Persona   string `json:"persona"`
	Scenario  string `json:"scenario"`
}

// RoleplayHandler 处理对话回合与结束会话的请求。
type RoleplayHandler struct {
	dialogue   service.DialogueService
	evaluation service.EvaluationService
}

// NewRoleplayHandler 创建一个新的 RoleplayHandler。
func NewRoleplayHandler(dialogue service.DialogueService, evaluation service.EvaluationService) *RoleplayHandler {
	return &RoleplayHandler{dialogue: dialogue, evaluation: evaluation}
}

// AskClient 处理一次学员发言并返回模拟客户的回复。
func (h *RoleplayHandler) AskClient(c *gin.Context) {
	var req AskClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	res, err := h.dialogue.HandleTurn(c.Request.Context(), req.toTurn(), nil)
	if err != nil {
		status, body := turnErrorResponse(err, res)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":   res.Reply,
		"evaluation": model.TurnEvaluation{},
		"sessionId":  res.SessionID,
	})
}

// EndConversation 结束会话并返回评估报告；未知会话返回基线报告。
func (h *RoleplayHandler) EndConversation(c *gin.Context) {
	var req EndConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	report := h.evaluation.EndSession(c.Request.Context(), service.EndSessionRequest{
		SessionID:  req.SessionID,
		PersonaID:  req.Persona,
		ScenarioID: req.Scenario,
	})
	c.JSON(http.StatusOK, report)
}

// turnErrorResponse 将回合错误映射为状态码与响应体，HTTP 与 WebSocket 共用。
func turnErrorResponse(err error, res *service.TurnResult) (int, gin.H) {
	var genErr *service.GenerationError
	switch {
	case errors.Is(err, catalog.ErrUnknownPersona):
		return http.StatusBadRequest, gin.H{"error": "Invalid persona"}
	case errors.Is(err, catalog.ErrUnknownScenario):
		return http.StatusBadRequest, gin.H{"error": "Invalid scenario"}
	case errors.As(err, &genErr) && res != nil:
		return http.StatusServiceUnavailable, gin.H{
			"error":        true,
			"errorMessage": genErr.Error(),
			"response":     res.Reply,
			"evaluation":   model.TurnEvaluation{},
			"sessionId":    res.SessionID,
		}
	default:
		log.Error("Unexpected error handling turn", err)
		return http.StatusInternalServerError, gin.H{"error": "Internal server error"}
	}
}
