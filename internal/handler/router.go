package handler

import "github.com/gin-gonic/gin"

// Handlers 汇总了所有需要注册路由的控制器。
type Handlers struct {
	Roleplay     *RoleplayHandler
	Catalog      *CatalogHandler
	Speech       *SpeechHandler
	Health       *HealthHandler
	Chat         *ChatHandler
	Conversation *ConversationHandler
}

// RegisterRoutes 注册对外暴露的全部路由。
func RegisterRoutes(r gin.IRouter, h Handlers) {
	r.GET("/health", h.Health.Health)

	r.GET("/personas", h.Catalog.ListPersonas)
	r.GET("/scenarios", h.Catalog.ListScenarios)

	r.POST("/ask-client", h.Roleplay.AskClient)
	r.POST("/end-conversation", h.Roleplay.EndConversation)
	r.POST("/text-to-speech", h.Speech.TextToSpeech)
	r.GET("/conversation/:sessionId", h.Conversation.GetConversation)

	// 流式对话 (WebSocket)
	r.GET("/ws/ask-client", h.Chat.Handle)
}
