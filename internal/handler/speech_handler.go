package handler

import (
	"errors"
	"net/http"
	"roleplay-coach-go/internal/service"
	"roleplay-coach-go/pkg/log"

	"github.com/gin-gonic/gin"
)

type textToSpeechRequest struct {
	Text    string `json:"text"`
	Persona string `json:"persona"`
}

// SpeechHandler 处理文本转语音请求。
type SpeechHandler struct {
	speech service.SpeechService
}

// NewSpeechHandler 创建一个新的 SpeechHandler。
func NewSpeechHandler(speech service.SpeechService) *SpeechHandler {
	return &SpeechHandler{speech: speech}
}

// TextToSpeech 以人设音色合成文本，返回 audio/mpeg。
func (h *SpeechHandler) TextToSpeech(c *gin.Context) {
	var req textToSpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text and persona are required"})
		return
	}

	audio, err := h.speech.Synthesize(c.Request.Context(), req.Text, req.Persona)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSpeechRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text and persona are required"})
			return
		}
		log.Errorw("Text-to-speech failed", "persona", req.Persona, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate speech"})
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", audio)
}
