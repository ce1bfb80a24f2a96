package handler

import (
	"encoding/json"
	"net/http"
	"roleplay-coach-go/internal/service"
	"roleplay-coach-go/pkg/log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // 允许所有来源
		},
	}
)

// ChatHandler 通过 WebSocket 以流式方式返回客户回复。
type ChatHandler struct {
	dialogue service.DialogueService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(dialogue service.DialogueService) *ChatHandler {
	return &ChatHandler{dialogue: dialogue}
}

// Handle 处理一个传入的 WebSocket 连接。每条入站消息都是一个 AskClientRequest。
func (h *ChatHandler) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立: %s", c.ClientIP())

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("从 WebSocket 读取消息失败: %v", err)
			}
			break
		}

		var req AskClientRequest
		if err := json.Unmarshal(message, &req); err != nil {
			if werr := writeJSON(conn, gin.H{"type": "error", "status": http.StatusBadRequest, "error": "Invalid request body"}); werr != nil {
				break
			}
			continue
		}

		res, err := h.dialogue.HandleTurn(c.Request.Context(), req.toTurn(), func(chunk string) error {
			return writeJSON(conn, gin.H{"chunk": chunk})
		})
		if err != nil {
			status, body := turnErrorResponse(err, res)
			body["type"] = "error"
			body["status"] = status
			if werr := writeJSON(conn, body); werr != nil {
				break
			}
			// 降级回复同样以 completion 结束，客户端可统一处理
			if res == nil {
				continue
			}
		}

		if err := writeJSON(conn, gin.H{
			"type":      "completion",
			"status":    "finished",
			"response":  res.Reply,
			"sessionId": res.SessionID,
			"timestamp": time.Now().UnixMilli(),
		}); err != nil {
			log.Warnf("发送 completion 通知失败: %v", err)
			break
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, b)
}
