package service

import (
	"context"
	"roleplay-coach-go/internal/model"
	"roleplay-coach-go/internal/repository"
)

// ConversationService 定义了会话记录查询的接口。
type ConversationService interface {
	// GetConversationHistory 返回进行中会话的回合副本，未知会话返回 repository.ErrSessionNotFound。
	GetConversationHistory(ctx context.Context, sessionID string) ([]model.Turn, error)
}

type conversationService struct {
	repo repository.SessionRepository
}

// NewConversationService 创建一个新的 ConversationService。
func NewConversationService(repo repository.SessionRepository) ConversationService {
	return &conversationService{repo: repo}
}

func (s *conversationService) GetConversationHistory(_ context.Context, sessionID string) ([]model.Turn, error) {
	return s.repo.History(sessionID)
}
