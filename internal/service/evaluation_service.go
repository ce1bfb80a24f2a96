package service

import (
	"context"
	"roleplay-coach-go/internal/model"
	"roleplay-coach-go/internal/repository"
	"roleplay-coach-go/internal/scoring"
	"roleplay-coach-go/pkg/events"
	"roleplay-coach-go/pkg/log"
	"roleplay-coach-go/pkg/metrics"
	"sync"
	"time"
)

const publishTimeout = 5 * time.Second

// EventPublisher 发布会话评分事件。
type EventPublisher interface {
	PublishSessionScored(ctx context.Context, event events.SessionScored) error
}

type noopPublisher struct{}

// NewNoopPublisher 返回一个丢弃所有事件的 EventPublisher。
func NewNoopPublisher() EventPublisher { return noopPublisher{} }

func (noopPublisher) PublishSessionScored(context.Context, events.SessionScored) error { return nil }

// EndSessionRequest 标识要结束的会话，PersonaID/ScenarioID 仅用于补全事件信息。
type EndSessionRequest struct {
	SessionID  string
	PersonaID  string
	ScenarioID string
}

// EvaluationService 定义了结束会话并生成评估报告的接口。
type EvaluationService interface {
	// EndSession 移除会话并返回评分报告；未知会话按空历史计分，从不失败。
	EndSession(ctx context.Context, req EndSessionRequest) model.ScoreReport
	// Wait 等待所有后台事件发布完成。
	Wait()
}

type evaluationService struct {
	sessions  repository.SessionRepository
	publisher EventPublisher
	metrics   *metrics.Metrics
	pending   sync.WaitGroup
	now       func() time.Time
}

// NewEvaluationService 创建一个新的 EvaluationService 实例。
func NewEvaluationService(sessions repository.SessionRepository, publisher EventPublisher, m *metrics.Metrics) EvaluationService {
	if publisher == nil {
		publisher = NewNoopPublisher()
	}
	return &evaluationService{
		sessions:  sessions,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *evaluationService) EndSession(ctx context.Context, req EndSessionRequest) model.ScoreReport {
	session, found := s.sessions.End(req.SessionID)
	report := scoring.Score(session.Turns)
	s.metrics.ObserveSessionEnded(report.OverallScore)

	log.Infow("Session ended",
		"sessionId", req.SessionID,
		"found", found,
		"turns", len(session.Turns),
		"overallScore", report.OverallScore,
	)

	if found {
		event := events.SessionScored{
			SessionID:       session.ID,
			PersonaID:       firstNonEmpty(session.PersonaID, req.PersonaID),
			ScenarioID:      firstNonEmpty(session.ScenarioID, req.ScenarioID),
			TurnCount:       len(session.Turns),
			OverallScore:    report.OverallScore,
			Metrics:         report.Metrics,
			Recommendations: report.Recommendations,
			StartedAt:       session.CreatedAt,
			EndedAt:         s.now(),
		}
		s.publishAsync(ctx, event)
	}
	return report
}

// publishAsync 在后台发布事件，即使原始请求已结束也继续发送。
func (s *evaluationService) publishAsync(ctx context.Context, event events.SessionScored) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := s.publisher.PublishSessionScored(pubCtx, event); err != nil {
			log.Errorw("Failed to publish session event", "sessionId", event.SessionID, "error", err)
		}
	}()
}

func (s *evaluationService) Wait() {
	s.pending.Wait()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
