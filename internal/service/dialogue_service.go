// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"
	"math/rand"
	"roleplay-coach-go/internal/catalog"
	"roleplay-coach-go/internal/config"
	"roleplay-coach-go/internal/model"
	"roleplay-coach-go/internal/prompt"
	"roleplay-coach-go/internal/repository"
	"roleplay-coach-go/pkg/llm"
	"roleplay-coach-go/pkg/log"
	"roleplay-coach-go/pkg/metrics"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// 模型不可用时随机选择的降级回复
var fallbackReplies = []string{
	"Could someone please assist me?",
	"Hello? Is anyone there to help?",
	"I am still waiting for a response.",
	"Can I get some help here please?",
	"Is there anyone available to resolve my issue?",
}

// 模型返回空内容时使用的回复
const silentReply = "The customer seems momentarily silent, waiting for your reply."

// TurnRequest 是一次学员发言。SessionID 为空时由服务端生成。
type TurnRequest struct {
	Message        string
	PersonaID      string
	ScenarioID     string
	SessionID      string
	IsFirstMessage bool
}

// TurnResult 是一次发言对应的客户回复。
type TurnResult struct {
	Reply     string
	SessionID string
	// Degraded 为 true 表示 Reply 是降级回复而不是模型生成的内容
	Degraded bool
}

// GenerationError 表示文本生成失败；Result 中携带了降级回复。
type GenerationError struct {
	SessionID string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("AI model unavailable: %v. Please check your API key or try a different model.", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// DialogueService 定义了对话回合的接口。
type DialogueService interface {
	// HandleTurn 处理一次发言。生成失败时同时返回降级结果与 *GenerationError。
	// onChunk 可为 nil，非 nil 时会收到模型流式返回的每个分块。
	HandleTurn(ctx context.Context, req TurnRequest, onChunk llm.ChunkHandler) (*TurnResult, error)
}

type dialogueService struct {
	sessions  repository.SessionRepository
	llmClient llm.Client
	gen       *llm.GenerationParams
	timeout   time.Duration
	metrics   *metrics.Metrics

	fallbackMu   sync.Mutex
	fallbackRand *rand.Rand

	seq atomic.Uint64
	now func() time.Time
}

// NewDialogueService 创建一个新的 DialogueService 实例。
func NewDialogueService(sessions repository.SessionRepository, llmClient llm.Client, llmCfg config.LLMConfig, dialogueCfg config.DialogueConfig, m *metrics.Metrics) DialogueService {
	seed := dialogueCfg.FallbackSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	timeout := llmCfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &dialogueService{
		sessions:     sessions,
		llmClient:    llmClient,
		gen:          llm.GenerationFromConfig(llmCfg.Generation),
		timeout:      timeout,
		metrics:      m,
		fallbackRand: rand.New(rand.NewSource(seed)),
		now:          time.Now,
	}
}

func (s *dialogueService) HandleTurn(ctx context.Context, req TurnRequest, onChunk llm.ChunkHandler) (*TurnResult, error) {
	// 1. 校验人设与场景，失败时不触碰会话状态
	persona, err := catalog.LookupPersona(req.PersonaID)
	if err != nil {
		s.metrics.ObserveTurn(metrics.OutcomeInvalid)
		return nil, err
	}
	scenario, err := catalog.LookupScenario(req.ScenarioID)
	if err != nil {
		s.metrics.ObserveTurn(metrics.OutcomeInvalid)
		return nil, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.newSessionID(persona.ID, scenario.ID)
	}

	// 2. 首条消息：重置会话并直接返回脚本化开场白，不调用模型
	if req.IsFirstMessage {
		s.sessions.Reset(sessionID, string(persona.ID), string(scenario.ID))
		s.metrics.ObserveTurn(metrics.OutcomeOpening)
		log.Infow("Session opened", "sessionId", sessionID, "persona", persona.ID, "scenario", scenario.ID)
		return &TurnResult{Reply: scenario.InitialComplaint, SessionID: sessionID}, nil
	}

	// 3. 组装 system + 历史 + 本轮发言
	session := s.sessions.GetOrCreate(sessionID, string(persona.ID), string(scenario.ID))
	messages := composeMessages(prompt.Compose(persona, scenario), session.Turns, req.Message)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	reply, err := s.llmClient.StreamChatMessages(genCtx, messages, s.gen, onChunk)
	s.metrics.ObserveGeneration(time.Since(start))
	if err != nil {
		fallback := s.pickFallback()
		s.metrics.ObserveTurn(metrics.OutcomeDegraded)
		log.Errorw("Text generation failed, returning fallback reply",
			"sessionId", sessionID,
			"persona", persona.ID,
			"scenario", scenario.ID,
			"error", err,
		)
		return &TurnResult{Reply: fallback, SessionID: sessionID, Degraded: true}, &GenerationError{SessionID: sessionID, Err: err}
	}
	if strings.TrimSpace(reply) == "" {
		reply = silentReply
	}

	// 4. 记录本轮
	turn := model.Turn{LearnerMessage: req.Message, CustomerMessage: reply, Timestamp: s.now()}
	if err := s.sessions.Append(sessionID, turn); err != nil {
		// 生成期间会话被结束，回复仍然返回给调用方
		log.Warnw("Session ended before turn could be recorded", "sessionId", sessionID, "error", err)
	}
	s.metrics.ObserveTurn(metrics.OutcomeReply)
	return &TurnResult{Reply: reply, SessionID: sessionID}, nil
}

// newSessionID 生成 <persona>-<scenario>-<毫秒时间戳>-<序号>，序号保证同一毫秒内并发创建也不会冲突。
func (s *dialogueService) newSessionID(persona catalog.PersonaID, scenario catalog.ScenarioID) string {
	return fmt.Sprintf("%s-%s-%d-%d", persona, scenario, s.now().UnixMilli(), s.seq.Add(1))
}

func (s *dialogueService) pickFallback() string {
	s.fallbackMu.Lock()
	defer s.fallbackMu.Unlock()
	return fallbackReplies[s.fallbackRand.Intn(len(fallbackReplies))]
}

// composeMessages 将每个历史回合展开为 user/assistant 两条消息。
func composeMessages(systemMsg string, history []model.Turn, learnerMessage string) []llm.Message {
	msgs := make([]llm.Message, 0, 2*len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: systemMsg})
	for _, t := range history {
		msgs = append(msgs,
			llm.Message{Role: llm.RoleUser, Content: t.LearnerMessage},
			llm.Message{Role: llm.RoleAssistant, Content: t.CustomerMessage},
		)
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: learnerMessage})
	return msgs
}
