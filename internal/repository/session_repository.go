// Package repository 提供了数据访问层的实现。
package repository

import (
	"errors"
	"roleplay-coach-go/internal/model"
	"sync"
	"time"
)

// ErrSessionNotFound 表示在会话创建之前就尝试追加回合。
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository 定义了训练会话的操作接口。
// 会话只存在于进程内存中，进程重启后全部丢失。
type SessionRepository interface {
	// GetOrCreate 返回已有会话的回合历史副本，不存在时创建空会话。
	GetOrCreate(sessionID, personaID, scenarioID string) model.Session
	// Append 追加一个回合；会话不存在时返回 ErrSessionNotFound。
	Append(sessionID string, turn model.Turn) error
	// Reset 清空会话的回合历史（不存在时创建）。
	Reset(sessionID, personaID, scenarioID string)
	// History 返回会话回合的只读副本。
	History(sessionID string) ([]model.Turn, error)
	// End 移除会话并返回其完整历史；未知会话返回空会话。
	End(sessionID string) (model.Session, bool)
	// Count 返回当前存活的会话数量。
	Count() int
}

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	now      func() time.Time
}

// NewSessionRepository 创建一个基于内存的 SessionRepository 实例。
func NewSessionRepository() SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*model.Session),
		now:      time.Now,
	}
}

func (r *memorySessionRepository) GetOrCreate(sessionID, personaID, scenarioID string) model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		s = r.newSession(sessionID, personaID, scenarioID)
		r.sessions[sessionID] = s
	}
	return snapshot(s)
}

func (r *memorySessionRepository) Append(sessionID string, turn model.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.Turns = append(s.Turns, turn)
	return nil
}

func (r *memorySessionRepository) Reset(sessionID, personaID, scenarioID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = r.newSession(sessionID, personaID, scenarioID)
}

func (r *memorySessionRepository) History(sessionID string) ([]model.Turn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return snapshot(s).Turns, nil
}

func (r *memorySessionRepository) End(sessionID string) (model.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return model.Session{ID: sessionID, Turns: []model.Turn{}}, false
	}
	delete(r.sessions, sessionID)
	// 会话已从 map 中移除，无需再拷贝
	return *s, true
}

func (r *memorySessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *memorySessionRepository) newSession(sessionID, personaID, scenarioID string) *model.Session {
	return &model.Session{
		ID:         sessionID,
		PersonaID:  personaID,
		ScenarioID: scenarioID,
		CreatedAt:  r.now(),
		Turns:      []model.Turn{},
	}
}

// snapshot 拷贝回合切片，调用方对返回值的修改不会影响仓库中的状态。
func snapshot(s *model.Session) model.Session {
	out := *s
	out.Turns = make([]model.Turn, len(s.Turns))
	copy(out.Turns, s.Turns)
	return out
}
