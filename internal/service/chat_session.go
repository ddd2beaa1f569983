package service

import (
	"strings"
	"sync"

	"github.com/docuassist/backend/internal/pkg/ollama"
	"github.com/docuassist/backend/internal/service/statemachine"
)

// ChatSession 单个会话的内存状态
// 进程重启即丢失；文档和模板才是持久产物
type ChatSession struct {
	ID                 string
	State              statemachine.ConversationState
	Messages           []ollama.ChatMessage
	SelectedTemplateID string
	CollectedValues    map[string]any
	GeneratedDocument  string
	DocumentTitle      string
}

func newChatSession(id string) *ChatSession {
	return &ChatSession{
		ID:              id,
		State:           statemachine.StateIdle,
		CollectedValues: map[string]any{},
	}
}

// SessionStore 进程内会话表
// 锁只保护 map 本身的读写；同一会话的并发回合不做协调，后写覆盖
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*ChatSession
}

// NewSessionStore 创建会话表
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*ChatSession)}
}

// GetOrCreate 取会话，不存在则新建
func (s *SessionStore) GetOrCreate(id string) *ChatSession {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess = newChatSession(id)
	s.sessions[id] = sess
	return sess
}

// Reset 丢弃全部历史，换一个全新会话
func (s *SessionStore) Reset(id string) *ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := newChatSession(id)
	s.sessions[id] = sess
	return sess
}

// resetCommands 整条消息去空白小写后精确匹配
var resetCommands = map[string]bool{
	"reset":      true,
	"start over": true,
	"cancel":     true,
	"new":        true,
	"clear":      true,
}

func isResetCommand(message string) bool {
	return resetCommands[strings.ToLower(strings.TrimSpace(message))]
}
