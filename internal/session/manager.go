package session

import (
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// Session 一通电话的隔离状态，按房间/会话 id 区分
// 同一通电话内工具调用是顺序执行的，字段本身不加锁
type Session struct {
	ID              string           `json:"id"`
	CreatedAt       time.Time        `json:"created_at"`
	CallNotes       []CallNote       `json:"call_notes"`
	QuoteRequests   []QuoteRequest   `json:"quote_requests"`
	MessageRequests []MessageRequest `json:"message_requests"`
	Customer        CustomerContext  `json:"customer"`
}

// AddCallNote 追加通话记录，追加后不再修改
func (s *Session) AddCallNote(note CallNote) {
	s.CallNotes = append(s.CallNotes, note)
}

func (s *Session) AddQuoteRequest(q QuoteRequest) {
	s.QuoteRequests = append(s.QuoteRequests, q)
}

func (s *Session) AddMessageRequest(m MessageRequest) {
	s.MessageRequests = append(s.MessageRequests, m)
}

// Manager 按会话 id 管理 Session
// 跨通话并发只发生在这张表上：增删查都在锁内
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate 首次访问时懒创建
// 会话销毁后复用同一 id 会得到全新状态，不会看到旧数据
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}

	s = &Session{
		ID:        id,
		CreatedAt: time.Now(),
	}
	m.sessions[id] = s
	klog.V(6).Infof("[SessionManager] 创建会话: id=%s", id)
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete 销毁会话，幂等：删除不存在的 id 是 no-op
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		klog.V(6).Infof("[SessionManager] 销毁会话: id=%s", id)
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
