package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/config"
	"github.com/weibaohui/openreceptionist/internal/eventbus"
	"github.com/weibaohui/openreceptionist/internal/model"
	"github.com/weibaohui/openreceptionist/internal/pkg/directory"
	"github.com/weibaohui/openreceptionist/internal/pkg/officehours"
	"github.com/weibaohui/openreceptionist/internal/repository"
	"github.com/weibaohui/openreceptionist/internal/service/receptionist"
	"github.com/weibaohui/openreceptionist/internal/service/receptionist/tools"
	"github.com/weibaohui/openreceptionist/internal/session"
)

// CallService 管理通话的生命周期
// 会话状态、工具分发器、Agent 都按通话隔离，结束时统一销毁
type CallService struct {
	cfg      *config.Config
	sessions *session.Manager
	bus      *eventbus.CallEventBus
	callRepo repository.CallRepository

	deps      tools.Deps
	chatModel einomodel.ToolCallingChatModel

	mu          sync.RWMutex
	dispatchers map[string]*tools.Dispatcher
	agents      map[string]*receptionist.Agent
}

// CallStatus 一通电话的当前状态摘要
type CallStatus struct {
	SessionID       string     `json:"session_id"`
	Active          bool       `json:"active"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	CallNotes       int        `json:"call_notes"`
	QuoteRequests   int        `json:"quote_requests"`
	MessageRequests int        `json:"message_requests"`
	LookupSucceeded bool       `json:"lookup_succeeded"`
}

func NewCallService(cfg *config.Config, sessions *session.Manager, bus *eventbus.CallEventBus,
	callRepo repository.CallRepository, dirClient directory.Client) *CallService {
	return &CallService{
		cfg:      cfg,
		sessions: sessions,
		bus:      bus,
		callRepo: callRepo,
		deps: tools.Deps{
			Sessions:  sessions,
			Directory: dirClient,
			Hours:     officehours.MustNew(cfg.Office.TimeZone),
		},
		dispatchers: make(map[string]*tools.Dispatcher),
		agents:      make(map[string]*receptionist.Agent),
	}
}

// SetChatModel 注入大模型
// 未注入时 Chat 不可用，工具直调接口不受影响
func (s *CallService) SetChatModel(m einomodel.ToolCallingChatModel) {
	s.chatModel = m
}

// Start 建立一通电话
// sessionID 为空时自动生成；重复 Start 同一 id 幂等返回现有会话
func (s *CallService) Start(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.mu.Lock()
	if _, ok := s.dispatchers[sessionID]; ok {
		s.mu.Unlock()
		klog.V(6).Infof("[CallService] 通话已存在，幂等返回: sessionID=%s", sessionID)
		return sessionID, nil
	}
	s.sessions.GetOrCreate(sessionID)
	s.dispatchers[sessionID] = tools.NewDispatcher(sessionID, s.deps)

	if s.chatModel != nil {
		agent, err := receptionist.NewAgent(ctx, sessionID, s.chatModel, s.deps)
		if err != nil {
			// Agent 建不起来不阻塞通话：工具直调仍然可用
			klog.Errorf("[CallService] 创建 Agent 失败，仅启用工具直调: sessionID=%s, err=%v", sessionID, err)
		} else {
			s.agents[sessionID] = agent
		}
	}
	s.mu.Unlock()

	if s.callRepo != nil {
		call := &model.Call{SessionID: sessionID, StartedAt: time.Now()}
		if err := s.callRepo.Create(call); err != nil {
			klog.Errorf("[CallService] 通话落库失败: sessionID=%s, err=%v", sessionID, err)
		}
	}

	if err := s.bus.Publish(ctx, eventbus.CallEventStarted, eventbus.CallEvent{
		Type:      eventbus.CallEventStarted,
		SessionID: sessionID,
		At:        time.Now(),
	}); err != nil {
		klog.Errorf("[CallService] 通话开始事件发布失败: sessionID=%s, err=%v", sessionID, err)
	}

	klog.V(6).Infof("[CallService] 通话建立: sessionID=%s", sessionID)
	return sessionID, nil
}

// End 结束一通电话
// 先发布结束事件让订阅方落库，再销毁本地状态；重复调用幂等
func (s *CallService) End(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	_, active := s.dispatchers[sessionID]
	delete(s.dispatchers, sessionID)
	delete(s.agents, sessionID)
	s.mu.Unlock()

	if !active {
		if _, ok := s.sessions.Get(sessionID); !ok {
			klog.V(6).Infof("[CallService] 通话不存在或已结束，忽略: sessionID=%s", sessionID)
			return nil
		}
	}

	// 订阅方负责把会话内容落库并删除会话
	if err := s.bus.Publish(ctx, eventbus.CallEventEnded, eventbus.CallEvent{
		Type:      eventbus.CallEventEnded,
		SessionID: sessionID,
		At:        time.Now(),
	}); err != nil {
		klog.Errorf("[CallService] 通话结束事件处理出错: sessionID=%s, err=%v", sessionID, err)
		return err
	}

	klog.V(6).Infof("[CallService] 通话结束: sessionID=%s", sessionID)
	return nil
}

// InvokeTool 在指定通话内直接调用一个工具
// 语音管道和 HTTP 接口共用这条路径
func (s *CallService) InvokeTool(ctx context.Context, sessionID, toolName, arguments string) (string, error) {
	s.mu.RLock()
	d, ok := s.dispatchers[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("call not found: %s", sessionID)
	}
	return d.Invoke(ctx, toolName, arguments)
}

// Chat 把来电人的一句话交给 Agent 处理
func (s *CallService) Chat(ctx context.Context, sessionID, userInput string) (string, error) {
	s.mu.RLock()
	agent, ok := s.agents[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no agent for call: %s", sessionID)
	}
	return agent.Chat(ctx, userInput)
}

// Tools 返回指定通话可用的工具名
func (s *CallService) Tools(sessionID string) ([]string, error) {
	s.mu.RLock()
	d, ok := s.dispatchers[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("call not found: %s", sessionID)
	}
	return d.Names(), nil
}

// Status 返回一通电话的状态摘要，不含任何个人信息
func (s *CallService) Status(sessionID string) (*CallStatus, error) {
	s.mu.RLock()
	_, active := s.dispatchers[sessionID]
	s.mu.RUnlock()

	status := &CallStatus{
		SessionID: sessionID,
		Active:    active,
	}

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		if !active {
			return nil, fmt.Errorf("call not found: %s", sessionID)
		}
		return status, nil
	}

	createdAt := sess.CreatedAt
	status.CreatedAt = &createdAt
	status.CallNotes = len(sess.CallNotes)
	status.QuoteRequests = len(sess.QuoteRequests)
	status.MessageRequests = len(sess.MessageRequests)
	status.LookupSucceeded = sess.Customer.LookupSuccessful
	return status, nil
}

// ActiveCalls 当前进行中的通话数
func (s *CallService) ActiveCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dispatchers)
}
