package subscriber

import (
	"context"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/internal/eventbus"
	"github.com/weibaohui/openreceptionist/internal/model"
	"github.com/weibaohui/openreceptionist/internal/repository"
	"github.com/weibaohui/openreceptionist/internal/session"
)

// CallEventSubscriber 通话结束时把会话内容落库并销毁会话
// 内存会话是唯一的真相来源，落库只为办公室回访，不回读进通话
type CallEventSubscriber struct {
	sessions    *session.Manager
	callRepo    repository.CallRepository
	noteRepo    repository.CallNoteRepository
	quoteRepo   repository.QuoteRequestRepository
	messageRepo repository.MessageRequestRepository
}

func NewCallEventSubscriber(sessions *session.Manager, callRepo repository.CallRepository,
	noteRepo repository.CallNoteRepository, quoteRepo repository.QuoteRequestRepository,
	messageRepo repository.MessageRequestRepository) *CallEventSubscriber {
	return &CallEventSubscriber{
		sessions:    sessions,
		callRepo:    callRepo,
		noteRepo:    noteRepo,
		quoteRepo:   quoteRepo,
		messageRepo: messageRepo,
	}
}

func (s *CallEventSubscriber) Register(bus *eventbus.CallEventBus) {
	if bus == nil {
		return
	}
	bus.Subscribe(eventbus.CallEventStarted, s.handleCallStarted)
	bus.Subscribe(eventbus.CallEventEnded, s.handleCallEnded)
}

func (s *CallEventSubscriber) handleCallStarted(ctx context.Context, event eventbus.CallEvent) error {
	klog.V(6).Infof("通话开始事件处理成功: sessionID=%s", event.SessionID)
	return nil
}

// handleCallEnded 落库后删除会话
// 会话不存在时直接返回，保证重复结束幂等
func (s *CallEventSubscriber) handleCallEnded(ctx context.Context, event eventbus.CallEvent) error {
	sess, ok := s.sessions.Get(event.SessionID)
	if !ok {
		klog.V(6).Infof("通话结束事件: 会话不存在，跳过落库: sessionID=%s", event.SessionID)
		return nil
	}

	// 落库失败只记日志不中断：会话销毁优先，避免下通电话看到旧数据
	s.flush(sess)
	s.sessions.Delete(event.SessionID)

	klog.V(6).Infof("通话结束事件处理成功: sessionID=%s, notes=%d, quotes=%d, messages=%d",
		event.SessionID, len(sess.CallNotes), len(sess.QuoteRequests), len(sess.MessageRequests))
	return nil
}

func (s *CallEventSubscriber) flush(sess *session.Session) {
	if s.callRepo != nil {
		if err := s.callRepo.MarkEnded(sess.ID, time.Now()); err != nil {
			klog.Errorf("通话结束时间落库失败: sessionID=%s, err=%v", sess.ID, err)
		}
	}

	if s.noteRepo != nil && len(sess.CallNotes) > 0 {
		notes := make([]model.CallNote, 0, len(sess.CallNotes))
		for _, n := range sess.CallNotes {
			notes = append(notes, model.CallNote{
				SessionID:        sess.ID,
				CallerName:       n.CallerName,
				Phone:            n.Phone,
				Email:            n.Email,
				Reason:           n.Reason,
				InsuranceType:    n.InsuranceType,
				Details:          n.Details,
				Urgency:          n.Urgency,
				RequestedAgent:   n.RequestedAgent,
				IsExistingClient: n.IsExistingClient,
				CustomerID:       n.CustomerID,
				NotedAt:          n.Timestamp,
			})
		}
		if err := s.noteRepo.CreateBatch(notes); err != nil {
			klog.Errorf("通话记录落库失败: sessionID=%s, err=%v", sess.ID, err)
		}
	}

	if s.quoteRepo != nil && len(sess.QuoteRequests) > 0 {
		quotes := make([]model.QuoteRequest, 0, len(sess.QuoteRequests))
		for _, q := range sess.QuoteRequests {
			quotes = append(quotes, model.QuoteRequest{
				SessionID:         sess.ID,
				CallerName:        q.CallerName,
				Phone:             q.Phone,
				Email:             q.Email,
				InsuranceTypes:    strings.Join(q.InsuranceTypes, ","),
				VehicleInfo:       q.VehicleInfo,
				Address:           q.Address,
				DriverCount:       q.DriverCount,
				OwnsHome:          q.OwnsHome,
				ContactMethod:     q.ContactMethod,
				BundleInterest:    q.BundleInterest,
				CallbackPreferred: q.CallbackPreferred,
				CallbackTime:      q.CallbackTime,
				Notes:             q.Notes,
				RequestedAt:       q.Timestamp,
			})
		}
		if err := s.quoteRepo.CreateBatch(quotes); err != nil {
			klog.Errorf("报价请求落库失败: sessionID=%s, err=%v", sess.ID, err)
		}
	}

	if s.messageRepo != nil && len(sess.MessageRequests) > 0 {
		messages := make([]model.MessageRequest, 0, len(sess.MessageRequests))
		for _, m := range sess.MessageRequests {
			messages = append(messages, model.MessageRequest{
				SessionID:    sess.ID,
				CallerName:   m.CallerName,
				Phone:        m.Phone,
				TeamMember:   m.TeamMember,
				Message:      m.Message,
				Urgency:      m.Urgency,
				CallbackTime: m.CallbackTime,
				Reason:       m.Reason,
				TakenAt:      m.Timestamp,
			})
		}
		if err := s.messageRepo.CreateBatch(messages); err != nil {
			klog.Errorf("留言落库失败: sessionID=%s, err=%v", sess.ID, err)
		}
	}
}
