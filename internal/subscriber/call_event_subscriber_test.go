package subscriber

import (
	"context"
	"testing"
	"time"

	"github.com/weibaohui/openreceptionist/internal/eventbus"
	"github.com/weibaohui/openreceptionist/internal/model"
	"github.com/weibaohui/openreceptionist/internal/pkg/database"
	"github.com/weibaohui/openreceptionist/internal/repository"
	"github.com/weibaohui/openreceptionist/internal/session"
)

type fixture struct {
	sessions    *session.Manager
	bus         *eventbus.CallEventBus
	callRepo    repository.CallRepository
	noteRepo    repository.CallNoteRepository
	quoteRepo   repository.QuoteRequestRepository
	messageRepo repository.MessageRequestRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.InitDB("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("init db error: %v", err)
	}

	f := &fixture{
		sessions:    session.NewManager(),
		bus:         eventbus.NewCallEventBus(),
		callRepo:    repository.NewCallRepository(db),
		noteRepo:    repository.NewCallNoteRepository(db),
		quoteRepo:   repository.NewQuoteRequestRepository(db),
		messageRepo: repository.NewMessageRequestRepository(db),
	}

	sub := NewCallEventSubscriber(f.sessions, f.callRepo, f.noteRepo, f.quoteRepo, f.messageRepo)
	sub.Register(f.bus)
	return f
}

func endCall(t *testing.T, f *fixture, sessionID string) {
	t.Helper()
	err := f.bus.Publish(context.Background(), eventbus.CallEventEnded, eventbus.CallEvent{
		Type:      eventbus.CallEventEnded,
		SessionID: sessionID,
		At:        time.Now(),
	})
	if err != nil {
		t.Fatalf("publish error: %v", err)
	}
}

func TestCallEndedFlushesSession(t *testing.T) {
	f := newFixture(t)

	if err := f.callRepo.Create(&model.Call{SessionID: "room-1", StartedAt: time.Now()}); err != nil {
		t.Fatalf("create call error: %v", err)
	}

	sess := f.sessions.GetOrCreate("room-1")
	sess.AddCallNote(session.CallNote{
		Timestamp:  time.Now(),
		CallerName: "Dana Lee",
		Phone:      "+17145558888",
		Reason:     session.ReasonClaim,
		Details:    "Fender bender",
		Urgency:    session.UrgencyHigh,
	})
	sess.AddQuoteRequest(session.QuoteRequest{
		Timestamp:      time.Now(),
		CallerName:     "Dana Lee",
		Phone:          "+17145558888",
		InsuranceTypes: []string{"auto", "home"},
		ContactMethod:  session.ContactPhone,
	})
	sess.AddMessageRequest(session.MessageRequest{
		Timestamp:  time.Now(),
		CallerName: "Dana Lee",
		Phone:      "+17145558888",
		TeamMember: "Melissa",
		Message:    "Call me back",
		Urgency:    session.UrgencyMedium,
		Reason:     session.MessageReasonGeneral,
	})

	endCall(t, f, "room-1")

	// 会话销毁
	if _, ok := f.sessions.Get("room-1"); ok {
		t.Error("通话结束后会话应当已销毁")
	}

	// 结束时间回填
	call, err := f.callRepo.GetBySession("room-1")
	if err != nil {
		t.Fatalf("get call error: %v", err)
	}
	if call.EndedAt == nil {
		t.Error("EndedAt 应当已写入")
	}

	notes, err := f.noteRepo.GetBySession("room-1")
	if err != nil || len(notes) != 1 {
		t.Fatalf("notes = %d (err=%v), want 1", len(notes), err)
	}
	if notes[0].Urgency != session.UrgencyHigh {
		t.Errorf("note urgency = %s", notes[0].Urgency)
	}

	quotes, err := f.quoteRepo.GetBySession("room-1")
	if err != nil || len(quotes) != 1 {
		t.Fatalf("quotes = %d (err=%v), want 1", len(quotes), err)
	}
	if quotes[0].InsuranceTypes != "auto,home" {
		t.Errorf("险种应当逗号连接: %s", quotes[0].InsuranceTypes)
	}

	messages, err := f.messageRepo.GetByTeamMember("Melissa")
	if err != nil || len(messages) != 1 {
		t.Fatalf("messages = %d (err=%v), want 1", len(messages), err)
	}
}

func TestCallEndedIdempotent(t *testing.T) {
	f := newFixture(t)

	sess := f.sessions.GetOrCreate("room-1")
	sess.AddCallNote(session.CallNote{Timestamp: time.Now(), CallerName: "Dana", Phone: "+17145558888"})

	endCall(t, f, "room-1")
	endCall(t, f, "room-1")

	notes, err := f.noteRepo.GetBySession("room-1")
	if err != nil {
		t.Fatalf("get notes error: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("重复结束不应重复落库: notes=%d", len(notes))
	}
}

func TestCallEndedUnknownSession(t *testing.T) {
	f := newFixture(t)

	// 未知会话直接跳过，不报错
	endCall(t, f, "never-started")
}

func TestSessionReuseAfterEnd(t *testing.T) {
	f := newFixture(t)

	sess := f.sessions.GetOrCreate("room-1")
	sess.AddCallNote(session.CallNote{Timestamp: time.Now(), CallerName: "Dana", Phone: "+17145558888"})
	endCall(t, f, "room-1")

	// 同一 id 再来一通电话，看到的是全新会话
	again := f.sessions.GetOrCreate("room-1")
	if len(again.CallNotes) != 0 {
		t.Errorf("复用会话 id 不应看到旧数据: notes=%d", len(again.CallNotes))
	}
}
