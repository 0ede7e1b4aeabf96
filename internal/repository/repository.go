package repository

import (
	"errors"
	"time"

	"github.com/weibaohui/openreceptionist/internal/model"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

// CallRepository 已结束通话的业务记录
type CallRepository interface {
	Create(call *model.Call) error
	MarkEnded(sessionID string, endedAt time.Time) error
	GetBySession(sessionID string) (*model.Call, error)
	List(limit int) ([]model.Call, error)
}

// CallNoteRepository 通话记录快照
type CallNoteRepository interface {
	CreateBatch(notes []model.CallNote) error
	GetBySession(sessionID string) ([]model.CallNote, error)
}

// QuoteRequestRepository 报价请求，供回访
type QuoteRequestRepository interface {
	CreateBatch(quotes []model.QuoteRequest) error
	GetBySession(sessionID string) ([]model.QuoteRequest, error)
	ListPending(limit int) ([]model.QuoteRequest, error)
}

// MessageRequestRepository 留言
type MessageRequestRepository interface {
	CreateBatch(messages []model.MessageRequest) error
	GetBySession(sessionID string) ([]model.MessageRequest, error)
	GetByTeamMember(name string) ([]model.MessageRequest, error)
}
