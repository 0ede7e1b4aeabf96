package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/weibaohui/openreceptionist/internal/model"
)

type callRepository struct {
	db *gorm.DB
}

func NewCallRepository(db *gorm.DB) CallRepository {
	return &callRepository{db: db}
}

func (r *callRepository) Create(call *model.Call) error {
	return r.db.Create(call).Error
}

func (r *callRepository) GetBySession(sessionID string) (*model.Call, error) {
	var call model.Call
	err := r.db.Where("session_id = ?", sessionID).First(&call).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *callRepository) MarkEnded(sessionID string, endedAt time.Time) error {
	return r.db.Model(&model.Call{}).
		Where("session_id = ? AND ended_at IS NULL", sessionID).
		Update("ended_at", endedAt).Error
}

func (r *callRepository) List(limit int) ([]model.Call, error) {
	if limit <= 0 {
		limit = 100
	}
	var calls []model.Call
	err := r.db.Order("started_at desc").Limit(limit).Find(&calls).Error
	return calls, err
}

type callNoteRepository struct {
	db *gorm.DB
}

func NewCallNoteRepository(db *gorm.DB) CallNoteRepository {
	return &callNoteRepository{db: db}
}

func (r *callNoteRepository) CreateBatch(notes []model.CallNote) error {
	if len(notes) == 0 {
		return nil
	}
	return r.db.Create(&notes).Error
}

func (r *callNoteRepository) GetBySession(sessionID string) ([]model.CallNote, error) {
	var notes []model.CallNote
	err := r.db.Where("session_id = ?", sessionID).Order("noted_at").Find(&notes).Error
	return notes, err
}

type quoteRequestRepository struct {
	db *gorm.DB
}

func NewQuoteRequestRepository(db *gorm.DB) QuoteRequestRepository {
	return &quoteRequestRepository{db: db}
}

func (r *quoteRequestRepository) CreateBatch(quotes []model.QuoteRequest) error {
	if len(quotes) == 0 {
		return nil
	}
	return r.db.Create(&quotes).Error
}

func (r *quoteRequestRepository) GetBySession(sessionID string) ([]model.QuoteRequest, error) {
	var quotes []model.QuoteRequest
	err := r.db.Where("session_id = ?", sessionID).Order("requested_at").Find(&quotes).Error
	return quotes, err
}

func (r *quoteRequestRepository) ListPending(limit int) ([]model.QuoteRequest, error) {
	if limit <= 0 {
		limit = 100
	}
	var quotes []model.QuoteRequest
	err := r.db.Order("requested_at").Limit(limit).Find(&quotes).Error
	return quotes, err
}

type messageRequestRepository struct {
	db *gorm.DB
}

func NewMessageRequestRepository(db *gorm.DB) MessageRequestRepository {
	return &messageRequestRepository{db: db}
}

func (r *messageRequestRepository) CreateBatch(messages []model.MessageRequest) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.Create(&messages).Error
}

func (r *messageRequestRepository) GetBySession(sessionID string) ([]model.MessageRequest, error) {
	var messages []model.MessageRequest
	err := r.db.Where("session_id = ?", sessionID).Order("taken_at").Find(&messages).Error
	return messages, err
}

func (r *messageRequestRepository) GetByTeamMember(name string) ([]model.MessageRequest, error) {
	var messages []model.MessageRequest
	err := r.db.Where("team_member = ?", name).Order("taken_at").Find(&messages).Error
	return messages, err
}
