package model

import (
	"time"
)

// Call 一通已结束的电话
// 会话内存状态在通话结束时销毁，这里只留给办公室做回访的业务记录
type Call struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	SessionID string     `json:"session_id" gorm:"size:128;index;not null"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CallNote struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	SessionID        string    `json:"session_id" gorm:"size:128;index;not null"`
	CallerName       string    `json:"caller_name" gorm:"size:255"`
	Phone            string    `json:"phone" gorm:"size:32"`
	Email            string    `json:"email" gorm:"size:255"`
	Reason           string    `json:"reason" gorm:"size:50"` // new_quote, policy_service, claim, payment, general_question, other
	InsuranceType    string    `json:"insurance_type" gorm:"size:50"`
	Details          string    `json:"details" gorm:"size:2000"`
	Urgency          string    `json:"urgency" gorm:"size:20"` // low, medium, high
	RequestedAgent   string    `json:"requested_agent" gorm:"size:100"`
	IsExistingClient bool      `json:"is_existing_client"`
	CustomerID       string    `json:"customer_id" gorm:"size:64"`
	NotedAt          time.Time `json:"noted_at"`
	CreatedAt        time.Time `json:"created_at"`
}

type QuoteRequest struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	SessionID         string    `json:"session_id" gorm:"size:128;index;not null"`
	CallerName        string    `json:"caller_name" gorm:"size:255"`
	Phone             string    `json:"phone" gorm:"size:32"`
	Email             string    `json:"email" gorm:"size:255"`
	InsuranceTypes    string    `json:"insurance_types" gorm:"size:255"` // 逗号连接
	VehicleInfo       string    `json:"vehicle_info" gorm:"size:500"`
	Address           string    `json:"address" gorm:"size:500"`
	DriverCount       int       `json:"driver_count"`
	OwnsHome          *bool     `json:"owns_home"`
	ContactMethod     string    `json:"contact_method" gorm:"size:20"` // phone, text, email
	BundleInterest    bool      `json:"bundle_interest"`
	CallbackPreferred bool      `json:"callback_preferred"`
	CallbackTime      string    `json:"callback_time" gorm:"size:100"`
	Notes             string    `json:"notes" gorm:"size:2000"`
	RequestedAt       time.Time `json:"requested_at"`
	CreatedAt         time.Time `json:"created_at"`
}

type MessageRequest struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SessionID    string    `json:"session_id" gorm:"size:128;index;not null"`
	CallerName   string    `json:"caller_name" gorm:"size:255"`
	Phone        string    `json:"phone" gorm:"size:32"`
	TeamMember   string    `json:"team_member" gorm:"size:100"`
	Message      string    `json:"message" gorm:"size:2000"`
	Urgency      string    `json:"urgency" gorm:"size:20"`
	CallbackTime string    `json:"callback_time" gorm:"size:100"`
	Reason       string    `json:"reason" gorm:"size:50"` // quote, policy_service, claim, billing, general
	TakenAt      time.Time `json:"taken_at"`
	CreatedAt    time.Time `json:"created_at"`
}
