package directory

import "time"

// 查询失败时使用的固定错误码
const (
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeTimeout     = "TIMEOUT"
	ErrCodeAuthFailed  = "AUTH_FAILED"
	ErrCodeRateLimited = "RATE_LIMITED"
	ErrCodeServerError = "SERVER_ERROR"
)

// LookupRequest 目录查询请求
type LookupRequest struct {
	PhoneNumber string    `json:"phone_number"`
	CallerName  string    `json:"caller_name,omitempty"`
	Address     string    `json:"address,omitempty"`
	ZipCode     string    `json:"zip_code,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"session_id"`
}

// Policy 客户名下一张保单
type Policy struct {
	Number           string  `json:"number"`
	Type             string  `json:"type"`
	Carrier          string  `json:"carrier"`
	EffectiveDate    string  `json:"effective_date"`
	ExpirationDate   string  `json:"expiration_date"`
	Status           string  `json:"status"`
	Premium          float64 `json:"premium,omitempty"`
	PaymentFrequency string  `json:"payment_frequency,omitempty"`
}

// CustomerRecord 目录返回的客户记录
// Found=false 时其余字段为空
type CustomerRecord struct {
	Found          bool     `json:"found"`
	CustomerID     string   `json:"customer_id,omitempty"`
	FirstName      string   `json:"first_name,omitempty"`
	LastName       string   `json:"last_name,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Email          string   `json:"email,omitempty"`
	Address        string   `json:"address,omitempty"`
	Policies       []Policy `json:"policies,omitempty"`
	PreferredAgent string   `json:"preferred_agent,omitempty"` // 固定团队成员之一
	IsPriority     bool     `json:"is_priority,omitempty"`
}

// LookupResponse 目录查询响应
// Success=true 且 Data.Found=false 表示正常未命中；Success=false 才是查询本身出错
type LookupResponse struct {
	Success           bool            `json:"success"`
	Error             string          `json:"error,omitempty"`
	ErrorCode         string          `json:"error_code,omitempty"`
	Data              *CustomerRecord `json:"data,omitempty"`
	ResponseTimestamp time.Time       `json:"response_timestamp"`
	CorrelationID     string          `json:"correlation_id"`
}
