package session

import (
	"time"

	"github.com/weibaohui/openreceptionist/internal/pkg/directory"
)

// 来电事由
const (
	ReasonNewQuote        = "new_quote"
	ReasonPolicyService   = "policy_service"
	ReasonClaim           = "claim"
	ReasonPayment         = "payment"
	ReasonGeneralQuestion = "general_question"
	ReasonOther           = "other"
)

// ValidReasons 来电事由封闭词表
var ValidReasons = []string{
	ReasonNewQuote, ReasonPolicyService, ReasonClaim,
	ReasonPayment, ReasonGeneralQuestion, ReasonOther,
}

// 紧急程度
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

var ValidUrgencies = []string{UrgencyLow, UrgencyMedium, UrgencyHigh}

// 回电联系方式
const (
	ContactPhone = "phone"
	ContactText  = "text"
	ContactEmail = "email"
)

var ValidContactMethods = []string{ContactPhone, ContactText, ContactEmail}

// ValidInsuranceTypes 可报价的险种
var ValidInsuranceTypes = []string{
	"auto", "home", "renters", "condo", "umbrella",
	"life", "commercial", "boat", "motorcycle",
}

// 留言事由分类
const (
	MessageReasonQuote         = "quote"
	MessageReasonPolicyService = "policy_service"
	MessageReasonClaim         = "claim"
	MessageReasonBilling       = "billing"
	MessageReasonGeneral       = "general"
)

var ValidMessageReasons = []string{
	MessageReasonQuote, MessageReasonPolicyService,
	MessageReasonClaim, MessageReasonBilling, MessageReasonGeneral,
}

// 理赔来电的处理偏好
const (
	ClaimTransferToCarrier = "transfer_to_carrier"
	ClaimAgentCallback     = "agent_callback"
	ClaimGeneralGuidance   = "general_guidance"
)

var ValidClaimHandling = []string{
	ClaimTransferToCarrier, ClaimAgentCallback, ClaimGeneralGuidance,
}

// CallNote 一次客户交互的快照，追加后不可变
type CallNote struct {
	Timestamp        time.Time `json:"timestamp"`
	CallerName       string    `json:"caller_name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email,omitempty"`
	Reason           string    `json:"reason"`
	InsuranceType    string    `json:"insurance_type,omitempty"`
	Details          string    `json:"details"`
	Urgency          string    `json:"urgency"`
	RequestedAgent   string    `json:"requested_agent,omitempty"`
	IsExistingClient bool      `json:"is_existing_client"`
	CustomerID       string    `json:"customer_id,omitempty"` // 目录查询命中时回填
}

// QuoteRequest 报价请求，追加后不可变
type QuoteRequest struct {
	Timestamp         time.Time `json:"timestamp"`
	CallerName        string    `json:"caller_name"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email,omitempty"`
	InsuranceTypes    []string  `json:"insurance_types"` // 非空
	VehicleInfo       string    `json:"vehicle_info,omitempty"`
	Address           string    `json:"address,omitempty"`
	DriverCount       int       `json:"driver_count,omitempty"`
	OwnsHome          *bool     `json:"owns_home,omitempty"`
	ContactMethod     string    `json:"contact_method"`
	BundleInterest    bool      `json:"bundle_interest"`
	CallbackPreferred bool      `json:"callback_preferred"`
	CallbackTime      string    `json:"callback_time,omitempty"`
	Notes             string    `json:"notes,omitempty"`
}

// MessageRequest 留言，追加后不可变
type MessageRequest struct {
	Timestamp    time.Time `json:"timestamp"`
	CallerName   string    `json:"caller_name"`
	Phone        string    `json:"phone"`
	TeamMember   string    `json:"team_member,omitempty"`
	Message      string    `json:"message"`
	Urgency      string    `json:"urgency"`
	CallbackTime string    `json:"callback_time,omitempty"`
	Reason       string    `json:"reason"`
}

// CollectedInfo 通话中零散收集到的客户信息
type CollectedInfo struct {
	Phone   string `json:"phone,omitempty"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
}

// CustomerContext 目录查询结果上下文
// 只由 lookup 工具修改，其余工具只读
type CustomerContext struct {
	LookupAttempted  bool                      `json:"lookup_attempted"`
	LookupSuccessful bool                      `json:"lookup_successful"`
	Record           *directory.CustomerRecord `json:"record,omitempty"`
	LookupTime       *time.Time                `json:"lookup_time,omitempty"`
	CollectedInfo    CollectedInfo             `json:"collected_info"`
}
