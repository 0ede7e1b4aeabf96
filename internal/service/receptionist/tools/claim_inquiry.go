package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/internal/pkg/pii"
	"github.com/weibaohui/openreceptionist/internal/session"
)

// 按处理偏好选择的固定话术表
var claimHandlingResponses = map[string]string{
	session.ClaimTransferToCarrier: "The fastest way to get your claim moving is your carrier's 24/7 claims line — " +
		"they can open the claim right away. I've noted your call here too, so your agent will follow up with you.",
	session.ClaimAgentCallback: "I've marked this as urgent and your agent will call you back as soon as possible " +
		"to walk you through the claim.",
	session.ClaimGeneralGuidance: "I've made a note of everything. In the meantime, if anyone's hurt or it's an emergency, " +
		"please call 911 first. Your agent will reach out shortly to go over next steps.",
}

// RecordClaimInquiryTool 登记理赔来电
// 理赔一律按高优先级记录
type RecordClaimInquiryTool struct {
	sessionID string
	deps      Deps
}

func NewRecordClaimInquiryTool(sessionID string, deps Deps) *RecordClaimInquiryTool {
	return &RecordClaimInquiryTool{sessionID: sessionID, deps: deps}
}

// Info 实现 tool.BaseTool 接口
func (t *RecordClaimInquiryTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "record_claim_inquiry",
		Desc: "Record a claim-related call and tell the caller what happens next",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"caller_name": {
				Type: schema.String,
				Desc: "Caller's full name",
			},
			"phone": {
				Type: schema.String,
				Desc: "Callback phone number",
			},
			"claim_type": {
				Type: schema.String,
				Desc: "Line of insurance the claim is about",
				Enum: session.ValidInsuranceTypes,
			},
			"preferred_handling": {
				Type:     schema.String,
				Desc:     "How the caller wants the claim handled",
				Required: true,
				Enum:     session.ValidClaimHandling,
			},
			"details": {
				Type: schema.String,
				Desc: "What happened, in the caller's words",
			},
		}),
	}, nil
}

// InvokableRun 实现 tool.InvokableTool 接口
func (t *RecordClaimInquiryTool) InvokableRun(ctx context.Context, arguments string, opts ...tool.Option) (string, error) {
	return safeRun("RecordClaimInquiryTool", func() (string, error) {
		var args struct {
			CallerName        string `json:"caller_name"`
			Phone             string `json:"phone"`
			ClaimType         string `json:"claim_type"`
			PreferredHandling string `json:"preferred_handling"`
			Details           string `json:"details"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			klog.Errorf("[RecordClaimInquiryTool] 参数解析失败: %v", err)
			return "I'm sorry to hear that. Let me get this noted — could you tell me a bit about what happened?", nil
		}

		response, ok := claimHandlingResponses[args.PreferredHandling]
		if !ok {
			return "Would you rather call the carrier's claims line directly, or have your agent call you back to handle it together?", nil
		}
		if args.ClaimType != "" && !contains(session.ValidInsuranceTypes, args.ClaimType) {
			args.ClaimType = ""
		}

		details := strings.TrimSpace(args.Details)
		if details == "" {
			details = "Claim inquiry, no details captured."
		}

		sess := t.deps.Sessions.GetOrCreate(t.sessionID)

		note := session.CallNote{
			Timestamp:        time.Now(),
			CallerName:       args.CallerName,
			Phone:            args.Phone,
			Reason:           session.ReasonClaim,
			InsuranceType:    args.ClaimType,
			Details:          details,
			Urgency:          session.UrgencyHigh,
			IsExistingClient: sess.Customer.LookupSuccessful,
		}
		if sess.Customer.Record != nil {
			note.CustomerID = sess.Customer.Record.CustomerID
		}

		sess.AddCallNote(note)
		pii.Log("[RecordClaimInquiryTool] 已记录理赔来电", note)

		return response, nil
	})
}
