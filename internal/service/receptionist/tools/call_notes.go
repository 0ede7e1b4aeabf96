package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/internal/pkg/pii"
	"github.com/weibaohui/openreceptionist/internal/session"
)

// CaptureCallNotesTool 通用通话记录工具
// 早期的统一入口，保留兼容：新流程优先用专门工具（报价/留言/理赔）
type CaptureCallNotesTool struct {
	sessionID string
	deps      Deps
}

func NewCaptureCallNotesTool(sessionID string, deps Deps) *CaptureCallNotesTool {
	return &CaptureCallNotesTool{sessionID: sessionID, deps: deps}
}

// Info 实现 tool.BaseTool 接口
func (t *CaptureCallNotesTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "capture_call_notes",
		Desc: "Record the outcome of the call when no more specific tool applies",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"caller_name": {
				Type:     schema.String,
				Desc:     "Caller's full name",
				Required: true,
			},
			"phone": {
				Type:     schema.String,
				Desc:     "Callback phone number",
				Required: true,
			},
			"email": {
				Type: schema.String,
				Desc: "Email address if offered",
			},
			"reason": {
				Type:     schema.String,
				Desc:     "Why the caller called",
				Required: true,
				Enum:     session.ValidReasons,
			},
			"insurance_type": {
				Type: schema.String,
				Desc: "Line of insurance involved, if any",
				Enum: session.ValidInsuranceTypes,
			},
			"details": {
				Type:     schema.String,
				Desc:     "Summary of the conversation",
				Required: true,
			},
			"urgency": {
				Type: schema.String,
				Desc: "How urgent the follow-up is",
				Enum: session.ValidUrgencies,
			},
			"requested_agent": {
				Type: schema.String,
				Desc: "Team member the caller asked for, if any",
			},
			"is_existing_client": {
				Type: schema.Boolean,
				Desc: "Whether the caller says they already have a policy with us",
			},
		}),
	}, nil
}

// InvokableRun 实现 tool.InvokableTool 接口
func (t *CaptureCallNotesTool) InvokableRun(ctx context.Context, arguments string, opts ...tool.Option) (string, error) {
	return safeRun("CaptureCallNotesTool", func() (string, error) {
		var args struct {
			CallerName       string `json:"caller_name"`
			Phone            string `json:"phone"`
			Email            string `json:"email"`
			Reason           string `json:"reason"`
			InsuranceType    string `json:"insurance_type"`
			Details          string `json:"details"`
			Urgency          string `json:"urgency"`
			RequestedAgent   string `json:"requested_agent"`
			IsExistingClient bool   `json:"is_existing_client"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			klog.Errorf("[CaptureCallNotesTool] 参数解析失败: %v", err)
			return "Let me make sure I note this down right — could you give me your name and number again?", nil
		}

		if strings.TrimSpace(args.CallerName) == "" {
			return "Could I get your name please?", nil
		}
		if strings.TrimSpace(args.Phone) == "" {
			return "And what's the best number to reach you at?", nil
		}
		if !contains(session.ValidReasons, args.Reason) {
			return "Just so I file this right — is this about a new quote, an existing policy, a claim, a payment, or something else?", nil
		}
		if args.InsuranceType != "" && !contains(session.ValidInsuranceTypes, args.InsuranceType) {
			args.InsuranceType = ""
		}
		if args.Urgency == "" || !contains(session.ValidUrgencies, args.Urgency) {
			args.Urgency = session.UrgencyMedium
		}

		sess := t.deps.Sessions.GetOrCreate(t.sessionID)

		note := session.CallNote{
			Timestamp:        time.Now(),
			CallerName:       args.CallerName,
			Phone:            args.Phone,
			Email:            args.Email,
			Reason:           args.Reason,
			InsuranceType:    args.InsuranceType,
			Details:          args.Details,
			Urgency:          args.Urgency,
			RequestedAgent:   args.RequestedAgent,
			IsExistingClient: args.IsExistingClient || sess.Customer.LookupSuccessful,
		}
		if sess.Customer.Record != nil {
			note.CustomerID = sess.Customer.Record.CustomerID
		}

		sess.AddCallNote(note)
		pii.Log("[CaptureCallNotesTool] 已记录通话内容", note)

		return fmt.Sprintf("Got it, I've made a note of all that. Someone from our team will follow up with you %s.",
			callbackWindow(args.Urgency)), nil
	})
}
