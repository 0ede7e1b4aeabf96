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

// CaptureQuoteRequestTool 记录报价请求
type CaptureQuoteRequestTool struct {
	sessionID string
	deps      Deps
}

func NewCaptureQuoteRequestTool(sessionID string, deps Deps) *CaptureQuoteRequestTool {
	return &CaptureQuoteRequestTool{sessionID: sessionID, deps: deps}
}

// Info 实现 tool.BaseTool 接口
func (t *CaptureQuoteRequestTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "capture_quote_request",
		Desc: "Record a new insurance quote request so the team can call back with pricing",
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
			"insurance_types": {
				Type:     schema.Array,
				Desc:     "Insurance lines the caller wants quoted",
				Required: true,
				ElemInfo: &schema.ParameterInfo{
					Type: schema.String,
					Enum: session.ValidInsuranceTypes,
				},
			},
			"vehicle_info": {
				Type: schema.String,
				Desc: "Year, make and model for auto quotes",
			},
			"address": {
				Type: schema.String,
				Desc: "Property address for home quotes",
			},
			"driver_count": {
				Type: schema.Integer,
				Desc: "Number of drivers in the household",
			},
			"owns_home": {
				Type: schema.Boolean,
				Desc: "Whether the caller owns their home",
			},
			"contact_method": {
				Type: schema.String,
				Desc: "Preferred way to reach the caller",
				Enum: session.ValidContactMethods,
			},
			"bundle_interest": {
				Type: schema.Boolean,
				Desc: "Whether the caller is interested in bundling policies",
			},
			"callback_preferred": {
				Type: schema.Boolean,
				Desc: "Whether the caller asked for a callback",
			},
			"callback_time": {
				Type: schema.String,
				Desc: "Preferred callback window, e.g. 'tomorrow morning'",
			},
			"notes": {
				Type: schema.String,
				Desc: "Anything else worth passing along",
			},
		}),
	}, nil
}

// InvokableRun 校验参数并把报价请求追加到会话
// 校验不通过时不做任何状态变更
func (t *CaptureQuoteRequestTool) InvokableRun(ctx context.Context, arguments string, opts ...tool.Option) (string, error) {
	return safeRun("CaptureQuoteRequestTool", func() (string, error) {
		var args struct {
			CallerName        string   `json:"caller_name"`
			Phone             string   `json:"phone"`
			Email             string   `json:"email"`
			InsuranceTypes    []string `json:"insurance_types"`
			VehicleInfo       string   `json:"vehicle_info"`
			Address           string   `json:"address"`
			DriverCount       int      `json:"driver_count"`
			OwnsHome          *bool    `json:"owns_home"`
			ContactMethod     string   `json:"contact_method"`
			BundleInterest    bool     `json:"bundle_interest"`
			CallbackPreferred bool     `json:"callback_preferred"`
			CallbackTime      string   `json:"callback_time"`
			Notes             string   `json:"notes"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			klog.Errorf("[CaptureQuoteRequestTool] 参数解析失败: %v", err)
			return "I'm sorry, let me make sure I have everything — could you give me your name and number again?", nil
		}

		if strings.TrimSpace(args.CallerName) == "" {
			return "Before I set that up, could I get your name please?", nil
		}
		if strings.TrimSpace(args.Phone) == "" {
			return "And what's the best number to reach you at?", nil
		}
		if len(args.InsuranceTypes) == 0 {
			return "What kind of insurance are you looking to get quoted — auto, home, or something else?", nil
		}
		for _, it := range args.InsuranceTypes {
			if !contains(session.ValidInsuranceTypes, it) {
				klog.V(6).Infof("[CaptureQuoteRequestTool] 未知险种: %s", it)
				return fmt.Sprintf("I want to make sure I heard that right — what type of coverage is %q? We can quote auto, home, renters, life and a few others.", it), nil
			}
		}
		if args.DriverCount < 0 {
			return "How many drivers would be on the policy?", nil
		}
		if args.ContactMethod == "" {
			args.ContactMethod = session.ContactPhone
		}
		if !contains(session.ValidContactMethods, args.ContactMethod) {
			return "Would you rather we reach you by phone, text, or email?", nil
		}

		quote := session.QuoteRequest{
			Timestamp:         time.Now(),
			CallerName:        args.CallerName,
			Phone:             args.Phone,
			Email:             args.Email,
			InsuranceTypes:    args.InsuranceTypes,
			VehicleInfo:       args.VehicleInfo,
			Address:           args.Address,
			DriverCount:       args.DriverCount,
			OwnsHome:          args.OwnsHome,
			ContactMethod:     args.ContactMethod,
			BundleInterest:    args.BundleInterest,
			CallbackPreferred: args.CallbackPreferred,
			CallbackTime:      args.CallbackTime,
			Notes:             args.Notes,
		}

		sess := t.deps.Sessions.GetOrCreate(t.sessionID)
		sess.AddQuoteRequest(quote)
		pii.Log("[CaptureQuoteRequestTool] 已记录报价请求", quote)

		confirmation := fmt.Sprintf("Perfect, I've got your request for %s down.", humanJoin(args.InsuranceTypes))
		if args.CallbackTime != "" {
			confirmation += fmt.Sprintf(" One of our team will call you back %s with your quote.", args.CallbackTime)
		} else {
			confirmation += " One of our team will call you back with your quote, usually within one business day."
		}
		return confirmation, nil
	})
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// humanJoin "auto" / "auto and home" / "auto, home and life"
func humanJoin(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
