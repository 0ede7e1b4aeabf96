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

	"github.com/weibaohui/openreceptionist/internal/pkg/phone"
	"github.com/weibaohui/openreceptionist/internal/pkg/pii"
	"github.com/weibaohui/openreceptionist/internal/session"
	"github.com/weibaohui/openreceptionist/internal/team"
)

// TakeMessageTool 留言
type TakeMessageTool struct {
	sessionID string
	deps      Deps
}

func NewTakeMessageTool(sessionID string, deps Deps) *TakeMessageTool {
	return &TakeMessageTool{sessionID: sessionID, deps: deps}
}

// Info 实现 tool.BaseTool 接口
func (t *TakeMessageTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "take_message",
		Desc: "Take a message for the team or a specific team member",
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
			"team_member": {
				Type: schema.String,
				Desc: "Specific team member the message is for, if any",
				Enum: team.Names(),
			},
			"message": {
				Type:     schema.String,
				Desc:     "The message to pass along",
				Required: true,
			},
			"urgency": {
				Type: schema.String,
				Desc: "How urgent the matter is",
				Enum: session.ValidUrgencies,
			},
			"callback_time": {
				Type: schema.String,
				Desc: "Preferred callback window",
			},
			"reason": {
				Type: schema.String,
				Desc: "What the message is about",
				Enum: session.ValidMessageReasons,
			},
		}),
	}, nil
}

// InvokableRun 实现 tool.InvokableTool 接口
func (t *TakeMessageTool) InvokableRun(ctx context.Context, arguments string, opts ...tool.Option) (string, error) {
	return safeRun("TakeMessageTool", func() (string, error) {
		var args struct {
			CallerName   string `json:"caller_name"`
			Phone        string `json:"phone"`
			TeamMember   string `json:"team_member"`
			Message      string `json:"message"`
			Urgency      string `json:"urgency"`
			CallbackTime string `json:"callback_time"`
			Reason       string `json:"reason"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			klog.Errorf("[TakeMessageTool] 参数解析失败: %v", err)
			return "Of course — could I start with your name and the best number to call you back?", nil
		}

		if strings.TrimSpace(args.CallerName) == "" {
			return "Of course — could I get your name first?", nil
		}
		checked := phone.Validate(args.Phone)
		if !checked.IsValid {
			return "And what's the best number to call you back at? I didn't quite catch that one.", nil
		}
		if strings.TrimSpace(args.Message) == "" {
			return "What would you like me to pass along?", nil
		}

		var memberName string
		if args.TeamMember != "" {
			member, ok := team.Find(args.TeamMember)
			if !ok {
				return fmt.Sprintf("I don't have anyone named %s here — our team is %s. Who is the message for?",
					args.TeamMember, strings.Join(team.Names(), ", ")), nil
			}
			memberName = member.Name
		}

		if args.Urgency == "" {
			args.Urgency = session.UrgencyMedium
		}
		if !contains(session.ValidUrgencies, args.Urgency) {
			args.Urgency = session.UrgencyMedium
		}
		if args.Reason == "" {
			args.Reason = session.MessageReasonGeneral
		}
		if !contains(session.ValidMessageReasons, args.Reason) {
			args.Reason = session.MessageReasonGeneral
		}

		msg := session.MessageRequest{
			Timestamp:    time.Now(),
			CallerName:   args.CallerName,
			Phone:        checked.Normalized,
			TeamMember:   memberName,
			Message:      args.Message,
			Urgency:      args.Urgency,
			CallbackTime: args.CallbackTime,
			Reason:       args.Reason,
		}

		sess := t.deps.Sessions.GetOrCreate(t.sessionID)
		sess.AddMessageRequest(msg)
		pii.Log("[TakeMessageTool] 已记录留言", msg)

		target := "the team"
		if memberName != "" {
			target = memberName
		}
		return fmt.Sprintf("I've got it all down and I'll make sure %s gets your message. You can expect a call back %s.",
			target, callbackWindow(args.Urgency)), nil
	})
}

// callbackWindow 按紧急程度给出回电窗口
func callbackWindow(urgency string) string {
	switch urgency {
	case session.UrgencyHigh:
		return "within the hour during business hours"
	case session.UrgencyLow:
		return "within one business day"
	default:
		return "by the end of the business day"
	}
}
