package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/internal/pkg/pii"
	"github.com/weibaohui/openreceptionist/internal/team"
	"github.com/weibaohui/openreceptionist/internal/utils"
)

// WarmTransferTool 记录转接意图并生成交接话术
// 真实的话机转接/SIP 信令不在本系统范围内：只登记意图并承诺回电
type WarmTransferTool struct {
	sessionID string
	deps      Deps
}

// TransferResult 转接意图登记结果
type TransferResult struct {
	Pending      bool   `json:"pending"`
	Agent        string `json:"agent"`
	Announcement string `json:"announcement"`
	Message      string `json:"message"`
}

func NewWarmTransferTool(sessionID string, deps Deps) *WarmTransferTool {
	return &WarmTransferTool{sessionID: sessionID, deps: deps}
}

// Info 实现 tool.BaseTool 接口
func (t *WarmTransferTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "warm_transfer",
		Desc: "Start a warm transfer to a team member, with a spoken hand-off summary",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"agent_name": {
				Type:     schema.String,
				Desc:     "Team member to transfer to",
				Required: true,
				Enum:     team.Names(),
			},
			"caller_name": {
				Type: schema.String,
				Desc: "Caller's name",
			},
			"reason": {
				Type: schema.String,
				Desc: "Why the caller needs this team member",
			},
			"summary": {
				Type: schema.String,
				Desc: "One or two sentences of context gathered so far",
			},
		}),
	}, nil
}

// InvokableRun 实现 tool.InvokableTool 接口
func (t *WarmTransferTool) InvokableRun(ctx context.Context, arguments string, opts ...tool.Option) (string, error) {
	return safeRun("WarmTransferTool", func() (string, error) {
		var args struct {
			AgentName  string `json:"agent_name"`
			CallerName string `json:"caller_name"`
			Reason     string `json:"reason"`
			Summary    string `json:"summary"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			klog.Errorf("[WarmTransferTool] 参数解析失败: %v", err)
			return "Who would you like me to connect you with?", nil
		}

		member, ok := team.Find(args.AgentName)
		if !ok {
			return fmt.Sprintf("I don't have anyone named %s here — our team is %s. Who should I try?",
				args.AgentName, strings.Join(team.Names(), ", ")), nil
		}

		caller := args.CallerName
		if caller == "" {
			caller = "a caller"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Hi %s, I have %s on the line", member.Name, caller)
		if args.Reason != "" {
			fmt.Fprintf(&b, " regarding %s", args.Reason)
		}
		b.WriteString(".")
		if args.Summary != "" {
			b.WriteString(" ")
			b.WriteString(args.Summary)
		}

		result := TransferResult{
			Pending:      true,
			Agent:        member.Name,
			Announcement: b.String(),
			Message: fmt.Sprintf("Let me see if I can get %s for you — one moment please. "+
				"If they can't pick up, I'll make sure they call you right back.", member.Name),
		}

		// 意图带完整上下文落日志，脱敏后输出
		pii.Log(fmt.Sprintf("[WarmTransferTool] 转接意图 sessionID=%s", t.sessionID), map[string]any{
			"agent":       member.Name,
			"caller_name": args.CallerName,
			"reason":      args.Reason,
			"summary":     args.Summary,
		})

		return utils.ToJSON(result), nil
	})
}
