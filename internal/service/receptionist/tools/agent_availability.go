package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/internal/team"
)

// CheckAgentAvailabilityTool 查询团队成员是否有空
// 真实话机状态检查尚未接入：当前一律报告无法接听（占位实现）
type CheckAgentAvailabilityTool struct{}

func NewCheckAgentAvailabilityTool() *CheckAgentAvailabilityTool {
	return &CheckAgentAvailabilityTool{}
}

// Info 实现 tool.BaseTool 接口
func (t *CheckAgentAvailabilityTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "check_agent_availability",
		Desc: "Check whether a specific team member is available to take the call right now",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"agent_name": {
				Type:     schema.String,
				Desc:     "Team member to check",
				Required: true,
				Enum:     team.Names(),
			},
		}),
	}, nil
}

// InvokableRun 实现 tool.InvokableTool 接口
func (t *CheckAgentAvailabilityTool) InvokableRun(ctx context.Context, arguments string, opts ...tool.Option) (string, error) {
	return safeRun("CheckAgentAvailabilityTool", func() (string, error) {
		var args struct {
			AgentName string `json:"agent_name"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			klog.Errorf("[CheckAgentAvailabilityTool] 参数解析失败: %v", err)
			return "Who were you hoping to reach?", nil
		}

		member, ok := team.Find(args.AgentName)
		if !ok {
			return fmt.Sprintf("I don't have anyone named %s here — our team is %s. Who would you like to reach?",
				args.AgentName, strings.Join(team.Names(), ", ")), nil
		}

		// TODO 接入电话系统的实时状态后按真实空闲情况回答
		klog.V(6).Infof("[CheckAgentAvailabilityTool] 实时状态未接入，报告不可用: agent=%s", member.Name)
		return fmt.Sprintf("%s isn't able to pick up right this moment. I'd be happy to take a message and have them call you back — would that work?", member.Name), nil
	})
}
