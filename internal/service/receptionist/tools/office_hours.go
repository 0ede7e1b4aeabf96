package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/weibaohui/openreceptionist/internal/utils"
)

// CheckOfficeHoursTool 查询营业状态，纯查询不改状态
type CheckOfficeHoursTool struct {
	deps Deps
}

func NewCheckOfficeHoursTool(deps Deps) *CheckOfficeHoursTool {
	return &CheckOfficeHoursTool{deps: deps}
}

// Info 实现 tool.BaseTool 接口
func (t *CheckOfficeHoursTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name:        "check_office_hours",
		Desc:        "Check whether the office is currently open and when it opens next",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
	}, nil
}

// InvokableRun 返回完整的营业状态 JSON，方便大模型引用各字段
func (t *CheckOfficeHoursTool) InvokableRun(ctx context.Context, arguments string, opts ...tool.Option) (string, error) {
	return safeRun("CheckOfficeHoursTool", func() (string, error) {
		result := t.deps.Hours.CheckNow()
		return utils.ToJSON(result), nil
	})
}
