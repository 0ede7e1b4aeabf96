package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"
)

// EndCallTool 结束通话
// 只返回告别话术，会话清理由通话结束回调负责，这里不动任何状态
type EndCallTool struct{}

func NewEndCallTool() *EndCallTool {
	return &EndCallTool{}
}

// Info 实现 tool.BaseTool 接口
func (t *EndCallTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name:        "end_call",
		Desc:        "End the call once the caller has nothing else they need",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
	}, nil
}

// InvokableRun 实现 tool.InvokableTool 接口
func (t *EndCallTool) InvokableRun(ctx context.Context, arguments string, opts ...tool.Option) (string, error) {
	return safeRun("EndCallTool", func() (string, error) {
		klog.V(6).Infof("[EndCallTool] 通话结束")
		return "Thank you for calling, have a wonderful day. Goodbye!", nil
	})
}
