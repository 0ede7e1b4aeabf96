package tools

import (
	"context"
	"fmt"
	"sort"

	"github.com/cloudwego/eino/components/tool"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/internal/pkg/directory"
	"github.com/weibaohui/openreceptionist/internal/pkg/officehours"
	"github.com/weibaohui/openreceptionist/internal/session"
)

// Deps 工具共享的外部依赖
// 会话表和目录客户端跨通话共享，其余状态都隔离在各自会话内
type Deps struct {
	Sessions  *session.Manager
	Directory directory.Client
	Hours     *officehours.Calculator
}

// CreateTools 为一通电话创建工具列表
// sessionID: 本通电话的会话/房间 id
func CreateTools(sessionID string, deps Deps) []tool.BaseTool {
	klog.V(6).Infof("[CreateTools] 创建工具列表: sessionID=%s", sessionID)
	tools := []tool.BaseTool{
		NewLookupCustomerTool(sessionID, deps),
		NewCaptureQuoteRequestTool(sessionID, deps),
		NewCheckOfficeHoursTool(deps),
		NewCheckAgentAvailabilityTool(),
		NewWarmTransferTool(sessionID, deps),
		NewTakeMessageTool(sessionID, deps),
		NewRecordClaimInquiryTool(sessionID, deps),
		NewCaptureCallNotesTool(sessionID, deps),
		NewEndCallTool(),
	}
	klog.V(6).Infof("[CreateTools] 工具列表创建完成: count=%d", len(tools))
	return tools
}

// Dispatcher 按名字分发工具调用
// 语音管道与 HTTP/WS 接口都经由它调用工具，统一走安全边界
type Dispatcher struct {
	sessionID string
	tools     map[string]tool.InvokableTool
}

// NewDispatcher 为一通电话创建分发器
func NewDispatcher(sessionID string, deps Deps) *Dispatcher {
	d := &Dispatcher{
		sessionID: sessionID,
		tools:     make(map[string]tool.InvokableTool),
	}

	for _, t := range CreateTools(sessionID, deps) {
		info, err := t.Info(context.Background())
		if err != nil {
			klog.Errorf("[Dispatcher] 获取工具信息失败: %v", err)
			continue
		}
		invokable, ok := t.(tool.InvokableTool)
		if !ok {
			klog.Errorf("[Dispatcher] 工具 %s 不可调用", info.Name)
			continue
		}
		d.tools[info.Name] = invokable
	}
	return d
}

// Invoke 调用指定工具，返回给语音层的话术
// 未知工具名不触碰任何状态
func (d *Dispatcher) Invoke(ctx context.Context, name, arguments string) (string, error) {
	t, ok := d.tools[name]
	if !ok {
		klog.Warningf("[Dispatcher] 未知工具: name=%s, sessionID=%s", name, d.sessionID)
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	if arguments == "" {
		arguments = "{}"
	}
	return t.InvokableRun(ctx, arguments)
}

// Names 返回全部工具名，排序保证稳定
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.tools))
	for name := range d.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
