package receptionist

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/internal/service/receptionist/tools"
)

// Agent 一通电话的前台 Agent
// 每通电话独立创建，history 只活在这通电话里
type Agent struct {
	sessionID string
	runner    *adk.Runner
	history   []adk.Message
}

// NewAgent 为一通电话创建前台 Agent
// sessionID: 会话 id，与工具共享
func NewAgent(ctx context.Context, sessionID string, chatModel model.ToolCallingChatModel, deps tools.Deps) (*Agent, error) {
	chatAgent, err := adk.NewChatModelAgent(ctx, &adk.ChatModelAgentConfig{
		Name:        "receptionist",
		Description: "Front-desk receptionist for an insurance agency",
		Instruction: BuildInstruction(),
		Model:       chatModel,
		ToolsConfig: adk.ToolsConfig{
			ToolsNodeConfig: compose.ToolsNodeConfig{
				Tools: tools.CreateTools(sessionID, deps),
			},
		},
		MaxIterations: 8,
	})
	if err != nil {
		klog.Errorf("[Receptionist] 创建 Agent 失败: sessionID=%s, err=%v", sessionID, err)
		return nil, fmt.Errorf("failed to create receptionist agent: %w", err)
	}

	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent: chatAgent,
	})

	klog.V(6).Infof("[Receptionist] Agent 创建成功: sessionID=%s", sessionID)
	return &Agent{
		sessionID: sessionID,
		runner:    runner,
	}, nil
}

// Chat 处理来电人的一句话，返回要播报的答复
// 对话历史在 Agent 内维护，同一通电话内连续
func (a *Agent) Chat(ctx context.Context, userInput string) (string, error) {
	klog.V(6).Infof("[Receptionist] Chat 开始: sessionID=%s, inputLength=%d", a.sessionID, len(userInput))

	a.history = append(a.history, &schema.Message{
		Role:    schema.User,
		Content: userInput,
	})

	iter := a.runner.Run(ctx, a.history)

	var lastContent string
	for {
		select {
		case <-ctx.Done():
			klog.Warningf("[Receptionist] 上下文被取消: sessionID=%s, err=%v", a.sessionID, ctx.Err())
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		event, ok := iter.Next()
		if !ok {
			break
		}
		if event.Err != nil {
			klog.Errorf("[Receptionist] Agent 执行出错: sessionID=%s, err=%v", a.sessionID, event.Err)
			// 内部错误不上抛到语音通道，回兜底话术
			return tools.ApologyMessage, nil
		}
		if event.Output != nil && event.Output.MessageOutput != nil {
			msg := event.Output.MessageOutput.Message
			if msg != nil && msg.Role == schema.Assistant && msg.Content != "" {
				lastContent = msg.Content
			}
		}
	}

	if lastContent == "" {
		klog.Warningf("[Receptionist] Agent 未产出答复: sessionID=%s", a.sessionID)
		return tools.ApologyMessage, nil
	}

	a.history = append(a.history, &schema.Message{
		Role:    schema.Assistant,
		Content: lastContent,
	})

	klog.V(6).Infof("[Receptionist] Chat 完成: sessionID=%s, responseLength=%d", a.sessionID, len(lastContent))
	return lastContent, nil
}
