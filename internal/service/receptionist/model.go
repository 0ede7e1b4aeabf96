package receptionist

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/config"
)

// NewChatModel 创建前台 Agent 使用的 OpenAI ChatModel
// 直接使用 cloudwego/eino-ext/components/model/openai 实现
func NewChatModel(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error) {
	klog.V(6).Infof("[Receptionist] 创建 ChatModel: model=%s, baseURL=%s", cfg.LLM.Model, cfg.LLM.APIURL)

	modelConfig := &openai.ChatModelConfig{
		APIKey: cfg.LLM.APIKey,
		Model:  cfg.LLM.Model,
	}
	if cfg.LLM.APIURL != "" {
		modelConfig.BaseURL = cfg.LLM.APIURL
	}
	if cfg.LLM.MaxTokens > 0 {
		maxTokens := cfg.LLM.MaxTokens
		modelConfig.MaxTokens = &maxTokens
	}

	chatModel, err := openai.NewChatModel(ctx, modelConfig)
	if err != nil {
		klog.Errorf("[Receptionist] 创建 ChatModel 失败: %v", err)
		return nil, err
	}

	klog.V(6).Infof("[Receptionist] ChatModel 创建成功")
	return chatModel, nil
}
