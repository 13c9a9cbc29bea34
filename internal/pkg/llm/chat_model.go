package llm

import (
	"context"

	"github.com/aidocs/backend/config"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"k8s.io/klog/v2"
)

// NewChatModel 根据配置创建 OpenAI 兼容的 ChatModel
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (model.BaseChatModel, error) {
	if cfg.APIKey == "" {
		klog.Warningf("[LLMChatModel] 未配置 API Key，所有生成请求都将使用兜底内容")
	}

	modelConfig := &openai.ChatModelConfig{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
	}
	if cfg.APIURL != "" {
		modelConfig.BaseURL = cfg.APIURL
	}
	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		modelConfig.MaxTokens = &maxTokens
	}

	chatModel, err := openai.NewChatModel(ctx, modelConfig)
	if err != nil {
		klog.Errorf("[LLMChatModel] 创建 ChatModel 失败: %v", err)
		return nil, err
	}

	klog.V(6).Infof("[LLMChatModel] ChatModel 创建成功: model=%s, baseURL=%s", cfg.Model, cfg.APIURL)
	return chatModel, nil
}
