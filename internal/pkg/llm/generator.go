package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aidocs/backend/internal/model"
	"github.com/aidocs/backend/internal/utils"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
	"k8s.io/klog/v2"
)

// ErrEmptyResponse 模型返回空内容
var ErrEmptyResponse = errors.New("empty response from LLM")

// Generator 内容生成适配器
// 所有方法都不会返回错误：外部模型调用失败时统一降级为兜底内容。
type Generator struct {
	chatModel einomodel.BaseChatModel
	fallbacks Fallbacks
	timeout   time.Duration
	limiter   *rate.Limiter
}

type Option func(*Generator)

// WithFallbacks 覆盖部分或全部兜底内容
func WithFallbacks(f Fallbacks) Option {
	return func(g *Generator) {
		g.fallbacks = g.fallbacks.merge(f)
	}
}

// WithTimeout 设置单次调用超时，<=0 表示不设置
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithRateLimit 设置每秒请求数上限，<=0 表示不限速
func WithRateLimit(rps float64) Option {
	return func(g *Generator) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewGenerator 创建内容生成适配器
func NewGenerator(chatModel einomodel.BaseChatModel, opts ...Option) *Generator {
	g := &Generator{
		chatModel: chatModel,
		fallbacks: DefaultFallbacks(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateOutline 生成大纲标题列表
func (g *Generator) GenerateOutline(ctx context.Context, topic string, docType model.DocType) []string {
	klog.V(6).Infof("[ContentGenerator] 生成大纲: topic=%s, docType=%s", topic, docType)

	text, err := g.generate(ctx, outlinePrompt(topic, docType))
	if err == nil {
		// 模型有时把大纲包裹在代码块中
		if titles := ParseOutline(utils.ExtractCodeBlock(text)); len(titles) > 0 {
			klog.V(6).Infof("[ContentGenerator] 大纲生成完成: count=%d", len(titles))
			return titles
		}
		err = ErrEmptyResponse
	}

	klog.Warningf("[ContentGenerator] 大纲生成失败，使用兜底数据: %v", err)
	return g.fallbacks.Outline(docType)
}

// GenerateSectionBody 生成单个章节正文
func (g *Generator) GenerateSectionBody(ctx context.Context, topic, sectionTitle string, docType model.DocType) string {
	klog.V(6).Infof("[ContentGenerator] 生成章节内容: title=%s", sectionTitle)

	text, err := g.generate(ctx, sectionPrompt(topic, sectionTitle, docType))
	if err != nil {
		klog.Warningf("[ContentGenerator] 章节内容生成失败，使用兜底内容: title=%s, err=%v", sectionTitle, err)
		return g.fallbacks.SectionBody(topic, sectionTitle)
	}
	return text
}

// Refine 按指令精修文本，失败时保留原文并追加说明
func (g *Generator) Refine(ctx context.Context, currentText, instruction string) string {
	klog.V(6).Infof("[ContentGenerator] 精修内容: contentLength=%d", len(currentText))

	text, err := g.generate(ctx, refinePrompt(currentText, instruction))
	if err != nil {
		klog.Warningf("[ContentGenerator] 精修失败，保留原文: %v", err)
		return g.fallbacks.Refine(currentText)
	}
	return text
}

// generate 调用一次外部模型，返回去除首尾空白的文本
func (g *Generator) generate(ctx context.Context, prompt string) (text string, err error) {
	if g.chatModel == nil {
		return "", errors.New("chat model not configured")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chat model panic: %v", r)
		}
	}()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	msg, err := g.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", ErrEmptyResponse
	}

	text = strings.TrimSpace(msg.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
