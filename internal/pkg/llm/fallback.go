package llm

import (
	"fmt"

	"github.com/aidocs/backend/internal/model"
)

// Fallbacks 外部模型不可用时的兜底内容
type Fallbacks struct {
	Outline     func(docType model.DocType) []string
	SectionBody func(topic, sectionTitle string) string
	Refine      func(currentText string) string
}

// DefaultFallbacks 返回默认兜底内容
func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		Outline:     DefaultOutline,
		SectionBody: DefaultSectionBody,
		Refine:      DefaultRefine,
	}
}

// DefaultOutline 固定的 5 个占位标题，每次返回新切片
func DefaultOutline(model.DocType) []string {
	return []string{
		"Executive Summary (AI Unavailable)",
		"Market Overview",
		"Key Challenges & Opportunities",
		"Strategic Recommendations",
		"Conclusion",
	}
}

func DefaultSectionBody(topic, sectionTitle string) string {
	return fmt.Sprintf(
		"This is placeholder content for '%s'. \n"+
			"The AI service could not be reached, but the application flow is working correctly.\n"+
			"Topic Context: %s",
		sectionTitle, topic,
	)
}

// RefineFailedNote 精修失败时追加在原文后的说明
const RefineFailedNote = "[Note: AI Refine failed, original text kept.]"

func DefaultRefine(currentText string) string {
	return currentText + "\n\n" + RefineFailedNote
}

// merge 用 other 中非空的函数覆盖默认值
func (f Fallbacks) merge(other Fallbacks) Fallbacks {
	if other.Outline != nil {
		f.Outline = other.Outline
	}
	if other.SectionBody != nil {
		f.SectionBody = other.SectionBody
	}
	if other.Refine != nil {
		f.Refine = other.Refine
	}
	return f
}
