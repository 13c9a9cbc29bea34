package llm

import (
	"fmt"
	"strings"

	"github.com/aidocs/backend/internal/model"
)

func outlinePrompt(topic string, docType model.DocType) string {
	structureType := "Slide Titles"
	if docType == model.DocTypeDOCX {
		structureType = "Section Headers"
	}
	return fmt.Sprintf(
		"Create a structured outline for a %s presentation/document about '%s'. "+
			"Return ONLY a list of 5 to 7 %s. "+
			"Do not include numbering (like 1. or I.). Just the titles separated by newlines.",
		docType, topic, structureType,
	)
}

func sectionPrompt(topic, sectionTitle string, docType model.DocType) string {
	if docType == model.DocTypePPTX {
		return fmt.Sprintf("Write 3-4 concise bullet points for a slide titled '%s'. Topic: '%s'.", sectionTitle, topic)
	}
	return fmt.Sprintf("Write a detailed paragraph (100 words) for a section titled '%s'. Topic: '%s'.", sectionTitle, topic)
}

func refinePrompt(currentText, instruction string) string {
	return fmt.Sprintf(
		"Act as an editor. Refine this text: '%s'\nInstruction: '%s'. Return ONLY the refined text.",
		currentText, instruction,
	)
}

// ParseOutline 将模型返回的文本拆分为标题列表
// 去除空白行、强调符号 * 以及行首的 markdown 标记
func ParseOutline(text string) []string {
	var titles []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.ReplaceAll(line, "*", "")
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#-•")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		titles = append(titles, line)
	}
	return titles
}
