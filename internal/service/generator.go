package service

import (
	"context"

	"github.com/aidocs/backend/internal/model"
)

// ContentGenerator 内容生成能力，实现方负责降级，不返回错误
type ContentGenerator interface {
	GenerateOutline(ctx context.Context, topic string, docType model.DocType) []string
	GenerateSectionBody(ctx context.Context, topic, sectionTitle string, docType model.DocType) string
	Refine(ctx context.Context, currentText, instruction string) string
}
