package export

import (
	"bytes"
	"fmt"

	"github.com/aidocs/backend/internal/model"
	"github.com/gomutex/godocx"
)

const (
	docxStyleTitle  = "Title"
	docxStyleHeader = "Heading1"
)

// DocxExporter 导出 Word 文档：项目标题 + 每个章节的一级标题与正文段落
type DocxExporter struct{}

func (DocxExporter) Extension() string { return string(model.DocTypeDOCX) }

func (DocxExporter) MediaType() string { return MediaTypeDOCX }

func (DocxExporter) Export(project *model.Project, sections []model.Section) ([]byte, error) {
	document, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("new docx document: %w", err)
	}

	// level 0 对应 Title 样式，level 1 对应 Heading1
	if _, err := document.AddHeading(project.Title, 0); err != nil {
		return nil, fmt.Errorf("add title: %w", err)
	}
	for _, section := range ordered(sections) {
		if _, err := document.AddHeading(section.Title, 1); err != nil {
			return nil, fmt.Errorf("add heading %q: %w", section.Title, err)
		}
		for _, line := range lines(section.Content) {
			document.AddParagraph(line)
		}
	}

	buf := new(bytes.Buffer)
	if err := document.Write(buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}
