package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aidocs/backend/internal/model"
)

const (
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// ErrUnsupportedDocType 未知的导出类型
var ErrUnsupportedDocType = errors.New("unsupported doc type")

// Exporter 将项目及其有序章节渲染为可下载的文档
type Exporter interface {
	Export(project *model.Project, sections []model.Section) ([]byte, error)
	Extension() string
	MediaType() string
}

// ForDocType 按文档类型选择导出器
func ForDocType(docType model.DocType) (Exporter, error) {
	switch docType {
	case model.DocTypeDOCX:
		return DocxExporter{}, nil
	case model.DocTypePPTX:
		return PptxExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDocType, docType)
	}
}

// ordered 返回按 order_index 排序的副本，不修改入参
func ordered(sections []model.Section) []model.Section {
	sorted := slices.Clone(sections)
	slices.SortStableFunc(sorted, func(a, b model.Section) int {
		return a.OrderIndex - b.OrderIndex
	})
	return sorted
}

// lines 按换行拆分文本，统一处理 \r\n
func lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

type part struct {
	name string
	body string
}

// writePackage 在内存中打包 OOXML 各部件
func writePackage(parts []part) ([]byte, error) {
	buf := new(bytes.Buffer)
	zipWriter := zip.NewWriter(buf)

	for _, p := range parts {
		f, err := zipWriter.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := f.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const (
	relsNS        = "http://schemas.openxmlformats.org/package/2006/relationships"
	relOfficeDoc  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps  = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	ctRels        = "application/vnd.openxmlformats-package.relationships+xml"
	ctCoreProps   = "application/vnd.openxmlformats-package.core-properties+xml"
	corePropsPart = "docProps/core.xml"
)

type relationship struct {
	id     string
	typ    string
	target string
}

func relationships(rels ...relationship) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="` + relsNS + `">`)
	for _, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.typ, r.target)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// contentTypes overrides 为 partName -> contentType
func contentTypes(overrides [][2]string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="` + ctRels + `"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	for _, o := range overrides {
		fmt.Fprintf(&b, `<Override PartName="/%s" ContentType="%s"/>`, o[0], o[1])
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func coreProperties(title string) string {
	return xmlHeader +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(title) + `</dc:title>` +
		`</cp:coreProperties>`
}
