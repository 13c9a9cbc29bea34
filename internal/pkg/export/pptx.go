package export

import (
	"fmt"
	"strings"

	"github.com/aidocs/backend/internal/model"
)

const (
	drawingNS = "http://schemas.openxmlformats.org/drawingml/2006/main"
	officeRNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	presNS    = "http://schemas.openxmlformats.org/presentationml/2006/main"
	pptxNS    = `xmlns:a="` + drawingNS + `" xmlns:r="` + officeRNS + `" xmlns:p="` + presNS + `"`

	relSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"

	layoutTitle        = "slideLayout1.xml"
	layoutTitleContent = "slideLayout2.xml"
)

// PptxExporter 导出幻灯片：首页为标题页，其后每个章节一页“标题 + 正文”
type PptxExporter struct{}

func (PptxExporter) Extension() string { return string(model.DocTypePPTX) }

func (PptxExporter) MediaType() string { return MediaTypePPTX }

func (PptxExporter) Export(project *model.Project, sections []model.Section) ([]byte, error) {
	slides := []string{titleSlide(project.Title, project.Topic)}
	layouts := []string{layoutTitle}
	for _, section := range ordered(sections) {
		slides = append(slides, contentSlide(section.Title, section.Content))
		layouts = append(layouts, layoutTitleContent)
	}

	overrides := [][2]string{
		{"ppt/presentation.xml", ctPresentation},
		{"ppt/slideMasters/slideMaster1.xml", ctSlideMaster},
		{"ppt/slideLayouts/" + layoutTitle, ctSlideLayout},
		{"ppt/slideLayouts/" + layoutTitleContent, ctSlideLayout},
		{"ppt/theme/theme1.xml", ctTheme},
	}
	presRels := []relationship{
		{"rId1", relSlideMaster, "slideMasters/slideMaster1.xml"},
		{"rId2", relTheme, "theme/theme1.xml"},
	}
	var slideIDs strings.Builder
	slideParts := make([]part, 0, len(slides)*2)
	for i, slide := range slides {
		n := i + 1
		rID := fmt.Sprintf("rId%d", n+2)
		name := fmt.Sprintf("slide%d.xml", n)

		overrides = append(overrides, [2]string{"ppt/slides/" + name, ctSlide})
		presRels = append(presRels, relationship{rID, relSlide, "slides/" + name})
		fmt.Fprintf(&slideIDs, `<p:sldId id="%d" r:id="%s"/>`, 255+n, rID)

		slideParts = append(slideParts,
			part{"ppt/slides/" + name, slide},
			part{"ppt/slides/_rels/" + name + ".rels", relationships(
				relationship{"rId1", relSlideLayout, "../slideLayouts/" + layouts[i]},
			)},
		)
	}
	overrides = append(overrides, [2]string{corePropsPart, ctCoreProps})

	presentation := xmlHeader +
		`<p:presentation ` + pptxNS + ` saveSubsetFonts="1">` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
		`<p:sldIdLst>` + slideIDs.String() + `</p:sldIdLst>` +
		`<p:sldSz cx="9144000" cy="6858000" type="screen4x3"/>` +
		`<p:notesSz cx="6858000" cy="9144000"/>` +
		`</p:presentation>`

	parts := []part{
		{"[Content_Types].xml", contentTypes(overrides)},
		{"_rels/.rels", relationships(
			relationship{"rId1", relOfficeDoc, "ppt/presentation.xml"},
			relationship{"rId2", relCoreProps, corePropsPart},
		)},
		{"ppt/presentation.xml", presentation},
		{"ppt/_rels/presentation.xml.rels", relationships(presRels...)},
		{"ppt/slideMasters/slideMaster1.xml", slideMaster},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", relationships(
			relationship{"rId1", relSlideLayout, "../slideLayouts/" + layoutTitle},
			relationship{"rId2", relSlideLayout, "../slideLayouts/" + layoutTitleContent},
			relationship{"rId3", relTheme, "../theme/theme1.xml"},
		)},
		{"ppt/slideLayouts/" + layoutTitle, titleLayout},
		{"ppt/slideLayouts/_rels/" + layoutTitle + ".rels", relationships(
			relationship{"rId1", relSlideMaster, "../slideMasters/slideMaster1.xml"},
		)},
		{"ppt/slideLayouts/" + layoutTitleContent, titleContentLayout},
		{"ppt/slideLayouts/_rels/" + layoutTitleContent + ".rels", relationships(
			relationship{"rId1", relSlideMaster, "../slideMasters/slideMaster1.xml"},
		)},
		{"ppt/theme/theme1.xml", theme},
	}
	parts = append(parts, slideParts...)
	parts = append(parts, part{corePropsPart, coreProperties(project.Title)})

	return writePackage(parts)
}

func titleSlide(title, subtitle string) string {
	return slideXML(
		placeholder(2, "Title 1", `type="ctrTitle"`, "", "", []string{title}),
		placeholder(3, "Subtitle 2", `type="subTitle" idx="1"`, "", "", lines(subtitle)),
	)
}

func contentSlide(title, body string) string {
	return slideXML(
		placeholder(2, "Title 1", `type="title"`, "", "", []string{title}),
		placeholder(3, "Content Placeholder 2", `idx="1"`, "", "", lines(body)),
	)
}

func slideXML(shapes ...string) string {
	return xmlHeader +
		`<p:sld ` + pptxNS + `>` +
		`<p:cSld>` + spTree(shapes...) + `</p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
		`</p:sld>`
}

func spTree(shapes ...string) string {
	return `<p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
		strings.Join(shapes, "") +
		`</p:spTree>`
}

func xfrm(x, y, cx, cy int) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, x, y, cx, cy)
}

// placeholder 生成占位符形状，每行文本对应一个段落
func placeholder(id int, name, ph, frame, lstStyle string, paragraphs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/>`, id, name)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`)
	b.WriteString(`<p:nvPr><p:ph ` + ph + `/></p:nvPr></p:nvSpPr>`)
	if frame == "" {
		b.WriteString(`<p:spPr/>`)
	} else {
		b.WriteString(`<p:spPr>` + frame + `</p:spPr>`)
	}
	b.WriteString(`<p:txBody><a:bodyPr/>`)
	if lstStyle == "" {
		b.WriteString(`<a:lstStyle/>`)
	} else {
		b.WriteString(`<a:lstStyle>` + lstStyle + `</a:lstStyle>`)
	}
	if len(paragraphs) == 0 {
		paragraphs = []string{""}
	}
	for _, text := range paragraphs {
		if text == "" {
			b.WriteString(`<a:p><a:endParaRPr lang="en-US" dirty="0"/></a:p>`)
			continue
		}
		b.WriteString(`<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>` + escape(text) + `</a:t></a:r></a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

var slideMaster = xmlHeader +
	`<p:sldMaster ` + pptxNS + `>` +
	`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg>` +
	spTree(
		placeholder(2, "Title Placeholder 1", `type="title"`, xfrm(457200, 274638, 8229600, 1143000), "", nil),
		placeholder(3, "Text Placeholder 2", `type="body" idx="1"`, xfrm(457200, 1600200, 8229600, 4525963), "", nil),
	) +
	`</p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" ` +
	`accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/><p:sldLayoutId id="2147483650" r:id="rId2"/></p:sldLayoutIdLst>` +
	`<p:txStyles>` +
	`<p:titleStyle><a:lvl1pPr algn="ctr"><a:defRPr sz="4400"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill>` +
	`<a:latin typeface="+mj-lt"/></a:defRPr></a:lvl1pPr></p:titleStyle>` +
	`<p:bodyStyle><a:lvl1pPr marL="342900" indent="-342900"><a:buChar char="&#8226;"/><a:defRPr sz="2800">` +
	`<a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mn-lt"/></a:defRPr></a:lvl1pPr></p:bodyStyle>` +
	`<p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:otherStyle>` +
	`</p:txStyles>` +
	`</p:sldMaster>`

var titleLayout = xmlHeader +
	`<p:sldLayout ` + pptxNS + ` type="title" preserve="1">` +
	`<p:cSld name="Title Slide">` +
	spTree(
		placeholder(2, "Title 1", `type="ctrTitle"`, xfrm(685800, 2130425, 7772400, 1470025), "", nil),
		placeholder(3, "Subtitle 2", `type="subTitle" idx="1"`, xfrm(1371600, 3886200, 6400800, 1752600),
			`<a:lvl1pPr marL="0" indent="0" algn="ctr"><a:buNone/></a:lvl1pPr>`, nil),
	) +
	`</p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

var titleContentLayout = xmlHeader +
	`<p:sldLayout ` + pptxNS + ` type="obj" preserve="1">` +
	`<p:cSld name="Title and Content">` +
	spTree(
		placeholder(2, "Title 1", `type="title"`, "", "", nil),
		placeholder(3, "Content Placeholder 2", `idx="1"`, "", "", nil),
	) +
	`</p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

const theme = xmlHeader +
	`<a:theme xmlns:a="` + drawingNS + `" name="Office Theme"><a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="1F497D"/></a:dk2><a:lt2><a:srgbClr val="EEECE1"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4F81BD"/></a:accent1><a:accent2><a:srgbClr val="C0504D"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="9BBB59"/></a:accent3><a:accent4><a:srgbClr val="8064A2"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="4BACC6"/></a:accent5><a:accent6><a:srgbClr val="F79646"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0000FF"/></a:hlink><a:folHlink><a:srgbClr val="800080"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Office">` +
	`<a:majorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst>` + themeFill + themeFill + themeFill + `</a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="9525">` + themeFill + `</a:ln><a:ln w="25400">` + themeFill + `</a:ln><a:ln w="38100">` + themeFill + `</a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst>` + themeEffect + themeEffect + themeEffect + `</a:effectStyleLst>` +
	`<a:bgFillStyleLst>` + themeFill + themeFill + themeFill + `</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements></a:theme>`

const (
	themeFill   = `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`
	themeEffect = `<a:effectStyle><a:effectLst/></a:effectStyle>`
)
