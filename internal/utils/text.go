package utils

import (
	"strings"

	"k8s.io/klog/v2"
)

const codeFence = "```"

// ExtractCodeBlock 提取模型输出中第一个 ``` 代码块的内容
// 未找到完整代码块时返回原始内容
func ExtractCodeBlock(content string) string {
	start := strings.Index(content, codeFence)
	if start < 0 {
		return content
	}

	// 跳过语言标识所在的整行
	body := content[start+len(codeFence):]
	newline := strings.IndexByte(body, '\n')
	if newline < 0 {
		return content
	}
	body = body[newline+1:]

	end := strings.Index(body, codeFence)
	if end < 0 {
		klog.V(6).Infof("[ExtractCodeBlock] 代码块未闭合，返回原始内容")
		return content
	}
	return strings.TrimSpace(body[:end])
}
