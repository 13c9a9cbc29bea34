package utils

import "testing"

// TestExtractCodeBlock 验证代码块提取
func TestExtractCodeBlock(t *testing.T) {
	cases := map[string]string{
		"plain text":                              "plain text",
		"```\nIntro\nBody\n```":                   "Intro\nBody",
		"Sure:\n```markdown\n- a\n- b\n```\nDone": "- a\n- b",
		"```text\nunterminated":                   "```text\nunterminated",
		"inline ``` fence":                        "inline ``` fence",
	}
	for input, want := range cases {
		if got := ExtractCodeBlock(input); got != want {
			t.Fatalf("ExtractCodeBlock(%q) = %q, want %q", input, got, want)
		}
	}
}
