package placeholder

import (
	"fmt"
	"strings"
	"unicode"
)

// Fill 将收集到的值替换进模板文本
// 每个字段尝试全部语法变体，字面全局替换；没有对应占位符的字段静默跳过，
// 没有给值的占位符原样保留
func Fill(templateText string, values map[string]any) string {
	result := templateText

	for field, value := range values {
		v := fmt.Sprint(value)
		spaced := strings.ReplaceAll(field, "_", " ")
		patterns := []string{
			"{" + field + "}",
			"{" + spaced + "}",
			"{" + strings.ToUpper(field) + "}",
			"{" + titleCase(field) + "}",
			"[" + field + "]",
			"[" + titleCase(spaced) + "]",
			"[" + strings.ToUpper(field) + "]",
			"<" + field + ">",
		}
		for _, pattern := range patterns {
			result = strings.ReplaceAll(result, pattern, v)
		}
	}

	return result
}

// titleCase 每个字母序列首字母大写、其余小写，非字母视为分隔
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
