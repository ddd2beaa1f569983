package placeholder

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Flatten 将 Quill delta JSON 展平为纯文本
// 不是 delta 编码的内容原样返回，不视为错误
func Flatten(content string) string {
	var ops []any
	if err := json.Unmarshal([]byte(content), &ops); err != nil {
		return content
	}

	var b strings.Builder
	for _, op := range ops {
		m, ok := op.(map[string]any)
		if !ok {
			continue
		}
		if insert, ok := m["insert"].(string); ok {
			b.WriteString(insert)
		}
	}
	return b.String()
}

// 三种占位符语法，统一归一化为下划线小写字段名
var (
	curlyPattern  = regexp.MustCompile(`\{+([a-zA-Z_][a-zA-Z0-9_ ]*)\}+`)
	squarePattern = regexp.MustCompile(`\[([A-Za-z][A-Za-z0-9 _]+)\]`)
	anglePattern  = regexp.MustCompile(`<([a-zA-Z_][a-zA-Z0-9_]*)>`)
)

// commonField 法律/商务文档里常见字段的启发式规则
// present 判断同义词是否出现，blank 判断其后是否紧跟待填标记
type commonField struct {
	name    string
	present *regexp.Regexp
	blank   *regexp.Regexp
}

func newCommonField(name, synonyms string) commonField {
	return commonField{
		name:    name,
		present: regexp.MustCompile(synonyms),
		blank:   regexp.MustCompile(`(?:` + synonyms + `)[:\s]*[_\[{<]`),
	}
}

var commonFields = []commonField{
	newCommonField("party_a", `party\s*a|first\s*party|disclosing\s*party`),
	newCommonField("party_b", `party\s*b|second\s*party|receiving\s*party`),
	newCommonField("effective_date", `effective\s*date|date\s*of\s*agreement`),
	newCommonField("company_name", `company\s*name`),
	newCommonField("your_name", `your\s*name|client\s*name`),
	newCommonField("address", `address`),
	newCommonField("amount", `amount|sum|payment`),
}

// Extract 从展平后的模板文本提取占位符
// 返回归一化字段名到提示文案的映射
func Extract(templateText string) map[string]string {
	placeholders := make(map[string]string)

	for _, match := range curlyPattern.FindAllStringSubmatch(templateText, -1) {
		name := normalizeField(match[1])
		placeholders[name] = "Value for " + match[1]
	}

	for _, match := range squarePattern.FindAllStringSubmatch(templateText, -1) {
		name := normalizeField(match[1])
		placeholders[name] = "Value for " + match[1]
	}

	for _, match := range anglePattern.FindAllStringSubmatch(templateText, -1) {
		name := strings.ToLower(strings.TrimSpace(match[1]))
		placeholders[name] = "Value for " + match[1]
	}

	textLower := strings.ToLower(templateText)
	for _, field := range commonFields {
		if _, exists := placeholders[field.name]; exists {
			continue
		}
		if field.present.MatchString(textLower) && field.blank.MatchString(textLower) {
			placeholders[field.name] = "Please provide the " + strings.ReplaceAll(field.name, "_", " ")
		}
	}

	return placeholders
}

func normalizeField(capture string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(capture), " ", "_"))
}
