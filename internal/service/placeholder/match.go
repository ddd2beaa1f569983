package placeholder

import (
	"strings"

	"github.com/docuassist/backend/internal/model"
)

// 打分权重与阈值集中声明，便于调参
const (
	matchThreshold = 30
	nameMatchScore = 100
	nameWordScore  = 30
	descWordScore  = 10
	aliasScore     = 50
)

// creationKeywords 表达建档意图的关键词，命中时分数乘 1.5
var creationKeywords = []string{
	"create", "make", "generate", "draft", "write", "prepare",
	"need", "want", "help me with", "can you", "let's", "lets",
}

// typeAliases 常见文档类型的同义说法
// key 需出现在模板名中，value 中每个命中的短语各加 50 分
var typeAliases = map[string][]string{
	"nda": {"non-disclosure", "non disclosure", "confidentiality",
		"confidential agreement", "secrecy agreement"},
	"contract":   {"agreement", "deal", "terms"},
	"invoice":    {"bill", "billing", "payment"},
	"letter":     {"correspondence", "mail"},
	"proposal":   {"offer", "pitch", "quotation"},
	"resume":     {"cv", "curriculum vitae"},
	"employment": {"job", "hiring", "work"},
}

// Match 在候选模板中找与输入最匹配的一个
// 得分未达阈值时返回 nil，非激活模板不参与
func Match(input string, templates []model.Template) *model.Template {
	inputLower := strings.ToLower(input)

	hasIntent := false
	for _, kw := range creationKeywords {
		if strings.Contains(inputLower, kw) {
			hasIntent = true
			break
		}
	}

	var best *model.Template
	bestScore := 0

	for i := range templates {
		tpl := &templates[i]
		if !tpl.IsActive {
			continue
		}

		score := scoreTemplate(inputLower, tpl, hasIntent)
		if score > bestScore {
			bestScore = score
			best = tpl
		}
	}

	if bestScore >= matchThreshold {
		return best
	}
	return nil
}

func scoreTemplate(inputLower string, tpl *model.Template, hasIntent bool) int {
	score := 0
	nameLower := strings.ToLower(tpl.Name)
	descLower := strings.ToLower(tpl.Description)

	// 模板全名直接出现，权重最高
	if strings.Contains(inputLower, nameLower) {
		score += nameMatchScore
	}

	for _, word := range strings.Fields(nameLower) {
		if len(word) > 2 && strings.Contains(inputLower, word) {
			score += nameWordScore
		}
	}

	for _, word := range strings.Fields(descLower) {
		if len(word) > 3 && strings.Contains(inputLower, word) {
			score += descWordScore
		}
	}

	for key, aliases := range typeAliases {
		if !strings.Contains(nameLower, key) {
			continue
		}
		for _, alias := range aliases {
			if strings.Contains(inputLower, alias) {
				score += aliasScore
			}
		}
	}

	// 整数截断，与 1.5 倍加成等价
	if hasIntent && score > 0 {
		score = score * 3 / 2
	}

	return score
}
