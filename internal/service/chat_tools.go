package service

import (
	"encoding/json"
	"fmt"

	"github.com/docuassist/backend/internal/pkg/ollama"
)

// documentTools 返回对话工具目录
// 四个工具覆盖 发现 → 选择 → 列字段 → 生成 的完整流程
func documentTools() []ollama.Tool {
	return []ollama.Tool{
		{
			Type: "function",
			Function: ollama.ToolFunction{
				Name:        "list_templates",
				Description: "List all available document templates. Call this to see what templates are available before selecting one.",
				Parameters: ollama.ParameterSchema{
					Type:       "object",
					Properties: map[string]ollama.Property{},
					Required:   []string{},
				},
			},
		},
		{
			Type: "function",
			Function: ollama.ToolFunction{
				Name:        "select_template",
				Description: "Select a template to use for document creation. Call this when you've identified which template the user needs.",
				Parameters: ollama.ParameterSchema{
					Type: "object",
					Properties: map[string]ollama.Property{
						"template_id": {
							Type:        "string",
							Description: "The ID of the template to use",
						},
						"reason": {
							Type:        "string",
							Description: "Brief explanation of why this template was selected",
						},
					},
					Required: []string{"template_id"},
				},
			},
		},
		{
			Type: "function",
			Function: ollama.ToolFunction{
				Name:        "get_template_fields",
				Description: "Get the required fields/placeholders for a specific template. Call this after selecting a template to know what information to collect.",
				Parameters: ollama.ParameterSchema{
					Type: "object",
					Properties: map[string]ollama.Property{
						"template_id": {
							Type:        "string",
							Description: "The ID of the template",
						},
					},
					Required: []string{"template_id"},
				},
			},
		},
		{
			Type: "function",
			Function: ollama.ToolFunction{
				Name:        "generate_document",
				Description: "Generate and save the final document with all collected values. Call this ONLY when you have ALL required information from the user.",
				Parameters: ollama.ParameterSchema{
					Type: "object",
					Properties: map[string]ollama.Property{
						"template_id": {
							Type:        "string",
							Description: "The ID of the template to use",
						},
						"title": {
							Type:        "string",
							Description: "Title for the generated document",
						},
						"values": {
							Type:        "object",
							Description: "Key-value pairs of field names and their values collected from the user",
						},
					},
					Required: []string{"template_id", "title", "values"},
				},
			},
		},
	}
}

// 工具参数的类型化表示，在分发边界完成校验
type toolArgs interface {
	toolName() string
}

type listTemplatesArgs struct{}

func (listTemplatesArgs) toolName() string { return "list_templates" }

type selectTemplateArgs struct {
	TemplateID string `json:"template_id"`
	Reason     string `json:"reason"`
}

func (selectTemplateArgs) toolName() string { return "select_template" }

type getTemplateFieldsArgs struct {
	TemplateID string `json:"template_id"`
}

func (getTemplateFieldsArgs) toolName() string { return "get_template_fields" }

type generateDocumentArgs struct {
	TemplateID string         `json:"template_id"`
	Title      string         `json:"title"`
	Values     map[string]any `json:"values"`
}

func (generateDocumentArgs) toolName() string { return "generate_document" }

// unknownToolArgs 模型请求了目录之外的工具
type unknownToolArgs struct {
	Name string
}

func (a unknownToolArgs) toolName() string { return a.Name }

// parseToolArgs 将原始工具参数解析为具名类型
// 参数不合法时返回对应类型的零值与解析错误，调用方按空参数恢复、错误留作日志
func parseToolArgs(name string, raw []byte) (toolArgs, error) {
	unmarshal := func(target any) error {
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("malformed arguments for %s: %w", name, err)
		}
		return nil
	}

	switch name {
	case "list_templates":
		return listTemplatesArgs{}, nil
	case "select_template":
		var args selectTemplateArgs
		if err := unmarshal(&args); err != nil {
			return selectTemplateArgs{}, err
		}
		return args, nil
	case "get_template_fields":
		var args getTemplateFieldsArgs
		if err := unmarshal(&args); err != nil {
			return getTemplateFieldsArgs{}, err
		}
		return args, nil
	case "generate_document":
		var args generateDocumentArgs
		if err := unmarshal(&args); err != nil {
			return generateDocumentArgs{}, err
		}
		return args, nil
	default:
		return unknownToolArgs{Name: name}, nil
	}
}
