package ollama

import (
	"bytes"
	"encoding/json"
)

// Options 采样参数，随每次请求下发
type Options struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	TopK          int     `json:"top_k"`
	NumCtx        int     `json:"num_ctx"`
	RepeatPenalty float64 `json:"repeat_penalty"`
	NumPredict    int     `json:"num_predict,omitempty"`
}

// Tool 定义一个可供模型调用的工具
// 符合 Ollama Function Calling 格式
type Tool struct {
	Type     string       `json:"type"` // 固定为 "function"
	Function ToolFunction `json:"function"`
}

// ToolFunction 工具函数定义
type ToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  ParameterSchema `json:"parameters"`
}

// ParameterSchema 参数 JSON Schema 定义
type ParameterSchema struct {
	Type       string              `json:"type"` // 固定为 "object"
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// Property 单个参数属性
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ToolCall 模型返回的工具调用请求
type ToolCall struct {
	Function FunctionCall `json:"function"`
}

// FunctionCall 函数调用详情
// Arguments 可能是 JSON 对象，也可能是字符串包裹的 JSON
type FunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// RawArguments 返回参数的 JSON 字节，字符串包裹的形式会先解包
func (f FunctionCall) RawArguments() []byte {
	raw := bytes.TrimSpace(f.Arguments)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return []byte(s)
		}
	}
	return raw
}

// ChatMessage 对话消息
type ChatMessage struct {
	Role      string     `json:"role"` // system, user, assistant, tool
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ChatRequest /api/chat 请求体
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Tools    []Tool        `json:"tools,omitempty"`
	Options  Options       `json:"options"`
}

// ChatResponse /api/chat 响应体
type ChatResponse struct {
	Model   string      `json:"model"`
	Message ChatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// GenerateRequest /api/generate 请求体
type GenerateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options Options `json:"options"`
}

// GenerateResponse /api/generate 响应体
type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// TagsResponse /api/tags 响应体
type TagsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ModelInfo 已安装模型信息
type ModelInfo struct {
	Name string `json:"name"`
}
