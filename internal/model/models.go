package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Template 文档模板
// Content 可能是 Quill delta JSON，也可能是纯文本，使用前需展平
type Template struct {
	ID          string    `json:"id" gorm:"primaryKey;size:64"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"size:1000"`
	Content     string    `json:"content" gorm:"type:text"`
	Category    string    `json:"category" gorm:"size:50;default:custom"`
	// 不加 default 标签：GORM 会在 INSERT 时丢弃带默认值的零值字段，
	// false 会被悄悄写成 true；默认激活由 service 层显式赋值
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Document 基于模板生成的文档
// TemplateName 为冗余字段，模板被编辑或删除后仍可展示来源
type Document struct {
	ID           string    `json:"id" gorm:"primaryKey;size:64"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Content      string    `json:"content" gorm:"type:text"`
	TemplateID   string    `json:"template_id" gorm:"size:64;index"`
	TemplateName string    `json:"template_name" gorm:"size:255"`
	FilledValues JSONMap   `json:"filled_values" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LLMSettings 模型服务运行参数，单行表
// 每条入站消息都重新读取，修改立即生效
type LLMSettings struct {
	ID             uint      `json:"-" gorm:"primaryKey"`
	BaseURL        string    `json:"base_url" gorm:"size:500"`
	ModelName      string    `json:"model_name" gorm:"size:255"`
	UseToolCalling bool      `json:"use_tool_calling"`
	SystemPrompt   string    `json:"system_prompt" gorm:"type:text"`
	Temperature    float64   `json:"temperature"`
	TopP           float64   `json:"top_p"`
	TopK           int       `json:"top_k"`
	NumCtx         int       `json:"num_ctx"`
	RepeatPenalty  float64   `json:"repeat_penalty"`
	UpdatedAt      time.Time `json:"-"`
}

// TableName 指定表名
func (LLMSettings) TableName() string {
	return "llm_settings"
}

// DefaultLLMSettings 返回默认模型设置
func DefaultLLMSettings(baseURL, modelName string) *LLMSettings {
	return &LLMSettings{
		ID:             1,
		BaseURL:        baseURL,
		ModelName:      modelName,
		UseToolCalling: true,
		SystemPrompt: `You are an intelligent document assistant. Your primary task is to help users create documents based on templates.

When a user asks to create a document (like NDA, contract, letter, etc.):
1. First, identify which template best matches their request
2. Ask for any required information to fill the template
3. Once you have all needed information, generate the document

Always be helpful, professional, and accurate in your responses.`,
		Temperature:   0.7,
		TopP:          0.9,
		TopK:          40,
		NumCtx:        4096,
		RepeatPenalty: 1.1,
	}
}

// JSONMap 以 JSON 文本落库的 map 字段
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}

	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}
