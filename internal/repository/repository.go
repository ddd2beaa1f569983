package repository

import (
	"errors"

	"github.com/docuassist/backend/internal/model"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

type TemplateRepository interface {
	Create(tpl *model.Template) error
	// List 按 updated_at 倒序返回，search 匹配名称或描述
	List(search string) ([]model.Template, error)
	ListActive() ([]model.Template, error)
	Get(id string) (*model.Template, error)
	Save(tpl *model.Template) error
	Delete(id string) (bool, error)
	Count() (int64, error)
}

type DocumentRepository interface {
	Create(doc *model.Document) error
	// List 按 created_at 倒序返回
	List() ([]model.Document, error)
	Get(id string) (*model.Document, error)
	Save(doc *model.Document) error
	Delete(id string) (bool, error)
}

type SettingsRepository interface {
	// Load 读取单行设置，不存在时返回 ErrNotFound
	Load() (*model.LLMSettings, error)
	Save(settings *model.LLMSettings) error
}
