package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/docuassist/backend/internal/model"
	"github.com/docuassist/backend/internal/repository"
	"github.com/docuassist/backend/internal/service/placeholder"
)

// CreateTemplateRequest 创建模板请求
type CreateTemplateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=1000"`
	Content     string `json:"content" binding:"required"`
	Category    string `json:"category"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateTemplateRequest 更新模板请求，空字段不改动
type UpdateTemplateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Category    *string `json:"category"`
	IsActive    *bool   `json:"is_active"`
}

// TemplateService 模板服务
type TemplateService struct {
	repo repository.TemplateRepository
}

// NewTemplateService 创建服务实例
func NewTemplateService(repo repository.TemplateRepository) *TemplateService {
	return &TemplateService{repo: repo}
}

// List 获取模板列表，按更新时间倒序
func (s *TemplateService) List(search string) ([]model.Template, error) {
	templates, err := s.repo.List(search)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// Get 获取单个模板
func (s *TemplateService) Get(id string) (*model.Template, error) {
	return s.repo.Get(id)
}

// Create 创建模板
func (s *TemplateService) Create(req CreateTemplateRequest) (*model.Template, error) {
	tpl := &model.Template{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		IsActive:    true,
	}
	if tpl.Category == "" {
		tpl.Category = "custom"
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}

	if err := s.repo.Create(tpl); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return tpl, nil
}

// Update 部分更新模板
func (s *TemplateService) Update(id string, req UpdateTemplateRequest) (*model.Template, error) {
	tpl, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tpl.Name = *req.Name
	}
	if req.Description != nil {
		tpl.Description = *req.Description
	}
	if req.Content != nil {
		tpl.Content = *req.Content
	}
	if req.Category != nil {
		tpl.Category = *req.Category
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}

	if err := s.repo.Save(tpl); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return tpl, nil
}

// Delete 删除模板
func (s *TemplateService) Delete(id string) (bool, error) {
	return s.repo.Delete(id)
}

// Match 在激活模板中找与输入最匹配的一个，无把握时返回 nil
func (s *TemplateService) Match(input string) (*model.Template, error) {
	templates, err := s.repo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return placeholder.Match(input, templates), nil
}

// Fields 展平模板内容并提取占位符
func (s *TemplateService) Fields(id string) (map[string]string, error) {
	tpl, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	return placeholder.Extract(placeholder.Flatten(tpl.Content)), nil
}
