package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/docuassist/backend/internal/model"
	"github.com/docuassist/backend/internal/repository"
)

// CreateDocumentRequest 创建文档请求
type CreateDocumentRequest struct {
	Title        string         `json:"title" binding:"required"`
	Content      string         `json:"content" binding:"required"`
	TemplateID   string         `json:"template_id"`
	TemplateName string         `json:"template_name"`
	FilledValues map[string]any `json:"filled_values"`
}

// UpdateDocumentRequest 更新文档请求，空字段不改动
type UpdateDocumentRequest struct {
	Title        *string         `json:"title"`
	Content      *string         `json:"content"`
	FilledValues *map[string]any `json:"filled_values"`
}

// DocumentService 文档服务
type DocumentService struct {
	repo repository.DocumentRepository
}

// NewDocumentService 创建服务实例
func NewDocumentService(repo repository.DocumentRepository) *DocumentService {
	return &DocumentService{repo: repo}
}

// List 获取文档列表，按创建时间倒序
func (s *DocumentService) List() ([]model.Document, error) {
	docs, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Get 获取单个文档
func (s *DocumentService) Get(id string) (*model.Document, error) {
	return s.repo.Get(id)
}

// Create 保存新文档
func (s *DocumentService) Create(req CreateDocumentRequest) (*model.Document, error) {
	values := req.FilledValues
	if values == nil {
		values = map[string]any{}
	}

	doc := &model.Document{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Content:      req.Content,
		TemplateID:   req.TemplateID,
		TemplateName: req.TemplateName,
		FilledValues: model.JSONMap(values),
	}

	if err := s.repo.Create(doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

// Update 部分更新文档
func (s *DocumentService) Update(id string, req UpdateDocumentRequest) (*model.Document, error) {
	doc, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Content != nil {
		doc.Content = *req.Content
	}
	if req.FilledValues != nil {
		doc.FilledValues = model.JSONMap(*req.FilledValues)
	}

	if err := s.repo.Save(doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return doc, nil
}

// Delete 删除文档
func (s *DocumentService) Delete(id string) (bool, error) {
	return s.repo.Delete(id)
}
