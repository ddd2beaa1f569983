package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/docuassist/backend/internal/model"
)

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(doc *model.Document) error {
	return r.db.Create(doc).Error
}

func (r *documentRepository) List() ([]model.Document, error) {
	var docs []model.Document
	err := r.db.Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *documentRepository) Get(id string) (*model.Document, error) {
	var doc model.Document
	err := r.db.First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) Save(doc *model.Document) error {
	return r.db.Save(doc).Error
}

func (r *documentRepository) Delete(id string) (bool, error) {
	result := r.db.Delete(&model.Document{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
