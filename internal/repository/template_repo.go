package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/docuassist/backend/internal/model"
)

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(tpl *model.Template) error {
	return r.db.Create(tpl).Error
}

func (r *templateRepository) List(search string) ([]model.Template, error) {
	var templates []model.Template
	query := r.db.Order("updated_at DESC")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	err := query.Find(&templates).Error
	return templates, err
}

func (r *templateRepository) ListActive() ([]model.Template, error) {
	var templates []model.Template
	err := r.db.Where("is_active = ?", true).
		Order("updated_at DESC").
		Find(&templates).Error
	return templates, err
}

func (r *templateRepository) Get(id string) (*model.Template, error) {
	var tpl model.Template
	err := r.db.First(&tpl, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) Save(tpl *model.Template) error {
	return r.db.Save(tpl).Error
}

func (r *templateRepository) Delete(id string) (bool, error) {
	result := r.db.Delete(&model.Template{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *templateRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Template{}).Count(&count).Error
	return count, err
}
