package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/docuassist/backend/internal/model"
)

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Load() (*model.LLMSettings, error) {
	var settings model.LLMSettings
	err := r.db.First(&settings, "id = ?", 1).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Save(settings *model.LLMSettings) error {
	settings.ID = 1
	return r.db.Save(settings).Error
}
