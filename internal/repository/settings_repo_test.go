package repository

import (
	"errors"
	"testing"

	"github.com/docuassist/backend/internal/model"
)

func TestSettingsLoadMissing(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))

	if _, err := repo.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSettingsSaveAndLoad(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))

	settings := model.DefaultLLMSettings("http://localhost:11434", "llama3.1:8b")
	if err := repo.Save(settings); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.ModelName != "llama3.1:8b" || !got.UseToolCalling {
		t.Errorf("unexpected settings: %+v", got)
	}
	if got.Temperature != 0.7 || got.NumCtx != 4096 {
		t.Errorf("unexpected sampling defaults: %+v", got)
	}
}

// Save 始终写同一行，不产生第二条记录
func TestSettingsSingleRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db)

	first := model.DefaultLLMSettings("http://localhost:11434", "llama3.1:8b")
	if err := repo.Save(first); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second := model.DefaultLLMSettings("http://other:11434", "mistral:latest")
	second.ID = 0 // Save 会强制固定主键
	if err := repo.Save(second); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	var count int64
	if err := db.Model(&model.LLMSettings{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected single settings row, got %d", count)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.ModelName != "mistral:latest" {
		t.Errorf("expected latest settings, got %s", got.ModelName)
	}
}
