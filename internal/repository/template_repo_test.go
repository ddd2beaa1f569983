package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/docuassist/backend/internal/model"
)

// newTestDB 创建内存数据库并迁移全部表
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.Template{}, &model.Document{}, &model.LLMSettings{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestTemplateCRUD(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t))

	tpl := &model.Template{
		ID:       "tpl-1",
		Name:     "NDA",
		Content:  "Between {Party A} and {Party B}",
		Category: "legal",
		IsActive: true,
	}
	if err := repo.Create(tpl); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.Get("tpl-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "NDA" || got.Category != "legal" {
		t.Errorf("unexpected template: %+v", got)
	}

	got.Description = "updated"
	if err := repo.Save(got); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err = repo.Get("tpl-1")
	if err != nil {
		t.Fatalf("Get after save failed: %v", err)
	}
	if got.Description != "updated" {
		t.Errorf("expected updated description, got %q", got.Description)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	deleted, err := repo.Delete("tpl-1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report true")
	}
	if _, err := repo.Get("tpl-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// 显式创建为非激活的模板必须按非激活落库，且不进激活清单
func TestTemplateCreateInactivePersisted(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t))

	if err := repo.Create(&model.Template{ID: "tpl-draft", Name: "Draft", IsActive: false}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.Get("tpl-draft")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.IsActive {
		t.Error("template created inactive was persisted as active")
	}

	active, err := repo.ListActive()
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("inactive template leaked into active list: %+v", active)
	}
}

func TestTemplateGetMissing(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t))

	if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	deleted, err := repo.Delete("missing")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted {
		t.Error("expected delete of missing row to report false")
	}
}

func TestTemplateListOrderAndSearch(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t))

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	templates := []*model.Template{
		{ID: "a", Name: "NDA", Description: "confidentiality", IsActive: true,
			CreatedAt: base, UpdatedAt: base},
		{ID: "b", Name: "Invoice", Description: "billing", IsActive: true,
			CreatedAt: base, UpdatedAt: base.Add(time.Hour)},
		{ID: "c", Name: "Letter", Description: "inactive one", IsActive: false,
			CreatedAt: base, UpdatedAt: base.Add(2 * time.Hour)},
	}
	for _, tpl := range templates {
		if err := repo.Create(tpl); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := repo.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(all))
	}
	if all[0].ID != "c" || all[1].ID != "b" || all[2].ID != "a" {
		t.Errorf("unexpected order: %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}

	found, err := repo.List("bill")
	if err != nil {
		t.Fatalf("List with search failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != "b" {
		t.Errorf("unexpected search result: %+v", found)
	}

	active, err := repo.ListActive()
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active templates, got %d", len(active))
	}
	for _, tpl := range active {
		if !tpl.IsActive {
			t.Errorf("inactive template in result: %s", tpl.ID)
		}
	}
}
