package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/docuassist/backend/internal/model"
)

func TestDocumentCRUD(t *testing.T) {
	repo := NewDocumentRepository(newTestDB(t))

	doc := &model.Document{
		ID:           "doc-1",
		Title:        "NDA - Acme",
		Content:      "Between Acme and Beta",
		TemplateID:   "tpl-1",
		TemplateName: "NDA",
		FilledValues: model.JSONMap{"party_a": "Acme", "party_b": "Beta"},
	}
	if err := repo.Create(doc); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.Get("doc-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "NDA - Acme" || got.TemplateName != "NDA" {
		t.Errorf("unexpected document: %+v", got)
	}
	// JSONMap 往返保持键值
	if got.FilledValues["party_a"] != "Acme" || got.FilledValues["party_b"] != "Beta" {
		t.Errorf("unexpected filled values: %+v", got.FilledValues)
	}

	got.Title = "NDA - Acme (v2)"
	if err := repo.Save(got); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err = repo.Get("doc-1")
	if err != nil {
		t.Fatalf("Get after save failed: %v", err)
	}
	if got.Title != "NDA - Acme (v2)" {
		t.Errorf("expected updated title, got %q", got.Title)
	}

	deleted, err := repo.Delete("doc-1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report true")
	}
	if _, err := repo.Get("doc-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentListOrder(t *testing.T) {
	repo := NewDocumentRepository(newTestDB(t))

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []*model.Document{
		{ID: "old", Title: "first", CreatedAt: base, UpdatedAt: base},
		{ID: "new", Title: "second", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
	}
	for _, doc := range docs {
		if err := repo.Create(doc); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(list))
	}
	if list[0].ID != "new" || list[1].ID != "old" {
		t.Errorf("unexpected order: %s, %s", list[0].ID, list[1].ID)
	}
}

func TestDocumentNilFilledValues(t *testing.T) {
	repo := NewDocumentRepository(newTestDB(t))

	if err := repo.Create(&model.Document{ID: "doc-nil", Title: "bare"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.Get("doc-nil")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.FilledValues == nil {
		t.Error("expected empty map after round trip, got nil")
	}
	if len(got.FilledValues) != 0 {
		t.Errorf("expected empty filled values, got %+v", got.FilledValues)
	}
}
