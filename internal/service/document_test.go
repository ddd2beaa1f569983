package service

import (
	"testing"

	"github.com/docuassist/backend/internal/pkg/database"
	"github.com/docuassist/backend/internal/repository"
)

func newDocumentService(t *testing.T) *DocumentService {
	t.Helper()
	db, err := database.InitDB("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	return NewDocumentService(repository.NewDocumentRepository(db))
}

func TestDocumentServiceCreate(t *testing.T) {
	svc := newDocumentService(t)

	doc, err := svc.Create(CreateDocumentRequest{
		Title:        "NDA - Acme",
		Content:      "Between Acme and Beta",
		TemplateID:   "tpl-1",
		TemplateName: "NDA",
		FilledValues: map[string]any{"party_a": "Acme"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if doc.ID == "" {
		t.Error("expected generated id")
	}
	if doc.FilledValues["party_a"] != "Acme" {
		t.Errorf("unexpected values: %+v", doc.FilledValues)
	}
}

func TestDocumentServiceCreateNilValues(t *testing.T) {
	svc := newDocumentService(t)

	doc, err := svc.Create(CreateDocumentRequest{Title: "bare", Content: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if doc.FilledValues == nil {
		t.Error("filled values should default to empty map")
	}
}

func TestDocumentServiceUpdatePartial(t *testing.T) {
	svc := newDocumentService(t)

	doc, err := svc.Create(CreateDocumentRequest{Title: "v1", Content: "body"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	title := "v2"
	updated, err := svc.Update(doc.ID, UpdateDocumentRequest{Title: &title})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "v2" || updated.Content != "body" {
		t.Errorf("unexpected document: %+v", updated)
	}
}
