package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docuassist/backend/internal/model"
)

func sampleTemplates() []model.Template {
	return []model.Template{
		{ID: "t-nda", Name: "NDA", Description: "Non-disclosure agreement between two parties", IsActive: true},
		{ID: "t-inv", Name: "Invoice", Description: "Billing document for services rendered", IsActive: true},
		{ID: "t-let", Name: "Business Letter", Description: "Formal business correspondence", IsActive: true},
	}
}

func TestMatchAlias(t *testing.T) {
	got := Match("I need a non-disclosure agreement", sampleTemplates())
	if assert.NotNil(t, got) {
		assert.Equal(t, "t-nda", got.ID)
	}
}

func TestMatchExactName(t *testing.T) {
	got := Match("draft an invoice for my client", sampleTemplates())
	if assert.NotNil(t, got) {
		assert.Equal(t, "t-inv", got.ID)
	}
}

func TestMatchNoIntentStillMatchesOnName(t *testing.T) {
	got := Match("nda", sampleTemplates())
	if assert.NotNil(t, got) {
		assert.Equal(t, "t-nda", got.ID)
	}
}

func TestMatchUnrelatedInput(t *testing.T) {
	assert.Nil(t, Match("what is the weather today", sampleTemplates()))
}

func TestMatchSkipsInactive(t *testing.T) {
	templates := []model.Template{
		{ID: "t-nda", Name: "NDA", Description: "Non-disclosure agreement", IsActive: false},
	}
	assert.Nil(t, Match("I need an nda", templates))
}

// 同分时保留先出现的模板
func TestMatchFirstWinsOnTie(t *testing.T) {
	templates := []model.Template{
		{ID: "a", Name: "Invoice", IsActive: true},
		{ID: "b", Name: "Invoice", IsActive: true},
	}
	got := Match("create an invoice", templates)
	if assert.NotNil(t, got) {
		assert.Equal(t, "a", got.ID)
	}
}
