package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/paper-studio/internal/models"
	"github.com/ayush/paper-studio/internal/sections"
)

func registry(t *testing.T) *sections.Registry {
	t.Helper()
	r, err := sections.Default()
	require.NoError(t, err)
	return r
}

func paper(content map[string]string) *models.Document {
	doc := &models.Document{ID: "Draft", DocumentName: "Draft", Sections: map[string]models.SectionState{}}
	for k, v := range content {
		doc.Sections[k] = models.SectionState{Content: v, Status: models.StatusCompleted}
	}
	return doc
}

func TestMarkdown_ContiguousNumbering(t *testing.T) {
	doc := paper(map[string]string{
		"title":        "T",
		"abstract":     "A",
		"introduction": "I",
		"methods":      "M",
	})

	got := Markdown(doc, registry(t))
	want := "# T\n\n## Abstract\n\nA\n\n## 1. Introduction\n\nI\n\n## 2. Methods\n\nM\n"
	assert.Equal(t, want, got)
}

func TestMarkdown_AnnotationOnlySectionVanishes(t *testing.T) {
	doc := paper(map[string]string{"methods": "{{foo}}【edit note: bar】"})
	got := Markdown(doc, registry(t))
	assert.NotContains(t, got, "Methods")
	assert.Equal(t, "", got)

	doc = paper(map[string]string{"methods": " {{a}}【edit note: b】\n{{c}}【edit note：d】 "})
	assert.NotContains(t, Markdown(doc, registry(t)), "Methods")

	doc = paper(map[string]string{"methods": "We {{foo}}【edit note: bar】."})
	assert.Equal(t, "## 1. Methods\n\nWe foo.\n", Markdown(doc, registry(t)))
}

func TestMarkdown_SkippedSectionDoesNotAdvanceCounter(t *testing.T) {
	doc := paper(map[string]string{
		"introduction": "I",
		"background":   "{{ }}【edit note: drop】",
		"methods":      "M",
		"results":      "   ",
		"discussion":   "D",
	})
	got := Markdown(doc, registry(t))
	assert.Contains(t, got, "## 1. Introduction")
	assert.Contains(t, got, "## 2. Methods")
	assert.Contains(t, got, "## 3. Discussion")
	assert.NotContains(t, got, "Background")
	assert.NotContains(t, got, "Results")
}

func TestMarkdown_StripsAnnotations(t *testing.T) {
	doc := paper(map[string]string{
		"idea":     "Use {{sparse}}【edit note: say low-rank】 models.",
		"keywords": "a; b",
	})
	got := Markdown(doc, registry(t))
	assert.Equal(t, "## Core Idea\n\nUse sparse models.\n\n## Keywords\n\na; b\n", got)
	assert.False(t, strings.Contains(got, "edit note"))
}

func TestMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", Markdown(paper(nil), registry(t)))
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		doc  *models.Document
		want string
	}{
		{"title", paper(map[string]string{"title": "Deep  Nets: A/B Study?"}), "Deep Nets- A-B Study-.md"},
		{"annotated title", paper(map[string]string{"title": "{{Old}}【edit note: New】"}), "Old.md"},
		{"display name fallback", paper(nil), "Draft.md"},
		{"nothing", &models.Document{}, "Untitled Paper.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.doc))
		})
	}
}
