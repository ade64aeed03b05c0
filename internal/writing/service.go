// Package writing is the paper co-authoring workflow: document management,
// dependency-aware section generation, and Markdown export.
package writing

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ayush/paper-studio/internal/api"
	"github.com/ayush/paper-studio/internal/export"
	"github.com/ayush/paper-studio/internal/llm"
	"github.com/ayush/paper-studio/internal/models"
	"github.com/ayush/paper-studio/internal/papers"
	"github.com/ayush/paper-studio/internal/prompt"
	"github.com/ayush/paper-studio/internal/sections"
)

// DefaultTemperature applies when a generation request leaves it out.
const DefaultTemperature = 1.0

// Service coordinates the document store, the prompt assembler and the
// gateway.
type Service struct {
	docs      *papers.Store
	registry  *sections.Registry
	assembler *prompt.Assembler
	gateway   llm.Gateway
	models    []string
	logger    *zap.Logger
}

func NewService(docs *papers.Store, registry *sections.Registry, assembler *prompt.Assembler,
	gateway llm.Gateway, modelList []string, logger *zap.Logger) *Service {
	return &Service{
		docs:      docs,
		registry:  registry,
		assembler: assembler,
		gateway:   gateway,
		models:    modelList,
		logger:    logger.Named("writing"),
	}
}

// Models returns the selectable models, default first.
func (s *Service) Models() []string {
	return append([]string(nil), s.models...)
}

// Sections returns the paper structure in document order.
func (s *Service) Sections() []sections.Definition {
	return s.registry.All()
}

func (s *Service) List(ctx context.Context) ([]models.DocumentSummary, error) {
	return s.docs.List(ctx)
}

func (s *Service) Create(ctx context.Context) (string, error) {
	name, err := s.docs.Create(ctx)
	if err != nil {
		return "", err
	}
	s.logger.Info("document created", zap.String("name", name))
	return name, nil
}

func (s *Service) Get(ctx context.Context, name string) (*models.Document, error) {
	return s.docs.Get(ctx, name)
}

func (s *Service) Save(ctx context.Context, name string, doc *models.Document) error {
	return s.docs.Save(ctx, name, doc)
}

func (s *Service) Rename(ctx context.Context, oldName, newName string) (string, error) {
	return s.docs.Rename(ctx, oldName, newName)
}

// Delete removes a document. Deleting a missing document is not an error;
// the boolean reports whether anything was removed.
func (s *Service) Delete(ctx context.Context, name string) (bool, error) {
	removed, err := s.docs.Delete(ctx, name)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info("document deleted", zap.String("name", name))
	}
	return removed, nil
}

// GenerateSection produces text for one section and returns it trimmed.
// The result is not saved; the caller decides whether to keep it.
//
// Prerequisite content comes from req.PaperData when present, so unsaved
// edits take part, and from the stored document otherwise.
func (s *Service) GenerateSection(ctx context.Context, name string, req models.GenerateRequest) (string, error) {
	if strings.TrimSpace(req.TargetSection) == "" {
		return "", api.MissingParam("target_section")
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return "", api.MissingParam("apiKey")
	}

	action := prompt.Action(req.Action)
	if action == "" {
		action = prompt.ActionGenerate
		if strings.TrimSpace(req.UserPrompt) != "" {
			action = prompt.ActionModify
		}
	}

	doc := req.PaperData
	if doc == nil {
		stored, err := s.docs.Get(ctx, name)
		if err != nil {
			return "", err
		}
		doc = stored
	}

	p, err := s.assembler.Assemble(prompt.Request{
		Section:     req.TargetSection,
		Sections:    doc.Sections,
		Action:      action,
		Instruction: req.UserPrompt,
		Language:    req.Language,
	})
	if err != nil {
		return "", err
	}

	model := req.Model
	if model == "" && len(s.models) > 0 {
		model = s.models[0]
	}
	text, err := s.gateway.Generate(ctx, p, llm.Options{
		Model:       model,
		Temperature: req.Temperature.Or(DefaultTemperature),
		APIKey:      req.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", req.TargetSection, err)
	}
	s.logger.Info("section generated",
		zap.String("document", name),
		zap.String("section", req.TargetSection),
		zap.String("action", string(action)),
		zap.String("model", model))
	return strings.TrimSpace(text), nil
}

// Export renders a stored document as Markdown and suggests a filename.
func (s *Service) Export(ctx context.Context, name string) (body, filename string, err error) {
	doc, err := s.docs.Get(ctx, name)
	if err != nil {
		return "", "", err
	}
	return export.Markdown(doc, s.registry), export.Filename(doc), nil
}
