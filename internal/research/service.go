// Package research runs the literature pipeline: source PDFs are converted
// and analyzed one by one, the analyses are synthesized into a
// comprehensive report, and the report feeds idea generation.
package research

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/ayush/paper-studio/internal/api"
	"github.com/ayush/paper-studio/internal/artifacts"
	"github.com/ayush/paper-studio/internal/llm"
	"github.com/ayush/paper-studio/internal/models"
	"github.com/ayush/paper-studio/internal/prompt"
	"github.com/ayush/paper-studio/internal/store"
)

// Temperatures used when a request leaves them out.
const (
	DefaultTemperatureMarkdown = 0.0
	DefaultTemperatureAnalysis = 1.0
	DefaultTemperature         = 1.0
)

// Service holds the pipeline operations. It keeps no state of its own;
// everything lives in the artifact store.
type Service struct {
	artifacts    *artifacts.Store
	gateway      llm.Gateway
	defaultModel string
	logger       *zap.Logger
}

func NewService(arts *artifacts.Store, gateway llm.Gateway, defaultModel string, logger *zap.Logger) *Service {
	return &Service{
		artifacts:    arts,
		gateway:      gateway,
		defaultModel: defaultModel,
		logger:       logger.Named("research"),
	}
}

func (s *Service) options(apiKey, model string, temp float64) (llm.Options, error) {
	if strings.TrimSpace(apiKey) == "" {
		return llm.Options{}, api.MissingParam("apiKey")
	}
	if model == "" {
		model = s.defaultModel
	}
	return llm.Options{Model: model, Temperature: temp, APIKey: apiKey}, nil
}

// ValidateSourceName checks that filename can be stored as a source: a
// bare .pdf name with no path components.
func ValidateSourceName(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return api.MissingParam("filename")
	}
	if strings.ContainsAny(filename, `/\`) || filename != path.Base(filename) || strings.HasPrefix(filename, ".") {
		return api.InvalidParam("filename", fmt.Errorf("%q is not a plain file name", filename))
	}
	if !strings.EqualFold(path.Ext(filename), ".pdf") {
		return api.InvalidParam("filename", errors.New("only .pdf sources are accepted"))
	}
	return nil
}

// Sources lists every source with its stage completion.
func (s *Service) Sources(ctx context.Context) ([]models.SourceStatus, error) {
	return s.artifacts.SourceStatuses(ctx)
}

// Upload stores a source PDF, replacing any source of the same name.
func (s *Service) Upload(ctx context.Context, filename string, data []byte) error {
	if err := ValidateSourceName(filename); err != nil {
		return err
	}
	if len(data) == 0 {
		return api.InvalidParam("file", errors.New("empty upload"))
	}
	if err := s.artifacts.SaveSource(ctx, filename, data); err != nil {
		return fmt.Errorf("storing %s: %w", filename, err)
	}
	s.logger.Info("source uploaded", zap.String("filename", filename), zap.Int("bytes", len(data)))
	return nil
}

// ProcessSource runs the Markdown and analysis stages for one source.
// A stage whose artifact already exists is skipped, so a repeated call
// makes no gateway calls.
func (s *Service) ProcessSource(ctx context.Context, req models.ProcessRequest) (*models.ProcessResult, error) {
	if err := ValidateSourceName(req.Filename); err != nil {
		return nil, err
	}
	mdOpts, err := s.options(req.APIKey, req.Model, req.TemperatureMarkdown.Or(DefaultTemperatureMarkdown))
	if err != nil {
		return nil, err
	}
	anOpts := mdOpts
	anOpts.Temperature = req.TemperatureAnalysis.Or(DefaultTemperatureAnalysis)

	data, err := s.artifacts.ReadSource(ctx, req.Filename)
	if err != nil {
		return nil, err
	}
	doc := llm.Document{Name: req.Filename, MIMEType: "application/pdf", Data: data}
	stem := artifacts.Stem(req.Filename)
	log := s.logger.With(zap.String("source", req.Filename))

	result := &models.ProcessResult{Filename: req.Filename}
	stages := []struct {
		stage   artifacts.Stage
		prompt  string
		opts    llm.Options
		created *bool
	}{
		{artifacts.StageMarkdown, prompt.ConvertToMarkdown, mdOpts, &result.MarkdownCreated},
		{artifacts.StageAnalysis, prompt.AnalyzeDocument, anOpts, &result.AnalysisCreated},
	}
	for _, st := range stages {
		done, err := s.artifacts.Exists(ctx, st.stage, stem)
		if err != nil {
			return nil, err
		}
		if done {
			log.Debug("stage already complete", zap.String("stage", string(st.stage)))
			continue
		}
		text, err := s.gateway.AnalyzeDocument(ctx, doc, st.prompt, st.opts)
		if err != nil {
			return nil, fmt.Errorf("%s stage for %s: %w", st.stage, req.Filename, err)
		}
		if err := s.artifacts.SaveStage(ctx, st.stage, stem, text); err != nil {
			return nil, fmt.Errorf("saving %s for %s: %w", st.stage, req.Filename, err)
		}
		*st.created = true
		log.Info("stage complete", zap.String("stage", string(st.stage)), zap.String("model", st.opts.Model))
	}
	return result, nil
}

// Analyzed lists the stems that have an analysis.
func (s *Service) Analyzed(ctx context.Context) ([]string, error) {
	return s.artifacts.ListStage(ctx, artifacts.StageAnalysis)
}

// Report returns the comprehensive report, or store.ErrNotFound.
func (s *Service) Report(ctx context.Context) (string, error) {
	return s.artifacts.ReadSingleton(ctx, artifacts.ComprehensiveReport)
}

// SaveReport overwrites the comprehensive report with edited text.
func (s *Service) SaveReport(ctx context.Context, content string) error {
	return s.artifacts.SaveSingleton(ctx, artifacts.ComprehensiveReport, content)
}

// Synthesize writes a literature review over the selected analyses and
// stores it as the comprehensive report.
func (s *Service) Synthesize(ctx context.Context, req models.SynthesizeRequest) (string, error) {
	if len(req.Papers) == 0 {
		return "", api.MissingParam("papers")
	}
	opts, err := s.options(req.APIKey, req.Model, req.Temperature.Or(DefaultTemperature))
	if err != nil {
		return "", err
	}

	combined, err := s.artifacts.ReadCombined(ctx, req.Papers)
	if err != nil {
		return "", err
	}
	if combined == "" {
		return "", fmt.Errorf("none of the %d selected papers has an analysis: %w", len(req.Papers), store.ErrNotFound)
	}

	report, err := s.gateway.Generate(ctx, prompt.Synthesis(combined), opts)
	if err != nil {
		return "", fmt.Errorf("synthesis: %w", err)
	}
	if err := s.artifacts.SaveSingleton(ctx, artifacts.ComprehensiveReport, report); err != nil {
		return "", err
	}
	s.logger.Info("comprehensive report written", zap.Int("papers", len(req.Papers)), zap.String("model", opts.Model))
	return report, nil
}

// Brainstorm returns the stored brainstorming result, or store.ErrNotFound.
func (s *Service) Brainstorm(ctx context.Context) (string, error) {
	return s.artifacts.ReadSingleton(ctx, artifacts.BrainstormResult)
}

// SaveBrainstorm overwrites the brainstorming result with edited text.
func (s *Service) SaveBrainstorm(ctx context.Context, content string) error {
	return s.artifacts.SaveSingleton(ctx, artifacts.BrainstormResult, content)
}

// GenerateIdeas revises the prior result when both it and an instruction
// are given, and otherwise generates fresh ideas from the comprehensive
// report and all analyses. The result is stored either way.
func (s *Service) GenerateIdeas(ctx context.Context, req models.BrainstormRequest) (string, error) {
	opts, err := s.options(req.APIKey, req.Model, req.Temperature.Or(DefaultTemperature))
	if err != nil {
		return "", err
	}

	var p string
	mode := "fresh"
	if strings.TrimSpace(req.ExistingResults) != "" && strings.TrimSpace(req.ModificationPrompt) != "" {
		mode = "modify"
		p = prompt.BrainstormModify(req.ExistingResults, req.ModificationPrompt)
	} else {
		source, err := s.artifacts.BrainstormSource(ctx)
		if err != nil {
			return "", fmt.Errorf("brainstorming needs a comprehensive report: %w", err)
		}
		p = prompt.Brainstorm(source)
	}

	result, err := s.gateway.Generate(ctx, p, opts)
	if err != nil {
		return "", fmt.Errorf("brainstorm: %w", err)
	}
	if err := s.artifacts.SaveSingleton(ctx, artifacts.BrainstormResult, result); err != nil {
		return "", err
	}
	s.logger.Info("brainstorming result written", zap.String("mode", mode), zap.String("model", opts.Model))
	return result, nil
}
