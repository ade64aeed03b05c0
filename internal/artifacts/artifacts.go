// Package artifacts stores the literature pipeline's text outputs: the
// per-source Markdown conversion and analysis, and the two singleton
// reports. An artifact's existence is its completion flag.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ayush/paper-studio/internal/models"
	"github.com/ayush/paper-studio/internal/store"
)

// Stage is a per-source pipeline stage.
type Stage string

const (
	StageMarkdown Stage = "markdown"
	StageAnalysis Stage = "analysis"
)

// Singleton names a report that exists at most once.
type Singleton string

const (
	ComprehensiveReport Singleton = "comprehensive_report"
	BrainstormResult    Singleton = "brainstorming_result"
)

var (
	ErrUnknownStage     = errors.New("unknown stage")
	ErrUnknownSingleton = errors.New("unknown singleton")
)

// Layout maps artifacts onto blob keys. Directory fields end in "/".
type Layout struct {
	Sources             string
	Markdown            string
	Analysis            string
	ComprehensiveReport string
	BrainstormResult    string
}

// DefaultLayout is the layout the server uses.
func DefaultLayout() Layout {
	return Layout{
		Sources:             "sources/",
		Markdown:            "markdowns/",
		Analysis:            "analyses/",
		ComprehensiveReport: "reports/Comprehensive_Report.md",
		BrainstormResult:    "reports/Brainstorming_Result.md",
	}
}

// Store reads and writes artifacts through a blob store.
type Store struct {
	blobs  store.Blob
	layout Layout
}

func NewStore(blobs store.Blob, layout Layout) *Store {
	return &Store{blobs: blobs, layout: layout}
}

func (s *Store) stageDir(stage Stage) (string, error) {
	switch stage {
	case StageMarkdown:
		return s.layout.Markdown, nil
	case StageAnalysis:
		return s.layout.Analysis, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStage, stage)
}

func (s *Store) singletonKey(kind Singleton) (string, error) {
	switch kind {
	case ComprehensiveReport:
		return s.layout.ComprehensiveReport, nil
	case BrainstormResult:
		return s.layout.BrainstormResult, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSingleton, kind)
}

func (s *Store) stageKey(stage Stage, stem string) (string, error) {
	dir, err := s.stageDir(stage)
	if err != nil {
		return "", err
	}
	return dir + stem + ".md", nil
}

// Stem is a source filename without its extension.
func Stem(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}

// SaveStage writes the artifact of stage for the source stem.
func (s *Store) SaveStage(ctx context.Context, stage Stage, stem, content string) error {
	k, err := s.stageKey(stage, stem)
	if err != nil {
		return err
	}
	return s.blobs.Put(ctx, k, []byte(content))
}

// Exists reports whether stage has completed for stem.
func (s *Store) Exists(ctx context.Context, stage Stage, stem string) (bool, error) {
	k, err := s.stageKey(stage, stem)
	if err != nil {
		return false, err
	}
	return s.blobs.Exists(ctx, k)
}

// Read returns the artifact of stage for stem, or store.ErrNotFound.
func (s *Store) Read(ctx context.Context, stage Stage, stem string) (string, error) {
	k, err := s.stageKey(stage, stem)
	if err != nil {
		return "", err
	}
	data, err := s.blobs.Get(ctx, k)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ListStage returns the stems that have an artifact for stage, sorted.
func (s *Store) ListStage(ctx context.Context, stage Stage) ([]string, error) {
	dir, err := s.stageDir(stage)
	if err != nil {
		return nil, err
	}
	keys, err := s.blobs.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	stems := make([]string, 0, len(keys))
	for _, k := range keys {
		name := strings.TrimPrefix(k, dir)
		if strings.HasSuffix(name, ".md") {
			stems = append(stems, strings.TrimSuffix(name, ".md"))
		}
	}
	return stems, nil
}

// ReadCombined concatenates the analyses of stems in the given order,
// each under a delimiter naming its stem. Stems without an analysis are
// skipped; the result is "" when none is found.
func (s *Store) ReadCombined(ctx context.Context, stems []string) (string, error) {
	var b strings.Builder
	for _, stem := range stems {
		content, err := s.Read(ctx, StageAnalysis, stem)
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidKey) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reading analysis %s: %w", stem, err)
		}
		fmt.Fprintf(&b, "--- analysis document: %s ---\n\n%s\n\n", stem, content)
	}
	return b.String(), nil
}

// SaveSingleton overwrites a singleton report.
func (s *Store) SaveSingleton(ctx context.Context, kind Singleton, content string) error {
	k, err := s.singletonKey(kind)
	if err != nil {
		return err
	}
	return s.blobs.Put(ctx, k, []byte(content))
}

// ReadSingleton returns a singleton report, or store.ErrNotFound.
func (s *Store) ReadSingleton(ctx context.Context, kind Singleton) (string, error) {
	k, err := s.singletonKey(kind)
	if err != nil {
		return "", err
	}
	data, err := s.blobs.Get(ctx, k)
	if err != nil {
		return "", fmt.Errorf("%s: %w", kind, err)
	}
	return string(data), nil
}

// BrainstormSource is the material fresh idea generation works from: the
// comprehensive report followed by every analysis. A blank report counts
// as missing.
func (s *Store) BrainstormSource(ctx context.Context) (string, error) {
	report, err := s.ReadSingleton(ctx, ComprehensiveReport)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(report) == "" {
		return "", fmt.Errorf("%s is empty: %w", ComprehensiveReport, store.ErrNotFound)
	}
	stems, err := s.ListStage(ctx, StageAnalysis)
	if err != nil {
		return "", err
	}
	all, err := s.ReadCombined(ctx, stems)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("--- comprehensive report (macro view) ---\n\n%s\n\n--- per-document analyses (micro detail) ---\n\n%s", report, all), nil
}

// SaveSource stores an uploaded source PDF.
func (s *Store) SaveSource(ctx context.Context, filename string, data []byte) error {
	return s.blobs.Put(ctx, s.layout.Sources+filename, data)
}

// ReadSource returns the bytes of a source PDF, or store.ErrNotFound.
func (s *Store) ReadSource(ctx context.Context, filename string) ([]byte, error) {
	data, err := s.blobs.Get(ctx, s.layout.Sources+filename)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", filename, err)
	}
	return data, nil
}

// ListSources returns the source PDF filenames, sorted.
func (s *Store) ListSources(ctx context.Context) ([]string, error) {
	keys, err := s.blobs.List(ctx, s.layout.Sources)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, k := range keys {
		name := strings.TrimPrefix(k, s.layout.Sources)
		if strings.EqualFold(path.Ext(name), ".pdf") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// statusConcurrency bounds the existence checks SourceStatuses runs at
// once against remote backends.
const statusConcurrency = 8

// SourceStatuses reports, for every source, which stages have completed.
func (s *Store) SourceStatuses(ctx context.Context) ([]models.SourceStatus, error) {
	names, err := s.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SourceStatus, len(names))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(statusConcurrency)
	for i, name := range names {
		eg.Go(func() error {
			stem := Stem(name)
			md, err := s.Exists(egCtx, StageMarkdown, stem)
			if err != nil {
				return err
			}
			an, err := s.Exists(egCtx, StageAnalysis, stem)
			if err != nil {
				return err
			}
			out[i] = models.SourceStatus{
				Filename:       name,
				MarkdownExists: md,
				AnalysisExists: an,
				Processed:      md && an,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
