// Package papers persists authored papers as JSON documents in the blob
// store, one blob per paper under documents/.
package papers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/ayush/paper-studio/internal/api"
	"github.com/ayush/paper-studio/internal/models"
	"github.com/ayush/paper-studio/internal/sections"
	"github.com/ayush/paper-studio/internal/store"
)

const (
	prefix     = "documents/"
	ext        = ".json"
	untitled   = "Untitled Paper"
	maxCreated = 10000
)

// ErrConflict is returned by Rename when the target name is taken.
var ErrConflict = fmt.Errorf("document %w", api.ErrConflict)

// Store is the document store. It is safe for concurrent use to the extent
// the underlying blob store is; concurrent writers to one name race and the
// last write wins.
type Store struct {
	blobs    store.Blob
	registry *sections.Registry
	logger   *zap.Logger
}

func NewStore(blobs store.Blob, registry *sections.Registry, logger *zap.Logger) *Store {
	return &Store{blobs: blobs, registry: registry, logger: logger.Named("papers")}
}

// Sanitize strips characters that cannot appear in a document name and
// trims surrounding whitespace.
func Sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`\/:*?"<>|`, r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

func key(name string) string {
	return prefix + name + ext
}

// clean sanitizes name and rejects names that end up empty or that the
// blob store would not accept as a path segment.
func clean(name string) (string, error) {
	n := Sanitize(name)
	if n == "" {
		return "", api.MissingParam("name")
	}
	if n == "." || n == ".." {
		return "", api.InvalidParam("name", fmt.Errorf("%q is reserved", n))
	}
	return n, nil
}

// Create stores a default paper under the first free "Untitled Paper N"
// name and returns that name.
func (s *Store) Create(ctx context.Context) (string, error) {
	for n := 1; n <= maxCreated; n++ {
		name := fmt.Sprintf("%s %d", untitled, n)
		exists, err := s.blobs.Exists(ctx, key(name))
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", name, err)
		}
		if exists {
			continue
		}
		doc := s.registry.DefaultDocument(name)
		if err := s.put(ctx, name, &doc); err != nil {
			return "", err
		}
		return name, nil
	}
	return "", fmt.Errorf("no free document name after %d attempts", maxCreated)
}

// Get loads a paper. A blob that is empty or not valid JSON yields a fresh
// default structure instead of an error.
func (s *Store) Get(ctx context.Context, name string) (*models.Document, error) {
	name, err := clean(name)
	if err != nil {
		return nil, err
	}
	data, err := s.blobs.Get(ctx, key(name))
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", name, err)
	}

	var doc models.Document
	if len(strings.TrimSpace(string(data))) > 0 {
		err = json.Unmarshal(data, &doc)
	} else {
		err = errors.New("empty document")
	}
	if err != nil {
		s.logger.Warn("unreadable document, serving default structure",
			zap.String("name", name), zap.Error(err))
		doc = s.registry.DefaultDocument(name)
	}
	doc.SetName(name)
	return &doc, nil
}

// Save overwrites the paper stored under name. The identifier fields are
// rewritten to name regardless of what doc carries.
func (s *Store) Save(ctx context.Context, name string, doc *models.Document) error {
	name, err := clean(name)
	if err != nil {
		return err
	}
	if doc == nil {
		return api.MissingParam("document")
	}
	return s.put(ctx, name, doc)
}

func (s *Store) put(ctx context.Context, name string, doc *models.Document) error {
	doc.SetName(name)
	if doc.Sections == nil {
		doc.Sections = map[string]models.SectionState{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := s.blobs.Put(ctx, key(name), data); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	return nil
}

// Delete removes a paper and reports whether it existed.
func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	name, err := clean(name)
	if err != nil {
		return false, err
	}
	return s.blobs.Delete(ctx, key(name))
}

// Rename moves a paper to a new name and returns the sanitized name. The
// new blob is written before the old one is removed, so a failure part
// way leaves at worst a duplicate.
func (s *Store) Rename(ctx context.Context, oldName, newName string) (string, error) {
	oldName, err := clean(oldName)
	if err != nil {
		return "", err
	}
	newName, err = clean(newName)
	if err != nil {
		return "", err
	}
	if oldName == newName {
		return newName, nil
	}

	exists, err := s.blobs.Exists(ctx, key(oldName))
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("document %q: %w", oldName, store.ErrNotFound)
	}
	taken, err := s.blobs.Exists(ctx, key(newName))
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%w: %q", ErrConflict, newName)
	}

	doc, err := s.Get(ctx, oldName)
	if err != nil {
		return "", err
	}
	if err := s.put(ctx, newName, doc); err != nil {
		return "", err
	}
	if _, err := s.blobs.Delete(ctx, key(oldName)); err != nil {
		return "", fmt.Errorf("removing %s after rename: %w", oldName, err)
	}
	s.logger.Info("document renamed", zap.String("from", oldName), zap.String("to", newName))
	return newName, nil
}

// List returns every stored paper, sorted by display name.
func (s *Store) List(ctx context.Context) ([]models.DocumentSummary, error) {
	keys, err := s.blobs.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	out := make([]models.DocumentSummary, 0, len(keys))
	for _, k := range keys {
		if !strings.HasSuffix(k, ext) {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(k, prefix), ext)
		out = append(out, models.DocumentSummary{ID: name, DocumentName: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentName < out[j].DocumentName })
	return out, nil
}
