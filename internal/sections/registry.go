// Package sections holds the static paper structure: which sections a
// paper has, in what order, which sections each one builds on, and which
// are numbered on export.
package sections

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ayush/paper-studio/internal/models"
)

//go:embed default_sections.yaml
var defaultTable []byte

// ErrInvalidRegistry wraps every validation failure of a section table.
var ErrInvalidRegistry = errors.New("invalid section registry")

// Definition describes one section of a paper.
type Definition struct {
	Key           string   `yaml:"key" json:"key"`
	Name          string   `yaml:"name" json:"name"`
	Prerequisites []string `yaml:"prerequisites" json:"prerequisites"`
	Numbered      bool     `yaml:"numbered" json:"numbered"`
}

type table struct {
	Sections []Definition `yaml:"sections"`
}

// Registry is an ordered, validated set of section definitions. It is
// read-only after construction and safe for concurrent use.
type Registry struct {
	defs  []Definition
	index map[string]int
}

// Default returns the built-in paper structure.
func Default() (*Registry, error) {
	return Parse(defaultTable)
}

// Load reads a YAML section table from path, or the built-in one when path
// is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading section table: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML section table.
func Parse(data []byte) (*Registry, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing section table: %w", err)
	}
	return New(t.Sections)
}

// New validates defs and builds a Registry. Keys must be unique, every
// prerequisite must name a defined section, and the prerequisite graph
// must be acyclic. A prerequisite may be defined later in the table.
func New(defs []Definition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no sections defined", ErrInvalidRegistry)
	}
	r := &Registry{
		defs:  make([]Definition, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		if d.Key == "" {
			return nil, fmt.Errorf("%w: section %d has no key", ErrInvalidRegistry, i)
		}
		if d.Name == "" {
			return nil, fmt.Errorf("%w: section %q has no name", ErrInvalidRegistry, d.Key)
		}
		if _, dup := r.index[d.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate section %q", ErrInvalidRegistry, d.Key)
		}
		d.Prerequisites = append([]string(nil), d.Prerequisites...)
		r.defs[i] = d
		r.index[d.Key] = i
	}
	for _, d := range r.defs {
		for _, p := range d.Prerequisites {
			if p == d.Key {
				return nil, fmt.Errorf("%w: section %q depends on itself", ErrInvalidRegistry, d.Key)
			}
			if _, ok := r.index[p]; !ok {
				return nil, fmt.Errorf("%w: section %q depends on unknown section %q", ErrInvalidRegistry, d.Key, p)
			}
		}
	}
	if cycle := r.cyclicKeys(); len(cycle) > 0 {
		return nil, fmt.Errorf("%w: dependency cycle among %v", ErrInvalidRegistry, cycle)
	}
	return r, nil
}

// cyclicKeys runs Kahn's algorithm and returns the keys that could not be
// ordered, which are exactly those on or behind a cycle.
func (r *Registry) cyclicKeys() []string {
	inDegree := make(map[string]int, len(r.defs))
	dependents := make(map[string][]string, len(r.defs))
	for _, d := range r.defs {
		inDegree[d.Key] += 0
		for _, p := range d.Prerequisites {
			inDegree[d.Key]++
			dependents[p] = append(dependents[p], d.Key)
		}
	}

	var queue []string
	for _, d := range r.defs {
		if inDegree[d.Key] == 0 {
			queue = append(queue, d.Key)
		}
	}
	processed := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		processed++
		for _, dep := range dependents[cur] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	if processed == len(r.defs) {
		return nil
	}

	var stuck []string
	for key, n := range inDegree {
		if n > 0 {
			stuck = append(stuck, key)
		}
	}
	sort.Strings(stuck)
	return stuck
}

// All returns the definitions in document order.
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Lookup returns the definition for key.
func (r *Registry) Lookup(key string) (Definition, bool) {
	i, ok := r.index[key]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// DefaultDocument builds an empty paper named name. Sections without
// prerequisites start empty, the rest start locked.
func (r *Registry) DefaultDocument(name string) models.Document {
	doc := models.Document{Sections: make(map[string]models.SectionState, len(r.defs))}
	doc.SetName(name)
	for _, d := range r.defs {
		status := models.StatusEmpty
		if len(d.Prerequisites) > 0 {
			status = models.StatusLocked
		}
		doc.Sections[d.Key] = models.SectionState{Status: status}
	}
	return doc
}
