// Package prompt builds the prompts sent to the generation gateway.
//
// Section prompts are composed from four parts, in a fixed order:
//
//	base          who the model is and which language to write in
//	context       the prerequisite sections that have content (optional)
//	instruction   what to do with the target section
//	output format reply with the section text only
//
// Context precedes the instruction so the instruction can refer to it,
// and the output format is last so no earlier text can countermand it.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ayush/paper-studio/internal/models"
	"github.com/ayush/paper-studio/internal/sections"
)

var (
	ErrUnknownSection     = errors.New("unknown section")
	ErrUnknownAction      = errors.New("unknown action")
	ErrMissingInstruction = errors.New("modify requires an instruction")
)

// Action selects the instruction template.
type Action string

const (
	ActionGenerate        Action = "generate"
	ActionModify          Action = "modify"
	ActionModifyAnnotated Action = "modify_annotated"
	ActionAIAnnotate      Action = "ai_annotate"
	ActionExpand          Action = "expand"
	ActionPolish          Action = "polish"
)

// Actions lists every supported action.
var Actions = []Action{
	ActionGenerate, ActionModify, ActionModifyAnnotated,
	ActionAIAnnotate, ActionExpand, ActionPolish,
}

// Request is the input to Assemble.
type Request struct {
	Section     string
	Sections    map[string]models.SectionState
	Action      Action
	Instruction string
	Language    string
}

// Assembler composes section prompts from the registry. It holds no
// mutable state.
type Assembler struct {
	registry        *sections.Registry
	defaultLanguage string
}

func NewAssembler(registry *sections.Registry, defaultLanguage string) *Assembler {
	return &Assembler{registry: registry, defaultLanguage: defaultLanguage}
}

// Assemble builds the prompt for one section. It looks up prerequisite
// content but does not require any of it to be present.
func (a *Assembler) Assemble(req Request) (string, error) {
	def, ok := a.registry.Lookup(req.Section)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, req.Section)
	}
	tmpl, ok := actionTemplates[req.Action]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	if req.Action == ActionModify && strings.TrimSpace(req.Instruction) == "" {
		return "", ErrMissingInstruction
	}

	language := req.Language
	if language == "" {
		language = a.defaultLanguage
	}

	vars := map[string]string{
		"{language}": language,
		"{section}":  def.Name,
	}
	if req.Action != ActionGenerate {
		vars["{content}"] = req.Sections[req.Section].Content
	}
	if req.Action == ActionModify {
		vars["{instruction}"] = req.Instruction
	}

	parts := []string{
		render(baseTemplate, vars),
		a.context(def, req.Sections),
		render(tmpl, vars),
		outputFormatTemplate,
	}
	return joinParts(parts), nil
}

// context renders the prerequisite blocks that have content, or "" when
// none do.
func (a *Assembler) context(def sections.Definition, secs map[string]models.SectionState) string {
	var blocks []string
	for _, key := range def.Prerequisites {
		content := secs[key].Content
		if strings.TrimSpace(content) == "" {
			continue
		}
		name := key
		if d, ok := a.registry.Lookup(key); ok {
			name = d.Name
		}
		blocks = append(blocks, fmt.Sprintf("[%s]:\n%s", name, content))
	}
	if len(blocks) == 0 {
		return ""
	}
	return contextHeader + "\n\n" + strings.Join(blocks, "\n\n")
}

func render(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func joinParts(parts []string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
