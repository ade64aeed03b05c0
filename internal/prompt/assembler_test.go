package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/paper-studio/internal/models"
	"github.com/ayush/paper-studio/internal/sections"
)

func newAssembler(t *testing.T) *Assembler {
	t.Helper()
	reg, err := sections.Default()
	require.NoError(t, err)
	return NewAssembler(reg, "English")
}

func filled(content map[string]string) map[string]models.SectionState {
	out := make(map[string]models.SectionState, len(content))
	for k, v := range content {
		out[k] = models.SectionState{Content: v, Status: models.StatusCompleted}
	}
	return out
}

func TestAssemble_ContextOnlyIncludesFilledPrerequisites(t *testing.T) {
	a := newAssembler(t)

	got, err := a.Assemble(Request{
		Section:  "abstract",
		Sections: filled(map[string]string{"idea": "", "title": "Sparse Attention Revisited"}),
		Action:   ActionGenerate,
	})
	require.NoError(t, err)

	assert.Contains(t, got, contextHeader)
	assert.Contains(t, got, "[Title]:\nSparse Attention Revisited")
	assert.NotContains(t, got, "[Core Idea]")
}

func TestAssemble_ContextOmittedWhenNothingFilled(t *testing.T) {
	a := newAssembler(t)

	got, err := a.Assemble(Request{
		Section:  "abstract",
		Sections: filled(map[string]string{"idea": "  \n", "title": ""}),
		Action:   ActionGenerate,
	})
	require.NoError(t, err)
	assert.NotContains(t, got, contextHeader)
	assert.NotContains(t, got, "\n\n\n")
}

func TestAssemble_ContextFollowsRegistryOrder(t *testing.T) {
	a := newAssembler(t)

	got, err := a.Assemble(Request{
		Section: "methods",
		Sections: filled(map[string]string{
			"background":   "B",
			"abstract":     "A",
			"title":        "T",
			"introduction": "not a prerequisite",
		}),
		Action: ActionGenerate,
	})
	require.NoError(t, err)

	ti := strings.Index(got, "[Title]:")
	ai := strings.Index(got, "[Abstract]:")
	bi := strings.Index(got, "[Theoretical Background and Hypotheses]:")
	require.True(t, ti >= 0 && ai >= 0 && bi >= 0, got)
	assert.Less(t, ti, ai)
	assert.Less(t, ai, bi)
	assert.NotContains(t, got, "not a prerequisite")
}

func TestAssemble_GenerateIgnoresCurrentContent(t *testing.T) {
	a := newAssembler(t)

	got, err := a.Assemble(Request{
		Section:  "title",
		Sections: filled(map[string]string{"title": "OLD TITLE TEXT"}),
		Action:   ActionGenerate,
	})
	require.NoError(t, err)
	assert.NotContains(t, got, "OLD TITLE TEXT")
	assert.Contains(t, got, "[Title]")
}

func TestAssemble_ActionsCarryCurrentContent(t *testing.T) {
	a := newAssembler(t)
	secs := filled(map[string]string{"introduction": "CURRENT BODY"})

	for _, action := range []Action{ActionModifyAnnotated, ActionAIAnnotate, ActionExpand, ActionPolish} {
		t.Run(string(action), func(t *testing.T) {
			got, err := a.Assemble(Request{Section: "introduction", Sections: secs, Action: action})
			require.NoError(t, err)
			assert.Contains(t, got, "CURRENT BODY")
			assert.NotContains(t, got, "{content}")
			assert.NotContains(t, got, "{instruction}")
		})
	}
}

func TestAssemble_Modify(t *testing.T) {
	a := newAssembler(t)
	secs := filled(map[string]string{"conclusion": "We conclude."})

	_, err := a.Assemble(Request{Section: "conclusion", Sections: secs, Action: ActionModify, Instruction: "  "})
	assert.ErrorIs(t, err, ErrMissingInstruction)

	got, err := a.Assemble(Request{
		Section:     "conclusion",
		Sections:    secs,
		Action:      ActionModify,
		Instruction: "make it shorter",
	})
	require.NoError(t, err)
	assert.Contains(t, got, "We conclude.")
	assert.Contains(t, got, "make it shorter")
}

func TestAssemble_PartOrder(t *testing.T) {
	a := newAssembler(t)

	got, err := a.Assemble(Request{
		Section:  "title",
		Sections: filled(map[string]string{"idea": "IDEA"}),
		Action:   ActionGenerate,
		Language: "German",
	})
	require.NoError(t, err)

	base := strings.Index(got, "professional academic writer")
	ctx := strings.Index(got, "[Core Idea]:\nIDEA")
	instr := strings.Index(got, "write the [Title] section")
	out := strings.Index(got, outputFormatTemplate)
	require.True(t, base == 0 && ctx > 0 && instr > 0 && out > 0, got)
	assert.Less(t, ctx, instr)
	assert.Less(t, instr, out)
	assert.True(t, strings.HasSuffix(got, outputFormatTemplate))
	assert.Contains(t, got, "in German")
	assert.NotContains(t, got, "English")
}

func TestAssemble_DefaultLanguage(t *testing.T) {
	a := newAssembler(t)
	got, err := a.Assemble(Request{Section: "idea", Action: ActionGenerate})
	require.NoError(t, err)
	assert.Contains(t, got, "in English")
}

func TestAssemble_ContentIsNotReinterpreted(t *testing.T) {
	a := newAssembler(t)
	got, err := a.Assemble(Request{
		Section:  "idea",
		Sections: filled(map[string]string{"idea": "literal {language} token"}),
		Action:   ActionPolish,
	})
	require.NoError(t, err)
	assert.Contains(t, got, "literal {language} token")
}

func TestAssemble_Errors(t *testing.T) {
	a := newAssembler(t)

	_, err := a.Assemble(Request{Section: "appendix", Action: ActionGenerate})
	assert.ErrorIs(t, err, ErrUnknownSection)

	_, err = a.Assemble(Request{Section: "title", Action: "summarize"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestPipelinePrompts(t *testing.T) {
	assert.True(t, strings.HasSuffix(Synthesis("ANALYSES"), "ANALYSES"))
	assert.True(t, strings.HasSuffix(Brainstorm("SOURCE"), "SOURCE"))

	got := BrainstormModify("PRIOR", "focus on robotics")
	assert.Contains(t, got, "PRIOR")
	assert.True(t, strings.HasSuffix(got, "focus on robotics"))
	assert.Less(t, strings.Index(got, "PRIOR"), strings.Index(got, "focus on robotics"))
}
