package prompt

import (
	"strings"

	"github.com/ayush/paper-studio/internal/annotation"
)

const baseTemplate = `You are a professional academic writer. Your task is to write or refine one part of a research paper in {language}.`

const contextHeader = `Base your work on the following information from the paper:`

const outputFormatTemplate = `Respond with only the text of the requested section. Do not add any extra headings, labels, or commentary.`

var annotationExample = annotation.Format("original text", "suggested change")

var actionTemplates = map[Action]string{
	ActionGenerate: `Using the information above, write the [{section}] section of the paper in {language}. Make it professional, thorough, and logically clear.`,

	ActionModify: `The current content of the [{section}] section is:
{content}

Rewrite the [{section}] section in {language}, taking into account all of the information above and the user's instruction.

[User instruction]:
{instruction}`,

	ActionModifyAnnotated: `The [{section}] section below contains inline edit notes written as ` + annotationExample + `.
Apply every edit note to the text it marks, remove all of the markers, and return the complete revised [{section}] section in {language}. Leave unmarked text unchanged unless a note requires otherwise.

{content}`,

	ActionAIAnnotate: `Review the [{section}] section below as a demanding academic editor. Wherever the writing can be improved, wrap the affected text in an inline edit note of exactly this form: ` + annotationExample + `.
Write the notes in {language}. Do not rewrite, reorder, or remove any of the original text outside the markers.

{content}`,

	ActionExpand: `Expand the [{section}] section below in {language}. Add depth, supporting detail, and argumentation consistent with the information above, while keeping its structure and claims intact.

{content}`,

	ActionPolish: `Polish the language of the [{section}] section below in {language}. Improve clarity, flow, and academic tone without changing its meaning or adding new content.

{content}`,
}

// ConvertToMarkdown is sent with a source PDF for the first pipeline stage.
const ConvertToMarkdown = `Convert the full content of this PDF paper, including text, tables, and formulas, into well-structured Markdown. Preserve the original section structure.`

// AnalyzeDocument is sent with a source PDF for the second pipeline stage.
const AnalyzeDocument = `Produce an in-depth, professional academic analysis of this PDF paper and return it as Markdown. The analysis must cover:
1.  **Core research question**: What key scientific problem does the paper address?
2.  **Main contributions**: What are its principal academic contributions and innovations?
3.  **Methodology**: Which key techniques, models, or experimental methods are used? What are their strengths and weaknesses?
4.  **Key conclusions**: What important conclusions does the paper reach?
5.  **Limitations and outlook**: What are its limitations, and in which directions could future research go?`

const synthesisTemplate = `You are a leading researcher. Based on the analysis reports of several papers provided below, write a comprehensive and insightful literature review.

Follow this structure and return Markdown:
1.  **Introduction**: Briefly introduce the research field and why it matters.
2.  **Research hotspots and core themes**: Across all papers, identify the main hotspots and recurring themes.
3.  **Mainstream methods and technical approaches**: Summarize the prevailing methods, models, or techniques and compare their strengths and weaknesses.
4.  **Consensus and controversy**: Where has the field reached consensus, and which disputes or contradictory views remain open?
5.  **Research gaps and future directions**: From the limitations of existing work, point out the gaps and propose several promising future directions.
6.  **Conclusion**: Briefly summarize the state of the field.

--- analysis reports ---
{analyses}`

const brainstormTemplate = `As a leading strategic scientist, propose the 5 most valuable and innovative research topics based on the two kinds of material provided below.
About the material:
1.  **Comprehensive report (macro view)**: summarizes the overall trends, hotspots, and known research gaps of the field.
2.  **Per-document analyses (micro detail)**: in-depth analyses of each paper, including specific methods, conclusions, and limitations.
Your core task: combine the breadth of the macro report with the depth of the micro details. Pay special attention to subtle contradictions, limitations of specific methods, or emerging signals mentioned in individual analyses that the macro report may have missed. Aim for research opportunities that are genuinely hidden.
Every topic must be:
- **Novel**: an explicit gap from the material or a real extension of existing work, not a repetition.
- **Feasible**: theoretically and technically achievable.
- **Significant**: solving it should matter to the field.
- **Clear and specific**: well stated and well scoped.

Return the result in this format:
**Research topic 1:**
- **Problem statement**: [state the research problem clearly]
- **Novelty and motivation**: [why it is new, motivated by both macro and micro material]
- **Research outline**: [an initial method or technical path]
...

--- material ---
{source}`

const brainstormModifyTemplate = `You are a leading researcher. Refine and adjust the research topics below according to the user's modification instruction.
Keep the original format and return the complete revised content as Markdown.

--- original research topics ---
{existing}

--- modification instruction ---
{instruction}`

// Synthesis builds the literature-review prompt over combined analyses.
func Synthesis(combinedAnalyses string) string {
	return strings.Replace(synthesisTemplate, "{analyses}", combinedAnalyses, 1)
}

// Brainstorm builds the fresh idea-generation prompt.
func Brainstorm(source string) string {
	return strings.Replace(brainstormTemplate, "{source}", source, 1)
}

// BrainstormModify builds the prompt that revises an earlier result.
func BrainstormModify(existing, instruction string) string {
	return strings.NewReplacer("{existing}", existing, "{instruction}", instruction).Replace(brainstormModifyTemplate)
}
