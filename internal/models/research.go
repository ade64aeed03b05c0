package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned when a numeric field cannot be coerced.
var ErrInvalidNumber = errors.New("not a number")

// FlexFloat accepts a JSON number or a numeric string. A nil *FlexFloat
// means the field was omitted.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidNumber, data)
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidNumber, data)
	}
	*f = FlexFloat(v)
	return nil
}

// Or returns the value, or fallback when f is nil.
func (f *FlexFloat) Or(fallback float64) float64 {
	if f == nil {
		return fallback
	}
	return float64(*f)
}

// SourceStatus is one source PDF and the completion of its two stages.
type SourceStatus struct {
	Filename       string `json:"filename"`
	MarkdownExists bool   `json:"markdown_exists"`
	AnalysisExists bool   `json:"analysis_exists"`
	Processed      bool   `json:"processed"`
}

// ProcessRequest is the JSON body for POST /api/sources/process.
type ProcessRequest struct {
	APIKey              string     `json:"apiKey"`
	Filename            string     `json:"filename"`
	Model               string     `json:"model"`
	TemperatureMarkdown *FlexFloat `json:"temperature_markdown"`
	TemperatureAnalysis *FlexFloat `json:"temperature_analysis"`
}

// ProcessResult reports which stages ran. Skipped stages already had an
// artifact.
type ProcessResult struct {
	Filename        string `json:"filename"`
	MarkdownCreated bool   `json:"markdown_created"`
	AnalysisCreated bool   `json:"analysis_created"`
}

// SynthesizeRequest is the JSON body for POST /api/report/synthesize.
type SynthesizeRequest struct {
	APIKey      string     `json:"apiKey"`
	Model       string     `json:"model"`
	Temperature *FlexFloat `json:"temperature"`
	Papers      []string   `json:"papers"`
}

// BrainstormRequest is the JSON body for POST /api/brainstorm/generate.
// Supplying both ExistingResults and ModificationPrompt modifies the prior
// result instead of generating fresh ideas.
type BrainstormRequest struct {
	APIKey             string     `json:"apiKey"`
	Model              string     `json:"model"`
	Temperature        *FlexFloat `json:"temperature"`
	ExistingResults    string     `json:"existing_results"`
	ModificationPrompt string     `json:"modification_prompt"`
}

// ContentBody carries a singleton artifact for PUT requests and reads.
// A nil Content on read means the artifact does not exist yet.
type ContentBody struct {
	Content *string `json:"content"`
}

// GenerateRequest is the JSON body for POST /api/documents/{name}/generate.
type GenerateRequest struct {
	APIKey        string     `json:"apiKey"`
	Model         string     `json:"model"`
	Temperature   *FlexFloat `json:"temperature"`
	Language      string     `json:"language"`
	TargetSection string     `json:"target_section"`
	Action        string     `json:"action_type"`
	UserPrompt    string     `json:"user_prompt"`
	// PaperData, when present, is used instead of the stored document so
	// unsaved edits reach the prompt.
	PaperData *Document `json:"paper_data"`
}

// RenameRequest is the JSON body for POST /api/documents/{name}/rename.
type RenameRequest struct {
	Name string `json:"name"`
}
