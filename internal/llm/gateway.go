// Package llm is the boundary to the text-generation service.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrMissingAPIKey is returned before any network call when the caller
	// supplied no credentials.
	ErrMissingAPIKey = errors.New("api key is required")

	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// Options are the per-call generation parameters. Credentials travel with
// each call; the server holds none.
type Options struct {
	Model       string
	Temperature float64
	APIKey      string
}

// Document is a binary attachment, such as a source PDF.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Gateway generates text. Implementations do not retry.
type Gateway interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	AnalyzeDocument(ctx context.Context, doc Document, prompt string, opts Options) (string, error)
}
