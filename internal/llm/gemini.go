package llm

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Gemini implements Gateway on the Gemini API. A client is built per call
// from the caller's key, and every call has Google Search grounding
// enabled.
type Gemini struct {
	baseURL string
	logger  *zap.Logger
}

// NewGemini returns a gateway against baseURL, or the public endpoint when
// baseURL is empty.
func NewGemini(baseURL string, logger *zap.Logger) *Gemini {
	return &Gemini{baseURL: baseURL, logger: logger.Named("gemini")}
}

func (g *Gemini) client(ctx context.Context, opts Options) (*genai.Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      opts.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return client, nil
}

func generateConfig(opts Options) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
}

func (g *Gemini) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	client, err := g.client(ctx, opts)
	if err != nil {
		return "", err
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return g.generate(ctx, client, contents, opts)
}

// AnalyzeDocument uploads doc, generates over it, and deletes the upload
// on every exit path.
func (g *Gemini) AnalyzeDocument(ctx context.Context, doc Document, prompt string, opts Options) (string, error) {
	client, err := g.client(ctx, opts)
	if err != nil {
		return "", err
	}

	mimeType := doc.MIMEType
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	file, err := client.Files.Upload(ctx, bytes.NewReader(doc.Data), &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: displayName(doc.Name),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", doc.Name, err)
	}
	defer func() {
		// The upload must go even when the request was cancelled.
		if _, err := client.Files.Delete(context.WithoutCancel(ctx), file.Name, nil); err != nil {
			g.logger.Warn("failed to delete uploaded file",
				zap.String("file", file.Name), zap.String("source", doc.Name), zap.Error(err))
		}
	}()

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromURI(file.URI, file.MIMEType),
		genai.NewPartFromText(prompt),
	}, genai.RoleUser)}
	return g.generate(ctx, client, contents, opts)
}

func (g *Gemini) generate(ctx context.Context, client *genai.Client, contents []*genai.Content, opts Options) (string, error) {
	resp, err := client.Models.GenerateContent(ctx, opts.Model, contents, generateConfig(opts))
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", opts.Model, err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	g.logger.Debug("generation complete", zap.String("model", opts.Model), zap.Int("chars", len(text)))
	return text, nil
}

// displayName tags uploads so concurrent uploads of one source stay
// distinguishable in the Files API.
func displayName(name string) string {
	if name == "" {
		name = "document"
	}
	return name + "-" + uuid.NewString()[:8]
}
