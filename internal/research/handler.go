package research

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ayush/paper-studio/internal/api"
	"github.com/ayush/paper-studio/internal/models"
	"github.com/ayush/paper-studio/internal/store"
)

// Handler holds the literature pipeline HTTP handlers.
type Handler struct {
	svc            *Service
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewHandler(svc *Service, maxUploadBytes int64, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, maxUploadBytes: maxUploadBytes, logger: logger.Named("research.http")}
}

// Routes mounts the pipeline endpoints under /api.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/sources", h.ListSources)
	r.Post("/sources", h.UploadSource)
	r.Post("/sources/process", h.ProcessSource)
	r.Get("/analyses", h.ListAnalyses)

	r.Get("/report", h.GetReport)
	r.Put("/report", h.PutReport)
	r.Post("/report/synthesize", h.Synthesize)

	r.Get("/brainstorm", h.GetBrainstorm)
	r.Put("/brainstorm", h.PutBrainstorm)
	r.Post("/brainstorm/generate", h.GenerateIdeas)
}

// ListSources returns every source PDF with its stage completion.
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.svc.Sources(r.Context())
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"sources": sources})
}

// UploadSource accepts a multipart form with a "file" field.
func (h *Handler) UploadSource(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		api.Error(w, h.logger, api.InvalidParam("file", err))
		return
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		api.Error(w, h.logger, api.MissingParam("file"))
		return
	}
	if err != nil {
		api.Error(w, h.logger, api.InvalidParam("file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, h.logger, api.InvalidParam("file", err))
		return
	}
	if err := h.svc.Upload(r.Context(), header.Filename, data); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"filename": header.Filename})
}

// ProcessSource runs the conversion and analysis stages for one source.
func (h *Handler) ProcessSource(w http.ResponseWriter, r *http.Request) {
	var req models.ProcessRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	result, err := h.svc.ProcessSource(r.Context(), req)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"result": result})
}

// ListAnalyses returns the stems of every analyzed source.
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	stems, err := h.svc.Analyzed(r.Context())
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"analyses": stems})
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.getSingleton(w, r, h.svc.Report)
}

func (h *Handler) PutReport(w http.ResponseWriter, r *http.Request) {
	h.putSingleton(w, r, h.svc.SaveReport)
}

func (h *Handler) GetBrainstorm(w http.ResponseWriter, r *http.Request) {
	h.getSingleton(w, r, h.svc.Brainstorm)
}

func (h *Handler) PutBrainstorm(w http.ResponseWriter, r *http.Request) {
	h.putSingleton(w, r, h.svc.SaveBrainstorm)
}

// getSingleton answers with a null content when the report does not exist
// yet; the UI treats that as "not generated".
func (h *Handler) getSingleton(w http.ResponseWriter, r *http.Request, read func(ctx context.Context) (string, error)) {
	content, err := read(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		api.Success(w, map[string]any{"content": nil})
		return
	}
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"content": content})
}

func (h *Handler) putSingleton(w http.ResponseWriter, r *http.Request, save func(ctx context.Context, content string) error) {
	var body models.ContentBody
	if err := api.DecodeJSON(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if body.Content == nil {
		api.Error(w, h.logger, api.MissingParam("content"))
		return
	}
	if err := save(r.Context(), *body.Content); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, nil)
}

// Synthesize writes the comprehensive report over the selected analyses.
func (h *Handler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req models.SynthesizeRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	report, err := h.svc.Synthesize(r.Context(), req)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"content": report})
}

// GenerateIdeas produces or revises the brainstorming result.
func (h *Handler) GenerateIdeas(w http.ResponseWriter, r *http.Request) {
	var req models.BrainstormRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	result, err := h.svc.GenerateIdeas(r.Context(), req)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"content": result})
}
