package writing

import (
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ayush/paper-studio/internal/api"
	"github.com/ayush/paper-studio/internal/models"
)

// Handler holds the paper-writing HTTP handlers.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.Named("writing.http")}
}

// Routes mounts the writing endpoints under /api.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/models", h.Models)
	r.Get("/sections", h.Sections)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{name}", h.Get)
		r.Put("/{name}", h.Save)
		r.Delete("/{name}", h.Delete)
		r.Post("/{name}/rename", h.Rename)
		r.Post("/{name}/generate", h.Generate)
		r.Get("/{name}/export", h.Export)
	})
}

// nameParam returns the unescaped {name} path segment. chi hands back the
// raw segment when the request path needed escaping.
func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]any{"models": h.svc.Models()})
}

func (h *Handler) Sections(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]any{"sections": h.svc.Sections()})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.List(r.Context())
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"documents": docs})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	name, err := h.svc.Create(r.Context())
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"name": name})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Get(r.Context(), nameParam(r))
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"data": doc})
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var doc models.Document
	if err := api.DecodeJSON(r, &doc); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if err := h.svc.Save(r.Context(), nameParam(r), &doc); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, nil)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.svc.Delete(r.Context(), nameParam(r))
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"deleted": removed})
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req models.RenameRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	name, err := h.svc.Rename(r.Context(), nameParam(r), req.Name)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"name": name})
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	text, err := h.svc.GenerateSection(r.Context(), nameParam(r), req)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.Success(w, map[string]any{"content": text})
}

// Export serves the paper as a Markdown download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	body, filename, err := h.svc.Export(r.Context(), nameParam(r))
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
