package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ayush/paper-studio/internal/artifacts"
	"github.com/ayush/paper-studio/internal/config"
	"github.com/ayush/paper-studio/internal/llm"
	"github.com/ayush/paper-studio/internal/middleware"
	"github.com/ayush/paper-studio/internal/papers"
	"github.com/ayush/paper-studio/internal/prompt"
	"github.com/ayush/paper-studio/internal/research"
	"github.com/ayush/paper-studio/internal/sections"
	"github.com/ayush/paper-studio/internal/store"
	"github.com/ayush/paper-studio/internal/writing"
)

// app is the wired service graph shared by every command.
type app struct {
	research *research.Service
	writing  *writing.Service
	close    func()
}

func newApp(ctx context.Context, cfg *config.Config, gateway llm.Gateway, logger *zap.Logger) (*app, error) {
	registry, err := sections.Load(cfg.SectionsFile)
	if err != nil {
		return nil, err
	}
	blobs, closeBlobs, err := store.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	arts := artifacts.NewStore(blobs, artifacts.DefaultLayout())
	docs := papers.NewStore(blobs, registry, logger)
	assembler := prompt.NewAssembler(registry, cfg.LLM.DefaultLanguage)

	return &app{
		research: research.NewService(arts, gateway, cfg.LLM.DefaultModel(), logger),
		writing:  writing.NewService(docs, registry, assembler, gateway, cfg.LLM.Models, logger),
		close:    closeBlobs,
	}, nil
}

func newRouter(cfg *config.Config, a *app, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	researchHandler := research.NewHandler(a.research, cfg.MaxUploadMB<<20, logger)
	writingHandler := writing.NewHandler(a.writing, logger)
	r.Route("/api", func(r chi.Router) {
		researchHandler.Routes(r)
		writingHandler.Routes(r)
	})
	return r
}
