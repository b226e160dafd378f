package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/sectionize/internal/config"
	"github.com/dgallion1/sectionize/internal/pipeline"
	"github.com/dgallion1/sectionize/internal/roles"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for sectionize.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	annotator    roles.Annotator
	catalog      []roles.Role
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. The annotator may
// be nil when role annotation is disabled.
func NewServer(orch *pipeline.Orchestrator, annotator roles.Annotator, catalog []roles.Role, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		annotator:    annotator,
		catalog:      catalog,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.ServiceAPIKey, s.log))

		r.Post("/api/ingest", s.handleIngest)
		r.Get("/api/ingest/{jobID}/status", s.handleIngestStatus)
		r.Post("/api/ingest/batch", s.handleBatchIngest)
		r.Post("/api/extract", s.handleExtract)
		r.Post("/api/annotate", s.handleAnnotate)
		r.Post("/api/roles/catalog", s.handleRolesCatalog)
		r.Get("/api/stats/llm", s.handleLLMStats)

		r.Get("/api/documents/{docID}/chunks", s.handleListChunks)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
