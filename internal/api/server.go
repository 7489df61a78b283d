package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmars/pdfrank/internal/batch"
	"github.com/dmars/pdfrank/internal/config"
	"github.com/dmars/pdfrank/internal/embed"
	"github.com/dmars/pdfrank/internal/persona"
)

// Server is the HTTP API server for pdfrank.
type Server struct {
	router     chi.Router
	analyzer   *persona.Analyzer
	batch      *batch.Runner
	embedStats *embed.Stats
	embedModel string
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server. embedStats and
// embedModel may be zero for backends that don't track latency.
func NewServer(analyzer *persona.Analyzer, runner *batch.Runner, embedStats *embed.Stats, embedModel string, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		analyzer:   analyzer,
		batch:      runner,
		embedStats: embedStats,
		embedModel: embedModel,
		log:        log,
		cfg:        cfg,
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
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		// Bearer auth only when a key is configured.
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/outline", s.handleOutline)
		r.Post("/api/persona", s.handlePersona)
		r.Post("/api/batch", s.handleBatch)
		r.Get("/api/batch/{runID}/status", s.handleBatchStatus)
		r.Get("/api/stats/embed", s.handleEmbedStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
