package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/dgallion1/sententia/internal/analysis"
	"github.com/dgallion1/sententia/internal/config"
	"github.com/dgallion1/sententia/internal/lookup"
	"github.com/dgallion1/sententia/internal/store"
)

// Server is the HTTP API server for sententia.
type Server struct {
	handler  http.Handler
	analyses *analysis.Orchestrator
	saved    *store.Store
	stats    *lookup.Stats
	cache    *lookup.Cache
	log      *slog.Logger
	cfg      config.Config
}

// Option configures optional collaborators.
type Option func(*Server)

// WithLookupStats exposes lookup service latencies on /api/stats/lookup.
func WithLookupStats(st *lookup.Stats, c *lookup.Cache) Option {
	return func(s *Server) {
		s.stats = st
		s.cache = c
	}
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *analysis.Orchestrator, saved *store.Store, log *slog.Logger, cfg config.Config, opts ...Option) *Server {
	s := &Server{
		analyses: orch,
		saved:    saved,
		log:      log,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
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
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Route("/api/analyses", func(r chi.Router) {
			r.Post("/", s.handleCreateAnalysis)
			r.Get("/", s.handleListAnalyses)
			r.Post("/upload", s.handleUpload)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetAnalysis)
				r.Delete("/", s.handleCloseAnalysis)
				r.Post("/run", s.handleRun)
				r.Post("/reanalyze", s.handleReanalyze)
				r.Post("/rerun", s.handleRerun)
				r.Post("/save", s.handleSave)

				r.Route("/words/{index}", func(r chi.Router) {
					r.Post("/select", s.handleSelect)
					r.Post("/override", s.handleOverride)
					r.Post("/reject", s.handleReject)
					r.Post("/confirm", s.handleConfirm)
					r.Post("/unselect", s.handleUnselect)
				})
			})
		})

		r.Get("/api/saved", s.handleListSaved)
		r.Post("/api/saved/{id}/load", s.handleLoadSaved)
		r.Delete("/api/saved/{id}", s.handleDeleteSaved)

		r.Get("/api/stats/lookup", s.handleLookupStats)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	s.handler = c.Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.analyses.QueueDepth(),
	})
}
