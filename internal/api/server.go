// Package api exposes the advisor over HTTP
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"statadvisor/adapters/dataset"
	"statadvisor/app"
	"statadvisor/internal"
)

// maxUploadBytes caps request bodies, JSON or multipart
const maxUploadBytes = 32 << 20

// Server routes HTTP requests to the advisor service
type Server struct {
	router  *chi.Mux
	advisor *app.AdvisorService
	reader  *dataset.Reader
	logger  *internal.Logger
}

// NewServer creates the HTTP surface
func NewServer(advisor *app.AdvisorService, reader *dataset.Reader, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if reader == nil {
		reader = dataset.NewReader("", logger)
	}
	s := &Server{
		router:  chi.NewRouter(),
		advisor: advisor,
		reader:  reader,
		logger:  logger.Named("api"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/methods", s.handleListMethods)
		r.Get("/methods/{id}", s.handleGetMethod)

		r.Post("/profile", s.handleProfile)
		r.Post("/correlations", s.handleCorrelations)
		r.Post("/outliers/{column}", s.handleOutliers)
		r.Post("/recommend", s.handleRecommend)

		r.Get("/recommendations/{id}", s.handleGetRecommendation)
		r.Get("/recommendations/{id}/explanation", s.handleExplanation)
		r.Get("/datasets/{fingerprint}/recommendations", s.handleHistory)

		r.Post("/sessions/{session}/invalidate", s.handleInvalidateSession)
	})
}
