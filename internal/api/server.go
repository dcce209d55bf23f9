// Package api exposes imports over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"funnelscope/app"
	"funnelscope/internal"
	"funnelscope/ports"
)

// FileField is the multipart field carrying an upload.
const FileField = "file"

// Config holds HTTP server settings
type Config struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

// Server wires the import service to a chi router
type Server struct {
	router  *chi.Mux
	service *app.ImportService
	storage ports.FileStorage
	logger  *internal.Logger
	config  Config
	httpSrv *http.Server
}

// NewServer creates the HTTP server and registers its routes
func NewServer(config Config, service *app.ImportService, storage ports.FileStorage, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		storage: storage,
		logger:  logger.WithComponent("api"),
		config:  config,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/imports/funnel", s.handleFunnelUpload)
		r.Post("/imports/dataset", s.handleDatasetUpload)
		r.Get("/imports", s.handleListImports)
		r.Get("/imports/{id}", s.handleGetImport)
		r.Get("/imports/{id}/export.csv", s.handleExportFunnel)
		r.Post("/format", s.handleFormat)
	})
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.logger.Info("listening on :%s", s.config.Port)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
