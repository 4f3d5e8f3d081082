// Package api serves the journal over HTTP under /api/v1, with live change
// notifications on /ws.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ramonehamilton/hooplog/internal/api/websocket"
	"github.com/ramonehamilton/hooplog/internal/auth"
	"github.com/ramonehamilton/hooplog/internal/charts"
	"github.com/ramonehamilton/hooplog/internal/gui"
	"github.com/ramonehamilton/hooplog/internal/metrics"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int
	origins    []string

	wsHub    *websocket.Hub
	observer *websocket.WebSocketObserver

	services *gui.Services
	sessions *auth.SessionStore
	metrics  *metrics.Recorder
	location *time.Location
	charts   charts.ChartConfig
	logger   *zap.Logger
}

// Config holds configuration for the API server.
type Config struct {
	Port           int
	AllowedOrigins []string
	Location       *time.Location // Zone for form dates and periods; nil means local
	Charts         charts.ChartConfig
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		Charts:         charts.DefaultChartConfig(),
	}
}

// Deps are the shared components the handlers call into. Services must
// carry Storage and Auth; its Session is ignored.
type Deps struct {
	Services *gui.Services
	Sessions *auth.SessionStore
	Metrics  *metrics.Recorder // Optional
}

// NewServer creates a new API server.
func NewServer(cfg *Config, deps Deps) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := zap.NewNop()
	if deps.Services != nil && deps.Services.Logger != nil {
		logger = deps.Services.Logger
	}
	logger = logger.Named("api")

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	s := &Server{
		router:   chi.NewRouter(),
		port:     cfg.Port,
		origins:  cfg.AllowedOrigins,
		wsHub:    websocket.NewHub(logger),
		services: deps.Services,
		sessions: deps.Sessions,
		metrics:  deps.Metrics,
		location: loc,
		charts:   cfg.Charts,
		logger:   logger,
	}
	s.observer = websocket.NewWebSocketObserver(s.wsHub)

	if err := s.metrics.RegisterGauge("websocket", "clients", "Connected WebSocket clients.", func() float64 {
		return float64(s.wsHub.ClientCount())
	}); err != nil {
		logger.Warn("failed to register websocket gauge", zap.Error(err))
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Content-Type enforcement for POST/PUT/PATCH only (not GET/DELETE/OPTIONS)
	s.router.Use(jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the hub and the HTTP listener in the background.
func (s *Server) Start() error {
	s.attach()
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	s.httpServer = s.newHTTPServer()
	go func() {
		s.logger.Info("API server starting", zap.Int("port", s.port))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", zap.Error(err))
		}
	}()
	return nil
}

// Run serves until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func (s *Server) newHTTPServer() *http.Server {
	return &http.Server{
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// attach starts the hub and subscribes it to storage changes.
func (s *Server) attach() {
	go s.wsHub.Run()
	if s.services != nil && s.services.Storage != nil {
		s.services.Storage.Dispatcher().Register(s.observer)
	}
}

// detach undoes attach.
func (s *Server) detach() {
	if s.services != nil && s.services.Storage != nil {
		s.services.Storage.Dispatcher().Unregister(s.observer)
	}
	s.wsHub.Stop()
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.detach()
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// WebSocketHub returns the WebSocket hub.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
