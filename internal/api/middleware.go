package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ramonehamilton/hooplog/internal/api/handlers"
	"github.com/ramonehamilton/hooplog/internal/api/response"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errBadToken     = errors.New("invalid or expired session")
	errNoStorage    = errors.New("storage is not initialized")
)

// requestLogger logs each request and records it in the metrics registry
// under its route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		duration := time.Since(start)

		s.metrics.RecordHTTPRequest(r.Method, route, status, duration)
		s.logger.Debug("request complete",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", duration))
	})
}

// requireSession resolves the bearer token to a session and stores it on
// the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := handlers.BearerToken(r)
		if !ok {
			response.Unauthorized(w, errMissingToken)
			return
		}
		session, ok := s.sessions.Lookup(token)
		if !ok {
			response.Unauthorized(w, errBadToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(handlers.WithSession(r.Context(), session)))
	})
}
