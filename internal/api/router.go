package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/hooplog/internal/api/handlers"
	"github.com/ramonehamilton/hooplog/internal/api/response"
	"github.com/ramonehamilton/hooplog/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Unversioned
	s.router.Get("/health", s.healthCheck)
	s.router.Handle("/metrics", s.metrics.Handler())
	s.router.With(s.requireSession).Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		playerHandler := handlers.NewPlayerHandler(s.services, s.sessions)
		r.Post("/players/register", playerHandler.Register)
		r.Post("/players/login", playerHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Route("/players/me", func(r chi.Router) {
				r.Get("/", playerHandler.Me)
				r.Put("/", playerHandler.UpdateMe)
				r.Post("/logout", playerHandler.Logout)
			})

			sheetHandler := handlers.NewSheetHandler(s.services)

			eventHandler := handlers.NewEventHandler(s.services, s.location)
			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.GetEvents)
				r.Post("/", eventHandler.CreateEvent)
				r.Post("/with-sheet", eventHandler.CreateEventWithSheet)
				r.Get("/{eventID}", eventHandler.GetEvent)
				r.Put("/{eventID}", eventHandler.UpdateEvent)
				r.Delete("/{eventID}", eventHandler.DeleteEvent)
				r.Get("/{eventID}/sheets", sheetHandler.GetEventSheets)
			})

			r.Route("/sheets", func(r chi.Router) {
				r.Get("/", sheetHandler.GetSheets)
				r.Post("/", sheetHandler.CreateSheet)
				r.Get("/recent", sheetHandler.GetRecentSheets)
				r.Get("/{sheetID}", sheetHandler.GetSheet)
				r.Put("/{sheetID}", sheetHandler.UpdateSheet)
				r.Delete("/{sheetID}", sheetHandler.DeleteSheet)
			})

			goalHandler := handlers.NewGoalHandler(s.services)
			r.Route("/goals", func(r chi.Router) {
				r.Get("/", goalHandler.GetGoals)
				r.Post("/", goalHandler.CreateGoal)
				r.Get("/{goalID}", goalHandler.GetGoal)
				r.Put("/{goalID}", goalHandler.UpdateGoal)
				r.Put("/{goalID}/status", goalHandler.UpdateStatus)
				r.Put("/{goalID}/progress", goalHandler.UpdateProgress)
				r.Delete("/{goalID}", goalHandler.DeleteGoal)
			})

			statsHandler := handlers.NewStatsHandler(s.services, s.location, s.charts)
			r.Route("/stats", func(r chi.Router) {
				r.Get("/summary", statsHandler.GetSummary)
				r.Get("/series", statsHandler.GetStatNames)
				r.Get("/series/{stat}", statsHandler.GetSeries)
				r.Get("/last", statsHandler.GetLast)
				r.Get("/streaks", statsHandler.GetStreaks)
			})

			r.Route("/charts", func(r chi.Router) {
				r.Get("/series/{stat}", statsHandler.GetSeriesChart)
				r.Get("/averages", statsHandler.GetAveragesChart)
			})

			exportHandler := handlers.NewExportHandler(s.services)
			r.Get("/export/{kind}", exportHandler.GetExport)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	if s.services == nil || s.services.Storage == nil {
		response.ServiceUnavailable(w, errNoStorage)
		return
	}
	if err := s.services.Storage.DB().Ping(); err != nil {
		response.ServiceUnavailable(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"status":  "healthy",
		"service": "hooplog-api",
		"version": version.GetVersion(),
	})
}
