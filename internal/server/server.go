package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/repbook/internal/workout"
)

// Server holds dependencies for HTTP handlers. It is a thin adapter: all
// semantics live in the workout package, and presentation state (which
// template or exercise is "current") belongs to the client.
type Server struct {
	templates *workout.TemplateStore
	ledger    *workout.Ledger
	log       *slog.Logger
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(templates *workout.TemplateStore, ledger *workout.Ledger, log *slog.Logger) *Server {
	s := &Server{
		templates: templates,
		ledger:    ledger,
		log:       log,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Template catalog
	s.router.Get("/api/v1/templates", s.handleListTemplates)
	s.router.Post("/api/v1/templates", s.handleCreateTemplate)
	s.router.Get("/api/v1/templates/{id}", s.handleGetTemplate)
	s.router.Delete("/api/v1/templates/{id}", s.handleDeleteTemplate)
	s.router.Post("/api/v1/templates/{id}/exercises", s.handleAddExercise)
	s.router.Delete("/api/v1/templates/{id}/exercises/{exerciseID}", s.handleDeleteExercise)
	s.router.Get("/api/v1/exercises", s.handleListExercises)

	// Session ledger
	s.router.Post("/api/v1/sessions/today", s.handleTodaySession)
	s.router.Get("/api/v1/sessions/dates", s.handleSessionDates)
	s.router.Get("/api/v1/sessions/count", s.handleSessionCount)
	s.router.Get("/api/v1/sessions/{id}/exercises/{exerciseID}", s.handleGetExerciseData)
	s.router.Put("/api/v1/sessions/{id}/exercises/{exerciseID}", s.handleSaveExerciseData)

	// History and stats
	s.router.Get("/api/v1/history/{templateID}/{exerciseID}", s.handleExerciseHistory)
	s.router.Get("/api/v1/history/exercise/{exerciseID}", s.handleGlobalHistory)
	s.router.Get("/api/v1/stats/progression", s.handleProgression)
}
