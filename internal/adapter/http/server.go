// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"go.uber.org/zap"

	"weighttogo/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	weight       *app.WeightService
	goals        *app.GoalService
	achievements *app.AchievementService
	charts       *app.ChartsService
	webDir       string
	log          *zap.Logger
}

// New creates a Server wired to the given application services. An empty
// webDir disables static file serving.
func New(ws *app.WeightService, gs *app.GoalService, as *app.AchievementService, cs *app.ChartsService, webDir string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{weight: ws, goals: gs, achievements: as, charts: cs, webDir: webDir, log: log}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	users := http.NewServeMux()
	users.HandleFunc("GET /weights", s.handleWeightList)
	users.HandleFunc("POST /weights", s.handleWeightLog)
	users.HandleFunc("GET /weights/day/{day}", s.handleWeightDay)
	users.HandleFunc("PUT /weights/{id}", s.handleWeightUpdate)
	users.HandleFunc("DELETE /weights/{id}", s.handleWeightDelete)

	users.HandleFunc("GET /goals", s.handleGoalList)
	users.HandleFunc("POST /goals", s.handleGoalSet)
	users.HandleFunc("GET /goals/active", s.handleGoalActive)
	users.HandleFunc("POST /goals/{id}/deactivate", s.handleGoalDeactivate)

	users.HandleFunc("GET /achievements", s.handleAchievementList)
	users.HandleFunc("POST /achievements/{id}/notified", s.handleAchievementNotified)

	users.HandleFunc("GET /charts/daily", s.handleChartsDaily)

	api := http.NewServeMux()
	api.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.Handle("/", withUser(users))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	if s.webDir != "" {
		root.Handle("/", spaFromDisk(s.webDir))
	}

	return s.loggingMiddleware(withNoCache(root))
}
