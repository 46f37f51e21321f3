package adapthttp

import (
	"net/http"

	"weighttogo/internal/app"
)

func (s *Server) handleGoalList(w http.ResponseWriter, r *http.Request) {
	items, err := s.goals.History(r.Context(), userFromContext(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGoalSet(w http.ResponseWriter, r *http.Request) {
	var body app.SetGoalInput
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	goal, err := s.goals.SetGoal(r.Context(), userFromContext(r), body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"goal": goal})
}

func (s *Server) handleGoalActive(w http.ResponseWriter, r *http.Request) {
	goal, err := s.goals.ActiveGoal(r.Context(), userFromContext(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"goal": goal})
}

func (s *Server) handleGoalDeactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.goals.Deactivate(r.Context(), userFromContext(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
