package adapthttp

import "net/http"

func (s *Server) handleAchievementList(w http.ResponseWriter, r *http.Request) {
	items, err := s.achievements.List(r.Context(), userFromContext(r), boolQuery(r, "pending"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleAchievementNotified(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.achievements.MarkNotified(r.Context(), userFromContext(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
