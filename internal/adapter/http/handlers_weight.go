package adapthttp

import (
	"net/http"

	"weighttogo/internal/app"
	"weighttogo/internal/domain"
)

func (s *Server) handleWeightList(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 14)
	items, err := s.weight.ListRecent(r.Context(), userFromContext(r), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleWeightLog(w http.ResponseWriter, r *http.Request) {
	var body app.LogWeightInput
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.weight.LogWeight(r.Context(), userFromContext(r), body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleWeightDay(w http.ResponseWriter, r *http.Request) {
	day := r.PathValue("day")
	if day == "today" {
		day = s.weight.Today()
	}
	if _, err := domain.ParseDay(day); err != nil {
		writeError(w, http.StatusBadRequest, app.ErrInvalidDay)
		return
	}
	entry, err := s.weight.GetDayWeight(r.Context(), userFromContext(r), day)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"day": day, "entry": entry})
}

func (s *Server) handleWeightUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var body struct {
		Value float64 `json:"value"`
		Notes string  `json:"notes"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entry, err := s.weight.UpdateEntry(r.Context(), userFromContext(r), id, body.Value, body.Notes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
}

func (s *Server) handleWeightDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.weight.DeleteEntry(r.Context(), userFromContext(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
