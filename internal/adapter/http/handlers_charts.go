package adapthttp

import (
	"net/http"

	"weighttogo/internal/domain"
)

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 90)
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = domain.UnitLb
	}

	points, err := s.charts.GetDaily(r.Context(), userFromContext(r), days, unit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":  len(points),
		"unit":  unit,
		"today": s.weight.Today(),
		"items": points,
	})
}
