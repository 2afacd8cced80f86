package http

import (
	"net/http"

	applog "expensemate/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Dashboard(r.Context())
	if err != nil {
		s.serverError(w, r, err, applog.OpAggregate)
		return
	}
	s.renderPage(w, r, http.StatusOK, pageDashboard, "Dashboard", d)
}
