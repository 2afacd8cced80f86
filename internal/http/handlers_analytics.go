package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensemate/internal/charts"
	"expensemate/internal/core"
	applog "expensemate/internal/log"
	"expensemate/internal/notify"
	"expensemate/internal/services"
)

type analyticsPage struct {
	State AnalyticsState
	Data  services.Analytics
	// Notice is set when the selected range is only a placeholder.
	Notice *notify.Notification
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	state := ParseAnalyticsState(r.URL.Query())
	if !state.RangeValid {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Unknown analytics range, using year",
			"range", r.URL.Query().Get("range"))
	}

	data, err := s.svc.Analytics(r.Context(), state.Range)
	if err != nil {
		s.serverError(w, r, err, applog.OpAggregate)
		return
	}

	page := analyticsPage{State: state, Data: data}
	if state.Range != core.RangeCustom {
		s.renderPage(w, r, http.StatusOK, pageAnalytics, "Analytics", page)
		return
	}

	// Custom ranges have no picker yet; the page shows every record.
	n := notify.NotImplemented("custom_range")
	s.svc.Notify(r.Context(), n)
	page.Notice = &n
	if b := s.buildPage(w, r, http.StatusOK, pageAnalytics, "Analytics", page); b != nil {
		b.TriggerNotification(n).Write(w)
	}
}

// handleChart renders one analytics chart as PNG for the requested range.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := charts.ParseKind(chi.URLParam(r, "chart"))
	if err != nil {
		NotFoundError("Unknown chart").Write(w)
		return
	}

	state := ParseAnalyticsState(r.URL.Query())
	data, err := s.svc.Analytics(r.Context(), state.Range)
	if err != nil {
		s.serverError(w, r, err, applog.OpAggregate)
		return
	}

	var buf bytes.Buffer
	err = charts.Render(&buf, kind, charts.Data{
		Year:        data.Year,
		Monthly:     data.Monthly,
		Categories:  data.Categories,
		Departments: data.Departments,
	})
	if errors.Is(err, charts.ErrUnknownChart) {
		NotFoundError("Unknown chart").Write(w)
		return
	}
	if err != nil {
		s.serverError(w, r, err, applog.OpRender)
		return
	}

	NewHTMXResponse().
		Header("Content-Type", "image/png").
		Header("Cache-Control", "no-cache").
		Body(buf.Bytes()).
		Write(w)
}
