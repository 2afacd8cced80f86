package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	applog "expensemate/internal/log"
	"expensemate/internal/notify"
)

// Actions the UI offers that the demo acknowledges but does not perform.
var placeholderActions = map[string]bool{
	"approve":  true,
	"reject":   true,
	"export":   true,
	"view":     true,
	"download": true,
	"filter":   true,
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type readiness struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	body := readiness{Status: "ready", Backend: s.backend}
	status := http.StatusOK
	if err := s.svc.Ready(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "Readiness check failed", "error", err, "backend", s.backend)
		body.Status = "unavailable"
		body.Error = err.Error()
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// handleAction acknowledges a placeholder action with a 204 and a toast.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	action := strings.ToLower(chi.URLParam(r, "action"))
	if !placeholderActions[action] {
		s.handleNotFound(w, r)
		return
	}

	n := notify.NotImplemented(action)
	s.svc.Notify(r.Context(), n)
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerNotification(n).
		Write(w)
}

// handleSidebarToggle flips the stored sidebar state.
func (s *Server) handleSidebarToggle(w http.ResponseWriter, r *http.Request) {
	open := !sidebarOpen(r)
	setSidebarCookie(w, open)
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerSidebar(open).
		Write(w)
}

func (s *Server) handlePlaceholder(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, http.StatusOK, pagePlaceholder, title, struct{ Section string }{title})
	}
}

type errorPage struct {
	Code    int
	Message string
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		NotFoundError("Not found").Write(w)
		return
	}
	s.renderPage(w, r, http.StatusNotFound, pageError, "Not Found",
		errorPage{Code: http.StatusNotFound, Message: "The page you are looking for does not exist."})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).DebugContext(r.Context(), "Method not allowed", "method", r.Method, "url", r.URL.Path)
	MethodNotAllowedError(allowedMethods(r)).Write(w)
}

// allowedMethods reports which methods the request's path accepts.
func allowedMethods(r *http.Request) string {
	switch {
	case r.URL.Path == "/expenses/new":
		return "GET, POST"
	case strings.HasPrefix(r.URL.Path, "/actions/"), r.URL.Path == "/ui/sidebar":
		return http.MethodPost
	}
	return http.MethodGet
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
