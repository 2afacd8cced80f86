package http

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "expensemate/internal/log"
	"expensemate/internal/middleware/metrics"
	"expensemate/internal/middleware/ratelimit"
	"expensemate/internal/middleware/security"
	"expensemate/internal/middleware/trace"
	"expensemate/internal/services"
	appweb "expensemate/web"
)

// Options configures a Server.
type Options struct {
	RateLimitPerMinute int
	Logger             *applog.Logger
	// Backend names the record provider in the readiness report.
	Backend string
}

type Server struct {
	http.Server
	templates  *pageTemplates
	svc        *services.ExpenseService
	limiter    *ratelimit.Limiter
	detector   *security.Detector
	logger     *applog.Logger
	structured *applog.StructuredLogger
	validate   *validator.Validate
	backend    string

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.ExpenseService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	rlConfig := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		rlConfig.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		templates:  mustParseTemplates(),
		svc:        svc,
		limiter:    ratelimit.NewLimiter(rlConfig),
		detector:   security.NewDetector(),
		logger:     logger,
		structured: applog.NewStructuredLogger(logger),
		validate:   newFormValidator(),
		backend:    opts.Backend,
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(trace.NewMiddleware(s.detector.ExtractClientIP, s.logger).Middleware)
	r.Use(applog.Middleware(s.logger))
	r.Use(applog.RequestIDMiddleware(trace.RequestIDFromRequest))
	r.Use(s.detector.Middleware)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited, http.MethodPost))

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handleDashboard)

	r.Get("/expenses", s.handleExpenses)
	r.Get("/ui/expenses", s.handleExpenseRows)
	r.Get("/expenses/new", s.handleNewExpenseForm)
	r.Post("/expenses/new", s.handleSubmitExpense)

	r.Get("/analytics", s.handleAnalytics)
	r.Get("/analytics/charts/{chart}.png", s.handleChart)

	r.Post("/actions/{action}", s.handleAction)
	r.Post("/ui/sidebar", s.handleSidebarToggle)

	for p, title := range placeholderSections {
		r.Get(p, s.handlePlaceholder(title))
	}

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	return r
}

// Shutdown gracefully shuts down the server and the limiter's cleanup loop.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// ListenAndServe treats a graceful shutdown as a clean exit.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.Addr)
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	s.structured.LogError(r.Context(), "Request failed", err, operation,
		applog.NewFields().WithRequestID(trace.GetRequestID(r.Context())))
	InternalServerError("Something went wrong. Please try again.").Write(w)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		"client_ip", s.detector.ExtractClientIP(r),
		"method", r.Method,
		"url", r.URL.Path)
	TooManyRequestsError().
		TriggerErrorNotification("Slow down", "Too many requests. Please wait a minute and try again.").
		Write(w)
}
