// Package api provides the HTTP server for envirorank.
//
// It serves the dashboard page, a read-only JSON API over the ranked table,
// SVG chart endpoints, a WebSocket interaction channel and Prometheus
// metrics.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seenimoa/envirorank/internal/config"
	"github.com/seenimoa/envirorank/internal/dashboard"
	"github.com/seenimoa/envirorank/internal/dataset"
	"github.com/seenimoa/envirorank/internal/infra"
	"github.com/seenimoa/envirorank/internal/report"
	"github.com/seenimoa/envirorank/pkg/utils"
	"github.com/seenimoa/envirorank/web"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	dash     *dashboard.Context
	renderer report.Renderer
	charts   report.SVGRenderer
	cache    *infra.Cache
	metrics  *Metrics
	registry *prometheus.Registry
	wsHub    *WSHub
	version  string
}

// NewServer creates a configured server for one dashboard context.
func NewServer(cfg *config.Config, dc *dashboard.Context) (*Server, error) {
	if dc == nil {
		return nil, fmt.Errorf("dashboard context is nil")
	}
	renderer, err := report.NewRenderer(cfg.Dashboard.Renderer)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		cfg:      cfg,
		dash:     dc,
		renderer: renderer,
		cache:    infra.NewCache(time.Duration(cfg.API.CacheTTL) * time.Second),
		metrics:  NewMetrics(dc),
		registry: prometheus.NewRegistry(),
		wsHub:    NewWSHub(),
		version:  "dev",
	}
	if err := srv.registry.Register(srv.metrics); err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// SetVersion sets the version reported by /health and the page footer.
func (s *Server) SetVersion(v string) {
	if v != "" {
		s.version = v
	}
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Metrics returns the server's Prometheus collector.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.wsHub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// Dashboard page and its assets
	r.Get("/", s.handlePage)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.StaticFS())))
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/favicon.svg", http.StatusMovedPermanently)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Table
		r.Get("/schema", s.handleSchema)
		r.Get("/districts", s.handleDistricts)
		r.Get("/ranks", s.handleRanks)
		r.Get("/rankings/{metric}", s.handleRanking)

		// Comparison
		r.Get("/compare", s.handleCompare)
		r.Post("/compare", s.handleCompare)

		// Charts
		r.Get("/charts/bar/{metric}", s.handleBarChart)
		r.Get("/charts/radar", s.handleRadarChart)

		// Configuration
		r.Get("/config", s.handleGetConfig)
		r.Get("/config/settings", s.handleGetSettings)

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	if s.cfg.Metrics.Enabled {
		path := s.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CompareRequest is the body for POST /api/v1/compare.
type CompareRequest struct {
	Districts []string `json:"districts"`
}

// HealthInfo is returned by /health.
type HealthInfo struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Districts int    `json:"districts"`
	Metrics   int    `json:"metrics"`
	Sessions  int    `json:"sessions"` // open WebSocket connections
	Time      string `json:"time"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	t := s.dash.Table()
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: HealthInfo{
			Status:    "ok",
			Version:   s.version,
			Districts: t.Len(),
			Metrics:   len(t.Metrics()),
			Sessions:  s.wsHub.ClientCount(),
			Time:      utils.FormatDateTime(utils.NowSLST()),
		},
	})
}

// handlePage renders the dashboard. A rejected selection re-renders the
// default view with the error shown in a banner.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := http.StatusOK
	var errMsg string

	view, err := s.dash.View(q.Get("metric"), q["district"], q.Get("where"))
	if err != nil {
		if !isClientError(err) {
			s.fail(w, r, err)
			return
		}
		s.metrics.RecordRejected(err)
		slog.Warn("rejected dashboard request", "path", r.URL.Path, "err", err)
		status, errMsg = http.StatusBadRequest, err.Error()

		metric, merr := s.dash.ResolveMetric(q.Get("metric"))
		if merr != nil {
			metric = ""
		}
		view, err = s.dash.View(metric, nil, "")
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}

	var buf bytes.Buffer
	err = report.RenderPage(&buf, report.PageData{
		Title:            s.cfg.Dashboard.Title,
		View:             view,
		Metrics:          s.dash.Table().Metrics(),
		Districts:        s.dash.Table().Districts(),
		MaxSelections:    s.dash.MaxSelections(),
		ValuePrecision:   s.cfg.Dashboard.ValuePrecision,
		ComparePrecision: s.cfg.Dashboard.ComparePrecision,
		Renderer:         s.renderer,
		Error:            errMsg,
		Version:          s.version,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.RecordView("page")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.dash.Schema(),
	})
}

func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.dash.Table().Districts(),
	})
}

func (s *Server) handleRanks(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordView("ranks")
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.dash.RankTable().Matrix(),
	})
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	metric, ok := s.lookupMetric(w, r, chi.URLParam(r, "metric"))
	if !ok {
		return
	}
	view, err := s.dash.Ranking(metric, r.URL.Query().Get("where"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.RecordView("ranking")
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    view,
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query()["district"]
	if r.Method == http.MethodPost {
		var req CompareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.metrics.RecordRejected(dataset.ErrInvalidInput)
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		raw = req.Districts
	}

	sel, err := s.dash.ResolveSelection(raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.dash.Compare(sel)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.RecordView("compare")
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    view,
	})
}

func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	metric, ok := s.lookupMetric(w, r, chi.URLParam(r, "metric"))
	if !ok {
		return
	}
	where := r.URL.Query().Get("where")

	svg, _, err := s.cache.GetOrCompute("bar|"+metric+"|"+where, func() (any, error) {
		view, err := s.dash.Ranking(metric, where)
		if err != nil {
			return nil, err
		}
		return s.charts.BarChart(view)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.RecordView("bar_chart")
	writeSVG(w, fmt.Sprint(svg))
}

func (s *Server) handleRadarChart(w http.ResponseWriter, r *http.Request) {
	sel, err := s.dash.ResolveSelection(r.URL.Query()["district"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	svg, _, err := s.cache.GetOrCompute("radar|"+strings.Join(sel, "|"), func() (any, error) {
		view, err := s.dash.Compare(sel)
		if err != nil {
			return nil, err
		}
		return s.charts.RadarChart(view.Profiles, view.Metrics)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.RecordView("radar_chart")
	writeSVG(w, fmt.Sprint(svg))
}

// lookupMetric resolves a metric path parameter, answering 404 when the
// table has no such column.
func (s *Server) lookupMetric(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	metric, err := s.dash.ResolveMetric(name)
	if err != nil {
		s.metrics.RecordRejected(err)
		slog.Warn("unknown metric", "path", r.URL.Path, "metric", name)
		writeError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return metric, true
}

// fail maps err onto a status code and writes the JSON envelope.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.metrics.RecordRejected(err)
		slog.Warn("rejected request", "path", r.URL.Path, "err", err)
	}
	writeError(w, status, err.Error())
}

// ============================================================
// Helpers
// ============================================================

func isClientError(err error) bool {
	return errors.Is(err, dataset.ErrInvalidInput) || errors.Is(err, dataset.ErrSelectionOutOfRange)
}

func statusFor(err error) int {
	if isClientError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

func writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(svg)) //nolint:errcheck
}
