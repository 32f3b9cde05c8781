// Package web serves a computed shipment report over HTTP.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/shipdash/internal/config"
	"github.com/JonMunkholm/shipdash/internal/core"
	"github.com/JonMunkholm/shipdash/internal/logging"
	"github.com/JonMunkholm/shipdash/internal/render"
	weblog "github.com/JonMunkholm/shipdash/internal/web/middleware"
)

// Server serves one ReportModel. The model is built before the server starts
// and only read afterwards, so handlers need no locking.
type Server struct {
	report *core.ReportModel
	opts   render.Options
	router *chi.Mux
	server *http.Server
}

// NewServer creates a new Server instance.
func NewServer(report *core.ReportModel, opts render.Options) *Server {
	s := &Server{
		report: report,
		opts:   opts,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(weblog.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", templ.Handler(render.Dashboard(s.report, s.opts)).ServeHTTP)
	s.router.Get("/report.json", s.handleReportJSON)
	s.router.Get("/download/{format}", s.handleDownload)
	s.router.Get("/healthz", s.handleHealth)
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, fmt.Errorf("no route for %s", r.URL.Path), http.StatusNotFound)
	})
}

func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := s.report.JSONIndent()
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleDownload renders the report in the requested format. The whole file
// is rendered before the first byte is written so a failure still gets a
// proper error status.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	f, err := render.Lookup(chi.URLParam(r, "format"))
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := f.New(s.opts).Render(r.Context(), &buf, s.report); err != nil {
		s.respondError(w, r, fmt.Errorf("render %s: %w", f.Name, err), http.StatusInternalServerError)
		return
	}

	name := f.FileName(s.report)
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Warn("download interrupted", "file", name, "error", err)
		return
	}
	logging.FromContext(r.Context()).Info("report downloaded", "format", f.Name, "bytes", buf.Len())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":     "ok",
		"as_of_date": s.report.AsOfLabel(),
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(cfg config.ServerConfig) error {
	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("starting server", "addr", cfg.Addr(), "as_of_date", s.report.AsOfLabel())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
// The dashboard needs inline scripts and the charting runtime from its CDN.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline' https://cdn.plot.ly; style-src 'self' 'unsafe-inline'; img-src 'self' data: blob:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
