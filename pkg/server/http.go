package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/abgdnv/inventory/pkg/config"
	"github.com/abgdnv/inventory/pkg/web"
	"github.com/go-chi/chi/v5"
)

var allMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// NewHTTPServer creates and configures a new HTTP server instance.
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Timeout.Read,
		WriteTimeout:      cfg.Timeout.Write,
		IdleTimeout:       cfg.Timeout.Idle,
		ReadHeaderTimeout: cfg.Timeout.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// NewChiRouter creates a new Chi router with a set of
// middleware for request ID injection, structured logging, and recovery.
// Unknown routes and unsupported methods are answered with the uniform error body.
// AllowedMethods only sees routes registered directly on the returned mux, not mounted sub-routers.
func NewChiRouter(logger *slog.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(logger))
	mux.Use(web.Recoverer(logger))

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		message := fmt.Sprintf("No handler found for %s %s", r.Method, r.URL.Path)
		logger.WarnContext(r.Context(), "No handler found", "method", r.Method, "path", r.URL.Path)
		web.RespondError(w, logger, http.StatusNotFound, message)
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		allowed := AllowedMethods(mux, r.URL.Path)
		message := fmt.Sprintf("HTTP method '%s' not allowed. Allowed: [%s]", r.Method, strings.Join(allowed, ", "))
		logger.WarnContext(r.Context(), "Method not allowed", "method", r.Method, "path", r.URL.Path)
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		web.RespondError(w, logger, http.StatusMethodNotAllowed, message)
	})
	return mux
}

// AllowedMethods lists the methods routes registers for path, sorted alphabetically.
func AllowedMethods(routes chi.Routes, path string) []string {
	var allowed []string
	for _, method := range allMethods {
		if routes.Match(chi.NewRouteContext(), method, path) {
			allowed = append(allowed, method)
		}
	}
	sort.Strings(allowed)
	return allowed
}
