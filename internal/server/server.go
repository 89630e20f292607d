// Package server assembles the HTTP handler: Connect services, health check
// and metrics, behind request logging and CORS.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/warikan/internal/api"
	"github.com/mmynk/warikan/internal/auth"
	"github.com/mmynk/warikan/internal/metrics"
	"github.com/mmynk/warikan/internal/middleware"
	"github.com/mmynk/warikan/internal/service"
	"github.com/mmynk/warikan/internal/storage"
)

// Deps are the collaborators the handler is built from.
type Deps struct {
	Store    storage.Store
	Tokens   *auth.TokenManager
	Registry *prometheus.Registry
	Options  service.Options
}

// NewRouter returns the routed handler without HTTP/2 cleartext support.
// Tests use it directly with httptest.
func NewRouter(d Deps) http.Handler {
	m := metrics.New(d.Registry)
	opts := d.Options
	opts.Metrics = m

	interceptors := connect.WithInterceptors(
		m.Interceptor(),
		middleware.SessionAuth(d.Tokens),
		middleware.LoggingInterceptor(),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	splitPath, splitHandler := api.NewSplitServiceHandler(service.NewSplitService(opts), interceptors)
	r.Mount(splitPath, splitHandler)

	sessionPath, sessionHandler := api.NewSessionServiceHandler(service.NewSessionService(d.Store, d.Tokens, opts), interceptors)
	r.Mount(sessionPath, sessionHandler)

	return r
}

// New wraps NewRouter with h2c for HTTP/2 without TLS, which Connect's gRPC
// protocol requires.
func New(d Deps) http.Handler {
	return h2c.NewHandler(NewRouter(d), &http2.Server{})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chimw.GetReqID(r.Context())

		slog.Debug("Request received",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
