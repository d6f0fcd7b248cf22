// Package httpapi implements the HTTP transport of §C6: the OTLP/HTTP
// ingestion surface (protobuf or JSON, gzip-tolerant, 10MB-bounded) and the
// read-only /ws live tail, built the way the teacher's internal/server
// wires a chi.Router around a shared set of handlers.
package httpapi

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appMiddleware "github.com/otelscope/otelscope/internal/middleware"
	"github.com/otelscope/otelscope/internal/logger"
	"github.com/otelscope/otelscope/internal/otlp"
	"github.com/otelscope/otelscope/internal/store"
	"github.com/otelscope/otelscope/internal/websocket"
	"github.com/otelscope/otelscope/pkg/compression"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server is the OTLP/HTTP ingestion listener: POST /v1/{traces,metrics,logs},
// POST / (content-sniffing fallback), GET /health, and GET /ws.
type Server struct {
	addr   string
	router chi.Router
	store  *store.Store
	hub    *websocket.Hub
	http   *http.Server
}

// NewServer wires the router around adapter and hub, the way the teacher's
// server.New builds Handlers around a DuckDBStore and websocket.Hub.
// frontendURL is allowed to make cross-origin GET /health and /ws requests,
// mirroring the teacher's apiRouter CORS policy.
func NewServer(addr string, adapter *otlp.Adapter, hub *websocket.Hub, frontendURL string) *Server {
	s := &Server{addr: addr, router: chi.NewRouter(), store: adapter.Store, hub: hub}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(compression.GzipDecompressMiddleware)
	s.router.Use(appMiddleware.DefaultPayloadLimitMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL, "http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Encoding", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := &ingestHandlers{adapter: adapter}

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/traces", h.handleTraces)
		r.Post("/metrics", h.handleMetrics)
		r.Post("/logs", h.handleLogs)
	})
	s.router.Post("/", h.handleRoot)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWs(hub, w, r)
	})

	return s
}

// ListenAndServe serves HTTP/1.1 with h2c upgrade, as the teacher's OTLP
// listener does for clients that speak gRPC-style HTTP/2 without TLS.
func (s *Server) ListenAndServe() error {
	h2s := &http2.Server{}
	handler := h2c.NewHandler(s.router, h2s)

	s.http = &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // disabled: /ws connections stay open
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("OTLP HTTP server starting",
		"addr", s.addr,
		"endpoints", "POST /v1/traces, /v1/metrics, /v1/logs, GET /health, GET /ws",
	)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("OTLP HTTP server: %w", err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests and open /ws connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","traces":%d,"logs":%d,"metrics":%d}`,
		s.store.TraceCount(), s.store.LogCount(), s.store.MetricCount())
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker so /ws upgrades survive the logging wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}
