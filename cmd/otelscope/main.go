package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/otelscope/otelscope/internal/config"
	"github.com/otelscope/otelscope/internal/grpcserver"
	"github.com/otelscope/otelscope/internal/httpapi"
	"github.com/otelscope/otelscope/internal/logger"
	"github.com/otelscope/otelscope/internal/otlp"
	"github.com/otelscope/otelscope/internal/otlpreceiver"
	"github.com/otelscope/otelscope/internal/query"
	"github.com/otelscope/otelscope/internal/queryrpc"
	"github.com/otelscope/otelscope/internal/store"
	"github.com/otelscope/otelscope/internal/version"
	"github.com/otelscope/otelscope/internal/websocket"
)

func main() {
	if len(os.Args) < 2 {
		runServer()
		return
	}

	switch os.Args[1] {
	case "serve":
		runServer()
	case "query":
		cmdQuery(os.Args[2:])
	case "-v", "--version", "version":
		printVersion()
	case "-h", "--help", "help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("otelscope %s\n", version.Version)
	fmt.Printf("Git Commit: %s\n", version.GitCommit)
	fmt.Printf("Build Date: %s\n", version.BuildDate)
}

func printHelp() {
	fmt.Print(`otelscope - an in-memory OpenTelemetry collector with a SQL query surface

Usage: otelscope [command] [options]

Commands:
  serve     Start the collector: OTLP gRPC + HTTP ingestion and the query service (default)
  query     Run a one-shot SQL query or Follow stream against a running instance
  version   Show version information

Options:
  -h, --help       Show this help message
  -v, --version    Show version information

Use "otelscope query --help" for query options.

Environment Variables:
  OTELSCOPE_GRPC_ADDR             OTLP gRPC listener (default: :4317)
  OTELSCOPE_HTTP_ADDR              OTLP HTTP listener (default: :4318)
  OTELSCOPE_QUERY_ADDR             Query gRPC listener (default: :4319)
  OTELSCOPE_MAX_ITEMS              Per-table FIFO capacity (default: 1000)
  OTELSCOPE_FOLLOW_BUFFER_SIZE     Follow subscription backlog size (default: 64)
  OTELSCOPE_LOG_LEVEL              Log level: debug, info, warn, error (default: info)
  OTELSCOPE_LOG_FORMAT             Log format: json, text (default: json)
  OTELSCOPE_FRONTEND_URL           Allowed /ws origin for local frontend dev
`)
}

func runServer() {
	cfg := config.Load()

	logLevel := parseLogLevel(cfg.LogLevel)
	if cfg.LogFormat == "text" {
		logger.InitializeText(logLevel)
	} else {
		logger.Initialize(logLevel)
	}
	log := logger.Logger()

	st := store.New(cfg.MaxItems)
	adapter := otlp.NewAdapter(st)
	svc := query.NewServiceWithFollowBuffer(st, cfg.FollowBufferSize)

	hub := websocket.NewHub()
	go hub.Run()
	websocket.SetAllowedOrigins([]string{cfg.FrontendURL, "http://localhost:5173", "http://localhost:8080"})

	bridgeCtx, cancelBridge := context.WithCancel(context.Background())
	go websocket.Bridge(bridgeCtx, hub, st.Notifier())

	otlpSrv := grpcserver.NewServer(cfg.GRPCAddr, log.With("component", "otlp-grpc"))
	otlpreceiver.Register(otlpSrv, adapter)

	querySrv := grpcserver.NewServer(cfg.QueryAddr, log.With("component", "query-grpc"), queryrpc.CodecOption())
	queryrpc.Register(querySrv, svc)

	httpSrv := httpapi.NewServer(cfg.HTTPAddr, adapter, hub, cfg.FrontendURL)

	errCh := make(chan error, 3)
	go func() { errCh <- otlpSrv.Start() }()
	go func() { errCh <- querySrv.Start() }()
	go func() { errCh <- httpSrv.ListenAndServe() }()

	log.Info("otelscope starting",
		"grpc_addr", cfg.GRPCAddr,
		"http_addr", cfg.HTTPAddr,
		"query_addr", cfg.QueryAddr,
		"max_items", cfg.MaxItems,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "error", err)
		}
	}

	cancelBridge()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("error shutting down OTLP HTTP server", "error", err)
	}
	otlpSrv.Stop(shutdownCtx)
	querySrv.Stop(shutdownCtx)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
