// Package config loads the collector's runtime settings from environment
// variables, the way the teacher's config package does for its DuckDB
// store and HTTP ports, generalized to the three listeners and the
// in-memory store's bounds.
package config

import (
	"os"
	"strconv"
)

// Config holds every setting the serve command needs.
type Config struct {
	// GRPCAddr is the OTLP/gRPC collector listener (traces/logs/metrics).
	GRPCAddr string
	// HTTPAddr is the OTLP/HTTP listener, plus /health and /ws.
	HTTPAddr string
	// QueryAddr is the query gRPC listener the CLI's one-shot subcommand dials.
	QueryAddr string

	// MaxItems bounds each table's FIFO capacity.
	MaxItems int
	// FollowBufferSize bounds a Follow subscription's backlog before it is
	// dropped as lagged.
	FollowBufferSize int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is "json" or "text".
	LogFormat string

	// FrontendURL configures the /ws CORS/origin allowlist for local
	// frontend development.
	FrontendURL string
}

// Load reads Config from the environment, falling back to defaults
// suited to running otelscope standalone on a single machine.
func Load() *Config {
	return &Config{
		GRPCAddr:         getEnv("OTELSCOPE_GRPC_ADDR", ":4317"),
		HTTPAddr:         getEnv("OTELSCOPE_HTTP_ADDR", ":4318"),
		QueryAddr:        getEnv("OTELSCOPE_QUERY_ADDR", ":4319"),
		MaxItems:         getEnvInt("OTELSCOPE_MAX_ITEMS", 1000),
		FollowBufferSize: getEnvInt("OTELSCOPE_FOLLOW_BUFFER_SIZE", 64),
		LogLevel:         getEnv("OTELSCOPE_LOG_LEVEL", "info"),
		LogFormat:        getEnv("OTELSCOPE_LOG_FORMAT", "json"),
		FrontendURL:      getEnv("OTELSCOPE_FRONTEND_URL", "http://localhost:5173"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
