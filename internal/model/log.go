package model

import "github.com/otelscope/otelscope/internal/attr"

// LogRecord is a single log record (§3 "Log record").
type LogRecord struct {
	TimestampNS        int64
	SeverityText       string
	SeverityNumber     int32
	Body               string
	ServiceName        string
	ResourceAttributes attr.Map
	LogAttributes      attr.Map
}
