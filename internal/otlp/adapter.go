package otlp

import (
	"context"

	"github.com/otelscope/otelscope/internal/store"
	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
)

// Adapter bridges decoded OTLP export requests into the in-memory store,
// shared identically by the HTTP and gRPC receivers (§C6 "OTLP Ingestion
// Adapter").
type Adapter struct {
	Store *store.Store
}

// NewAdapter returns an Adapter writing into s.
func NewAdapter(s *store.Store) *Adapter {
	return &Adapter{Store: s}
}

// IngestTraces converts and inserts a traces export request.
func (a *Adapter) IngestTraces(_ context.Context, req *coltracepb.ExportTraceServiceRequest) error {
	a.Store.InsertSpans(ConvertTraces(req))
	return nil
}

// IngestLogs converts and inserts a logs export request.
func (a *Adapter) IngestLogs(_ context.Context, req *collogspb.ExportLogsServiceRequest) error {
	a.Store.InsertLogs(ConvertLogs(req))
	return nil
}

// IngestMetrics converts and inserts a metrics export request.
func (a *Adapter) IngestMetrics(_ context.Context, req *colmetricspb.ExportMetricsServiceRequest) error {
	a.Store.InsertMetrics(ConvertMetrics(req))
	return nil
}
