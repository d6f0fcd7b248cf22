// Package otlpreceiver registers the real OTLP collector gRPC services
// (trace, logs, metrics) on a grpcserver.Server, bridging every Export
// call to otlp.Adapter exactly like the HTTP OTLP endpoints do.
package otlpreceiver

import (
	"context"

	"github.com/otelscope/otelscope/internal/grpcserver"
	"github.com/otelscope/otelscope/internal/otlp"
	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
)

// traceServer, logsServer, and metricsServer each implement one OTLP
// collector service interface over a shared otlp.Adapter; Go disallows
// one type from implementing Export three different ways, so they're
// split rather than combined into a single Receiver.
type traceServer struct {
	coltracepb.UnimplementedTraceServiceServer
	adapter *otlp.Adapter
}

type logsServer struct {
	collogspb.UnimplementedLogsServiceServer
	adapter *otlp.Adapter
}

type metricsServer struct {
	colmetricspb.UnimplementedMetricsServiceServer
	adapter *otlp.Adapter
}

func (s *traceServer) Export(ctx context.Context, req *coltracepb.ExportTraceServiceRequest) (*coltracepb.ExportTraceServiceResponse, error) {
	if err := s.adapter.IngestTraces(ctx, req); err != nil {
		return nil, err
	}
	return &coltracepb.ExportTraceServiceResponse{}, nil
}

func (s *logsServer) Export(ctx context.Context, req *collogspb.ExportLogsServiceRequest) (*collogspb.ExportLogsServiceResponse, error) {
	if err := s.adapter.IngestLogs(ctx, req); err != nil {
		return nil, err
	}
	return &collogspb.ExportLogsServiceResponse{}, nil
}

func (s *metricsServer) Export(ctx context.Context, req *colmetricspb.ExportMetricsServiceRequest) (*colmetricspb.ExportMetricsServiceResponse, error) {
	if err := s.adapter.IngestMetrics(ctx, req); err != nil {
		return nil, err
	}
	return &colmetricspb.ExportMetricsServiceResponse{}, nil
}

// Register wires all three OTLP services onto srv, backed by adapter.
func Register(srv *grpcserver.Server, adapter *otlp.Adapter) {
	srv.RegisterService(&coltracepb.TraceService_ServiceDesc, &traceServer{adapter: adapter})
	srv.RegisterService(&collogspb.LogsService_ServiceDesc, &logsServer{adapter: adapter})
	srv.RegisterService(&colmetricspb.MetricsService_ServiceDesc, &metricsServer{adapter: adapter})
}
