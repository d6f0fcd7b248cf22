package otlp

import (
	"github.com/otelscope/otelscope/internal/attr"
	"github.com/otelscope/otelscope/internal/model"
	"github.com/otelscope/otelscope/internal/store"
	"github.com/otelscope/otelscope/internal/timeutil"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// ConvertTraces flattens an OTLP export request into store.SpanBatch
// entries, one per span, each tagged with its owning trace id so
// store.InsertSpans can group them (§4.1, §4.5).
func ConvertTraces(req *coltracepb.ExportTraceServiceRequest) []store.SpanBatch {
	var batch []store.SpanBatch

	for _, rs := range req.GetResourceSpans() {
		serviceName := extractServiceName(rs.GetResource().GetAttributes())
		resourceAttrs := attr.MapFromOTLPKeyValues(rs.GetResource().GetAttributes())

		for _, ss := range rs.GetScopeSpans() {
			for _, s := range ss.GetSpans() {
				span := model.Span{
					SpanID:             timeutil.SpanIDFromBytes(s.GetSpanId()),
					ParentSpanID:       timeutil.SpanIDFromBytes(s.GetParentSpanId()),
					ServiceName:        serviceName,
					SpanName:           s.GetName(),
					SpanKind:           model.SpanKindFromOTLP(s.GetKind()),
					StatusCode:         model.StatusCodeFromOTLP(s.GetStatus().GetCode()),
					StartTimeNS:        int64(s.GetStartTimeUnixNano()),
					EndTimeNS:          int64(s.GetEndTimeUnixNano()),
					ResourceAttributes: resourceAttrs,
					SpanAttributes:     attr.MapFromOTLPKeyValues(s.GetAttributes()),
				}
				batch = append(batch, store.SpanBatch{
					TraceID: timeutil.TraceIDFromBytes(s.GetTraceId()),
					Span:    span,
				})
			}
		}
	}

	return batch
}

func extractServiceName(attrs []*commonpb.KeyValue) string {
	for _, kv := range attrs {
		if kv.GetKey() == "service.name" {
			if v := attr.FromOTLPAnyValue(kv.GetValue()); !v.IsNull() {
				return v.String()
			}
		}
	}
	return "unknown"
}

// spanKindToString and statusCodeToString are kept as small wrappers
// around internal/model's conversions for this package's tests, which
// still use the teacher's naming.
func spanKindToString(kind tracepb.Span_SpanKind) string {
	return string(model.SpanKindFromOTLP(kind))
}

func statusCodeToString(code tracepb.Status_StatusCode) string {
	return string(model.StatusCodeFromOTLP(code))
}
