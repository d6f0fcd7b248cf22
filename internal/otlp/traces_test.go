package otlp

import (
	"testing"
	"time"

	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

func TestConvertTraces(t *testing.T) {
	traceID := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	spanID := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	parentSpanID := []byte{8, 7, 6, 5, 4, 3, 2, 1}
	startTime := uint64(time.Now().UnixNano())
	endTime := startTime + uint64(100*time.Millisecond)

	req := &coltracepb.ExportTraceServiceRequest{
		ResourceSpans: []*tracepb.ResourceSpans{
			{
				Resource: &resourcepb.Resource{
					Attributes: []*commonpb.KeyValue{
						{Key: "service.name", Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: "test-service"}}},
					},
				},
				ScopeSpans: []*tracepb.ScopeSpans{
					{
						Scope: &commonpb.InstrumentationScope{
							Name:    "test-scope",
							Version: "1.0.0",
						},
						Spans: []*tracepb.Span{
							{
								TraceId:           traceID,
								SpanId:            spanID,
								ParentSpanId:      parentSpanID,
								Name:              "test-span",
								Kind:              tracepb.Span_SPAN_KIND_SERVER,
								StartTimeUnixNano: startTime,
								EndTimeUnixNano:   endTime,
								Status: &tracepb.Status{
									Code:    tracepb.Status_STATUS_CODE_OK,
									Message: "success",
								},
								Attributes: []*commonpb.KeyValue{
									{Key: "http.method", Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: "GET"}}},
								},
							},
						},
					},
				},
			},
		},
	}

	batch := ConvertTraces(req)

	if len(batch) != 1 {
		t.Fatalf("got %d spans, want 1", len(batch))
	}

	b := batch[0]
	if b.TraceID != [16]byte(traceID) {
		t.Errorf("TraceID = %x, want %x", b.TraceID, traceID)
	}
	span := b.Span
	if span.ServiceName != "test-service" {
		t.Errorf("ServiceName = %q, want %q", span.ServiceName, "test-service")
	}
	if span.SpanName != "test-span" {
		t.Errorf("SpanName = %q, want %q", span.SpanName, "test-span")
	}
	if span.SpanKind != "SERVER" {
		t.Errorf("SpanKind = %q, want %q", span.SpanKind, "SERVER")
	}
	if span.StatusCode != "OK" {
		t.Errorf("StatusCode = %q, want %q", span.StatusCode, "OK")
	}
	if v, ok := span.SpanAttributes.Get("http.method"); !ok || v.String() != "GET" {
		t.Errorf("SpanAttributes[http.method] = %v, want %q", v, "GET")
	}
	expectedDuration := int64(100 * time.Millisecond)
	if span.DurationNS() != expectedDuration {
		t.Errorf("DurationNS() = %d, want %d", span.DurationNS(), expectedDuration)
	}
}

func TestConvertTraces_EmptyRequest(t *testing.T) {
	req := &coltracepb.ExportTraceServiceRequest{}
	batch := ConvertTraces(req)

	if len(batch) != 0 {
		t.Errorf("got %d spans, want 0 for empty request", len(batch))
	}
}

func TestExtractServiceName(t *testing.T) {
	tests := []struct {
		name  string
		attrs []*commonpb.KeyValue
		want  string
	}{
		{
			name: "with service.name",
			attrs: []*commonpb.KeyValue{
				{Key: "service.name", Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: "my-service"}}},
			},
			want: "my-service",
		},
		{
			name:  "without service.name",
			attrs: []*commonpb.KeyValue{},
			want:  "unknown",
		},
		{
			name:  "nil attrs",
			attrs: nil,
			want:  "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractServiceName(tt.attrs)
			if got != tt.want {
				t.Errorf("extractServiceName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpanKindToString(t *testing.T) {
	tests := []struct {
		kind tracepb.Span_SpanKind
		want string
	}{
		{tracepb.Span_SPAN_KIND_INTERNAL, "INTERNAL"},
		{tracepb.Span_SPAN_KIND_SERVER, "SERVER"},
		{tracepb.Span_SPAN_KIND_CLIENT, "CLIENT"},
		{tracepb.Span_SPAN_KIND_PRODUCER, "PRODUCER"},
		{tracepb.Span_SPAN_KIND_CONSUMER, "CONSUMER"},
		{tracepb.Span_SPAN_KIND_UNSPECIFIED, "UNSPECIFIED"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := spanKindToString(tt.kind)
			if got != tt.want {
				t.Errorf("spanKindToString(%v) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestStatusCodeToString(t *testing.T) {
	tests := []struct {
		code tracepb.Status_StatusCode
		want string
	}{
		{tracepb.Status_STATUS_CODE_OK, "OK"},
		{tracepb.Status_STATUS_CODE_ERROR, "ERROR"},
		{tracepb.Status_STATUS_CODE_UNSET, "UNSET"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := statusCodeToString(tt.code)
			if got != tt.want {
				t.Errorf("statusCodeToString(%v) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}
