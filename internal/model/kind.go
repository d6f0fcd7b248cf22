package model

import tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

// SpanKind mirrors the OTLP span kind enumeration, rendered as the upper
// case strings the SQL `kind` column and CLI output expect.
type SpanKind string

const (
	SpanKindUnspecified SpanKind = "UNSPECIFIED"
	SpanKindInternal    SpanKind = "INTERNAL"
	SpanKindServer      SpanKind = "SERVER"
	SpanKindClient      SpanKind = "CLIENT"
	SpanKindProducer    SpanKind = "PRODUCER"
	SpanKindConsumer    SpanKind = "CONSUMER"
)

// SpanKindFromOTLP converts a decoded OTLP span kind, grounded on the
// teacher's spanKindToString.
func SpanKindFromOTLP(kind tracepb.Span_SpanKind) SpanKind {
	switch kind {
	case tracepb.Span_SPAN_KIND_INTERNAL:
		return SpanKindInternal
	case tracepb.Span_SPAN_KIND_SERVER:
		return SpanKindServer
	case tracepb.Span_SPAN_KIND_CLIENT:
		return SpanKindClient
	case tracepb.Span_SPAN_KIND_PRODUCER:
		return SpanKindProducer
	case tracepb.Span_SPAN_KIND_CONSUMER:
		return SpanKindConsumer
	default:
		return SpanKindUnspecified
	}
}

// StatusCode mirrors the OTLP span status code enumeration.
type StatusCode string

const (
	StatusUnset StatusCode = "UNSET"
	StatusOK    StatusCode = "OK"
	StatusError StatusCode = "ERROR"
)

// StatusCodeFromOTLP converts a decoded OTLP status code, grounded on the
// teacher's statusCodeToString.
func StatusCodeFromOTLP(code tracepb.Status_StatusCode) StatusCode {
	switch code {
	case tracepb.Status_STATUS_CODE_OK:
		return StatusOK
	case tracepb.Status_STATUS_CODE_ERROR:
		return StatusError
	default:
		return StatusUnset
	}
}
