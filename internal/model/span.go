// Package model defines the row shapes of the three telemetry tables
// (§3 of the specification): trace groups/spans, log records, and metric
// data points.
package model

import "github.com/otelscope/otelscope/internal/attr"

// Span is a single span belonging to a trace group.
type Span struct {
	SpanID             [8]byte
	ParentSpanID       [8]byte
	ServiceName        string
	SpanName           string
	SpanKind           SpanKind
	StatusCode         StatusCode
	StartTimeNS        int64
	EndTimeNS          int64
	ResourceAttributes attr.Map
	SpanAttributes     attr.Map
}

// DurationNS is the span's duration, always nanoseconds (§3).
func (s Span) DurationNS() int64 {
	return s.EndTimeNS - s.StartTimeNS
}

// TraceGroup is the set of all spans sharing one trace identifier,
// versioned as a unit (§3 "Trace group").
type TraceGroup struct {
	TraceID      [16]byte
	Spans        []Span
	Version      uint64
	FirstSeenNS  int64
	LastUpdateNS int64
}

// Clone returns a deep-enough copy for a snapshot read: the spans slice is
// copied so a later append to the live group never mutates a reader's view.
func (g *TraceGroup) Clone() TraceGroup {
	spans := make([]Span, len(g.Spans))
	copy(spans, g.Spans)
	return TraceGroup{
		TraceID:      g.TraceID,
		Spans:        spans,
		Version:      g.Version,
		FirstSeenNS:  g.FirstSeenNS,
		LastUpdateNS: g.LastUpdateNS,
	}
}
