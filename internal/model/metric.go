package model

import "github.com/otelscope/otelscope/internal/attr"

// MetricType is one of the five OTLP point shapes (§3).
type MetricType string

const (
	MetricGauge                MetricType = "Gauge"
	MetricSum                  MetricType = "Sum"
	MetricHistogram            MetricType = "Histogram"
	MetricExponentialHistogram MetricType = "ExponentialHistogram"
	MetricSummary              MetricType = "Summary"
)

// MetricDataPoint is a flattened row combining the enclosing metric's
// identity with one data point (§3 "Metric data point").
type MetricDataPoint struct {
	TimestampNS        int64
	MetricName         string
	MetricType         MetricType
	Value              float64
	HasValue           bool
	Count              uint64
	HasCount           bool
	Sum                float64
	HasSum             bool
	ServiceName        string
	ResourceAttributes attr.Map
	DataPointAttributes attr.Map
}
