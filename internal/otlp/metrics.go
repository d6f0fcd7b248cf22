package otlp

import (
	"github.com/otelscope/otelscope/internal/attr"
	"github.com/otelscope/otelscope/internal/model"
	colmetricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
)

// ConvertMetrics flattens a decoded OTLP export request to one
// model.MetricDataPoint per data point across all five metric shapes
// (§3 "Metric data point", §C6).
func ConvertMetrics(req *colmetricspb.ExportMetricsServiceRequest) []model.MetricDataPoint {
	var points []model.MetricDataPoint

	for _, rm := range req.GetResourceMetrics() {
		serviceName := extractServiceName(rm.GetResource().GetAttributes())
		resourceAttrs := attr.MapFromOTLPKeyValues(rm.GetResource().GetAttributes())

		for _, sm := range rm.GetScopeMetrics() {
			for _, m := range sm.GetMetrics() {
				base := model.MetricDataPoint{
					ServiceName:        serviceName,
					MetricName:         m.GetName(),
					ResourceAttributes: resourceAttrs,
				}

				switch data := m.Data.(type) {
				case *metricspb.Metric_Gauge:
					points = append(points, convertGauge(base, data.Gauge)...)
				case *metricspb.Metric_Sum:
					points = append(points, convertSum(base, data.Sum)...)
				case *metricspb.Metric_Histogram:
					points = append(points, convertHistogram(base, data.Histogram)...)
				case *metricspb.Metric_ExponentialHistogram:
					points = append(points, convertExpHistogram(base, data.ExponentialHistogram)...)
				case *metricspb.Metric_Summary:
					points = append(points, convertSummary(base, data.Summary)...)
				}
			}
		}
	}

	return points
}

func convertGauge(base model.MetricDataPoint, gauge *metricspb.Gauge) []model.MetricDataPoint {
	var points []model.MetricDataPoint
	for _, dp := range gauge.GetDataPoints() {
		p := base
		p.TimestampNS = int64(dp.GetTimeUnixNano())
		p.DataPointAttributes = attr.MapFromOTLPKeyValues(dp.GetAttributes())
		p.MetricType = model.MetricGauge
		p.Value = numberValue(dp)
		p.HasValue = true
		points = append(points, p)
	}
	return points
}

func convertSum(base model.MetricDataPoint, sum *metricspb.Sum) []model.MetricDataPoint {
	var points []model.MetricDataPoint
	for _, dp := range sum.GetDataPoints() {
		p := base
		p.TimestampNS = int64(dp.GetTimeUnixNano())
		p.DataPointAttributes = attr.MapFromOTLPKeyValues(dp.GetAttributes())
		p.MetricType = model.MetricSum
		p.Value = numberValue(dp)
		p.HasValue = true
		points = append(points, p)
	}
	return points
}

func convertHistogram(base model.MetricDataPoint, hist *metricspb.Histogram) []model.MetricDataPoint {
	var points []model.MetricDataPoint
	for _, dp := range hist.GetDataPoints() {
		p := base
		p.TimestampNS = int64(dp.GetTimeUnixNano())
		p.DataPointAttributes = attr.MapFromOTLPKeyValues(dp.GetAttributes())
		p.MetricType = model.MetricHistogram
		p.Count = dp.GetCount()
		p.HasCount = true
		if dp.Sum != nil {
			p.Sum = dp.GetSum()
			p.HasSum = true
		}
		points = append(points, p)
	}
	return points
}

func convertExpHistogram(base model.MetricDataPoint, hist *metricspb.ExponentialHistogram) []model.MetricDataPoint {
	var points []model.MetricDataPoint
	for _, dp := range hist.GetDataPoints() {
		p := base
		p.TimestampNS = int64(dp.GetTimeUnixNano())
		p.DataPointAttributes = attr.MapFromOTLPKeyValues(dp.GetAttributes())
		p.MetricType = model.MetricExponentialHistogram
		p.Count = dp.GetCount()
		p.HasCount = true
		if dp.Sum != nil {
			p.Sum = dp.GetSum()
			p.HasSum = true
		}
		points = append(points, p)
	}
	return points
}

func convertSummary(base model.MetricDataPoint, summary *metricspb.Summary) []model.MetricDataPoint {
	var points []model.MetricDataPoint
	for _, dp := range summary.GetDataPoints() {
		p := base
		p.TimestampNS = int64(dp.GetTimeUnixNano())
		p.MetricType = model.MetricSummary
		p.Count = dp.GetCount()
		p.HasCount = true
		p.Sum = dp.GetSum()
		p.HasSum = true
		points = append(points, p)
	}
	return points
}

// numberValue extracts the numeric value from a NumberDataPoint, grounded
// on the teacher's getNumberValue.
func numberValue(dp *metricspb.NumberDataPoint) float64 {
	switch v := dp.Value.(type) {
	case *metricspb.NumberDataPoint_AsDouble:
		return v.AsDouble
	case *metricspb.NumberDataPoint_AsInt:
		return float64(v.AsInt)
	default:
		return 0
	}
}
