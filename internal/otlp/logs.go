package otlp

import (
	"github.com/otelscope/otelscope/internal/attr"
	"github.com/otelscope/otelscope/internal/model"
	"github.com/otelscope/otelscope/internal/timeutil"
	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
)

// ConvertLogs converts a decoded OTLP export request to log records, filling
// in a best-effort timestamp when the record's own TimeUnixNano is zero
// (§3 "Log record", §C6).
func ConvertLogs(req *collogspb.ExportLogsServiceRequest) []model.LogRecord {
	var logs []model.LogRecord

	for _, rl := range req.GetResourceLogs() {
		serviceName := extractServiceName(rl.GetResource().GetAttributes())
		resourceAttrs := attr.MapFromOTLPKeyValues(rl.GetResource().GetAttributes())

		for _, sl := range rl.GetScopeLogs() {
			for _, lr := range sl.GetLogRecords() {
				logAttrs := attr.MapFromOTLPKeyValues(lr.GetAttributes())

				ts := resolveLogTimestamp(lr.GetTimeUnixNano(), lr.GetObservedTimeUnixNano(), logAttrs)

				rec := model.LogRecord{
					TimestampNS:        ts,
					SeverityText:       lr.GetSeverityText(),
					SeverityNumber:     int32(lr.GetSeverityNumber()),
					ServiceName:        serviceName,
					Body:               attr.FromOTLPAnyValue(lr.GetBody()).String(),
					ResourceAttributes: resourceAttrs,
					LogAttributes:      logAttrs,
				}

				if rec.SeverityText == "" {
					rec.SeverityText = model.SeverityNumber(rec.SeverityNumber).Name()
				}

				if rec.Body == "" {
					if name, ok := logAttrs.Get("event.name"); ok {
						rec.Body = name.String()
					}
				}

				logs = append(logs, rec)
			}
		}
	}

	return logs
}

// resolveLogTimestamp mirrors the teacher's fallback chain: the record's own
// timestamp, then an "event.timestamp" attribute (set by OpenTelemetry
// tracing-crate bridges that don't populate TimeUnixNano), then the
// observed timestamp, grounded on the teacher's timestamp resolution in
// ConvertLogs.
func resolveLogTimestamp(timeUnixNano, observedUnixNano uint64, logAttrs attr.Map) int64 {
	if timeUnixNano != 0 {
		return int64(timeUnixNano)
	}
	if v, ok := logAttrs.Get("event.timestamp"); ok {
		if s, ok := v.AsString(); ok {
			if ns, err := timeutil.ParseRFC3339(s); err == nil {
				return ns
			}
		}
	}
	if observedUnixNano != 0 {
		return int64(observedUnixNano)
	}
	return 0
}
