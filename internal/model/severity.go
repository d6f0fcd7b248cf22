package model

import "strings"

// SeverityNumber is the OTLP logs severity-number scale (1-24): four
// numbered levels (N1 least, N4 most severe) within each of six named
// bands. Open Question (b) notes the spec references this scale without
// restating it; these constants are the OTLP specification's numbers.
type SeverityNumber int32

const (
	SeverityUnspecified SeverityNumber = 0

	SeverityTrace  SeverityNumber = 1
	SeverityTrace4 SeverityNumber = 4

	SeverityDebug  SeverityNumber = 5
	SeverityDebug4 SeverityNumber = 8

	SeverityInfo  SeverityNumber = 9
	SeverityInfo4 SeverityNumber = 12

	SeverityWarn  SeverityNumber = 13
	SeverityWarn4 SeverityNumber = 16

	SeverityError  SeverityNumber = 17
	SeverityError4 SeverityNumber = 20

	SeverityFatal  SeverityNumber = 21
	SeverityFatal4 SeverityNumber = 24
)

// ParseSeverityName maps a severity band name (case-insensitive) to the
// first numeric value in that band, used by `severity >= 'ERROR'` style
// comparisons (§4.2, S4).
func ParseSeverityName(s string) (SeverityNumber, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return SeverityTrace, true
	case "DEBUG":
		return SeverityDebug, true
	case "INFO":
		return SeverityInfo, true
	case "WARN", "WARNING":
		return SeverityWarn, true
	case "ERROR":
		return SeverityError, true
	case "FATAL":
		return SeverityFatal, true
	default:
		return 0, false
	}
}

// Name returns the band name for a severity number, grounded on the
// teacher's severityNumberToText (extended to the full OTLP band set).
func (s SeverityNumber) Name() string {
	switch {
	case s >= SeverityFatal:
		return "FATAL"
	case s >= SeverityError:
		return "ERROR"
	case s >= SeverityWarn:
		return "WARN"
	case s >= SeverityInfo:
		return "INFO"
	case s >= SeverityDebug:
		return "DEBUG"
	case s >= SeverityTrace:
		return "TRACE"
	default:
		return ""
	}
}
