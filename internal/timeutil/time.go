// Package timeutil provides the nanosecond-epoch time helpers and hex id
// encoding shared by the store, the SQL evaluator, and filter lowering.
package timeutil

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NowNS returns the current time as nanoseconds since the Unix epoch.
func NowNS() int64 {
	return time.Now().UnixNano()
}

// ParseTimeSpec accepts either a relative duration literal (Ns, Nm, Nh, Nd)
// or an RFC-3339 instant and returns the corresponding nanosecond epoch
// time. Relative literals are resolved against now.
func ParseTimeSpec(s string, now int64) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time spec")
	}

	if d, ok := parseRelative(s); ok {
		return now - d.Nanoseconds(), nil
	}

	return ParseRFC3339(s)
}

func parseRelative(s string) (time.Duration, bool) {
	if len(s) < 2 {
		return 0, false
	}
	unit := s[len(s)-1]
	numPart := s[:len(s)-1]
	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	switch unit {
	case 's':
		return time.Duration(n) * time.Second, true
	case 'm':
		return time.Duration(n) * time.Minute, true
	case 'h':
		return time.Duration(n) * time.Hour, true
	case 'd':
		return time.Duration(n) * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// FormatRFC3339 renders a nanosecond epoch time as an RFC-3339 instant
// with nanosecond precision.
func FormatRFC3339(ns int64) string {
	return time.Unix(0, ns).UTC().Format(time.RFC3339Nano)
}

// ParseRFC3339 parses an RFC-3339 instant into a nanosecond epoch time.
func ParseRFC3339(s string) (int64, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UnixNano(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t.UnixNano(), nil
}

// EncodeTraceID renders a 16-byte trace id as lowercase hex.
func EncodeTraceID(id [16]byte) string {
	return hex.EncodeToString(id[:])
}

// EncodeSpanID renders an 8-byte span id as lowercase hex.
func EncodeSpanID(id [8]byte) string {
	return hex.EncodeToString(id[:])
}

// DecodeTraceID parses a 32-character hex string into a trace id.
func DecodeTraceID(s string) ([16]byte, error) {
	var id [16]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("decoding trace id %q: %w", s, err)
	}
	if len(b) != 16 {
		return id, fmt.Errorf("trace id %q: want 16 bytes, got %d", s, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// DecodeSpanID parses a 16-character hex string into a span id.
func DecodeSpanID(s string) ([8]byte, error) {
	var id [8]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("decoding span id %q: %w", s, err)
	}
	if len(b) != 8 {
		return id, fmt.Errorf("span id %q: want 8 bytes, got %d", s, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// TraceIDFromBytes pads or truncates an arbitrary-length byte slice (as
// delivered by OTLP, which does not guarantee length) into a fixed 16-byte
// trace id.
func TraceIDFromBytes(b []byte) [16]byte {
	var id [16]byte
	copy(id[:], b)
	return id
}

// SpanIDFromBytes pads or truncates an arbitrary-length byte slice into a
// fixed 8-byte span id.
func SpanIDFromBytes(b []byte) [8]byte {
	var id [8]byte
	copy(id[:], b)
	return id
}
