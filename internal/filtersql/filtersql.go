// Package filtersql lowers a flat set of filter flags into a canonical SQL
// statement accepted by internal/sqlengine, so lowered filters run through
// the same parser and engine as raw SQL (§4.3).
package filtersql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/otelscope/otelscope/internal/timeutil"
)

// Flags is the flat filter set that Lower turns into SQL (§4.3). Zero-value
// fields are omitted from the lowered SQL. Neither the CLI `query`
// subcommand nor the query RPC builds a Flags value: both take SQL text only.
type Flags struct {
	Service    string
	Attributes map[string]string
	Severity   string
	TraceID    string
	MetricName string
	Since      string
	Until      string
	Limit      int
}

// Lower renders Flags into a SELECT * FROM <table> [WHERE ...] [LIMIT n]
// statement, concatenating AND clauses in a fixed order (service →
// attributes → severity → trace id → metric name → time range → limit) so
// the output is reproducible given the same Flags value (Testable
// Property 5).
func Lower(table string, f Flags) (string, error) {
	var clauses []string

	if f.Service != "" {
		clauses = append(clauses, fmt.Sprintf("service_name = %s", quoteString(f.Service)))
	}

	if len(f.Attributes) > 0 {
		keys := make([]string, 0, len(f.Attributes))
		for k := range f.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			clauses = append(clauses, fmt.Sprintf("attributes[%s] = %s", quoteString(k), quoteString(f.Attributes[k])))
		}
	}

	if f.Severity != "" {
		clauses = append(clauses, fmt.Sprintf("severity >= %s", quoteString(f.Severity)))
	}

	if f.TraceID != "" {
		clauses = append(clauses, fmt.Sprintf("trace_id = %s", quoteString(strings.ToLower(f.TraceID))))
	}

	if f.MetricName != "" {
		clauses = append(clauses, fmt.Sprintf("metric_name = %s", quoteString(f.MetricName)))
	}

	timeColumn, err := timeColumnFor(table)
	if err != nil {
		return "", err
	}

	if f.Since != "" {
		ns, err := timeutil.ParseTimeSpec(f.Since, timeutil.NowNS())
		if err != nil {
			return "", fmt.Errorf("filtersql: invalid --since value %q: %w", f.Since, err)
		}
		clauses = append(clauses, fmt.Sprintf("%s >= %d", timeColumn, ns))
	}

	if f.Until != "" {
		ns, err := timeutil.ParseTimeSpec(f.Until, timeutil.NowNS())
		if err != nil {
			return "", fmt.Errorf("filtersql: invalid --until value %q: %w", f.Until, err)
		}
		clauses = append(clauses, fmt.Sprintf("%s <= %d", timeColumn, ns))
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)
	if len(clauses) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}
	if f.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", f.Limit)
	}
	return sb.String(), nil
}

func timeColumnFor(table string) (string, error) {
	switch table {
	case "traces":
		return "start_time", nil
	case "logs", "metrics":
		return "timestamp", nil
	default:
		return "", fmt.Errorf("filtersql: unknown table %q", table)
	}
}

// quoteString renders a SQL string literal, doubling embedded single
// quotes per the dialect's escaping rule (internal/sqlengine/lexer mirrors
// this on the way back in).
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
