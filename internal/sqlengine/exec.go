package sqlengine

import (
	"context"

	"github.com/otelscope/otelscope/internal/attr"
	"github.com/otelscope/otelscope/internal/model"
	"github.com/otelscope/otelscope/internal/store"
	"github.com/otelscope/otelscope/internal/timeutil"
)

// SnapshotSource is the read side of internal/store that the evaluator
// needs: one consistent, point-in-time copy per table (§4.2 step 2, "pin a
// snapshot before scanning"). *store.Store satisfies this directly.
type SnapshotSource interface {
	SnapshotTraces() []store.TraceGroupView
	SnapshotLogs() []model.LogRecord
	SnapshotMetrics() []model.MetricDataPoint
}

// Result is a statement's output: one row per matched source row (a span,
// log record, or metric data point), projected to the requested columns.
type Result struct {
	Table   string
	Columns []string
	Rows    [][]attr.Value
}

// Execute runs sql against src end to end: parse, pin a snapshot, scan,
// filter, project, sort, limit (§4.2). It never partially applies a
// statement — a parse or validation error returns before any row is
// touched.
func Execute(ctx context.Context, src SnapshotSource, sql string) (*Result, error) {
	stmt, err := Parse(sql)
	if err != nil {
		return nil, err
	}
	return ExecuteStatement(ctx, src, stmt)
}

// ExecuteStatement runs an already-parsed statement. internal/query's Follow
// uses it for the initial snapshot frame; its delta frames go through
// ProjectFiltered instead.
func ExecuteStatement(ctx context.Context, src SnapshotSource, stmt *Statement) (*Result, error) {
	schema, ok := Tables[stmt.Table]
	if !ok {
		return nil, validationErrorf("unknown table %q", stmt.Table)
	}

	columns := stmt.Columns
	if stmt.Star {
		columns = schema.Names()
	}
	for _, c := range columns {
		if _, ok := schema.ColumnDefByName(c); !ok {
			return nil, validationErrorf("unknown column %q in table %q", c, schema.Name)
		}
	}

	var pc *EvalCtx
	if stmt.Where != nil {
		var err error
		pc, err = Prepare(stmt.Where, schema)
		if err != nil {
			return nil, err
		}
	}

	rows, err := scanRows(ctx, src, stmt.Table)
	if err != nil {
		return nil, err
	}

	matched := make([]Row, 0, len(rows))
	for _, r := range rows {
		if stmt.Limit != nil && len(stmt.OrderBy) == 0 && len(matched) >= *stmt.Limit {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if stmt.Where == nil || Eval(pc, stmt.Where, r) {
			matched = append(matched, r)
		}
	}

	if err := sortRows(matched, stmt.OrderBy, schema); err != nil {
		return nil, err
	}

	if stmt.Limit != nil && *stmt.Limit < len(matched) {
		matched = matched[:*stmt.Limit]
	}

	result := &Result{Table: stmt.Table, Columns: columns}
	result.Rows = make([][]attr.Value, len(matched))
	for i, r := range matched {
		row := make([]attr.Value, len(columns))
		for j, c := range columns {
			v, _ := r.Column(c)
			row[j] = v
		}
		result.Rows[i] = row
	}
	return result, nil
}

// NewTraceRow, NewLogRow, and NewMetricRow let internal/query's Follow
// build rows from freshly diffed slices of the store's snapshot types
// without re-running a full scan, reusing the same Row adapters Execute
// uses for its initial scan.
func NewTraceRow(group store.TraceGroupView, span model.Span) Row {
	return traceRow{group: group, span: span}
}

func NewLogRow(rec model.LogRecord) Row {
	return logRow{rec: rec}
}

func NewMetricRow(point model.MetricDataPoint) Row {
	return metricRow{point: point}
}

// ResolveColumns expands a statement's projection list, resolving `SELECT
// *` to the table's declared columns in order, and validates every name
// against schema.
func ResolveColumns(stmt *Statement) ([]string, error) {
	schema, ok := Tables[stmt.Table]
	if !ok {
		return nil, validationErrorf("unknown table %q", stmt.Table)
	}
	if stmt.Star {
		return schema.Names(), nil
	}
	for _, c := range stmt.Columns {
		if _, ok := schema.ColumnDefByName(c); !ok {
			return nil, validationErrorf("unknown column %q in table %q", c, schema.Name)
		}
	}
	return stmt.Columns, nil
}

// ProjectFiltered applies where (already bound by pc, which may be nil
// when where is nil) to rows and projects the surviving rows to columns,
// without sorting or limiting — used for Follow's incremental delta
// frames, which are always emitted in append order.
func ProjectFiltered(table string, columns []string, rows []Row, where Expr, pc *EvalCtx) *Result {
	result := &Result{Table: table, Columns: columns}
	for _, r := range rows {
		if where != nil && !Eval(pc, where, r) {
			continue
		}
		row := make([]attr.Value, len(columns))
		for j, c := range columns {
			v, _ := r.Column(c)
			row[j] = v
		}
		result.Rows = append(result.Rows, row)
	}
	return result
}

func scanRows(_ context.Context, src SnapshotSource, table string) ([]Row, error) {
	switch table {
	case "traces":
		groups := src.SnapshotTraces()
		var rows []Row
		for _, g := range groups {
			for _, sp := range g.Spans {
				rows = append(rows, traceRow{group: g, span: sp})
			}
		}
		return rows, nil
	case "logs":
		recs := src.SnapshotLogs()
		rows := make([]Row, len(recs))
		for i, r := range recs {
			rows[i] = logRow{rec: r}
		}
		return rows, nil
	case "metrics":
		pts := src.SnapshotMetrics()
		rows := make([]Row, len(pts))
		for i, p := range pts {
			rows[i] = metricRow{point: p}
		}
		return rows, nil
	default:
		return nil, validationErrorf("unknown table %q", table)
	}
}

// traceRow adapts one (trace group, span) pair to Row for the traces table.
type traceRow struct {
	group store.TraceGroupView
	span  model.Span
}

func (r traceRow) Column(name string) (attr.Value, bool) {
	switch name {
	case "trace_id":
		return attr.String(timeutil.EncodeTraceID(r.group.TraceID)), true
	case "span_id":
		return attr.String(timeutil.EncodeSpanID(r.span.SpanID)), true
	case "parent_span_id":
		if r.span.ParentSpanID == ([8]byte{}) {
			return attr.Null, false
		}
		return attr.String(timeutil.EncodeSpanID(r.span.ParentSpanID)), true
	case "service_name":
		return attr.String(r.span.ServiceName), true
	case "span_name":
		return attr.String(r.span.SpanName), true
	case "kind":
		return attr.String(string(r.span.SpanKind)), true
	case "status_code":
		return attr.String(string(r.span.StatusCode)), true
	case "start_time":
		return attr.Int64(r.span.StartTimeNS), true
	case "end_time":
		return attr.Int64(r.span.EndTimeNS), true
	case "duration_ns":
		return attr.Int64(r.span.DurationNS()), true
	case "resource":
		return attr.Null, false
	case "attributes":
		return attr.Null, false
	default:
		return attr.Null, false
	}
}

func (r traceRow) Bracket(column, key string) (attr.Value, bool) {
	switch column {
	case "resource":
		return r.span.ResourceAttributes.Get(key)
	case "attributes":
		return r.span.SpanAttributes.Get(key)
	default:
		return attr.Null, false
	}
}

// logRow adapts one log record to Row for the logs table.
type logRow struct {
	rec model.LogRecord
}

func (r logRow) Column(name string) (attr.Value, bool) {
	switch name {
	case "timestamp":
		return attr.Int64(r.rec.TimestampNS), true
	case "severity":
		return attr.Int64(int64(r.rec.SeverityNumber)), true
	case "severity_number":
		return attr.Int64(int64(r.rec.SeverityNumber)), true
	case "body":
		return attr.String(r.rec.Body), true
	case "service_name":
		return attr.String(r.rec.ServiceName), true
	default:
		return attr.Null, false
	}
}

func (r logRow) Bracket(column, key string) (attr.Value, bool) {
	switch column {
	case "resource":
		return r.rec.ResourceAttributes.Get(key)
	case "attributes":
		return r.rec.LogAttributes.Get(key)
	default:
		return attr.Null, false
	}
}

// metricRow adapts one flattened metric data point to Row for the metrics
// table.
type metricRow struct {
	point model.MetricDataPoint
}

func (r metricRow) Column(name string) (attr.Value, bool) {
	switch name {
	case "timestamp":
		return attr.Int64(r.point.TimestampNS), true
	case "metric_name":
		return attr.String(r.point.MetricName), true
	case "type":
		return attr.String(string(r.point.MetricType)), true
	case "value":
		if !r.point.HasValue {
			return attr.Null, false
		}
		return attr.Float64(r.point.Value), true
	case "count":
		if !r.point.HasCount {
			return attr.Null, false
		}
		return attr.Int64(int64(r.point.Count)), true
	case "sum":
		if !r.point.HasSum {
			return attr.Null, false
		}
		return attr.Float64(r.point.Sum), true
	case "service_name":
		return attr.String(r.point.ServiceName), true
	default:
		return attr.Null, false
	}
}

func (r metricRow) Bracket(column, key string) (attr.Value, bool) {
	switch column {
	case "resource":
		return r.point.ResourceAttributes.Get(key)
	case "attributes":
		return r.point.DataPointAttributes.Get(key)
	default:
		return attr.Null, false
	}
}
