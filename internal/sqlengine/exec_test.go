package sqlengine

import (
	"context"
	"testing"

	"github.com/otelscope/otelscope/internal/attr"
	"github.com/otelscope/otelscope/internal/model"
	"github.com/otelscope/otelscope/internal/store"
)

func traceID(b byte) [16]byte {
	var id [16]byte
	id[15] = b
	return id
}

func TestExecuteProjectsAndFiltersTraces(t *testing.T) {
	s := store.New(100)
	s.InsertSpans([]store.SpanBatch{
		{TraceID: traceID(1), Span: model.Span{
			SpanID: [8]byte{1}, ServiceName: "checkout", SpanName: "GET /cart",
			StartTimeNS: 100, EndTimeNS: 200,
			SpanAttributes: attr.Map{"retry": attr.Bool(true)},
		}},
		{TraceID: traceID(2), Span: model.Span{
			SpanID: [8]byte{2}, ServiceName: "cart", SpanName: "POST /cart",
			StartTimeNS: 300, EndTimeNS: 900,
		}},
	})

	result, err := Execute(context.Background(), s, `SELECT service_name, duration_ns FROM traces WHERE attributes['retry'] = true`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	if s, _ := result.Rows[0][0].AsString(); s != "checkout" {
		t.Errorf("expected service_name checkout, got %q", s)
	}
	if n, _ := result.Rows[0][1].AsInt64(); n != 100 {
		t.Errorf("expected duration_ns 100, got %d", n)
	}
}

func TestExecuteOrderByAndLimit(t *testing.T) {
	s := store.New(100)
	s.InsertLogs([]model.LogRecord{
		{Body: "a", TimestampNS: 3},
		{Body: "b", TimestampNS: 1},
		{Body: "c", TimestampNS: 2},
	})

	result, err := Execute(context.Background(), s, `SELECT body FROM logs ORDER BY timestamp ASC LIMIT 2`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if body, _ := result.Rows[0][0].AsString(); body != "b" {
		t.Errorf("expected first row body b, got %q", body)
	}
	if body, _ := result.Rows[1][0].AsString(); body != "c" {
		t.Errorf("expected second row body c, got %q", body)
	}
}

func TestExecuteMetricsNullValueColumn(t *testing.T) {
	s := store.New(100)
	s.InsertMetrics([]model.MetricDataPoint{
		{MetricName: "requests_total", MetricType: model.MetricSum, HasValue: true, Value: 42},
		{MetricName: "latency_bucket", MetricType: model.MetricHistogram, HasValue: false},
	})

	result, err := Execute(context.Background(), s, `SELECT metric_name FROM metrics WHERE value > 0`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row (histogram has no scalar value), got %d", len(result.Rows))
	}
	if name, _ := result.Rows[0][0].AsString(); name != "requests_total" {
		t.Errorf("expected requests_total, got %q", name)
	}
}

func TestExecuteRejectsUnknownTable(t *testing.T) {
	s := store.New(10)
	if _, err := Execute(context.Background(), s, `SELECT * FROM spans`); err == nil {
		t.Fatal("expected a validation error for an unknown table")
	}
}

func TestExecuteRejectsParseError(t *testing.T) {
	s := store.New(10)
	if _, err := Execute(context.Background(), s, `NOT EVEN SQL`); err == nil {
		t.Fatal("expected a parse error")
	}
}
