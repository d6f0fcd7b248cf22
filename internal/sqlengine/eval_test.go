package sqlengine

import (
	"testing"

	"github.com/otelscope/otelscope/internal/attr"
)

type fakeRow map[string]attr.Value

func (r fakeRow) Column(name string) (attr.Value, bool) {
	v, ok := r[name]
	return v, ok
}

func (r fakeRow) Bracket(column, key string) (attr.Value, bool) {
	v, ok := r[column+"."+key]
	return v, ok
}

func evalSQL(t *testing.T, table, where string, row fakeRow) bool {
	t.Helper()
	stmt, err := Parse("SELECT * FROM " + table + " WHERE " + where)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	schema := Tables[table]
	ctx, err := Prepare(stmt.Where, schema)
	if err != nil {
		t.Fatalf("prepare error: %v", err)
	}
	return Eval(ctx, stmt.Where, row)
}

func TestEvalStringEquality(t *testing.T) {
	row := fakeRow{"service_name": attr.String("checkout")}
	if !evalSQL(t, "traces", `service_name = 'checkout'`, row) {
		t.Error("expected match")
	}
	if evalSQL(t, "traces", `service_name = 'cart'`, row) {
		t.Error("expected no match")
	}
}

func TestEvalSeverityComparison(t *testing.T) {
	row := fakeRow{"severity": attr.Int64(20)} // ERROR4
	if !evalSQL(t, "logs", `severity >= 'ERROR'`, row) {
		t.Error("expected ERROR4 >= ERROR to match")
	}
	row2 := fakeRow{"severity": attr.Int64(9)} // INFO
	if evalSQL(t, "logs", `severity >= 'ERROR'`, row2) {
		t.Error("expected INFO not to satisfy >= ERROR")
	}
}

func TestEvalNullCollapsesToFalse(t *testing.T) {
	row := fakeRow{}
	if evalSQL(t, "traces", `service_name = 'checkout'`, row) {
		t.Error("expected missing column to collapse comparison to false")
	}
	if evalSQL(t, "traces", `service_name != 'checkout'`, row) {
		t.Error("expected missing column to collapse != comparison to false too")
	}
}

func TestEvalIsNull(t *testing.T) {
	row := fakeRow{}
	if !evalSQL(t, "traces", `parent_span_id IS NULL`, row) {
		t.Error("expected IS NULL to observe nullity directly")
	}
	if evalSQL(t, "traces", `parent_span_id IS NOT NULL`, row) {
		t.Error("expected IS NOT NULL to be false for a missing column")
	}
}

func TestEvalLikePattern(t *testing.T) {
	row := fakeRow{"body": attr.String("connection timeout after 30s")}
	if !evalSQL(t, "logs", `body LIKE '%timeout%'`, row) {
		t.Error("expected LIKE match")
	}
	if evalSQL(t, "logs", `body LIKE 'timeout%'`, row) {
		t.Error("expected anchored LIKE not to match")
	}
}

func TestEvalRegex(t *testing.T) {
	row := fakeRow{"body": attr.String("panic: nil pointer")}
	if !evalSQL(t, "logs", `body ~ '^panic:'`, row) {
		t.Error("expected regex match")
	}
	if !evalSQL(t, "logs", `body !~ '^fatal:'`, row) {
		t.Error("expected negated regex to match")
	}
}

func TestEvalIn(t *testing.T) {
	row := fakeRow{"span_name": attr.String("GET /cart")}
	if !evalSQL(t, "traces", `span_name IN ('GET /cart', 'POST /cart')`, row) {
		t.Error("expected IN match")
	}
	if evalSQL(t, "traces", `span_name NOT IN ('GET /cart', 'POST /cart')`, row) {
		t.Error("expected NOT IN to exclude a matching value")
	}
}

func TestEvalBracketAttributes(t *testing.T) {
	row := fakeRow{"attributes.retry": attr.Bool(true)}
	if !evalSQL(t, "traces", `attributes['retry'] = true`, row) {
		t.Error("expected typed bool bracket comparison to match")
	}
}

func TestEvalAndOrNot(t *testing.T) {
	row := fakeRow{"service_name": attr.String("checkout"), "duration_ns": attr.Int64(500)}
	if !evalSQL(t, "traces", `service_name = 'checkout' AND duration_ns > 100`, row) {
		t.Error("expected AND to match")
	}
	if !evalSQL(t, "traces", `service_name = 'cart' OR duration_ns > 100`, row) {
		t.Error("expected OR to match")
	}
	if !evalSQL(t, "traces", `NOT (service_name = 'cart')`, row) {
		t.Error("expected NOT to flip a false comparison to true")
	}
}

func TestPrepareRejectsUnknownColumn(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM traces WHERE nonexistent = 'x'`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := Prepare(stmt.Where, Tables["traces"]); err == nil {
		t.Fatal("expected a validation error for an unknown column")
	}
}

func TestPrepareRejectsInvalidRegex(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM logs WHERE body ~ '(unclosed'`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := Prepare(stmt.Where, Tables["logs"]); err == nil {
		t.Fatal("expected a validation error for an invalid regex, raised before any row scan")
	}
}
