package sqlengine

import "testing"

func TestParseStar(t *testing.T) {
	stmt, err := Parse("SELECT * FROM traces")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stmt.Star || stmt.Table != "traces" {
		t.Fatalf("unexpected statement: %#v", stmt)
	}
}

func TestParseColumnListAndWhere(t *testing.T) {
	stmt, err := Parse(`SELECT trace_id, span_name FROM traces WHERE service_name = 'checkout' AND duration_ns > 1000`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.Columns) != 2 || stmt.Columns[0] != "trace_id" || stmt.Columns[1] != "span_name" {
		t.Fatalf("unexpected columns: %#v", stmt.Columns)
	}
	and, ok := stmt.Where.(*AndExpr)
	if !ok {
		t.Fatalf("expected top-level AndExpr, got %T", stmt.Where)
	}
	left, ok := and.Left.(*CompareExpr)
	if !ok || left.Op != OpEq {
		t.Fatalf("expected left side to be Eq compare, got %#v", and.Left)
	}
	right, ok := and.Right.(*CompareExpr)
	if !ok || right.Op != OpGt {
		t.Fatalf("expected right side to be Gt compare, got %#v", and.Right)
	}
}

func TestParseBracketAccess(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM traces WHERE attributes['http.method'] = 'GET'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmp, ok := stmt.Where.(*CompareExpr)
	if !ok {
		t.Fatalf("expected CompareExpr, got %T", stmt.Where)
	}
	col, ok := cmp.Col.(*ColumnRef)
	if !ok || !col.Bracket || col.Column != "attributes" || col.Key != "http.method" {
		t.Fatalf("unexpected column ref: %#v", cmp.Col)
	}
}

func TestParseOrderByAndLimit(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM logs ORDER BY timestamp DESC, body LIMIT 50`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.OrderBy) != 2 {
		t.Fatalf("expected 2 order terms, got %d", len(stmt.OrderBy))
	}
	if stmt.OrderBy[0].Column != "timestamp" || !stmt.OrderBy[0].Desc {
		t.Errorf("unexpected first order term: %#v", stmt.OrderBy[0])
	}
	if stmt.OrderBy[1].Column != "body" || stmt.OrderBy[1].Desc {
		t.Errorf("unexpected second order term: %#v", stmt.OrderBy[1])
	}
	if stmt.Limit == nil || *stmt.Limit != 50 {
		t.Fatalf("expected limit 50, got %#v", stmt.Limit)
	}
}

func TestParseLikeInIsNullAndRegex(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM logs WHERE body LIKE '%timeout%' AND severity IN ('ERROR', 'FATAL') AND span_name IS NOT NULL AND body !~ '^debug'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Where == nil {
		t.Fatal("expected a WHERE predicate")
	}
}

func TestParseNegativeNumberLiteral(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM metrics WHERE value > -5`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmp, ok := stmt.Where.(*CompareExpr)
	if !ok {
		t.Fatalf("expected CompareExpr, got %T", stmt.Where)
	}
	if cmp.Val.Kind != LiteralNumber || cmp.Val.Num != -5 {
		t.Fatalf("expected literal -5, got %#v", cmp.Val)
	}
}

func TestParseParenGroupingAndNot(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM traces WHERE NOT (service_name = 'a' OR service_name = 'b')`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	not, ok := stmt.Where.(*NotExpr)
	if !ok {
		t.Fatalf("expected top-level NotExpr, got %T", stmt.Where)
	}
	if _, ok := not.Expr.(*OrExpr); !ok {
		t.Fatalf("expected grouped OrExpr inside NOT, got %T", not.Expr)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse(`SELECT FROM traces`); err == nil {
		t.Fatal("expected a parse error")
	}
	if _, err := Parse(`SELECT * FROM traces WHERE`); err == nil {
		t.Fatal("expected a parse error for a dangling WHERE")
	}
	if _, err := Parse(`SELECT * FROM traces EXTRA`); err == nil {
		t.Fatal("expected a parse error for trailing garbage")
	}
}
