package sqlengine

import (
	"regexp"
	"strings"

	"github.com/otelscope/otelscope/internal/attr"
	"github.com/otelscope/otelscope/internal/model"
	"github.com/otelscope/otelscope/internal/timeutil"
)

// Row is the per-table accessor the evaluator scans against. Table-specific
// adapters (traceRow, logRow, metricRow in exec.go) implement it over the
// store's snapshot types.
type Row interface {
	// Column returns a plain (non-bracket) column's value. ok is false only
	// for columns that are legitimately absent on a given row shape; unknown
	// column names are rejected earlier, at prepare time.
	Column(name string) (attr.Value, bool)
	// Bracket returns an attributes['k'] or resource['k'] lookup. ok is
	// false when the key is absent, which the evaluator treats as NULL.
	Bracket(column, key string) (attr.Value, bool)
}

// EvalCtx holds the per-statement state built once by prepare: validated
// column references and any regular expressions compiled ahead of the scan,
// per §4.2's "LIKE/regex errors surface at bind time, not row-scan time".
type EvalCtx struct {
	schema TableSchema
	regex  map[Expr]*regexp.Regexp
}

// prepare validates every column reference against schema and compiles
// every LIKE/regex literal exactly once, returning a *ValidationError (never
// a *ParseError, since the statement already parsed) on any violation.
func Prepare(expr Expr, schema TableSchema) (*EvalCtx, error) {
	ctx := &EvalCtx{schema: schema, regex: map[Expr]*regexp.Regexp{}}
	if expr == nil {
		return ctx, nil
	}
	if err := ctx.walk(expr); err != nil {
		return nil, err
	}
	return ctx, nil
}

func (c *EvalCtx) walk(expr Expr) error {
	switch e := expr.(type) {
	case *AndExpr:
		if err := c.walk(e.Left); err != nil {
			return err
		}
		return c.walk(e.Right)
	case *OrExpr:
		if err := c.walk(e.Left); err != nil {
			return err
		}
		return c.walk(e.Right)
	case *NotExpr:
		return c.walk(e.Expr)
	case *CompareExpr:
		_, err := c.checkColumn(e.Col)
		return err
	case *LikeExpr:
		typ, err := c.checkColumn(e.Col)
		if err != nil {
			return err
		}
		if !isStringlike(typ) {
			return validationErrorf("LIKE requires a string-typed column")
		}
		if e.Val.Kind != LiteralString {
			return validationErrorf("LIKE requires a string literal")
		}
		re, err := regexp.Compile(likeToRegex(e.Val.Str))
		if err != nil {
			return validationErrorf("invalid LIKE pattern %q: %v", e.Val.Str, err)
		}
		c.regex[e] = re
		return nil
	case *RegexExpr:
		typ, err := c.checkColumn(e.Col)
		if err != nil {
			return err
		}
		if !isStringlike(typ) {
			return validationErrorf("regex match requires a string-typed column")
		}
		if e.Val.Kind != LiteralString {
			return validationErrorf("regex match requires a string literal")
		}
		re, err := regexp.Compile(e.Val.Str)
		if err != nil {
			return validationErrorf("invalid regular expression %q: %v", e.Val.Str, err)
		}
		c.regex[e] = re
		return nil
	case *InExpr:
		_, err := c.checkColumn(e.Col)
		return err
	case *IsNullExpr:
		_, err := c.checkColumn(e.Col)
		return err
	default:
		return validationErrorf("unsupported predicate node %T", expr)
	}
}

func (c *EvalCtx) checkColumn(expr Expr) (ColumnType, error) {
	col, ok := expr.(*ColumnRef)
	if !ok {
		return 0, validationErrorf("expected a column reference")
	}
	if col.Bracket {
		switch col.Column {
		case "attributes":
			return TypeAttributes, nil
		case "resource":
			return TypeResource, nil
		default:
			return 0, validationErrorf("column %q does not support bracket access", col.Column)
		}
	}
	def, ok := c.schema.ColumnDefByName(col.Column)
	if !ok {
		return 0, validationErrorf("unknown column %q in table %q", col.Column, c.schema.Name)
	}
	return def.Type, nil
}

func isStringlike(t ColumnType) bool {
	switch t {
	case TypeString, TypeHex, TypeResource, TypeAttributes:
		return true
	default:
		return false
	}
}

// likeToRegex translates a SQL LIKE pattern (% = any run, _ = any single
// char) into an anchored regular expression, escaping every other
// metacharacter so literal text in the pattern matches literally.
func likeToRegex(pattern string) string {
	var sb strings.Builder
	sb.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return sb.String()
}

// Eval evaluates a prepared predicate against one row. A NULL operand on
// any comparison, LIKE, regex match, or IN test collapses the whole
// sub-expression to false (§4.2's three-valued-to-false rule); IS NULL is
// the one predicate that observes nullity directly.
func Eval(ctx *EvalCtx, expr Expr, row Row) bool {
	switch e := expr.(type) {
	case *AndExpr:
		return Eval(ctx, e.Left, row) && Eval(ctx, e.Right, row)
	case *OrExpr:
		return Eval(ctx, e.Left, row) || Eval(ctx, e.Right, row)
	case *NotExpr:
		return !Eval(ctx, e.Expr, row)
	case *CompareExpr:
		return evalCompare(ctx, e, row)
	case *LikeExpr:
		return evalLike(ctx, e, row)
	case *RegexExpr:
		return evalRegex(ctx, e, row)
	case *InExpr:
		return evalIn(ctx, e, row)
	case *IsNullExpr:
		return evalIsNull(e, row)
	default:
		return false
	}
}

func columnValue(col *ColumnRef, row Row) (attr.Value, bool) {
	if col.Bracket {
		return row.Bracket(col.Column, col.Key)
	}
	return row.Column(col.Column)
}

func evalCompare(ctx *EvalCtx, e *CompareExpr, row Row) bool {
	col := e.Col.(*ColumnRef)
	typ, _ := ctx.checkColumn(col)
	v, ok := columnValue(col, row)
	if !ok {
		return false
	}
	lit, err := coerceLiteral(e.Val, typ)
	if err != nil {
		return false
	}
	switch e.Op {
	case OpEq:
		return v.Equal(lit)
	case OpNotEq:
		return !v.Equal(lit)
	default:
		cmp, comparable := v.Compare(lit)
		if !comparable {
			return false
		}
		switch e.Op {
		case OpLt:
			return cmp < 0
		case OpLtEq:
			return cmp <= 0
		case OpGt:
			return cmp > 0
		case OpGtEq:
			return cmp >= 0
		default:
			return false
		}
	}
}

func evalLike(ctx *EvalCtx, e *LikeExpr, row Row) bool {
	col := e.Col.(*ColumnRef)
	v, ok := columnValue(col, row)
	if !ok {
		return false
	}
	matched := ctx.regex[e].MatchString(v.String())
	if e.Negate {
		return !matched
	}
	return matched
}

func evalRegex(ctx *EvalCtx, e *RegexExpr, row Row) bool {
	col := e.Col.(*ColumnRef)
	v, ok := columnValue(col, row)
	if !ok {
		return false
	}
	matched := ctx.regex[e].MatchString(v.String())
	if e.Negate {
		return !matched
	}
	return matched
}

func evalIn(ctx *EvalCtx, e *InExpr, row Row) bool {
	col := e.Col.(*ColumnRef)
	typ, _ := ctx.checkColumn(col)
	v, ok := columnValue(col, row)
	if !ok {
		return false
	}
	found := false
	for _, lit := range e.Vals {
		cv, err := coerceLiteral(lit, typ)
		if err != nil {
			continue
		}
		if v.Equal(cv) {
			found = true
			break
		}
	}
	if e.Negate {
		return !found
	}
	return found
}

func evalIsNull(e *IsNullExpr, row Row) bool {
	col := e.Col.(*ColumnRef)
	_, ok := columnValue(col, row)
	isNull := !ok
	if e.Negate {
		return !isNull
	}
	return isNull
}

// coerceLiteral converts a parsed literal into the attr.Value kind the
// column's stored representation uses, per §4.2's coercion table.
func coerceLiteral(lit Literal, typ ColumnType) (attr.Value, error) {
	switch typ {
	case TypeHex:
		if lit.Kind != LiteralString {
			return attr.Null, validationErrorf("expected a hex id string literal")
		}
		return attr.String(strings.ToLower(lit.Str)), nil
	case TypeTime:
		switch lit.Kind {
		case LiteralNumber:
			return attr.Int64(int64(lit.Num)), nil
		case LiteralString:
			ns, err := timeutil.ParseRFC3339(lit.Str)
			if err != nil {
				return attr.Null, validationErrorf("invalid time literal %q: %v", lit.Str, err)
			}
			return attr.Int64(ns), nil
		default:
			return attr.Null, validationErrorf("expected a time literal")
		}
	case TypeSeverity:
		if lit.Kind != LiteralString {
			return attr.Null, validationErrorf("expected a severity name literal")
		}
		n, ok := model.ParseSeverityName(lit.Str)
		if !ok {
			return attr.Null, validationErrorf("unknown severity name %q", lit.Str)
		}
		return attr.Int64(int64(n)), nil
	case TypeInt:
		if lit.Kind != LiteralNumber {
			return attr.Null, validationErrorf("expected a numeric literal")
		}
		return attr.Int64(int64(lit.Num)), nil
	case TypeFloat:
		if lit.Kind != LiteralNumber {
			return attr.Null, validationErrorf("expected a numeric literal")
		}
		return attr.Float64(lit.Num), nil
	case TypeString:
		if lit.Kind != LiteralString {
			return attr.Null, validationErrorf("expected a string literal")
		}
		return attr.String(lit.Str), nil
	case TypeResource, TypeAttributes:
		switch lit.Kind {
		case LiteralString:
			return attr.String(lit.Str), nil
		case LiteralNumber:
			return attr.Float64(lit.Num), nil
		case LiteralBool:
			return attr.Bool(lit.Bool), nil
		default:
			return attr.Null, validationErrorf("unsupported literal kind")
		}
	default:
		return attr.Null, validationErrorf("unsupported column type")
	}
}
