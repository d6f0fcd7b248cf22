package sqlengine

import (
	"strconv"
	"strings"

	"github.com/otelscope/otelscope/internal/sqlengine/lexer"
)

// Parse tokenizes and parses a single SELECT statement per the grammar in
// §4.2. Anything outside that grammar is rejected with a *ParseError; the
// statement is never partially applied.
func Parse(sql string) (*Statement, error) {
	toks, err := lexer.Tokenize(sql)
	if err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}
	p := &parser{toks: toks}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, parseErrorf("unexpected token %q after end of statement", p.cur().Text)
	}
	return stmt, nil
}

type parser struct {
	toks []lexer.Token
	pos  int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) cur() lexer.Token {
	if p.atEnd() {
		return lexer.Token{Type: lexer.EOF, Text: "<eof>"}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() lexer.Token {
	t := p.cur()
	p.pos++
	return t
}

func (p *parser) expectKeyword(kw string) error {
	t := p.cur()
	if t.Type != lexer.Keyword || t.Text != kw {
		return parseErrorf("expected %s, got %q", kw, t.Text)
	}
	p.advance()
	return nil
}

func (p *parser) isKeyword(kw string) bool {
	t := p.cur()
	return t.Type == lexer.Keyword && t.Text == kw
}

func (p *parser) parseStatement() (*Statement, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	stmt := &Statement{}
	if p.cur().Type == lexer.Star {
		stmt.Star = true
		p.advance()
	} else {
		for {
			t := p.cur()
			if t.Type != lexer.Ident {
				return nil, parseErrorf("expected column name, got %q", t.Text)
			}
			stmt.Columns = append(stmt.Columns, t.Text)
			p.advance()
			if p.cur().Type == lexer.Comma {
				p.advance()
				continue
			}
			break
		}
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	t := p.cur()
	if t.Type != lexer.Ident {
		return nil, parseErrorf("expected table name, got %q", t.Text)
	}
	stmt.Table = t.Text
	p.advance()

	if p.isKeyword("WHERE") {
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}

	if p.isKeyword("ORDER") {
		p.advance()
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		for {
			ct := p.cur()
			if ct.Type != lexer.Ident {
				return nil, parseErrorf("expected column name in ORDER BY, got %q", ct.Text)
			}
			term := OrderTerm{Column: ct.Text}
			p.advance()
			if p.isKeyword("ASC") {
				p.advance()
			} else if p.isKeyword("DESC") {
				term.Desc = true
				p.advance()
			}
			stmt.OrderBy = append(stmt.OrderBy, term)
			if p.cur().Type == lexer.Comma {
				p.advance()
				continue
			}
			break
		}
	}

	if p.isKeyword("LIMIT") {
		p.advance()
		nt := p.cur()
		if nt.Type != lexer.Number {
			return nil, parseErrorf("expected number after LIMIT, got %q", nt.Text)
		}
		p.advance()
		n, err := strconv.Atoi(nt.Text)
		if err != nil {
			return nil, parseErrorf("invalid LIMIT value %q", nt.Text)
		}
		stmt.Limit = &n
	}

	return stmt, nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("OR") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &OrExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("AND") {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &AndExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.isKeyword("NOT") {
		p.advance()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Expr: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	if p.cur().Type == lexer.LParen {
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.cur().Type != lexer.RParen {
			return nil, parseErrorf("expected ')', got %q", p.cur().Text)
		}
		p.advance()
		return expr, nil
	}
	return p.parsePredicate()
}

func (p *parser) parsePredicate() (Expr, error) {
	col, err := p.parseColumnRef()
	if err != nil {
		return nil, err
	}

	switch {
	case p.cur().Type == lexer.Eq:
		p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Col: col, Op: OpEq, Val: lit}, nil
	case p.cur().Type == lexer.NotEq:
		p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Col: col, Op: OpNotEq, Val: lit}, nil
	case p.cur().Type == lexer.Lt:
		p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Col: col, Op: OpLt, Val: lit}, nil
	case p.cur().Type == lexer.LtEq:
		p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Col: col, Op: OpLtEq, Val: lit}, nil
	case p.cur().Type == lexer.Gt:
		p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Col: col, Op: OpGt, Val: lit}, nil
	case p.cur().Type == lexer.GtEq:
		p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Col: col, Op: OpGtEq, Val: lit}, nil
	case p.cur().Type == lexer.Tilde:
		p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &RegexExpr{Col: col, Val: lit}, nil
	case p.cur().Type == lexer.NotTilde:
		p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &RegexExpr{Col: col, Val: lit, Negate: true}, nil
	case p.isKeyword("LIKE"):
		p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &LikeExpr{Col: col, Val: lit}, nil
	case p.isKeyword("IN"):
		p.advance()
		vals, err := p.parseLiteralList()
		if err != nil {
			return nil, err
		}
		return &InExpr{Col: col, Vals: vals}, nil
	case p.isKeyword("IS"):
		p.advance()
		negate := false
		if p.isKeyword("NOT") {
			negate = true
			p.advance()
		}
		if err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		return &IsNullExpr{Col: col, Negate: negate}, nil
	case p.isKeyword("NOT"):
		p.advance()
		switch {
		case p.isKeyword("LIKE"):
			p.advance()
			lit, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			return &LikeExpr{Col: col, Val: lit, Negate: true}, nil
		case p.isKeyword("IN"):
			p.advance()
			vals, err := p.parseLiteralList()
			if err != nil {
				return nil, err
			}
			return &InExpr{Col: col, Vals: vals, Negate: true}, nil
		default:
			return nil, parseErrorf("expected LIKE or IN after NOT, got %q", p.cur().Text)
		}
	default:
		return nil, parseErrorf("expected a comparison operator, got %q", p.cur().Text)
	}
}

func (p *parser) parseColumnRef() (Expr, error) {
	t := p.cur()
	if t.Type != lexer.Ident {
		return nil, parseErrorf("expected column name, got %q", t.Text)
	}
	name := t.Text
	p.advance()

	if p.cur().Type == lexer.LBracket {
		p.advance()
		kt := p.cur()
		if kt.Type != lexer.String {
			return nil, parseErrorf("expected string key inside brackets, got %q", kt.Text)
		}
		p.advance()
		if p.cur().Type != lexer.RBracket {
			return nil, parseErrorf("expected ']', got %q", p.cur().Text)
		}
		p.advance()
		return &ColumnRef{Column: strings.ToLower(name), Key: kt.Text, Bracket: true}, nil
	}

	return &ColumnRef{Column: strings.ToLower(name)}, nil
}

func (p *parser) parseLiteral() (Literal, error) {
	t := p.cur()
	switch t.Type {
	case lexer.String:
		p.advance()
		return Literal{Kind: LiteralString, Str: t.Text}, nil
	case lexer.Number:
		p.advance()
		n, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return Literal{}, parseErrorf("invalid numeric literal %q", t.Text)
		}
		return Literal{Kind: LiteralNumber, Num: n}, nil
	case lexer.Minus:
		p.advance()
		nt := p.cur()
		if nt.Type != lexer.Number {
			return Literal{}, parseErrorf("expected number after '-', got %q", nt.Text)
		}
		p.advance()
		n, err := strconv.ParseFloat(nt.Text, 64)
		if err != nil {
			return Literal{}, parseErrorf("invalid numeric literal %q", nt.Text)
		}
		return Literal{Kind: LiteralNumber, Num: -n}, nil
	case lexer.Keyword:
		switch t.Text {
		case "TRUE":
			p.advance()
			return Literal{Kind: LiteralBool, Bool: true}, nil
		case "FALSE":
			p.advance()
			return Literal{Kind: LiteralBool, Bool: false}, nil
		}
	}
	return Literal{}, parseErrorf("expected a literal value, got %q", t.Text)
}

func (p *parser) parseLiteralList() ([]Literal, error) {
	if p.cur().Type != lexer.LParen {
		return nil, parseErrorf("expected '(' to start a value list, got %q", p.cur().Text)
	}
	p.advance()

	var vals []Literal
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		vals = append(vals, lit)
		if p.cur().Type == lexer.Comma {
			p.advance()
			continue
		}
		break
	}

	if p.cur().Type != lexer.RParen {
		return nil, parseErrorf("expected ')', got %q", p.cur().Text)
	}
	p.advance()
	return vals, nil
}
