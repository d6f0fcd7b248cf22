package lexer

import "testing"

func TestTokenizeBasic(t *testing.T) {
	toks, err := Tokenize(`SELECT trace_id, service_name FROM traces WHERE severity >= 'ERROR' LIMIT 10`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []TokenType{
		Keyword, Ident, Comma, Ident, Keyword, Ident, Keyword, Ident, GtEq, String, Keyword, Number,
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %#v", len(want), len(toks), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: expected type %d, got %d (%q)", i, tt, toks[i].Type, toks[i].Text)
		}
	}
}

func TestTokenizeBracketAccess(t *testing.T) {
	toks, err := Tokenize(`attributes['http.method'] = 'GET'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{Ident, LBracket, String, RBracket, Eq, String}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %#v", len(want), len(toks), toks)
	}
}

func TestTokenizeOperators(t *testing.T) {
	toks, err := Tokenize(`!= <= >= ~ !~ =`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{NotEq, LtEq, GtEq, Tilde, NotTilde, Eq}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: expected %d got %d", i, tt, toks[i].Type)
		}
	}
}

func TestTokenizeEscapedQuote(t *testing.T) {
	toks, err := Tokenize(`'it''s'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Text != "it's" {
		t.Fatalf("expected single token `it's`, got %#v", toks)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`SELECT * FROM logs WHERE body = 'oops`)
	if err == nil {
		t.Fatal("expected an error for unterminated string literal")
	}
}
