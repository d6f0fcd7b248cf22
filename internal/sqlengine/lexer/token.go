// Package lexer tokenizes the SQL dialect implemented by internal/sqlengine.
// Structured like go-faster-oteldb's internal/traceql/lexer: a scanner.Scanner
// wrapped by a small struct that classifies runs into typed tokens, rather
// than a one-shot regex-based splitter.
package lexer

import "text/scanner"

// TokenType classifies a lexed token.
type TokenType int

const (
	EOF TokenType = iota
	Ident
	Keyword
	String
	Number
	Comma
	LParen
	RParen
	LBracket
	RBracket
	Dot
	Star

	Eq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	Tilde
	NotTilde
	Minus
)

// Token is one lexed unit with its source position for error reporting.
type Token struct {
	Type TokenType
	Text string
	Pos  scanner.Position
}

var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "ORDER": true, "BY": true,
	"ASC": true, "DESC": true, "LIMIT": true, "AND": true, "OR": true,
	"NOT": true, "LIKE": true, "IN": true, "IS": true, "NULL": true,
	"TRUE": true, "FALSE": true,
}

// IsKeyword reports whether the upper-cased text is one of the dialect's
// reserved words.
func IsKeyword(upper string) bool {
	return keywords[upper]
}
