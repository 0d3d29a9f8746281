package lang

import (
	"log/slog"
	"math/big"
	"strconv"
)

// TokenKind classifies a lexical unit.
type TokenKind int

const (
	// TokenEOF marks the end of input. It is always the final token.
	TokenEOF TokenKind = iota

	// TokenNumber is an octal integer literal such as 0o17.
	TokenNumber

	// TokenIdent is a run of lowercase ASCII letters. Keywords are identifier
	// tokens recognized by the parser in context.
	TokenIdent

	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenSemicolon
	TokenCaret
	TokenPlus
	TokenMinus
	TokenStar
)

// String returns the human-readable name of a TokenKind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenNumber:
		return "number"
	case TokenIdent:
		return "identifier"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenComma:
		return ","
	case TokenSemicolon:
		return ";"
	case TokenCaret:
		return "^"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	default:
		return "unknown"
	}
}

// Keywords recognized by the parser.
const (
	KeywordDefine = "define"
	KeywordMax    = "max"
	KeywordPow    = "pow"
)

// Position locates a byte in the source text.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// Token is a classified span of source text.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

// Is reports whether t is an identifier token spelling the given keyword.
func (t Token) Is(keyword string) bool {
	return t.Kind == TokenIdent && t.Text == keyword
}

// Number decodes the digits of a TokenNumber in base 8.
// It returns nil for any other kind of token.
func (t Token) Number() *big.Int {
	if t.Kind != TokenNumber || len(t.Text) < 3 {
		return nil
	}

	n, ok := new(big.Int).SetString(t.Text[2:], 8)
	if !ok {
		return nil
	}

	return n
}

// describe renders a token for diagnostics.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return t.Kind.String()
	case TokenNumber, TokenIdent:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	default:
		return strconv.Quote(t.Text)
	}
}

// isKeyword reports whether name is reserved by the grammar.
func isKeyword(name string) bool {
	switch name {
	case KeywordDefine, KeywordMax, KeywordPow:
		return true
	}

	return false
}
