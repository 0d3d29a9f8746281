package lang

import (
	"log/slog"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Lex splits src into tokens. The returned slice always ends with a
// TokenEOF token when err is nil.
//
// Recognized lexemes are octal literals (0o or 0O followed by one or more
// digits 0-7), identifiers ([a-z]+), and the punctuation ( ) [ ] , ; ^ + - *.
// Whitespace separates tokens and is otherwise ignored.
func Lex(src string) ([]Token, error) {
	l := lexer{src: src, line: 1, col: 1}

	return l.run()
}

// lexer holds the scanning state over a source string.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
	toks []Token
}

var punct = map[byte]TokenKind{
	'(': TokenLParen,
	')': TokenRParen,
	'[': TokenLBracket,
	']': TokenRBracket,
	',': TokenComma,
	';': TokenSemicolon,
	'^': TokenCaret,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
}

func (l *lexer) run() ([]Token, error) {
	for {
		l.skipSpace()

		if l.pos >= len(l.src) {
			l.toks = append(l.toks, Token{Kind: TokenEOF, Pos: l.position()})

			return l.toks, nil
		}

		c := l.src[l.pos]

		switch {
		case c == '0':
			if err := l.number(); err != nil {
				return nil, err
			}

		case isIdentByte(c):
			l.ident()

		default:
			kind, ok := punct[c]
			if !ok {
				return nil, l.unexpected()
			}

			l.emit(kind, l.pos+1)
		}
	}
}

// number scans an octal literal starting at the current '0'.
func (l *lexer) number() error {
	start := l.position()
	end := l.pos + 1

	if end >= len(l.src) || (l.src[end] != 'o' && l.src[end] != 'O') {
		return ErrLex.WithPosition(start).
			With(slog.String("reason", "malformed octal literal")).
			With(slog.String("found", l.excerpt(end)))
	}

	end++
	digits := end

	for end < len(l.src) && l.src[end] >= '0' && l.src[end] <= '7' {
		end++
	}

	if end == digits {
		return ErrLex.WithPosition(start).
			With(slog.String("reason", "octal literal has no digits")).
			With(slog.String("found", l.excerpt(end)))
	}

	// A literal running straight into another digit or letter (0o78, 0o7a)
	// is one malformed word rather than two adjacent tokens.
	if end < len(l.src) && isWordByte(l.src[end]) {
		return ErrLex.WithPosition(start).
			With(slog.String("reason", "malformed octal literal")).
			With(slog.String("found", l.excerpt(end+1)))
	}

	l.emit(TokenNumber, end)

	return nil
}

func (l *lexer) ident() {
	end := l.pos
	for end < len(l.src) && isIdentByte(l.src[end]) {
		end++
	}

	l.emit(TokenIdent, end)
}

// emit appends a token spanning [l.pos, end) and advances past it.
// Tokens never span a newline.
func (l *lexer) emit(kind TokenKind, end int) {
	l.toks = append(l.toks, Token{
		Kind: kind,
		Text: l.src[l.pos:end],
		Pos:  l.position(),
	})
	l.col += end - l.pos
	l.pos = end
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}

		l.pos += size

		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
}

func (l *lexer) unexpected() error {
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])

	found := strconv.QuoteRune(r)
	if r == utf8.RuneError {
		found = strconv.Quote(l.src[l.pos : l.pos+1])
	}

	return ErrLex.WithPosition(l.position()).
		With(slog.String("reason", "unexpected character")).
		With(slog.String("found", found))
}

// excerpt quotes the source from the current position up to end, clamped to
// the input length.
func (l *lexer) excerpt(end int) string {
	end = min(end, len(l.src))

	return strconv.Quote(l.src[l.pos:end])
}

func (l *lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func isIdentByte(c byte) bool { return c >= 'a' && c <= 'z' }

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '_'
}
