package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/konf/log"
)

// Parse builds an AST from a token sequence produced by [Lex].
//
// The grammar is:
//
//	program   := statement+
//	statement := '(' 'define' identifier value ')' ';'
//	value     := number | array | expression | identifier
//	array     := '[' (value (',' value)*)? ']'
//	expression:= '^' '(' body ')'
//	body      := operand (('+' | '-' | '*') operand)*
//	operand   := ('max' | 'pow') '(' body ',' body ')' | value
//
// Binary operators share one precedence level and associate to the left.
func Parse(ctx context.Context, toks []Token, opts ...Option) (*AST, error) {
	ast := new(AST)

	applyDefaults(ast)
	applyOptions(ast, opts...)

	p := &parser{
		toks:   toks,
		opts:   ast.opts,
		logger: ast.logger,
	}

	decls, err := p.parseProgram()
	if err != nil {
		return nil, err
	}

	ast.Declarations = decls

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("declaration_count", len(decls)))

	return ast, nil
}

// ParseString lexes and parses source without consulting the parse cache.
func ParseString(ctx context.Context, source string, opts ...Option) (*AST, error) {
	toks, err := Lex(source)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, toks, opts...)
}

// ParseValue lexes and parses a single value expression, e.g. "^(a + 0o1)".
func ParseValue(source string, opts ...Option) (*Node, error) {
	toks, err := Lex(source)
	if err != nil {
		return nil, err
	}

	var ast AST

	applyDefaults(&ast)
	applyOptions(&ast, opts...)

	p := &parser{toks: toks, opts: ast.opts, logger: ast.logger}

	n, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenEOF); err != nil {
		return nil, err
	}

	return n, nil
}

// parser holds the parser state.
type parser struct {
	toks   []Token
	pos    int
	opts   optionsKey
	logger log.Logger
}

// peek returns the current token without consuming it.
func (p *parser) peek() Token {
	if p.pos >= len(p.toks) {
		return p.eofToken()
	}

	return p.toks[p.pos]
}

// peekAt returns the token n positions past the current one.
func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.eofToken()
	}

	return p.toks[p.pos+n]
}

// eofToken synthesizes an end-of-input token for a token slice that lacks
// one.
func (p *parser) eofToken() Token {
	if n := len(p.toks); n > 0 {
		last := p.toks[n-1]
		if last.Kind == TokenEOF {
			return last
		}

		pos := last.Pos
		pos.Offset += len(last.Text)
		pos.Column += len(last.Text)

		return Token{Kind: TokenEOF, Pos: pos}
	}

	return Token{Kind: TokenEOF, Pos: Position{Line: 1, Column: 1}}
}

func (p *parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}

	return t
}

// expect consumes a token of the given kind or fails with a parse error
// located at the offending token.
func (p *parser) expect(kind TokenKind) (Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return t, p.unexpected(kind.String())
	}

	return p.advance(), nil
}

// expectKeyword consumes an identifier token spelling keyword.
func (p *parser) expectKeyword(keyword string) (Token, error) {
	t := p.peek()
	if !t.Is(keyword) {
		return t, p.unexpected(keyword)
	}

	return p.advance(), nil
}

func (p *parser) unexpected(expected string) *Error {
	t := p.peek()

	return ErrParse.WithPosition(t.Pos).
		With(slog.String("expected", expected)).
		With(slog.String("found", t.describe()))
}

// parseProgram parses one or more statements followed by end of input.
func (p *parser) parseProgram() ([]*Declaration, error) {
	decls := make([]*Declaration, 0)

	for {
		d, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		decls = append(decls, d)

		switch p.peek().Kind {
		case TokenEOF:
			return decls, nil

		case TokenLParen:
			continue

		default:
			return nil, p.unexpected(TokenLParen.String())
		}
	}
}

// parseStatement parses: '(' 'define' identifier value ')' ';'.
func (p *parser) parseStatement() (*Declaration, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	if _, err := p.expectKeyword(KeywordDefine); err != nil {
		return nil, err
	}

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if p.opts.reserved && isKeyword(name.Text) {
		return nil, ErrParse.WithPosition(name.Pos).
			With(slog.String("expected", TokenIdent.String())).
			With(slog.String("found", "reserved keyword "+name.Text))
	}

	value, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	p.logger.Trace("parse declaration",
		slog.String("name", name.Text),
		slog.String("type", value.Type.String()))

	return &Declaration{Identifier: name, Value: value}, nil
}

// parseValue parses: number | array | expression | identifier.
func (p *parser) parseValue(depth int) (*Node, error) {
	t := p.peek()

	switch t.Kind {
	case TokenNumber:
		p.advance()

		return &Node{Type: NodeNumber, Token: t}, nil

	case TokenIdent:
		if p.opts.reserved && isKeyword(t.Text) {
			return nil, p.unexpected("value")
		}

		p.advance()

		return &Node{Type: NodeRef, Token: t}, nil

	case TokenLBracket:
		return p.parseArray(depth + 1)

	case TokenCaret:
		return p.parseExpression(depth + 1)

	default:
		return nil, p.unexpected("value")
	}
}

// parseArray parses: '[' (value (',' value)*)? ']'.
func (p *parser) parseArray(depth int) (*Node, error) {
	open := p.advance()

	if err := p.checkDepth(open, depth); err != nil {
		return nil, err
	}

	n := &Node{Type: NodeArray, Token: open, Items: make([]*Node, 0)}

	if p.peek().Kind == TokenRBracket {
		p.advance()

		return n, nil
	}

	for {
		item, err := p.parseValue(depth)
		if err != nil {
			return nil, err
		}

		n.Items = append(n.Items, item)

		switch p.peek().Kind {
		case TokenComma:
			p.advance()

		case TokenRBracket:
			p.advance()

			return n, nil

		default:
			return nil, p.unexpected(`"," or "]"`)
		}
	}
}

// parseExpression parses: '^' '(' body ')'.
func (p *parser) parseExpression(depth int) (*Node, error) {
	caret := p.advance()

	if err := p.checkDepth(caret, depth); err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	body, err := p.parseBody(depth)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	return &Node{Type: NodeExpr, Token: caret, Items: []*Node{body}}, nil
}

// parseBody parses: operand (('+' | '-' | '*') operand)*.
func (p *parser) parseBody(depth int) (*Node, error) {
	lhs, err := p.parseOperand(depth)
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()

		typ, ok := binaryNode[op.Kind]
		if !ok {
			return lhs, nil
		}

		p.advance()

		rhs, err := p.parseOperand(depth)
		if err != nil {
			return nil, err
		}

		lhs = &Node{Type: typ, Token: op, Items: []*Node{lhs, rhs}}
	}
}

// parseOperand parses a call to max or pow, or else a value.
//
// An identifier spelling max or pow is a call only when followed by '(';
// otherwise it is a reference to a constant of that name.
func (p *parser) parseOperand(depth int) (*Node, error) {
	t := p.peek()

	var typ NodeType

	switch {
	case t.Is(KeywordMax):
		typ = NodeMax
	case t.Is(KeywordPow):
		typ = NodePow
	default:
		return p.parseValue(depth)
	}

	if !p.opts.reserved && p.peekAt(1).Kind != TokenLParen {
		return p.parseValue(depth)
	}

	return p.parseCall(typ, depth+1)
}

// parseCall parses: keyword '(' body ',' body ')'.
func (p *parser) parseCall(typ NodeType, depth int) (*Node, error) {
	kw := p.advance()

	if err := p.checkDepth(kw, depth); err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	lhs, err := p.parseBody(depth)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenComma); err != nil {
		return nil, err
	}

	rhs, err := p.parseBody(depth)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	return &Node{Type: typ, Token: kw, Items: []*Node{lhs, rhs}}, nil
}

func (p *parser) checkDepth(t Token, depth int) error {
	if p.opts.maxDepth > 0 && depth > p.opts.maxDepth {
		return ErrMaxDepthExceeded.WithPosition(t.Pos).
			With(slog.Int("max_depth", p.opts.maxDepth))
	}

	return nil
}
