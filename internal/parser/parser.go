package parser

import (
	"github.com/DucktectiveCZ/duklang/internal/ast"
	"github.com/DucktectiveCZ/duklang/internal/lexer"
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// Parser is a recursive-descent parser for duk with one token of lookahead.
// Invariants:
//   - Lookahead: the peek slot holds at most one token pulled from the lexer
//     and not yet consumed. peek fills it lazily and is idempotent; advance
//     empties it. Grammar functions consume only after a positive match, so a
//     failing production leaves the offending token in the slot for its error.
//   - Failure: there is no recovery. The first lexical or grammar error is
//     returned as a *ParseError and aborts the whole enclosing parse.
type Parser struct {
	lx *lexer.Lexer

	peeked  bool
	peekTok lexer.Token
	peekErr error

	filename string
}

// New returns a parser initialised with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Parser{
		lx:       lexer.New(input),
		filename: cfg.filename,
	}

	if cfg.filename != "" {
		p.lx.SetFilename(cfg.filename)
	}

	return p
}

// ParseModule parses src as a whole module.
func ParseModule(src string, opts ...Option) (*ast.Module, error) {
	return New(src, opts...).ParseModule()
}

// ParseExpr parses src as exactly one expression. Tokens left over after the
// expression are an unexpected-token error.
func ParseExpr(src string, opts ...Option) (ast.Expr, error) {
	p := New(src, opts...)

	expr, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseSnippet parses one interactive input. A leading attribute,
// visibility, `fun`, `var` or `class` selects a group member; `val` selects
// an immutable binding; anything else is an expression. A trailing `;` is
// accepted.
func ParseSnippet(src string, opts ...Option) (ast.Node, error) {
	p := New(src, opts...)

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	var node ast.Node
	switch tok.Type {
	case lexer.AT, lexer.PUB, lexer.PRIV, lexer.FUN, lexer.VAR, lexer.CLASS:
		member, err := p.ParseGroupMember()
		if err != nil {
			return nil, err
		}
		node = member
	case lexer.VAL:
		decl, err := p.ParseImmutableVariableDecl()
		if err != nil {
			return nil, err
		}
		node = decl
	default:
		expr, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		node = expr
	}

	if _, err := p.accept(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return node, nil
}

// peek returns the lookahead token without consuming it.
func (p *Parser) peek() (lexer.Token, error) {
	if !p.peeked {
		tok, err := p.lx.Next()
		p.peekTok = tok
		p.peekErr = nil
		if err != nil {
			p.peekErr = p.lexicalError(tok, err)
		}
		p.peeked = true
	}
	return p.peekTok, p.peekErr
}

// advance consumes and returns the lookahead token.
func (p *Parser) advance() (lexer.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return tok, err
	}
	p.peeked = false
	return tok, nil
}

// expect consumes the lookahead if it has type tt. On mismatch nothing is
// consumed and the error carries both the expected and the found token.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return tok, err
	}
	if tok.Type != tt {
		return tok, p.mismatch(tok, tt)
	}
	return p.advance()
}

// accept consumes the lookahead if it has type tt and reports whether it did.
func (p *Parser) accept(tt lexer.TokenType) (bool, error) {
	tok, err := p.peek()
	if err != nil {
		return false, err
	}
	if tok.Type != tt {
		return false, nil
	}
	_, err = p.advance()
	return err == nil, err
}

func (p *Parser) expectEOF() error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if tok.Type != lexer.EOF {
		return p.unexpected(tok)
	}
	return nil
}
