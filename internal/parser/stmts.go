package parser

import (
	"github.com/DucktectiveCZ/duklang/internal/ast"
	"github.com/DucktectiveCZ/duklang/internal/lexer"
)

// ParseCodeBlock parses `{ stmt; ... }`. It returns a nil block and no error
// when the lookahead is not '{', leaving the caller to decide whether a block
// was mandatory.
func (p *Parser) ParseCodeBlock() (*ast.CodeBlock, error) {
	open, err := p.accept(lexer.LBRACE)
	if err != nil || !open {
		return nil, err
	}

	block := ast.NewCodeBlock()

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case lexer.RBRACE:
			if _, err := p.advance(); err != nil {
				return nil, err
			}
			return block, nil
		case lexer.EOF:
			return nil, p.mismatch(tok, lexer.RBRACE)
		}

		stmt, err := p.parseRuntimeStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
}

// parseRuntimeStmt parses one statement of a code block, without its
// terminating semicolon.
func (p *Parser) parseRuntimeStmt() (ast.RuntimeStmt, error) {
	attrs, err := p.ParseAttributeAnnots()
	if err != nil {
		return nil, err
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Type == lexer.VAL {
		decl, err := p.parseImmutableVariableDecl(attrs, ast.Default)
		if err != nil {
			return nil, err
		}
		return decl, nil
	}
	if len(attrs) > 0 {
		return nil, p.mismatch(tok, lexer.VAL)
	}

	switch tok.Type {
	case lexer.RET:
		return p.parseReturnStmt()
	case lexer.FUN:
		return nil, p.unsupported(tok, "nested function declarations")
	case lexer.CLASS:
		return nil, p.unsupported(tok, "local class declarations")
	case lexer.VAR:
		return nil, p.unsupported(tok, "local var declarations")
	}

	expr, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewDiscardStmt(expr), nil
}

// parseReturnStmt parses `ret [expr]`.
func (p *Parser) parseReturnStmt() (ast.RuntimeStmt, error) {
	if _, err := p.expect(lexer.RET); err != nil {
		return nil, err
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == lexer.SEMICOLON {
		return ast.NewReturnStmt(nil), nil
	}

	value, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewReturnStmt(value), nil
}
