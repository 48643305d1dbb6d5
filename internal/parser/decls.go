package parser

import (
	"github.com/DucktectiveCZ/duklang/internal/ast"
	"github.com/DucktectiveCZ/duklang/internal/lexer"
)

// ParseModule parses group members until the input is exhausted.
func (p *Parser) ParseModule() (*ast.Module, error) {
	mod := ast.NewModule()

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.EOF {
			return mod, nil
		}

		member, err := p.ParseGroupMember()
		if err != nil {
			return nil, err
		}
		mod.Members = append(mod.Members, member)
	}
}

// ParseGroupMember parses one module-level declaration: attributes, then an
// optional visibility, then the declaration introduced by its keyword.
func (p *Parser) ParseGroupMember() (ast.GroupMember, error) {
	attrs, vis, err := p.parseDeclHeader()
	if err != nil {
		return nil, err
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case lexer.FUN:
		decl, err := p.parseFunDecl(attrs, vis)
		if err != nil {
			return nil, err
		}
		return decl, nil
	case lexer.VAR:
		decl, err := p.parseVarDecl(attrs, vis)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return nil, err
		}
		return decl, nil
	case lexer.CLASS:
		return nil, p.unsupported(tok, "class declarations")
	case lexer.VAL:
		return nil, p.unsupported(tok, "module-level val declarations")
	default:
		return nil, p.unexpected(tok)
	}
}

// ParseFunDecl parses `[attrs] [vis] fun [name] (args) [: Type] { ... }`.
func (p *Parser) ParseFunDecl() (*ast.FunDecl, error) {
	attrs, vis, err := p.parseDeclHeader()
	if err != nil {
		return nil, err
	}
	return p.parseFunDecl(attrs, vis)
}

// ParseVarDecl parses `[attrs] [vis] var name: Type = expr` without the
// terminating semicolon.
func (p *Parser) ParseVarDecl() (*ast.VarDecl, error) {
	attrs, vis, err := p.parseDeclHeader()
	if err != nil {
		return nil, err
	}
	return p.parseVarDecl(attrs, vis)
}

// ParseImmutableVariableDecl parses `[attrs] [vis] val name [: Type] [= expr]`
// without the terminating semicolon. `let` is accepted for `val`.
func (p *Parser) ParseImmutableVariableDecl() (*ast.ValDecl, error) {
	attrs, vis, err := p.parseDeclHeader()
	if err != nil {
		return nil, err
	}
	return p.parseImmutableVariableDecl(attrs, vis)
}

func (p *Parser) parseDeclHeader() ([]*ast.AttributeAnnot, ast.Visibility, error) {
	attrs, err := p.ParseAttributeAnnots()
	if err != nil {
		return nil, ast.Default, err
	}
	vis, err := p.ParseVisibilityAnnot()
	if err != nil {
		return nil, ast.Default, err
	}
	return attrs, vis, nil
}

func (p *Parser) parseFunDecl(attrs []*ast.AttributeAnnot, vis ast.Visibility) (*ast.FunDecl, error) {
	if _, err := p.expect(lexer.FUN); err != nil {
		return nil, err
	}

	decl := &ast.FunDecl{Attrs: attrs, Visibility: vis}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == lexer.IDENT {
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		decl.Name = tok.Lexeme
	}

	if decl.Args, err = p.parseArgsInDecl(); err != nil {
		return nil, err
	}
	if decl.ReturnType, err = p.ParseTypeAnnot(); err != nil {
		return nil, err
	}
	if decl.Body, err = p.ParseCodeBlock(); err != nil {
		return nil, err
	}
	if decl.Body == nil {
		tok, _ := p.peek()
		return nil, p.newError(ErrMissingCodeBlock, tok)
	}

	return decl, nil
}

// parseArgsInDecl parses `( [name: Type {, name: Type} [,]] )`.
func (p *Parser) parseArgsInDecl() ([]*ast.ArgDecl, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	res, err := parseDelimited(p, delimitedConfig{
		Closing:       lexer.RPAREN,
		Separator:     lexer.COMMA,
		AllowEmpty:    true,
		AllowTrailing: true,
	}, func(int) (*ast.ArgDecl, error) {
		return p.parseArgDecl()
	})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (p *Parser) parseArgDecl() (*ast.ArgDecl, error) {
	attrs, err := p.ParseAttributeAnnots()
	if err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	typ, err := p.ParseTypeAnnot()
	if err != nil {
		return nil, err
	}
	if typ == "" {
		tok, _ := p.peek()
		return nil, p.missing(ErrMissingTypeAnnot, tok, name.Lexeme)
	}

	return ast.NewArgDecl(name.Lexeme, typ, attrs...), nil
}

func (p *Parser) parseVarDecl(attrs []*ast.AttributeAnnot, vis ast.Visibility) (*ast.VarDecl, error) {
	if _, err := p.expect(lexer.VAR); err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	decl := &ast.VarDecl{Name: name.Lexeme, Attrs: attrs, Visibility: vis}

	if decl.Type, err = p.ParseTypeAnnot(); err != nil {
		return nil, err
	}
	if decl.Type == "" {
		tok, _ := p.peek()
		return nil, p.missing(ErrMissingTypeAnnot, tok, decl.Name)
	}

	if decl.Value, err = p.ParseAssignment(); err != nil {
		return nil, err
	}
	if decl.Value == nil {
		tok, _ := p.peek()
		return nil, p.missing(ErrMissingAssignment, tok, decl.Name)
	}

	return decl, nil
}

func (p *Parser) parseImmutableVariableDecl(attrs []*ast.AttributeAnnot, vis ast.Visibility) (*ast.ValDecl, error) {
	if _, err := p.expect(lexer.VAL); err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	decl := &ast.ValDecl{Name: name.Lexeme, Attrs: attrs, Visibility: vis}

	if decl.Type, err = p.ParseTypeAnnot(); err != nil {
		return nil, err
	}
	if decl.Value, err = p.ParseAssignment(); err != nil {
		return nil, err
	}

	return decl, nil
}

// ParseAttributeAnnots parses zero or more attribute annotations, stopping
// without consuming at the first token that is not '@'.
func (p *Parser) ParseAttributeAnnots() ([]*ast.AttributeAnnot, error) {
	var attrs []*ast.AttributeAnnot

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.AT {
			return attrs, nil
		}

		attr, err := p.ParseAttributeAnnot()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
}

// ParseAttributeAnnot parses `@name` or `@name(args...)`.
func (p *Parser) ParseAttributeAnnot() (*ast.AttributeAnnot, error) {
	if _, err := p.expect(lexer.AT); err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	open, err := p.accept(lexer.LPAREN)
	if err != nil {
		return nil, err
	}
	if !open {
		return ast.NewAttributeAnnot(name.Lexeme), nil
	}

	args, err := p.parseArgsInCall()
	if err != nil {
		return nil, err
	}
	return ast.NewAttributeAnnot(name.Lexeme, args...), nil
}

// ParseVisibilityAnnot maps `pub` and `priv` to their visibility. Any other
// lookahead yields ast.Default and is left unconsumed.
func (p *Parser) ParseVisibilityAnnot() (ast.Visibility, error) {
	tok, err := p.peek()
	if err != nil {
		return ast.Default, err
	}

	var vis ast.Visibility
	switch tok.Type {
	case lexer.PUB:
		vis = ast.Public
	case lexer.PRIV:
		vis = ast.Private
	default:
		return ast.Default, nil
	}

	if _, err := p.advance(); err != nil {
		return ast.Default, err
	}
	return vis, nil
}

// ParseTypeAnnot parses an optional `: Ident` and returns the type name, or ""
// when no colon follows.
func (p *Parser) ParseTypeAnnot() (string, error) {
	colon, err := p.accept(lexer.COLON)
	if err != nil || !colon {
		return "", err
	}

	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return "", err
	}
	return name.Lexeme, nil
}
