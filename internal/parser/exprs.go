package parser

import (
	"github.com/DucktectiveCZ/duklang/internal/ast"
	"github.com/DucktectiveCZ/duklang/internal/lexer"
)

const (
	precedenceLowest     = 0
	precedenceAssign     = 1
	precedenceEquality   = 2
	precedenceComparison = 3
	precedenceSum        = 4
	precedenceProduct    = 5
)

type binaryOp struct {
	op   ast.BinOp
	prec int
}

// binaryOps maps infix operator tokens to their operator and binding power.
// Tokens missing from the table end an expression.
var binaryOps = map[lexer.TokenType]binaryOp{
	lexer.ASSIGN:   {ast.Assign, precedenceAssign},
	lexer.EQ:       {ast.Equals, precedenceEquality},
	lexer.NOT_EQ:   {ast.NotEquals, precedenceEquality},
	lexer.GE:       {ast.GreaterEqual, precedenceEquality},
	lexer.LE:       {ast.LowerEqual, precedenceEquality},
	lexer.GT:       {ast.Greater, precedenceComparison},
	lexer.LT:       {ast.Lower, precedenceComparison},
	lexer.PLUS:     {ast.Add, precedenceSum},
	lexer.MINUS:    {ast.Sub, precedenceSum},
	lexer.ASTERISK: {ast.Mul, precedenceProduct},
	lexer.SLASH:    {ast.Div, precedenceProduct},
	lexer.PERCENT:  {ast.Mod, precedenceProduct},
}

var unaryOps = map[lexer.TokenType]ast.UnaryOp{
	lexer.BANG:  ast.Not,
	lexer.PLUS:  ast.Positive,
	lexer.MINUS: ast.Negative,
	lexer.TILDE: ast.BitNot,
}

// ParseExpr parses an expression. It stops, without consuming, at the first
// token that cannot continue the expression.
func (p *Parser) ParseExpr() (ast.Expr, error) {
	return p.parseBinaryExpr(precedenceLowest)
}

// ParseAssignment parses an optional `= expr` initializer. It returns a nil
// expression and consumes nothing when the lookahead is not '='.
func (p *Parser) ParseAssignment() (ast.Expr, error) {
	assign, err := p.accept(lexer.ASSIGN)
	if err != nil || !assign {
		return nil, err
	}
	return p.ParseExpr()
}

// parseBinaryExpr climbs precedence: operators binding at least minPrec are
// folded into the left operand, and each right operand demands strictly
// higher precedence, which makes equal-precedence chains left-associative.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		info, ok := binaryOps[tok.Type]
		if !ok || info.prec < minPrec {
			return left, nil
		}
		if _, err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.parseBinaryExpr(info.prec + 1)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(info.op, left, right)
	}
}

func (p *Parser) parsePrimaryExpr() (ast.Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case lexer.INT, lexer.UINT, lexer.FLOAT, lexer.STRING:
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseLiteral(tok)

	case lexer.IDENT:
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		call, err := p.accept(lexer.LPAREN)
		if err != nil {
			return nil, err
		}
		if !call {
			return ast.NewRead(tok.Lexeme), nil
		}
		args, err := p.parseArgsInCall()
		if err != nil {
			return nil, err
		}
		return ast.NewCall(tok.Lexeme, args...), nil

	case lexer.LPAREN:
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	}

	if op, ok := unaryOps[tok.Type]; ok {
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parsePrimaryExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(op, operand), nil
	}

	return nil, p.unexpected(tok)
}

// parseArgsInCall parses the arguments of a call once '(' is consumed.
func (p *Parser) parseArgsInCall() ([]ast.Expr, error) {
	res, err := parseDelimited(p, delimitedConfig{
		Closing:       lexer.RPAREN,
		Separator:     lexer.COMMA,
		AllowEmpty:    true,
		AllowTrailing: true,
	}, func(int) (ast.Expr, error) {
		return p.ParseExpr()
	})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}
