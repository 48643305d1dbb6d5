package parser

import (
	"strconv"
	"strings"

	"github.com/DucktectiveCZ/duklang/internal/ast"
	"github.com/DucktectiveCZ/duklang/internal/lexer"
)

// parseLiteral converts a consumed literal token into its AST node.
func (p *Parser) parseLiteral(tok lexer.Token) (ast.Expr, error) {
	switch tok.Type {
	case lexer.INT:
		v, err := strconv.ParseInt(stripSeparators(tok.Lexeme), 10, 64)
		if err != nil {
			return nil, p.malformedNumber(tok, err)
		}
		return ast.NewIntLiteral(v), nil

	case lexer.UINT:
		digits := strings.TrimSuffix(tok.Lexeme, "u")
		v, err := strconv.ParseUint(stripSeparators(digits), 10, 64)
		if err != nil {
			return nil, p.malformedNumber(tok, err)
		}
		return ast.NewUIntLiteral(v), nil

	case lexer.FLOAT:
		// ParseFloat returns ±Inf with a range error on overflow; the literal
		// is rejected rather than silently saturated.
		v, err := strconv.ParseFloat(stripSeparators(tok.Lexeme), 64)
		if err != nil {
			return nil, p.malformedNumber(tok, err)
		}
		return ast.NewFloatLiteral(v), nil

	case lexer.STRING:
		return ast.NewStrLiteral(unquote(tok.Lexeme)), nil

	default:
		return nil, p.unexpected(tok)
	}
}

func stripSeparators(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	return strings.ReplaceAll(s, "_", "")
}

// unquote strips the quotes of a string lexeme and decodes its escapes.
// Unknown escapes are kept verbatim, backslash included.
func unquote(lexeme string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(lexeme, `"`), `"`)
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}

		i++
		switch esc := body[i]; esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '"':
			b.WriteByte(esc)
		default:
			b.WriteByte('\\')
			b.WriteByte(esc)
		}
	}
	return b.String()
}
