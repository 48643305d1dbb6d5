package parser

import (
	"github.com/DucktectiveCZ/duklang/internal/lexer"
)

type delimitedConfig struct {
	Closing   lexer.TokenType
	Separator lexer.TokenType

	AllowEmpty    bool
	AllowTrailing bool
}

type delimitedResult[T any] struct {
	Items    []T
	Trailing bool
}

// parseDelimited parses `item (sep item)* [sep] closing` once the opening
// token has been consumed. The closing token is consumed on success. Items is
// nil for an empty list.
func parseDelimited[T any](p *Parser, cfg delimitedConfig, parseItem func(idx int) (T, error)) (delimitedResult[T], error) {
	var result delimitedResult[T]

	if cfg.Separator == lexer.ILLEGAL {
		cfg.Separator = lexer.COMMA
	}

	if cfg.Closing == lexer.ILLEGAL {
		panic("parseDelimited requires a closing token")
	}

	tok, err := p.peek()
	if err != nil {
		return result, err
	}
	if tok.Type == cfg.Closing {
		if !cfg.AllowEmpty {
			return result, p.unexpected(tok)
		}
		_, err := p.advance()
		return result, err
	}

	for {
		item, err := parseItem(len(result.Items))
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, item)

		tok, err := p.peek()
		if err != nil {
			return result, err
		}

		switch tok.Type {
		case cfg.Separator:
			if _, err := p.advance(); err != nil {
				return result, err
			}

			next, err := p.peek()
			if err != nil {
				return result, err
			}
			if next.Type == cfg.Closing {
				if !cfg.AllowTrailing {
					return result, p.unexpected(next)
				}
				result.Trailing = true
				_, err := p.advance()
				return result, err
			}
		case cfg.Closing:
			_, err := p.advance()
			return result, err
		default:
			return result, p.mismatch(tok, cfg.Separator, cfg.Closing)
		}
	}
}
