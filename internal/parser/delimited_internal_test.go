package parser

import (
	"errors"
	"testing"

	"github.com/DucktectiveCZ/duklang/internal/lexer"
)

// openList returns a parser positioned just after the opening '('.
func openList(t *testing.T, src string) *Parser {
	t.Helper()

	p := New(src)
	if _, err := p.expect(lexer.LPAREN); err != nil {
		t.Fatalf("expected initial token '(', got error %v", err)
	}
	return p
}

func parseIdentLiteral(p *Parser) func(int) (string, error) {
	return func(_ int) (string, error) {
		tok, err := p.expect(lexer.IDENT)
		if err != nil {
			return "", err
		}
		return tok.Lexeme, nil
	}
}

func TestParseDelimited_AllowsEmpty(t *testing.T) {
	p := openList(t, "() x")

	cfg := delimitedConfig{
		Closing:    lexer.RPAREN,
		Separator:  lexer.COMMA,
		AllowEmpty: true,
	}

	res, err := parseDelimited(p, cfg, func(int) (string, error) {
		t.Fatalf("unexpected element parse invocation for empty list")
		return "", nil
	})
	if err != nil {
		t.Fatalf("expected success for empty list, got %v", err)
	}

	if res.Items != nil {
		t.Fatalf("expected nil items, got %#v", res.Items)
	}
	if res.Trailing {
		t.Fatalf("expected trailing flag to be false for empty list")
	}

	if tok, _ := p.peek(); tok.Type != lexer.IDENT {
		t.Fatalf("expected closing token to be consumed, lookahead is %s", tok)
	}
}

func TestParseDelimited_RejectsEmpty(t *testing.T) {
	p := openList(t, "()")

	_, err := parseDelimited(p, delimitedConfig{Closing: lexer.RPAREN}, parseIdentLiteral(p))
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("expected unexpected-token error, got %v", err)
	}
}

func TestParseDelimited_ParsesMultipleElements(t *testing.T) {
	p := openList(t, "(foo, bar, baz)")

	cfg := delimitedConfig{
		Closing:   lexer.RPAREN,
		Separator: lexer.COMMA,
	}

	res, err := parseDelimited(p, cfg, parseIdentLiteral(p))
	if err != nil {
		t.Fatalf("expected multi-element parse to succeed, got %v", err)
	}

	want := []string{"foo", "bar", "baz"}
	if len(res.Items) != len(want) {
		t.Fatalf("expected three elements, got %d", len(res.Items))
	}
	for i, v := range want {
		if res.Items[i] != v {
			t.Fatalf("expected element %d to be %q, got %q", i, v, res.Items[i])
		}
	}

	if res.Trailing {
		t.Fatalf("expected trailing flag to be false without trailing comma")
	}
}

func TestParseDelimited_TrailingCommaPolicies(t *testing.T) {
	t.Run("rejects trailing comma when disallowed", func(t *testing.T) {
		p := openList(t, "(foo,)")

		cfg := delimitedConfig{
			Closing:       lexer.RPAREN,
			Separator:     lexer.COMMA,
			AllowTrailing: false,
		}

		res, err := parseDelimited(p, cfg, parseIdentLiteral(p))
		if err == nil {
			t.Fatalf("expected parse failure when trailing comma is disallowed, got success with %#v", res)
		}

		var pe *ParseError
		if !errors.As(err, &pe) || pe.Kind != ErrUnexpectedToken || pe.Found.Type != lexer.RPAREN {
			t.Fatalf("expected unexpected ')' error, got %v", err)
		}
	})

	t.Run("accepts trailing comma when allowed", func(t *testing.T) {
		p := openList(t, "(foo,)")

		cfg := delimitedConfig{
			Closing:       lexer.RPAREN,
			Separator:     lexer.COMMA,
			AllowTrailing: true,
		}

		res, err := parseDelimited(p, cfg, parseIdentLiteral(p))
		if err != nil {
			t.Fatalf("expected success when trailing comma is allowed, got %v", err)
		}

		if len(res.Items) != 1 || res.Items[0] != "foo" {
			t.Fatalf("expected single element 'foo', got %#v", res.Items)
		}
		if !res.Trailing {
			t.Fatalf("expected trailing flag to be true when trailing comma is present")
		}
	})
}

func TestParseDelimited_MissingSeparator(t *testing.T) {
	p := openList(t, "(foo bar)")

	_, err := parseDelimited(p, delimitedConfig{Closing: lexer.RPAREN}, parseIdentLiteral(p))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError for missing separator, got %v", err)
	}
	if pe.Kind != ErrTokenMismatch {
		t.Fatalf("expected token mismatch, got %v", pe.Kind)
	}
	if len(pe.Expected) != 2 || pe.Expected[0] != lexer.COMMA || pe.Expected[1] != lexer.RPAREN {
		t.Fatalf("expected [',' ')'], got %v", pe.Expected)
	}
	if pe.Found.Lexeme != "bar" {
		t.Fatalf("expected found token 'bar', got %s", pe.Found)
	}
	if got := pe.Error(); got != `1:6: expected one of ',', ')', found identifier "bar"` {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestParseDelimited_UnterminatedList(t *testing.T) {
	p := openList(t, "(foo, bar")

	_, err := parseDelimited(p, delimitedConfig{Closing: lexer.RPAREN}, parseIdentLiteral(p))
	if !errors.Is(err, ErrEndOfInput) {
		t.Fatalf("expected end of input, got %v", err)
	}
}

func TestPeekIsIdempotent(t *testing.T) {
	p := New("a b")

	first, _ := p.peek()
	second, _ := p.peek()
	if first != second || first.Lexeme != "a" {
		t.Fatalf("expected repeated peeks to return 'a', got %s then %s", first, second)
	}

	if tok, _ := p.advance(); tok.Lexeme != "a" {
		t.Fatalf("expected advance to consume 'a', got %s", tok)
	}
	if tok, _ := p.peek(); tok.Lexeme != "b" {
		t.Fatalf("expected lookahead 'b', got %s", tok)
	}
}

func TestExpectDoesNotConsumeOnMismatch(t *testing.T) {
	p := New("x")

	if _, err := p.expect(lexer.LPAREN); !errors.Is(err, ErrTokenMismatch) {
		t.Fatalf("expected token mismatch, got %v", err)
	}
	if tok, _ := p.peek(); tok.Type != lexer.IDENT {
		t.Fatalf("expected 'x' to remain in the lookahead, got %s", tok)
	}
}

func TestLexicalErrorIsSticky(t *testing.T) {
	p := New("$ x")

	_, err1 := p.peek()
	_, err2 := p.advance()
	if err1 == nil || err1 != err2 {
		t.Fatalf("expected the same lexical error twice, got %v and %v", err1, err2)
	}
	if !errors.Is(err1, ErrLexical) {
		t.Fatalf("expected ErrLexical, got %v", err1)
	}
}
