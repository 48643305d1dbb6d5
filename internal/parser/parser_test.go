package parser_test

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"testing"

	"github.com/DucktectiveCZ/duklang/internal/ast"
	"github.com/DucktectiveCZ/duklang/internal/parser"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()

	expr, err := parser.ParseExpr(src)
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", src, err)
	}
	return expr
}

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()

	mod, err := parser.ParseModule(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if mod == nil {
		t.Fatalf("module is nil")
	}
	return mod
}

func assertExpr(t *testing.T, src string, want ast.Expr) {
	t.Helper()

	got := parseExpr(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("%q:\nexpected %s\ngot      %s", src, ast.Format(want), ast.Format(got))
	}
}

func assertKind(t *testing.T, err error, kind parser.ErrorKind) *parser.ParseError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got success", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v error, got %v", kind, err)
	}
	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *parser.ParseError, got %T", err)
	}
	return pe
}

func num(v int64) ast.Expr { return ast.NewIntLiteral(v) }

func TestParseIntegerLiterals(t *testing.T) {
	values := []int64{0, 1, 7, 42, 1000, 123456789, math.MaxInt64}

	for _, n := range values {
		src := strconv.FormatInt(n, 10)
		assertExpr(t, src, ast.NewIntLiteral(n))
		assertExpr(t, src+"u", ast.NewUIntLiteral(uint64(n)))
	}
}

func TestParseIntegerSeparators(t *testing.T) {
	assertExpr(t, "1_000_000", num(1000000))
	assertExpr(t, "18_446_744_073_709_551_615u", ast.NewUIntLiteral(math.MaxUint64))
}

func TestParseFloatLiteral(t *testing.T) {
	expr := parseExpr(t, "3.14")

	lit, ok := expr.(*ast.LiteralExpr)
	if !ok || lit.Kind != ast.FloatLit {
		t.Fatalf("expected float literal, got %#v", expr)
	}
	if math.Abs(lit.Float-3.14) > 1e-9 {
		t.Fatalf("expected 3.14, got %v", lit.Float)
	}

	assertExpr(t, "1_0.5e-1", ast.NewFloatLiteral(1.05))
}

func TestParseStringLiteral(t *testing.T) {
	assertExpr(t, `"hello"`, ast.NewStrLiteral("hello"))
	assertExpr(t, `""`, ast.NewStrLiteral(""))
	assertExpr(t, `"a\tb\n\"c\"\\"`, ast.NewStrLiteral("a\tb\n\"c\"\\"))
	assertExpr(t, `"keep \q"`, ast.NewStrLiteral(`keep \q`))
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Expr
	}{
		{
			src:  "1 + 2 * 3",
			want: ast.NewBinary(ast.Add, num(1), ast.NewBinary(ast.Mul, num(2), num(3))),
		},
		{
			src:  "1 - 2 * 3",
			want: ast.NewBinary(ast.Sub, num(1), ast.NewBinary(ast.Mul, num(2), num(3))),
		},
		{
			src: "1 + 2 * 3 - 4 / 5 % 6",
			want: ast.NewBinary(ast.Sub,
				ast.NewBinary(ast.Add, num(1), ast.NewBinary(ast.Mul, num(2), num(3))),
				ast.NewBinary(ast.Mod, ast.NewBinary(ast.Div, num(4), num(5)), num(6)),
			),
		},
		{
			src:  "1 < 2 == 3 > 4",
			want: ast.NewBinary(ast.Equals, ast.NewBinary(ast.Lower, num(1), num(2)), ast.NewBinary(ast.Greater, num(3), num(4))),
		},
		{
			src:  "a >= b + 1",
			want: ast.NewBinary(ast.GreaterEqual, ast.NewRead("a"), ast.NewBinary(ast.Add, ast.NewRead("b"), num(1))),
		},
		{
			src:  "x = 1 + 2",
			want: ast.NewBinary(ast.Assign, ast.NewRead("x"), ast.NewBinary(ast.Add, num(1), num(2))),
		},
		{
			src:  "(1 + 2) * 3",
			want: ast.NewBinary(ast.Mul, ast.NewBinary(ast.Add, num(1), num(2)), num(3)),
		},
	}

	for _, tt := range tests {
		assertExpr(t, tt.src, tt.want)
	}
}

func TestLeftAssociativity(t *testing.T) {
	assertExpr(t, "1 - 2 - 3", ast.NewBinary(ast.Sub, ast.NewBinary(ast.Sub, num(1), num(2)), num(3)))
	assertExpr(t, "8 / 4 / 2", ast.NewBinary(ast.Div, ast.NewBinary(ast.Div, num(8), num(4)), num(2)))
	assertExpr(t, "a != b <= c", ast.NewBinary(ast.LowerEqual, ast.NewBinary(ast.NotEquals, ast.NewRead("a"), ast.NewRead("b")), ast.NewRead("c")))
}

func TestUnaryExpressions(t *testing.T) {
	assertExpr(t, "-x", ast.NewUnary(ast.Negative, ast.NewRead("x")))
	assertExpr(t, "!~+1", ast.NewUnary(ast.Not, ast.NewUnary(ast.BitNot, ast.NewUnary(ast.Positive, num(1)))))
	assertExpr(t, "--x", ast.NewUnary(ast.Negative, ast.NewUnary(ast.Negative, ast.NewRead("x"))))
	assertExpr(t, "-a * b", ast.NewBinary(ast.Mul, ast.NewUnary(ast.Negative, ast.NewRead("a")), ast.NewRead("b")))
	assertExpr(t, "1 - -2", ast.NewBinary(ast.Sub, num(1), ast.NewUnary(ast.Negative, num(2))))
}

func TestCallExpressions(t *testing.T) {
	assertExpr(t, "foo()", ast.NewCall("foo"))
	assertExpr(t, "foo(1, 2,)", ast.NewCall("foo", num(1), num(2)))
	assertExpr(t, "foo(bar(x), 1 + 2)", ast.NewCall("foo",
		ast.NewCall("bar", ast.NewRead("x")),
		ast.NewBinary(ast.Add, num(1), num(2)),
	))

	call, ok := parseExpr(t, "foo()").(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected call expression")
	}
	if len(call.Args) != 0 {
		t.Fatalf("expected zero arguments, got %d", len(call.Args))
	}
}

func TestIdentifierRead(t *testing.T) {
	assertExpr(t, "foo", ast.NewRead("foo"))
	assertExpr(t, "foo + bar", ast.NewBinary(ast.Add, ast.NewRead("foo"), ast.NewRead("bar")))
}

func TestParseAssignment(t *testing.T) {
	p := parser.New("= 10")
	expr, err := p.ParseAssignment()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(expr, num(10)) {
		t.Fatalf("expected Int(10), got %#v", expr)
	}

	empty := parser.New("")
	expr, err = empty.ParseAssignment()
	if err != nil || expr != nil {
		t.Fatalf("expected no initializer, got %#v (%v)", expr, err)
	}
}

func TestParseAssignmentDoesNotConsume(t *testing.T) {
	p := parser.New("x")

	expr, err := p.ParseAssignment()
	if err != nil || expr != nil {
		t.Fatalf("expected no initializer, got %#v (%v)", expr, err)
	}

	next, err := p.ParseExpr()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(next, ast.NewRead("x")) {
		t.Fatalf("expected lookahead 'x' to be untouched, got %#v", next)
	}
}

func TestExpressionErrors(t *testing.T) {
	_, err := parser.New("").ParseExpr()
	assertKind(t, err, parser.ErrEndOfInput)

	_, err = parser.New(";").ParseExpr()
	pe := assertKind(t, err, parser.ErrUnexpectedToken)
	if pe.Found.Lexeme != ";" {
		t.Fatalf("expected ';' as the found token, got %s", pe.Found)
	}

	_, err = parser.New("foo(1, 2").ParseExpr()
	pe = assertKind(t, err, parser.ErrEndOfInput)
	found := false
	for _, tt := range pe.Expected {
		if tt.String() == "')'" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ')' among the expected tokens, got %v", pe.Expected)
	}
}

func TestParseExprRejectsTrailingTokens(t *testing.T) {
	_, err := parser.ParseExpr("1 2")
	pe := assertKind(t, err, parser.ErrUnexpectedToken)
	if pe.Found.Lexeme != "2" {
		t.Fatalf("expected '2' as the found token, got %s", pe.Found)
	}

	// The method form stops at the first token that cannot continue.
	p := parser.New("1 2")
	if _, err := p.ParseExpr(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBooleanKeywordsAreNotExpressions(t *testing.T) {
	for _, src := range []string{"true", "false"} {
		_, err := parser.ParseExpr(src)
		assertKind(t, err, parser.ErrUnexpectedToken)
	}
}

func TestMalformedNumbers(t *testing.T) {
	tests := []string{
		"9223372036854775808",
		"18446744073709551616u",
		"1.0e999",
	}

	for _, src := range tests {
		_, err := parser.ParseExpr(src)
		pe := assertKind(t, err, parser.ErrMalformedNumber)

		var numErr *strconv.NumError
		if !errors.As(err, &numErr) {
			t.Fatalf("%q: expected wrapped *strconv.NumError, got %v", src, pe.Err)
		}
		if !errors.Is(numErr, strconv.ErrRange) {
			t.Fatalf("%q: expected range error, got %v", src, numErr)
		}
	}
}

func TestLexicalErrorAborts(t *testing.T) {
	_, err := parser.ParseExpr("1 + $")
	pe := assertKind(t, err, parser.ErrLexical)
	if pe.Span.Start != 4 {
		t.Fatalf("expected error at offset 4, got %d", pe.Span.Start)
	}
}
