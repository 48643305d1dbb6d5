package parser_test

import (
	"errors"
	"testing"

	"github.com/DucktectiveCZ/duklang/internal/diag"
	"github.com/DucktectiveCZ/duklang/internal/lexer"
	"github.com/DucktectiveCZ/duklang/internal/parser"
)

func TestModuleErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind parser.ErrorKind
	}{
		{"class is unsupported", "class Foo {}", parser.ErrUnsupported},
		{"module val is unsupported", "val x = 1;", parser.ErrUnsupported},
		{"let is val", "let x = 1;", parser.ErrUnsupported},
		{"stray token", "1 + 2;", parser.ErrUnexpectedToken},
		{"missing arg type", "fun f(x) {}", parser.ErrMissingTypeAnnot},
		{"missing var type", "var x = 1;", parser.ErrMissingTypeAnnot},
		{"missing var initializer", "var x: Int;", parser.ErrMissingAssignment},
		{"missing code block", "fun f(): Int;", parser.ErrMissingCodeBlock},
		{"missing semicolon", "fun f() { 1 }", parser.ErrTokenMismatch},
		{"var needs semicolon", "var x: Int = 1 fun f() {}", parser.ErrTokenMismatch},
		{"unclosed block", "fun f() { 1;", parser.ErrEndOfInput},
		{"dangling visibility", "pub", parser.ErrEndOfInput},
		{"nested fun is unsupported", "fun f() { fun g() {}; }", parser.ErrUnsupported},
		{"local var is unsupported", "fun f() { var x: Int = 1; }", parser.ErrUnsupported},
		{"local class is unsupported", "fun f() { class C {}; }", parser.ErrUnsupported},
		{"attribute on expression", "fun f() { @a 1; }", parser.ErrTokenMismatch},
		{"attribute needs name", "@ fun f() {}", parser.ErrTokenMismatch},
		{"lexical error", "fun f() { \"open }", parser.ErrLexical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := parser.ParseModule(tt.src)
			if mod != nil {
				t.Fatalf("expected no module on failure, got %#v", mod)
			}
			assertKind(t, err, tt.kind)
		})
	}
}

func TestFirstErrorAbortsModule(t *testing.T) {
	_, err := parser.ParseModule("class A {}\nfun f(x) {}")
	pe := assertKind(t, err, parser.ErrUnsupported)
	if pe.Span.Line != 1 {
		t.Fatalf("expected the first error on line 1, got %s", pe.Span)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"fun f(x) {}", `1:8: missing type annotation for "x"`},
		{"var x: Int;", `1:11: missing initializer for "x"`},
		{"fun f()", "1:8: missing code block, found end of input"},
		{"class C {}", "1:1: class declarations are not supported yet"},
		{"fun f() { 1 }", `1:13: expected ';', found '}'`},
	}

	for _, tt := range tests {
		_, err := parser.ParseModule(tt.src)
		if err == nil {
			t.Fatalf("%q: expected an error", tt.src)
		}
		if got := err.Error(); got != tt.want {
			t.Fatalf("%q: expected %q, got %q", tt.src, tt.want, got)
		}
	}
}

func TestWithFilenameStampsSpans(t *testing.T) {
	_, err := parser.ParseModule("\nfun f(x) {}", parser.WithFilename("main.duk"))

	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *parser.ParseError, got %v", err)
	}
	if pe.Span.Filename != "main.duk" || pe.Span.Line != 2 {
		t.Fatalf("expected main.duk:2, got %s", pe.Span)
	}
}

func TestLexicalErrorUnwrapsToLexerError(t *testing.T) {
	_, err := parser.ParseExpr("`")

	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected wrapped *lexer.Error, got %v", err)
	}
	if lexErr.Kind != lexer.ErrIllegalChar {
		t.Fatalf("expected ErrIllegalChar, got %v", lexErr.Kind)
	}
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"fun f() {", true},
		{"fun f()", true},
		{"1 +", true},
		{"foo(1, 2", true},
		{`"open`, true},
		{"/* open", true},
		{"1 2", false},
		{"class C {}", false},
		{"$", false},
	}

	for _, tt := range tests {
		_, err := parser.ParseSnippet(tt.src)
		if err == nil {
			t.Fatalf("%q: expected an error", tt.src)
		}
		if got := parser.IsIncomplete(err); got != tt.want {
			t.Fatalf("%q: expected IsIncomplete=%v, got %v (%v)", tt.src, tt.want, got, err)
		}
	}

	if parser.IsIncomplete(errors.New("other")) {
		t.Fatalf("expected foreign errors to be complete")
	}
}

func TestToDiagnostic(t *testing.T) {
	_, err := parser.ParseModule("var x = 1;", parser.WithFilename("m.duk"))

	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *parser.ParseError, got %v", err)
	}

	d := pe.ToDiagnostic()
	if d.Stage != diag.StageParser {
		t.Fatalf("expected stage %q, got %q", diag.StageParser, d.Stage)
	}
	if d.Code != diag.CodeParseMissingTypeAnnot {
		t.Fatalf("expected code %q, got %q", diag.CodeParseMissingTypeAnnot, d.Code)
	}
	if d.Span.Filename != "m.duk" || d.Span.Column != 7 {
		t.Fatalf("unexpected span %+v", d.Span)
	}
	if d.Help == "" {
		t.Fatalf("expected help text for a missing annotation")
	}

	_, err = parser.ParseExpr("1 + `")
	if !errors.As(err, &pe) {
		t.Fatalf("expected *parser.ParseError, got %v", err)
	}
	if d := pe.ToDiagnostic(); d.Stage != diag.StageLexer || d.Code != diag.CodeLexerIllegalChar {
		t.Fatalf("expected the lexer diagnostic, got %+v", d)
	}
}
