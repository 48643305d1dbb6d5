package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DucktectiveCZ/duklang/internal/diag"
	"github.com/DucktectiveCZ/duklang/internal/lexer"
)

// ErrorKind classifies a parse failure. Every kind is itself an error, so
// callers can match with errors.Is(err, parser.ErrEndOfInput).
type ErrorKind int

const (
	// ErrLexical wraps a *lexer.Error met in the token stream.
	ErrLexical ErrorKind = iota
	// ErrEndOfInput reports input ending where a token was required.
	ErrEndOfInput
	// ErrTokenMismatch reports a token other than the expected one(s).
	ErrTokenMismatch
	// ErrUnexpectedToken reports a token no grammar rule accepts here.
	ErrUnexpectedToken
	// ErrMalformedNumber wraps the *strconv.NumError of a numeric literal.
	ErrMalformedNumber
	ErrMissingTypeAnnot
	ErrMissingAssignment
	ErrMissingCodeBlock
	// ErrUnsupported reports reserved grammar that is not implemented.
	ErrUnsupported
)

var errorKindNames = [...]string{
	ErrLexical:           "lexical error",
	ErrEndOfInput:        "unexpected end of input",
	ErrTokenMismatch:     "token mismatch",
	ErrUnexpectedToken:   "unexpected token",
	ErrMalformedNumber:   "malformed number literal",
	ErrMissingTypeAnnot:  "missing type annotation",
	ErrMissingAssignment: "missing assignment",
	ErrMissingCodeBlock:  "missing code block",
	ErrUnsupported:       "unsupported construct",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) Error() string { return k.String() }

func (k ErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrLexical:
		return diag.CodeParseLexical
	case ErrEndOfInput:
		return diag.CodeParseEndOfInput
	case ErrTokenMismatch:
		return diag.CodeParseTokenMismatch
	case ErrUnexpectedToken:
		return diag.CodeParseUnexpectedToken
	case ErrMalformedNumber:
		return diag.CodeParseMalformedNumber
	case ErrMissingTypeAnnot:
		return diag.CodeParseMissingTypeAnnot
	case ErrMissingAssignment:
		return diag.CodeParseMissingAssignment
	case ErrMissingCodeBlock:
		return diag.CodeParseMissingCodeBlock
	case ErrUnsupported:
		return diag.CodeParseUnsupported
	default:
		return diag.Code("PARSE_UNKNOWN_ERROR")
	}
}

// ParseError is the single failure a parse reports.
type ParseError struct {
	Kind ErrorKind
	// Expected lists the acceptable token types for ErrTokenMismatch and,
	// when known, ErrEndOfInput.
	Expected []lexer.TokenType
	// Found is the offending lookahead token.
	Found lexer.Token
	Span  lexer.Span
	// Construct names the rejected grammar for ErrUnsupported.
	Construct string
	// Err is the underlying cause: a *lexer.Error or a *strconv.NumError.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.message())
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches the error against an ErrorKind.
func (e *ParseError) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

func (e *ParseError) message() string {
	switch e.Kind {
	case ErrLexical:
		var lexErr *lexer.Error
		if errors.As(e.Err, &lexErr) {
			return lexErr.Message
		}
		return "lexical error"
	case ErrEndOfInput:
		if len(e.Expected) > 0 {
			return "unexpected end of input, expected " + expectedList(e.Expected)
		}
		return "unexpected end of input"
	case ErrTokenMismatch:
		return fmt.Sprintf("expected %s, found %s", expectedList(e.Expected), e.Found)
	case ErrUnexpectedToken:
		return fmt.Sprintf("unexpected %s", e.Found)
	case ErrMalformedNumber:
		return fmt.Sprintf("malformed number literal %q: %v", e.Found.Lexeme, errors.Unwrap(e.Err))
	case ErrMissingTypeAnnot:
		return fmt.Sprintf("missing type annotation for %q", e.Construct)
	case ErrMissingAssignment:
		return fmt.Sprintf("missing initializer for %q", e.Construct)
	case ErrMissingCodeBlock:
		return fmt.Sprintf("missing code block, found %s", e.Found)
	case ErrUnsupported:
		return fmt.Sprintf("%s are not supported yet", e.Construct)
	default:
		return e.Kind.String()
	}
}

func expectedList(types []lexer.TokenType) string {
	names := make([]string, len(types))
	for i, tt := range types {
		names[i] = tt.String()
	}
	if len(names) == 1 {
		return names[0]
	}
	return "one of " + strings.Join(names, ", ")
}

// ToDiagnostic converts a parse error into a shared diagnostic structure.
// Lexical errors keep the lexer's own diagnostic.
func (e *ParseError) ToDiagnostic() diag.Diagnostic {
	var lexErr *lexer.Error
	if e.Kind == ErrLexical && errors.As(e.Err, &lexErr) {
		return lexErr.ToDiagnostic()
	}

	d := diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.message(),
		Span:     e.Span.ToDiag(),
	}

	switch e.Kind {
	case ErrMissingTypeAnnot:
		d = d.WithHelp(fmt.Sprintf("annotate the type: `%s: Type`", e.Construct))
	case ErrMissingAssignment:
		d = d.WithHelp(fmt.Sprintf("mutable bindings need an initializer: `var %s: Type = value`", e.Construct))
	case ErrMissingCodeBlock:
		d = d.WithHelp("add a function body: `{ ... }`")
	case ErrUnsupported:
		d = d.WithNote("this syntax is reserved but not implemented")
	}
	return d
}

// IsIncomplete reports whether err was caused by input ending too early, so
// an interactive driver can ask for another line instead of failing.
func IsIncomplete(err error) bool {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return false
	}
	if pe.Found.Type == lexer.EOF {
		return true
	}

	var lexErr *lexer.Error
	if errors.As(pe.Err, &lexErr) {
		return lexErr.Kind == lexer.ErrUnterminatedString || lexErr.Kind == lexer.ErrUnterminatedBlockComment
	}
	return false
}

func (p *Parser) newError(kind ErrorKind, found lexer.Token) *ParseError {
	return &ParseError{Kind: kind, Found: found, Span: found.Span}
}

func (p *Parser) lexicalError(found lexer.Token, err error) *ParseError {
	pe := p.newError(ErrLexical, found)
	pe.Err = err
	return pe
}

// mismatch reports found where one of expected was required.
func (p *Parser) mismatch(found lexer.Token, expected ...lexer.TokenType) *ParseError {
	kind := ErrTokenMismatch
	if found.Type == lexer.EOF {
		kind = ErrEndOfInput
	}
	pe := p.newError(kind, found)
	pe.Expected = expected
	return pe
}

// unexpected reports found where no grammar rule applies.
func (p *Parser) unexpected(found lexer.Token) *ParseError {
	if found.Type == lexer.EOF {
		return p.newError(ErrEndOfInput, found)
	}
	return p.newError(ErrUnexpectedToken, found)
}

func (p *Parser) unsupported(found lexer.Token, construct string) *ParseError {
	pe := p.newError(ErrUnsupported, found)
	pe.Construct = construct
	return pe
}

func (p *Parser) missing(kind ErrorKind, found lexer.Token, subject string) *ParseError {
	pe := p.newError(kind, found)
	pe.Construct = subject
	return pe
}

func (p *Parser) malformedNumber(found lexer.Token, err error) *ParseError {
	pe := p.newError(ErrMalformedNumber, found)
	pe.Err = err
	return pe
}
