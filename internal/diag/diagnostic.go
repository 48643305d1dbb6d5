package diag

import "fmt"

// Stage identifies which front-end phase produced the diagnostic.
type Stage string

const (
	StageLexer  Stage = "lexer"
	StageParser Stage = "parser"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// LabeledSpan is a span with an optional label drawn under the snippet.
type LabeledSpan struct {
	Span  Span
	Label string
}

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerUnterminatedString       Code = "LEXER_UNTERMINATED_STRING"
	CodeLexerUnterminatedBlockComment Code = "LEXER_UNTERMINATED_BLOCK_COMMENT"
	CodeLexerIllegalChar              Code = "LEXER_ILLEGAL_CHAR"

	// Parser errors
	CodeParseLexical           Code = "PARSE_LEXICAL"
	CodeParseEndOfInput        Code = "PARSE_END_OF_INPUT"
	CodeParseTokenMismatch     Code = "PARSE_TOKEN_MISMATCH"
	CodeParseUnexpectedToken   Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseMalformedNumber   Code = "PARSE_MALFORMED_NUMBER"
	CodeParseMissingTypeAnnot  Code = "PARSE_MISSING_TYPE_ANNOT"
	CodeParseMissingAssignment Code = "PARSE_MISSING_ASSIGNMENT"
	CodeParseMissingCodeBlock  Code = "PARSE_MISSING_CODE_BLOCK"
	CodeParseUnsupported       Code = "PARSE_UNSUPPORTED"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a front-end diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span // primary span
	// Labels are secondary spans rendered after the primary one.
	Labels []LabeledSpan
	Notes  []string
	Help   string
}

// Error makes a Diagnostic usable as an error value.
func (d Diagnostic) Error() string {
	if d.Span.IsValid() {
		return fmt.Sprintf("%s: %s[%s]: %s", d.Span, d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message)
}

// WithLabel adds a secondary labeled span.
func (d Diagnostic) WithLabel(span Span, label string) Diagnostic {
	d.Labels = append(d.Labels, LabeledSpan{Span: span, Label: label})
	return d
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp sets the help text of the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}
