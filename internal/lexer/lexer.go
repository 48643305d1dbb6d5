package lexer

import (
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/DucktectiveCZ/duklang/internal/diag"
)

type ErrorKind int

const (
	ErrIllegalChar ErrorKind = iota
	ErrUnterminatedString
	ErrUnterminatedBlockComment
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIllegalChar:
		return "illegal character"
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrUnterminatedBlockComment:
		return "unterminated block comment"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a lexical error. The offending bytes are covered by Span.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

func (k ErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrUnterminatedBlockComment:
		return diag.CodeLexerUnterminatedBlockComment
	case ErrIllegalChar:
		return diag.CodeLexerIllegalChar
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e *Error) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span:     e.Span.ToDiag(),
	}
}

// ToDiag converts the span into the shared diagnostic span.
func (s Span) ToDiag() diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

// Lexer is a forward-only cursor over a source string. Each call to Next
// yields one token; whitespace and comments are skipped.
//
// The token most recently returned by Next is the current item: Span and
// Slice describe it until the next call.
type Lexer struct {
	src      string
	filename string

	pos    int // offset of the next unscanned byte
	line   int // line of src[pos]
	column int // column of src[pos]

	cur    Token
	errors []*Error
}

// New creates a lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, column: 1}
}

// SetFilename attributes every emitted span to name.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Span returns the byte span of the current item.
func (l *Lexer) Span() Span { return l.cur.Span }

// Slice returns the source text of the current item.
func (l *Lexer) Slice() string { return l.cur.Lexeme }

// Errors returns every lexical error reported so far, in source order.
func (l *Lexer) Errors() []*Error { return l.errors }

// Next returns the next token. At end of input it returns an EOF token with
// an empty span on every call. Malformed input yields an ILLEGAL token along
// with a non-nil *Error; scanning resumes after the offending bytes.
func (l *Lexer) Next() (Token, error) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.advance(1)
		case c == '/' && l.peekAt(1) == '/':
			l.skipLineComment()
		case c == '/' && l.peekAt(1) == '*':
			if err := l.skipBlockComment(); err != nil {
				return l.cur, err
			}
		default:
			return l.scan()
		}
	}

	l.cur = Token{Type: EOF, Span: l.spanFrom(l.pos, l.line, l.column)}
	return l.cur, nil
}

// Tokens returns a restartable sequence over the tokens of src. Every range
// over the sequence starts a fresh lexer; the sequence ends before EOF.
func Tokens(src string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l := New(src)
		for {
			tok, err := l.Next()
			if tok.Type == EOF {
				return
			}
			if !yield(tok, err) {
				return
			}
		}
	}
}

func (l *Lexer) scan() (Token, error) {
	start, line, column := l.pos, l.line, l.column
	c := l.src[l.pos]

	switch {
	case isLetter(c):
		end := l.pos + 1
		for end < len(l.src) && (isLetter(l.src[end]) || isDigit(l.src[end])) {
			end++
		}
		l.advance(end - l.pos)
		return l.emit(LookupIdent(l.src[start:end]), start, line, column), nil

	case isDigit(c):
		tt, end := l.scanNumber()
		l.advance(end - l.pos)
		return l.emit(tt, start, line, column), nil

	case c == '"':
		return l.scanString()
	}

	if tt, n := l.scanOperator(); n > 0 {
		l.advance(n)
		return l.emit(tt, start, line, column), nil
	}

	// Consume the whole offending rune so multi-byte input is reported once.
	_, width := utf8.DecodeRuneInString(l.src[l.pos:])
	l.advance(width)
	tok := l.emit(ILLEGAL, start, line, column)
	return tok, l.addError(ErrIllegalChar, fmt.Sprintf("illegal character %q", tok.Lexeme), tok.Span)
}

// scanNumber returns the literal kind and end offset of the numeric literal
// starting at l.pos, preferring the longest of the float, unsigned and signed
// integer forms.
func (l *Lexer) scanNumber() (TokenType, int) {
	src := l.src
	i := l.pos
	for i < len(src) && (isDigit(src[i]) || src[i] == '_') {
		i++
	}

	if i+1 < len(src) && src[i] == '.' && isDigit(src[i+1]) {
		end := i + 1
		for end < len(src) && (isDigit(src[end]) || src[end] == '_') {
			end++
		}
		if end < len(src) && (src[end] == 'e' || src[end] == 'E') {
			k := end + 1
			if k < len(src) && (src[k] == '+' || src[k] == '-') {
				k++
			}
			if k < len(src) && isDigit(src[k]) {
				for k < len(src) && (isDigit(src[k]) || src[k] == '_') {
					k++
				}
				end = k
			}
		}
		return FLOAT, end
	}

	// Integer separators are interior only.
	end := i
	for end > l.pos+1 && src[end-1] == '_' {
		end--
	}
	if end < len(src) && src[end] == 'u' {
		return UINT, end + 1
	}
	return INT, end
}

func (l *Lexer) scanString() (Token, error) {
	start, line, column := l.pos, l.line, l.column

	i := l.pos + 1
	for i < len(l.src) {
		switch l.src[i] {
		case '"':
			l.advance(i + 1 - l.pos)
			return l.emit(STRING, start, line, column), nil
		case '\\':
			i += 2
		default:
			i++
		}
	}

	l.advance(len(l.src) - l.pos)
	tok := l.emit(ILLEGAL, start, line, column)
	return tok, l.addError(ErrUnterminatedString, "unterminated string literal", tok.Span)
}

func (l *Lexer) scanOperator() (TokenType, int) {
	c := l.src[l.pos]
	next := l.peekAt(1)

	switch c {
	case '=':
		if next == '=' {
			return EQ, 2
		}
		return ASSIGN, 1
	case '!':
		if next == '=' {
			return NOT_EQ, 2
		}
		return BANG, 1
	case '<':
		if next == '=' {
			return LE, 2
		}
		return LT, 1
	case '>':
		if next == '=' {
			return GE, 2
		}
		return GT, 1
	case '&':
		if next == '&' {
			return AND, 2
		}
	case '|':
		if next == '|' {
			return OR, 2
		}
	case '+':
		return PLUS, 1
	case '-':
		return MINUS, 1
	case '*':
		return ASTERISK, 1
	case '/':
		return SLASH, 1
	case '%':
		return PERCENT, 1
	case '~':
		return TILDE, 1
	case ';':
		return SEMICOLON, 1
	case ':':
		return COLON, 1
	case ',':
		return COMMA, 1
	case '.':
		return DOT, 1
	case '(':
		return LPAREN, 1
	case ')':
		return RPAREN, 1
	case '{':
		return LBRACE, 1
	case '}':
		return RBRACE, 1
	case '[':
		return LBRACKET, 1
	case ']':
		return RBRACKET, 1
	case '@':
		return AT, 1
	}
	return ILLEGAL, 0
}

func (l *Lexer) skipLineComment() {
	end := l.pos
	for end < len(l.src) && l.src[end] != '\n' {
		end++
	}
	l.advance(end - l.pos)
}

// skipBlockComment skips a non-nesting /* ... */ comment.
func (l *Lexer) skipBlockComment() error {
	start, line, column := l.pos, l.line, l.column

	for i := l.pos + 2; i+1 < len(l.src); i++ {
		if l.src[i] == '*' && l.src[i+1] == '/' {
			l.advance(i + 2 - l.pos)
			return nil
		}
	}

	l.advance(len(l.src) - l.pos)
	tok := l.emit(ILLEGAL, start, line, column)
	return l.addError(ErrUnterminatedBlockComment, "unterminated block comment", tok.Span)
}

// advance moves the cursor n bytes forward, keeping line and column in sync.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.src); i++ {
		if l.src[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) emit(tt TokenType, start, line, column int) Token {
	l.cur = Token{
		Type:   tt,
		Lexeme: l.src[start:l.pos],
		Span:   l.spanFrom(start, line, column),
	}
	return l.cur
}

func (l *Lexer) spanFrom(start, line, column int) Span {
	return Span{
		Filename: l.filename,
		Line:     line,
		Column:   column,
		Start:    start,
		End:      l.pos,
	}
}

func (l *Lexer) addError(kind ErrorKind, msg string, span Span) *Error {
	err := &Error{Kind: kind, Message: msg, Span: span}
	l.errors = append(l.errors, err)
	return err
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
